// Package seo generates sitemap.xml and robots.txt from the set of known
// date keys.
package seo

import (
	"fmt"
	"strings"
	"time"

	"github.com/onthisday/server/internal/domain/history"
)

// Sitemap renders the full sitemap: the landing page plus a zh entry with
// hreflang alternates and an explicit en-US entry for every known date.
func Sitemap(baseURL string, keys []string, now time.Time) string {
	baseURL = strings.TrimRight(baseURL, "/")
	lastmod := now.UTC().Format("2006-01-02")

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"` + "\n")
	b.WriteString(`        xmlns:xhtml="http://www.w3.org/1999/xhtml">` + "\n")

	writeURL(&b, baseURL, lastmod, "daily", "1.0", "")

	for _, key := range keys {
		month, day := history.SplitDateKey(key)
		loc := fmt.Sprintf("%s/history/%s/", baseURL, history.URLDate(month, day))
		writeURL(&b, loc, lastmod, "weekly", "0.8", loc)
		writeURL(&b, loc+"?lang="+history.LocaleEN, lastmod, "weekly", "0.7", "")
	}

	b.WriteString("</urlset>\n")
	return b.String()
}

// writeURL emits one <url> entry. A non-empty alt adds hreflang alternate
// links for both locales, pointing at alt and its ?lang=en-US variant.
func writeURL(b *strings.Builder, loc, lastmod, changefreq, priority, alt string) {
	b.WriteString("    <url>\n")
	fmt.Fprintf(b, "        <loc>%s</loc>\n", loc)
	fmt.Fprintf(b, "        <lastmod>%s</lastmod>\n", lastmod)
	fmt.Fprintf(b, "        <changefreq>%s</changefreq>\n", changefreq)
	fmt.Fprintf(b, "        <priority>%s</priority>\n", priority)
	if alt != "" {
		fmt.Fprintf(b, `        <xhtml:link rel="alternate" hreflang="zh-CN" href="%s" />`+"\n", alt)
		fmt.Fprintf(b, `        <xhtml:link rel="alternate" hreflang="en-US" href="%s?lang=en-US" />`+"\n", alt)
	}
	b.WriteString("    </url>\n")
}

// Robots renders robots.txt: pages crawlable, API blocked, known abusive
// crawlers denied outright.
func Robots(baseURL string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	return fmt.Sprintf(`# OnThisDay - 历史上的今天

User-agent: *
Allow: /
Allow: /history/
Disallow: /api/

Allow: /sitemap.xml
Allow: /robots.txt

Sitemap: %s/sitemap.xml

Crawl-delay: 1

User-agent: Googlebot
Allow: /
Crawl-delay: 1

User-agent: Bingbot
Allow: /
Crawl-delay: 1

User-agent: Baiduspider
Allow: /
Crawl-delay: 2

User-agent: AhrefsBot
Disallow: /

User-agent: MJ12bot
Disallow: /

User-agent: DotBot
Disallow: /
`, baseURL)
}
