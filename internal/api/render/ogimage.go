package render

import (
	"fmt"

	"github.com/onthisday/server/internal/domain/history"
)

// OGImage builds the 1200x630 social-share SVG for a date. Browsers render
// SVG in link previews, so no raster conversion happens server-side.
func OGImage(dateKey, locale string) string {
	month, day := history.SplitDateKey(dateKey)

	var dateDisplay, title, subtitle string
	if locale == history.LocaleEN {
		dateDisplay = fmt.Sprintf("%s %d", history.LocalMonthName(month, locale), day)
		title = dateDisplay + " - Today in History"
		subtitle = "Explore History, Discover the Extraordinary"
	} else {
		dateDisplay = fmt.Sprintf("%d月%d日", month, day)
		title = dateDisplay + " - 历史上的今天"
		subtitle = "探索历史，发现精彩"
	}

	return fmt.Sprintf(`<svg width="1200" height="630" xmlns="http://www.w3.org/2000/svg">
    <defs>
        <linearGradient id="bg" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
            <stop offset="0%%" style="stop-color:#667eea;stop-opacity:1" />
            <stop offset="100%%" style="stop-color:#764ba2;stop-opacity:1" />
        </linearGradient>
        <filter id="shadow" x="-20%%" y="-20%%" width="140%%" height="140%%">
            <feDropShadow dx="2" dy="4" stdDeviation="3" flood-color="rgba(0,0,0,0.3)"/>
        </filter>
    </defs>

    <rect width="1200" height="630" fill="url(#bg)"/>

    <circle cx="100" cy="100" r="60" fill="rgba(255,255,255,0.1)"/>
    <circle cx="1100" cy="530" r="80" fill="rgba(255,255,255,0.1)"/>
    <circle cx="200" cy="530" r="40" fill="rgba(255,255,255,0.1)"/>

    <rect x="80" y="120" width="1040" height="390" rx="20" fill="rgba(255,255,255,0.95)" filter="url(#shadow)"/>

    <text x="120" y="180" font-family="Arial, sans-serif" font-size="32" font-weight="bold" fill="#2d3748">OnThisDay</text>

    <text x="120" y="260" font-family="Arial, sans-serif" font-size="64" font-weight="bold" fill="#1a202c">%s</text>

    <text x="120" y="320" font-family="Arial, sans-serif" font-size="28" fill="#4a5568">%s</text>

    <rect x="120" y="360" width="200" height="60" rx="30" fill="#667eea"/>
    <text x="220" y="400" font-family="Arial, sans-serif" font-size="24" font-weight="bold" fill="white" text-anchor="middle">%s</text>

    <rect x="120" y="450" width="960" height="4" fill="#e2e8f0"/>
    <circle cx="140" cy="452" r="8" fill="#667eea"/>
    <circle cx="1080" cy="452" r="8" fill="#764ba2"/>
</svg>`, title, subtitle, dateDisplay)
}
