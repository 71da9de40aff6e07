// Package render implements the server-side page renderer: literal
// {{PLACEHOLDER}} substitution into the embedded HTML template, with
// per-section fragments built from the date's record.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/onthisday/server/internal/domain/history"
)

const (
	maxEvents = 10
	maxPeople = 6
)

var noData = map[string]string{
	history.LocaleZH: "暂无数据",
	history.LocaleEN: "No data available",
}

// Renderer builds SSR pages. Dataset text is sourced from third parties, so
// every text field is run through a strict sanitizer before it is embedded.
type Renderer struct {
	baseURL string
	policy  *bluemonday.Policy
}

func New(baseURL string) *Renderer {
	return &Renderer{
		baseURL: strings.TrimRight(baseURL, "/"),
		policy:  bluemonday.StrictPolicy(),
	}
}

// Page substitutes the template's placeholders for the given date and
// locale. Placeholders the renderer does not know are left verbatim.
func (rn *Renderer) Page(template string, dateKey string, rec history.Record, locale string) string {
	month, day := history.SplitDateKey(dateKey)
	meta := rn.meta(dateKey, rec, locale)

	urlDate := history.URLDate(month, day)
	pageURL := fmt.Sprintf("%s/history/%s/", rn.baseURL, urlDate)

	pageImage := rn.baseURL + "/og-image.jpg"
	if len(rec.Events) > 0 && rec.Events[0].Image != "" {
		pageImage = rec.Events[0].Image
	}

	events := rn.Events(rec.Events, locale)
	birthdays := rn.People(rec.Birthdays, locale)
	deaths := rn.People(rec.Deaths, locale)

	replacer := strings.NewReplacer(
		"{{PAGE_TITLE}}", meta.title,
		"{{PAGE_DESCRIPTION}}", meta.description,
		"{{PAGE_KEYWORDS}}", meta.keywords,
		"{{PAGE_URL}}", pageURL,
		"{{PAGE_URL_EN}}", pageURL+"?lang="+history.LocaleEN,
		"{{PAGE_IMAGE}}", pageImage,
		"{{DATE_ISO}}", fmt.Sprintf("2024-%02d-%02d", month, day),
		"{{DATE_DISPLAY}}", meta.display,
		"{{DATE_SUBTITLE}}", subtitle(month, day, locale),
		"{{CURRENT_DATE}}", urlDate,
		"{{CURRENT_LANG}}", locale,
		"{{HISTORY_EVENTS_SSR}}", events,
		"{{FAMOUS_BIRTHDAYS_SSR}}", birthdays,
		"{{FAMOUS_DEATHS_SSR}}", deaths,
		"{{SSR_CONTENT}}", events+birthdays+deaths,
	)
	return replacer.Replace(template)
}

// Events renders the first ten events as timeline fragments. Entries without
// an image omit the image block entirely; an empty section renders the
// localized no-data placeholder.
func (rn *Renderer) Events(events []history.Event, locale string) string {
	if len(events) == 0 {
		return rn.placeholder(locale)
	}
	if len(events) > maxEvents {
		events = events[:maxEvents]
	}

	var b strings.Builder
	for _, event := range events {
		description := rn.text(event.Description, locale)
		b.WriteString(`<div class="timeline-event">`)
		fmt.Fprintf(&b, `<span class="event-year">%s</span>`, html.EscapeString(event.Year))
		b.WriteString(`<div class="event-content">`)
		fmt.Fprintf(&b, `<p class="event-description">%s</p>`, description)
		if event.Image != "" {
			fmt.Fprintf(&b, `<div class="event-image"><img src="%s" alt="%s" loading="lazy"></div>`,
				html.EscapeString(event.Image), description)
		}
		b.WriteString(`</div></div>`)
	}
	return b.String()
}

// People renders the first six people as cards, same conventions as Events.
func (rn *Renderer) People(people []history.Person, locale string) string {
	if len(people) == 0 {
		return rn.placeholder(locale)
	}
	if len(people) > maxPeople {
		people = people[:maxPeople]
	}

	var b strings.Builder
	for _, person := range people {
		name := rn.text(person.Name, locale)
		b.WriteString(`<div class="person-card">`)
		if person.Image != "" {
			fmt.Fprintf(&b, `<div class="person-image"><img src="%s" alt="%s" loading="lazy"></div>`,
				html.EscapeString(person.Image), name)
		}
		b.WriteString(`<div class="person-info">`)
		fmt.Fprintf(&b, `<h4 class="person-name">%s</h4>`, name)
		fmt.Fprintf(&b, `<p class="person-years">%s</p>`, html.EscapeString(person.Years))
		fmt.Fprintf(&b, `<p class="person-description">%s</p>`, rn.text(person.Description, locale))
		b.WriteString(`</div></div>`)
	}
	return b.String()
}

func (rn *Renderer) placeholder(locale string) string {
	text, ok := noData[locale]
	if !ok {
		text = noData[history.LocaleZH]
	}
	return fmt.Sprintf(`<p class="no-data">%s</p>`, text)
}

func (rn *Renderer) text(t history.Text, locale string) string {
	return rn.policy.Sanitize(t.Resolve(locale))
}

type pageMeta struct {
	title       string
	description string
	keywords    string
	display     string
}

func (rn *Renderer) meta(dateKey string, rec history.Record, locale string) pageMeta {
	month, day := history.SplitDateKey(dateKey)
	display := history.DisplayDate(month, day, locale)
	totals := rec.Totals()

	if locale == history.LocaleEN {
		return pageMeta{
			title: fmt.Sprintf("%s - Today in History | OnThisDay", display),
			description: fmt.Sprintf(
				"Important historical events that happened on %s, including %d historical events, %d famous birthdays, and %d notable deaths. Explore history, discover the extraordinary.",
				display, totals.Events, totals.Birthdays, totals.Deaths),
			keywords: fmt.Sprintf("%s, historical events, famous birthdays, today in history, history, %s %d",
				display, history.MonthName(month), day),
			display: display,
		}
	}
	return pageMeta{
		title: fmt.Sprintf("%s - 历史上的今天 | OnThisDay", display),
		description: fmt.Sprintf(
			"%s历史上发生的重要事件，包含%d个历史事件、%d位名人生日、%d位名人逝世信息。探索历史，发现精彩。",
			display, totals.Events, totals.Birthdays, totals.Deaths),
		keywords: fmt.Sprintf("%s, 历史事件, 名人生日, 历史上的今天, 历史, %d月%d日", display, month, day),
		display:  display,
	}
}

func subtitle(month, day int, locale string) string {
	weekday := history.Weekday(month, day, locale)
	if locale == history.LocaleEN {
		return fmt.Sprintf("Today is %s, %s %d, 2024", weekday, history.MonthName(month), day)
	}
	return fmt.Sprintf("今天是2024年%d月%d日，%s", month, day, weekday)
}
