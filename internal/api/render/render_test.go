package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onthisday/server/internal/domain/history"
)

func testRecord() history.Record {
	return history.Record{
		Events: []history.Event{
			{Year: "1944", Description: history.Localized(map[string]string{
				history.LocaleZH: "巴黎解放",
				history.LocaleEN: "Liberation of Paris",
			}), Image: "https://example.com/paris.jpg"},
			{Year: "1991", Description: history.Plain("Linux announced")},
		},
		Birthdays: []history.Person{
			{Name: history.Plain("Sean Connery"), Years: "1930-2020", Description: history.Plain("Actor")},
		},
		Deaths: []history.Person{},
	}
}

func TestPageSubstitution(t *testing.T) {
	rn := New("https://onthisday.app")
	template := `<title>{{PAGE_TITLE}}</title>` +
		`<link rel="canonical" href="{{PAGE_URL}}">` +
		`<html lang="{{CURRENT_LANG}}" data-date="{{CURRENT_DATE}}">` +
		`<time datetime="{{DATE_ISO}}">{{DATE_DISPLAY}}</time>` +
		`<p>{{DATE_SUBTITLE}}</p>` +
		`<section>{{HISTORY_EVENTS_SSR}}</section>` +
		`<section>{{FAMOUS_DEATHS_SSR}}</section>` +
		`{{UNKNOWN_PLACEHOLDER}}`

	out := rn.Page(template, "08-25", testRecord(), history.LocaleZH)

	assert.Contains(t, out, "<title>8月25日 - 历史上的今天 | OnThisDay</title>")
	assert.Contains(t, out, `href="https://onthisday.app/history/August-25/"`)
	assert.Contains(t, out, `lang="zh-CN"`)
	assert.Contains(t, out, `data-date="August-25"`)
	assert.Contains(t, out, `datetime="2024-08-25"`)
	assert.Contains(t, out, "巴黎解放")
	// 2024-08-25 is a Sunday.
	assert.Contains(t, out, "今天是2024年8月25日，星期日")
	// Empty deaths section renders the localized placeholder.
	assert.Contains(t, out, "暂无数据")
	// Unrecognized placeholders survive verbatim.
	assert.Contains(t, out, "{{UNKNOWN_PLACEHOLDER}}")
}

func TestPageEnglish(t *testing.T) {
	rn := New("https://onthisday.app")
	out := rn.Page("{{PAGE_TITLE}}|{{DATE_SUBTITLE}}|{{FAMOUS_DEATHS_SSR}}", "08-25", testRecord(), history.LocaleEN)

	assert.Contains(t, out, "AUGUST 25 - Today in History | OnThisDay")
	assert.Contains(t, out, "Today is Sunday, August 25, 2024")
	assert.Contains(t, out, "No data available")
}

func TestPageImageFromFirstEvent(t *testing.T) {
	rn := New("https://onthisday.app")

	out := rn.Page("{{PAGE_IMAGE}}", "08-25", testRecord(), history.LocaleZH)
	assert.Equal(t, "https://example.com/paris.jpg", out)

	out = rn.Page("{{PAGE_IMAGE}}", "08-25", history.EmptyRecord(), history.LocaleZH)
	assert.Equal(t, "https://onthisday.app/og-image.jpg", out)
}

func TestEventsLimitAndImages(t *testing.T) {
	rn := New("https://onthisday.app")

	var events []history.Event
	for i := 0; i < 15; i++ {
		events = append(events, history.Event{
			Year:        fmt.Sprintf("%d", 1900+i),
			Description: history.Plain(fmt.Sprintf("event %d", i)),
		})
	}
	out := rn.Events(events, history.LocaleEN)
	assert.Equal(t, 10, strings.Count(out, `class="timeline-event"`))
	assert.NotContains(t, out, "event 10")
	// No image blocks when entries carry no image.
	assert.NotContains(t, out, "event-image")

	out = rn.Events(testRecord().Events, history.LocaleEN)
	assert.Contains(t, out, `src="https://example.com/paris.jpg"`)
	assert.Contains(t, out, "Liberation of Paris")
}

func TestPeopleLimit(t *testing.T) {
	rn := New("https://onthisday.app")

	var people []history.Person
	for i := 0; i < 9; i++ {
		people = append(people, history.Person{
			Name:  history.Plain(fmt.Sprintf("person %d", i)),
			Years: "1900-1980",
		})
	}
	out := rn.People(people, history.LocaleZH)
	assert.Equal(t, 6, strings.Count(out, `class="person-card"`))
	assert.NotContains(t, out, "person 6")
}

func TestSanitizesDatasetText(t *testing.T) {
	rn := New("https://onthisday.app")
	events := []history.Event{
		{Year: "2000", Description: history.Plain(`<script>alert(1)</script>millennium`)},
	}
	out := rn.Events(events, history.LocaleZH)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "millennium")
}

func TestOGImage(t *testing.T) {
	svg := OGImage("08-25", history.LocaleZH)
	require.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, `width="1200" height="630"`)
	assert.Contains(t, svg, "8月25日 - 历史上的今天")
	assert.Contains(t, svg, "探索历史，发现精彩")

	svg = OGImage("12-01", history.LocaleEN)
	assert.Contains(t, svg, "December 1 - Today in History")
	assert.Contains(t, svg, "Explore History, Discover the Extraordinary")
}
