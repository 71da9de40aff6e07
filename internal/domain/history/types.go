package history

import (
	"encoding/json"
	"fmt"
)

// Supported locale tags. The dataset carries both variants for most text
// fields; older entries may hold a single plain string instead.
const (
	LocaleZH = "zh-CN"
	LocaleEN = "en-US"
)

// Text is a tagged union over the two wire shapes a description or name can
// take: a plain string, or a per-locale mapping. All locale resolution goes
// through Resolve so the fallback chain lives in exactly one place.
type Text struct {
	plain     string
	localized map[string]string
}

// Plain returns a Text holding a single unlocalized string.
func Plain(s string) Text {
	return Text{plain: s}
}

// Localized returns a Text holding a locale → string mapping.
func Localized(m map[string]string) Text {
	return Text{localized: m}
}

// Resolve returns the variant for the requested locale, falling back
// zh-CN → en-US → plain value, matching the lookup order the site has
// always used. Returns "" only when the Text is empty in every variant.
func (t Text) Resolve(locale string) string {
	if t.localized != nil {
		if v, ok := t.localized[locale]; ok && v != "" {
			return v
		}
		if v, ok := t.localized[LocaleZH]; ok && v != "" {
			return v
		}
		if v, ok := t.localized[LocaleEN]; ok && v != "" {
			return v
		}
	}
	return t.plain
}

// IsZero reports whether the Text carries no content in any variant.
func (t Text) IsZero() bool {
	return t.plain == "" && len(t.localized) == 0
}

// UnmarshalJSON accepts either a JSON string or an object of locale tags.
func (t *Text) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text{plain: s}
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("text must be a string or a locale map: %w", err)
	}
	*t = Text{localized: m}
	return nil
}

// MarshalJSON preserves the wire polymorphism so API responses are
// byte-compatible with the dataset the clients already consume.
func (t Text) MarshalJSON() ([]byte, error) {
	if t.localized != nil {
		return json.Marshal(t.localized)
	}
	return json.Marshal(t.plain)
}

// Event is a single historical event on a given calendar day.
type Event struct {
	Year        string `json:"year"`
	Description Text   `json:"description"`
	Image       string `json:"image,omitempty"`
}

// Person is a notable birth or death on a given calendar day.
type Person struct {
	Name        Text   `json:"name"`
	Years       string `json:"years"`
	Description Text   `json:"description"`
	Image       string `json:"image,omitempty"`
}

// Record holds everything known for one MM-DD date key. The three slices are
// always non-nil so JSON encodings carry empty arrays rather than null.
type Record struct {
	Events    []Event  `json:"events"`
	Birthdays []Person `json:"birthdays"`
	Deaths    []Person `json:"deaths"`
}

// EmptyRecord returns the well-formed zero-content record the API hands out
// for dates with no data.
func EmptyRecord() Record {
	return Record{
		Events:    []Event{},
		Birthdays: []Person{},
		Deaths:    []Person{},
	}
}

// Totals summarizes a record's section sizes for response envelopes.
type Totals struct {
	Events    int `json:"events"`
	Birthdays int `json:"birthdays"`
	Deaths    int `json:"deaths"`
}

// Totals returns the per-section counts.
func (r Record) Totals() Totals {
	return Totals{
		Events:    len(r.Events),
		Birthdays: len(r.Birthdays),
		Deaths:    len(r.Deaths),
	}
}

// IsEmpty reports whether the record has no content in any section.
func (r Record) IsEmpty() bool {
	return len(r.Events) == 0 && len(r.Birthdays) == 0 && len(r.Deaths) == 0
}
