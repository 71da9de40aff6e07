package history

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateKeyPattern is the canonical MM-DD validation. Month 01-12, day 01-31.
// Day validity is not checked against month length, so "02-30" passes; this
// matches the behavior the public API has always shipped with.
var dateKeyPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)

// ErrBadURLDate means a MonthName-DD path segment could not be parsed. It is
// distinct from "well-formed date with no data".
var ErrBadURLDate = errors.New("invalid date format, use Month-DD (e.g. August-21)")

var englishMonths = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var chineseMonths = [12]string{
	"一月", "二月", "三月", "四月", "五月", "六月",
	"七月", "八月", "九月", "十月", "十一月", "十二月",
}

var weekdays = map[string][7]string{
	LocaleZH: {"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"},
	LocaleEN: {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
}

// ValidDateKey reports whether key is a canonical MM-DD date key.
func ValidDateKey(key string) bool {
	return dateKeyPattern.MatchString(key)
}

// DateKey builds the canonical zero-padded MM-DD key. All store lookups must
// go through this form.
func DateKey(month, day int) string {
	return fmt.Sprintf("%02d-%02d", month, day)
}

// TodayKey returns the date key for the given instant in local time.
func TodayKey(now time.Time) string {
	return DateKey(int(now.Month()), now.Day())
}

// SplitDateKey returns the numeric month and day of a valid MM-DD key.
func SplitDateKey(key string) (month, day int) {
	month, _ = strconv.Atoi(key[:2])
	day, _ = strconv.Atoi(key[3:])
	return month, day
}

// MonthName returns the English month name for 1-based month.
func MonthName(month int) string {
	return englishMonths[month-1]
}

// URLDate formats the SEO-friendly MonthName-D path segment, e.g. "August-21".
func URLDate(month, day int) string {
	return fmt.Sprintf("%s-%d", englishMonths[month-1], day)
}

// ParseURLDate parses a MonthName-DD path segment (case-insensitive English
// month name) into a canonical date key. A plain MM-DD key is accepted too so
// legacy links keep working.
func ParseURLDate(s string) (string, error) {
	if ValidDateKey(s) {
		return s, nil
	}
	name, dayStr, ok := strings.Cut(s, "-")
	if !ok {
		return "", ErrBadURLDate
	}
	month := 0
	for i, m := range englishMonths {
		if strings.EqualFold(m, name) {
			month = i + 1
			break
		}
	}
	if month == 0 {
		return "", ErrBadURLDate
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return "", ErrBadURLDate
	}
	return DateKey(month, day), nil
}

// DisplayDate renders the human date heading: "8月21日" for zh-CN,
// "AUGUST 21" for en-US.
func DisplayDate(month, day int, locale string) string {
	if locale == LocaleEN {
		return fmt.Sprintf("%s %d", strings.ToUpper(englishMonths[month-1]), day)
	}
	return fmt.Sprintf("%d月%d日", month, day)
}

// LocalMonthName returns the month name in the requested locale.
func LocalMonthName(month int, locale string) string {
	if locale == LocaleEN {
		return englishMonths[month-1]
	}
	return chineseMonths[month-1]
}

// Weekday returns the localized weekday name for the given date in the
// reference year used for page rendering.
func Weekday(month, day int, locale string) string {
	names, ok := weekdays[locale]
	if !ok {
		names = weekdays[LocaleZH]
	}
	// Reference year 2024 keeps weekday rendering stable for a yearless date.
	d := time.Date(2024, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return names[int(d.Weekday())]
}
