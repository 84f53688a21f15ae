// Package hours implements the opening-hours domain logic for the directory:
// parsing free-text hours into structured per-day records, grouping days for
// display, and computing open/closed/closing-soon state. Everything here is
// pure and side-effect free; "now" is always a parameter.
package hours

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	time24Pattern      = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	leadingZeroPattern = regexp.MustCompile(`(^|[^\d:])0(\d)`)
)

// FormatTimeFor12Hour converts a 24-hour "HH:MM" string to a compact 12-hour
// form: "09:00" -> "9AM", "14:30" -> "2:30PM", "00:15" -> "12:15AM". Minutes
// are omitted entirely when zero and there is no space before AM/PM.
// Input that does not look like HH:MM is returned unchanged; legacy rows
// contain arbitrary text and the display must not break on them.
func FormatTimeFor12Hour(time24 string) string {
	m := time24Pattern.FindStringSubmatch(strings.TrimSpace(time24))
	if m == nil {
		return time24
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h > 23 || min > 59 {
		return time24
	}

	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	switch {
	case h == 0:
		h = 12
	case h > 12:
		h -= 12
	}

	if min == 0 {
		return fmt.Sprintf("%d%s", h, suffix)
	}
	return fmt.Sprintf("%d:%02d%s", h, min, suffix)
}

// StripLeadingZero cleans spurious leading zeros from the hour digits of
// time-like text: "09:00 - 05:00" -> "9:00 - 5:00". Minute digits are kept
// as-is. The literal phrases "Closed" and "By appointment only" are returned
// verbatim regardless of any surrounding noise.
func StripLeadingZero(text string) string {
	if strings.Contains(text, "By appointment") {
		return "By appointment only"
	}
	if strings.Contains(text, "Closed") {
		return "Closed"
	}
	return leadingZeroPattern.ReplaceAllString(text, "${1}${2}")
}
