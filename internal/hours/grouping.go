package hours

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"antiques-directory/internal/models"
)

const hoursNotSpecified = "Hours not specified"

// DerivedText returns the display text for a single day record: "Closed",
// "By appointment only", a cleaned "open - close" range, or "Hours not
// specified" when neither flag nor times are present.
func DerivedText(h models.DayHours) string {
	switch {
	case h.IsClosed:
		return noteClosed
	case h.IsByAppointment:
		return noteAppointment
	case h.HasTimes():
		return fmt.Sprintf("%s - %s", StripLeadingZero(*h.OpenTime), StripLeadingZero(*h.CloseTime))
	default:
		return hoursNotSpecified
	}
}

// GroupForDisplay merges consecutive days sharing identical hours text into a
// minimal list of display groups. Days are re-expressed in the Monday-first
// display convention and sorted before grouping, so callers may pass rows in
// any order and with any subset of the week. Empty input yields no groups.
func GroupForDisplay(week []models.DayHours) []models.DisplayGroup {
	if len(week) == 0 {
		return nil
	}

	type dayEntry struct {
		index models.DisplayDay
		text  string
	}
	entries := make([]dayEntry, 0, len(week))
	for _, h := range week {
		if !h.DayOfWeek.Valid() {
			continue
		}
		entries = append(entries, dayEntry{index: h.DayOfWeek.ToDisplay(), text: DerivedText(h)})
	}
	if len(entries) == 0 {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].index < entries[j].index })

	var groups []models.DisplayGroup
	start, end := entries[0].index, entries[0].index
	text := entries[0].text
	for _, e := range entries[1:] {
		if e.text == text && e.index == (end+1)%7 {
			end = e.index
			continue
		}
		groups = append(groups, models.DisplayGroup{DayText: groupLabel(start, end), HoursText: text})
		start, end, text = e.index, e.index, e.text
	}
	groups = append(groups, models.DisplayGroup{DayText: groupLabel(start, end), HoursText: text})
	return groups
}

// groupLabel renders the day label for a finished group: a single day name,
// "A & B" for exactly two consecutive days (wrap-around included), or
// "A to B" for longer runs.
func groupLabel(start, end models.DisplayDay) string {
	switch {
	case start == end:
		return start.Name()
	case end == (start+1)%7:
		return fmt.Sprintf("%s & %s", start.Name(), end.Name())
	default:
		return fmt.Sprintf("%s to %s", start.Name(), end.Name())
	}
}

var timeRangeSidePattern = regexp.MustCompile(`[^\d:]`)

// FormatOpeningHoursToString renders grouped hours as one "day: hours" line
// per group, suitable for storing back into the flat legacy text field that
// the public pages and the importer still read. The structured rows remain
// the source of truth; this output is a denormalized display cache.
func FormatOpeningHoursToString(week []models.DayHours) string {
	var b strings.Builder
	for _, g := range GroupForDisplay(week) {
		b.WriteString(g.DayText)
		b.WriteString(": ")
		b.WriteString(cleanHoursText(g.HoursText))
		b.WriteString("\n")
	}
	return b.String()
}

// cleanHoursText is the cosmetic cleanup applied to legacy output lines:
// known phrases collapse to their canonical form, and time ranges lose any
// stray characters and leading hour zeros. Structured data is never touched.
func cleanHoursText(text string) string {
	if strings.Contains(text, "By appointment") {
		return noteAppointment
	}
	if strings.Contains(text, "Closed") {
		return noteClosed
	}
	if from, to, found := strings.Cut(text, "-"); found {
		open := timeRangeSidePattern.ReplaceAllString(from, "")
		closeT := timeRangeSidePattern.ReplaceAllString(to, "")
		if open != "" && closeT != "" {
			return fmt.Sprintf("%s - %s", stripHourZero(open), stripHourZero(closeT))
		}
	}
	return text
}

// stripHourZero removes a leading zero from the hour component only.
func stripHourZero(t string) string {
	if len(t) > 1 && t[0] == '0' && t[1] != ':' {
		return t[1:]
	}
	return t
}
