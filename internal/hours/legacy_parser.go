package hours

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"antiques-directory/internal/models"
)

// SkippedSegment records one piece of legacy hours text the parser could not
// use, together with the reason. Parsing stays lenient either way; the list
// exists so the admin form and the importer can surface what was dropped.
type SkippedSegment struct {
	Segment string `json:"segment"`
	Reason  string `json:"reason"`
}

// dayNames maps lower-cased day names and their common abbreviations onto the
// storage convention (0 = Sunday .. 6 = Saturday).
var dayNames = map[string]models.StorageDay{
	"sun": models.Sunday, "sunday": models.Sunday,
	"mon": models.Monday, "monday": models.Monday,
	"tue": models.Tuesday, "tues": models.Tuesday, "tuesday": models.Tuesday,
	"wed": models.Wednesday, "weds": models.Wednesday, "wednesday": models.Wednesday,
	"thu": models.Thursday, "thur": models.Thursday, "thurs": models.Thursday, "thursday": models.Thursday,
	"fri": models.Friday, "friday": models.Friday,
	"sat": models.Saturday, "saturday": models.Saturday,
}

// timeRangePattern matches ranges like "9am-5pm", "9:30 - 17:00", "10-4".
var timeRangePattern = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s*-\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)

var segmentSplitPattern = regexp.MustCompile(`[,;]`)

const (
	noteClosed      = "Closed"
	noteAppointment = "By appointment only"
)

// ParseLegacyHours parses a free-text opening-hours field such as
// "Mon-Fri: 9am-5pm, Sat: 10-4, Sun: Closed" into exactly seven DayHours
// records, one per storage day. Every day starts closed; segments that cannot
// be understood are skipped and reported, never fatal. Later segments
// overwrite earlier ones for the same day, so exceptions can follow a broad
// range ("Mon-Sun: 10-5, Wed: Closed").
//
// Times without an am/pm suffix are taken literally: "10-4" is 10:00-04:00.
// Upstream data was entered against that behaviour, so it is kept.
func ParseLegacyHours(placeID int64, text string) ([]models.DayHours, []SkippedSegment) {
	week := make([]models.DayHours, 7)
	for i := range week {
		week[i] = models.DayHours{
			PlaceID:   placeID,
			DayOfWeek: models.StorageDay(i),
			IsClosed:  true,
		}
	}

	if strings.TrimSpace(text) == "" {
		return week, nil
	}

	var skipped []SkippedSegment
	for _, raw := range segmentSplitPattern.Split(text, -1) {
		segment := strings.TrimSpace(raw)
		if segment == "" {
			continue
		}

		parts := strings.SplitN(segment, ":", 2)
		if len(parts) != 2 {
			skipped = append(skipped, SkippedSegment{Segment: segment, Reason: "missing day/time separator"})
			continue
		}

		days, ok := resolveDaySpec(parts[0])
		if !ok {
			skipped = append(skipped, SkippedSegment{Segment: segment, Reason: "unrecognized day name"})
			continue
		}

		timeSpec := strings.TrimSpace(parts[1])
		lower := strings.ToLower(timeSpec)
		switch {
		case strings.Contains(lower, "closed"):
			for _, d := range days {
				note := noteClosed
				week[d] = models.DayHours{PlaceID: placeID, DayOfWeek: d, IsClosed: true, Notes: &note}
			}
		case strings.Contains(lower, "appointment"):
			for _, d := range days {
				note := noteAppointment
				week[d] = models.DayHours{PlaceID: placeID, DayOfWeek: d, IsByAppointment: true, Notes: &note}
			}
		default:
			open, closeT, ok := parseTimeRange(timeSpec)
			if !ok {
				skipped = append(skipped, SkippedSegment{Segment: segment, Reason: "unrecognized time range"})
				continue
			}
			for _, d := range days {
				o, c := open, closeT
				week[d] = models.DayHours{PlaceID: placeID, DayOfWeek: d, OpenTime: &o, CloseTime: &c}
			}
		}
	}

	return week, skipped
}

// resolveDaySpec resolves a single day name or an inclusive "A-B" range into
// storage days. Ranges expand in calendar order and wrap past Saturday back
// to Sunday ("Fri-Mon" is Fri, Sat, Sun, Mon).
func resolveDaySpec(spec string) ([]models.StorageDay, bool) {
	spec = strings.ToLower(strings.TrimSpace(spec))
	if spec == "" {
		return nil, false
	}

	if from, to, found := strings.Cut(spec, "-"); found {
		start, ok1 := dayNames[strings.TrimSpace(from)]
		end, ok2 := dayNames[strings.TrimSpace(to)]
		if !ok1 || !ok2 {
			return nil, false
		}
		days := []models.StorageDay{start}
		for d := start; d != end; {
			d = (d + 1) % 7
			days = append(days, d)
		}
		return days, true
	}

	day, ok := dayNames[spec]
	if !ok {
		return nil, false
	}
	return []models.StorageDay{day}, true
}

// parseTimeRange matches "open - close" where each side is an hour with
// optional minutes and optional am/pm, and converts both to 24-hour "HH:MM".
func parseTimeRange(spec string) (open, closeT string, ok bool) {
	m := timeRangePattern.FindStringSubmatch(spec)
	if m == nil {
		return "", "", false
	}
	open, ok = to24Hour(m[1], m[2], m[3])
	if !ok {
		return "", "", false
	}
	closeT, ok = to24Hour(m[4], m[5], m[6])
	if !ok {
		return "", "", false
	}
	return open, closeT, true
}

// to24Hour converts matched hour/minute/meridiem groups to "HH:MM". Values
// outside 0-23 hours or 0-59 minutes are rejected.
func to24Hour(hourStr, minuteStr, meridiem string) (string, bool) {
	h, err := strconv.Atoi(hourStr)
	if err != nil {
		return "", false
	}
	m := 0
	if minuteStr != "" {
		m, err = strconv.Atoi(minuteStr)
		if err != nil {
			return "", false
		}
	}

	switch strings.ToLower(meridiem) {
	case "pm":
		if h < 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}

	if h < 0 || h > 23 || m < 0 || m > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}
