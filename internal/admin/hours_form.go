package admin

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"antiques-directory/internal/models"
)

// clockPattern accepts 24-hour "HH:MM" input, single-digit hour allowed.
var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseHoursForm reads the seven-row hours form into day_hours records.
// Field names follow day_<N>_<field> with N in storage order (0 = Sunday).
// Returned errors are per-field messages for re-rendering the form; the
// records are only usable when the error slice is empty.
func ParseHoursForm(placeID int64, form url.Values) ([]models.DayHours, []string) {
	week := make([]models.DayHours, 7)
	var errs []string

	for d := 0; d < 7; d++ {
		day := models.StorageDay(d)
		rec := models.DayHours{PlaceID: placeID, DayOfWeek: day}

		closed := form.Get(field(d, "closed")) != ""
		appointment := form.Get(field(d, "appointment")) != ""
		open := strings.TrimSpace(form.Get(field(d, "open")))
		close := strings.TrimSpace(form.Get(field(d, "close")))
		notes := strings.TrimSpace(form.Get(field(d, "notes")))

		if closed && appointment {
			errs = append(errs, fmt.Sprintf("%s: closed and by-appointment are mutually exclusive", day.Name()))
		}

		switch {
		case closed:
			// A closed day keeps no times.
			rec.IsClosed = true
		case appointment:
			// An appointment day keeps no times either; the stored week holds
			// times only when neither flag is set. Stray input is dropped.
			rec.IsByAppointment = true
		case open == "" && close == "":
			// No input at all means closed, matching the parser default.
			rec.IsClosed = true
		default:
			o, c, dayErrs := normalizeRange(day, open, close)
			if len(dayErrs) > 0 {
				errs = append(errs, dayErrs...)
			} else {
				rec.OpenTime = &o
				rec.CloseTime = &c
			}
		}

		if notes != "" {
			rec.Notes = &notes
		}
		week[d] = rec
	}

	return week, errs
}

func field(day int, name string) string {
	return fmt.Sprintf("day_%d_%s", day, name)
}

// normalizeRange validates both sides of a time range and zero-pads the hour
// so stored values are always "HH:MM".
func normalizeRange(day models.StorageDay, open, close string) (string, string, []string) {
	var errs []string
	if open == "" || close == "" {
		errs = append(errs, fmt.Sprintf("%s: both open and close times are required", day.Name()))
		return "", "", errs
	}
	o, ok := normalizeClock(open)
	if !ok {
		errs = append(errs, fmt.Sprintf("%s: invalid open time %q", day.Name(), open))
	}
	c, ok := normalizeClock(close)
	if !ok {
		errs = append(errs, fmt.Sprintf("%s: invalid close time %q", day.Name(), close))
	}
	if len(errs) > 0 {
		return "", "", errs
	}
	if o == c {
		errs = append(errs, fmt.Sprintf("%s: open and close times are identical", day.Name()))
		return "", "", errs
	}
	// Close before open is a valid overnight span and passes through.
	return o, c, nil
}

func normalizeClock(s string) (string, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	h := atoi2(m[1])
	min := atoi2(m[2])
	if h > 23 || min > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, min), true
}

// atoi2 parses a one- or two-digit number already matched by clockPattern.
func atoi2(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
