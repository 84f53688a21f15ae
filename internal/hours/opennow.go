package hours

import (
	"strconv"
	"strings"
	"time"

	"antiques-directory/internal/models"
)

// IsOpenNow reports whether a place with the given day records is open at the
// reference instant. Today is resolved with the storage convention
// (time.Weekday, 0 = Sunday). Appointment-only days are not "open" for this
// predicate, and any missing or malformed data degrades to closed rather than
// erroring; this feeds a public storefront page.
//
// A close time numerically earlier than the open time is an overnight span:
// open when now is at/after opening or strictly before closing.
func IsOpenNow(week []models.DayHours, now time.Time) bool {
	today, ok := todayRecord(week, now)
	if !ok || today.IsClosed || today.IsByAppointment || !today.HasTimes() {
		return false
	}

	openMin, ok1 := minutesOfDay(*today.OpenTime)
	closeMin, ok2 := minutesOfDay(*today.CloseTime)
	if !ok1 || !ok2 {
		return false
	}

	nowMin := now.Hour()*60 + now.Minute()
	if closeMin < openMin {
		return nowMin >= openMin || nowMin < closeMin
	}
	return nowMin >= openMin && nowMin < closeMin
}

// ClosesWithin reports whether the place is open and its close time falls
// within the next thresholdMinutes. The remaining time is measured against
// today's close time as-is: for an overnight span whose close has numerically
// passed midnight the subtraction goes negative and no closing-soon state is
// reported.
func ClosesWithin(week []models.DayHours, now time.Time, thresholdMinutes int) bool {
	if !IsOpenNow(week, now) {
		return false
	}
	today, ok := todayRecord(week, now)
	if !ok || today.CloseTime == nil {
		return false
	}
	closeMin, ok := minutesOfDay(*today.CloseTime)
	if !ok {
		return false
	}
	remaining := closeMin - (now.Hour()*60 + now.Minute())
	return remaining > 0 && remaining <= thresholdMinutes
}

// IsAppointmentOnlyNow reports whether today's record is appointment-only.
// The flag covers the whole day; time-of-day does not matter.
func IsAppointmentOnlyNow(week []models.DayHours, now time.Time) bool {
	today, ok := todayRecord(week, now)
	return ok && today.IsByAppointment
}

// todayRecord finds the record matching now's day-of-week, if any.
func todayRecord(week []models.DayHours, now time.Time) (models.DayHours, bool) {
	day := models.StorageDay(now.Weekday())
	for _, h := range week {
		if h.DayOfWeek == day {
			return h, true
		}
	}
	return models.DayHours{}, false
}

// minutesOfDay converts an "HH:MM" string to minutes since midnight.
func minutesOfDay(t string) (int, bool) {
	h, m, found := strings.Cut(t, ":")
	if !found {
		return 0, false
	}
	hour, err1 := strconv.Atoi(strings.TrimSpace(h))
	minute, err2 := strconv.Atoi(strings.TrimSpace(m))
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}
