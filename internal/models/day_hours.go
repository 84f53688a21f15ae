package models

// StorageDay is the day-of-week convention used in the database and by the
// open-now evaluator: 0 = Sunday .. 6 = Saturday (matches SQL DAYOFWEEK-1 and
// time.Weekday). Never mix with DisplayDay inside one structure.
type StorageDay int

// DisplayDay is the Monday-first convention used only for grouping and
// rendering: 0 = Monday .. 6 = Sunday.
type DisplayDay int

const (
	Sunday StorageDay = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// ToDisplay converts the storage convention to the Monday-first display
// convention. This is the single place the reindexing happens.
func (d StorageDay) ToDisplay() DisplayDay {
	if d == Sunday {
		return DisplayDay(6)
	}
	return DisplayDay(d - 1)
}

// Valid reports whether d is within 0..6.
func (d StorageDay) Valid() bool { return d >= 0 && d <= 6 }

var storageDayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

var displayDayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Name returns the full English day name, or "" for out-of-range values.
func (d StorageDay) Name() string {
	if !d.Valid() {
		return ""
	}
	return storageDayNames[d]
}

// Name returns the full English day name, or "" for out-of-range values.
func (d DisplayDay) Name() string {
	if d < 0 || d > 6 {
		return ""
	}
	return displayDayNames[d]
}

// DayHours is the structured per-day opening-hours record for a place.
// Exactly one row per (place, day-of-week); missing rows are implicit closed
// days. OpenTime/CloseTime hold "HH:MM" 24-hour strings when set. A CloseTime
// numerically earlier than OpenTime is a valid overnight span (e.g. 22:00-02:00).
type DayHours struct {
	ID              int64      `json:"id" db:"id"`
	PlaceID         int64      `json:"place_id" db:"place_id"`
	DayOfWeek       StorageDay `json:"day_of_week" db:"day_of_week"`
	OpenTime        *string    `json:"open_time" db:"open_time"`
	CloseTime       *string    `json:"close_time" db:"close_time"`
	IsClosed        bool       `json:"is_closed" db:"is_closed"`
	IsByAppointment bool       `json:"is_by_appointment" db:"is_by_appointment"`
	Notes           *string    `json:"notes" db:"notes"`
}

// HasTimes reports whether both open and close times are present.
func (h *DayHours) HasTimes() bool {
	return h.OpenTime != nil && h.CloseTime != nil
}

// DisplayGroup is a merged run of consecutive days sharing identical derived
// hours text. Derived and ephemeral; never persisted.
type DisplayGroup struct {
	DayText   string `json:"day_text"`
	HoursText string `json:"hours_text"`
}
