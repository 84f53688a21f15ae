package hours

import (
	"testing"
	"time"

	"antiques-directory/internal/models"
)

// at builds an instant on a known week (Mon 2024-03-18 .. Sun 2024-03-24) so
// tests can pick the weekday they need.
func at(d models.StorageDay, hour, min int) time.Time {
	// 2024-03-17 was a Sunday; offset by the storage day index.
	return time.Date(2024, time.March, 17+int(d), hour, min, 0, 0, time.UTC)
}

func fullWeek(open, closeT string) []models.DayHours {
	var week []models.DayHours
	for d := models.Sunday; d <= models.Saturday; d++ {
		week = append(week, openDay(d, open, closeT))
	}
	return week
}

func TestIsOpenNow_SameDaySpan(t *testing.T) {
	week := fullWeek("09:00", "17:00")
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before opening", at(models.Monday, 8, 59), false},
		{"open boundary is inclusive", at(models.Monday, 9, 0), true},
		{"midday", at(models.Monday, 12, 30), true},
		{"close boundary is exclusive", at(models.Monday, 17, 0), false},
		{"evening", at(models.Monday, 21, 0), false},
	}
	for _, tt := range tests {
		if got := IsOpenNow(week, tt.now); got != tt.want {
			t.Errorf("%s: IsOpenNow = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsOpenNow_OvernightSpan(t *testing.T) {
	week := fullWeek("22:00", "02:00")
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"late evening", at(models.Monday, 23, 30), true},
		{"small hours next calendar day", at(models.Tuesday, 1, 30), true},
		{"after close", at(models.Tuesday, 3, 0), false},
		{"afternoon", at(models.Monday, 15, 0), false},
		{"at opening", at(models.Monday, 22, 0), true},
		{"close boundary is exclusive", at(models.Tuesday, 2, 0), false},
	}
	for _, tt := range tests {
		if got := IsOpenNow(week, tt.now); got != tt.want {
			t.Errorf("%s: IsOpenNow = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsOpenNow_DegradesToClosed(t *testing.T) {
	noon := at(models.Monday, 12, 0)

	if IsOpenNow(nil, noon) {
		t.Error("no records must mean closed")
	}

	missingDay := []models.DayHours{openDay(models.Tuesday, "09:00", "17:00")}
	if IsOpenNow(missingDay, noon) {
		t.Error("absent day record must mean closed")
	}

	unspecified := []models.DayHours{{DayOfWeek: models.Monday}}
	if IsOpenNow(unspecified, noon) {
		t.Error("record without flags or times must mean closed")
	}

	malformed := []models.DayHours{openDay(models.Monday, "late", "later")}
	if IsOpenNow(malformed, noon) {
		t.Error("malformed times must mean closed, not panic")
	}
}

func TestIsOpenNow_AppointmentExclusivity(t *testing.T) {
	// Stray times on an appointment day must not make it "open".
	week := []models.DayHours{{
		DayOfWeek:       models.Monday,
		IsByAppointment: true,
		OpenTime:        strPtr("09:00"),
		CloseTime:       strPtr("17:00"),
	}}

	for _, now := range []time.Time{at(models.Monday, 0, 1), at(models.Monday, 12, 0), at(models.Monday, 23, 59)} {
		if IsOpenNow(week, now) {
			t.Errorf("appointment-only day reported open at %v", now)
		}
		if !IsAppointmentOnlyNow(week, now) {
			t.Errorf("appointment flag not reported at %v", now)
		}
	}

	if IsAppointmentOnlyNow(week, at(models.Tuesday, 12, 0)) {
		t.Error("appointment flag must not leak onto other days")
	}
}

func TestClosesWithin(t *testing.T) {
	week := fullWeek("09:00", "17:00")
	tests := []struct {
		name      string
		now       time.Time
		threshold int
		want      bool
	}{
		{"well before close", at(models.Monday, 12, 0), 30, false},
		{"inside threshold", at(models.Monday, 16, 40), 30, true},
		{"exactly threshold away", at(models.Monday, 16, 30), 30, true},
		{"after close", at(models.Monday, 17, 30), 30, false},
		{"zero threshold", at(models.Monday, 16, 40), 0, false},
	}
	for _, tt := range tests {
		if got := ClosesWithin(week, tt.now, tt.threshold); got != tt.want {
			t.Errorf("%s: ClosesWithin = %v, want %v", tt.name, got, tt.want)
		}
	}

	// The remaining-minutes subtraction is naive about overnight spans: once
	// past midnight the close time has numerically passed and no closing-soon
	// state is reported even while the place is open.
	overnight := fullWeek("22:00", "02:00")
	if ClosesWithin(overnight, at(models.Tuesday, 23, 45), 30) {
		t.Error("overnight span before midnight must not report closing soon")
	}
	if !ClosesWithin(overnight, at(models.Tuesday, 1, 45), 30) {
		t.Error("small-hours portion still measures against today's close time")
	}
}
