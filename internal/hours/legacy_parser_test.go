package hours

import (
	"testing"

	"antiques-directory/internal/models"
)

func day(week []models.DayHours, d models.StorageDay) models.DayHours {
	return week[int(d)]
}

func TestParseLegacyHours_TypicalWeek(t *testing.T) {
	week, skipped := ParseLegacyHours(1, "Mon-Fri: 9am-5pm, Sat: 10-4, Sun: Closed")
	if len(week) != 7 {
		t.Fatalf("expected 7 records, got %d", len(week))
	}
	if len(skipped) != 0 {
		t.Fatalf("expected no skipped segments, got %+v", skipped)
	}

	for d := models.Monday; d <= models.Friday; d++ {
		rec := day(week, d)
		if rec.IsClosed || rec.IsByAppointment {
			t.Fatalf("%s should be open: %+v", d.Name(), rec)
		}
		if *rec.OpenTime != "09:00" || *rec.CloseTime != "17:00" {
			t.Fatalf("%s hours = %s-%s, want 09:00-17:00", d.Name(), *rec.OpenTime, *rec.CloseTime)
		}
	}

	// Bare "10-4" has no am/pm and maps literally; existing data relies on it.
	sat := day(week, models.Saturday)
	if *sat.OpenTime != "10:00" || *sat.CloseTime != "04:00" {
		t.Fatalf("Saturday hours = %s-%s, want 10:00-04:00", *sat.OpenTime, *sat.CloseTime)
	}

	sun := day(week, models.Sunday)
	if !sun.IsClosed {
		t.Fatalf("Sunday should be closed: %+v", sun)
	}
	if sun.Notes == nil || *sun.Notes != "Closed" {
		t.Fatalf("Sunday notes = %v, want Closed", sun.Notes)
	}
}

func TestParseLegacyHours_EmptyText(t *testing.T) {
	for _, text := range []string{"", "   "} {
		week, skipped := ParseLegacyHours(2, text)
		if len(week) != 7 {
			t.Fatalf("expected 7 records for %q, got %d", text, len(week))
		}
		if len(skipped) != 0 {
			t.Fatalf("expected no diagnostics for %q", text)
		}
		for _, rec := range week {
			if !rec.IsClosed {
				t.Fatalf("day %d should default to closed", rec.DayOfWeek)
			}
		}
	}
}

func TestParseLegacyHours_WrapAroundRange(t *testing.T) {
	week, _ := ParseLegacyHours(3, "Fri-Mon: 10am-6pm")
	open := []models.StorageDay{models.Friday, models.Saturday, models.Sunday, models.Monday}
	for _, d := range open {
		if day(week, d).IsClosed {
			t.Errorf("%s should be open", d.Name())
		}
	}
	for _, d := range []models.StorageDay{models.Tuesday, models.Wednesday, models.Thursday} {
		if !day(week, d).IsClosed {
			t.Errorf("%s should stay closed", d.Name())
		}
	}
}

func TestParseLegacyHours_LastWriteWins(t *testing.T) {
	week, _ := ParseLegacyHours(4, "Mon-Sun: 10am-5pm, Wed: Closed, Thu: By appointment")
	if !day(week, models.Wednesday).IsClosed {
		t.Errorf("Wednesday exception should override the range")
	}
	thu := day(week, models.Thursday)
	if !thu.IsByAppointment || thu.IsClosed {
		t.Errorf("Thursday should be appointment-only: %+v", thu)
	}
	if thu.OpenTime != nil || thu.CloseTime != nil {
		t.Errorf("appointment day must not carry times: %+v", thu)
	}
	if mon := day(week, models.Monday); mon.IsClosed || *mon.OpenTime != "10:00" {
		t.Errorf("Monday should keep the range hours: %+v", mon)
	}
}

func TestParseLegacyHours_SkippedSegments(t *testing.T) {
	week, skipped := ParseLegacyHours(5, "gibberish, Mon: whenever, Xyz: 9-5, Tue: 25-26; Wed: 9am-5pm")
	if len(skipped) != 4 {
		t.Fatalf("expected 4 skipped segments, got %+v", skipped)
	}
	// Bad segments leave their days untouched.
	if !day(week, models.Monday).IsClosed {
		t.Errorf("Monday should stay at the closed default")
	}
	if !day(week, models.Tuesday).IsClosed {
		t.Errorf("out-of-range times must not assign hours")
	}
	if wed := day(week, models.Wednesday); wed.IsClosed || *wed.OpenTime != "09:00" {
		t.Errorf("valid segment after bad ones should still apply: %+v", wed)
	}
}

func TestParseLegacyHours_MeridiemConversion(t *testing.T) {
	tests := []struct {
		text      string
		openTime  string
		closeTime string
	}{
		{"Mon: 12am-12pm", "00:00", "12:00"},
		{"Mon: 9:30am-5:45pm", "09:30", "17:45"},
		{"Mon: 8-22", "08:00", "22:00"},
		{"Mon: 10pm-2am", "22:00", "02:00"},
	}

	for _, tt := range tests {
		week, skipped := ParseLegacyHours(6, tt.text)
		if len(skipped) != 0 {
			t.Fatalf("%q: unexpected diagnostics %+v", tt.text, skipped)
		}
		mon := day(week, models.Monday)
		if mon.OpenTime == nil || *mon.OpenTime != tt.openTime || *mon.CloseTime != tt.closeTime {
			t.Errorf("%q parsed to %v-%v, want %s-%s", tt.text, mon.OpenTime, mon.CloseTime, tt.openTime, tt.closeTime)
		}
	}
}
