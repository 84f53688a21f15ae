package admin

import (
	"net/url"
	"strings"
	"testing"

	"antiques-directory/internal/models"
)

func TestParseHoursForm_FullWeek(t *testing.T) {
	form := url.Values{}
	for d := 1; d <= 5; d++ {
		form.Set(field(d, "open"), "9:00")
		form.Set(field(d, "close"), "17:30")
	}
	form.Set(field(6, "open"), "10:00")
	form.Set(field(6, "close"), "16:00")
	form.Set(field(0, "closed"), "on")

	week, errs := ParseHoursForm(7, form)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(week) != 7 {
		t.Fatalf("expected 7 records, got %d", len(week))
	}

	if !week[0].IsClosed {
		t.Error("Sunday should be closed")
	}
	for d := 1; d <= 5; d++ {
		rec := week[d]
		if rec.PlaceID != 7 || rec.DayOfWeek != models.StorageDay(d) {
			t.Errorf("day %d: wrong identity %+v", d, rec)
		}
		if rec.OpenTime == nil || *rec.OpenTime != "09:00" {
			t.Errorf("day %d: open = %v, want 09:00 (hour zero padded)", d, rec.OpenTime)
		}
		if rec.CloseTime == nil || *rec.CloseTime != "17:30" {
			t.Errorf("day %d: close = %v, want 17:30", d, rec.CloseTime)
		}
	}
}

func TestParseHoursForm_EmptyDayDefaultsClosed(t *testing.T) {
	week, errs := ParseHoursForm(1, url.Values{})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	for _, rec := range week {
		if !rec.IsClosed {
			t.Errorf("%s: empty input should default to closed", rec.DayOfWeek.Name())
		}
	}
}

func TestParseHoursForm_FlagExclusivity(t *testing.T) {
	form := url.Values{}
	form.Set(field(2, "closed"), "on")
	form.Set(field(2, "appointment"), "on")

	_, errs := ParseHoursForm(1, form)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !strings.Contains(errs[0], "Tuesday") || !strings.Contains(errs[0], "mutually exclusive") {
		t.Errorf("unexpected error message: %q", errs[0])
	}
}

func TestParseHoursForm_Validation(t *testing.T) {
	tests := []struct {
		name    string
		open    string
		close   string
		wantErr string
	}{
		{"missing close", "9:00", "", "both open and close"},
		{"bad open", "9am", "17:00", "invalid open time"},
		{"hour out of range", "25:00", "17:00", "invalid open time"},
		{"minute out of range", "09:61", "17:00", "invalid open time"},
		{"identical times", "9:00", "09:00", "identical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			form.Set(field(3, "open"), tt.open)
			form.Set(field(3, "close"), tt.close)

			_, errs := ParseHoursForm(1, form)
			if len(errs) == 0 {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(errs[0], tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", errs[0], tt.wantErr)
			}
		})
	}
}

func TestParseHoursForm_OvernightAllowed(t *testing.T) {
	form := url.Values{}
	form.Set(field(5, "open"), "22:00")
	form.Set(field(5, "close"), "02:00")

	week, errs := ParseHoursForm(1, form)
	if len(errs) != 0 {
		t.Fatalf("overnight span should validate, got %v", errs)
	}
	if *week[5].OpenTime != "22:00" || *week[5].CloseTime != "02:00" {
		t.Errorf("overnight times mangled: %v - %v", *week[5].OpenTime, *week[5].CloseTime)
	}
}

func TestParseHoursForm_FlagsClearTimes(t *testing.T) {
	form := url.Values{}
	form.Set(field(4, "appointment"), "on")
	form.Set(field(4, "open"), "10:00")
	form.Set(field(4, "close"), "15:00")
	form.Set(field(0, "closed"), "on")
	form.Set(field(0, "open"), "09:00")
	form.Set(field(0, "close"), "17:00")

	week, errs := ParseHoursForm(1, form)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	appt := week[4]
	if !appt.IsByAppointment || appt.IsClosed {
		t.Fatalf("flags wrong: %+v", appt)
	}
	if appt.OpenTime != nil || appt.CloseTime != nil {
		t.Errorf("appointment day must store no times, got %v - %v", appt.OpenTime, appt.CloseTime)
	}

	closed := week[0]
	if !closed.IsClosed {
		t.Fatalf("flags wrong: %+v", closed)
	}
	if closed.OpenTime != nil || closed.CloseTime != nil {
		t.Errorf("closed day must store no times, got %v - %v", closed.OpenTime, closed.CloseTime)
	}
}
