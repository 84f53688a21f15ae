package suggest

import (
	"testing"
)

func TestParseResponse(t *testing.T) {
	body := `{"days": [
        {"day": "Sunday", "closed": true},
        {"day": "Monday", "open": "10:00", "close": "17:00", "closed": false},
        {"day": "Tuesday", "open": "10:00", "close": "17:00", "closed": false},
        {"day": "Wednesday", "open": "10:00", "close": "17:00", "closed": false},
        {"day": "Thursday", "open": "10:00", "close": "17:00", "closed": false},
        {"day": "Friday", "open": "10:00", "close": "17:00", "closed": false},
        {"day": "Saturday", "by_appointment": true, "closed": false}
    ], "notes": "weekend uncertain"}`

	tests := []struct {
		name  string
		input string
	}{
		{"plain JSON", body},
		{"fenced JSON", "```json\n" + body + "\n```"},
		{"bare fence", "```\n" + body + "\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := parseResponse(tt.input)
			if err != nil {
				t.Fatalf("parseResponse failed: %v", err)
			}
			if len(s.Days) != 7 {
				t.Fatalf("expected 7 days, got %d", len(s.Days))
			}
			if !s.Days[0].Closed || s.Days[0].Day != "Sunday" {
				t.Errorf("day 0 = %+v, want closed Sunday", s.Days[0])
			}
			if !s.Days[6].ByAppointment {
				t.Errorf("day 6 should be by appointment: %+v", s.Days[6])
			}
			if s.Notes != "weekend uncertain" {
				t.Errorf("notes = %q", s.Notes)
			}
		})
	}
}

func TestParseResponse_Errors(t *testing.T) {
	if _, err := parseResponse("not json"); err == nil {
		t.Error("malformed JSON should fail")
	}
	if _, err := parseResponse(`{"days": [{"day": "Monday"}]}`); err == nil {
		t.Error("a partial week should fail")
	}
}

func TestSuggestionToDayHours(t *testing.T) {
	s := &Suggestion{Days: []DaySuggestion{
		{Day: "Sunday", Closed: true},
		{Day: "Monday", Open: "10:00", Close: "17:00"},
		{Day: "Tuesday", Open: "25:00", Close: "17:00"}, // invalid hour
		{Day: "Wednesday", ByAppointment: true},
		{Day: "Thursday", Open: "10:00"}, // missing close
		{Day: "Friday", Open: "09:30", Close: "17:30"},
		{Day: "Saturday", Closed: true},
	}}

	week := s.ToDayHours(42)
	if len(week) != 7 {
		t.Fatalf("expected 7 records, got %d", len(week))
	}
	for i, rec := range week {
		if rec.PlaceID != 42 || int(rec.DayOfWeek) != i {
			t.Errorf("record %d has wrong identity: %+v", i, rec)
		}
	}

	if !week[0].IsClosed {
		t.Error("Sunday should be closed")
	}
	if week[1].OpenTime == nil || *week[1].OpenTime != "10:00" {
		t.Errorf("Monday open = %v", week[1].OpenTime)
	}
	if !week[2].IsClosed {
		t.Error("invalid hour must degrade to closed")
	}
	if !week[3].IsByAppointment || week[3].IsClosed {
		t.Errorf("Wednesday should be by appointment: %+v", week[3])
	}
	if !week[4].IsClosed {
		t.Error("missing close time must degrade to closed")
	}
	if week[5].CloseTime == nil || *week[5].CloseTime != "17:30" {
		t.Errorf("Friday close = %v", week[5].CloseTime)
	}
}

func TestValidClock(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59"}
	invalid := []string{"", "9:30", "24:00", "12:60", "ab:cd", "12-30"}
	for _, s := range valid {
		if !validClock(s) {
			t.Errorf("validClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if validClock(s) {
			t.Errorf("validClock(%q) = true, want false", s)
		}
	}
}
