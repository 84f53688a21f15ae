package hours

import "testing"

func TestFormatTimeFor12Hour(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"09:00", "9AM"},
		{"00:00", "12AM"},
		{"00:15", "12:15AM"},
		{"12:00", "12PM"},
		{"12:30", "12:30PM"},
		{"14:30", "2:30PM"},
		{"23:59", "11:59PM"},
		{"11:45", "11:45AM"},
		{"13:00", "1PM"},
		// Malformed input falls through unchanged; legacy rows contain junk.
		{"whenever", "whenever"},
		{"9", "9"},
		{"25:00", "25:00"},
		{"10:75", "10:75"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FormatTimeFor12Hour(tt.input); got != tt.expected {
			t.Errorf("FormatTimeFor12Hour(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestStripLeadingZero(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"09:00", "9:00"},
		{"09:00 - 05:00", "9:00 - 5:00"},
		{"10:00 - 17:30", "10:00 - 17:30"},
		{"9:00 - 17:00", "9:00 - 17:00"},
		// Minute digits must survive the cleanup.
		{"12:05", "12:05"},
		{"Closed", "Closed"},
		{"0 Closed", "Closed"},
		{"By appointment only", "By appointment only"},
		{"09 By appointment", "By appointment only"},
	}

	for _, tt := range tests {
		if got := StripLeadingZero(tt.input); got != tt.expected {
			t.Errorf("StripLeadingZero(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
