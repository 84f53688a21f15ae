package admin

import "testing"

func TestLegacyHoursChanged(t *testing.T) {
	text := "Mon-Fri: 9am-5pm"
	same := "Mon-Fri: 9am-5pm"
	other := "Mon-Sat: 10-4"
	empty := ""

	tests := []struct {
		name   string
		before *string
		after  *string
		want   bool
	}{
		{"both nil", nil, nil, false},
		{"nil and empty", nil, &empty, false},
		{"unchanged", &text, &same, false},
		{"edited", &text, &other, true},
		{"cleared", &text, nil, true},
		{"added", nil, &text, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := legacyHoursChanged(tt.before, tt.after); got != tt.want {
				t.Errorf("legacyHoursChanged = %v, want %v", got, tt.want)
			}
		})
	}
}
