package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Old Town Curios", "old-town-curios"},
		{"Georgian & Regency Furniture", "georgian-regency-furniture"},
		{"  McNaughtan's Bookshop  ", "mcnaughtan-s-bookshop"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"www.example.co.uk/", "https://example.co.uk"},
		{"HTTP://WWW.Example.com", "http://example.com"},
		{"example.com/shop", "https://example.com/shop"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeUKPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0131 225 1234", "+441312251234"},
		{"+44 131 225 1234", "+441312251234"},
		{"0044 131 225 1234", "+441312251234"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeUKPhone(tt.in); got != tt.want {
			t.Errorf("NormalizeUKPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePostcode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"eh1 2ht", "EH1 2HT"},
		{"EH12HT", "EH1 2HT"},
		{"eh8  9db", "EH8 9DB"},
		{"EH1", "EH1"},
	}
	for _, tt := range tests {
		if got := NormalizePostcode(tt.in); got != tt.want {
			t.Errorf("NormalizePostcode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
