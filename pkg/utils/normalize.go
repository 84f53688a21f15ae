// Package utils holds small normalizers for human-entered listing data.
package utils

import (
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a name and collapses everything else to hyphens, for
// place and specialty URL slugs.
func Slugify(name string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// NormalizeURL lowercases, adds protocol if missing, removes the www prefix
// and trailing slash. Intended for comparing and storing websites where
// formatting varies between sources.
func NormalizeURL(u string) string {
	if u == "" {
		return ""
	}

	n := strings.ToLower(strings.TrimSpace(u))
	if !strings.HasPrefix(n, "http://") && !strings.HasPrefix(n, "https://") {
		n = "https://" + n
	}
	n = regexp.MustCompile(`^(https?://)www\.`).ReplaceAllString(n, "$1")
	n = strings.TrimSuffix(n, "/")
	return n
}

// NormalizeUKPhone normalizes a phone number into a canonical format.
// Rules:
// - keep leading '+' if present, otherwise assume +44 for UK numbers
// - remove all spaces and punctuation
// - a leading 0 trunk prefix is replaced by the country code
func NormalizeUKPhone(phone string) string {
	if phone == "" {
		return ""
	}

	clean := regexp.MustCompile(`[^\d+]`).ReplaceAllString(phone, "")
	if strings.HasPrefix(clean, "+") {
		return clean
	}
	if strings.HasPrefix(clean, "00") {
		return "+" + clean[2:]
	}
	if strings.HasPrefix(clean, "0") {
		return "+44" + clean[1:]
	}
	return "+" + clean
}

// NormalizePostcode uppercases and reinstates the single space before the
// final three characters of a UK postcode.
func NormalizePostcode(pc string) string {
	s := strings.ToUpper(strings.Join(strings.Fields(pc), ""))
	if len(s) < 4 {
		return s
	}
	return s[:len(s)-3] + " " + s[len(s)-3:]
}
