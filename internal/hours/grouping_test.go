package hours

import (
	"strings"
	"testing"

	"antiques-directory/internal/models"
)

func strPtr(s string) *string { return &s }

func openDay(d models.StorageDay, open, closeT string) models.DayHours {
	return models.DayHours{DayOfWeek: d, OpenTime: strPtr(open), CloseTime: strPtr(closeT)}
}

func closedDay(d models.StorageDay) models.DayHours {
	return models.DayHours{DayOfWeek: d, IsClosed: true}
}

func TestGroupForDisplay_UniformWeek(t *testing.T) {
	var week []models.DayHours
	for d := models.Sunday; d <= models.Saturday; d++ {
		week = append(week, openDay(d, "09:00", "17:00"))
	}

	groups := GroupForDisplay(week)
	if len(groups) != 1 {
		t.Fatalf("identical week should collapse to one group, got %+v", groups)
	}
	if groups[0].DayText != "Monday to Sunday" {
		t.Errorf("day text = %q, want %q", groups[0].DayText, "Monday to Sunday")
	}
	if groups[0].HoursText != "9:00 - 17:00" {
		t.Errorf("hours text = %q, want %q", groups[0].HoursText, "9:00 - 17:00")
	}
}

func TestGroupForDisplay_WeekendPair(t *testing.T) {
	week := []models.DayHours{
		openDay(models.Monday, "09:00", "17:00"),
		openDay(models.Tuesday, "09:00", "17:30"),
		openDay(models.Wednesday, "10:00", "16:00"),
		openDay(models.Thursday, "09:00", "18:00"),
		openDay(models.Friday, "09:00", "19:00"),
		openDay(models.Saturday, "10:00", "17:00"),
		openDay(models.Sunday, "10:00", "17:00"),
	}

	groups := GroupForDisplay(week)
	last := groups[len(groups)-1]
	if last.DayText != "Saturday & Sunday" {
		t.Fatalf("two consecutive days must use the pair form, got %q", last.DayText)
	}
}

func TestGroupForDisplay_TotalCoverage(t *testing.T) {
	week := []models.DayHours{
		// Deliberately unsorted and partial.
		openDay(models.Friday, "09:00", "17:00"),
		closedDay(models.Sunday),
		openDay(models.Wednesday, "09:00", "17:00"),
		openDay(models.Thursday, "09:00", "17:00"),
	}

	groups := GroupForDisplay(week)
	spans := 0
	for _, g := range groups {
		switch {
		case strings.Contains(g.DayText, " to "):
			t.Logf("range group: %q", g.DayText)
			spans += 3 // Wednesday to Friday is the only possible range here
		case strings.Contains(g.DayText, " & "):
			spans += 2
		default:
			spans++
		}
	}
	if spans != len(week) {
		t.Fatalf("groups cover %d days, want %d: %+v", spans, len(week), groups)
	}
}

func TestGroupForDisplay_MixedStatuses(t *testing.T) {
	week := []models.DayHours{
		closedDay(models.Monday),
		closedDay(models.Tuesday),
		{DayOfWeek: models.Wednesday, IsByAppointment: true},
		openDay(models.Thursday, "09:00", "17:00"),
		{DayOfWeek: models.Friday}, // neither flag nor times
	}

	groups := GroupForDisplay(week)
	want := []models.DisplayGroup{
		{DayText: "Monday & Tuesday", HoursText: "Closed"},
		{DayText: "Wednesday", HoursText: "By appointment only"},
		{DayText: "Thursday", HoursText: "9:00 - 17:00"},
		{DayText: "Friday", HoursText: "Hours not specified"},
	}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d: %+v", len(groups), len(want), groups)
	}
	for i, g := range groups {
		if g != want[i] {
			t.Errorf("group %d = %+v, want %+v", i, g, want[i])
		}
	}
}

func TestGroupForDisplay_EmptyInput(t *testing.T) {
	if groups := GroupForDisplay(nil); len(groups) != 0 {
		t.Fatalf("empty input must yield no groups, got %+v", groups)
	}
}

func TestFormatOpeningHoursToString(t *testing.T) {
	week := []models.DayHours{
		openDay(models.Monday, "09:00", "17:00"),
		openDay(models.Tuesday, "09:00", "17:00"),
		openDay(models.Wednesday, "09:00", "17:00"),
		{DayOfWeek: models.Thursday, IsByAppointment: true},
		closedDay(models.Sunday),
	}

	got := FormatOpeningHoursToString(week)
	want := "Monday to Wednesday: 9:00 - 17:00\n" +
		"Thursday: By appointment only\n" +
		"Sunday: Closed\n"
	if got != want {
		t.Fatalf("formatted hours = %q, want %q", got, want)
	}
}
