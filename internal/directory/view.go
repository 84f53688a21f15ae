package directory

import (
	"context"
	"time"

	"antiques-directory/internal/hours"
	"antiques-directory/internal/models"
	"antiques-directory/pkg/database"
)

// HoursService fetches structured hours through the TTL cache and evaluates
// open state. One instance is shared by the public and admin handlers so a
// save in the admin UI can invalidate what the listing serves.
type HoursService struct {
	db          *database.DB
	cache       *hours.Cache
	closingSoon int
	now         func() time.Time
}

// NewHoursService builds the service. closingSoonMinutes <= 0 disables the
// "closing soon" badge. now is injectable for tests and defaults to time.Now.
func NewHoursService(db *database.DB, cache *hours.Cache, closingSoonMinutes int, now func() time.Time) *HoursService {
	if now == nil {
		now = time.Now
	}
	return &HoursService{db: db, cache: cache, closingSoon: closingSoonMinutes, now: now}
}

// Week returns the seven day_hours rows for a place, cache first.
func (s *HoursService) Week(ctx context.Context, placeID int64) ([]models.DayHours, error) {
	if week, ok := s.cache.Get(placeID); ok {
		return week, nil
	}
	week, err := s.db.GetDayHours(ctx, placeID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(placeID, week)
	return week, nil
}

// Invalidate drops the cached week after an admin edit.
func (s *HoursService) Invalidate(placeID int64) {
	s.cache.Invalidate(placeID)
}

// OpenState is the evaluated open status for one place at one instant.
type OpenState struct {
	Open            bool `json:"open"`
	ClosingSoon     bool `json:"closing_soon"`
	AppointmentOnly bool `json:"appointment_only"`
}

// Evaluate computes the open state for a week of records.
func (s *HoursService) Evaluate(week []models.DayHours) OpenState {
	now := s.now()
	state := OpenState{
		Open:            hours.IsOpenNow(week, now),
		AppointmentOnly: hours.IsAppointmentOnlyNow(week, now),
	}
	if state.Open && s.closingSoon > 0 {
		state.ClosingSoon = hours.ClosesWithin(week, now, s.closingSoon)
	}
	return state
}

// PlaceView is the listing and detail view model for one place.
type PlaceView struct {
	models.PlaceWithSpecialties
	State  OpenState
	Groups []models.DisplayGroup
}

// View assembles the view model for one place. A place with no hours rows
// renders with an empty schedule rather than an error.
func (s *HoursService) View(ctx context.Context, p models.PlaceWithSpecialties) (PlaceView, error) {
	week, err := s.Week(ctx, p.ID)
	if err != nil {
		return PlaceView{}, err
	}
	return PlaceView{
		PlaceWithSpecialties: p,
		State:                s.Evaluate(week),
		Groups:               hours.GroupForDisplay(week),
	}, nil
}
