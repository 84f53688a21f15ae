package models

import (
	"time"
)

// Place is a directory entry: an antique-related shop in Edinburgh.
// LegacyHours holds the denormalized free-text hours field kept in sync with
// the structured day_hours rows by the admin handlers.
type Place struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Slug        string     `json:"slug" db:"slug"`
	Address     string     `json:"address" db:"address"`
	Postcode    *string    `json:"postcode" db:"postcode"`
	Phone       *string    `json:"phone" db:"phone"`
	URL         *string    `json:"url" db:"url"`
	Email       *string    `json:"email" db:"email"`
	Description *string    `json:"description" db:"description"`
	LegacyHours *string    `json:"legacy_hours" db:"legacy_hours"`
	Lat         *float64   `json:"lat" db:"lat"`
	Lng         *float64   `json:"lng" db:"lng"`
	Active      bool       `json:"active" db:"active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	UpdatedByID *int       `json:"updated_by_id" db:"updated_by_id"`
}

// HasCoordinates reports whether the place can be pinned on the map.
func (p *Place) HasCoordinates() bool {
	return p.Lat != nil && p.Lng != nil
}

// PlaceWithSpecialties bundles a place with its specialty tags for listing
// and detail views.
type PlaceWithSpecialties struct {
	Place
	Specialties []Specialty `json:"specialties"`
}

// PlaceFilter describes the public listing filters. Zero values mean
// "no restriction". SpecialtyID uses hierarchical semantics: a main category
// includes all of its sub-categories, a sub-category matches only itself.
type PlaceFilter struct {
	Query       string
	SpecialtyID int64
	OpenNow     bool
	Limit       int
	Offset      int
}
