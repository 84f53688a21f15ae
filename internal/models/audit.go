package models

import "time"

// AuditEntry records one curator action against a place, shown on the admin
// dashboard.
type AuditEntry struct {
	ID        int64     `json:"id" db:"id"`
	PlaceID   *int64    `json:"place_id" db:"place_id"`
	CuratorID int       `json:"curator_id" db:"curator_id"`
	Action    string    `json:"action" db:"action"`
	Detail    *string   `json:"detail" db:"detail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Audit actions.
const (
	AuditCreatePlace  = "create_place"
	AuditUpdatePlace  = "update_place"
	AuditDeletePlace  = "delete_place"
	AuditUpdateHours  = "update_hours"
	AuditParseHours   = "parse_hours"
	AuditGeocode      = "geocode"
	AuditImport       = "import"
	AuditTagSpecialty = "tag_specialty"
)
