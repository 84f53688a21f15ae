package database

import (
	"context"

	"antiques-directory/internal/models"
	errs "antiques-directory/pkg/errors"
)

// InsertAuditEntry records a curator action. Audit writes must never block
// the action itself; callers log and continue on error.
func (db *DB) InsertAuditEntry(ctx context.Context, e models.AuditEntry) error {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO audit_log (place_id, curator_id, action, detail, created_at)
         VALUES (?, ?, ?, ?, NOW())`,
		e.PlaceID, e.CuratorID, e.Action, e.Detail)
	if err != nil {
		return errs.NewDB("database.InsertAuditEntry", "failed to insert audit entry", err)
	}
	return nil
}

// RecentAuditEntries returns the latest curator actions for the dashboard.
func (db *DB) RecentAuditEntries(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, place_id, curator_id, action, detail, created_at
         FROM audit_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errs.NewDB("database.RecentAuditEntries", "failed to query audit log", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.PlaceID, &e.CuratorID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, errs.NewDB("database.RecentAuditEntries", "failed to scan audit row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDB("database.RecentAuditEntries", "row iteration error", err)
	}
	return entries, nil
}
