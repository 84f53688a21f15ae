package database

import (
	"context"
	"database/sql"

	"antiques-directory/internal/models"
	errs "antiques-directory/pkg/errors"
)

// GetDayHours returns the structured hours rows for a place, ordered by
// day-of-week. Zero to seven rows; missing days are implicit closed days and
// are handled by the hours package, not here.
func (db *DB) GetDayHours(ctx context.Context, placeID int64) ([]models.DayHours, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	rows, err := db.stmts["getDayHours"].QueryContext(ctx, placeID)
	if err != nil {
		return nil, errs.NewDB("database.GetDayHours", "failed to query day hours", err)
	}
	defer rows.Close()

	var week []models.DayHours
	for rows.Next() {
		var h models.DayHours
		if err := rows.Scan(&h.ID, &h.PlaceID, &h.DayOfWeek, &h.OpenTime, &h.CloseTime,
			&h.IsClosed, &h.IsByAppointment, &h.Notes); err != nil {
			return nil, errs.NewDB("database.GetDayHours", "failed to scan day hours row", err)
		}
		week = append(week, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDB("database.GetDayHours", "row iteration error", err)
	}
	return week, nil
}

// ReplaceDayHours swaps a place's whole week atomically and refreshes the
// denormalized legacy text in the same transaction, so readers never see a
// half-updated week.
func (db *DB) ReplaceDayHours(ctx context.Context, placeID int64, week []models.DayHours, legacyText string) error {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return errs.NewDB("database.ReplaceDayHours", "failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM day_hours WHERE place_id = ?`, placeID); err != nil {
		return errs.NewDB("database.ReplaceDayHours", "failed to clear day hours", err)
	}

	for _, h := range week {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO day_hours (place_id, day_of_week, open_time, close_time, is_closed, is_by_appointment, notes)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			placeID, h.DayOfWeek, h.OpenTime, h.CloseTime, h.IsClosed, h.IsByAppointment, h.Notes); err != nil {
			return errs.NewDB("database.ReplaceDayHours", "failed to insert day hours row", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE places SET legacy_hours = ?, updated_at = NOW() WHERE id = ?`,
		nullIfEmpty(legacyText), placeID); err != nil {
		return errs.NewDB("database.ReplaceDayHours", "failed to update legacy hours text", err)
	}

	if err := tx.Commit(); err != nil {
		return errs.NewDB("database.ReplaceDayHours", "failed to commit", err)
	}
	return nil
}

// UpdateLegacyHours writes the denormalized hours text only, used when the
// structured rows are untouched.
func (db *DB) UpdateLegacyHours(ctx context.Context, placeID int64, text string) error {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	if _, err := db.stmts["updateLegacyHours"].ExecContext(ctx, nullIfEmpty(text), placeID); err != nil {
		return errs.NewDB("database.UpdateLegacyHours", "failed to update legacy hours", err)
	}
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
