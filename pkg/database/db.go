// Package database is the MySQL access layer for the directory: places,
// their per-day opening hours, the specialty taxonomy, and the audit log.
// Queries are plain SQL; the handful of hot statements are prepared once.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"antiques-directory/internal/models"
	"antiques-directory/pkg/config"
	errs "antiques-directory/pkg/errors"

	_ "github.com/go-sql-driver/mysql"
)

const (
	readTimeoutDefault  = 8 * time.Second
	writeTimeoutDefault = 6 * time.Second
)

type DB struct {
	conn         *sql.DB
	stmts        map[string]*sql.Stmt
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// New opens a connection pool with default settings. Used by tests and the
// importer; the server goes through NewWithConfig.
func New(databaseURL string) (*DB, error) {
	conn, err := sql.Open("mysql", databaseURL)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(10 * time.Minute)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	db := &DB{
		conn:         conn,
		stmts:        make(map[string]*sql.Stmt),
		readTimeout:  readTimeoutDefault,
		writeTimeout: writeTimeoutDefault,
	}
	if err := db.prepareStatements(); err != nil {
		return nil, errs.NewDB("database.New", "failed to prepare statements", err)
	}
	return db, nil
}

// NewWithConfig opens a connection pool using the configured pool sizes and
// timeouts.
func NewWithConfig(databaseURL string, cfg *config.Config) (*DB, error) {
	conn, err := sql.Open("mysql", databaseURL)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(cfg.DBMaxOpenConns)
	conn.SetMaxIdleConns(cfg.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Minute)
	conn.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTime) * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	rt := cfg.DBReadTimeout
	if rt == 0 {
		rt = readTimeoutDefault
	}
	wt := cfg.DBWriteTimeout
	if wt == 0 {
		wt = writeTimeoutDefault
	}

	db := &DB{
		conn:         conn,
		stmts:        make(map[string]*sql.Stmt),
		readTimeout:  rt,
		writeTimeout: wt,
	}
	if err := db.prepareStatements(); err != nil {
		return nil, errs.NewDB("database.NewWithConfig", "failed to prepare statements", err)
	}
	return db, nil
}

// prepareStatements prepares the statements on the listing hot path.
func (db *DB) prepareStatements() error {
	statements := map[string]string{
		"getDayHours": `SELECT id, place_id, day_of_week, open_time, close_time, is_closed, is_by_appointment, notes
                        FROM day_hours WHERE place_id = ? ORDER BY day_of_week ASC`,
		"updateLegacyHours": `UPDATE places SET legacy_hours = ?, updated_at = NOW() WHERE id = ?`,
	}

	for name, query := range statements {
		stmt, err := db.conn.Prepare(query)
		if err != nil {
			return errs.NewDB("database.prepareStatements", fmt.Sprintf("failed to prepare statement %s", name), err)
		}
		db.stmts[name] = stmt
	}
	return nil
}

// Close closes the connection and prepared statements.
func (db *DB) Close() error {
	for _, stmt := range db.stmts {
		stmt.Close()
	}
	return db.conn.Close()
}

// Ping checks connectivity, for the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

func (db *DB) withReadTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, db.readTimeout)
}

func (db *DB) withWriteTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, db.writeTimeout)
}

const placeColumns = `id, name, slug, address, postcode, phone, url, email, description,
        legacy_hours, lat, lng, active, created_at, updated_at, updated_by_id`

func scanPlace(row interface{ Scan(...any) error }) (*models.Place, error) {
	var p models.Place
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Address, &p.Postcode, &p.Phone, &p.URL,
		&p.Email, &p.Description, &p.LegacyHours, &p.Lat, &p.Lng, &p.Active,
		&p.CreatedAt, &p.UpdatedAt, &p.UpdatedByID,
	)
	return &p, err
}

// GetPlaces returns active places matching the filter, specialties attached,
// ordered by name. The OpenNow filter is applied by the caller since it needs
// the hours logic; everything else happens in SQL.
func (db *DB) GetPlaces(ctx context.Context, filter models.PlaceFilter) ([]models.PlaceWithSpecialties, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query := `SELECT ` + placeColumns + ` FROM places WHERE active = 1`
	var args []any

	if q := strings.TrimSpace(filter.Query); q != "" {
		query += ` AND (name LIKE ? OR description LIKE ? OR address LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}

	if filter.SpecialtyID > 0 {
		// Hierarchical semantics: a main category matches itself or any of
		// its sub-categories; a sub-category has no children, so the same
		// subquery matches only the sub-category itself.
		query += ` AND id IN (
            SELECT ps.place_id FROM place_specialties ps
            WHERE ps.specialty_id = ?
               OR ps.specialty_id IN (SELECT s.id FROM specialties s WHERE s.parent_id = ?))`
		args = append(args, filter.SpecialtyID, filter.SpecialtyID)
	}

	query += ` ORDER BY name ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewDB("database.GetPlaces", "failed to query places", err)
	}
	defer rows.Close()

	var places []models.PlaceWithSpecialties
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, errs.NewDB("database.GetPlaces", "failed to scan place row", err)
		}
		places = append(places, models.PlaceWithSpecialties{Place: *p})
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDB("database.GetPlaces", "row iteration error", err)
	}

	for i := range places {
		specs, err := db.GetSpecialtiesForPlace(ctx, places[i].ID)
		if err != nil {
			return nil, err
		}
		places[i].Specialties = specs
	}
	return places, nil
}

// GetPlaceByID fetches one place regardless of active flag (admin needs
// inactive rows too).
func (db *DB) GetPlaceByID(ctx context.Context, id int64) (*models.Place, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+placeColumns+` FROM places WHERE id = ?`, id)
	p, err := scanPlace(row)
	if err == sql.ErrNoRows {
		return nil, errs.NewNotFound("database.GetPlaceByID", fmt.Sprintf("place %d", id))
	}
	if err != nil {
		return nil, errs.NewDB("database.GetPlaceByID", "failed to scan place", err)
	}
	return p, nil
}

// GetPlaceBySlug fetches one active place by its URL slug.
func (db *DB) GetPlaceBySlug(ctx context.Context, slug string) (*models.Place, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+placeColumns+` FROM places WHERE slug = ? AND active = 1`, slug)
	p, err := scanPlace(row)
	if err == sql.ErrNoRows {
		return nil, errs.NewNotFound("database.GetPlaceBySlug", slug)
	}
	if err != nil {
		return nil, errs.NewDB("database.GetPlaceBySlug", "failed to scan place", err)
	}
	return p, nil
}

// CreatePlace inserts a place and returns its id.
func (db *DB) CreatePlace(ctx context.Context, p *models.Place) (int64, error) {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO places (name, slug, address, postcode, phone, url, email, description,
            legacy_hours, lat, lng, active, created_at, updated_at, updated_by_id)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW(), ?)`,
		p.Name, p.Slug, p.Address, p.Postcode, p.Phone, p.URL, p.Email, p.Description,
		p.LegacyHours, p.Lat, p.Lng, p.Active, p.UpdatedByID)
	if err != nil {
		return 0, errs.NewDB("database.CreatePlace", "failed to insert place", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errs.NewDB("database.CreatePlace", "failed to read insert id", err)
	}
	return id, nil
}

// UpdatePlace updates the editable columns of a place.
func (db *DB) UpdatePlace(ctx context.Context, p *models.Place) error {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE places SET name = ?, slug = ?, address = ?, postcode = ?, phone = ?, url = ?,
            email = ?, description = ?, legacy_hours = ?, lat = ?, lng = ?, active = ?,
            updated_at = NOW(), updated_by_id = ?
         WHERE id = ?`,
		p.Name, p.Slug, p.Address, p.Postcode, p.Phone, p.URL, p.Email, p.Description,
		p.LegacyHours, p.Lat, p.Lng, p.Active, p.UpdatedByID, p.ID)
	if err != nil {
		return errs.NewDB("database.UpdatePlace", "failed to update place", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NewNotFound("database.UpdatePlace", fmt.Sprintf("place %d", p.ID))
	}
	return nil
}

// DeletePlace removes a place and its child rows.
func (db *DB) DeletePlace(ctx context.Context, id int64) error {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return errs.NewDB("database.DeletePlace", "failed to begin transaction", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM day_hours WHERE place_id = ?`,
		`DELETE FROM place_specialties WHERE place_id = ?`,
		`DELETE FROM places WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return errs.NewDB("database.DeletePlace", "failed to delete place rows", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errs.NewDB("database.DeletePlace", "failed to commit", err)
	}
	return nil
}

// UpdateCoordinates stores geocoded coordinates for a place.
func (db *DB) UpdateCoordinates(ctx context.Context, id int64, lat, lng float64) error {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx,
		`UPDATE places SET lat = ?, lng = ?, updated_at = NOW() WHERE id = ?`, lat, lng, id)
	if err != nil {
		return errs.NewDB("database.UpdateCoordinates", "failed to update coordinates", err)
	}
	return nil
}

// GetPlacesAdmin lists places regardless of active flag, most recently
// updated first. Curators need to reach inactive entries.
func (db *DB) GetPlacesAdmin(ctx context.Context, search string, limit, offset int) ([]models.Place, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query := `SELECT ` + placeColumns + ` FROM places`
	var args []any
	if q := strings.TrimSpace(search); q != "" {
		query += ` WHERE name LIKE ? OR address LIKE ?`
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	query += ` ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewDB("database.GetPlacesAdmin", "failed to query places", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, errs.NewDB("database.GetPlacesAdmin", "failed to scan place row", err)
		}
		places = append(places, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDB("database.GetPlacesAdmin", "row iteration error", err)
	}
	return places, nil
}

// CountPlaces returns totals for the admin dashboard.
func (db *DB) CountPlaces(ctx context.Context) (active, inactive int, err error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	err = db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(active = 1), 0), COALESCE(SUM(active = 0), 0) FROM places`).
		Scan(&active, &inactive)
	if err != nil {
		return 0, 0, errs.NewDB("database.CountPlaces", "failed to count places", err)
	}
	return active, inactive, nil
}
