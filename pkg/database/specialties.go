package database

import (
	"context"
	"database/sql"
	"fmt"

	"antiques-directory/internal/models"
	errs "antiques-directory/pkg/errors"
)

// GetSpecialtyTree returns the taxonomy as main categories with their
// sub-categories, both levels ordered by name.
func (db *DB) GetSpecialtyTree(ctx context.Context) ([]models.SpecialtyTree, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, slug, parent_id FROM specialties ORDER BY parent_id IS NOT NULL, name ASC`)
	if err != nil {
		return nil, errs.NewDB("database.GetSpecialtyTree", "failed to query specialties", err)
	}
	defer rows.Close()

	var tree []models.SpecialtyTree
	byID := make(map[int64]int)
	var orphans []models.Specialty
	for rows.Next() {
		var s models.Specialty
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.ParentID); err != nil {
			return nil, errs.NewDB("database.GetSpecialtyTree", "failed to scan specialty row", err)
		}
		if s.ParentID == nil {
			byID[s.ID] = len(tree)
			tree = append(tree, models.SpecialtyTree{Specialty: s})
			continue
		}
		if idx, ok := byID[*s.ParentID]; ok {
			tree[idx].Children = append(tree[idx].Children, s)
		} else {
			orphans = append(orphans, s)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDB("database.GetSpecialtyTree", "row iteration error", err)
	}

	// A sub-category whose parent row is gone still has tagged places; show
	// it at top level rather than hiding it.
	for _, s := range orphans {
		tree = append(tree, models.SpecialtyTree{Specialty: s})
	}
	return tree, nil
}

// GetSpecialtyByID fetches one taxonomy node.
func (db *DB) GetSpecialtyByID(ctx context.Context, id int64) (*models.Specialty, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	var s models.Specialty
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, slug, parent_id FROM specialties WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.Slug, &s.ParentID)
	if err == sql.ErrNoRows {
		return nil, errs.NewNotFound("database.GetSpecialtyByID", fmt.Sprintf("specialty %d", id))
	}
	if err != nil {
		return nil, errs.NewDB("database.GetSpecialtyByID", "failed to scan specialty", err)
	}
	return &s, nil
}

// CreateSpecialty inserts a taxonomy node. ParentID must reference a main
// category; the taxonomy is two levels deep.
func (db *DB) CreateSpecialty(ctx context.Context, s *models.Specialty) (int64, error) {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	if s.ParentID != nil {
		parent, err := db.GetSpecialtyByID(ctx, *s.ParentID)
		if err != nil {
			return 0, err
		}
		if !parent.IsMainCategory() {
			return 0, errs.NewValidation("database.CreateSpecialty",
				"parent must be a main category", nil)
		}
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO specialties (name, slug, parent_id) VALUES (?, ?, ?)`,
		s.Name, s.Slug, s.ParentID)
	if err != nil {
		return 0, errs.NewDB("database.CreateSpecialty", "failed to insert specialty", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errs.NewDB("database.CreateSpecialty", "failed to read insert id", err)
	}
	return id, nil
}

// DeleteSpecialty removes a taxonomy node. Nodes still tagged on places or
// with sub-categories are refused; untag or delete children first.
func (db *DB) DeleteSpecialty(ctx context.Context, id int64) error {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	var tagged, children int
	err := db.conn.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM place_specialties WHERE specialty_id = ?),
                (SELECT COUNT(*) FROM specialties WHERE parent_id = ?)`, id, id).
		Scan(&tagged, &children)
	if err != nil {
		return errs.NewDB("database.DeleteSpecialty", "failed to check usage", err)
	}
	if tagged > 0 {
		return errs.NewValidation("database.DeleteSpecialty",
			fmt.Sprintf("specialty is tagged on %d places", tagged), nil)
	}
	if children > 0 {
		return errs.NewValidation("database.DeleteSpecialty",
			fmt.Sprintf("specialty has %d sub-categories", children), nil)
	}

	res, err := db.conn.ExecContext(ctx, `DELETE FROM specialties WHERE id = ?`, id)
	if err != nil {
		return errs.NewDB("database.DeleteSpecialty", "failed to delete specialty", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NewNotFound("database.DeleteSpecialty", fmt.Sprintf("specialty %d", id))
	}
	return nil
}

// GetSpecialtiesForPlace returns the tags for one place, mains before subs.
func (db *DB) GetSpecialtiesForPlace(ctx context.Context, placeID int64) ([]models.Specialty, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT s.id, s.name, s.slug, s.parent_id
         FROM specialties s
         JOIN place_specialties ps ON ps.specialty_id = s.id
         WHERE ps.place_id = ?
         ORDER BY s.parent_id IS NOT NULL, s.name ASC`, placeID)
	if err != nil {
		return nil, errs.NewDB("database.GetSpecialtiesForPlace", "failed to query tags", err)
	}
	defer rows.Close()

	var specs []models.Specialty
	for rows.Next() {
		var s models.Specialty
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.ParentID); err != nil {
			return nil, errs.NewDB("database.GetSpecialtiesForPlace", "failed to scan tag row", err)
		}
		specs = append(specs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDB("database.GetSpecialtiesForPlace", "row iteration error", err)
	}
	return specs, nil
}

// SetPlaceSpecialties replaces a place's tags atomically.
func (db *DB) SetPlaceSpecialties(ctx context.Context, placeID int64, specialtyIDs []int64) error {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return errs.NewDB("database.SetPlaceSpecialties", "failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM place_specialties WHERE place_id = ?`, placeID); err != nil {
		return errs.NewDB("database.SetPlaceSpecialties", "failed to clear tags", err)
	}
	for _, sid := range specialtyIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO place_specialties (place_id, specialty_id) VALUES (?, ?)`, placeID, sid); err != nil {
			return errs.NewDB("database.SetPlaceSpecialties", "failed to insert tag", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errs.NewDB("database.SetPlaceSpecialties", "failed to commit", err)
	}
	return nil
}

// GetSpecialtyBySlug resolves a taxonomy slug, used by the importer.
func (db *DB) GetSpecialtyBySlug(ctx context.Context, slug string) (*models.Specialty, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	var s models.Specialty
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, slug, parent_id FROM specialties WHERE slug = ?`, slug).
		Scan(&s.ID, &s.Name, &s.Slug, &s.ParentID)
	if err == sql.ErrNoRows {
		return nil, errs.NewNotFound("database.GetSpecialtyBySlug", slug)
	}
	if err != nil {
		return nil, errs.NewDB("database.GetSpecialtyBySlug", "failed to scan specialty", err)
	}
	return &s, nil
}
