// Package importer loads places from CSV or JSON exports of the old
// directory. Imports are row-independent: a bad row is reported and skipped,
// the rest of the file still lands.
package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"antiques-directory/internal/geocode"
	"antiques-directory/internal/hours"
	"antiques-directory/internal/models"
	"antiques-directory/pkg/database"
	errs "antiques-directory/pkg/errors"
	"antiques-directory/pkg/metrics"
	"antiques-directory/pkg/utils"
)

var (
	mRowsImported = metrics.Default.Counter("import_rows_total", "Rows imported")
	mRowsFailed   = metrics.Default.Counter("import_rows_failed_total", "Rows rejected during import")
)

// Row is one place from an import file. Specialties holds taxonomy slugs,
// pipe-separated in CSV. Hours is the legacy free-text field.
type Row struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Postcode    string `json:"postcode"`
	Phone       string `json:"phone"`
	URL         string `json:"url"`
	Email       string `json:"email"`
	Description string `json:"description"`
	Specialties string `json:"specialties"`
	Hours       string `json:"hours"`
}

// RowResult reports the outcome of one row.
type RowResult struct {
	Line    int
	Name    string
	PlaceID int64
	Err     error
	Skipped []hours.SkippedSegment
}

// Report summarizes one import run.
type Report struct {
	Imported int
	Failed   int
	Rows     []RowResult
}

type Importer struct {
	db       *database.DB
	geocoder *geocode.Geocoder
	curator  int
}

// New builds an importer. geocoder may be nil; rows then import without
// coordinates. curator is the id recorded in the audit trail.
func New(db *database.DB, geocoder *geocode.Geocoder, curator int) *Importer {
	return &Importer{db: db, geocoder: geocoder, curator: curator}
}

// ImportCSV imports a headered CSV file.
func (im *Importer) ImportCSV(ctx context.Context, path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.NewValidation("importer.ImportCSV", "cannot open import file", err)
	}
	defer f.Close()

	rows, err := parseCSV(f)
	if err != nil {
		return nil, err
	}
	return im.importRows(ctx, rows), nil
}

// ImportJSON imports a JSON array of row objects.
func (im *Importer) ImportJSON(ctx context.Context, path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewValidation("importer.ImportJSON", "cannot open import file", err)
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errs.NewValidation("importer.ImportJSON", "malformed JSON import file", err)
	}
	return im.importRows(ctx, rows), nil
}

// parseCSV reads a headered CSV into rows. Unknown columns are ignored so
// exports with extra fields still import.
func parseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errs.NewValidation("importer.parseCSV", "cannot read CSV header", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["name"]; !ok {
		return nil, errs.NewValidation("importer.parseCSV", "CSV header is missing the name column", nil)
	}

	pick := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.NewValidation("importer.parseCSV", "malformed CSV record", err)
		}
		rows = append(rows, Row{
			Name:        pick(record, "name"),
			Address:     pick(record, "address"),
			Postcode:    pick(record, "postcode"),
			Phone:       pick(record, "phone"),
			URL:         pick(record, "url"),
			Email:       pick(record, "email"),
			Description: pick(record, "description"),
			Specialties: pick(record, "specialties"),
			Hours:       pick(record, "hours"),
		})
	}
	return rows, nil
}

func (im *Importer) importRows(ctx context.Context, rows []Row) *Report {
	report := &Report{}
	for i, row := range rows {
		res := im.importRow(ctx, row)
		res.Line = i + 2 // header is line 1
		if res.Err != nil {
			report.Failed++
			mRowsFailed.Inc(1)
		} else {
			report.Imported++
			mRowsImported.Inc(1)
		}
		report.Rows = append(report.Rows, res)
	}
	return report
}

func (im *Importer) importRow(ctx context.Context, row Row) RowResult {
	res := RowResult{Name: row.Name}

	place, err := placeFromRow(row)
	if err != nil {
		res.Err = err
		return res
	}
	place.UpdatedByID = &im.curator

	if im.geocoder != nil {
		address := place.Address
		if place.Postcode != nil {
			address += ", " + *place.Postcode
		}
		if geo, err := im.geocoder.Geocode(ctx, address); err != nil {
			log.Printf("import: geocoding %q failed: %v", row.Name, err)
		} else {
			place.Lat = &geo.Lat
			place.Lng = &geo.Lng
		}
	}

	id, err := im.db.CreatePlace(ctx, place)
	if err != nil {
		res.Err = err
		return res
	}
	res.PlaceID = id

	if row.Hours != "" {
		week, skipped := hours.ParseLegacyHours(id, row.Hours)
		res.Skipped = skipped
		if err := im.db.ReplaceDayHours(ctx, id, week, row.Hours); err != nil {
			log.Printf("import: saving hours for %q failed: %v", row.Name, err)
		}
	}

	if err := im.tagSpecialties(ctx, id, row.Specialties); err != nil {
		log.Printf("import: tagging %q failed: %v", row.Name, err)
	}

	detail := row.Name
	if err := im.db.InsertAuditEntry(ctx, models.AuditEntry{
		PlaceID: &id, CuratorID: im.curator, Action: models.AuditImport, Detail: &detail,
	}); err != nil {
		log.Printf("import: audit entry for %q failed: %v", row.Name, err)
	}
	return res
}

// placeFromRow validates the row and maps it onto a place. Imported places
// start inactive; a curator reviews before publishing.
func placeFromRow(row Row) (*models.Place, error) {
	if strings.TrimSpace(row.Name) == "" {
		return nil, errs.NewValidation("importer.placeFromRow", "row has no name", nil)
	}
	if strings.TrimSpace(row.Address) == "" {
		return nil, errs.NewValidation("importer.placeFromRow", fmt.Sprintf("%q has no address", row.Name), nil)
	}

	p := &models.Place{
		Name:    strings.TrimSpace(row.Name),
		Address: strings.TrimSpace(row.Address),
		Active:  false,
	}
	p.Slug = utils.Slugify(p.Name)
	p.Postcode = optStr(utils.NormalizePostcode(row.Postcode))
	p.Phone = optStr(utils.NormalizeUKPhone(row.Phone))
	p.URL = optStr(utils.NormalizeURL(row.URL))
	p.Email = optStr(row.Email)
	p.Description = optStr(row.Description)
	p.LegacyHours = optStr(row.Hours)
	return p, nil
}

// tagSpecialties resolves pipe-separated slugs. Unknown slugs are logged and
// skipped rather than failing the row.
func (im *Importer) tagSpecialties(ctx context.Context, placeID int64, slugs string) error {
	if strings.TrimSpace(slugs) == "" {
		return nil
	}
	var ids []int64
	for _, slug := range strings.Split(slugs, "|") {
		slug = strings.TrimSpace(slug)
		if slug == "" {
			continue
		}
		s, err := im.db.GetSpecialtyBySlug(ctx, slug)
		if err != nil {
			log.Printf("import: unknown specialty slug %q", slug)
			continue
		}
		ids = append(ids, s.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	return im.db.SetPlaceSpecialties(ctx, placeID, ids)
}

func optStr(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
