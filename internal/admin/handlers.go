// Package admin serves the curator UI: place CRUD, the structured hours
// editor with legacy-text parsing, geocoding actions, and the specialty
// taxonomy. Every route sits behind the IP roster middleware.
package admin

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"antiques-directory/internal/auth"
	"antiques-directory/internal/directory"
	"antiques-directory/internal/geocode"
	"antiques-directory/internal/hours"
	"antiques-directory/internal/models"
	"antiques-directory/internal/suggest"
	"antiques-directory/pkg/database"
	errs "antiques-directory/pkg/errors"
	"antiques-directory/pkg/metrics"
	"antiques-directory/pkg/utils"

	"github.com/gorilla/mux"
)

// metrics
var (
	mPlacesCreated = metrics.Default.Counter("admin_places_created_total", "Places created by curators")
	mPlacesDeleted = metrics.Default.Counter("admin_places_deleted_total", "Places deleted by curators")
	mHoursUpdated  = metrics.Default.Counter("admin_hours_updated_total", "Structured hours saves")
	mParseRuns     = metrics.Default.Counter("admin_parse_hours_total", "Legacy hours parse runs")
	mGeocodeRuns   = metrics.Default.Counter("admin_geocode_total", "Geocode actions")
)

// DashboardHandler renders counts and the recent audit trail.
func DashboardHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, inactive, err := db.CountPlaces(r.Context())
		if err != nil {
			log.Printf("Error counting places: %v", err)
		}
		entries, err := db.RecentAuditEntries(r.Context(), 50)
		if err != nil {
			log.Printf("Error fetching audit log: %v", err)
			entries = nil
		}

		data := struct {
			ActivePlaces   int
			InactivePlaces int
			AuditEntries   []models.AuditEntry
		}{
			ActivePlaces:   active,
			InactivePlaces: inactive,
			AuditEntries:   entries,
		}
		if err := ExecuteTemplate(w, "dashboard.tmpl", data); err != nil {
			http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
			return
		}
	}
}

// PlacesHandler lists all places for curators, inactive included.
func PlacesHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := r.URL.Query().Get("search")
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		limit := 50
		offset := (page - 1) * limit

		places, err := db.GetPlacesAdmin(r.Context(), search, limit, offset)
		if err != nil {
			http.Error(w, fmt.Sprintf("Error fetching places: %v", err), http.StatusInternalServerError)
			return
		}

		data := struct {
			Places   []models.Place
			Search   string
			Page     int
			PrevPage int
			NextPage int
			HasNext  bool
		}{
			Places:   places,
			Search:   search,
			Page:     page,
			PrevPage: page - 1,
			NextPage: page + 1,
			HasNext:  len(places) == limit,
		}
		if err := ExecuteTemplate(w, "places.tmpl", data); err != nil {
			http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
			return
		}
	}
}

// NewPlaceHandler renders an empty place form.
func NewPlaceHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPlaceForm(w, r, db, &models.Place{Active: true}, nil, nil)
	}
}

// EditPlaceHandler renders the form for an existing place.
func EditPlaceHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		place, ok := placeFromPath(w, r, db)
		if !ok {
			return
		}
		tagged, err := db.GetSpecialtiesForPlace(r.Context(), place.ID)
		if err != nil {
			log.Printf("Error fetching specialties for place %d: %v", place.ID, err)
		}
		renderPlaceForm(w, r, db, place, tagged, nil)
	}
}

func renderPlaceForm(w http.ResponseWriter, r *http.Request, db *database.DB, place *models.Place, tagged []models.Specialty, formErrs []string) {
	tree, err := db.GetSpecialtyTree(r.Context())
	if err != nil {
		log.Printf("Error fetching specialty tree: %v", err)
	}
	taggedIDs := make(map[int64]bool, len(tagged))
	for _, s := range tagged {
		taggedIDs[s.ID] = true
	}

	data := struct {
		Place       *models.Place
		Specialties []models.SpecialtyTree
		TaggedIDs   map[int64]bool
		Errors      []string
	}{
		Place:       place,
		Specialties: tree,
		TaggedIDs:   taggedIDs,
		Errors:      formErrs,
	}
	if err := ExecuteTemplate(w, "place_form.tmpl", data); err != nil {
		http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
	}
}

// CreatePlaceHandler inserts a place. Legacy hours text, when supplied, is
// parsed into structured rows in the same request so a new entry shows a
// schedule immediately.
func CreatePlaceHandler(db *database.DB, svc *directory.HoursService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		place, formErrs := placeFromForm(r, &models.Place{})
		if len(formErrs) > 0 {
			renderPlaceForm(w, r, db, place, nil, formErrs)
			return
		}
		setUpdatedBy(r, place)

		id, err := db.CreatePlace(r.Context(), place)
		if err != nil {
			http.Error(w, fmt.Sprintf("Error creating place: %v", err), http.StatusInternalServerError)
			return
		}
		place.ID = id
		mPlacesCreated.Inc(1)

		if err := savePlaceSpecialties(r, db, id); err != nil {
			log.Printf("Error tagging specialties for place %d: %v", id, err)
		}

		if place.LegacyHours != nil && strings.TrimSpace(*place.LegacyHours) != "" {
			week, skipped := hours.ParseLegacyHours(id, *place.LegacyHours)
			if err := db.ReplaceDayHours(r.Context(), id, week, *place.LegacyHours); err != nil {
				log.Printf("Error saving parsed hours for place %d: %v", id, err)
			} else {
				svc.Invalidate(id)
			}
			for _, s := range skipped {
				log.Printf("place %d: skipped hours segment %q (%s)", id, s.Segment, s.Reason)
			}
		}

		audit(r, db, &id, models.AuditCreatePlace, place.Name)
		http.Redirect(w, r, basePath+"admin/places/"+strconv.FormatInt(id, 10)+"/edit", http.StatusFound)
	}
}

// UpdatePlaceHandler saves the place form over an existing row. When the
// legacy hours text was edited it is re-parsed into the structured rows, so
// the two representations cannot drift through this form either.
func UpdatePlaceHandler(db *database.DB, svc *directory.HoursService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := placeFromPath(w, r, db)
		if !ok {
			return
		}
		place, formErrs := placeFromForm(r, existing)
		if len(formErrs) > 0 {
			renderPlaceForm(w, r, db, place, nil, formErrs)
			return
		}
		setUpdatedBy(r, place)

		if err := db.UpdatePlace(r.Context(), place); err != nil {
			http.Error(w, fmt.Sprintf("Error updating place: %v", err), http.StatusInternalServerError)
			return
		}
		if err := savePlaceSpecialties(r, db, place.ID); err != nil {
			log.Printf("Error tagging specialties for place %d: %v", place.ID, err)
		}

		if legacyHoursChanged(existing.LegacyHours, place.LegacyHours) {
			text := ""
			if place.LegacyHours != nil {
				text = *place.LegacyHours
			}
			// Cleared text parses to an all-closed week, wiping stale rows.
			week, skipped := hours.ParseLegacyHours(place.ID, text)
			if err := db.ReplaceDayHours(r.Context(), place.ID, week, text); err != nil {
				log.Printf("Error saving parsed hours for place %d: %v", place.ID, err)
			} else {
				svc.Invalidate(place.ID)
			}
			for _, s := range skipped {
				log.Printf("place %d: skipped hours segment %q (%s)", place.ID, s.Segment, s.Reason)
			}
		}

		audit(r, db, &place.ID, models.AuditUpdatePlace, place.Name)
		http.Redirect(w, r, basePath+"admin/places", http.StatusFound)
	}
}

// DeletePlaceHandler removes a place and its child rows.
func DeletePlaceHandler(db *database.DB, svc *directory.HoursService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		place, ok := placeFromPath(w, r, db)
		if !ok {
			return
		}
		if err := db.DeletePlace(r.Context(), place.ID); err != nil {
			http.Error(w, fmt.Sprintf("Error deleting place: %v", err), http.StatusInternalServerError)
			return
		}
		svc.Invalidate(place.ID)
		mPlacesDeleted.Inc(1)

		audit(r, db, nil, models.AuditDeletePlace, place.Name)
		http.Redirect(w, r, basePath+"admin/places", http.StatusFound)
	}
}

// hoursFormData feeds hours_form.tmpl from every entry point: plain edit,
// failed validation, and the parse-legacy action.
type hoursFormData struct {
	Place      *models.Place
	Week       []models.DayHours
	Errors     []string
	Skipped    []hours.SkippedSegment
	Suggestion *suggest.Suggestion
	Parsed     bool
}

// EditHoursHandler renders the seven-row structured hours form.
func EditHoursHandler(db *database.DB, svc *directory.HoursService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		place, ok := placeFromPath(w, r, db)
		if !ok {
			return
		}
		week, err := svc.Week(r.Context(), place.ID)
		if err != nil {
			http.Error(w, fmt.Sprintf("Error fetching hours: %v", err), http.StatusInternalServerError)
			return
		}
		if len(week) == 0 {
			week = defaultWeek(place.ID)
		}
		renderHoursForm(w, hoursFormData{Place: place, Week: week})
	}
}

// UpdateHoursHandler validates and saves the hours form. The denormalized
// legacy text is regenerated from the structured rows in the same
// transaction so the two representations cannot drift.
func UpdateHoursHandler(db *database.DB, svc *directory.HoursService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		place, ok := placeFromPath(w, r, db)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Malformed form", http.StatusBadRequest)
			return
		}

		week, formErrs := ParseHoursForm(place.ID, r.PostForm)
		if len(formErrs) > 0 {
			renderHoursForm(w, hoursFormData{Place: place, Week: week, Errors: formErrs})
			return
		}

		legacyText := hours.FormatOpeningHoursToString(week)
		if err := db.ReplaceDayHours(r.Context(), place.ID, week, legacyText); err != nil {
			http.Error(w, fmt.Sprintf("Error saving hours: %v", err), http.StatusInternalServerError)
			return
		}
		svc.Invalidate(place.ID)
		mHoursUpdated.Inc(1)

		audit(r, db, &place.ID, models.AuditUpdateHours, place.Name)
		http.Redirect(w, r, basePath+"admin/places/"+strconv.FormatInt(place.ID, 10)+"/hours", http.StatusFound)
	}
}

// ParseHoursHandler runs the legacy parser over submitted free text and
// pre-fills the hours form with the result. Nothing is saved; the curator
// reviews and submits the form. When segments were skipped and a reviewer is
// configured, an AI suggestion is fetched and its week replaces the pre-fill,
// since the reviewer sees the full text including the skipped parts.
func ParseHoursHandler(db *database.DB, svc *directory.HoursService, reviewer *suggest.HoursReviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		place, ok := placeFromPath(w, r, db)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Malformed form", http.StatusBadRequest)
			return
		}

		text := strings.TrimSpace(r.PostForm.Get("legacy_hours"))
		if text == "" && place.LegacyHours != nil {
			text = *place.LegacyHours
		}

		week, skipped := hours.ParseLegacyHours(place.ID, text)
		mParseRuns.Inc(1)

		var suggestion *suggest.Suggestion
		if len(skipped) > 0 && reviewer != nil {
			s, err := reviewer.SuggestHours(r.Context(), text, skipped)
			if err != nil {
				log.Printf("Hours suggestion failed for place %d: %v", place.ID, err)
			} else {
				suggestion = s
				week = s.ToDayHours(place.ID)
			}
		}

		detail := fmt.Sprintf("%d segment(s) skipped", len(skipped))
		audit(r, db, &place.ID, models.AuditParseHours, detail)

		renderHoursForm(w, hoursFormData{
			Place:      place,
			Week:       week,
			Skipped:    skipped,
			Suggestion: suggestion,
			Parsed:     true,
		})
	}
}

func renderHoursForm(w http.ResponseWriter, data hoursFormData) {
	if err := ExecuteTemplate(w, "hours_form.tmpl", data); err != nil {
		http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
	}
}

// defaultWeek is the all-closed week shown when a place has no hours rows.
func defaultWeek(placeID int64) []models.DayHours {
	week := make([]models.DayHours, 7)
	for d := range week {
		week[d] = models.DayHours{PlaceID: placeID, DayOfWeek: models.StorageDay(d), IsClosed: true}
	}
	return week
}

// GeocodeHandler resolves the place address to coordinates and stores them.
func GeocodeHandler(db *database.DB, geocoder *geocode.Geocoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		place, ok := placeFromPath(w, r, db)
		if !ok {
			return
		}
		if geocoder == nil {
			http.Error(w, "Geocoding is not configured", http.StatusServiceUnavailable)
			return
		}

		address := place.Address
		if place.Postcode != nil {
			address += ", " + *place.Postcode
		}
		res, err := geocoder.Geocode(r.Context(), address)
		if err != nil {
			http.Error(w, fmt.Sprintf("Geocoding failed: %v", err), http.StatusBadGateway)
			return
		}
		if err := db.UpdateCoordinates(r.Context(), place.ID, res.Lat, res.Lng); err != nil {
			http.Error(w, fmt.Sprintf("Error saving coordinates: %v", err), http.StatusInternalServerError)
			return
		}
		mGeocodeRuns.Inc(1)

		detail := fmt.Sprintf("%.6f,%.6f %s", res.Lat, res.Lng, res.FormattedAddress)
		audit(r, db, &place.ID, models.AuditGeocode, detail)
		http.Redirect(w, r, basePath+"admin/places/"+strconv.FormatInt(place.ID, 10)+"/edit", http.StatusFound)
	}
}

// SpecialtiesHandler renders the taxonomy page.
func SpecialtiesHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tree, err := db.GetSpecialtyTree(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("Error fetching specialties: %v", err), http.StatusInternalServerError)
			return
		}
		data := struct {
			Specialties []models.SpecialtyTree
			Error       string
		}{
			Specialties: tree,
			Error:       r.URL.Query().Get("error"),
		}
		if err := ExecuteTemplate(w, "specialties.tmpl", data); err != nil {
			http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
		}
	}
}

// CreateSpecialtyHandler adds a main or sub-category.
func CreateSpecialtyHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.FormValue("name"))
		if name == "" {
			http.Redirect(w, r, basePath+"admin/specialties?error=name+is+required", http.StatusFound)
			return
		}
		s := &models.Specialty{Name: name, Slug: utils.Slugify(name)}
		if pid, err := strconv.ParseInt(r.FormValue("parent_id"), 10, 64); err == nil && pid > 0 {
			s.ParentID = &pid
		}

		if _, err := db.CreateSpecialty(r.Context(), s); err != nil {
			if errs.IsValidation(err) {
				http.Redirect(w, r, basePath+"admin/specialties?error="+err.Error(), http.StatusFound)
				return
			}
			http.Error(w, fmt.Sprintf("Error creating specialty: %v", err), http.StatusInternalServerError)
			return
		}

		audit(r, db, nil, models.AuditTagSpecialty, "created "+name)
		http.Redirect(w, r, basePath+"admin/specialties", http.StatusFound)
	}
}

// DeleteSpecialtyHandler removes an unused specialty.
func DeleteSpecialtyHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			http.Error(w, "Invalid specialty ID", http.StatusBadRequest)
			return
		}
		if err := db.DeleteSpecialty(r.Context(), id); err != nil {
			if errs.IsValidation(err) {
				http.Redirect(w, r, basePath+"admin/specialties?error="+err.Error(), http.StatusFound)
				return
			}
			http.Error(w, fmt.Sprintf("Error deleting specialty: %v", err), http.StatusInternalServerError)
			return
		}

		audit(r, db, nil, models.AuditTagSpecialty, fmt.Sprintf("deleted specialty %d", id))
		http.Redirect(w, r, basePath+"admin/specialties", http.StatusFound)
	}
}

// placeFromPath loads the place named by the {id} route variable, writing
// the error response itself when it cannot.
func placeFromPath(w http.ResponseWriter, r *http.Request, db *database.DB) (*models.Place, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid place ID", http.StatusBadRequest)
		return nil, false
	}
	place, err := db.GetPlaceByID(r.Context(), id)
	if err != nil {
		if errs.IsNotFound(err) {
			http.NotFound(w, r)
			return nil, false
		}
		http.Error(w, fmt.Sprintf("Error fetching place: %v", err), http.StatusInternalServerError)
		return nil, false
	}
	return place, true
}

// placeFromForm merges the submitted form into base and validates the
// required fields. base carries the id and timestamps on update.
func placeFromForm(r *http.Request, base *models.Place) (*models.Place, []string) {
	var formErrs []string
	p := *base

	p.Name = strings.TrimSpace(r.FormValue("name"))
	if p.Name == "" {
		formErrs = append(formErrs, "name is required")
	}
	p.Address = strings.TrimSpace(r.FormValue("address"))
	if p.Address == "" {
		formErrs = append(formErrs, "address is required")
	}

	p.Slug = strings.TrimSpace(r.FormValue("slug"))
	if p.Slug == "" {
		p.Slug = utils.Slugify(p.Name)
	}
	if p.Slug == "" {
		formErrs = append(formErrs, "slug could not be derived")
	}

	p.Postcode = optStr(r.FormValue("postcode"))
	p.Phone = optStr(r.FormValue("phone"))
	p.URL = optStr(r.FormValue("url"))
	p.Email = optStr(r.FormValue("email"))
	p.Description = optStr(r.FormValue("description"))
	p.LegacyHours = optStr(r.FormValue("legacy_hours"))
	p.Active = r.FormValue("active") != ""

	return &p, formErrs
}

func savePlaceSpecialties(r *http.Request, db *database.DB, placeID int64) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	var ids []int64
	for _, v := range r.PostForm["specialty_ids"] {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return db.SetPlaceSpecialties(r.Context(), placeID, ids)
}

func setUpdatedBy(r *http.Request, p *models.Place) {
	if id, ok := auth.CuratorIDFromContext(r.Context()); ok {
		p.UpdatedByID = &id
	}
}

// audit records a curator action; failures are logged, never surfaced.
func audit(r *http.Request, db *database.DB, placeID *int64, action, detail string) {
	curatorID, _ := auth.CuratorIDFromContext(r.Context())
	var d *string
	if detail != "" {
		d = &detail
	}
	entry := models.AuditEntry{PlaceID: placeID, CuratorID: curatorID, Action: action, Detail: d}
	if err := db.InsertAuditEntry(r.Context(), entry); err != nil {
		log.Printf("Failed to record audit entry (%s): %v", action, err)
	}
}

// legacyHoursChanged compares the stored and submitted legacy hours text,
// treating nil and empty as equal.
func legacyHoursChanged(before, after *string) bool {
	var b, a string
	if before != nil {
		b = *before
	}
	if after != nil {
		a = *after
	}
	return b != a
}

func optStr(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
