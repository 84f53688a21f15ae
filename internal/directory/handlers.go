// Package directory serves the visitor-facing pages: the shop listing with
// search and filters, shop detail pages, the map, and the read-only JSON API.
package directory

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"antiques-directory/internal/hours"
	"antiques-directory/internal/models"
	"antiques-directory/pkg/database"
	errs "antiques-directory/pkg/errors"
	"antiques-directory/pkg/metrics"

	"github.com/gorilla/mux"
)

// metrics
var (
	mListingViews = metrics.Default.Counter("listing_views_total", "Listing page views")
	mDetailViews  = metrics.Default.Counter("detail_views_total", "Shop detail page views")
	mOpenNowUsed  = metrics.Default.Counter("open_now_filter_total", "Listing requests using the open-now filter")
	mAPIRequests  = metrics.Default.Counter("api_requests_total", "JSON API requests")
	gCachedWeeks  = metrics.Default.Gauge("hours_cache_entries_gauge", "Hours cache entry count")
)

// openNowFetchCap bounds how many rows the open-now filter evaluates; the
// filter cannot run in SQL, so pagination happens in memory.
const openNowFetchCap = 500

// HomeHandler renders the listing with search, specialty and open-now
// filters.
func HomeHandler(db *database.DB, svc *HoursService, pageSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mListingViews.Inc(1)

		q := r.URL.Query()
		search := q.Get("search")
		openNow := q.Get("open") == "now"
		page, _ := strconv.Atoi(q.Get("page"))
		if page < 1 {
			page = 1
		}

		var specialty *models.Specialty
		if slug := q.Get("specialty"); slug != "" {
			s, err := db.GetSpecialtyBySlug(r.Context(), slug)
			if err != nil && !errs.IsNotFound(err) {
				http.Error(w, fmt.Sprintf("Error fetching specialty: %v", err), http.StatusInternalServerError)
				return
			}
			// Unknown slug falls back to an unfiltered listing.
			specialty = s
		}

		filter := models.PlaceFilter{Query: search}
		if specialty != nil {
			filter.SpecialtyID = specialty.ID
		}
		if openNow {
			mOpenNowUsed.Inc(1)
			filter.Limit = openNowFetchCap
		} else {
			filter.Limit = pageSize
			filter.Offset = (page - 1) * pageSize
		}

		places, err := db.GetPlaces(r.Context(), filter)
		if err != nil {
			http.Error(w, fmt.Sprintf("Error fetching places: %v", err), http.StatusInternalServerError)
			return
		}

		views := make([]PlaceView, 0, len(places))
		for _, p := range places {
			v, err := svc.View(r.Context(), p)
			if err != nil {
				log.Printf("Error building view for place %d: %v", p.ID, err)
				continue
			}
			if openNow && !v.State.Open {
				continue
			}
			views = append(views, v)
		}
		gCachedWeeks.SetFloat64(float64(svc.cache.Len()))

		total := len(views)
		if openNow {
			// In-memory pagination over the filtered slice.
			start := (page - 1) * pageSize
			if start > total {
				start = total
			}
			end := start + pageSize
			if end > total {
				end = total
			}
			views = views[start:end]
		}

		tree, err := db.GetSpecialtyTree(r.Context())
		if err != nil {
			log.Printf("Error fetching specialty tree: %v", err)
			tree = nil
		}

		// Exact page counts need a COUNT query; a full page is enough signal
		// for a "next" link.
		hasNext := len(views) == pageSize && !openNow
		if openNow {
			hasNext = page*pageSize < total
		}

		data := struct {
			Places      []PlaceView
			Specialties []models.SpecialtyTree
			Specialty   *models.Specialty
			Search      string
			OpenNow     bool
			Page        int
			PrevPage    int
			NextPage    int
			HasNext     bool
		}{
			Places:      views,
			Specialties: tree,
			Specialty:   specialty,
			Search:      search,
			OpenNow:     openNow,
			Page:        page,
			PrevPage:    page - 1,
			NextPage:    page + 1,
			HasNext:     hasNext,
		}

		if err := ExecuteTemplate(w, "listing.tmpl", data); err != nil {
			http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
			return
		}
	}
}

// PlaceDetailHandler renders one shop page by slug, with the grouped weekly
// schedule and open state.
func PlaceDetailHandler(db *database.DB, svc *HoursService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mDetailViews.Inc(1)

		slug := mux.Vars(r)["slug"]
		place, err := db.GetPlaceBySlug(r.Context(), slug)
		if err != nil {
			if errs.IsNotFound(err) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, fmt.Sprintf("Error fetching place: %v", err), http.StatusInternalServerError)
			return
		}

		specs, err := db.GetSpecialtiesForPlace(r.Context(), place.ID)
		if err != nil {
			log.Printf("Error fetching specialties for place %d: %v", place.ID, err)
			specs = nil
		}

		view, err := svc.View(r.Context(), models.PlaceWithSpecialties{Place: *place, Specialties: specs})
		if err != nil {
			http.Error(w, fmt.Sprintf("Error building view: %v", err), http.StatusInternalServerError)
			return
		}

		if err := ExecuteTemplate(w, "place_detail.tmpl", view); err != nil {
			http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
			return
		}
	}
}

// MapHandler renders the map page with every geocoded shop as a pin.
func MapHandler(db *database.DB, svc *HoursService, mapsAPIKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		places, err := db.GetPlaces(r.Context(), models.PlaceFilter{Limit: openNowFetchCap})
		if err != nil {
			http.Error(w, fmt.Sprintf("Error fetching places: %v", err), http.StatusInternalServerError)
			return
		}

		type pin struct {
			ID    int64   `json:"id"`
			Name  string  `json:"name"`
			Slug  string  `json:"slug"`
			Lat   float64 `json:"lat"`
			Lng   float64 `json:"lng"`
			Open  bool    `json:"open"`
			Appt  bool    `json:"appointment_only"`
			Hours string  `json:"hours"`
		}
		var pins []pin
		for _, p := range places {
			if !p.HasCoordinates() {
				continue
			}
			v, err := svc.View(r.Context(), p)
			if err != nil {
				log.Printf("Error building view for place %d: %v", p.ID, err)
				continue
			}
			hoursText := ""
			if len(v.Groups) > 0 {
				hoursText = v.Groups[0].DayText + ": " + v.Groups[0].HoursText
			}
			pins = append(pins, pin{
				ID: p.ID, Name: p.Name, Slug: p.Slug,
				Lat: *p.Lat, Lng: *p.Lng,
				Open: v.State.Open, Appt: v.State.AppointmentOnly,
				Hours: hoursText,
			})
		}

		pinJSON, err := json.Marshal(pins)
		if err != nil {
			http.Error(w, fmt.Sprintf("Error encoding pins: %v", err), http.StatusInternalServerError)
			return
		}

		data := struct {
			Pins       template.JS
			PinCount   int
			MapsAPIKey string
		}{
			Pins:       template.JS(pinJSON),
			PinCount:   len(pins),
			MapsAPIKey: mapsAPIKey,
		}
		if err := ExecuteTemplate(w, "map.tmpl", data); err != nil {
			http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
			return
		}
	}
}

// APIPlacesHandler returns the filtered listing as JSON.
func APIPlacesHandler(db *database.DB, svc *HoursService, pageSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mAPIRequests.Inc(1)

		q := r.URL.Query()
		openNow := q.Get("open") == "now"
		filter := models.PlaceFilter{Query: q.Get("search"), Limit: pageSize}
		if openNow {
			filter.Limit = openNowFetchCap
		}
		if slug := q.Get("specialty"); slug != "" {
			if s, err := db.GetSpecialtyBySlug(r.Context(), slug); err == nil {
				filter.SpecialtyID = s.ID
			}
		}

		places, err := db.GetPlaces(r.Context(), filter)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		type apiPlace struct {
			models.PlaceWithSpecialties
			State OpenState `json:"state"`
		}
		out := make([]apiPlace, 0, len(places))
		for _, p := range places {
			v, err := svc.View(r.Context(), p)
			if err != nil {
				log.Printf("Error building view for place %d: %v", p.ID, err)
				continue
			}
			if openNow && !v.State.Open {
				continue
			}
			out = append(out, apiPlace{PlaceWithSpecialties: p, State: v.State})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"places": out, "count": len(out)})
	}
}

// APIPlaceHoursHandler returns one place's schedule: the raw week, the
// display groups, and the evaluated state.
func APIPlaceHoursHandler(db *database.DB, svc *HoursService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mAPIRequests.Inc(1)

		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, fmt.Errorf("invalid place id"))
			return
		}

		place, err := db.GetPlaceByID(r.Context(), id)
		if err != nil || !place.Active {
			writeJSONError(w, http.StatusNotFound, fmt.Errorf("place not found"))
			return
		}

		week, err := svc.Week(r.Context(), id)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"place_id": id,
			"week":     week,
			"groups":   hours.GroupForDisplay(week),
			"state":    svc.Evaluate(week),
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
