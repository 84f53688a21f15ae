// Package geocode wraps the Google Maps geocoding API for the map view:
// shop addresses in, coordinates out. Calls run behind a circuit breaker so
// a Google outage degrades to "no pin" instead of stalling admin actions.
package geocode

import (
	"context"
	"strings"

	"antiques-directory/pkg/circuit"
	errs "antiques-directory/pkg/errors"

	"googlemaps.github.io/maps"
)

// Rough bounding box around the Edinburgh council area. Results outside it
// are almost always a mismatched address (same street name elsewhere in the
// UK) and are rejected rather than pinned in the wrong city.
const (
	minLat = 55.80
	maxLat = 56.05
	minLng = -3.45
	maxLng = -3.00
)

// Result is one geocoded address.
type Result struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
	Locality         string  `json:"locality"`
}

type Geocoder struct {
	client  *maps.Client
	breaker *circuit.Breaker
}

func NewGeocoder(apiKey string, breaker *circuit.Breaker) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Geocoder{client: client, breaker: breaker}, nil
}

// Geocode resolves a shop address to coordinates. The city is appended when
// the caller did not include it; curators enter street addresses only.
func (g *Geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	query := strings.TrimSpace(address)
	if query == "" {
		return nil, errs.NewValidation("geocode.Geocode", "empty address", nil)
	}
	if !strings.Contains(strings.ToLower(query), "edinburgh") {
		query += ", Edinburgh, UK"
	}

	var results []maps.GeocodingResult
	err := g.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		results, err = g.client.Geocode(ctx, &maps.GeocodingRequest{Address: query})
		return err
	})
	if err != nil {
		return nil, errs.NewExternal("geocode.Geocode", "google", "geocoding request failed", err)
	}
	if len(results) == 0 {
		return nil, errs.NewNotFound("geocode.Geocode", "no geocoding result for address")
	}

	top := results[0]
	res := &Result{
		Lat:              top.Geometry.Location.Lat,
		Lng:              top.Geometry.Location.Lng,
		FormattedAddress: top.FormattedAddress,
		Locality:         extractLocality(top.AddressComponents),
	}
	if !withinEdinburgh(res.Lat, res.Lng) {
		return nil, errs.NewValidation("geocode.Geocode",
			"geocoded location falls outside Edinburgh", nil)
	}
	return res, nil
}

// extractLocality pulls the city component from the geocoding result.
func extractLocality(components []maps.AddressComponent) string {
	for _, c := range components {
		for _, t := range c.Types {
			if t == "locality" || t == "postal_town" {
				return c.LongName
			}
		}
	}
	return ""
}

func withinEdinburgh(lat, lng float64) bool {
	return lat >= minLat && lat <= maxLat && lng >= minLng && lng <= maxLng
}
