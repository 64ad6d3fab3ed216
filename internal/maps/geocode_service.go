package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"medidrop/internal/types"
)

// ServiceRegion is the area deliveries may be sent to: a whole state, plus
// named localities that are accepted even if the state component is missing.
type ServiceRegion struct {
	Country    string
	State      string
	Localities []string
}

// Contains reports whether a geocoding result lies inside the region.
func (r ServiceRegion) Contains(components []maps.AddressComponent) bool {
	for _, c := range components {
		name := strings.ToLower(c.LongName)
		for _, t := range c.Types {
			switch t {
			case "administrative_area_level_1":
				if r.State != "" && name == strings.ToLower(r.State) {
					return true
				}
			case "locality":
				for _, l := range r.Localities {
					if name == strings.ToLower(l) {
						return true
					}
				}
			}
		}
	}
	return false
}

// GeocodeService resolves area names with the Google Geocoding API.
type GeocodeService struct {
	client *maps.Client
	region ServiceRegion
}

// NewGeocodeService creates a new GeocodeService with the given API Key.
func NewGeocodeService(apiKey string, region ServiceRegion) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{client: client, region: region}, nil
}

// Resolve returns the coordinates of the first result for area that falls
// inside the service region.
func (s *GeocodeService) Resolve(ctx context.Context, area string) (types.Point, error) {
	r := &maps.GeocodingRequest{Address: area}
	if s.region.Country != "" {
		r.Region = strings.ToLower(s.region.Country)
		r.Components = map[maps.Component]string{maps.ComponentCountry: s.region.Country}
	}

	results, err := s.client.Geocode(ctx, r)
	if err != nil {
		return types.Point{}, types.NewProviderError("geocoding", types.ReasonStatus, err)
	}
	return pickInRegion(results, s.region, area)
}

func pickInRegion(results []maps.GeocodingResult, region ServiceRegion, area string) (types.Point, error) {
	if len(results) == 0 {
		return types.Point{}, types.NewProviderError("geocoding", types.ReasonNoResult, fmt.Errorf("no result for %q", area))
	}
	for _, res := range results {
		if !region.Contains(res.AddressComponents) {
			continue
		}
		p := types.Point{Lat: res.Geometry.Location.Lat, Lng: res.Geometry.Location.Lng}
		if !p.Valid() {
			return types.Point{}, types.NewProviderError("geocoding", types.ReasonMalformed, fmt.Errorf("bad coordinates %s", p))
		}
		return p, nil
	}
	return types.Point{}, types.NewProviderError("geocoding", types.ReasonOutsideRegion, fmt.Errorf("%q is outside %s", area, region.State))
}
