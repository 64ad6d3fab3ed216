package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"medidrop/internal/modules/delivery"
	"medidrop/internal/types"
)

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// Route returns the live driving estimate from origin to destination,
// preferring the traffic-aware duration when Google provides one.
func (s *RouteService) Route(ctx context.Context, from, to types.Point) (delivery.RouteEstimate, error) {
	r := &maps.DirectionsRequest{
		Origin:        from.String(),
		Destination:   to.String(),
		Mode:          maps.TravelModeDriving,
		DepartureTime: "now",
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return delivery.RouteEstimate{}, types.NewProviderError("directions", types.ReasonStatus, err)
	}
	return estimateFromRoutes(routes)
}

func estimateFromRoutes(routes []maps.Route) (delivery.RouteEstimate, error) {
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return delivery.RouteEstimate{}, types.NewProviderError("directions", types.ReasonNoResult, fmt.Errorf("no route found"))
	}

	leg := routes[0].Legs[0]
	d := leg.Duration
	if leg.DurationInTraffic > 0 {
		d = leg.DurationInTraffic
	}
	if d <= 0 {
		return delivery.RouteEstimate{}, types.NewProviderError("directions", types.ReasonMalformed, fmt.Errorf("route has no duration"))
	}
	return delivery.RouteEstimate{
		TravelTimeHours: d.Hours(),
		DistanceKm:      float64(leg.Distance.Meters) / 1000,
	}, nil
}
