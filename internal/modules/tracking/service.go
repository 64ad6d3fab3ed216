// README: Live tracker. Positions are derived from wall-clock time against a registered route.
package tracking

import (
	"context"
	"fmt"
	"time"

	"medidrop/internal/geo"
	"medidrop/internal/types"
)

type Service struct {
	store RouteStore
	now   func() time.Time
}

func NewService(store RouteStore) *Service {
	return &Service{store: store, now: time.Now}
}

// Start registers a straight-line route and returns its distance and duration.
// Distance is plain haversine; no routing overhead is applied here.
func (s *Service) Start(ctx context.Context, cmd StartCommand) (StartResult, error) {
	if cmd.DroneID == "" {
		return StartResult{}, fmt.Errorf("%w: drone_id is required", ErrBadRequest)
	}
	if !(cmd.SpeedKmph > 0) {
		return StartResult{}, fmt.Errorf("%w: speed_kmph must be positive", ErrBadRequest)
	}
	if !cmd.Source.Valid() || !cmd.Destination.Valid() {
		return StartResult{}, fmt.Errorf("%w: coordinates out of range", ErrBadRequest)
	}

	distance := geo.DistanceKm(cmd.Source, cmd.Destination)
	etaHours := distance / cmd.SpeedKmph
	route := Route{
		DroneID:         cmd.DroneID,
		Source:          cmd.Source,
		Destination:     cmd.Destination,
		DistanceKm:      distance,
		SpeedKmph:       cmd.SpeedKmph,
		StartedAt:       s.now(),
		DurationSeconds: etaHours * 3600,
	}
	if err := s.store.Put(ctx, route); err != nil {
		return StartResult{}, fmt.Errorf("store route: %w", err)
	}
	return StartResult{DistanceKm: distance, ETAHours: etaHours}, nil
}

// LiveLocation interpolates the drone's current position along its route.
func (s *Service) LiveLocation(ctx context.Context, droneID types.ID) (Position, error) {
	route, err := s.store.Get(ctx, droneID)
	if err != nil {
		return Position{}, err
	}
	progress := Progress(route, s.now())
	p := geo.Interpolate(route.Source, route.Destination, progress)
	return Position{
		Lat:             p.Lat,
		Lng:             p.Lng,
		ProgressPercent: geo.Round(progress*100, 2),
	}, nil
}

// Progress is the completed fraction of the route at now, in [0, 1].
func Progress(r Route, now time.Time) float64 {
	if r.DurationSeconds <= 0 {
		return 1
	}
	elapsed := now.Sub(r.StartedAt).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return min(elapsed/r.DurationSeconds, 1)
}
