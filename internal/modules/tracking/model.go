// README: Simulated drone routes and live positions.
package tracking

import (
	"errors"
	"time"

	"medidrop/internal/types"
)

var (
	ErrNotFound   = errors.New("route not found")
	ErrBadRequest = errors.New("bad request")
)

// Route is a registered drone flight. A later start for the same drone replaces it.
type Route struct {
	DroneID         types.ID    `json:"drone_id"`
	Source          types.Point `json:"source"`
	Destination     types.Point `json:"destination"`
	DistanceKm      float64     `json:"distance_km"`
	SpeedKmph       float64     `json:"speed_kmph"`
	StartedAt       time.Time   `json:"-"`
	StartedAtUnix   float64     `json:"start_time"`
	DurationSeconds float64     `json:"duration_seconds"`
}

type StartCommand struct {
	DroneID     types.ID
	Source      types.Point
	Destination types.Point
	SpeedKmph   float64
}

type StartResult struct {
	DistanceKm float64 `json:"distance_km"`
	ETAHours   float64 `json:"eta_hours"`
}

type Position struct {
	Lat             float64 `json:"latitude"`
	Lng             float64 `json:"longitude"`
	ProgressPercent float64 `json:"progress_percent"`
}
