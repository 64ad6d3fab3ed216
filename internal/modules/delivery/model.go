// README: Delivery result, persisted delivery row and status definitions.
package delivery

import (
	"time"

	"medidrop/internal/modules/eta"
	"medidrop/internal/types"
)

type RoadETASource string

const (
	RoadETALive     RoadETASource = "live"
	RoadETAEstimate RoadETASource = "estimate"
)

// Result is the engine output for one request.
type Result struct {
	RequestText       string           `json:"request_text"`
	Area              string           `json:"area"`
	Coordinates       types.Point      `json:"coordinates"`
	DistanceKm        float64          `json:"distance_km"`
	Priority          string           `json:"priority"`
	DroneETA          string           `json:"drone_eta"`
	RoadETA           string           `json:"road_eta"`
	RecommendedMethod eta.Method       `json:"recommended_method"`
	Weather           eta.WeatherState `json:"weather"`
	Traffic           eta.TrafficLevel `json:"traffic"`
	RoadETASource     RoadETASource    `json:"road_eta_source"`
	WeatherFallback   bool             `json:"weather_fallback"`
}

type Status string

const (
	StatusQueued     Status = "Queued"
	StatusDispatched Status = "Dispatched"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

type Delivery struct {
	ID        types.ID  `json:"id"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	Result
}

var AllowedTransitions = map[Status][]Status{
	StatusQueued:     {StatusDispatched, StatusCancelled},
	StatusDispatched: {StatusDelivered},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func ParseStatus(raw string) (Status, bool) {
	switch s := Status(raw); s {
	case StatusQueued, StatusDispatched, StatusDelivered, StatusCancelled:
		return s, true
	}
	return "", false
}
