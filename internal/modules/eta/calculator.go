// README: ETA calculator for drone and road transport.
package eta

import (
	"fmt"
	"math"
)

const (
	DefaultDroneSpeedKmph    = 80.0
	DefaultRoadBaseSpeedKmph = 40.0
)

// trafficSpeedFactor scales the road base speed for each traffic level.
var trafficSpeedFactor = map[TrafficLevel]float64{
	TrafficLow:    1.0,
	TrafficMedium: 0.7,
	TrafficHigh:   0.5,
}

type Calculator struct {
	DroneSpeedKmph    float64
	RoadBaseSpeedKmph float64
}

// NewCalculator returns a Calculator; non-positive speeds fall back to the defaults.
func NewCalculator(droneSpeedKmph, roadBaseSpeedKmph float64) Calculator {
	if droneSpeedKmph <= 0 {
		droneSpeedKmph = DefaultDroneSpeedKmph
	}
	if roadBaseSpeedKmph <= 0 {
		roadBaseSpeedKmph = DefaultRoadBaseSpeedKmph
	}
	return Calculator{DroneSpeedKmph: droneSpeedKmph, RoadBaseSpeedKmph: roadBaseSpeedKmph}
}

// DroneMinutes is the straight flight time in minutes.
func (c Calculator) DroneMinutes(distanceKm float64) float64 {
	return distanceKm / c.DroneSpeedKmph * 60
}

// RoadHours estimates road travel time from distance and traffic. It is only
// used when no live routing answer is available.
func (c Calculator) RoadHours(distanceKm float64, level TrafficLevel) float64 {
	factor, ok := trafficSpeedFactor[level]
	if !ok {
		factor = trafficSpeedFactor[TrafficHigh]
	}
	return distanceKm / (c.RoadBaseSpeedKmph * factor)
}

// FormatHoursHM renders hours as "{h}h {m}m". Minutes that round up to 60
// carry into the hour.
func FormatHoursHM(hours float64) string {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return "0h 0m"
	}
	h := math.Floor(hours)
	m := math.Round((hours - h) * 60)
	if m >= 60 {
		h++
		m = 0
	}
	return fmt.Sprintf("%dh %dm", int64(h), int64(m))
}
