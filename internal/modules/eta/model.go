// README: Condition enums consumed by the ETA calculator and recommendation policy.
package eta

import "strings"

type TrafficLevel string

const (
	TrafficLow    TrafficLevel = "Low"
	TrafficMedium TrafficLevel = "Medium"
	TrafficHigh   TrafficLevel = "High"
)

type WeatherState string

const (
	WeatherClear WeatherState = "Clear"
	WeatherRainy WeatherState = "Rainy"
	WeatherStorm WeatherState = "Storm"
)

type Method string

const (
	MethodDrone Method = "Drone"
	MethodRoad  Method = "Road"
)

// ParseWeather maps a provider condition ("Rain", "clouds", ...) onto a
// WeatherState. Anything unknown is treated as Clear.
func ParseWeather(raw string) WeatherState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "clear", "clouds":
		return WeatherClear
	case "rain", "drizzle":
		return WeatherRainy
	case "thunderstorm", "snow":
		return WeatherStorm
	default:
		return WeatherClear
	}
}
