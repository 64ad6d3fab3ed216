// README: Time-of-day traffic estimation.
package eta

// TrafficAt classifies road traffic from the hour of day (0-23).
// Morning and evening rush hours are High, daytime is Medium, night is Low.
func TrafficAt(hour int) TrafficLevel {
	switch {
	case (hour >= 6 && hour <= 9) || (hour >= 17 && hour <= 20):
		return TrafficHigh
	case hour >= 10 && hour <= 16:
		return TrafficMedium
	default:
		return TrafficLow
	}
}
