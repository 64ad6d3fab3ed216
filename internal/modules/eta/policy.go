// README: Transport recommendation policy.
package eta

// Recommend picks the transport mode for the given weather. Drones only fly in
// clear weather; traffic, priority and distance are deliberately not inputs.
func Recommend(w WeatherState) Method {
	if w == WeatherClear {
		return MethodDrone
	}
	return MethodRoad
}
