package utils

// ValidateCoordinates reports whether lat/lng form a point on the globe.
func ValidateCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
