package geo

import (
	"math"
	"time"
)

// EarthRadiusKM is the mean Earth radius used by the haversine formula.
const EarthRadiusKM = 6371.0

// DefaultSpeedKMH is the fallback reference speed when no usable
// schedule exists on the shipment.
const DefaultSpeedKMH = 80.0

// averageSpeedKMH is the assumed door-to-door average used for the
// padded delivery estimate.
const averageSpeedKMH = 50.0

// DistanceKM returns the great-circle distance between two points in
// kilometers. Symmetric, zero for identical points.
func DistanceKM(a, b Coordinates) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return EarthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// EstimatedDeliveryHours returns a generously padded door-to-door
// estimate: travel at the assumed average speed, a fixed 24h processing
// buffer, and a distance-scaled buffer capped at 48h. Monotone in
// distance and never below 24.
func EstimatedDeliveryHours(distanceKM float64) float64 {
	travel := distanceKM / averageSpeedKMH
	buffer := math.Min(distanceKM*0.1, 48)
	return travel + 24 + buffer
}

// ReferenceSpeedKMH derives the speed implied by the shipment schedule:
// route distance over the pickup-to-arrival window. Falls back to
// DefaultSpeedKMH when either instant is missing, the window is not
// positive, or the route has no length.
func ReferenceSpeedKMH(origin, destination Coordinates, pickupAt, arrivalAt *time.Time) float64 {
	if pickupAt == nil || arrivalAt == nil {
		return DefaultSpeedKMH
	}
	if !arrivalAt.After(*pickupAt) {
		return DefaultSpeedKMH
	}
	dist := DistanceKM(origin, destination)
	if dist <= 0 {
		return DefaultSpeedKMH
	}
	hours := arrivalAt.Sub(*pickupAt).Hours()
	return dist / hours
}
