package geo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Coordinates is a parsed latitude/longitude pair in decimal degrees.
// Latitude is in [-90, 90], longitude in [-180, 180].
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

var (
	dmsRegex = regexp.MustCompile(
		`(-?\d+)[°]\s*(\d+)[′']\s*([\d.]+)[″"]?\s*([NSns])\s+(-?\d+)[°]\s*(\d+)[′']\s*([\d.]+)[″"]?\s*([EWew])`)
	decimalRegex = regexp.MustCompile(`(-?\d+\.?\d*),\s*(-?\d+\.?\d*)`)
)

// ParseCoordinates parses a free-text location string into Coordinates.
// DMS notation is tried first, then a decimal pair. Returns (zero, false)
// when neither matches or the values are out of range; an unparseable
// location means "no map available", never an error.
func ParseCoordinates(text string) (Coordinates, bool) {
	s := strings.TrimSpace(text)

	if m := dmsRegex.FindStringSubmatch(s); m != nil {
		latDeg, _ := strconv.Atoi(m[1])
		latMin, _ := strconv.Atoi(m[2])
		latSec, _ := strconv.ParseFloat(m[3], 64)
		lonDeg, _ := strconv.Atoi(m[5])
		lonMin, _ := strconv.Atoi(m[6])
		lonSec, _ := strconv.ParseFloat(m[7], 64)

		lat := float64(latDeg) + float64(latMin)/60 + latSec/3600
		lon := float64(lonDeg) + float64(lonMin)/60 + lonSec/3600

		if strings.EqualFold(m[4], "S") {
			lat = -lat
		}
		if strings.EqualFold(m[8], "W") {
			lon = -lon
		}
		return checked(Coordinates{Latitude: lat, Longitude: lon})
	}

	if m := decimalRegex.FindStringSubmatch(s); m != nil {
		lat, err1 := strconv.ParseFloat(m[1], 64)
		lon, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			return Coordinates{}, false
		}
		return checked(Coordinates{Latitude: lat, Longitude: lon})
	}

	return Coordinates{}, false
}

func checked(c Coordinates) (Coordinates, bool) {
	if c.Latitude < -90 || c.Latitude > 90 {
		return Coordinates{}, false
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return Coordinates{}, false
	}
	return c, true
}

// Format renders coordinates as a decimal pair with six digits, the
// same shape the decimal parser accepts.
func (c Coordinates) Format() string {
	return fmt.Sprintf("%.6f, %.6f", c.Latitude, c.Longitude)
}

// Interpolate returns the point at fraction t on the straight segment
// between a and b. t is not clamped; callers clamp progress themselves.
func Interpolate(a, b Coordinates, t float64) Coordinates {
	return Coordinates{
		Latitude:  a.Latitude + (b.Latitude-a.Latitude)*t,
		Longitude: a.Longitude + (b.Longitude-a.Longitude)*t,
	}
}
