package geo

import (
	"math"
	"testing"
)

func TestParseCoordinatesDMS(t *testing.T) {
	c, ok := ParseCoordinates(`12°46'50.4"N 77°29'50.2"E`)
	if !ok {
		t.Fatal("expected DMS string to parse")
	}
	if math.Abs(c.Latitude-12.7807) > 0.001 {
		t.Errorf("latitude: expected ~12.7807, got %f", c.Latitude)
	}
	if math.Abs(c.Longitude-77.4973) > 0.001 {
		t.Errorf("longitude: expected ~77.4973, got %f", c.Longitude)
	}
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLat float64
		wantLon float64
		wantOK  bool
	}{
		{
			name:    "decimal pair",
			input:   "12.780667, 77.497278",
			wantLat: 12.780667,
			wantLon: 77.497278,
			wantOK:  true,
		},
		{
			name:    "negative decimal pair",
			input:   "-33.8688, 151.2093",
			wantLat: -33.8688,
			wantLon: 151.2093,
			wantOK:  true,
		},
		{
			name:    "decimal pair without spaces",
			input:   "48.8566,2.3522",
			wantLat: 48.8566,
			wantLon: 2.3522,
			wantOK:  true,
		},
		{
			name:    "southern and western hemispheres",
			input:   `33°52'7.7"S 151°12'33.5"W`,
			wantLat: -(33 + 52.0/60 + 7.7/3600),
			wantLon: -(151 + 12.0/60 + 33.5/3600),
			wantOK:  true,
		},
		{
			name:   "free text address",
			input:  "12 rue de la Paix, Paris",
			wantOK: false,
		},
		{
			name:   "empty string",
			input:  "",
			wantOK: false,
		},
		{
			name:   "latitude out of range",
			input:  "95.0, 10.0",
			wantOK: false,
		},
		{
			name:   "longitude out of range",
			input:  "10.0, 190.0",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ParseCoordinates(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok: expected %v, got %v", tt.wantOK, ok)
			}
			if !ok {
				return
			}
			if math.Abs(c.Latitude-tt.wantLat) > 1e-9 {
				t.Errorf("latitude: expected %f, got %f", tt.wantLat, c.Latitude)
			}
			if math.Abs(c.Longitude-tt.wantLon) > 1e-9 {
				t.Errorf("longitude: expected %f, got %f", tt.wantLon, c.Longitude)
			}
		})
	}
}

func TestParseCoordinatesRoundTrip(t *testing.T) {
	orig := Coordinates{Latitude: 45.764043, Longitude: 4.835659}
	parsed, ok := ParseCoordinates(orig.Format())
	if !ok {
		t.Fatal("formatted coordinates should parse back")
	}
	if math.Abs(parsed.Latitude-orig.Latitude) > 1e-6 ||
		math.Abs(parsed.Longitude-orig.Longitude) > 1e-6 {
		t.Errorf("round trip mismatch: %v vs %v", parsed, orig)
	}
}

func TestInterpolate(t *testing.T) {
	a := Coordinates{Latitude: 0, Longitude: 0}
	b := Coordinates{Latitude: 10, Longitude: 20}

	mid := Interpolate(a, b, 0.5)
	if mid.Latitude != 5 || mid.Longitude != 10 {
		t.Errorf("midpoint: expected (5, 10), got (%f, %f)", mid.Latitude, mid.Longitude)
	}
	if start := Interpolate(a, b, 0); start != a {
		t.Errorf("t=0 should return a, got %v", start)
	}
	if end := Interpolate(a, b, 1); end != b {
		t.Errorf("t=1 should return b, got %v", end)
	}
}
