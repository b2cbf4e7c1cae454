package geo

// TransportInfo describes the inferred transport mode for a leg.
// Derived, never persisted; recomputed whenever the reference speed or
// distance changes.
type TransportInfo struct {
	Icon        string  `json:"icon"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	MaxSpeedKMH float64 `json:"maxSpeed"`
}

var (
	transportShip      = TransportInfo{Icon: "🚢", Name: "Navire", Color: "#2563EB", MaxSpeedKMH: 30}
	transportPlane     = TransportInfo{Icon: "✈️", Name: "Avion", Color: "#3B82F6", MaxSpeedKMH: 900}
	transportFastTrain = TransportInfo{Icon: "🚄", Name: "Train rapide", Color: "#7C3AED", MaxSpeedKMH: 250}
	transportTruck     = TransportInfo{Icon: "🚚", Name: "Camion", Color: "#16A34A", MaxSpeedKMH: 120}
	transportVan       = TransportInfo{Icon: "🚐", Name: "Camionnette", Color: "#65A30D", MaxSpeedKMH: 80}
)

// ClassifyTransport infers the transport mode from the observed speed,
// route distance, and expected travel time. First match wins: very long
// legs are ship (slow enough to take more than 72h) or plane, everything
// else buckets by speed. Total over all real inputs.
func ClassifyTransport(speedKMH, distanceKM, travelTimeHours float64) TransportInfo {
	if distanceKM > 3000 || travelTimeHours > 72 {
		if travelTimeHours > 72 {
			return transportShip
		}
		return transportPlane
	}
	switch {
	case speedKMH > 250:
		return transportPlane
	case speedKMH > 120:
		return transportFastTrain
	case speedKMH > 80:
		return transportTruck
	case speedKMH > 30:
		return transportVan
	default:
		return transportShip
	}
}
