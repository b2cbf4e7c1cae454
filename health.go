package shiptrack

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/colisselect/shipment-tracking/geo"
)

type healthResponse struct {
	Status           string `json:"status"`
	TrackedShipments int    `json:"tracked_shipments"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{
		Status:           "ok",
		TrackedShipments: sessionCount(),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

type trackingResponse struct {
	ShipmentID string            `json:"shipment_id"`
	Progress   float64           `json:"progress"`
	Position   geo.Coordinates   `json:"position"`
	Source     string            `json:"source"`
	Remaining  string            `json:"remaining"`
	Transport  geo.TransportInfo `json:"transport"`
	DistanceKM float64           `json:"distance_km"`
	// padded door-to-door estimate, distinct from the live countdown
	EstimatedDeliveryHours float64 `json:"estimated_delivery_hours"`
	UpdatedAt              string  `json:"updated_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleTrackingJSON serves GET /api/tracking/{shipmentId}.json with the
// latest reconciled tick for a registered session.
func handleTrackingJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := strings.TrimPrefix(r.URL.Path, "/api/tracking/")
	id = strings.TrimSuffix(id, ".json")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "missing or malformed shipment id"})
		return
	}

	session := lookupSession(id)
	if session == nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "shipment not tracked: " + id})
		return
	}

	tick, ok := session.Latest()
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "no tick reconciled yet for " + id})
		return
	}

	_ = json.NewEncoder(w).Encode(trackingResponse{
		ShipmentID:             tick.ShipmentID,
		Progress:               tick.Progress,
		Position:               tick.Position,
		Source:                 tick.SourceName,
		Remaining:              tick.Remaining,
		Transport:              session.Transport(),
		DistanceKM:             session.DistanceKM(),
		EstimatedDeliveryHours: geo.EstimatedDeliveryHours(session.DistanceKM()),
		UpdatedAt:              tick.At.UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}
