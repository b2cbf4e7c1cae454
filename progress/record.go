package progress

import "time"

// Record is the persistable view of a shipment's journey. Two stores
// hold candidate copies: the per-device cache and the backend progress
// store; the backend copy is authoritative whenever it was fetched at
// all, even at progress 0.
type Record struct {
	ShipmentID  string    `json:"shipment_id"`
	Progress    float64   `json:"progress"`
	CurrentLat  *float64  `json:"current_lat,omitempty"`
	CurrentLng  *float64  `json:"current_lng,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// HasPosition reports whether the record carries an explicit position
// rather than leaving it to interpolation.
func (r *Record) HasPosition() bool {
	return r.CurrentLat != nil && r.CurrentLng != nil
}
