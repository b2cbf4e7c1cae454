package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// CachedTrack is the per-device fallback copy of a shipment's journey:
// the animation's time anchor plus the last reconciled progress and
// position. Used only when the backend record is unavailable.
type CachedTrack struct {
	ShipmentID string    `json:"shipment_id"`
	StartTime  time.Time `json:"start_time"`
	Progress   float64   `json:"progress"`
	Lat        *float64  `json:"current_lat,omitempty"`
	Lng        *float64  `json:"current_lng,omitempty"`
	UpdatedAt  time.Time `json:"last_updated"`
}

// LocalCache persists CachedTrack records as one JSON file per shipment
// under a cache directory.
type LocalCache struct {
	dir string
}

// NewLocalCache opens (and creates if needed) the cache directory.
func NewLocalCache(dir string) (*LocalCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}
	return &LocalCache{dir: dir}, nil
}

func (c *LocalCache) path(shipmentID string) string {
	// shipment ids come from an external API; keep the filename tame
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, shipmentID)
	return filepath.Join(c.dir, "shipment-"+safe+".json")
}

// Load reads the cached track for a shipment. Absent or corrupt files
// report (nil, false); the cache is a fallback, never a hard failure.
func (c *LocalCache) Load(shipmentID string) (*CachedTrack, bool) {
	data, err := os.ReadFile(c.path(shipmentID))
	if err != nil {
		return nil, false
	}
	var t CachedTrack
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, false
	}
	return &t, true
}

// Save writes the cached track for a shipment.
func (c *LocalCache) Save(t *CachedTrack) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal cached track: %w", err)
	}
	if err := os.WriteFile(c.path(t.ShipmentID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cached track: %w", err)
	}
	return nil
}
