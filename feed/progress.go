package feed

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/colisselect/shipment-tracking/progress"
)

// ProgressClient talks to the backend progress store, the cross-device
// source of truth for a shipment's journey.
type ProgressClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewProgressClient creates a client for the backend progress store.
// An empty base URL is tolerated: Fetch reports no record and Push is a
// no-op, which leaves the core on local interpolation.
func NewProgressClient(baseURL string, timeout time.Duration) *ProgressClient {
	return &ProgressClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch loads the backend record for a shipment. "Not found" is not an
// error: it returns (nil, nil) and the caller treats it as "no backend
// record yet".
func (c *ProgressClient) Fetch(shipmentID string) (*progress.Record, error) {
	if c.baseURL == "" {
		return nil, nil
	}
	url := fmt.Sprintf("%s/%s", c.baseURL, shipmentID)
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	var rec progress.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode progress record %s: %w", shipmentID, err)
	}
	rec.ShipmentID = shipmentID
	return &rec, nil
}

// Push writes a locally reconciled record back to the backend store so
// other devices converge to the same view. Contention with another
// device's write-back is the store's problem; last write wins.
func (c *ProgressClient) Push(rec *progress.Record) error {
	if c.baseURL == "" {
		return nil
	}
	body, err := json.Marshal(map[string]any{
		"progress":    rec.Progress,
		"current_lat": rec.CurrentLat,
		"current_lng": rec.CurrentLng,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal progress record: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, rec.ShipmentID)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to push %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated &&
		resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return nil
}
