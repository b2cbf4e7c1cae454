package feed

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Shipment is the subset of the external shipment record the tracking
// core reads. Origin and destination are free-text location strings;
// DepartureTime holds the scheduled arrival date-time despite its wire
// name, kept here for compatibility with the shipment API.
type Shipment struct {
	ID          string `json:"id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	PickupDate  string `json:"pickup_date,omitempty"`
	PickupTime  string `json:"pickup_time,omitempty"`
	ArrivalTime string `json:"departure_time,omitempty"`
	Status      string `json:"status"`
}

var (
	dateLayouts = []string{"2006-01-02", "02/01/2006"}
	timeLayouts = []string{"15:04", "15:04:05", "3:04 PM"}
	dateTimeLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
)

// PickupInstant combines pickup_date and pickup_time into the scheduled
// departure instant. Both fields are free text; anything unparseable
// yields (zero, false) and the caller falls back to defaults.
func (s *Shipment) PickupInstant() (time.Time, bool) {
	d := strings.TrimSpace(s.PickupDate)
	if d == "" {
		return time.Time{}, false
	}
	var day time.Time
	var err error
	for _, layout := range dateLayouts {
		if day, err = time.Parse(layout, d); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, false
	}

	clock := strings.TrimSpace(s.PickupTime)
	if clock == "" {
		return day, true
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
		}
	}
	return day, true
}

// ArrivalInstant parses the scheduled arrival date-time.
func (s *Shipment) ArrivalInstant() (time.Time, bool) {
	raw := strings.TrimSpace(s.ArrivalTime)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ShipmentClient reads shipment records from the external CRUD API.
// The tracking core never writes these fields.
type ShipmentClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewShipmentClient creates a client for the shipment record API.
func NewShipmentClient(baseURL string, timeout time.Duration) *ShipmentClient {
	return &ShipmentClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Get fetches a single shipment record by id.
func (c *ShipmentClient) Get(shipmentID string) (*Shipment, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("shipment API URL not configured")
	}
	url := fmt.Sprintf("%s/%s", c.baseURL, shipmentID)
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	var s Shipment
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode shipment %s: %w", shipmentID, err)
	}
	return &s, nil
}
