package shiptrack

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/colisselect/shipment-tracking/feed"
	"github.com/colisselect/shipment-tracking/progress"
)

func testShipment() *feed.Shipment {
	return &feed.Shipment{
		ID:          "SHIP-100",
		Origin:      "48.8566, 2.3522",
		Destination: "45.7640, 4.8357",
		Status:      "in_transit",
	}
}

func TestNewSessionUnparseableLocation(t *testing.T) {
	cases := []struct {
		name string
		sh   *feed.Shipment
	}{
		{"bad origin", &feed.Shipment{ID: "x", Origin: "somewhere in France", Destination: "45.7, 4.8"}},
		{"bad destination", &feed.Shipment{ID: "x", Origin: "48.8, 2.3", Destination: ""}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewSession(c.sh, SessionOptions{})
			if !errors.Is(err, ErrMapUnavailable) {
				t.Fatalf("err = %v, want ErrMapUnavailable", err)
			}
		})
	}
}

func TestSessionLocalTicks(t *testing.T) {
	s, err := NewSession(testShipment(), SessionOptions{TickInterval: 5 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	s.Start(context.Background())
	defer s.Close()

	var prev float64 = -1
	for i := 0; i < 5; i++ {
		select {
		case tick := <-s.Ticks():
			if tick.Progress < prev {
				t.Fatalf("progress regressed: %v < %v", tick.Progress, prev)
			}
			if tick.Progress > progress.MaxAnimatedProgress {
				t.Fatalf("progress %v above ceiling", tick.Progress)
			}
			prev = tick.Progress
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for tick")
		}
	}

	if _, ok := s.Latest(); !ok {
		t.Error("Latest should report a tick after the loop ran")
	}
}

func TestSessionAdoptsBackendRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"progress": 60.0})
	}))
	defer srv.Close()

	sh := testShipment()
	sh.Status = "processing" // seeds at 10; only the backend can reach 60 this fast
	s, err := NewSession(sh, SessionOptions{
		TickInterval:   5 * time.Millisecond,
		ProgressClient: feed.NewProgressClient(srv.URL, time.Second),
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Start(context.Background())
	defer s.Close()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case tick := <-s.Ticks():
			if tick.Progress >= 60 {
				return
			}
		case <-deadline:
			t.Fatal("never reached the backend progress value")
		}
	}
}

func TestSessionWritesBack(t *testing.T) {
	var mu sync.Mutex
	puts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			mu.Lock()
			puts++
			mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s, err := NewSession(testShipment(), SessionOptions{
		TickInterval:   5 * time.Millisecond,
		ProgressClient: feed.NewProgressClient(srv.URL, time.Second),
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := puts
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no write-back observed")
		case <-time.After(10 * time.Millisecond):
		}
	}
	s.Close()
}

func TestSessionHoldsWritesUntilBackendAdopted(t *testing.T) {
	var mu sync.Mutex
	var pushed []float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			// slow fetch: many ticks elapse while the record is in flight
			time.Sleep(50 * time.Millisecond)
			_ = json.NewEncoder(w).Encode(map[string]any{"progress": 60.0})
		case http.MethodPut:
			var body struct {
				Progress float64 `json:"progress"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			pushed = append(pushed, body.Progress)
			mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	sh := testShipment()
	sh.Status = "processing" // local interpolation would write values near 10
	s, err := NewSession(sh, SessionOptions{
		TickInterval:   5 * time.Millisecond,
		ProgressClient: feed.NewProgressClient(srv.URL, time.Second),
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Start(context.Background())
	time.Sleep(300 * time.Millisecond)
	s.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(pushed) == 0 {
		t.Fatal("expected write-backs after the backend record was adopted")
	}
	for _, p := range pushed {
		if p < 60 {
			t.Errorf("write-back with progress %v slipped out before the backend record (60) was adopted", p)
		}
	}
}

func TestSessionZeroDistanceIsStatic(t *testing.T) {
	var mu sync.Mutex
	dials := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		dials++
		mu.Unlock()
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	sh := testShipment()
	sh.Destination = sh.Origin
	s, err := NewSession(sh, SessionOptions{
		TickInterval: 5 * time.Millisecond,
		FeedURL:      "ws" + srv.URL[len("http"):],
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Start(context.Background())
	defer s.Close()

	select {
	case tick := <-s.Ticks():
		if tick.Progress != 100 {
			t.Errorf("progress = %v, want 100", tick.Progress)
		}
		if tick.Source != progress.SourceDelivered {
			t.Errorf("source = %v, want delivered", tick.Source)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no tick")
	}

	// no animation: the one fixed tick is all the session ever emits
	select {
	case tick, ok := <-s.Ticks():
		if ok {
			t.Fatalf("unexpected second tick: %+v", tick)
		}
	case <-time.After(100 * time.Millisecond):
	}

	mu.Lock()
	defer mu.Unlock()
	if dials != 0 {
		t.Errorf("live feed dialed %d times, want none for a static view", dials)
	}
}

func TestSessionSeedsFromCache(t *testing.T) {
	cache, err := feed.NewLocalCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	start := time.Now().Add(-time.Hour)
	if err := cache.Save(&feed.CachedTrack{ShipmentID: "SHIP-100", StartTime: start, Progress: 42}); err != nil {
		t.Fatal(err)
	}

	s, err := NewSession(testShipment(), SessionOptions{
		TickInterval: 5 * time.Millisecond,
		Cache:        cache,
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Start(context.Background())
	defer s.Close()

	select {
	case tick := <-s.Ticks():
		if tick.Progress < 42 {
			t.Errorf("first tick progress = %v, want at least the cached 42", tick.Progress)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tick")
	}
}

func TestSessionDeliveredShipment(t *testing.T) {
	sh := testShipment()
	sh.Status = "delivered"
	s, err := NewSession(sh, SessionOptions{TickInterval: 5 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	s.Start(context.Background())
	defer s.Close()

	select {
	case tick := <-s.Ticks():
		if tick.Progress != 100 {
			t.Errorf("progress = %v, want 100", tick.Progress)
		}
		if tick.Source != progress.SourceDelivered {
			t.Errorf("source = %v, want delivered", tick.Source)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tick")
	}
}

func TestSessionCloseIdempotent(t *testing.T) {
	s, err := NewSession(testShipment(), SessionOptions{TickInterval: 5 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	s.Start(context.Background())
	s.Close()
	s.Close()

	// the tick stream ends with the session
	for range s.Ticks() {
	}
}
