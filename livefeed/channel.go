package livefeed

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
)

// MessageTypeGPSUpdate tags the only inbound message type surfaced to
// the reconciler; heartbeats, acks and anything else are dropped here.
const MessageTypeGPSUpdate = "gps_update"

// GpsUpdate is a transient position delta pushed by the server.
// Timestamp is epoch milliseconds.
type GpsUpdate struct {
	Type      string  `json:"type,omitempty"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Progress  float64 `json:"progress"`
	Timestamp int64   `json:"timestamp"`
}

// Time returns the update's timestamp as wall-clock time.
func (u GpsUpdate) Time() time.Time {
	return time.UnixMilli(u.Timestamp)
}

type heartbeatMessage struct {
	Type       string `json:"type"`
	ShipmentID string `json:"shipmentId"`
}

// Options bounds the reconnect loop. The numbers are policy, the bound
// is the contract: never an infinite tight loop.
type Options struct {
	ReconnectAttempts int
	ReconnectInterval time.Duration
}

// DefaultOptions mirrors the front-end subscription: up to 10 attempts
// at a fixed 3 second interval.
var DefaultOptions = Options{
	ReconnectAttempts: 10,
	ReconnectInterval: 3 * time.Second,
}

// Channel is a live update subscription keyed by shipment id.
type Channel struct {
	id         string
	shipmentID string
	url        string
	opts       Options

	updates   chan GpsUpdate
	connected atomic.Bool

	writeMu sync.Mutex
	conn    *websocket.Conn

	cancel    context.CancelFunc
	closeOnce sync.Once
	done      chan struct{}
}

// Subscribe opens a live update channel for a shipment and starts its
// read/reconnect loop. The channel lives until ctx is cancelled, Close
// is called, or reconnect attempts are exhausted; in every case the
// Updates stream is closed.
func Subscribe(ctx context.Context, feedURL, shipmentID string, opts Options) *Channel {
	if opts.ReconnectAttempts <= 0 {
		opts.ReconnectAttempts = DefaultOptions.ReconnectAttempts
	}
	if opts.ReconnectInterval <= 0 {
		opts.ReconnectInterval = DefaultOptions.ReconnectInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	ch := &Channel{
		id:         uuid.NewString(),
		shipmentID: shipmentID,
		url:        fmt.Sprintf("%s/%s", strings.TrimRight(feedURL, "/"), shipmentID),
		opts:       opts,
		updates:    make(chan GpsUpdate, 16),
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	go ch.run(ctx)
	return ch
}

// Updates streams position updates until the channel ends. Only
// gps_update messages appear here.
func (ch *Channel) Updates() <-chan GpsUpdate {
	return ch.updates
}

// IsConnected reports whether the underlying connection is currently up.
func (ch *Channel) IsConnected() bool {
	return ch.connected.Load()
}

// SendHeartbeat signals liveness to the server. Called on its own
// interval by the consumer, independent of reconnection.
func (ch *Channel) SendHeartbeat() error {
	ch.writeMu.Lock()
	defer ch.writeMu.Unlock()
	if ch.conn == nil || !ch.connected.Load() {
		return fmt.Errorf("live channel %s not connected", ch.id)
	}
	msg, err := json.Marshal(heartbeatMessage{Type: "heartbeat", ShipmentID: ch.shipmentID})
	if err != nil {
		return err
	}
	_ = ch.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return ch.conn.WriteMessage(websocket.TextMessage, msg)
}

// Close tears down the subscription. Safe to call more than once.
func (ch *Channel) Close() {
	ch.closeOnce.Do(func() {
		ch.cancel()
		ch.writeMu.Lock()
		if ch.conn != nil {
			_ = ch.conn.Close()
		}
		ch.writeMu.Unlock()
	})
	<-ch.done
}

func (ch *Channel) run(ctx context.Context) {
	defer close(ch.done)
	defer close(ch.updates)
	defer ch.connected.Store(false)

	attempts := 0
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, ch.url, nil)
		if err != nil {
			attempts++
			if attempts >= ch.opts.ReconnectAttempts {
				log.Printf("live channel %s: giving up after %d attempts: %v", ch.shipmentID, attempts, err)
				return
			}
			log.Printf("live channel %s: connect failed (attempt %d/%d): %v",
				ch.shipmentID, attempts, ch.opts.ReconnectAttempts, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(ch.opts.ReconnectInterval):
			}
			continue
		}

		// connected; a clean session resets the attempt counter
		attempts = 0
		ch.writeMu.Lock()
		ch.conn = conn
		ch.writeMu.Unlock()
		ch.connected.Store(true)
		log.Printf("live channel %s: connected", ch.shipmentID)

		// unblock the read loop when the subscription is torn down
		stop := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				_ = conn.Close()
			case <-stop:
			}
		}()

		ch.readLoop(ctx, conn)
		close(stop)

		ch.connected.Store(false)
		ch.writeMu.Lock()
		ch.conn = nil
		ch.writeMu.Unlock()
		_ = conn.Close()

		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(ch.opts.ReconnectInterval):
		}
	}
}

func (ch *Channel) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("live channel %s: read error: %v", ch.shipmentID, err)
			}
			return
		}

		var update GpsUpdate
		if err := json.Unmarshal(data, &update); err != nil {
			log.Printf("live channel %s: dropping malformed message: %v", ch.shipmentID, err)
			continue
		}
		if update.Type != MessageTypeGPSUpdate {
			continue
		}

		select {
		case ch.updates <- update:
		default:
			// consumer is behind; the next update supersedes this one anyway
		}
	}
}
