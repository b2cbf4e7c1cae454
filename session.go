package shiptrack

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/colisselect/shipment-tracking/config"
	"github.com/colisselect/shipment-tracking/feed"
	"github.com/colisselect/shipment-tracking/geo"
	"github.com/colisselect/shipment-tracking/livefeed"
	"github.com/colisselect/shipment-tracking/progress"
)

// ErrMapUnavailable means the shipment's origin or destination could
// not be resolved to coordinates. The session never starts in that
// case: no animation, no network calls, no live subscription.
var ErrMapUnavailable = errors.New("map unavailable")

// SessionOptions wires a session to its collaborators and policy.
// Zero-valued fields fall back to sensible defaults; a nil client or
// empty feed URL disables that collaborator and the session degrades
// to local interpolation.
type SessionOptions struct {
	TickInterval      time.Duration
	HeartbeatInterval time.Duration

	FeedURL string
	Live    livefeed.Options

	ProgressClient *feed.ProgressClient
	Cache          *feed.LocalCache
}

// OptionsFromConfig builds session options from the loaded application
// configuration.
func OptionsFromConfig() SessionOptions {
	cfg := config.Config
	timeout := time.Duration(cfg.Backend.TimeoutMS) * time.Millisecond

	opts := SessionOptions{
		TickInterval:      time.Duration(cfg.Tracking.TickIntervalMS) * time.Millisecond,
		HeartbeatInterval: time.Duration(cfg.Live.HeartbeatIntervalMS) * time.Millisecond,
		FeedURL:           cfg.Live.FeedURL,
		Live: livefeed.Options{
			ReconnectAttempts: cfg.Live.ReconnectAttempts,
			ReconnectInterval: time.Duration(cfg.Live.ReconnectIntervalMS) * time.Millisecond,
		},
	}
	if cfg.Backend.ProgressURL != "" {
		opts.ProgressClient = feed.NewProgressClient(cfg.Backend.ProgressURL, timeout)
	}
	if cfg.Tracking.CacheDir != "" {
		if cache, err := feed.NewLocalCache(cfg.Tracking.CacheDir); err != nil {
			log.Printf("local cache unavailable: %v", err)
		} else {
			opts.Cache = cache
		}
	}
	return opts
}

// Session drives one shipment's live tracking view: it owns the
// reconciler, the live channel subscription and the write-back loop,
// and publishes one reconciled tick per interval until closed.
type Session struct {
	shipment    *feed.Shipment
	origin      geo.Coordinates
	destination geo.Coordinates
	startTime   time.Time

	rec  *progress.Reconciler
	opts SessionOptions

	ticks   chan progress.Tick
	latest  atomic.Value
	loading atomic.Bool
	pushing atomic.Bool

	cancel    context.CancelFunc
	closeOnce sync.Once
	done      chan struct{}
}

// NewSession resolves the shipment's route and builds its reconciler.
// It fails with ErrMapUnavailable when either location is unparseable;
// every other degraded input (missing schedule, empty cache) falls back
// to defaults.
func NewSession(sh *feed.Shipment, opts SessionOptions) (*Session, error) {
	origin, ok := geo.ParseCoordinates(sh.Origin)
	if !ok {
		return nil, fmt.Errorf("%w: origin %q", ErrMapUnavailable, sh.Origin)
	}
	destination, ok := geo.ParseCoordinates(sh.Destination)
	if !ok {
		return nil, fmt.Errorf("%w: destination %q", ErrMapUnavailable, sh.Destination)
	}

	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}

	var pickupAt, arrivalAt *time.Time
	if t, ok := sh.PickupInstant(); ok {
		pickupAt = &t
	}
	if t, ok := sh.ArrivalInstant(); ok {
		arrivalAt = &t
	}

	startTime := time.Now()
	seed := progress.StatusProgress(sh.Status)
	if opts.Cache != nil {
		if cached, ok := opts.Cache.Load(sh.ID); ok {
			if !cached.StartTime.IsZero() {
				startTime = cached.StartTime
			}
			seed = cached.Progress
		}
	}

	rec := progress.New(progress.Params{
		ShipmentID:        sh.ID,
		Origin:            origin,
		Destination:       destination,
		ReferenceSpeedKMH: geo.ReferenceSpeedKMH(origin, destination, pickupAt, arrivalAt),
		StartTime:         startTime,
		PickupAt:          pickupAt,
		Delivered:         sh.Status == progress.StatusDelivered,
		SeedProgress:      seed,
	})

	return &Session{
		shipment:    sh,
		origin:      origin,
		destination: destination,
		startTime:   startTime,
		rec:         rec,
		opts:        opts,
		ticks:       make(chan progress.Tick, 4),
		done:        make(chan struct{}),
	}, nil
}

// Start launches the session loop. The session runs until ctx is
// cancelled or Close is called.
func (s *Session) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.run(ctx)
}

// Ticks streams reconciled ticks until the session ends. Slow readers
// miss intermediate ticks rather than stalling the loop.
func (s *Session) Ticks() <-chan progress.Tick {
	return s.ticks
}

// Latest returns the most recent reconciled tick, if any.
func (s *Session) Latest() (progress.Tick, bool) {
	v := s.latest.Load()
	if v == nil {
		return progress.Tick{}, false
	}
	return v.(progress.Tick), true
}

// Shipment returns the shipment record the session was mounted with.
func (s *Session) Shipment() *feed.Shipment { return s.shipment }

// Transport describes the inferred transport mode for the route.
func (s *Session) Transport() geo.TransportInfo { return s.rec.Transport() }

// DistanceKM returns the route's great-circle length.
func (s *Session) DistanceKM() float64 { return s.rec.DistanceKM() }

// Close tears the session down and waits for the loop to exit. Safe to
// call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
	if s.cancel != nil {
		<-s.done
	}
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.ticks)

	// nothing to animate on a degenerate route or a finished shipment:
	// publish the one fixed tick and idle, with no live subscription,
	// no heartbeat and no backend traffic
	if s.rec.DistanceKM() == 0 || s.shipment.Status == progress.StatusDelivered {
		tick := s.rec.Tick(time.Now())
		s.latest.Store(tick)
		select {
		case s.ticks <- tick:
		default:
		}
		s.persist(tick)
		log.Printf("session %s: static view (%s), not animating", s.shipment.ID, tick.SourceName)
		<-ctx.Done()
		return
	}

	// the backend fetch must never block the first frames
	backendC := make(chan *progress.Record, 1)
	if s.opts.ProgressClient != nil {
		s.loading.Store(true)
		go func() {
			rec, err := s.opts.ProgressClient.Fetch(s.shipment.ID)
			if err != nil {
				log.Printf("session %s: backend progress fetch failed: %v", s.shipment.ID, err)
				s.loading.Store(false)
				return
			}
			if rec == nil {
				s.loading.Store(false)
				return
			}
			// loading stays set until the run loop adopts the record,
			// so no local write can slip out ahead of the adoption
			backendC <- rec
		}()
	}

	var updates <-chan livefeed.GpsUpdate
	var channel *livefeed.Channel
	if s.opts.FeedURL != "" {
		channel = livefeed.Subscribe(ctx, s.opts.FeedURL, s.shipment.ID, s.opts.Live)
		updates = channel.Updates()
		defer channel.Close()
	}

	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	var heartbeatC <-chan time.Time
	if channel != nil && s.opts.HeartbeatInterval > 0 {
		hb := time.NewTicker(s.opts.HeartbeatInterval)
		defer hb.Stop()
		heartbeatC = hb.C
	}

	log.Printf("session %s: tracking %s -> %s (%.1f km)",
		s.shipment.ID, s.origin.Format(), s.destination.Format(), s.rec.DistanceKM())

	for {
		select {
		case <-ctx.Done():
			return

		case rec := <-backendC:
			s.rec.AdoptBackend(rec, time.Now())
			s.loading.Store(false)
			log.Printf("session %s: adopted backend progress %.1f", s.shipment.ID, rec.Progress)

		case update, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			s.rec.ApplyPush(update)

		case <-heartbeatC:
			if channel.IsConnected() {
				if err := channel.SendHeartbeat(); err != nil {
					log.Printf("session %s: heartbeat failed: %v", s.shipment.ID, err)
				}
			}

		case now := <-ticker.C:
			tick := s.rec.Tick(now)
			s.latest.Store(tick)
			select {
			case s.ticks <- tick:
			default:
			}
			s.persist(tick)
		}
	}
}

// persist fans the tick out to the backend store and the local cache.
// Both paths are best-effort; at most one backend write is in flight.
func (s *Session) persist(tick progress.Tick) {
	// no writes while the authoritative record is still being fetched
	if tick.NeedsWriteBack() && s.opts.ProgressClient != nil && !s.loading.Load() &&
		s.pushing.CompareAndSwap(false, true) {
		go func() {
			defer s.pushing.Store(false)
			if err := s.opts.ProgressClient.Push(tick.Record()); err != nil {
				log.Printf("session %s: progress write-back failed: %v", s.shipment.ID, err)
			}
		}()
	}

	if s.opts.Cache == nil || tick.Source == progress.SourceNotStarted {
		return
	}
	lat, lng := tick.Position.Latitude, tick.Position.Longitude
	err := s.opts.Cache.Save(&feed.CachedTrack{
		ShipmentID: s.shipment.ID,
		StartTime:  s.startTime,
		Progress:   tick.Progress,
		Lat:        &lat,
		Lng:        &lng,
		UpdatedAt:  tick.At,
	})
	if err != nil {
		log.Printf("session %s: cache write failed: %v", s.shipment.ID, err)
	}
}
