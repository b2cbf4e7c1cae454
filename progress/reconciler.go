package progress

import (
	"time"

	"github.com/samber/lo"

	"github.com/colisselect/shipment-tracking/geo"
	"github.com/colisselect/shipment-tracking/livefeed"
)

// MaxAnimatedProgress is the ceiling while animating. Full completion is
// an explicit status transition on the external shipment record.
const MaxAnimatedProgress = 99.9

// Source identifies which source of truth produced a tick.
type Source int

const (
	SourceLocal Source = iota
	SourceBackend
	SourcePush
	SourceNotStarted
	SourceDelivered
)

func (s Source) String() string {
	switch s {
	case SourceBackend:
		return "backend"
	case SourcePush:
		return "push"
	case SourceNotStarted:
		return "not_started"
	case SourceDelivered:
		return "delivered"
	default:
		return "local"
	}
}

// Tick is the reconciled view for one animation frame.
type Tick struct {
	ShipmentID string          `json:"shipment_id"`
	Progress   float64         `json:"progress"`
	Position   geo.Coordinates `json:"position"`
	Source     Source          `json:"-"`
	SourceName string          `json:"source"`
	Remaining  string          `json:"remaining"`
	At         time.Time       `json:"at"`
}

// NeedsWriteBack reports whether this tick should be pushed to the
// backend store: anything not already sourced from the backend, so that
// other devices converge to the same view.
func (t Tick) NeedsWriteBack() bool {
	return t.Source == SourceLocal || t.Source == SourcePush
}

// Record converts the tick into a persistable progress record.
func (t Tick) Record() *Record {
	lat, lng := t.Position.Latitude, t.Position.Longitude
	return &Record{
		ShipmentID:  t.ShipmentID,
		Progress:    t.Progress,
		CurrentLat:  &lat,
		CurrentLng:  &lng,
		LastUpdated: t.At,
	}
}

// Params fixes a reconciler's route and schedule. A new reconciler is
// built whenever any of these change (the whole animation restarts).
type Params struct {
	ShipmentID        string
	Origin            geo.Coordinates
	Destination       geo.Coordinates
	ReferenceSpeedKMH float64
	// StartTime anchors local interpolation; comes from the device
	// cache when present, otherwise the first view of the map.
	StartTime time.Time
	// PickupAt, when set and in the future, forces the not-started
	// state regardless of any other source.
	PickupAt *time.Time
	// Delivered pins the journey at 100; set from the external status.
	Delivered bool
	// SeedProgress is the initial anchor (cached progress, or a status
	// bucket when nothing better exists).
	SeedProgress float64
}

// Reconciler merges backend, push and local candidates into one
// coherent position per tick.
type Reconciler struct {
	p          Params
	distanceKM float64

	// interpolation anchor: at anchorTime, progress was anchorProgress
	anchorProgress float64
	anchorTime     time.Time

	// ratchet: progress never regresses except by backend authority
	held float64

	pending    Source
	pendingPos *geo.Coordinates

	// push received while a backend tick is pending; applied after
	deferredPush *livefeed.GpsUpdate
}

// New builds a reconciler for one shipment view.
func New(p Params) *Reconciler {
	if p.ReferenceSpeedKMH <= 0 {
		p.ReferenceSpeedKMH = geo.DefaultSpeedKMH
	}
	seed := lo.Clamp(p.SeedProgress, 0, MaxAnimatedProgress)
	return &Reconciler{
		p:              p,
		distanceKM:     geo.DistanceKM(p.Origin, p.Destination),
		anchorProgress: seed,
		anchorTime:     p.StartTime,
		held:           seed,
		pending:        SourceLocal,
	}
}

// DistanceKM returns the route's great-circle length.
func (r *Reconciler) DistanceKM() float64 { return r.distanceKM }

// ReferenceSpeedKMH returns the speed local interpolation advances at.
func (r *Reconciler) ReferenceSpeedKMH() float64 { return r.p.ReferenceSpeedKMH }

// Transport derives the transport mode for the current route and speed.
func (r *Reconciler) Transport() geo.TransportInfo {
	travelHours := 0.0
	if r.p.ReferenceSpeedKMH > 0 {
		travelHours = r.distanceKM / r.p.ReferenceSpeedKMH
	}
	return geo.ClassifyTransport(r.p.ReferenceSpeedKMH, r.distanceKM, travelHours)
}

// SetDelivered pins or unpins the delivered state from the external
// shipment status.
func (r *Reconciler) SetDelivered(delivered bool) {
	r.p.Delivered = delivered
}

// AdoptBackend folds in the backend record fetched at mount time. The
// backend is authoritative whenever the fetch succeeded, even at
// progress 0 and even downward against the local ratchet; the next tick
// reports it, and later ticks interpolate onward from it.
func (r *Reconciler) AdoptBackend(rec *Record, now time.Time) {
	if rec == nil {
		return
	}
	prog := lo.Clamp(rec.Progress, 0, 100)
	r.anchorProgress = prog
	r.anchorTime = now
	r.held = prog
	r.pending = SourceBackend
	if rec.HasPosition() {
		r.pendingPos = &geo.Coordinates{Latitude: *rec.CurrentLat, Longitude: *rec.CurrentLng}
	} else {
		r.pendingPos = nil
	}
}

// ApplyPush folds in a live GPS delta. Progress ratchets (never
// regresses from a push) and the interpolation baseline resynchronizes
// to the update's timestamp, so if pushes stop, local ticks continue
// from the server-confirmed point instead of drifting.
func (r *Reconciler) ApplyPush(u livefeed.GpsUpdate) {
	if r.pending == SourceBackend {
		// the pending backend tick owns its fields whole; hold the
		// push (latest wins) and fold it in once that tick is out
		r.deferredPush = &u
		return
	}
	prog := lo.Clamp(u.Progress, 0, 100)
	if prog < r.held {
		prog = r.held
	}
	r.anchorProgress = prog
	r.anchorTime = u.Time()
	r.held = prog
	r.pending = SourcePush
	r.pendingPos = nil
}

// Tick computes the reconciled view for now. Exactly one source wins
// per tick; fields are never mixed across sources.
func (r *Reconciler) Tick(now time.Time) Tick {
	if r.p.Delivered {
		return Tick{
			ShipmentID: r.p.ShipmentID,
			Progress:   100,
			Position:   r.p.Destination,
			Source:     SourceDelivered,
			SourceName: SourceDelivered.String(),
			Remaining:  FormatRemainingHours(0),
			At:         now,
		}
	}

	if r.p.PickupAt != nil && r.p.PickupAt.After(now) {
		return Tick{
			ShipmentID: r.p.ShipmentID,
			Progress:   0,
			Position:   r.p.Origin,
			Source:     SourceNotStarted,
			SourceName: SourceNotStarted.String(),
			Remaining:  "not started",
			At:         now,
		}
	}

	if r.distanceKM == 0 {
		// identical endpoints: nothing to animate
		return Tick{
			ShipmentID: r.p.ShipmentID,
			Progress:   100,
			Position:   r.p.Origin,
			Source:     SourceDelivered,
			SourceName: SourceDelivered.String(),
			Remaining:  FormatRemainingHours(0),
			At:         now,
		}
	}

	src := r.pending
	var prog float64
	var pos *geo.Coordinates

	switch src {
	case SourceBackend, SourcePush:
		prog = r.anchorProgress
		pos = r.pendingPos
	default:
		src = SourceLocal
		elapsed := now.Sub(r.anchorTime).Hours()
		if elapsed < 0 {
			elapsed = 0
		}
		traveled := r.p.ReferenceSpeedKMH * elapsed
		prog = r.anchorProgress + traveled/r.distanceKM*100
	}

	if prog < r.held {
		prog = r.held
	}
	prog = lo.Clamp(prog, 0, MaxAnimatedProgress)
	r.held = prog
	r.pending = SourceLocal
	r.pendingPos = nil

	if r.deferredPush != nil {
		u := *r.deferredPush
		r.deferredPush = nil
		r.ApplyPush(u)
	}

	position := geo.Interpolate(r.p.Origin, r.p.Destination, prog/100)
	if pos != nil {
		position = *pos
	}

	remainingKM := r.distanceKM * (1 - prog/100)
	remainingHours := remainingKM / r.p.ReferenceSpeedKMH

	return Tick{
		ShipmentID: r.p.ShipmentID,
		Progress:   prog,
		Position:   position,
		Source:     src,
		SourceName: src.String(),
		Remaining:  FormatRemainingHours(remainingHours),
		At:         now,
	}
}
