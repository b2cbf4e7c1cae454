// Package feed talks to the tracking core's external collaborators: the
// shipment record API (read-only), the backend progress store, and the
// per-device cache that anchors the animation when the backend is
// unreachable.
//
// Boundary tolerance is deliberate: a missing progress record is
// (nil, nil), not an error, and every client failure leaves the caller
// free to fall back to local interpolation.
package feed
