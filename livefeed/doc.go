// Package livefeed maintains the push subscription that delivers live
// GPS deltas for a shipment over WebSocket.
//
// The channel is an enhancement, not a requirement: reconnection is
// bounded (fixed interval, capped attempts) and once attempts are
// exhausted the subscription simply ends, leaving the reconciler on
// local interpolation.
package livefeed
