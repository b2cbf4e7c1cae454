/*
Package shiptrack is the live shipment tracking core: given a shipment
record with free-text origin and destination, it reconciles the parcel's
current position from the backend progress store, live GPS pushes and
local interpolation, and exposes the result as a stream of ticks plus a
small monitoring HTTP surface.

A Session owns one shipment's view. Its mount sequence mirrors the map
widget it serves: parse the location coordinates (an unparseable
location aborts the whole session with ErrMapUnavailable), load the
per-device cache for the time anchor, kick off the backend fetch
asynchronously, subscribe to the live channel, then drive the
reconciler from a ticker until the context is cancelled.

Subpackages:

  - geo: coordinate parsing, haversine distance, delivery estimates and
    transport classification
  - config: YAML application configuration
  - feed: shipment API, backend progress store and local cache clients
  - livefeed: WebSocket subscription for live GPS updates
  - progress: the per-tick reconciliation state machine
*/
package shiptrack
