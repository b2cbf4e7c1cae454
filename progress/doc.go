/*
Package progress reconciles a shipment's current position from three
competing sources of truth.

Every animation tick produces exactly one reconciled (progress,
position, time-remaining) triple from, in priority order:

 1. the backend progress record (cross-device truth, folded in once
    after the mount-time fetch resolves),
 2. live push updates from the WebSocket channel (monotonic ratchet:
    progress never regresses from a push),
 3. local timer-based interpolation between origin and destination at
    the reference speed.

A scheduled pickup in the future overrides all three (the shipment has
not started). Progress is clamped to 99.9 while animating; reaching 100
is an explicit status transition owned by the external shipment record.

The Reconciler itself is synchronous and single-writer: Tick, AdoptBackend
and ApplyPush are expected to be called from one goroutine (the session
loop), mirroring the event-loop model of the UI it serves.
*/
package progress
