// Package config loads the tracking configuration from config.yml.
//
// Endpoints point at external collaborators (shipment API, progress
// store, live update channel); the remaining knobs are local policy
// (tick cadence, heartbeat interval, reconnect bounds, cache location).
package config
