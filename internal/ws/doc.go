// Package ws pushes shell state to connected frontends over
// WebSocket: tab list changes, load-state transitions, and action
// batch results. The hub fans one Emit out to every client; slow
// clients are dropped rather than allowed to stall the rest.
package ws
