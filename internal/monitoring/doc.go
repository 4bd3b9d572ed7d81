// Package monitoring exposes Prometheus metrics for the shell: HTTP
// traffic, tab and navigation activity, frame load outcomes, action
// execution, script runs, and WebSocket connections.
package monitoring
