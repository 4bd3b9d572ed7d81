// Package server assembles the shell: frame host, tab registry,
// action executor, stores, WebSocket hub, and the HTTP API, wired
// from configuration into one runnable unit.
package server
