// Package middleware provides the gin middleware chain for the shell
// API: CORS for the shell frontend and per-client rate limiting.
package middleware
