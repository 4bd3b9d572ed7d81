// Package frame hosts the shell's embedded frames server-side.
//
// A Frame is a fetched, sanitized, parsed HTML document standing in for
// the sandboxed rendering surface. Same-origin access to its document is
// the only integration point between the shell and remote content, and
// it fails based on the target site's security posture: a page that
// forbids embedding (X-Frame-Options, CSP frame-ancestors) or that lives
// on a foreign origin relative to the configured shell origin is treated
// as cross-origin. Such frames still render, but Document and every
// operation built on it return ErrAccessDenied instead of content.
//
// Callers never see a panic across the frame boundary; denial is always
// an explicit error value so each caller handles it deliberately.
package frame
