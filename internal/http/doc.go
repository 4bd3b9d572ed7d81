// Package http contains the gin handlers for the shell API: tab
// lifecycle and navigation, the command pipeline, direct action
// batches, sandboxed scripts, workflows, and settings.
package http
