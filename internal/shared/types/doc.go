// Package types provides shared data structures for the browser shell.
//
// This package defines core types used across all shell components,
// ensuring type safety and consistent data structures.
//
// Core Types:
//   - Tab: one logical browsing context with URL, title, and history
//   - LoadState: lifecycle state of the active tab's embedded frame
//   - Action: structured, executable instruction derived from free text
//   - ActionResult: outcome of a single executed action
//   - Workflow: recorded action sequence for teach-mode replay
//
// Request Types:
//   - NavigateRequest, CommandRequest, BatchRequest: HTTP API payloads
//   - WSMessage: WebSocket communication
package types
