// Package tabs owns the browser shell's tab collection and the load
// state machine for the active tab's embedded frame.
//
// Registry is the only mutator of Tab values: creation, closing,
// activation, navigation, and history traversal all go through it.
// Exactly one tab is active whenever at least one tab exists, and the
// registry never reaches zero tabs: closing the last one spawns a fresh
// home tab.
//
// Controller tracks load progress for one frame at a time (the active
// tab's) through the states home -> loading -> loaded/error. Because the
// embedding mechanism gives no reliable failure signal for some classes
// of load failure, a dead-man's timeout forces loading into error when
// neither a completion nor a failure signal arrives in time.
package tabs
