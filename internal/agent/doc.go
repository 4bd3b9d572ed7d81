// Package agent turns free-text instructions into DOM actions and
// executes them against the active tab's frame.
//
// The pipeline has three stages:
//
//	Parse:   heuristic rule table, text -> ordered []Action
//	Resolve: target description -> best-match element, fixed priority
//	Execute: one action or a sequenced batch with settle delays
//
// Parse is deliberately best-effort: rules are independent and
// non-exclusive, a single input may yield several actions, and unmatched
// text yields none. No action is ever synthesized from a non-match.
//
// Resolution order is a contract: exact id first (cheapest, most
// precise), then the target as a raw selector, then text containment
// over interactive elements, then label association (most expensive,
// most heuristic). Cross-origin frames deny resolution outright.
package agent
