// Package nav provides per-tab navigation history and free-text URL
// resolution.
//
// History is a destructive back/forward stack: navigating to a new URL
// discards any forward entries beyond the current position. Back and
// forward never mutate the stack, they only move the index.
//
// Resolver classifies free-text input into a navigable URL or a
// search-engine query. Classification rules are ordered and the first
// match wins; this ordering is part of the contract.
package nav
