/*
Package script executes untrusted page scripts against a tab's frame.

Scripts run inside isolated goja runtimes with no filesystem, network,
or process access. A lightweight document proxy backed by the frame's
parsed DOM is injected as `document`; every call through it honors the
frame's origin gate, so a cross-origin frame throws on any document
access while the script itself still runs.

Runtimes are pooled: acquisition blocks with a timeout, and a runtime
is reset to a fresh global scope before it returns to the pool.
*/
package script
