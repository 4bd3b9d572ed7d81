package nav

// History is a per-tab back/forward stack. It is a pure data structure:
// no I/O, no locking. Ownership and synchronization belong to the tab
// registry.
//
// Invariant: 0 <= index < len(stack) whenever the stack is non-empty;
// index == -1 iff the stack is empty.
type History struct {
	stack []string
	index int
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{index: -1}
}

// Push records a new navigation. Any forward entries beyond the current
// position are discarded first: this is a destructive history model, not
// an append-only one.
func (h *History) Push(url string) {
	h.stack = append(h.stack[:h.index+1], url)
	h.index = len(h.stack) - 1
}

// CanGoBack reports whether a back traversal is possible.
func (h *History) CanGoBack() bool {
	return h.index > 0
}

// CanGoForward reports whether a forward traversal is possible.
func (h *History) CanGoForward() bool {
	return h.index < len(h.stack)-1
}

// Back moves one entry backward and returns the URL now at the cursor.
// When no backward entry exists this is a silent no-op: UI controls are
// expected to be disabled whenever CanGoBack is false.
func (h *History) Back() (string, bool) {
	if !h.CanGoBack() {
		return "", false
	}
	h.index--
	return h.stack[h.index], true
}

// Forward moves one entry forward and returns the URL now at the cursor.
// Silent no-op when CanGoForward is false.
func (h *History) Forward() (string, bool) {
	if !h.CanGoForward() {
		return "", false
	}
	h.index++
	return h.stack[h.index], true
}

// Current returns the URL at the cursor, if any.
func (h *History) Current() (string, bool) {
	if h.index < 0 {
		return "", false
	}
	return h.stack[h.index], true
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	return len(h.stack)
}

// Index returns the cursor position (-1 when empty).
func (h *History) Index() int {
	return h.index
}
