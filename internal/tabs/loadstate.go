package tabs

import (
	"sync"
	"time"

	"github.com/glidebrowser/glide/internal/shared/types"
)

// timeoutMessage is recorded when the dead-man's switch fires.
const timeoutMessage = "page took too long to load"

// Controller drives the loading -> loaded/error transition for the
// active tab's frame. Initial state is home.
//
// Signals may arrive from fetch goroutines and from the internal timer,
// so every transition runs under the lock. Stale signals (a timer armed
// for an earlier load, a fetch completing after the user navigated away)
// are discarded by sequence number.
type Controller struct {
	mu      sync.Mutex
	state   types.LoadState
	message string
	timeout time.Duration
	timer   *time.Timer
	seq     uint64

	// onChange observes committed transitions. Called outside the lock.
	onChange func(state types.LoadState, message string)
}

// NewController creates a controller in the home state.
func NewController(timeout time.Duration, onChange func(types.LoadState, string)) *Controller {
	return &Controller{
		state:    types.LoadStateHome,
		timeout:  timeout,
		onChange: onChange,
	}
}

// Load transitions to loading and arms the timeout. Allowed from any
// state: a new navigation always supersedes whatever was in flight.
func (c *Controller) Load() {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.stopTimerLocked()
	c.state = types.LoadStateLoading
	c.message = ""
	c.timer = time.AfterFunc(c.timeout, func() { c.expire(seq) })
	c.mu.Unlock()

	c.notify(types.LoadStateLoading, "")
}

// Loaded commits the load-completed signal. Returns false when the
// signal is stale (the controller is no longer loading).
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	if c.state != types.LoadStateLoading {
		c.mu.Unlock()
		return false
	}
	c.stopTimerLocked()
	c.state = types.LoadStateLoaded
	c.message = ""
	c.mu.Unlock()

	c.notify(types.LoadStateLoaded, "")
	return true
}

// Failed commits a load-failed signal with a human-readable message.
// Returns false when the signal is stale.
func (c *Controller) Failed(message string) bool {
	c.mu.Lock()
	if c.state != types.LoadStateLoading {
		c.mu.Unlock()
		return false
	}
	c.stopTimerLocked()
	c.state = types.LoadStateError
	c.message = message
	c.mu.Unlock()

	c.notify(types.LoadStateError, message)
	return true
}

// Home resets to the home state from anywhere. History is untouched;
// that is the caller's concern.
func (c *Controller) Home() {
	c.mu.Lock()
	c.seq++
	c.stopTimerLocked()
	c.state = types.LoadStateHome
	c.message = ""
	c.mu.Unlock()

	c.notify(types.LoadStateHome, "")
}

// State returns the current state and, for error, its message.
func (c *Controller) State() (types.LoadState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.message
}

// expire is the timer callback; it only fires for the load it was armed for.
func (c *Controller) expire(seq uint64) {
	c.mu.Lock()
	if c.seq != seq || c.state != types.LoadStateLoading {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.state = types.LoadStateError
	c.message = timeoutMessage
	c.mu.Unlock()

	c.notify(types.LoadStateError, timeoutMessage)
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) notify(state types.LoadState, message string) {
	if c.onChange != nil {
		c.onChange(state, message)
	}
}
