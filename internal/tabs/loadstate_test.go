package tabs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/glidebrowser/glide/internal/shared/types"
)

// recorder captures controller transitions for assertions.
type recorder struct {
	mu     sync.Mutex
	states []types.LoadState
	msgs   []string
}

func (r *recorder) observe(s types.LoadState, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) last() (types.LoadState, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return "", ""
	}
	return r.states[len(r.states)-1], r.msgs[len(r.msgs)-1]
}

func TestControllerInitialState(t *testing.T) {
	c := NewController(time.Second, nil)
	state, msg := c.State()
	assert.Equal(t, types.LoadStateHome, state)
	assert.Empty(t, msg)
}

func TestControllerLoadThenLoaded(t *testing.T) {
	rec := &recorder{}
	c := NewController(time.Second, rec.observe)

	c.Load()
	state, _ := c.State()
	assert.Equal(t, types.LoadStateLoading, state)

	assert.True(t, c.Loaded())
	state, _ = c.State()
	assert.Equal(t, types.LoadStateLoaded, state)
}

func TestControllerLoadThenFailed(t *testing.T) {
	c := NewController(time.Second, nil)
	c.Load()
	assert.True(t, c.Failed("connection refused"))

	state, msg := c.State()
	assert.Equal(t, types.LoadStateError, state)
	assert.Equal(t, "connection refused", msg)
}

func TestControllerStaleSignalsIgnored(t *testing.T) {
	c := NewController(time.Second, nil)

	// signals without a load in flight are stale
	assert.False(t, c.Loaded())
	assert.False(t, c.Failed("late"))

	c.Load()
	assert.True(t, c.Loaded())

	// second completion for the same load is stale too
	assert.False(t, c.Loaded())
	assert.False(t, c.Failed("very late"))
	state, _ := c.State()
	assert.Equal(t, types.LoadStateLoaded, state)
}

func TestControllerTimeout(t *testing.T) {
	rec := &recorder{}
	c := NewController(20*time.Millisecond, rec.observe)

	c.Load()
	time.Sleep(80 * time.Millisecond)

	state, msg := c.State()
	assert.Equal(t, types.LoadStateError, state)
	assert.Equal(t, timeoutMessage, msg)

	last, lastMsg := rec.last()
	assert.Equal(t, types.LoadStateError, last)
	assert.Equal(t, timeoutMessage, lastMsg)
}

func TestControllerLoadedCancelsTimeout(t *testing.T) {
	c := NewController(30*time.Millisecond, nil)

	c.Load()
	assert.True(t, c.Loaded())
	time.Sleep(80 * time.Millisecond)

	// the cancelled timer must not flip the state afterwards
	state, _ := c.State()
	assert.Equal(t, types.LoadStateLoaded, state)
}

func TestControllerStaleTimerAfterNewLoad(t *testing.T) {
	c := NewController(30*time.Millisecond, nil)

	c.Load()
	c.Load() // supersedes the first load and its timer
	assert.True(t, c.Loaded())
	time.Sleep(80 * time.Millisecond)

	state, _ := c.State()
	assert.Equal(t, types.LoadStateLoaded, state)
}

func TestControllerHomeFromAnywhere(t *testing.T) {
	c := NewController(time.Second, nil)

	c.Load()
	c.Home()
	state, _ := c.State()
	assert.Equal(t, types.LoadStateHome, state)

	c.Load()
	c.Failed("boom")
	c.Home()
	state, msg := c.State()
	assert.Equal(t, types.LoadStateHome, state)
	assert.Empty(t, msg)
}
