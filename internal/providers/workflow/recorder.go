package workflow

import (
	"errors"
	"sync"
	"time"

	"github.com/glidebrowser/glide/internal/shared/types"
)

// ErrNotRecording rejects stop/append calls outside a session.
var ErrNotRecording = errors.New("no recording in progress")

// ErrAlreadyRecording rejects a second concurrent session.
var ErrAlreadyRecording = errors.New("a recording is already in progress")

// Recorder captures successfully executed actions into a step sequence
// (teach mode). One session at a time; failed actions are not recorded,
// a replay should not reproduce failures.
type Recorder struct {
	mu        sync.Mutex
	store     *Store
	recording bool
	name      string
	steps     []types.WorkflowStep
}

// NewRecorder creates a recorder writing finished sessions to store.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// Start opens a recording session under the given name.
func (r *Recorder) Start(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return ErrAlreadyRecording
	}
	if name == "" {
		return errors.New("recording name is required")
	}
	r.recording = true
	r.name = name
	r.steps = nil
	return nil
}

// Observe records one executed action's outcome. No-op outside a
// session or for failed actions.
func (r *Recorder) Observe(res types.ActionResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording || !res.Success {
		return
	}
	r.steps = append(r.steps, types.Step(res.Action, time.Now()))
}

// Recording reports whether a session is open.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Stop closes the session and saves the captured workflow. Stopping a
// session with no captured steps discards it and returns the store's
// empty-workflow error.
func (r *Recorder) Stop() (types.Workflow, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return types.Workflow{}, ErrNotRecording
	}
	name, steps := r.name, r.steps
	r.recording = false
	r.name = ""
	r.steps = nil
	r.mu.Unlock()

	return r.store.Save(name, steps)
}

// Abort closes the session without saving.
func (r *Recorder) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
	r.name = ""
	r.steps = nil
}
