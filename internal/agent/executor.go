package agent

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/glidebrowser/glide/internal/frame"
	"github.com/glidebrowser/glide/internal/logging"
	"github.com/glidebrowser/glide/internal/shared/types"
	"github.com/glidebrowser/glide/internal/tabs"
)

// ErrBusy rejects a batch submitted while another is still running.
var ErrBusy = errors.New("an action batch is already executing")

// Executor applies actions to the active tab's frame. Batches run
// sequentially with a settle delay between actions; a batch never stops
// early and cannot be cancelled once started.
type Executor struct {
	registry *tabs.Registry
	host     *frame.Host
	delay    time.Duration
	log      *logging.Logger
	busy     atomic.Bool
}

// NewExecutor builds an executor. delay is the inter-action settle time.
func NewExecutor(registry *tabs.Registry, host *frame.Host, delay time.Duration, log *logging.Logger) *Executor {
	return &Executor{registry: registry, host: host, delay: delay, log: log.For("executor")}
}

// Execute applies a single action against the active tab. A nil error
// means the action took effect (with the select non-match exception
// documented on executeSelect).
func (e *Executor) Execute(action types.Action) (err error) {
	defer func() {
		// A panic inside DOM manipulation must not take the server
		// down; it degrades to a failed action.
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v", r)
			e.log.Error("action panicked", zap.Any("panic", r), zap.String("kind", string(action.Kind)))
		}
	}()
	return e.execute(action)
}

// ExecuteBatch runs the actions in order, one batch at a time. Only
// ErrBusy is returned as an error; per-action outcomes are in the
// results, one per submitted action, success or not.
func (e *Executor) ExecuteBatch(actions []types.Action) ([]types.ActionResult, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer e.busy.Store(false)

	results := make([]types.ActionResult, 0, len(actions))
	for i, action := range actions {
		if i > 0 && e.delay > 0 {
			time.Sleep(e.delay)
		}
		results = append(results, e.executeContained(action))
	}

	e.log.Info("batch executed", zap.Int("actions", len(actions)))
	return results, nil
}

// executeContained isolates one action: a panic becomes a failed result
// and the batch continues.
func (e *Executor) executeContained(action types.Action) (res types.ActionResult) {
	res = types.ActionResult{Action: action, Success: true}
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Error = fmt.Sprintf("action panicked: %v", r)
			e.log.Error("action panicked", zap.Any("panic", r), zap.String("kind", string(action.Kind)))
		}
	}()

	if err := e.execute(action); err != nil {
		res.Success = false
		res.Error = err.Error()
	}
	return res
}

func (e *Executor) execute(action types.Action) error {
	switch action.Kind {
	case types.ActionNavigate:
		return e.executeNavigate(action)
	case types.ActionScroll:
		return e.executeScroll(action)
	case types.ActionClick:
		return e.executeClick(action)
	case types.ActionType:
		return e.executeType(action)
	case types.ActionSelect:
		return e.executeSelect(action)
	default:
		return fmt.Errorf("unknown action kind: %q", action.Kind)
	}
}

func (e *Executor) executeNavigate(action types.Action) error {
	if action.URL == "" {
		return errors.New("navigate action has no url")
	}
	if _, ok := e.registry.Navigate(e.registry.ActiveID(), action.URL); !ok {
		return errors.New("active tab vanished during navigation")
	}
	return nil
}

func (e *Executor) executeScroll(action types.Action) error {
	fr, err := e.activeFrame()
	if err != nil {
		return err
	}
	return fr.Scroll(action.Direction)
}

// executeClick resolves the target and applies the element's click
// effect. Links navigate the active tab to their destination; other
// roles have no further server-side effect beyond being resolved.
func (e *Executor) executeClick(action types.Action) error {
	fr, err := e.activeFrame()
	if err != nil {
		return err
	}
	el, err := ResolveElement(fr, action.Target)
	if err != nil {
		return err
	}

	if href, ok := el.Href(); ok && href != "" {
		e.registry.Navigate(e.registry.ActiveID(), href)
	}
	e.log.Debug("clicked", zap.String("target", action.Target), zap.String("role", string(el.Role())))
	return nil
}

func (e *Executor) executeType(action types.Action) error {
	fr, err := e.activeFrame()
	if err != nil {
		return err
	}
	el, err := ResolveElement(fr, action.Target)
	if err != nil {
		return err
	}
	if !el.SetValue(action.Value) {
		return fmt.Errorf("element %q does not accept text", action.Target)
	}
	return nil
}

// executeSelect picks a dropdown option. Deliberate asymmetry: a select
// whose options all miss the wanted value still succeeds, without
// mutating the selection. Failing the batch over a missing option is
// worse than skipping it, so only an unresolvable or non-select target
// is an error.
func (e *Executor) executeSelect(action types.Action) error {
	fr, err := e.activeFrame()
	if err != nil {
		return err
	}
	el, err := ResolveElement(fr, action.Target)
	if err != nil {
		return err
	}
	if el.Role() != frame.RoleSelect {
		return fmt.Errorf("element %q is not a select", action.Target)
	}
	if !el.SelectOption(action.Value) {
		e.log.Debug("no option matched, selection unchanged",
			zap.String("target", action.Target), zap.String("value", action.Value))
	}
	return nil
}

func (e *Executor) activeFrame() (*frame.Frame, error) {
	fr, ok := e.host.Frame(e.registry.ActiveID())
	if !ok {
		return nil, errors.New("no page loaded in the active tab")
	}
	return fr, nil
}
