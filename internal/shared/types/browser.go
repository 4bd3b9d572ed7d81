package types

import "time"

// LoadState represents the lifecycle state of the active tab's frame
type LoadState string

const (
	LoadStateHome    LoadState = "home"
	LoadStateLoading LoadState = "loading"
	LoadStateLoaded  LoadState = "loaded"
	LoadStateError   LoadState = "error"
)

// Tab represents one logical browsing context
type Tab struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	URL       *string   `json:"url,omitempty"` // nil means home/new-tab state
	IsHome    bool      `json:"is_home"`
	CreatedAt time.Time `json:"created_at"`
}

// ActionKind discriminates the Action variant
type ActionKind string

const (
	ActionClick    ActionKind = "click"
	ActionType     ActionKind = "type"
	ActionScroll   ActionKind = "scroll"
	ActionNavigate ActionKind = "navigate"
	ActionSelect   ActionKind = "select"
)

// ScrollDirection enumerates scroll targets
type ScrollDirection string

const (
	ScrollUp     ScrollDirection = "up"
	ScrollDown   ScrollDirection = "down"
	ScrollTop    ScrollDirection = "top"
	ScrollBottom ScrollDirection = "bottom"
)

// Action is a tagged variant over click/type/scroll/navigate/select.
// Each kind carries only the fields it needs; actions are immutable
// once parsed.
type Action struct {
	Kind      ActionKind      `json:"kind"`
	Target    string          `json:"target,omitempty"`    // click, type, select
	Value     string          `json:"value,omitempty"`     // type, select
	Direction ScrollDirection `json:"direction,omitempty"` // scroll
	URL       string          `json:"url,omitempty"`       // navigate
}

// ActionResult pairs an Action with its execution outcome
type ActionResult struct {
	Action  Action `json:"action"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// WorkflowStep is one recorded entry in a teach-mode workflow
type WorkflowStep struct {
	Type      string    `json:"type" yaml:"type"`
	Target    string    `json:"target,omitempty" yaml:"target,omitempty"`
	Value     string    `json:"value,omitempty" yaml:"value,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Workflow is a recorded, replayable action sequence
type Workflow struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Steps     []WorkflowStep `json:"steps" yaml:"steps"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
}

// Action converts a recorded step back into an executable Action.
// Replay reduces to an ordinary executor batch run.
func (s WorkflowStep) Action() Action {
	a := Action{Kind: ActionKind(s.Type), Target: s.Target, Value: s.Value}
	switch a.Kind {
	case ActionNavigate:
		a.URL = s.Value
		a.Value = ""
	case ActionScroll:
		a.Direction = ScrollDirection(s.Value)
		a.Value = ""
	}
	return a
}

// Step records an executed action as a workflow entry
func Step(a Action, at time.Time) WorkflowStep {
	s := WorkflowStep{Type: string(a.Kind), Target: a.Target, Value: a.Value, Timestamp: at}
	switch a.Kind {
	case ActionNavigate:
		s.Value = a.URL
	case ActionScroll:
		s.Value = string(a.Direction)
	}
	return s
}
