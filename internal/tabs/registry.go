package tabs

import (
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/glidebrowser/glide/internal/logging"
	"github.com/glidebrowser/glide/internal/nav"
	"github.com/glidebrowser/glide/internal/shared/types"
)

// FrameLoader begins asynchronous frame loads. Load must not block and
// must not call back into the registry synchronously; completion and
// failure arrive later through FrameLoaded/FrameFailed.
type FrameLoader interface {
	Load(tabID int64, url string)
	Discard(tabID int64)
}

// Events receives shell state notifications (typically the ws hub).
type Events interface {
	Emit(msg types.WSMessage)
}

// Registry owns the ordered tab collection, the active-tab pointer, and
// the per-tab histories. All Tab mutation goes through it.
type Registry struct {
	mu        sync.Mutex
	log       *logging.Logger
	resolver  *nav.Resolver
	loader    FrameLoader
	events    Events
	ctrl      *Controller
	tabs      []*types.Tab
	histories map[int64]*nav.History
	activeID  int64
	nextID    int64
}

// NewRegistry creates a registry with a single home tab already open.
func NewRegistry(resolver *nav.Resolver, loader FrameLoader, ctrl *Controller, events Events, log *logging.Logger) *Registry {
	r := &Registry{
		log:       log,
		resolver:  resolver,
		loader:    loader,
		events:    events,
		ctrl:      ctrl,
		histories: make(map[int64]*nav.History),
		nextID:    1,
	}

	r.mu.Lock()
	tab := r.appendTabLocked()
	r.activeID = tab.ID
	r.mu.Unlock()

	return r
}

// CreateTab appends a new tab and makes it active. With a URL the tab
// immediately navigates; without one it opens in the home state.
// Returns the new tab's id. Ids are monotonic and never reused.
func (r *Registry) CreateTab(input string) int64 {
	r.mu.Lock()
	tab := r.appendTabLocked()
	r.activeID = tab.ID
	r.mu.Unlock()

	if input != "" {
		r.Navigate(tab.ID, input)
	} else {
		r.ctrl.Home()
		r.emitTabs()
	}

	r.log.Info("tab created", zap.Int64("tab", tab.ID), zap.String("input", input))
	return tab.ID
}

// CloseTab removes a tab. Closing the last tab spawns a fresh home tab:
// the registry never reaches zero. When the closed tab was active,
// activation falls to the tab now at min(originalIndex, tabCount-1).
func (r *Registry) CloseTab(id int64) bool {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return false
	}

	wasActive := r.activeID == id
	r.tabs = append(r.tabs[:idx], r.tabs[idx+1:]...)
	delete(r.histories, id)

	var next *types.Tab
	if len(r.tabs) == 0 {
		next = r.appendTabLocked()
		r.activeID = next.ID
	} else if wasActive {
		pos := idx
		if pos > len(r.tabs)-1 {
			pos = len(r.tabs) - 1
		}
		next = r.tabs[pos]
		r.activeID = next.ID
	}
	r.mu.Unlock()

	r.loader.Discard(id)
	if next != nil {
		r.showTab(next)
	}
	r.emitTabs()

	r.log.Info("tab closed", zap.Int64("tab", id), zap.Bool("was_active", wasActive))
	return true
}

// SwitchTo sets the active pointer and brings the tab's frame up: home
// tabs show home, navigated tabs reload their current URL.
func (r *Registry) SwitchTo(id int64) bool {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return false
	}
	r.activeID = id
	tab := r.tabs[idx]
	r.mu.Unlock()

	r.showTab(tab)
	r.emitTabs()
	return true
}

// Navigate resolves free-text input, assigns the result to the tab,
// pushes it onto the tab's history, and starts the frame load. Returns
// the resolved URL.
func (r *Registry) Navigate(id int64, input string) (string, bool) {
	resolved := r.resolver.Resolve(input)

	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return "", false
	}
	tab := r.tabs[idx]
	tab.URL = &resolved
	tab.IsHome = false
	tab.Title = hostOf(resolved)
	r.histories[id].Push(resolved)
	active := r.activeID == id
	r.mu.Unlock()

	if active {
		r.ctrl.Load()
		r.loader.Load(id, resolved)
	}
	r.emitTabs()

	r.log.Info("navigate", zap.Int64("tab", id), zap.String("url", resolved))
	return resolved, true
}

// GoBack traverses one history entry backward. The traversal assigns
// the URL to the tab without pushing: it is not a new navigation event.
func (r *Registry) GoBack(id int64) (string, bool) {
	return r.traverse(id, func(h *nav.History) (string, bool) { return h.Back() })
}

// GoForward traverses one history entry forward.
func (r *Registry) GoForward(id int64) (string, bool) {
	return r.traverse(id, func(h *nav.History) (string, bool) { return h.Forward() })
}

func (r *Registry) traverse(id int64, move func(*nav.History) (string, bool)) (string, bool) {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return "", false
	}
	url, ok := move(r.histories[id])
	if !ok {
		r.mu.Unlock()
		return "", false
	}
	tab := r.tabs[idx]
	tab.URL = &url
	tab.IsHome = false
	tab.Title = hostOf(url)
	active := r.activeID == id
	r.mu.Unlock()

	if active {
		r.ctrl.Load()
		r.loader.Load(id, url)
	}
	r.emitTabs()
	return url, true
}

// GoHome resets the tab's URL to nil and marks it home. History is not
// touched, so back still works afterwards.
func (r *Registry) GoHome(id int64) bool {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return false
	}
	tab := r.tabs[idx]
	tab.URL = nil
	tab.IsHome = true
	tab.Title = "New Tab"
	active := r.activeID == id
	r.mu.Unlock()

	r.loader.Discard(id)
	if active {
		r.ctrl.Home()
	}
	r.emitTabs()
	return true
}

// Reload re-runs the load of the tab's current URL.
func (r *Registry) Reload(id int64) bool {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 || r.tabs[idx].URL == nil {
		r.mu.Unlock()
		return false
	}
	url := *r.tabs[idx].URL
	active := r.activeID == id
	r.mu.Unlock()

	if active {
		r.ctrl.Load()
		r.loader.Load(id, url)
	}
	return true
}

// FrameLoaded is the load-completed signal from the frame host. The
// title is best-effort: ok is false when same-origin access was denied,
// and the tab keeps its host-name title.
func (r *Registry) FrameLoaded(id int64, title string, ok bool) {
	r.mu.Lock()
	active := r.activeID == id
	idx := r.indexLocked(id)
	if idx >= 0 && ok && title != "" {
		r.tabs[idx].Title = title
	}
	r.mu.Unlock()

	// Load state is tracked for the active frame only.
	if active {
		r.ctrl.Loaded()
	}
	r.emitTabs()
}

// FrameFailed is the load-failed signal from the frame host.
func (r *Registry) FrameFailed(id int64, message string) {
	r.mu.Lock()
	active := r.activeID == id
	r.mu.Unlock()

	if active {
		r.ctrl.Failed(message)
	}
	r.log.Warn("frame load failed", zap.Int64("tab", id), zap.String("reason", message))
}

// Tabs returns a snapshot of all tabs in order.
func (r *Registry) Tabs() []types.Tab {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.Tab, len(r.tabs))
	for i, t := range r.tabs {
		out[i] = *t
	}
	return out
}

// Active returns the active tab, if any.
func (r *Registry) Active() (types.Tab, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(r.activeID)
	if idx < 0 {
		return types.Tab{}, false
	}
	return *r.tabs[idx], true
}

// ActiveID returns the active tab's id.
func (r *Registry) ActiveID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeID
}

// CanGoBack reports the back predicate for a tab's history.
func (r *Registry) CanGoBack(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.histories[id]
	return ok && h.CanGoBack()
}

// CanGoForward reports the forward predicate for a tab's history.
func (r *Registry) CanGoForward(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.histories[id]
	return ok && h.CanGoForward()
}

// LoadState exposes the controller's current state and message.
func (r *Registry) LoadState() (types.LoadState, string) {
	return r.ctrl.State()
}

func (r *Registry) appendTabLocked() *types.Tab {
	tab := &types.Tab{
		ID:        r.nextID,
		Title:     "New Tab",
		IsHome:    true,
		CreatedAt: time.Now(),
	}
	r.nextID++
	r.tabs = append(r.tabs, tab)
	r.histories[tab.ID] = nav.NewHistory()
	return tab
}

func (r *Registry) indexLocked(id int64) int {
	for i, t := range r.tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) showTab(tab *types.Tab) {
	if tab.IsHome || tab.URL == nil {
		r.ctrl.Home()
		return
	}
	r.ctrl.Load()
	r.loader.Load(tab.ID, *tab.URL)
}

func (r *Registry) emitTabs() {
	if r.events == nil {
		return
	}
	r.mu.Lock()
	tabs := make([]types.Tab, len(r.tabs))
	for i, t := range r.tabs {
		tabs[i] = *t
	}
	active := r.activeID
	r.mu.Unlock()

	r.events.Emit(types.WSMessage{
		Type:  "tabs",
		TabID: active,
		Data:  map[string]interface{}{"tabs": tabs},
	})
}

func hostOf(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	return raw
}
