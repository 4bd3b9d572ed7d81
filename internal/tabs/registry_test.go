package tabs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glidebrowser/glide/internal/logging"
	"github.com/glidebrowser/glide/internal/nav"
	"github.com/glidebrowser/glide/internal/shared/types"
)

// fakeLoader records load requests without performing any fetch.
type fakeLoader struct {
	mu     sync.Mutex
	loads  []string
	tabIDs []int64
}

func (f *fakeLoader) Load(tabID int64, url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads = append(f.loads, url)
	f.tabIDs = append(f.tabIDs, tabID)
}

func (f *fakeLoader) Discard(tabID int64) {}

func (f *fakeLoader) lastLoad() (int64, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.loads) == 0 {
		return 0, ""
	}
	return f.tabIDs[len(f.tabIDs)-1], f.loads[len(f.loads)-1]
}

func newTestRegistry(t *testing.T) (*Registry, *fakeLoader) {
	t.Helper()
	loader := &fakeLoader{}
	ctrl := NewController(time.Second, nil)
	resolver := nav.NewResolver("https://duckduckgo.com/?q=%s")
	return NewRegistry(resolver, loader, ctrl, nil, logging.NewDefault()), loader
}

func TestRegistryStartsWithHomeTab(t *testing.T) {
	r, _ := newTestRegistry(t)

	tabs := r.Tabs()
	require.Len(t, tabs, 1)
	assert.True(t, tabs[0].IsHome)
	assert.Nil(t, tabs[0].URL)
	assert.Equal(t, tabs[0].ID, r.ActiveID())
}

func TestCreateTabActivates(t *testing.T) {
	r, _ := newTestRegistry(t)
	first := r.ActiveID()

	id := r.CreateTab("")
	assert.NotEqual(t, first, id)
	assert.Equal(t, id, r.ActiveID())
	assert.Len(t, r.Tabs(), 2)
}

func TestCreateTabWithURLNavigates(t *testing.T) {
	r, loader := newTestRegistry(t)

	id := r.CreateTab("example.com")
	tabID, url := loader.lastLoad()
	assert.Equal(t, id, tabID)
	assert.Equal(t, "https://example.com", url)

	active, ok := r.Active()
	require.True(t, ok)
	assert.False(t, active.IsHome)
	require.NotNil(t, active.URL)
	assert.Equal(t, "https://example.com", *active.URL)
}

func TestTabIDsMonotonicNeverReused(t *testing.T) {
	r, _ := newTestRegistry(t)

	a := r.CreateTab("")
	b := r.CreateTab("")
	r.CloseTab(a)
	c := r.CreateTab("")

	assert.Greater(t, b, a)
	assert.Greater(t, c, b, "closed ids must not be reassigned")
}

func TestCloseLastTabSpawnsHome(t *testing.T) {
	r, _ := newTestRegistry(t)
	only := r.ActiveID()

	require.True(t, r.CloseTab(only))

	tabs := r.Tabs()
	require.Len(t, tabs, 1, "registry must never reach zero tabs")
	assert.True(t, tabs[0].IsHome)
	assert.NotEqual(t, only, tabs[0].ID)
	assert.Equal(t, tabs[0].ID, r.ActiveID())
}

func TestCloseActiveTabActivationFalls(t *testing.T) {
	r, _ := newTestRegistry(t)
	first := r.ActiveID()
	second := r.CreateTab("")
	third := r.CreateTab("")

	// close the middle tab while it is not active: active pointer holds
	r.SwitchTo(second)
	require.True(t, r.CloseTab(first))
	assert.Equal(t, second, r.ActiveID())

	// close the active tab at the end of the strip: falls to the previous index
	r.SwitchTo(third)
	require.True(t, r.CloseTab(third))
	assert.Equal(t, second, r.ActiveID())
}

func TestNavigateResolvesAndPushes(t *testing.T) {
	r, loader := newTestRegistry(t)
	id := r.ActiveID()

	url, ok := r.Navigate(id, "hello world")
	require.True(t, ok)
	assert.Contains(t, url, "duckduckgo.com/?q=hello+world")

	_, loaded := loader.lastLoad()
	assert.Equal(t, url, loaded)
	assert.False(t, r.CanGoBack(id), "single entry leaves nothing to go back to")

	r.Navigate(id, "example.com")
	assert.True(t, r.CanGoBack(id))
	assert.False(t, r.CanGoForward(id))
}

func TestGoBackForwardTraversal(t *testing.T) {
	r, _ := newTestRegistry(t)
	id := r.ActiveID()

	r.Navigate(id, "a.com")
	r.Navigate(id, "b.com")

	url, ok := r.GoBack(id)
	require.True(t, ok)
	assert.Equal(t, "https://a.com", url)
	assert.True(t, r.CanGoForward(id))

	active, _ := r.Active()
	require.NotNil(t, active.URL)
	assert.Equal(t, "https://a.com", *active.URL)

	url, ok = r.GoForward(id)
	require.True(t, ok)
	assert.Equal(t, "https://b.com", url)

	// traversal is not a navigation event: no forward entries were created
	_, ok = r.GoForward(id)
	assert.False(t, ok)
}

func TestGoHomeLeavesHistory(t *testing.T) {
	r, _ := newTestRegistry(t)
	id := r.ActiveID()

	r.Navigate(id, "a.com")
	r.Navigate(id, "b.com")
	require.True(t, r.GoHome(id))

	active, _ := r.Active()
	assert.True(t, active.IsHome)
	assert.Nil(t, active.URL)

	state, _ := r.LoadState()
	assert.Equal(t, types.LoadStateHome, state)

	// history untouched by the home reset
	assert.True(t, r.CanGoBack(id))
}

func TestFrameLoadedUpdatesTitle(t *testing.T) {
	r, _ := newTestRegistry(t)
	id := r.ActiveID()

	r.Navigate(id, "example.com")
	active, _ := r.Active()
	assert.Equal(t, "example.com", active.Title, "provisional title is the host")

	r.FrameLoaded(id, "Example Domain", true)
	active, _ = r.Active()
	assert.Equal(t, "Example Domain", active.Title)

	state, _ := r.LoadState()
	assert.Equal(t, types.LoadStateLoaded, state)
}

func TestFrameLoadedTitleDeniedKeepsHost(t *testing.T) {
	r, _ := newTestRegistry(t)
	id := r.ActiveID()

	r.Navigate(id, "example.com")
	r.FrameLoaded(id, "", false)

	active, _ := r.Active()
	assert.Equal(t, "example.com", active.Title)

	state, _ := r.LoadState()
	assert.Equal(t, types.LoadStateLoaded, state)
}

func TestFrameSignalsForBackgroundTabIgnored(t *testing.T) {
	r, _ := newTestRegistry(t)
	first := r.ActiveID()
	r.Navigate(first, "a.com")

	second := r.CreateTab("b.com")
	require.Equal(t, second, r.ActiveID())

	// a late failure signal from the background tab must not disturb
	// the active frame's load state
	r.FrameFailed(first, "connection reset")
	state, msg := r.LoadState()
	assert.Equal(t, types.LoadStateLoading, state)
	assert.Empty(t, msg)
}

func TestSwitchToReloads(t *testing.T) {
	r, loader := newTestRegistry(t)
	first := r.ActiveID()
	r.Navigate(first, "a.com")
	second := r.CreateTab("")

	require.True(t, r.SwitchTo(first))
	tabID, url := loader.lastLoad()
	assert.Equal(t, first, tabID)
	assert.Equal(t, "https://a.com", url)

	// switching to a home tab shows home rather than loading
	require.True(t, r.SwitchTo(second))
	state, _ := r.LoadState()
	assert.Equal(t, types.LoadStateHome, state)
}

func TestSwitchToUnknownTab(t *testing.T) {
	r, _ := newTestRegistry(t)
	assert.False(t, r.SwitchTo(999))
	assert.False(t, r.CloseTab(999))
	_, ok := r.Navigate(999, "a.com")
	assert.False(t, ok)
}
