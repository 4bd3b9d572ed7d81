package agent

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glidebrowser/glide/internal/frame"
	"github.com/glidebrowser/glide/internal/logging"
	"github.com/glidebrowser/glide/internal/nav"
	"github.com/glidebrowser/glide/internal/shared/types"
	"github.com/glidebrowser/glide/internal/tabs"
)

const execIndexPage = `
<html>
<head><title>Search</title></head>
<body>
	<input id="q" placeholder="search query">
	<select id="lang">
		<option value="en">English</option>
		<option value="de">Deutsch</option>
	</select>
	<a id="docs-link" href="/docs">Documentation</a>
	<button>Search now</button>
</body>
</html>`

const execDocsPage = `
<html>
<head><title>Docs</title></head>
<body><p>All the docs.</p></body>
</html>`

type execStack struct {
	registry *tabs.Registry
	host     *frame.Host
	exec     *Executor
	baseURL  string
}

func newExecStack(t *testing.T, delay time.Duration) *execStack {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(execIndexPage))
	})
	mux.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(execDocsPage))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	log := logging.NewDefault()
	host := frame.NewHost(frame.NewFetcher(5*time.Second, ""), nil, log)
	ctrl := tabs.NewController(5*time.Second, nil)
	registry := tabs.NewRegistry(nav.NewResolver("https://search.example/?q=%s"), host, ctrl, nil, log)
	host.SetSink(registry)

	return &execStack{
		registry: registry,
		host:     host,
		exec:     NewExecutor(registry, host, delay, log),
		baseURL:  srv.URL,
	}
}

// loadAndWait navigates the active tab and blocks until the frame for
// that URL is up.
func (s *execStack) loadAndWait(t *testing.T, url string) {
	t.Helper()
	id := s.registry.ActiveID()
	_, ok := s.registry.Navigate(id, url)
	require.True(t, ok)
	require.Eventually(t, func() bool {
		fr, ok := s.host.Frame(id)
		return ok && fr.URL() == url
	}, 5*time.Second, 10*time.Millisecond)
}

func (s *execStack) activeFrame(t *testing.T) *frame.Frame {
	t.Helper()
	fr, ok := s.host.Frame(s.registry.ActiveID())
	require.True(t, ok)
	return fr
}

func TestExecuteType(t *testing.T) {
	s := newExecStack(t, 0)
	s.loadAndWait(t, s.baseURL)

	err := s.exec.Execute(types.Action{Kind: types.ActionType, Target: "search query", Value: "golang"})
	require.NoError(t, err)

	doc, err := s.activeFrame(t).Document()
	require.NoError(t, err)
	v, _ := doc.Find("#q").Attr("value")
	assert.Equal(t, "golang", v)
}

func TestExecuteClickLinkNavigates(t *testing.T) {
	s := newExecStack(t, 0)
	s.loadAndWait(t, s.baseURL)

	err := s.exec.Execute(types.Action{Kind: types.ActionClick, Target: "documentation"})
	require.NoError(t, err)

	tab, ok := s.registry.Active()
	require.True(t, ok)
	require.NotNil(t, tab.URL)
	assert.Equal(t, s.baseURL+"/docs", *tab.URL)

	require.Eventually(t, func() bool {
		fr, ok := s.host.Frame(tab.ID)
		if !ok {
			return false
		}
		title, _ := fr.Title()
		return title == "Docs"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestExecuteClickButton(t *testing.T) {
	s := newExecStack(t, 0)
	s.loadAndWait(t, s.baseURL)

	// resolves and succeeds, no navigation
	err := s.exec.Execute(types.Action{Kind: types.ActionClick, Target: "search now"})
	require.NoError(t, err)

	tab, _ := s.registry.Active()
	assert.Equal(t, s.baseURL, *tab.URL)
}

func TestExecuteScroll(t *testing.T) {
	s := newExecStack(t, 0)
	s.loadAndWait(t, s.baseURL)

	require.NoError(t, s.exec.Execute(types.Action{Kind: types.ActionScroll, Direction: types.ScrollDown}))
	assert.Equal(t, 20, s.activeFrame(t).ScrollPosition())
}

func TestExecuteSelectMissingOptionStillSucceeds(t *testing.T) {
	s := newExecStack(t, 0)
	s.loadAndWait(t, s.baseURL)

	require.NoError(t, s.exec.Execute(types.Action{Kind: types.ActionSelect, Target: "lang", Value: "deutsch"}))

	// a value no option carries succeeds without changing the selection
	require.NoError(t, s.exec.Execute(types.Action{Kind: types.ActionSelect, Target: "lang", Value: "klingon"}))

	doc, _ := s.activeFrame(t).Document()
	sel, ok := frame.AsElement(doc.Find("#lang"))
	require.True(t, ok)
	assert.Equal(t, "de", sel.Value())
}

func TestExecuteSelectOnNonSelect(t *testing.T) {
	s := newExecStack(t, 0)
	s.loadAndWait(t, s.baseURL)

	err := s.exec.Execute(types.Action{Kind: types.ActionSelect, Target: "search query", Value: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a select")
}

func TestExecuteNoPageLoaded(t *testing.T) {
	s := newExecStack(t, 0)

	err := s.exec.Execute(types.Action{Kind: types.ActionScroll, Direction: types.ScrollDown})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no page loaded")
}

func TestExecuteUnknownKind(t *testing.T) {
	s := newExecStack(t, 0)
	assert.Error(t, s.exec.Execute(types.Action{Kind: types.ActionKind("dance")}))
}

func TestExecutePanicBecomesError(t *testing.T) {
	// a nil registry makes the navigate path panic inside execute
	exec := NewExecutor(nil, nil, 0, logging.NewDefault())

	err := exec.Execute(types.Action{Kind: types.ActionNavigate, URL: "https://example.com"})
	require.Error(t, err, "a recovered panic must not read as success")
	assert.Contains(t, err.Error(), "panicked")
}

func TestExecuteBatchContinuesPastFailures(t *testing.T) {
	s := newExecStack(t, 0)
	s.loadAndWait(t, s.baseURL)

	results, err := s.exec.ExecuteBatch([]types.Action{
		{Kind: types.ActionType, Target: "search query", Value: "go"},
		{Kind: types.ActionClick, Target: "no such thing anywhere"},
		{Kind: types.ActionScroll, Direction: types.ScrollDown},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "no element matches")
	assert.True(t, results[2].Success, "a failed action does not stop the batch")
}

func TestExecuteBatchSingleFlight(t *testing.T) {
	s := newExecStack(t, 150*time.Millisecond)
	s.loadAndWait(t, s.baseURL)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.exec.ExecuteBatch([]types.Action{
			{Kind: types.ActionScroll, Direction: types.ScrollDown},
			{Kind: types.ActionScroll, Direction: types.ScrollDown},
		})
	}()

	time.Sleep(50 * time.Millisecond)
	_, err := s.exec.ExecuteBatch([]types.Action{
		{Kind: types.ActionScroll, Direction: types.ScrollDown},
	})
	assert.ErrorIs(t, err, ErrBusy)

	<-done
	_, err = s.exec.ExecuteBatch(nil)
	assert.NoError(t, err, "the guard clears once the batch finishes")
}
