package script

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"

	"github.com/glidebrowser/glide/internal/frame"
)

// Runtime wraps one goja VM with resource and capability controls.
type Runtime struct {
	vm     *goja.Runtime
	config Config
	mu     sync.Mutex

	console   []LogEntry
	consoleMu sync.Mutex

	interrupt chan struct{}
}

// NewRuntime creates a sandboxed runtime.
func NewRuntime(config Config) (*Runtime, error) {
	r := &Runtime{
		vm:        goja.New(),
		config:    config,
		interrupt: make(chan struct{}),
	}
	r.vm.SetMaxCallStackSize(1024)
	if err := r.setupGlobals(); err != nil {
		return nil, err
	}
	return r, nil
}

// Execute runs a script against a frame's document. fr may be nil for
// detached execution. The returned Result carries console output and
// the exported return value even when err is non-nil.
func (r *Runtime) Execute(ctx context.Context, source string, fr *frame.Frame) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	result := &Result{}

	timer := time.NewTimer(r.config.Timeout)
	defer timer.Stop()

	interrupt := r.interrupt
	go func() {
		select {
		case <-timer.C:
			r.vm.Interrupt("execution timeout exceeded")
		case <-ctx.Done():
			r.vm.Interrupt("context cancelled")
		case <-interrupt:
		}
	}()

	r.consoleMu.Lock()
	r.console = nil
	r.consoleMu.Unlock()

	if fr != nil && r.config.EnableDOM {
		r.injectDocument(fr)
	}

	val, err := r.vm.RunString(source)

	close(r.interrupt)
	r.interrupt = make(chan struct{})

	result.Duration = time.Since(start)

	r.consoleMu.Lock()
	result.Console = append([]LogEntry{}, r.console...)
	r.consoleMu.Unlock()

	if err != nil {
		result.Error = err
		return result, err
	}
	if val != nil && !goja.IsUndefined(val) && !goja.IsNull(val) {
		result.Value = val.Export()
	}
	return result, nil
}

// Reset discards all script-visible state.
func (r *Runtime) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vm = goja.New()
	r.vm.SetMaxCallStackSize(1024)
	r.console = nil
	return r.setupGlobals()
}

// Close releases the VM.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vm = nil
	r.console = nil
	return nil
}

func (r *Runtime) setupGlobals() error {
	// no Node, no escape hatches
	r.vm.Set("require", goja.Undefined())
	r.vm.Set("process", goja.Undefined())
	r.vm.Set("module", goja.Undefined())
	r.vm.Set("exports", goja.Undefined())

	// timers are no-ops: scripts get one synchronous slice
	noop := func(call goja.FunctionCall) goja.Value { return goja.Undefined() }
	r.vm.Set("setTimeout", noop)
	r.vm.Set("setInterval", noop)

	if r.config.EnableConsole {
		console := r.vm.NewObject()
		for _, level := range []string{"log", "warn", "error", "info"} {
			console.Set(level, r.makeConsoleFunc(level))
		}
		r.vm.Set("console", console)
	}
	return nil
}

func (r *Runtime) makeConsoleFunc(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		r.consoleMu.Lock()
		r.console = append(r.console, LogEntry{
			Level:   level,
			Message: strings.Join(parts, " "),
			Time:    time.Now(),
		})
		r.consoleMu.Unlock()
		return goja.Undefined()
	}
}

// injectDocument exposes the frame's DOM as `document`. Every accessor
// re-checks the origin gate, so cross-origin access throws inside the
// script rather than failing the execution from outside.
func (r *Runtime) injectDocument(fr *frame.Frame) {
	document := r.vm.NewObject()
	document.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		doc := r.gatedDocument(fr)
		sel := safeFind(doc, argString(call, 0))
		if sel == nil || sel.Length() == 0 {
			return goja.Null()
		}
		return r.vm.ToValue(r.elementProxy(sel.First()))
	})
	document.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		doc := r.gatedDocument(fr)
		sel := safeFind(doc, argString(call, 0))
		proxies := []map[string]interface{}{}
		if sel != nil {
			sel.Each(func(_ int, s *goquery.Selection) {
				proxies = append(proxies, r.elementProxy(s))
			})
		}
		return r.vm.ToValue(proxies)
	})
	document.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		doc := r.gatedDocument(fr)
		id := argString(call, 0)
		var hit *goquery.Selection
		doc.Find("[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if v, _ := s.Attr("id"); v == id {
				hit = s
				return false
			}
			return true
		})
		if hit == nil {
			return goja.Null()
		}
		return r.vm.ToValue(r.elementProxy(hit))
	})
	document.Set("getTitle", func(call goja.FunctionCall) goja.Value {
		title, ok := fr.Title()
		if !ok {
			panic(r.vm.NewGoError(frame.ErrAccessDenied))
		}
		return r.vm.ToValue(title)
	})
	r.vm.Set("document", document)
}

// gatedDocument fetches the frame's document or throws into the script.
func (r *Runtime) gatedDocument(fr *frame.Frame) *goquery.Document {
	doc, err := fr.Document()
	if err != nil {
		panic(r.vm.NewGoError(err))
	}
	return doc
}

func (r *Runtime) elementProxy(sel *goquery.Selection) map[string]interface{} {
	id, _ := sel.Attr("id")
	class, _ := sel.Attr("class")
	return map[string]interface{}{
		"tagName":     strings.ToUpper(goquery.NodeName(sel)),
		"id":          id,
		"className":   class,
		"textContent": strings.TrimSpace(sel.Text()),
		"getAttribute": func(name string) string {
			v, _ := sel.Attr(name)
			return v
		},
		"setAttribute": func(name, value string) {
			sel.SetAttr(name, value)
		},
	}
}

func argString(call goja.FunctionCall, i int) string {
	if len(call.Arguments) <= i {
		return ""
	}
	return call.Arguments[i].String()
}

// safeFind absorbs selector-engine panics on malformed input.
func safeFind(doc *goquery.Document, selector string) (sel *goquery.Selection) {
	defer func() {
		if recover() != nil {
			sel = nil
		}
	}()
	if selector == "" {
		return nil
	}
	return doc.Find(selector)
}
