package frame

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/glidebrowser/glide/internal/shared/types"
)

// ErrAccessDenied is returned for any document access against a
// cross-origin frame. Callers degrade to a defined fallback, never
// surface it as a user-visible failure.
var ErrAccessDenied = errors.New("frame document access denied: cross-origin")

// scrollStep is the viewport percentage moved per up/down scroll.
const scrollStep = 20

// Frame is one embedded rendering surface: a parsed document plus the
// capability gate guarding it.
type Frame struct {
	mu         sync.Mutex
	url        *url.URL
	doc        *goquery.Document
	title      string
	sameOrigin bool
	scroll     int // viewport position, 0 (top) .. 100 (bottom)
}

// New wraps a parsed document. sameOrigin=false locks the document
// behind the capability gate.
func New(rawURL string, doc *goquery.Document, sameOrigin bool) *Frame {
	u, _ := url.Parse(rawURL)
	title := strings.TrimSpace(doc.Find("title").First().Text())
	return &Frame{url: u, doc: doc, title: title, sameOrigin: sameOrigin}
}

// URL returns the frame's location.
func (f *Frame) URL() string {
	if f.url == nil {
		return ""
	}
	return f.url.String()
}

// Host returns the frame location's host name.
func (f *Frame) Host() string {
	if f.url == nil {
		return ""
	}
	return f.url.Host
}

// SameOrigin reports whether the document is reachable.
func (f *Frame) SameOrigin() bool {
	return f.sameOrigin
}

// Document returns the frame's document, or ErrAccessDenied for a
// cross-origin frame.
func (f *Frame) Document() (*goquery.Document, error) {
	if !f.sameOrigin {
		return nil, ErrAccessDenied
	}
	return f.doc, nil
}

// Title reads the loaded document's title. Best-effort: ok is false when
// access is denied, and the caller falls back to the host name.
func (f *Frame) Title() (string, bool) {
	if !f.sameOrigin {
		return "", false
	}
	return f.title, true
}

// Scroll moves the logical viewport. Denied for cross-origin frames.
func (f *Frame) Scroll(dir types.ScrollDirection) error {
	if !f.sameOrigin {
		return ErrAccessDenied
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	switch dir {
	case types.ScrollUp:
		f.scroll -= scrollStep
	case types.ScrollDown:
		f.scroll += scrollStep
	case types.ScrollTop:
		f.scroll = 0
	case types.ScrollBottom:
		f.scroll = 100
	default:
		return errors.New("unknown scroll direction: " + string(dir))
	}
	if f.scroll < 0 {
		f.scroll = 0
	}
	if f.scroll > 100 {
		f.scroll = 100
	}
	return nil
}

// ScrollPosition returns the viewport position as a 0-100 percentage.
func (f *Frame) ScrollPosition() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scroll
}

// HTML serializes the processed document for rendering. Rendering is
// not gated: a browser displays cross-origin frames, scripts just
// cannot reach into them.
func (f *Frame) HTML() (string, error) {
	return f.doc.Html()
}
