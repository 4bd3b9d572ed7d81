package frame

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/glidebrowser/glide/internal/logging"
	"github.com/glidebrowser/glide/internal/monitoring"
)

// Sink receives frame lifecycle signals. Implemented by the tab
// registry.
type Sink interface {
	FrameLoaded(tabID int64, title string, titleOK bool)
	FrameFailed(tabID int64, message string)
}

// Host owns one frame per tab and runs loads asynchronously. It
// implements the registry's FrameLoader contract: Load never blocks and
// completion arrives through the sink.
type Host struct {
	mu      sync.Mutex
	fetcher *Fetcher
	sink    Sink
	log     *logging.Logger
	metrics *monitoring.Metrics
	frames  map[int64]*Frame
	loadSeq map[int64]uint64
}

// NewHost creates a frame host around a fetcher. metrics may be nil.
// The sink must be set before the first load.
func NewHost(fetcher *Fetcher, metrics *monitoring.Metrics, log *logging.Logger) *Host {
	return &Host{
		fetcher: fetcher,
		log:     log,
		metrics: metrics,
		frames:  make(map[int64]*Frame),
		loadSeq: make(map[int64]uint64),
	}
}

// SetSink wires the lifecycle receiver. Done post-construction because
// host and registry reference each other.
func (h *Host) SetSink(sink Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sink = sink
}

// Load begins an asynchronous fetch for the tab. A newer Load for the
// same tab supersedes an in-flight one: the stale result is dropped.
func (h *Host) Load(tabID int64, url string) {
	h.mu.Lock()
	h.loadSeq[tabID]++
	seq := h.loadSeq[tabID]
	sink := h.sink
	h.mu.Unlock()

	go func() {
		start := time.Now()
		fr, err := h.fetcher.Fetch(context.Background(), url)

		h.mu.Lock()
		stale := h.loadSeq[tabID] != seq
		if !stale && err == nil {
			h.frames[tabID] = fr
		}
		h.mu.Unlock()

		if stale || sink == nil {
			return
		}
		if h.metrics != nil {
			h.metrics.RecordFrameLoad(loadOutcome(err), time.Since(start))
		}
		if err != nil {
			sink.FrameFailed(tabID, err.Error())
			return
		}
		title, ok := fr.Title()
		sink.FrameLoaded(tabID, title, ok)
		h.log.Debug("frame loaded",
			zap.Int64("tab", tabID),
			zap.String("url", url),
			zap.Bool("same_origin", fr.SameOrigin()))
	}()
}

func loadOutcome(err error) string {
	switch {
	case err == nil:
		return "loaded"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "failed"
	}
}

// Discard drops the tab's frame and invalidates any in-flight load.
func (h *Host) Discard(tabID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loadSeq[tabID]++
	delete(h.frames, tabID)
}

// Frame returns the tab's current frame, if one is loaded.
func (h *Host) Frame(tabID int64) (*Frame, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fr, ok := h.frames[tabID]
	return fr, ok
}
