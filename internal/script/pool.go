package script

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/glidebrowser/glide/internal/frame"
)

var (
	// ErrPoolClosed rejects use after Close.
	ErrPoolClosed = errors.New("script pool is closed")
	// ErrAcquireTimeout means every runtime stayed busy for the full wait.
	ErrAcquireTimeout = errors.New("timed out waiting for a script runtime")
)

// acquireWait bounds how long Execute blocks for a free runtime.
const acquireWait = 5 * time.Second

// Pool manages reusable runtimes. Runtimes are reset between uses so
// one script's globals never leak into the next.
type Pool struct {
	config   Config
	runtimes chan *Runtime
	size     int
	mu       sync.RWMutex
	closed   bool
}

// NewPool pre-creates size runtimes.
func NewPool(config Config, size int) (*Pool, error) {
	if size <= 0 {
		size = 4
	}
	p := &Pool{
		config:   config,
		runtimes: make(chan *Runtime, size),
		size:     size,
	}
	for i := 0; i < size; i++ {
		rt, err := NewRuntime(config)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.runtimes <- rt
	}
	return p, nil
}

// Execute runs a script on any free runtime.
func (p *Pool) Execute(ctx context.Context, source string, fr *frame.Frame) (*Result, error) {
	rt, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.release(rt)
	return rt.Execute(ctx, source, fr)
}

// Stats reports pool occupancy.
func (p *Pool) Stats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return map[string]interface{}{
		"size":      p.size,
		"available": len(p.runtimes),
		"in_use":    p.size - len(p.runtimes),
	}
}

// Close shuts down the pool and every idle runtime.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.runtimes)
	for rt := range p.runtimes {
		rt.Close()
	}
	return nil
}

func (p *Pool) acquire(ctx context.Context) (*Runtime, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrPoolClosed
	}
	select {
	case rt := <-p.runtimes:
		return rt, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(acquireWait):
		return nil, ErrAcquireTimeout
	}
}

func (p *Pool) release(rt *Runtime) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		rt.Close()
		return
	}
	if err := rt.Reset(); err != nil {
		rt.Close()
		if fresh, err := NewRuntime(p.config); err == nil {
			p.runtimes <- fresh
		}
		return
	}
	select {
	case p.runtimes <- rt:
	default:
		rt.Close()
	}
}
