// Package id provides centralized ID generation for the shell.
//
// This package offers type-safe ULID generation with:
//   - Lexicographic sortability: enables time-ordered listings
//   - Prefixed types: type-specific prefixes for debugging (wf_*, req_*, ws_*)
//   - Type safety: separate types prevent ID misuse
//
// Tab identifiers are deliberately NOT ULIDs: the tab registry assigns them
// from a monotonic counter so they are ordered, never reused, and cheap to
// compare. Everything persisted or exposed to external clients uses a ULID.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// WorkflowID identifies a recorded workflow
type WorkflowID string

// RequestID identifies an API request
type RequestID string

// ClientID identifies a WebSocket client connection
type ClientID string

const (
	WorkflowPrefix = "wf"
	RequestPrefix  = "req"
	ClientPrefix   = "ws"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewWorkflowID generates a new workflow ID
func NewWorkflowID() WorkflowID {
	return WorkflowID(Default().GenerateWithPrefix(WorkflowPrefix))
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewClientID generates a new WebSocket client ID
func NewClientID() ClientID {
	return ClientID(Default().GenerateWithPrefix(ClientPrefix))
}

func (id WorkflowID) String() string { return string(id) }
func (id RequestID) String() string  { return string(id) }
func (id ClientID) String() string   { return string(id) }

// IsValid checks if an ID string is a valid ULID
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}
