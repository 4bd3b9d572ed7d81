package id

import (
	"strings"
	"testing"
)

func TestGenerateUnique(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := g.GenerateString()
		if seen[s] {
			t.Fatalf("duplicate ULID generated: %s", s)
		}
		seen[s] = true
	}
}

func TestPrefixes(t *testing.T) {
	tests := []struct {
		id     string
		prefix string
	}{
		{NewWorkflowID().String(), "wf_"},
		{NewRequestID().String(), "req_"},
		{NewClientID().String(), "ws_"},
	}

	for _, tt := range tests {
		if !strings.HasPrefix(tt.id, tt.prefix) {
			t.Errorf("expected prefix %s, got %s", tt.prefix, tt.id)
		}
		raw := strings.TrimPrefix(tt.id, tt.prefix)
		if !IsValid(raw) {
			t.Errorf("suffix is not a valid ULID: %s", raw)
		}
	}
}
