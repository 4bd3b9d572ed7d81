package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/glidebrowser/glide/internal/logging"
	"github.com/glidebrowser/glide/internal/shared/id"
	"github.com/glidebrowser/glide/internal/shared/types"
)

// persistedFile is the on-disk shape.
type persistedFile struct {
	Workflows []types.Workflow `yaml:"workflows"`
}

// Store persists recorded workflows as YAML. Saves write through.
type Store struct {
	mu        sync.RWMutex
	path      string
	workflows map[string]types.Workflow
	log       *logging.Logger
}

// NewStore creates a store and loads whatever the file holds. A
// missing file means an empty store.
func NewStore(path string, log *logging.Logger) *Store {
	s := &Store{
		path:      path,
		workflows: make(map[string]types.Workflow),
		log:       log.For("workflows"),
	}
	s.load()
	return s
}

// Save stores a named step sequence and returns the workflow with its
// assigned id.
func (s *Store) Save(name string, steps []types.WorkflowStep) (types.Workflow, error) {
	if name == "" {
		return types.Workflow{}, fmt.Errorf("workflow name is required")
	}
	if len(steps) == 0 {
		return types.Workflow{}, fmt.Errorf("workflow %q has no steps", name)
	}

	wf := types.Workflow{
		ID:        id.NewWorkflowID().String(),
		Name:      name,
		Steps:     steps,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.workflows[wf.ID] = wf
	s.mu.Unlock()

	if err := s.persist(); err != nil {
		return wf, err
	}
	s.log.Info("workflow saved", zap.String("id", wf.ID), zap.String("name", name), zap.Int("steps", len(steps)))
	return wf, nil
}

// Get returns a workflow by id.
func (s *Store) Get(workflowID string) (types.Workflow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wf, ok := s.workflows[workflowID]
	return wf, ok
}

// List returns all workflows, newest first.
func (s *Store) List() []types.Workflow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Workflow, 0, len(s.workflows))
	for _, wf := range s.workflows {
		out = append(out, wf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Delete removes a workflow.
func (s *Store) Delete(workflowID string) error {
	s.mu.Lock()
	if _, ok := s.workflows[workflowID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("workflow not found: %s", workflowID)
	}
	delete(s.workflows, workflowID)
	s.mu.Unlock()

	return s.persist()
}

// Actions converts a workflow's steps back into an executable batch.
func (s *Store) Actions(workflowID string) ([]types.Action, error) {
	wf, ok := s.Get(workflowID)
	if !ok {
		return nil, fmt.Errorf("workflow not found: %s", workflowID)
	}
	actions := make([]types.Action, len(wf.Steps))
	for i, step := range wf.Steps {
		actions[i] = step.Action()
	}
	return actions, nil
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var file persistedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		s.log.Warn("ignoring unreadable workflow file", zap.String("path", s.path), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, wf := range file.Workflows {
		s.workflows[wf.ID] = wf
	}
}

func (s *Store) persist() error {
	s.mu.RLock()
	file := persistedFile{Workflows: make([]types.Workflow, 0, len(s.workflows))}
	for _, wf := range s.workflows {
		file.Workflows = append(file.Workflows, wf)
	}
	s.mu.RUnlock()
	sort.Slice(file.Workflows, func(i, j int) bool {
		return file.Workflows[i].CreatedAt.Before(file.Workflows[j].CreatedAt)
	})

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to encode workflows: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create workflow dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write workflows: %w", err)
	}
	return os.Rename(tmp, s.path)
}
