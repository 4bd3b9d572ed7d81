package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/glidebrowser/glide/internal/logging"
)

// Setting is one configuration entry with its metadata.
type Setting struct {
	Key         string      `json:"key"`
	Value       interface{} `json:"value"`
	Type        string      `json:"type"` // "string", "number", "boolean", "json"
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Default     interface{} `json:"default"`
}

// persistedFile is the on-disk shape: values only, metadata comes from
// the defaults table.
type persistedFile struct {
	Settings map[string]interface{} `toml:"settings"`
}

// Store holds shell settings: a defaults table overlaid with persisted
// user values. Mutations write through to disk.
type Store struct {
	mu       sync.RWMutex
	path     string
	settings map[string]Setting
	log      *logging.Logger
}

// NewStore creates a store and loads persisted values over the
// defaults. A missing or unreadable file just means defaults.
func NewStore(path string, log *logging.Logger) *Store {
	s := &Store{
		path:     path,
		settings: defaultSettings(),
		log:      log.For("settings"),
	}
	s.load()
	return s
}

func defaultSettings() map[string]Setting {
	defaults := []Setting{
		{Key: "general.theme", Default: "dark", Type: "string", Category: "general", Description: "UI theme"},
		{Key: "general.home_shortcuts", Default: true, Type: "boolean", Category: "general", Description: "Show shortcuts on the home screen"},
		{Key: "browser.search_engine", Default: "https://duckduckgo.com/?q=%s", Type: "string", Category: "browser", Description: "Search URL template"},
		{Key: "browser.block_trackers", Default: true, Type: "boolean", Category: "browser", Description: "Strip known tracker elements"},
		{Key: "browser.action_delay_ms", Default: int64(500), Type: "number", Category: "browser", Description: "Settle delay between batch actions"},
		{Key: "agent.provider", Default: "local", Type: "string", Category: "agent", Description: "Default command provider"},
		{Key: "agent.confirm_batches", Default: false, Type: "boolean", Category: "agent", Description: "Ask before running multi-step batches"},
		{Key: "developer.debug_mode", Default: false, Type: "boolean", Category: "developer", Description: "Verbose frame diagnostics"},
	}
	m := make(map[string]Setting, len(defaults))
	for _, d := range defaults {
		d.Value = d.Default
		m[d.Key] = d
	}
	return m
}

// Get returns a setting by key.
func (s *Store) Get(key string) (Setting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.settings[key]
	return st, ok
}

// Set assigns a value, creating a custom setting for unknown keys, and
// persists the store.
func (s *Store) Set(key string, value interface{}) (Setting, error) {
	s.mu.Lock()
	st, ok := s.settings[key]
	if ok {
		st.Value = value
	} else {
		st = Setting{Key: key, Value: value, Type: inferType(value), Category: "custom"}
	}
	s.settings[key] = st
	s.mu.Unlock()

	if err := s.persist(); err != nil {
		return st, err
	}
	s.log.Info("setting updated", zap.String("key", key))
	return st, nil
}

// Reset restores a setting to its default. Custom settings reset to nil.
func (s *Store) Reset(key string) (Setting, error) {
	s.mu.Lock()
	st, ok := s.settings[key]
	if !ok {
		s.mu.Unlock()
		return Setting{}, fmt.Errorf("setting not found: %s", key)
	}
	st.Value = st.Default
	s.settings[key] = st
	s.mu.Unlock()

	return st, s.persist()
}

// List returns settings, optionally filtered by category, key-sorted.
func (s *Store) List(category string) []Setting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Setting, 0, len(s.settings))
	for _, st := range s.settings {
		if category == "" || st.Category == category {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Categories returns the distinct categories, sorted.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{})
	for _, st := range s.settings {
		set[st.Category] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Export returns the key-to-value map.
func (s *Store) Export() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]interface{}, len(s.settings))
	for k, st := range s.settings {
		out[k] = st.Value
	}
	return out
}

// Import applies a key-to-value map, returning how many were stored.
func (s *Store) Import(values map[string]interface{}) (int, error) {
	count := 0
	for k, v := range values {
		if _, err := s.Set(k, v); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var file persistedFile
	if err := toml.Unmarshal(data, &file); err != nil {
		s.log.Warn("ignoring unreadable settings file", zap.String("path", s.path), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range file.Settings {
		if st, ok := s.settings[k]; ok {
			st.Value = v
			s.settings[k] = st
		} else {
			s.settings[k] = Setting{Key: k, Value: v, Type: inferType(v), Category: "custom"}
		}
	}
}

// persist writes the value map atomically: temp file plus rename.
func (s *Store) persist() error {
	s.mu.RLock()
	file := persistedFile{Settings: make(map[string]interface{}, len(s.settings))}
	for k, st := range s.settings {
		if st.Value != nil {
			file.Settings[k] = st.Value
		}
	}
	s.mu.RUnlock()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func inferType(value interface{}) string {
	switch value.(type) {
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case string:
		return "string"
	default:
		return "json"
	}
}
