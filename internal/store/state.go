package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pbaille/biomixer/internal/domain"
)

// Keys under which client state is persisted
const (
	KeyTheme       = "bio-sandbox-theme"
	KeyEntries     = "bio-sandbox-entries"
	KeySettings    = "bio-sandbox-settings"
	KeyHistory     = "bio-sandbox-history"
	KeyHistoryOpen = "bio-sandbox-history-open"
	KeyMixer       = "bio-sandbox-mixer"
)

// Keys lists every persisted key
var Keys = []string{KeyTheme, KeyEntries, KeySettings, KeyHistory, KeyHistoryOpen, KeyMixer}

// Backend is a string key-value store
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Memory is an in-process Backend, used by tests and ephemeral sessions
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty Memory backend
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// State reads and writes typed client state through a Backend.
// Each value is JSON encoded and written whole.
type State struct {
	backend Backend
}

// NewState wraps backend
func NewState(backend Backend) *State {
	return &State{backend: backend}
}

// load decodes key into v. It reports false when the key is absent or
// its value cannot be decoded, leaving v for the caller's default.
func (s *State) load(key string, v any) bool {
	raw, ok, err := s.backend.Get(key)
	if err != nil || !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), v) == nil
}

func (s *State) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.backend.Set(key, string(data))
}

// Reset deletes keys so their next load yields the default
func (s *State) Reset(keys ...string) error {
	for _, k := range keys {
		if err := s.backend.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// Theme returns the stored theme, dark by default
func (s *State) Theme() domain.Theme {
	var t domain.Theme
	if !s.load(KeyTheme, &t) || (t != domain.Dark && t != domain.Light) {
		return domain.Dark
	}
	return t
}

func (s *State) SaveTheme(t domain.Theme) error {
	return s.save(KeyTheme, t)
}

// Entries returns the stored catalogue or def when none is stored
func (s *State) Entries(def []domain.MechanismEntry) []domain.MechanismEntry {
	var entries []domain.MechanismEntry
	if !s.load(KeyEntries, &entries) || entries == nil {
		return def
	}
	return entries
}

func (s *State) SaveEntries(entries []domain.MechanismEntry) error {
	return s.save(KeyEntries, entries)
}

// Settings returns the stored settings, falling back to the defaults
func (s *State) Settings() domain.Settings {
	var settings domain.Settings
	if !s.load(KeySettings, &settings) {
		return domain.DefaultSettings()
	}
	if settings.Model == "" {
		settings.Model = domain.DefaultSettings().Model
	}
	return settings
}

func (s *State) SaveSettings(settings domain.Settings) error {
	return s.save(KeySettings, settings)
}

// History returns stored synthesis records, most recent first
func (s *State) History() []domain.SynthesisRecord {
	var history []domain.SynthesisRecord
	if !s.load(KeyHistory, &history) || history == nil {
		return []domain.SynthesisRecord{}
	}
	return history
}

func (s *State) SaveHistory(history []domain.SynthesisRecord) error {
	return s.save(KeyHistory, history)
}

// HistoryOpen reports whether the history panel is expanded; collapsed by default
func (s *State) HistoryOpen() bool {
	var open bool
	s.load(KeyHistoryOpen, &open)
	return open
}

func (s *State) SaveHistoryOpen(open bool) error {
	return s.save(KeyHistoryOpen, open)
}

// Mixer returns stored slot ids ("" for an empty slot), or nil
func (s *State) Mixer() []string {
	var slots []*string
	if !s.load(KeyMixer, &slots) {
		return nil
	}
	ids := make([]string, len(slots))
	for i, id := range slots {
		if id != nil {
			ids[i] = *id
		}
	}
	return ids
}

// SaveMixer stores slot ids, writing empty slots as null
func (s *State) SaveMixer(ids []string) error {
	slots := make([]*string, len(ids))
	for i := range ids {
		if ids[i] != "" {
			slots[i] = &ids[i]
		}
	}
	return s.save(KeyMixer, slots)
}
