package app

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pbaille/biomixer/internal/catalogue"
	"github.com/pbaille/biomixer/internal/domain"
	"github.com/pbaille/biomixer/internal/store"
	"github.com/pbaille/biomixer/internal/synth"
)

// Session is the client-side application state: catalogue, mixer,
// selection, settings and the synthesis orchestrator, all persisted
// through a store.State.
type Session struct {
	state  *store.State
	logger *zap.Logger

	mu          sync.Mutex
	catalogue   *catalogue.Catalogue
	mixer       *catalogue.Mixer
	selectedID  string
	settings    domain.Settings
	theme       domain.Theme
	historyOpen bool

	synth *synth.Orchestrator
}

// New loads a Session from state. The default catalogue is used when no
// entries are stored.
func New(state *store.State, syn synth.Synthesizer, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		state:       state,
		logger:      logger,
		catalogue:   catalogue.New(state.Entries(catalogue.Defaults()), state),
		settings:    state.Settings(),
		theme:       state.Theme(),
		historyOpen: state.HistoryOpen(),
	}

	// Drop slots pointing at entries that no longer exist
	ids := state.Mixer()
	for i, id := range ids {
		if _, ok := s.catalogue.Get(id); !ok {
			ids[i] = ""
		}
	}
	s.mixer = catalogue.NewMixer(ids)

	s.synth = synth.New(syn, state.History(),
		synth.WithHistoryStore(state),
		synth.WithSettings(s.Settings),
		synth.WithSlots(s.MixerSlots),
		synth.WithLogger(logger.Named("synth")))

	return s
}

// Synth exposes the orchestrator for history and display state
func (s *Session) Synth() *synth.Orchestrator {
	return s.synth
}

// Entries returns the whole catalogue
func (s *Session) Entries() []domain.MechanismEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogue.List()
}

// Entry returns the entry with id
func (s *Session) Entry(id string) (domain.MechanismEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogue.Get(id)
}

// Filter returns the entries matching q
func (s *Session) Filter(q catalogue.Query) []domain.MechanismEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogue.Filter(q)
}

// Tags returns every tag in use
func (s *Session) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogue.Tags()
}

// SuggestTags completes the last tag of a comma separated input
func (s *Session) SuggestTags(input string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogue.SuggestTags(input)
}

// SaveEntry creates or updates an entry and selects it
func (s *Session) SaveEntry(e domain.MechanismEntry) (domain.MechanismEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.catalogue.Save(e)
	if err != nil {
		return domain.MechanismEntry{}, err
	}
	s.selectedID = saved.ID
	return saved, nil
}

// DeleteEntry removes an entry, empties any mixer slot holding it and
// clears the selection if it was selected.
func (s *Session) DeleteEntry(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.catalogue.Delete(id)
	if err != nil || !ok {
		return ok, err
	}
	if s.selectedID == id {
		s.selectedID = ""
	}
	if s.mixer.Reconcile(id) {
		if err := s.saveMixer(); err != nil {
			return true, err
		}
	}
	s.logger.Debug("entry deleted", zap.String("id", id))
	return true, nil
}

// SelectEntry shows an entry in the browse view
func (s *Session) SelectEntry(id string) bool {
	s.mu.Lock()
	_, ok := s.catalogue.Get(id)
	if ok {
		s.selectedID = id
	}
	s.mu.Unlock()

	if ok {
		s.synth.Browse()
	}
	return ok
}

// Selected returns the selected entry, if any
func (s *Session) Selected() (domain.MechanismEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID == "" {
		return domain.MechanismEntry{}, false
	}
	return s.catalogue.Get(s.selectedID)
}

// AddToMixer puts an entry in the mixer. It reports false when the entry
// is already there.
func (s *Session) AddToMixer(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalogue.Get(id); !ok {
		return false, fmt.Errorf("entry not found: %s", id)
	}
	if !s.mixer.Add(id) {
		return false, nil
	}
	return true, s.saveMixer()
}

// AddSlot appends an empty mixer slot
func (s *Session) AddSlot() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mixer.AddSlot()
	return s.saveMixer()
}

// RemoveSlot drops the mixer slot at index i
func (s *Session) RemoveSlot(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mixer.Remove(i)
	return s.saveMixer()
}

// ClearMixer resets the mixer to two empty slots
func (s *Session) ClearMixer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mixer.Clear()
	return s.saveMixer()
}

// MixerSlots resolves the mixer slots to entry copies; nil marks an empty slot
func (s *Session) MixerSlots() []*domain.MechanismEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.mixer.Slots()
	out := make([]*domain.MechanismEntry, len(ids))
	for i, id := range ids {
		if id == "" {
			continue
		}
		if e, ok := s.catalogue.Get(id); ok {
			out[i] = &e
		}
	}
	return out
}

// Synthesize runs the pipeline over the current mixer contents
func (s *Session) Synthesize(ctx context.Context) (*domain.SynthesisRecord, error) {
	return s.synth.Synthesize(ctx, s.MixerSlots())
}

// Regenerate runs the pipeline again over the current mixer contents
func (s *Session) Regenerate(ctx context.Context) (*domain.SynthesisRecord, error) {
	return s.synth.Regenerate(ctx)
}

// Settings returns the synthesis settings
func (s *Session) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SaveSettings validates and stores settings
func (s *Session) SaveSettings(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.SaveSettings(settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.settings = settings
	return nil
}

// Theme returns the colour scheme
func (s *Session) Theme() domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// ToggleTheme flips the colour scheme and returns the new one
func (s *Session) ToggleTheme() (domain.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.theme.Toggle()
	if err := s.state.SaveTheme(next); err != nil {
		return s.theme, fmt.Errorf("save theme: %w", err)
	}
	s.theme = next
	return next, nil
}

// HistoryOpen reports whether the history panel is expanded
func (s *Session) HistoryOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyOpen
}

// ToggleHistory expands or collapses the history panel
func (s *Session) ToggleHistory() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.SaveHistoryOpen(!s.historyOpen); err != nil {
		return s.historyOpen, fmt.Errorf("save history panel: %w", err)
	}
	s.historyOpen = !s.historyOpen
	return s.historyOpen, nil
}

// saveMixer must be called with mu held
func (s *Session) saveMixer() error {
	if err := s.state.SaveMixer(s.mixer.Slots()); err != nil {
		return fmt.Errorf("save mixer: %w", err)
	}
	return nil
}
