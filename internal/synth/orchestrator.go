package synth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pbaille/biomixer/internal/domain"
	"github.com/pbaille/biomixer/internal/gateway"
	"github.com/pbaille/biomixer/internal/parser"
)

// HistoryLimit caps the number of stored synthesis records
const HistoryLimit = 50

var (
	// ErrTooFewMechanisms is returned, without any state change, when fewer
	// than two slots are filled.
	ErrTooFewMechanisms = errors.New("at least 2 mechanisms required")
	// ErrSuperseded is returned by a synthesis whose result was discarded
	// because a newer one started while it was in flight.
	ErrSuperseded = errors.New("synthesis superseded by a newer request")
)

// Status of the current synthesis
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "error"
	default:
		return "idle"
	}
}

// View is the panel shown in the centre of the app
type View string

const (
	ViewBrowse    View = "browse"
	ViewSynthesis View = "synthesis"
)

// Synthesizer turns mechanisms into the model's raw reply text
type Synthesizer interface {
	Synthesize(ctx context.Context, mechanisms []domain.MechanismEntry, settings domain.Settings) (string, error)
}

// SynthesizerFunc adapts a function to Synthesizer
type SynthesizerFunc func(ctx context.Context, mechanisms []domain.MechanismEntry, settings domain.Settings) (string, error)

func (f SynthesizerFunc) Synthesize(ctx context.Context, mechanisms []domain.MechanismEntry, settings domain.Settings) (string, error) {
	return f(ctx, mechanisms, settings)
}

// HistoryStore persists the history list after every change
type HistoryStore interface {
	SaveHistory([]domain.SynthesisRecord) error
}

// Snapshot is a consistent copy of the orchestrator's display state
type Snapshot struct {
	Status  Status
	View    View
	Current *domain.SynthesisRecord
	Error   string
}

// Loading reports whether a synthesis is in flight
func (s Snapshot) Loading() bool {
	return s.Status == Loading
}

// Orchestrator runs the synthesis pipeline and owns the history.
// Only the latest Synthesize call may change state: each call takes a
// token and a completion holding a stale token is dropped.
type Orchestrator struct {
	syn      Synthesizer
	persist  HistoryStore
	settings func() domain.Settings
	slots    func() []*domain.MechanismEntry
	now      func() time.Time
	newID    func() string
	logger   *zap.Logger

	mu      sync.Mutex
	seq     uint64
	status  Status
	view    View
	current *domain.SynthesisRecord
	errMsg  string
	history []domain.SynthesisRecord
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithHistoryStore persists history through hs
func WithHistoryStore(hs HistoryStore) Option {
	return func(o *Orchestrator) { o.persist = hs }
}

// WithSettings supplies the model and template for each synthesis
func WithSettings(fn func() domain.Settings) Option {
	return func(o *Orchestrator) { o.settings = fn }
}

// WithSlots supplies the mixer contents used by Regenerate
func WithSlots(fn func() []*domain.MechanismEntry) Option {
	return func(o *Orchestrator) { o.slots = fn }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithClock overrides time and id generation, for tests
func WithClock(now func() time.Time, newID func() string) Option {
	return func(o *Orchestrator) {
		o.now = now
		o.newID = newID
	}
}

// New creates an Orchestrator seeded with history (most recent first)
func New(syn Synthesizer, history []domain.SynthesisRecord, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		syn:      syn,
		settings: domain.DefaultSettings,
		slots:    func() []*domain.MechanismEntry { return nil },
		now:      time.Now,
		newID:    newRecordID,
		logger:   zap.NewNop(),
		view:     ViewBrowse,
	}
	for _, opt := range opts {
		opt(o)
	}
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	o.history = make([]domain.SynthesisRecord, len(history))
	for i, rec := range history {
		o.history[i] = cloneRecord(rec)
	}
	return o
}

func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "synth-" + id.String()
}

// Synthesize runs the pipeline over the filled slots. With fewer than two
// filled slots it returns ErrTooFewMechanisms and changes nothing.
// Otherwise it enters loading, shows the synthesis view, and ends in
// success (record prepended to history) or error (history untouched).
func (o *Orchestrator) Synthesize(ctx context.Context, slots []*domain.MechanismEntry) (*domain.SynthesisRecord, error) {
	var mechanisms []domain.MechanismEntry
	for _, s := range slots {
		if s != nil {
			mechanisms = append(mechanisms, s.Clone())
		}
	}
	if len(mechanisms) < 2 {
		return nil, ErrTooFewMechanisms
	}

	settings := o.settings()

	o.mu.Lock()
	o.seq++
	token := o.seq
	o.status = Loading
	o.errMsg = ""
	o.current = nil
	o.view = ViewSynthesis
	o.mu.Unlock()

	o.logger.Debug("synthesis started",
		zap.Uint64("token", token),
		zap.Int("mechanisms", len(mechanisms)),
		zap.String("model", settings.Model))

	text, err := o.syn.Synthesize(ctx, mechanisms, settings)

	o.mu.Lock()
	defer o.mu.Unlock()

	if token != o.seq {
		o.logger.Debug("discarding stale synthesis", zap.Uint64("token", token), zap.Uint64("latest", o.seq))
		return nil, ErrSuperseded
	}

	if err != nil {
		o.status = Failed
		o.errMsg = gateway.MessageOf(err)
		o.logger.Warn("synthesis failed", zap.Error(err))
		return nil, err
	}

	parsed := parser.Parse(text)
	rec := domain.SynthesisRecord{
		ID:          o.newID(),
		Timestamp:   o.now(),
		Name:        parsed.Name,
		Body:        parsed.Body,
		Mechanism:   parsed.Mechanism,
		Constraints: parsed.Constraints,
		Narrative:   parsed.Narrative,
		Mechanisms:  mechanisms,
		Model:       settings.Model,
	}

	o.status = Success
	o.current = &rec

	history := make([]domain.SynthesisRecord, 0, min(len(o.history)+1, HistoryLimit))
	history = append(history, rec)
	history = append(history, o.history...)
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	o.history = history
	o.saveHistory()

	o.logger.Info("synthesis complete", zap.String("id", rec.ID), zap.String("name", rec.Name))

	out := cloneRecord(rec)
	return &out, nil
}

// Regenerate synthesizes again from the current mixer contents
func (o *Orchestrator) Regenerate(ctx context.Context) (*domain.SynthesisRecord, error) {
	return o.Synthesize(ctx, o.slots())
}

// Select displays the history record with id without running the pipeline.
// It reports false when no such record exists.
func (o *Orchestrator) Select(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, rec := range o.history {
		if rec.ID == id {
			r := cloneRecord(rec)
			o.current = &r
			o.view = ViewSynthesis
			return true
		}
	}
	return false
}

// Delete removes the record with id from history. Deleting the displayed
// record also clears it and returns to browse.
func (o *Orchestrator) Delete(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	found := false
	kept := make([]domain.SynthesisRecord, 0, len(o.history))
	for _, rec := range o.history {
		if rec.ID == id {
			found = true
			continue
		}
		kept = append(kept, rec)
	}
	if !found {
		return false
	}
	o.history = kept
	o.saveHistory()

	if o.current != nil && o.current.ID == id {
		o.current = nil
		o.view = ViewBrowse
	}
	return true
}

// ClearHistory drops every stored record
func (o *Orchestrator) ClearHistory() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.history = []domain.SynthesisRecord{}
	o.saveHistory()
}

// Back returns to the browse view and dismisses any error
func (o *Orchestrator) Back() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.view = ViewBrowse
	o.errMsg = ""
	if o.status == Failed {
		o.status = Idle
	}
}

// Browse switches to the browse view, keeping the current result
func (o *Orchestrator) Browse() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.view = ViewBrowse
}

// Snapshot returns the current display state
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := Snapshot{Status: o.status, View: o.view, Error: o.errMsg}
	if o.current != nil {
		r := cloneRecord(*o.current)
		s.Current = &r
	}
	return s
}

// History returns copies of the stored records, most recent first
func (o *Orchestrator) History() []domain.SynthesisRecord {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]domain.SynthesisRecord, len(o.history))
	for i, rec := range o.history {
		out[i] = cloneRecord(rec)
	}
	return out
}

// SearchHistory returns records whose name or any ingredient name contains q
func (o *Orchestrator) SearchHistory(q string) []domain.SynthesisRecord {
	q = strings.ToLower(q)
	var out []domain.SynthesisRecord
	for _, rec := range o.History() {
		if strings.Contains(strings.ToLower(rec.Name), q) || usesMechanism(rec, q) {
			out = append(out, rec)
		}
	}
	return out
}

func usesMechanism(rec domain.SynthesisRecord, q string) bool {
	for _, m := range rec.Mechanisms {
		if strings.Contains(strings.ToLower(m.Name), q) {
			return true
		}
	}
	return false
}

// Get returns a copy of the history record with id
func (o *Orchestrator) Get(id string) (domain.SynthesisRecord, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, rec := range o.history {
		if rec.ID == id {
			return cloneRecord(rec), true
		}
	}
	return domain.SynthesisRecord{}, false
}

// saveHistory must be called with mu held
func (o *Orchestrator) saveHistory() {
	if o.persist == nil {
		return
	}
	if err := o.persist.SaveHistory(o.history); err != nil {
		o.logger.Warn("failed to persist history", zap.Error(err))
	}
}

func cloneRecord(rec domain.SynthesisRecord) domain.SynthesisRecord {
	c := rec
	c.Mechanisms = make([]domain.MechanismEntry, len(rec.Mechanisms))
	for i, m := range rec.Mechanisms {
		c.Mechanisms[i] = m.Clone()
	}
	return c
}
