package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/biomixer/internal/catalogue"
	"github.com/pbaille/biomixer/internal/domain"
	"github.com/pbaille/biomixer/internal/gateway"
	"github.com/pbaille/biomixer/internal/store"
	"github.com/pbaille/biomixer/internal/synth"
)

const reply = "NAME: Lumivenom Drifter\nBODY: b\nINTEGRATED MECHANISM: m\nCOMPOUNDING CONSTRAINTS: c\nNARRATIVE POTENTIAL: n"

func seedEntries() []domain.MechanismEntry {
	return []domain.MechanismEntry{
		{ID: "a", Name: "Venom Synthesis", Category: domain.Defense, Tags: []string{"toxin"}},
		{ID: "b", Name: "Bioluminescence", Category: domain.Sensing, Tags: []string{"light"}},
		{ID: "c", Name: "Cryptobiosis", Category: domain.Metabolism},
	}
}

// upstream starts a fake model service and returns a gateway pointed at it
func upstream(t *testing.T, status int, body string) (*gateway.Gateway, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cfg := gateway.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL
	return gateway.New(cfg, nil), &calls
}

func textReply(t *testing.T, text string) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{"content": []map[string]string{{"type": "text", "text": text}}})
	require.NoError(t, err)
	return string(data)
}

func newSession(t *testing.T, syn synth.Synthesizer) (*Session, *store.State) {
	t.Helper()
	state := store.NewState(store.NewMemory())
	require.NoError(t, state.SaveEntries(seedEntries()))
	return New(state, syn, nil), state
}

func TestNewSeedsDefaultCatalogue(t *testing.T) {
	s := New(store.NewState(store.NewMemory()), nil, nil)
	assert.Len(t, s.Entries(), len(catalogue.Defaults()))
	assert.Equal(t, domain.Dark, s.Theme())
	assert.Equal(t, domain.DefaultSettings(), s.Settings())
	assert.Len(t, s.MixerSlots(), 2)
}

// Scenario A: two entries in the mixer, full reply, one new history record.
func TestSynthesizeEndToEnd(t *testing.T) {
	gw, calls := upstream(t, http.StatusOK, textReply(t, reply))
	s, state := newSession(t, synth.Direct{Gateway: gw})

	_, err := s.AddToMixer("a")
	require.NoError(t, err)
	_, err = s.AddToMixer("b")
	require.NoError(t, err)
	before := len(s.Synth().History())

	rec, err := s.Synthesize(context.Background())
	require.NoError(t, err)

	require.Len(t, rec.Mechanisms, 2)
	assert.Equal(t, "a", rec.Mechanisms[0].ID)
	assert.Equal(t, "b", rec.Mechanisms[1].ID)
	assert.Equal(t, "Lumivenom Drifter", rec.Name)
	assert.Equal(t, domain.DefaultModel, rec.Model)
	assert.Equal(t, before+1, len(s.Synth().History()))
	assert.Len(t, state.History(), 1)
	assert.EqualValues(t, 1, calls.Load())
}

// Scenario B: one entry in the mixer, nothing happens.
func TestSynthesizeWithOneEntryIsNoop(t *testing.T) {
	gw, calls := upstream(t, http.StatusOK, textReply(t, reply))
	s, _ := newSession(t, synth.Direct{Gateway: gw})

	_, err := s.AddToMixer("a")
	require.NoError(t, err)
	before := s.Synth().Snapshot()

	_, err = s.Synthesize(context.Background())
	assert.ErrorIs(t, err, synth.ErrTooFewMechanisms)
	assert.Zero(t, calls.Load())
	assert.Equal(t, before, s.Synth().Snapshot())
}

// Scenario C: upstream 429 surfaces its message and leaves history alone.
func TestSynthesizeRateLimited(t *testing.T) {
	gw, _ := upstream(t, http.StatusTooManyRequests, `{"type":"error","error":{"type":"rate_limit_error","message":"rate limited"}}`)
	s, state := newSession(t, synth.Direct{Gateway: gw})
	s.AddToMixer("a")
	s.AddToMixer("b")

	_, err := s.Synthesize(context.Background())
	require.Error(t, err)

	snap := s.Synth().Snapshot()
	assert.Equal(t, synth.Failed, snap.Status)
	assert.Equal(t, "rate limited", snap.Error)
	assert.Empty(t, s.Synth().History())
	assert.Empty(t, state.History())
}

// Scenario D: deleting the entry in slot 0 empties that slot only.
func TestDeleteEntryReconcilesMixer(t *testing.T) {
	s, state := newSession(t, nil)
	s.AddToMixer("a")
	s.AddToMixer("b")
	s.SelectEntry("a")

	ok, err := s.DeleteEntry("a")
	require.NoError(t, err)
	require.True(t, ok)

	slots := s.MixerSlots()
	require.Len(t, slots, 2)
	assert.Nil(t, slots[0])
	require.NotNil(t, slots[1])
	assert.Equal(t, "b", slots[1].ID)
	assert.Equal(t, []string{"", "b"}, state.Mixer())

	_, selected := s.Selected()
	assert.False(t, selected, "deleting the selected entry clears the selection")
	_, found := s.Entry("a")
	assert.False(t, found)
}

func TestDeleteOtherEntryKeepsSelection(t *testing.T) {
	s, _ := newSession(t, nil)
	s.SelectEntry("b")

	_, err := s.DeleteEntry("c")
	require.NoError(t, err)

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", sel.ID)
}

func TestHistorySurvivesEntryEdits(t *testing.T) {
	gw, _ := upstream(t, http.StatusOK, textReply(t, reply))
	s, _ := newSession(t, synth.Direct{Gateway: gw})
	s.AddToMixer("a")
	s.AddToMixer("b")
	_, err := s.Synthesize(context.Background())
	require.NoError(t, err)

	edited, _ := s.Entry("a")
	edited.Name = "Renamed"
	_, err = s.SaveEntry(edited)
	require.NoError(t, err)
	_, err = s.DeleteEntry("b")
	require.NoError(t, err)

	rec := s.Synth().History()[0]
	assert.Equal(t, "Venom Synthesis", rec.Mechanisms[0].Name)
	assert.Equal(t, "Bioluminescence", rec.Mechanisms[1].Name)
}

func TestSaveEntrySelectsIt(t *testing.T) {
	s, _ := newSession(t, nil)
	saved, err := s.SaveEntry(domain.MechanismEntry{Name: "Echolocation", Category: domain.Sensing})
	require.NoError(t, err)

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, saved.ID, sel.ID)
}

func TestSelectEntryReturnsToBrowse(t *testing.T) {
	gw, _ := upstream(t, http.StatusOK, textReply(t, reply))
	s, _ := newSession(t, synth.Direct{Gateway: gw})
	s.AddToMixer("a")
	s.AddToMixer("b")
	_, err := s.Synthesize(context.Background())
	require.NoError(t, err)
	require.Equal(t, synth.ViewSynthesis, s.Synth().Snapshot().View)

	require.True(t, s.SelectEntry("c"))
	assert.Equal(t, synth.ViewBrowse, s.Synth().Snapshot().View)
	assert.False(t, s.SelectEntry("missing"))
}

func TestAddToMixerUnknownEntry(t *testing.T) {
	s, _ := newSession(t, nil)
	_, err := s.AddToMixer("zzz")
	assert.Error(t, err)
}

func TestMixerPersistsAcrossSessions(t *testing.T) {
	s, state := newSession(t, nil)
	s.AddToMixer("a")
	s.AddToMixer("b")
	s.AddToMixer("c")
	require.NoError(t, s.RemoveSlot(1))

	reloaded := New(state, nil, nil)
	slots := reloaded.MixerSlots()
	require.Len(t, slots, 2)
	assert.Equal(t, "a", slots[0].ID)
	assert.Equal(t, "c", slots[1].ID)

	require.NoError(t, reloaded.ClearMixer())
	assert.Equal(t, []string{"", ""}, state.Mixer())
}

func TestReloadDropsSlotsForMissingEntries(t *testing.T) {
	state := store.NewState(store.NewMemory())
	require.NoError(t, state.SaveEntries(seedEntries()))
	require.NoError(t, state.SaveMixer([]string{"gone", "a"}))

	s := New(state, nil, nil)
	slots := s.MixerSlots()
	assert.Nil(t, slots[0])
	assert.Equal(t, "a", slots[1].ID)
}

func TestSettingsAndTheme(t *testing.T) {
	s, state := newSession(t, nil)

	assert.Error(t, s.SaveSettings(domain.Settings{Model: "gpt-nothing"}))

	want := domain.Settings{Model: "claude-opus-4-6", SystemPrompt: "x ${ingredients}"}
	require.NoError(t, s.SaveSettings(want))
	assert.Equal(t, want, s.Settings())
	assert.Equal(t, want, state.Settings())

	theme, err := s.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, domain.Light, theme)
	assert.Equal(t, domain.Light, state.Theme())

	open, err := s.ToggleHistory()
	require.NoError(t, err)
	assert.True(t, open)
	assert.True(t, state.HistoryOpen())
}
