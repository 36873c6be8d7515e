package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/biomixer/internal/domain"
)

func openSQLite(t *testing.T) *SQLite {
	t.Helper()
	db, err := NewSQLite(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteGetSet(t *testing.T) {
	db := openSQLite(t)

	_, ok, err := db.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Set("k", "v1"))
	require.NoError(t, db.Set("k", "v2"))

	v, ok, err := db.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	require.NoError(t, db.Delete("k"))
	_, ok, err = db.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, NewState(db).SaveTheme(domain.Light))
	require.NoError(t, db.Close())

	db, err = NewSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, domain.Light, NewState(db).Theme())
}

func TestStateDefaults(t *testing.T) {
	s := NewState(NewMemory())
	def := []domain.MechanismEntry{{ID: "seed", Name: "Seed", Category: domain.Structure}}

	assert.Equal(t, domain.Dark, s.Theme())
	assert.Equal(t, def, s.Entries(def))
	assert.Equal(t, domain.DefaultSettings(), s.Settings())
	assert.Empty(t, s.History())
	assert.NotNil(t, s.History())
	assert.False(t, s.HistoryOpen())
	assert.Nil(t, s.Mixer())
}

func TestStateUnparsableFallsBackToDefault(t *testing.T) {
	mem := NewMemory()
	for _, key := range Keys {
		require.NoError(t, mem.Set(key, "{not json"))
	}
	s := NewState(mem)
	def := []domain.MechanismEntry{{ID: "seed"}}

	assert.Equal(t, domain.Dark, s.Theme())
	assert.Equal(t, def, s.Entries(def))
	assert.Equal(t, domain.DefaultSettings(), s.Settings())
	assert.Empty(t, s.History())
	assert.False(t, s.HistoryOpen())
	assert.Nil(t, s.Mixer())
}

func TestStateRoundTrip(t *testing.T) {
	s := NewState(openSQLite(t))

	entries := []domain.MechanismEntry{{
		ID: "a", Name: "Venom Synthesis", Category: domain.Defense,
		Tags: []string{"toxin"}, Stats: map[string]int{"offense": 90},
	}}
	require.NoError(t, s.SaveEntries(entries))
	assert.Equal(t, entries, s.Entries(nil))

	settings := domain.Settings{Model: "claude-opus-4-6", SystemPrompt: "custom ${ingredients}"}
	require.NoError(t, s.SaveSettings(settings))
	assert.Equal(t, settings, s.Settings())

	rec := domain.SynthesisRecord{
		ID: "synth-1", Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Name: "Hybrid", Mechanisms: entries, Model: "claude-opus-4-6",
	}
	require.NoError(t, s.SaveHistory([]domain.SynthesisRecord{rec}))
	got := s.History()
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
	assert.True(t, rec.Timestamp.Equal(got[0].Timestamp))
	assert.Equal(t, entries, got[0].Mechanisms)

	require.NoError(t, s.SaveHistoryOpen(true))
	assert.True(t, s.HistoryOpen())

	require.NoError(t, s.SaveMixer([]string{"a", "", "b"}))
	assert.Equal(t, []string{"a", "", "b"}, s.Mixer())
}

func TestSaveMixerWritesNullForEmptySlots(t *testing.T) {
	mem := NewMemory()
	require.NoError(t, NewState(mem).SaveMixer([]string{"", "a"}))

	raw, ok, _ := mem.Get(KeyMixer)
	require.True(t, ok)
	assert.JSONEq(t, `[null,"a"]`, raw)
}

func TestResetRestoresDefaults(t *testing.T) {
	s := NewState(openSQLite(t))
	require.NoError(t, s.SaveTheme(domain.Light))
	require.NoError(t, s.SaveMixer([]string{"a", "b"}))

	require.NoError(t, s.Reset(KeyMixer))
	assert.Nil(t, s.Mixer())
	assert.Equal(t, domain.Light, s.Theme())

	require.NoError(t, s.Reset(Keys...))
	assert.Equal(t, domain.Dark, s.Theme())
}
