package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/biomixer/internal/domain"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\nb", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", truncate("éééééééééééé", 10))
}

func TestEntryFormAppliesOnlyChangedFlags(t *testing.T) {
	e := domain.MechanismEntry{
		Name:     "Old",
		Category: domain.Structure,
		Mech:     "protein spinning",
		Stats:    map[string]int{"resilience": 10, "offense": 20},
	}

	form := &entryForm{}
	probe := &cobra.Command{Use: "probe"}
	form.bind(probe)
	require.NoError(t, probe.ParseFlags([]string{
		"--name", "Spider Silk",
		"--tags", "Fiber, STRENGTH ,fiber",
		"--stat", "resilience=90",
	}))
	form.apply(probe, &e)

	assert.Equal(t, "Spider Silk", e.Name)
	assert.Equal(t, domain.Structure, e.Category)
	assert.Equal(t, "protein spinning", e.Mech)
	assert.Equal(t, []string{"fiber", "strength"}, e.Tags)
	assert.Equal(t, map[string]int{"resilience": 90, "offense": 20}, e.Stats)
}
