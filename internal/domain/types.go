package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category groups mechanism entries in the catalogue
type Category string

const (
	Metabolism   Category = "Metabolism"
	Structure    Category = "Structure"
	Sensing      Category = "Sensing"
	Reproduction Category = "Reproduction"
	Defense      Category = "Defense"
	Symbiosis    Category = "Symbiosis"
	Parasitism   Category = "Parasitism"
	Collective   Category = "Collective"
	Quantum      Category = "Quantum"
)

// Categories lists every valid category in display order
var Categories = []Category{
	Metabolism, Structure, Sensing, Reproduction, Defense,
	Symbiosis, Parasitism, Collective, Quantum,
}

// Valid reports whether c is one of the fixed categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// StatKeys are the attributes every entry carries by default
var StatKeys = []string{"resilience", "offense", "regen", "complexity", "social"}

// MechanismEntry is a catalogued biological mechanism available for mixing
type MechanismEntry struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Icon        string         `json:"icon"`
	Category    Category       `json:"cat"`
	Mech        string         `json:"mech"`
	Source      string         `json:"source"`
	What        string         `json:"what"`
	How         string         `json:"how"`
	Constraints string         `json:"constraints"`
	Combo       string         `json:"combo"`
	Hooks       string         `json:"hooks"`
	Tags        []string       `json:"tags"`
	Stats       map[string]int `json:"stats"`
}

// Validate checks the category and stat ranges
func (e MechanismEntry) Validate() error {
	if !e.Category.Valid() {
		return fmt.Errorf("unknown category %q", e.Category)
	}
	for name, v := range e.Stats {
		if v < 0 || v > 100 {
			return fmt.Errorf("stat %s out of range: %d", name, v)
		}
	}
	return nil
}

// Clone returns a deep copy so snapshots never share tags or stats
func (e MechanismEntry) Clone() MechanismEntry {
	c := e
	if e.Tags != nil {
		c.Tags = append([]string(nil), e.Tags...)
	}
	if e.Stats != nil {
		c.Stats = make(map[string]int, len(e.Stats))
		for k, v := range e.Stats {
			c.Stats[k] = v
		}
	}
	return c
}

// DefaultStats returns the neutral stat block used for new entries
func DefaultStats() map[string]int {
	stats := make(map[string]int, len(StatKeys))
	for _, k := range StatKeys {
		stats[k] = 50
	}
	return stats
}

// NormalizeTags lowercases and trims tags, dropping empties and duplicates.
// First occurrence order is kept.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// SplitTags parses a comma separated tag field as typed in the entry form
func SplitTags(input string) []string {
	return NormalizeTags(strings.Split(input, ","))
}

// SynthesisRecord is one stored result of the synthesis pipeline
type SynthesisRecord struct {
	ID          string           `json:"id"`
	Timestamp   time.Time        `json:"timestamp"`
	Name        string           `json:"name"`
	Body        string           `json:"body"`
	Mechanism   string           `json:"mechanism"`
	Constraints string           `json:"constraints"`
	Narrative   string           `json:"narrative"`
	Mechanisms  []MechanismEntry `json:"mechanisms"`
	Model       string           `json:"model"`
}

// Model is a selectable upstream model
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Models is the fixed set of models a user may pick
var Models = []Model{
	{ID: "claude-opus-4-5-20251101", Name: "Claude 4.5 Opus"},
	{ID: "claude-opus-4-6", Name: "Claude 4.6 Opus"},
}

// DefaultModel is used when settings name no model
const DefaultModel = "claude-opus-4-5-20251101"

// KnownModel reports whether id is in Models
func KnownModel(id string) bool {
	for _, m := range Models {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Settings holds the user's synthesis preferences.
// An empty SystemPrompt means the built-in template.
type Settings struct {
	Model        string `json:"model"`
	SystemPrompt string `json:"systemPrompt"`
}

// DefaultSettings returns settings pointing at the first model
func DefaultSettings() Settings {
	return Settings{Model: Models[0].ID}
}

// Validate rejects models outside the fixed set
func (s Settings) Validate() error {
	if !KnownModel(s.Model) {
		return fmt.Errorf("unknown model %q", s.Model)
	}
	return nil
}

// Theme is the persisted colour scheme
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// Toggle flips between dark and light
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}
