package catalogue

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pbaille/biomixer/internal/domain"
)

// Persister saves the whole entry collection after each mutation
type Persister interface {
	SaveEntries([]domain.MechanismEntry) error
}

// Catalogue owns the mechanism entries
type Catalogue struct {
	entries []domain.MechanismEntry
	persist Persister
}

// New creates a Catalogue over entries. persist may be nil.
func New(entries []domain.MechanismEntry, persist Persister) *Catalogue {
	c := &Catalogue{persist: persist}
	for _, e := range entries {
		c.entries = append(c.entries, e.Clone())
	}
	return c
}

// List returns copies of all entries in catalogue order
func (c *Catalogue) List() []domain.MechanismEntry {
	out := make([]domain.MechanismEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Clone()
	}
	return out
}

// Len returns the number of entries
func (c *Catalogue) Len() int {
	return len(c.entries)
}

// Get returns a copy of the entry with id
func (c *Catalogue) Get(id string) (domain.MechanismEntry, bool) {
	if i := c.index(id); i >= 0 {
		return c.entries[i].Clone(), true
	}
	return domain.MechanismEntry{}, false
}

// Save replaces the entry with the same id or appends it. An entry without
// an id gets a fresh one. Tags are normalised and missing stats filled in.
func (c *Catalogue) Save(e domain.MechanismEntry) (domain.MechanismEntry, error) {
	if err := e.Validate(); err != nil {
		return domain.MechanismEntry{}, fmt.Errorf("invalid entry: %w", err)
	}

	e = e.Clone()
	if e.ID == "" {
		e.ID = "custom-" + uuid.New().String()
	}
	e.Tags = domain.NormalizeTags(e.Tags)
	if e.Stats == nil {
		e.Stats = domain.DefaultStats()
	}

	if i := c.index(e.ID); i >= 0 {
		c.entries[i] = e
	} else {
		c.entries = append(c.entries, e)
	}

	if err := c.save(); err != nil {
		return domain.MechanismEntry{}, err
	}
	return e.Clone(), nil
}

// Delete removes the entry with id and reports whether it existed
func (c *Catalogue) Delete(id string) (bool, error) {
	i := c.index(id)
	if i < 0 {
		return false, nil
	}
	c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
	return true, c.save()
}

// Tags returns every distinct tag in use, sorted
func (c *Catalogue) Tags() []string {
	set := make(map[string]bool)
	for _, e := range c.entries {
		for _, t := range e.Tags {
			set[t] = true
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// MaxSuggestions caps SuggestTags results
const MaxSuggestions = 8

// SuggestTags completes the last tag of a comma separated input from the
// tags already in use, skipping tags the input already names.
func (c *Catalogue) SuggestTags(input string) []string {
	parts := strings.Split(input, ",")
	current := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	if current == "" {
		return nil
	}

	chosen := make(map[string]bool)
	for _, p := range parts[:len(parts)-1] {
		chosen[strings.ToLower(strings.TrimSpace(p))] = true
	}

	var out []string
	for _, tag := range c.Tags() {
		if chosen[tag] || !strings.Contains(tag, current) {
			continue
		}
		out = append(out, tag)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

func (c *Catalogue) index(id string) int {
	for i, e := range c.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalogue) save() error {
	if c.persist == nil {
		return nil
	}
	if err := c.persist.SaveEntries(c.entries); err != nil {
		return fmt.Errorf("save entries: %w", err)
	}
	return nil
}
