package catalogue

import (
	"strings"

	"github.com/pbaille/biomixer/internal/domain"
)

// Query narrows the entry list. No categories, or all of them, means no
// category filter; Text matches name, mechanism, source organism, "what"
// and tags case-insensitively.
type Query struct {
	Text       string
	Categories []domain.Category
}

// Filter returns copies of the entries matching q, in catalogue order
func (c *Catalogue) Filter(q Query) []domain.MechanismEntry {
	return FilterEntries(c.entries, q)
}

// FilterEntries applies q to entries without modifying them
func FilterEntries(entries []domain.MechanismEntry, q Query) []domain.MechanismEntry {
	cats := make(map[domain.Category]bool, len(q.Categories))
	for _, cat := range q.Categories {
		cats[cat] = true
	}
	allCats := len(cats) == 0 || len(cats) == len(domain.Categories)
	text := strings.ToLower(q.Text)

	out := []domain.MechanismEntry{}
	for _, e := range entries {
		if !allCats && !cats[e.Category] {
			continue
		}
		if text != "" && !strings.Contains(searchBlob(e), text) {
			continue
		}
		out = append(out, e.Clone())
	}
	return out
}

func searchBlob(e domain.MechanismEntry) string {
	parts := append([]string{e.Name, e.Mech, e.Source, e.What}, e.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}
