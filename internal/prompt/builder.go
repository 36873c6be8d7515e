package prompt

import (
	"strconv"
	"strings"

	"github.com/pbaille/biomixer/internal/domain"
)

// Placeholders recognised in a template. Nothing else is substituted.
const (
	CountPlaceholder       = "${mechanisms.length}"
	IngredientsPlaceholder = "${ingredients}"
)

// DefaultTemplate is used when the user has not set their own
const DefaultTemplate = `You are a xenobiologist designing speculative alien species for a hard science fiction universe. You are given ${mechanisms.length} real biological mechanisms from Earth organisms. Your job is to combine them into ONE coherent speculative species.

MECHANISMS TO COMBINE:
${ingredients}

Generate a speculative hybrid species. Format your response EXACTLY like this (plain text, no markdown):

NAME: [A evocative species name — scientific-sounding or mythic]

BODY: [2-3 sentences describing physical form, size, habitat]

INTEGRATED MECHANISM: [3-4 sentences explaining HOW these mechanisms work together in one organism. Be specific about the biology. The mechanisms should not just coexist — they should interact, creating emergent properties neither has alone.]

COMPOUNDING CONSTRAINTS: [2-3 sentences on the costs, vulnerabilities, and tradeoffs of combining these systems. What new failure modes emerge?]

NARRATIVE POTENTIAL: [2-3 sentences on why this species is dramatically interesting — what stories does it enable? What philosophical questions does it raise?]

Be scientifically grounded but creatively bold. No generic descriptions. Every sentence should be specific and surprising.`

// Build renders the synthesis prompt for entries.
// An empty template selects DefaultTemplate.
func Build(entries []domain.MechanismEntry, template string) string {
	if template == "" {
		template = DefaultTemplate
	}

	out := strings.ReplaceAll(template, CountPlaceholder, strconv.Itoa(len(entries)))
	return strings.ReplaceAll(out, IngredientsPlaceholder, Ingredients(entries))
}

// Ingredients renders one block per entry, in order, separated by a blank line
func Ingredients(entries []domain.MechanismEntry) string {
	blocks := make([]string, len(entries))
	for i, e := range entries {
		blocks[i] = ingredient(e)
	}
	return strings.Join(blocks, "\n\n")
}

func ingredient(e domain.MechanismEntry) string {
	var sb strings.Builder

	sb.WriteString("— ")
	sb.WriteString(e.Name)
	sb.WriteString(" (")
	sb.WriteString(e.Mech)
	sb.WriteString(")\n")
	sb.WriteString("  What: " + e.What + "\n")
	sb.WriteString("  How: " + e.How + "\n")
	sb.WriteString("  Constraints: " + e.Constraints + "\n")
	sb.WriteString("  Combinatorial notes: " + e.Combo + "\n")
	sb.WriteString("  Narrative hooks: " + e.Hooks + "\n")
	sb.WriteString("  Tags: " + strings.Join(e.Tags, ", "))

	return sb.String()
}
