package parser

import (
	"strings"
)

// Section labels the model is asked to emit, in their expected order
const (
	LabelName        = "NAME"
	LabelBody        = "BODY"
	LabelMechanism   = "INTEGRATED MECHANISM"
	LabelConstraints = "COMPOUNDING CONSTRAINTS"
	LabelNarrative   = "NARRATIVE POTENTIAL"
)

// Labels lists every recognised section label
var Labels = []string{LabelName, LabelBody, LabelMechanism, LabelConstraints, LabelNarrative}

// DefaultName is used when the reply has no NAME section
const DefaultName = "Unknown Hybrid"

// Result is the structured form of a synthesis reply
type Result struct {
	Name        string `json:"name"`
	Body        string `json:"body"`
	Mechanism   string `json:"mechanism"`
	Constraints string `json:"constraints"`
	Narrative   string `json:"narrative"`
	Raw         string `json:"raw"`
}

// Parse scans text line by line. A line starting with a label and a colon
// opens that section (a repeated label starts it over); following non-blank
// lines are appended with a single space until the next label. Text before
// the first label is dropped. Parse never fails.
func Parse(text string) Result {
	sections := make(map[string]string, len(Labels))
	current := ""

	for _, line := range strings.Split(text, "\n") {
		if label, rest, ok := matchLabel(line); ok {
			current = label
			sections[label] = rest
			continue
		}
		if current == "" {
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			sections[current] += " " + trimmed
		}
	}

	name := sections[LabelName]
	if name == "" {
		name = DefaultName
	}

	return Result{
		Name:        name,
		Body:        sections[LabelBody],
		Mechanism:   sections[LabelMechanism],
		Constraints: sections[LabelConstraints],
		Narrative:   sections[LabelNarrative],
		Raw:         text,
	}
}

// matchLabel reports whether line opens a section and returns the content
// after the colon with leading whitespace removed.
func matchLabel(line string) (label, rest string, ok bool) {
	for _, l := range Labels {
		after, found := strings.CutPrefix(line, l+":")
		if !found {
			continue
		}
		after = strings.TrimSuffix(after, "\r")
		return l, strings.TrimLeft(after, " \t\f\v"), true
	}
	return "", "", false
}
