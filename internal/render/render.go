package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pbaille/biomixer/internal/domain"
	"github.com/pbaille/biomixer/internal/parser"
)

// Text rebuilds the labelled plain-text form of a record, as copied to the
// clipboard.
func Text(rec domain.SynthesisRecord) string {
	var sb strings.Builder
	sb.WriteString(rec.Name)
	for _, s := range sections(rec) {
		sb.WriteString("\n\n")
		sb.WriteString(s.label)
		sb.WriteString(":\n")
		sb.WriteString(s.text)
	}
	return sb.String()
}

type section struct {
	label string
	text  string
}

func sections(rec domain.SynthesisRecord) []section {
	return []section{
		{parser.LabelBody, rec.Body},
		{parser.LabelMechanism, rec.Mechanism},
		{parser.LabelConstraints, rec.Constraints},
		{parser.LabelNarrative, rec.Narrative},
	}
}

// HTML writes a standalone page describing rec
func HTML(w io.Writer, rec domain.SynthesisRecord) error {
	body := element(atom.Body, "")
	body.AppendChild(element(atom.H1, rec.Name))

	meta := element(atom.P, fmt.Sprintf("%s · %s", rec.Model, rec.Timestamp.Format("2006-01-02 15:04")))
	meta.Attr = append(meta.Attr, html.Attribute{Key: "class", Val: "meta"})
	body.AppendChild(meta)

	ingredients := element(atom.Ul, "")
	for _, m := range rec.Mechanisms {
		li := element(atom.Li, fmt.Sprintf("%s %s (%s)", m.Icon, m.Name, m.Mech))
		li.Attr = append(li.Attr, html.Attribute{Key: "data-category", Val: string(m.Category)})
		ingredients.AppendChild(li)
	}
	body.AppendChild(ingredients)

	for _, s := range sections(rec) {
		body.AppendChild(element(atom.H2, titleCase(s.label)))
		body.AppendChild(element(atom.P, s.text))
	}

	head := element(atom.Head, "")
	charset := element(atom.Meta, "")
	charset.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(charset)
	head.AppendChild(element(atom.Title, rec.Name))

	root := element(atom.Html, "")
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	return html.Render(w, doc)
}

func element(a atom.Atom, text string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}

func titleCase(label string) string {
	words := strings.Fields(strings.ToLower(label))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
