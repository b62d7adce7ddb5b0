// Package markdown renders research answers to HTML. Every panel that shows markdown shares one
// Renderer, so headings, tables, links and code look the same everywhere.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	chromahtml "github.com/alecthomas/chroma/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Rule is the presentation applied to one kind of markdown element.
type Rule struct {
	// Class is set as the element's class attribute when not empty.
	Class string
	// Attributes are added to the element verbatim.
	Attributes map[string]string
}

// Styles maps markdown element kinds to their presentation.
type Styles map[ast.NodeKind]Rule

// newTabLink opens links in a new browsing context without leaking the referrer.
var newTabLink = map[string]string{
	"target": "_blank",
	"rel":    "noopener noreferrer",
}

// DefaultStyles is the presentation used by the research panels.
var DefaultStyles = Styles{
	ast.KindHeading:        {Class: "md-heading"},
	ast.KindParagraph:      {Class: "md-paragraph"},
	ast.KindList:           {Class: "md-list"},
	ast.KindListItem:       {Class: "md-list-item"},
	ast.KindBlockquote:     {Class: "md-quote"},
	ast.KindThematicBreak:  {Class: "md-rule"},
	ast.KindEmphasis:       {Class: "md-emphasis"},
	ast.KindCodeSpan:       {Class: "md-code-inline"},
	ast.KindLink:           {Class: "md-link", Attributes: newTabLink},
	ast.KindAutoLink:       {Class: "md-link", Attributes: newTabLink},
	east.KindTable:         {Class: "md-table"},
	east.KindTableHeader:   {Class: "md-table-head"},
	east.KindTableRow:      {Class: "md-table-row"},
	east.KindTableCell:     {Class: "md-table-cell"},
	east.KindStrikethrough: {Class: "md-strike"},
}

// Renderer converts markdown source to sanitized HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer applying the given styles. GitHub flavored extensions (tables,
// strikethrough, autolinks, task lists) are enabled, fenced code blocks are syntax highlighted and
// raw HTML in the source is dropped.
func NewRenderer(styles Styles) Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					chromahtml.TabWidth(4),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(styleTransformer{styles: styles}, 100),
			),
		),
	)
	return Renderer{md: md}
}

// Render converts source to HTML.
func (r Renderer) Render(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	// Raw HTML is omitted by goldmark unless the unsafe option is set.
	return template.HTML(buf.String()), nil
}

type styleTransformer struct {
	styles Styles
}

func (s styleTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		rule, ok := s.styles[n.Kind()]
		if !ok {
			return ast.WalkContinue, nil
		}
		if rule.Class != "" {
			n.SetAttributeString("class", []byte(rule.Class))
		}
		for name, value := range rule.Attributes {
			n.SetAttributeString(name, []byte(value))
		}
		return ast.WalkContinue, nil
	})
}
