package markdown

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// TextProcessor renders review text as a small markdown subset: paragraphs,
// emphasis, code spans and strikethrough. Everything else stays literal text.
type TextProcessor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *TextProcessor {
	p := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
	)

	md := goldmark.New(
		goldmark.WithParser(p),
		goldmark.WithRendererOptions(html.WithHardWraps()),
		goldmark.WithExtensions(extension.Strikethrough),
	)

	policy := bluemonday.NewPolicy()
	policy.AllowElements("p", "br", "em", "strong", "del", "code")

	return &TextProcessor{md: md, policy: policy}
}

// Render converts text to sanitised HTML safe to embed in a template.
func (tp *TextProcessor) Render(text string) template.HTML {
	rendered, err := tp.renderText(text)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(tp.sanitizeText(rendered))
}

func (tp *TextProcessor) renderText(text string) (string, error) {
	var buf bytes.Buffer
	if err := tp.md.Convert([]byte(text), &buf); err != nil {
		return text, err
	}
	return strings.TrimSpace(buf.String()), nil
}

func (tp *TextProcessor) sanitizeText(text string) string {
	return tp.policy.Sanitize(text)
}
