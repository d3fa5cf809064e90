// Package msgcontent renders chat message content.
//
// Message content arrives as HTML produced by the server's markdown
// renderer. Render turns it into plain text or canonical HTML through the
// strict tree of package ast; RenderOrFallback degrades to the bare text of
// the markup when the content does not parse. Handler exposes both over HTTP
// and a websocket live preview, and Check validates whole message corpora.
package msgcontent

import (
	"errors"
	"fmt"

	"github.com/dpotapov/go-msgcontent/ast"
	"github.com/dpotapov/go-msgcontent/element"
	"github.com/dpotapov/go-msgcontent/markup"
	"github.com/dpotapov/go-msgcontent/parser"
)

// Format selects the output of Render.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name. The empty string selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatText, nil
	case FormatText, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

func (f Format) render(body *ast.Body) string {
	if f == FormatHTML {
		return string(body.Content())
	}
	return body.Text()
}

// Render parses content and renders it in the given format. A parse error is
// returned as is; use errors.As with *element.ParseError to inspect it.
func Render(content string, format Format) (string, error) {
	body, err := parser.Parse(content)
	if err != nil {
		return "", err
	}
	return format.render(body), nil
}

// Rendering is the result of RenderOrFallback.
type Rendering struct {
	Text string
	HTML markup.HTML

	// Err is the parse error that forced the fallback, nil otherwise.
	Err error
	// Context is the markup around the element that failed, if known.
	Context string
}

// Fallback reports whether the rendering was produced without the tree.
func (r Rendering) Fallback() bool { return r.Err != nil }

// RenderOrFallback renders content through the tree. If the content does not
// parse, the text of the generic element tree is used instead, or the raw
// content when even the HTML tree cannot be built.
func RenderOrFallback(content string) Rendering {
	body, err := parser.Parse(content)
	if err == nil {
		return Rendering{Text: body.Text(), HTML: body.Content()}
	}

	r := Rendering{Err: err}
	var pe *element.ParseError
	if errors.As(err, &pe) {
		r.Context = pe.HTMLContext()
	}

	r.Text = content
	if tree, terr := parser.Tree(content); terr == nil {
		r.Text = tree.TextContent()
	}
	r.HTML = markup.BuildTag("div", markup.EscapeText(r.Text), markup.A("class", "unrenderable"))
	return r
}
