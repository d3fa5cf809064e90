package element

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dpotapov/go-msgcontent/markup"
)

// Parse runs the HTML5 tree builder over r and returns the root <html> tag.
// The input is assumed to be UTF-8 encoded.
func Parse(r io.Reader) (*Tag, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var root *html.Node
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			if root != nil {
				return nil, &ParseError{Kind: ErrBadChildShape, Path: "#document", Msg: "more than one root element"}
			}
			root = c
		case html.DoctypeNode:
			return nil, &ParseError{Kind: ErrUnsupportedTag, Path: "#document", Msg: "unexpected doctype"}
		case html.CommentNode:
			return nil, &ParseError{Kind: ErrUnsupportedTag, Path: "#document", Msg: "unexpected comment"}
		}
	}
	if root == nil {
		return nil, &ParseError{Kind: ErrBadChildShape, Path: "#document", Msg: "no root element"}
	}

	return FromNode(root)
}

// FromNode converts an element node produced by golang.org/x/net/html into a
// Tag tree. Comments and other non-element, non-text nodes are rejected since
// no message markup contains them.
func FromNode(n *html.Node) (*Tag, error) {
	if n.Type != html.ElementNode {
		return nil, &ParseError{Kind: ErrUnsupportedTag, Path: n.Data, Msg: fmt.Sprintf("node type %d is not an element", n.Type)}
	}
	return convert(n, nil)
}

func convert(n *html.Node, parent *Tag) (*Tag, error) {
	t := &Tag{
		Name:      n.Data,
		Namespace: n.Namespace,
		Attr:      make([]Attribute, 0, len(n.Attr)),
		parent:    parent,
	}
	for _, a := range n.Attr {
		t.Attr = append(t.Attr, Attribute{Namespace: a.Namespace, Key: a.Key, Val: validUTF8(a.Val)})
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if last, ok := lastText(t); ok {
				last.Data += validUTF8(c.Data)
				continue
			}
			t.Children = append(t.Children, &Text{Data: validUTF8(c.Data), parent: t})
		case html.ElementNode:
			ct, err := convert(c, t)
			if err != nil {
				return nil, err
			}
			t.Children = append(t.Children, ct)
		case html.CommentNode:
			return nil, Errorf(ErrUnsupportedTag, t, "unexpected comment %q", c.Data)
		default:
			return nil, Errorf(ErrUnsupportedTag, t, "unexpected node type %d", c.Type)
		}
	}

	t.html = serialize(t)
	return t, nil
}

// validUTF8 replaces invalid byte sequences with U+FFFD, as they would read
// back after escaping.
func validUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

func lastText(t *Tag) (*Text, bool) {
	if len(t.Children) == 0 {
		return nil, false
	}
	txt, ok := t.Children[len(t.Children)-1].(*Text)
	return txt, ok
}

// serialize renders t canonically: attributes in source order, escaped with
// markup.EscapeAttr, text escaped with markup.EscapeText.
func serialize(t *Tag) markup.HTML {
	inner := make([]markup.HTML, len(t.Children))
	for i, c := range t.Children {
		inner[i] = c.HTML()
	}
	attrs := make([]markup.Attr, len(t.Attr))
	for i, a := range t.Attr {
		attrs[i] = markup.A(a.Name(), a.Val)
	}
	return markup.RawTag(t.Name, markup.Combine(inner...), attrs...)
}
