// Package parser builds the typed message tree of package ast from message
// markup.
//
// Parsing is strict: every tag, attribute set and child shape must match a
// rule for one of the ast variants, and every node is checked to render back
// to exactly the markup it was built from. The first failure aborts the parse
// with an *element.ParseError.
package parser

import (
	"strings"

	a "golang.org/x/net/html/atom"

	"github.com/dpotapov/go-msgcontent/ast"
	"github.com/dpotapov/go-msgcontent/element"
)

// Parse builds the tree of a message from its rendered content.
func Parse(content string) (*ast.Body, error) {
	body, err := Tree(content)
	if err != nil {
		return nil, err
	}
	return Build(body)
}

// Tree runs the HTML5 tree builder over content wrapped in <body> and returns
// the body tag. The document must consist of an empty head and the body.
func Tree(content string) (*element.Tag, error) {
	root, err := element.Parse(strings.NewReader("<body>" + content + "</body>"))
	if err != nil {
		return nil, err
	}
	if err := root.Restrict("html"); err != nil {
		return nil, err
	}
	head, body, err := root.TwoChildren("head", "body")
	if err != nil {
		return nil, err
	}
	if len(head.Attr) != 0 || len(head.Children) != 0 {
		return nil, element.Errorf(element.ErrBadChildShape, head, "content leaked into <head>")
	}
	return body, nil
}

// Build validates a <body> tag and builds its tree.
func Build(body *element.Tag) (*ast.Body, error) {
	if body.Name != "body" {
		return nil, element.Errorf(element.ErrBadChildShape, body, "expected <body>, got <%s>", body.Name)
	}
	n, err := buildBody(body)
	return verify(body, n, err)
}

// build turns one element into a node and checks that the node renders back
// to the element's markup.
func build(e element.Element) (ast.Node, error) {
	n, err := dispatch(e)
	return verify(e, n, err)
}

func verify[N ast.Node](e element.Element, n N, err error) (N, error) {
	var zero N
	if err != nil {
		return zero, err
	}
	if got, want := n.HTML(), e.HTML(); got != want {
		t, ok := e.(*element.Tag)
		if !ok {
			t = e.Parent()
		}
		return zero, element.RoundTripError(t, string(want), string(got))
	}
	return n, nil
}

func dispatch(e element.Element) (ast.Node, error) {
	t, ok := e.(*element.Tag)
	if !ok {
		return &ast.Text{Value: e.(*element.Text).Data}, nil
	}
	if n, ok, err := buildPhrasing(t); ok || err != nil {
		return n, err
	}
	return buildBlock(t)
}

func buildPhrasing(t *element.Tag) (ast.Phrasing, bool, error) {
	var (
		n   ast.Phrasing
		err error
	)
	switch a.Lookup([]byte(t.Name)) {
	case a.Code, a.Del, a.Em, a.Strong:
		n, err = buildFormatting(t)
	case a.Time:
		n, err = buildTime(t)
	case a.A:
		n, err = buildLink(t)
	case a.Img:
		n, err = buildImg(t)
	case a.Br:
		n, err = &ast.Break{}, vanilla(t, false)
	case a.Span:
		n, err = buildSpan(t)
	default:
		return nil, false, nil
	}
	return n, true, err
}

func buildBlock(t *element.Tag) (ast.Node, error) {
	switch a.Lookup([]byte(t.Name)) {
	case a.H1, a.H2, a.H3, a.H4, a.H5, a.H6:
		return buildHeading(t)
	case a.P:
		return buildParagraph(t)
	case a.Blockquote:
		return buildBlockQuote(t)
	case a.Ol:
		return buildOrderedList(t)
	case a.Ul:
		return buildUnorderedList(t)
	case a.Table:
		return buildTable(t)
	case a.Div:
		return buildDiv(t)
	case a.Hr:
		return &ast.ThematicBreak{}, vanilla(t, false)
	}
	return nil, element.Errorf(element.ErrUnsupportedTag, t, "unexpected tag <%s>", t.Name)
}

// vanilla checks that t has no attributes and, unless children is set, no
// children.
func vanilla(t *element.Tag, children bool) error {
	if err := t.RestrictAttributes(); err != nil {
		return err
	}
	if !children {
		return t.ForbidChildren()
	}
	return nil
}

// nodes builds every child of t, newline text runs included.
func nodes(t *element.Tag) ([]ast.Node, error) {
	res := make([]ast.Node, 0, len(t.Children))
	for _, c := range t.Children {
		n, err := child(t, c)
		if err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, nil
}

// child builds c, which must become a phrasing or block node. Container
// parts such as list items and table rows are only built by their parents.
func child(parent *element.Tag, c element.Element) (ast.Node, error) {
	n, err := build(c)
	if err != nil {
		return nil, err
	}
	switch n.(type) {
	case ast.Phrasing, ast.Block:
		return n, nil
	}
	t, ok := c.(*element.Tag)
	if !ok {
		t = parent
	}
	return nil, element.Errorf(element.ErrUnsupportedTag, t, "<%s> is not allowed inside <%s>", t.Name, parent.Name)
}

// phrasing builds the children of t, all of which must be phrasing nodes.
func phrasing(t *element.Tag) ([]ast.Phrasing, error) {
	res := make([]ast.Phrasing, 0, len(t.Children))
	for _, c := range t.Children {
		n, err := child(t, c)
		if err != nil {
			return nil, err
		}
		p, ok := n.(ast.Phrasing)
		if !ok {
			return nil, element.Errorf(element.ErrBadChildShape, c.(*element.Tag), "<%s> is not allowed inside <%s>", c.(*element.Tag).Name, t.Name)
		}
		res = append(res, p)
	}
	return res, nil
}

// each builds every tag of ts with fn and checks the nodes against their
// markup.
func each[N ast.Node](ts []*element.Tag, fn func(*element.Tag) (N, error)) ([]N, error) {
	res := make([]N, 0, len(ts))
	for _, t := range ts {
		n, err := fn(t)
		if n, err = verify(t, n, err); err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, nil
}
