// Package ast defines the typed document tree of a message.
//
// The catalog is closed: every variant is declared in this package and
// implements Node together with exactly one of Phrasing or Block (list items,
// table parts and spoiler parts are Nodes that only appear inside their
// container). Nodes are immutable values; Text and HTML are pure and may be
// called any number of times.
package ast

import (
	"strings"

	"github.com/dpotapov/go-msgcontent/markup"
)

// Node is any element of a message tree.
type Node interface {
	// Text renders the node as plain text. It never fails.
	Text() string
	// HTML renders the node as canonical markup. For a node built from markup
	// the result equals that markup byte for byte.
	HTML() markup.HTML

	node()
}

// Phrasing is a node allowed inline in running text: inside paragraphs,
// headings, links and emphasis.
type Phrasing interface {
	Node
	phrasing()
}

// Block is a structural node: it appears only in the body, list items, block
// quotes, spoilers and table cells.
type Block interface {
	Node
	block()
}

// Mention is implemented by every mention variant.
type Mention interface {
	Phrasing
	// IsSilent reports whether the mention does not notify anyone.
	IsSilent() bool
}

func childrenText[N Node](children []N, sep string) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = c.Text()
	}
	return strings.Join(parts, sep)
}

func childrenHTML[N Node](children []N) []markup.HTML {
	res := make([]markup.HTML, len(children))
	for i, c := range children {
		res[i] = c.HTML()
	}
	return res
}

func combined[N Node](children []N) markup.HTML {
	return markup.Combine(childrenHTML(children)...)
}

// Walk calls fn for n and every node below it in document order. Returning
// false from fn skips the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Children returns the direct children of n.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Body:
		return n.Children
	case *Paragraph:
		return asNodes(n.Children)
	case *Heading:
		return asNodes(n.Children)
	case *BlockQuote:
		return n.Children
	case *OrderedList:
		return asNodes(n.Items)
	case *UnorderedList:
		return asNodes(n.Items)
	case *ListItem:
		return n.Children
	case *Code:
		return asNodes(n.Children)
	case *Emphasis:
		return asNodes(n.Children)
	case *Strong:
		return asNodes(n.Children)
	case *Delete:
		return asNodes(n.Children)
	case *Anchor:
		return asNodes(n.Children)
	case *MessageLink:
		return asNodes(n.Children)
	case *StreamLink:
		return asNodes(n.Children)
	case *StreamTopicLink:
		return asNodes(n.Children)
	case *Table:
		return []Node{n.Head, n.Body}
	case *THead:
		return []Node{n.Row}
	case *TBody:
		return asNodes(n.Rows)
	case *Tr:
		return asNodes(n.Cells)
	case *Th:
		return n.Children
	case *Td:
		return n.Children
	case *Spoiler:
		return []Node{n.Header, n.Content}
	case *SpoilerHeader:
		return n.Children
	case *SpoilerContent:
		return n.Children
	}
	return nil
}

func asNodes[N Node](children []N) []Node {
	res := make([]Node, len(children))
	for i, c := range children {
		res[i] = c
	}
	return res
}
