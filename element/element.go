// Package element holds the generic tag tree a message fragment is parsed
// into before it is typed, plus the structural assertions used to validate
// it. An Element tree is immutable once built and lives for one parse call.
package element

import (
	"strconv"
	"strings"

	"github.com/dpotapov/go-msgcontent/markup"
)

// Element is either a *Tag or a *Text.
type Element interface {
	// HTML returns the canonical serialization of the element.
	HTML() markup.HTML
	// Parent returns the enclosing tag, or nil for the root.
	Parent() *Tag

	element()
}

// Text is a literal text run. Adjacent runs are always merged.
type Text struct {
	Data string

	parent *Tag
}

func (t *Text) HTML() markup.HTML { return markup.EscapeText(t.Data) }
func (t *Text) Parent() *Tag      { return t.parent }
func (t *Text) element()          {}

// IsNewline reports whether e is a text run holding exactly one "\n", the
// separator the upstream renderer uses to pretty-print block containers.
func IsNewline(e Element) bool {
	t, ok := e.(*Text)
	return ok && t.Data == "\n"
}

// Attribute is a single attribute of a Tag. Namespace is set for foreign
// (SVG/MathML) attributes such as xlink:href.
type Attribute struct {
	Namespace string
	Key       string
	Val       string
}

// Name returns the qualified attribute name.
func (a Attribute) Name() string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Key
	}
	return a.Key
}

// Tag is an element node.
type Tag struct {
	// Name is the tag name as reported by the tree builder (lower case for
	// HTML elements).
	Name string

	// Namespace is "svg" or "math" for foreign content, empty otherwise.
	Namespace string

	// Attr holds the attributes in source order.
	Attr []Attribute

	// Children holds tags and text runs in document order.
	Children []Element

	html   markup.HTML
	parent *Tag
}

func (t *Tag) HTML() markup.HTML { return t.html }
func (t *Tag) Parent() *Tag      { return t.parent }
func (t *Tag) element()          {}

// Get returns the value of the attribute with the given name.
func (t *Tag) Get(key string) (string, bool) {
	for _, a := range t.Attr {
		if a.Name() == key {
			return a.Val, true
		}
	}
	return "", false
}

// Keys returns the attribute names in source order.
func (t *Tag) Keys() []string {
	keys := make([]string, len(t.Attr))
	for i, a := range t.Attr {
		keys[i] = a.Name()
	}
	return keys
}

// Path returns a slash-separated location of t inside its tree, e.g.
// "body/p[0]/span[2]". The index counts preceding siblings with the same name.
// Paths start at the enclosing <body> when there is one.
func (t *Tag) Path() string {
	var parts []string
	for n := t; n != nil; n = n.parent {
		if n.parent == nil || (n.Name == "body" && n.Namespace == "") {
			parts = append(parts, n.Name)
			break
		}
		parts = append(parts, n.Name+"["+strconv.Itoa(n.sameNameIndex())+"]")
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

func (t *Tag) sameNameIndex() int {
	i := 0
	for _, c := range t.parent.Children {
		if c == Element(t) {
			return i
		}
		if ct, ok := c.(*Tag); ok && ct.Name == t.Name {
			i++
		}
	}
	return i
}

// index returns the position of t among its parent's children.
func index(e Element) int {
	p := e.Parent()
	if p == nil {
		return -1
	}
	for i, c := range p.Children {
		if c == e {
			return i
		}
	}
	return -1
}

// TextContent concatenates the text of all descendants, ignoring markup.
func (t *Tag) TextContent() string {
	var b strings.Builder
	t.writeText(&b)
	return b.String()
}

func (t *Tag) writeText(b *strings.Builder) {
	for _, c := range t.Children {
		switch c := c.(type) {
		case *Text:
			b.WriteString(c.Data)
		case *Tag:
			c.writeText(b)
		}
	}
}

// Find returns the first descendant of t (depth first, document order) with
// the given name, or nil.
func (t *Tag) Find(name string) *Tag {
	for _, c := range t.Children {
		ct, ok := c.(*Tag)
		if !ok {
			continue
		}
		if ct.Name == name {
			return ct
		}
		if found := ct.Find(name); found != nil {
			return found
		}
	}
	return nil
}
