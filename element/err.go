package element

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ErrIllegalMessage is the root of every validation failure. A fragment that
// fails with it is not valid message markup.
var ErrIllegalMessage = errors.New("illegal message")

type kindError struct {
	name string
}

func (k *kindError) Error() string { return k.name }
func (k *kindError) Unwrap() error { return ErrIllegalMessage }

// Error kinds. Each wraps ErrIllegalMessage.
var (
	// ErrUnsupportedTag is returned for a tag/class combination with no rule.
	ErrUnsupportedTag error = &kindError{"unsupported tag"}
	// ErrUnexpectedAttributes is returned when the attribute set is not a
	// subset of the allowed set or a required attribute is missing.
	ErrUnexpectedAttributes error = &kindError{"unexpected attributes"}
	// ErrBadAttributeValue is returned for a present attribute whose value
	// fails a check.
	ErrBadAttributeValue error = &kindError{"bad attribute value"}
	// ErrBadChildShape is returned for a wrong child count, a wrong child tag
	// or non-newline text where only pretty-printing whitespace is allowed.
	ErrBadChildShape error = &kindError{"bad child shape"}
	// ErrRoundTripMismatch is returned when a built node does not render back
	// to the markup it was built from.
	ErrRoundTripMismatch error = &kindError{"round trip mismatch"}
)

// ParseError describes why a fragment was rejected.
type ParseError struct {
	// Kind is one of the Err* kind values above.
	Kind error
	// Path locates the offending element, see Tag.Path.
	Path string
	// Msg names the expectation that failed.
	Msg string
	// Expected and Actual are set for ErrRoundTripMismatch: the source markup
	// and the markup rendered from the built node.
	Expected, Actual string

	el *Tag
}

// Errorf returns a ParseError of the given kind located at t.
func Errorf(kind error, t *Tag, format string, args ...any) *ParseError {
	e := &ParseError{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
		el:   t,
	}
	if t != nil {
		e.Path = t.Path()
	}
	return e
}

// RoundTripError returns an ErrRoundTripMismatch error for t.
func RoundTripError(t *Tag, expected, actual string) *ParseError {
	e := Errorf(ErrRoundTripMismatch, t, "%s does not round trip", t.Name)
	e.Expected = expected
	e.Actual = actual
	return e
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Kind == ErrRoundTripMismatch {
		fmt.Fprintf(&b, "\nexpected: %q\n  actual: %q", e.Expected, e.Actual)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// Element returns the offending tag, if known.
func (e *ParseError) Element() *Tag {
	return e.el
}

// HTMLContext renders the offending tag together with up to two siblings on
// each side, inside a copy of its parent's start tag. Descendants of the
// siblings are elided.
func (e *ParseError) HTMLContext() string {
	if e.el == nil {
		return ""
	}
	doc := etree.NewDocument()
	ctx := buildErrorContext(e.el)
	doc.AddChild(ctx)
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// errorContextBuilder organizes helper functions for building error context trees.
type errorContextBuilder struct{}

func (b errorContextBuilder) siblings(e Element, step int) []Element {
	p := e.Parent()
	if p == nil {
		return nil
	}
	var res []Element
	for j := index(e) + step; j >= 0 && j < len(p.Children); j += step {
		c := p.Children[j]
		// skip whitespace-only text
		if txt, ok := c.(*Text); ok && strings.TrimSpace(txt.Data) == "" {
			continue
		}
		if len(res) == 2 {
			res = append(res, nil)
			break
		}
		res = append(res, c)
	}
	return res
}

func (b errorContextBuilder) addElement(dst *etree.Element, e Element) {
	switch el := e.(type) {
	case nil:
		dst.AddChild(etree.NewText("..."))
	case *Tag:
		clone := b.clone(el)
		if hasTagChildren(el) {
			clone.AddChild(etree.NewText("..."))
		} else if text := el.TextContent(); text != "" {
			clone.SetText(text)
		}
		dst.AddChild(clone)
	case *Text:
		dst.AddChild(etree.NewText(el.Data))
	}
}

func (b errorContextBuilder) clone(t *Tag) *etree.Element {
	c := etree.NewElement(t.Name)
	for _, a := range t.Attr {
		c.CreateAttr(a.Name(), a.Val)
	}
	return c
}

// buildErrorContext creates an XML tree around t to give context for an error.
func buildErrorContext(t *Tag) *etree.Element {
	b := errorContextBuilder{}

	var wrapper *etree.Element
	if p := t.Parent(); p != nil {
		wrapper = b.clone(p)
	} else {
		wrapper = etree.NewElement("context")
	}

	prev := b.siblings(t, -1)
	for i := len(prev) - 1; i >= 0; i-- {
		b.addElement(wrapper, prev[i])
	}
	b.addElement(wrapper, t)
	for _, next := range b.siblings(t, 1) {
		b.addElement(wrapper, next)
	}

	if t.Parent() == nil {
		// do not wrap the root element
		if c := wrapper.ChildElements(); len(c) == 1 {
			wrapper.RemoveChild(c[0])
			return c[0]
		}
	}
	return wrapper
}

func hasTagChildren(t *Tag) bool {
	for _, c := range t.Children {
		if _, ok := c.(*Tag); ok {
			return true
		}
	}
	return false
}
