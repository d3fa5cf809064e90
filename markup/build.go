package markup

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// Attr is a single attribute passed to BuildTag. The zero value of Present
// marks the attribute as absent: it is skipped when the tag is rendered.
type Attr struct {
	Key     string
	Val     string
	Present bool
}

// A returns a present attribute.
func A(key, val string) Attr {
	return Attr{Key: key, Val: val, Present: true}
}

// Opt returns an attribute that is absent when val is nil.
func Opt(key string, val *string) Attr {
	if val == nil {
		return Attr{Key: key}
	}
	return A(key, *val)
}

// If returns an attribute that is present only when cond holds.
func If(cond bool, key, val string) Attr {
	if !cond {
		return Attr{Key: key}
	}
	return A(key, val)
}

// voidElements lists the HTML elements that never have content. They are the
// only elements rendered in the self-closing form: an HTML5 tree builder
// ignores "/>" on any other element.
var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Keygen: true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// IsVoid reports whether tag is an HTML void element.
func IsVoid(tag string) bool {
	return voidElements[atom.Lookup([]byte(tag))]
}

// BuildTag renders <tag attr="val" ...>inner</tag>. With empty inner content
// a void element collapses to <tag attr="val" .../>. Absent attributes are
// omitted. Underscores in attribute names are rendered as hyphens and a
// trailing underscore is dropped, so "data_user_id" becomes "data-user-id".
func BuildTag(tag string, inner HTML, attrs ...Attr) HTML {
	return buildTag(tag, inner, attrs, attrName)
}

// RawTag is like BuildTag but keeps attribute names verbatim. It is used to
// serialize trees that came out of an HTML parser.
func RawTag(tag string, inner HTML, attrs ...Attr) HTML {
	return buildTag(tag, inner, attrs, nil)
}

func buildTag(tag string, inner HTML, attrs []Attr, rename func(string) string) HTML {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)
	for _, a := range attrs {
		if !a.Present {
			continue
		}
		key := a.Key
		if rename != nil {
			key = rename(key)
		}
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(string(EscapeAttr(a.Val)))
		b.WriteByte('"')
	}
	if inner == "" && IsVoid(tag) {
		b.WriteString("/>")
		return HTML(b.String())
	}
	b.WriteByte('>')
	b.WriteString(string(inner))
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
	return HTML(b.String())
}

func attrName(key string) string {
	return strings.ReplaceAll(strings.TrimRight(key, "_"), "_", "-")
}

// Combine concatenates already rendered fragments.
func Combine(items ...HTML) HTML {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(string(it))
	}
	return HTML(b.String())
}

// BlockJoin joins block-level fragments the way the upstream renderer
// pretty-prints block containers: a newline before each item and one after
// the last. An empty list renders as a single newline.
func BlockJoin(items ...HTML) HTML {
	if len(items) == 0 {
		return "\n"
	}
	var b strings.Builder
	for _, it := range items {
		b.WriteByte('\n')
		b.WriteString(string(it))
	}
	b.WriteByte('\n')
	return HTML(b.String())
}

// LineJoin joins fragments with a newline between neighbours only.
func LineJoin(items ...HTML) HTML {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(it))
	}
	return HTML(b.String())
}
