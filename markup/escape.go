// Package markup builds canonical HTML text for message content.
//
// The escaping rules here must match the upstream renderer byte for byte,
// otherwise every round-trip check downstream fails.
package markup

import (
	"strconv"
	"strings"
)

// HTML is a piece of markup that is either trusted or already escaped.
// Never convert untrusted text to HTML directly; use EscapeText.
type HTML string

func (h HTML) String() string { return string(h) }

// EscapeText escapes s for use as element content. '&' is replaced first, then
// every code point above ASCII becomes a decimal character reference, then '<'
// and '>' are replaced.
func EscapeText(s string) HTML {
	return HTML(escape(s, false))
}

// EscapeAttr is like EscapeText but also replaces '"', for use inside a
// double-quoted attribute value.
func EscapeAttr(s string) HTML {
	return HTML(escape(s, true))
}

func escape(s string, attr bool) string {
	if !needsEscape(s, attr) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 16)

	// The passes are applied in a fixed order. None of the replacements
	// introduces a character that a later pass would touch again.
	s = strings.ReplaceAll(s, "&", "&amp;")
	for _, r := range s {
		if r > 0x7f {
			b.WriteString("&#")
			b.WriteString(strconv.Itoa(int(r)))
			b.WriteByte(';')
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	if attr {
		s = strings.ReplaceAll(s, `"`, "&quot;")
	}
	return s
}

func needsEscape(s string, attr bool) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '&', c == '<', c == '>', c >= 0x80:
			return true
		case c == '"' && attr:
			return true
		}
	}
	return false
}
