package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dpotapov/go-msgcontent/markup"
)

// UserMention mentions a single user. Name is the displayed text, which
// carries a leading "@" for loud mentions.
type UserMention struct {
	Name   string
	UserID int
	Silent bool
}

func (n *UserMention) Text() string {
	return fmt.Sprintf("[ %s%s %d ]", silentMarker(n.Silent), n.Name, n.UserID)
}

func (n *UserMention) HTML() markup.HTML {
	return markup.BuildTag("span", markup.EscapeText(n.Name),
		markup.A("class", mentionClass("user-mention", n.Silent)),
		markup.A("data_user_id", strconv.Itoa(n.UserID)),
	)
}

func (n *UserMention) IsSilent() bool { return n.Silent }

// UserGroupMention mentions a user group.
type UserGroupMention struct {
	Name    string
	GroupID int
	Silent  bool
}

func (n *UserGroupMention) Text() string {
	return fmt.Sprintf("[ GROUP %s%s %d ]", silentMarker(n.Silent), n.Name, n.GroupID)
}

func (n *UserGroupMention) HTML() markup.HTML {
	return markup.BuildTag("span", markup.EscapeText(n.Name),
		markup.A("class", mentionClass("user-group-mention", n.Silent)),
		markup.A("data_user_group_id", strconv.Itoa(n.GroupID)),
	)
}

func (n *UserGroupMention) IsSilent() bool { return n.Silent }

// Channel wildcard tokens.
const (
	WildcardAll      = "all"
	WildcardChannel  = "channel"
	WildcardEveryone = "everyone"
)

// ChannelWildcardMention mentions everybody subscribed to the stream.
// Wildcard is one of the Wildcard* tokens.
type ChannelWildcardMention struct {
	Wildcard string
	Silent   bool
}

// Name returns the displayed text: "@all" for a loud mention, "all" for a
// silent one.
func (n *ChannelWildcardMention) Name() string {
	if n.Silent {
		return n.Wildcard
	}
	return "@" + n.Wildcard
}

func (n *ChannelWildcardMention) Text() string {
	return fmt.Sprintf("[ WILDCARD %s%s ]", silentMarker(n.Silent), n.Name())
}

func (n *ChannelWildcardMention) HTML() markup.HTML {
	return markup.BuildTag("span", markup.EscapeText(n.Name()),
		markup.A("class", mentionClass("user-mention channel-wildcard-mention", n.Silent)),
		markup.A("data_user_id", "*"),
	)
}

func (n *ChannelWildcardMention) IsSilent() bool { return n.Silent }

// TopicMention mentions everybody participating in the topic.
type TopicMention struct {
	Silent bool
}

// Name returns the displayed text.
func (n *TopicMention) Name() string {
	if n.Silent {
		return "topic"
	}
	return "@topic"
}

func (n *TopicMention) Text() string {
	return fmt.Sprintf("[ WILDCARD %s%s ]", silentMarker(n.Silent), n.Name())
}

func (n *TopicMention) HTML() markup.HTML {
	return markup.BuildTag("span", markup.EscapeText(n.Name()),
		markup.A("class", mentionClass("topic-mention", n.Silent)),
	)
}

func (n *TopicMention) IsSilent() bool { return n.Silent }

func mentionClass(class string, silent bool) string {
	if silent {
		return class + " silent"
	}
	return class
}

func silentMarker(silent bool) string {
	if silent {
		return "_"
	}
	return ""
}

// EmojiImage is a custom (realm) emoji rendered as an image.
type EmojiImage struct {
	Src   string
	Title string
}

func (n *EmojiImage) Text() string { return EmojiCode(n.Title) }

func (n *EmojiImage) HTML() markup.HTML {
	return markup.BuildTag("img", "",
		markup.A("alt", EmojiCode(n.Title)),
		markup.A("class", "emoji"),
		markup.A("src", n.Src),
		markup.A("title", n.Title),
	)
}

// EmojiSpan is a Unicode emoji. CodePoints lists the code points of the
// emoji sequence in order.
type EmojiSpan struct {
	CodePoints []rune
	Title      string
}

// Text renders the emoji followed by its colon code, e.g. "👍 (:thumbs_up:)".
func (n *EmojiSpan) Text() string {
	return string(n.CodePoints) + " (" + EmojiCode(n.Title) + ")"
}

func (n *EmojiSpan) HTML() markup.HTML {
	return markup.BuildTag("span", markup.EscapeText(EmojiCode(n.Title)),
		markup.A("aria_label", n.Title),
		markup.A("class", "emoji "+n.Class()),
		markup.A("role", "img"),
		markup.A("title", n.Title),
	)
}

// Class returns the per-emoji class, e.g. "emoji-1f468-200d-1f4bb": the code
// points in lower-case hex, zero-padded to four digits and hyphen-joined.
func (n *EmojiSpan) Class() string {
	parts := make([]string, len(n.CodePoints))
	for i, r := range n.CodePoints {
		parts[i] = fmt.Sprintf("%04x", r)
	}
	return "emoji-" + strings.Join(parts, "-")
}

// EmojiCode returns the colon code of an emoji title: "thumbs up" becomes
// ":thumbs_up:".
func EmojiCode(title string) string {
	return ":" + strings.ReplaceAll(title, " ", "_") + ":"
}

// Katex is math typeset by KaTeX on the server. Its markup is trusted and
// echoed verbatim. TeX holds the source recovered from the KaTeX annotation,
// when there is one.
type Katex struct {
	Raw     markup.HTML
	Display bool
	TeX     string
}

func (n *Katex) Text() string {
	switch {
	case n.TeX == "":
		return fmt.Sprintf("<<<some katex html (not shown) with %s class>>>", n.Class())
	case n.Display:
		return "$$" + n.TeX + "$$"
	default:
		return "$" + n.TeX + "$"
	}
}

func (n *Katex) HTML() markup.HTML { return n.Raw }

// Class returns the class of the KaTeX span.
func (n *Katex) Class() string {
	if n.Display {
		return "katex-display"
	}
	return "katex"
}

// TexError is math the server failed to typeset; Value is the raw source.
type TexError struct {
	Value string
}

func (n *TexError) Text() string { return n.Value }

func (n *TexError) HTML() markup.HTML {
	return markup.BuildTag("span", markup.EscapeText(n.Value), markup.A("class", "tex-error"))
}

// TimestampError is a time widget the server could not parse.
type TimestampError struct {
	Value string
}

func (n *TimestampError) Text() string { return n.Value }

func (n *TimestampError) HTML() markup.HTML {
	return markup.BuildTag("span", markup.EscapeText(n.Value), markup.A("class", "timestamp-error"))
}

func (n *UserMention) node()            {}
func (n *UserGroupMention) node()       {}
func (n *ChannelWildcardMention) node() {}
func (n *TopicMention) node()           {}
func (n *EmojiImage) node()             {}
func (n *EmojiSpan) node()              {}
func (n *Katex) node()                  {}
func (n *TexError) node()               {}
func (n *TimestampError) node()         {}

func (n *UserMention) phrasing()            {}
func (n *UserGroupMention) phrasing()       {}
func (n *ChannelWildcardMention) phrasing() {}
func (n *TopicMention) phrasing()           {}
func (n *EmojiImage) phrasing()             {}
func (n *EmojiSpan) phrasing()              {}
func (n *Katex) phrasing()                  {}
func (n *TexError) phrasing()               {}
func (n *TimestampError) phrasing()         {}
