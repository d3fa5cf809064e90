package ast

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dpotapov/go-msgcontent/markup"
)

// Text is a literal text run.
type Text struct {
	Value string
}

func (n *Text) Text() string      { return n.Value }
func (n *Text) HTML() markup.HTML { return markup.EscapeText(n.Value) }

// Break is a <br>.
type Break struct{}

func (n *Break) Text() string      { return "\n" }
func (n *Break) HTML() markup.HTML { return markup.BuildTag("br", "") }

// Code is an inline <code> span.
type Code struct {
	Children []Phrasing
}

func (n *Code) Text() string      { return "`" + childrenText(n.Children, " ") + "`" }
func (n *Code) HTML() markup.HTML { return markup.BuildTag("code", combined(n.Children)) }

// Emphasis is <em>.
type Emphasis struct {
	Children []Phrasing
}

func (n *Emphasis) Text() string      { return "*" + childrenText(n.Children, " ") + "*" }
func (n *Emphasis) HTML() markup.HTML { return markup.BuildTag("em", combined(n.Children)) }

// Strong is <strong>.
type Strong struct {
	Children []Phrasing
}

func (n *Strong) Text() string      { return "**" + childrenText(n.Children, " ") + "**" }
func (n *Strong) HTML() markup.HTML { return markup.BuildTag("strong", combined(n.Children)) }

// Delete is <del>, i.e. strike-through.
type Delete struct {
	Children []Phrasing
}

func (n *Delete) Text() string      { return "~~" + childrenText(n.Children, " ") + "~~" }
func (n *Delete) HTML() markup.HTML { return markup.BuildTag("del", combined(n.Children)) }

// Anchor is a plain link. Href is nil for an <a> without href.
type Anchor struct {
	Href     *string
	Children []Phrasing
}

func (n *Anchor) Text() string {
	content := childrenText(n.Children, "")
	if n.Href == nil {
		return content
	}
	return "[" + content + "](" + *n.Href + ")"
}

func (n *Anchor) HTML() markup.HTML {
	return markup.BuildTag("a", combined(n.Children), markup.Opt("href", n.Href))
}

// MessageLink links to another message.
type MessageLink struct {
	Href     string
	Children []Phrasing
}

func (n *MessageLink) Text() string {
	return fmt.Sprintf("[%s (MESSAGE LINK: %s)]", childrenText(n.Children, " "), n.Href)
}

func (n *MessageLink) HTML() markup.HTML {
	return markup.BuildTag("a", combined(n.Children),
		markup.A("class", "message-link"),
		markup.A("href", n.Href),
	)
}

// StreamLink links to a stream (channel).
type StreamLink struct {
	Href     string
	StreamID int
	Children []Phrasing
}

func (n *StreamLink) Text() string {
	return fmt.Sprintf("[%s] (%s) (stream id %d)", childrenText(n.Children, " "), n.Href, n.StreamID)
}

func (n *StreamLink) HTML() markup.HTML {
	return streamLinkHTML("stream", n.Href, n.StreamID, n.Children)
}

// StreamTopicLink links to a topic within a stream.
type StreamTopicLink struct {
	Href     string
	StreamID int
	Children []Phrasing
}

func (n *StreamTopicLink) Text() string {
	return fmt.Sprintf("[%s] (%s) (stream id %d, topic)", childrenText(n.Children, " "), n.Href, n.StreamID)
}

func (n *StreamTopicLink) HTML() markup.HTML {
	return streamLinkHTML("stream-topic", n.Href, n.StreamID, n.Children)
}

func streamLinkHTML(class, href string, streamID int, children []Phrasing) markup.HTML {
	return markup.BuildTag("a", combined(children),
		markup.A("class", class),
		markup.A("data_stream_id", strconv.Itoa(streamID)),
		markup.A("href", href),
	)
}

// TimeWidget is a <time> element showing a timestamp in the reader's zone.
// Value is the fallback display text rendered by the server.
type TimeWidget struct {
	Datetime string
	Value    string
}

func (n *TimeWidget) Text() string { return n.Value }

func (n *TimeWidget) HTML() markup.HTML {
	return markup.BuildTag("time", markup.EscapeText(n.Value), markup.A("datetime", n.Datetime))
}

// Time parses Datetime as an RFC 3339 timestamp.
func (n *TimeWidget) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, n.Datetime)
}

func (n *Text) node()            {}
func (n *Break) node()           {}
func (n *Code) node()            {}
func (n *Emphasis) node()        {}
func (n *Strong) node()          {}
func (n *Delete) node()          {}
func (n *Anchor) node()          {}
func (n *MessageLink) node()     {}
func (n *StreamLink) node()      {}
func (n *StreamTopicLink) node() {}
func (n *TimeWidget) node()      {}

func (n *Text) phrasing()            {}
func (n *Break) phrasing()           {}
func (n *Code) phrasing()            {}
func (n *Emphasis) phrasing()        {}
func (n *Strong) phrasing()          {}
func (n *Delete) phrasing()          {}
func (n *Anchor) phrasing()          {}
func (n *MessageLink) phrasing()     {}
func (n *StreamLink) phrasing()      {}
func (n *StreamTopicLink) phrasing() {}
func (n *TimeWidget) phrasing()      {}
