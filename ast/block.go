package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dpotapov/go-msgcontent/markup"
)

// Body is the root of a message. Its children are blocks and the newline
// text runs between them.
type Body struct {
	Children []Node
}

func (n *Body) Text() string      { return childrenText(n.Children, " ") }
func (n *Body) HTML() markup.HTML { return markup.BuildTag("body", combined(n.Children)) }

// Content returns the markup of the message without the enclosing <body>.
func (n *Body) Content() markup.HTML { return combined(n.Children) }

// Paragraph is <p>.
type Paragraph struct {
	Children []Phrasing
}

func (n *Paragraph) Text() string      { return childrenText(n.Children, " ") + "\n\n" }
func (n *Paragraph) HTML() markup.HTML { return markup.BuildTag("p", combined(n.Children)) }

// Heading is <h1> to <h6>.
type Heading struct {
	Depth    int
	Children []Phrasing
}

func (n *Heading) Text() string {
	return strings.Repeat("#", n.Depth) + " " + childrenText(n.Children, " ") + "\n\n"
}

func (n *Heading) HTML() markup.HTML {
	return markup.BuildTag("h"+strconv.Itoa(n.Depth), combined(n.Children))
}

// BlockQuote is <blockquote>.
type BlockQuote struct {
	Children []Node
}

func (n *BlockQuote) Text() string {
	return "\n-----\n" + childrenText(n.Children, " ") + "\n-----\n"
}

func (n *BlockQuote) HTML() markup.HTML { return markup.BuildTag("blockquote", combined(n.Children)) }

// ListItem is an <li> of an ordered or unordered list.
type ListItem struct {
	Children []Node
}

func (n *ListItem) Text() string      { return childrenText(n.Children, " ") }
func (n *ListItem) HTML() markup.HTML { return markup.BuildTag("li", combined(n.Children)) }

// OrderedList is <ol>. Start is nil when the list has no start attribute.
// Pretty is set when the items are wrapped in a leading and trailing newline.
type OrderedList struct {
	Start  *int
	Items  []*ListItem
	Pretty bool
}

// First returns the number of the first item.
func (n *OrderedList) First() int {
	if n.Start == nil {
		return 1
	}
	return *n.Start
}

func (n *OrderedList) Text() string {
	var b strings.Builder
	for i, it := range n.Items {
		fmt.Fprintf(&b, "\n    %d. %s", n.First()+i, it.Text())
	}
	return b.String()
}

func (n *OrderedList) HTML() markup.HTML {
	var start *string
	if n.Start != nil {
		s := strconv.Itoa(*n.Start)
		start = &s
	}
	return markup.BuildTag("ol", listInner(n.Items, n.Pretty), markup.Opt("start", start))
}

// UnorderedList is <ul>.
type UnorderedList struct {
	Items  []*ListItem
	Pretty bool
}

func (n *UnorderedList) Text() string {
	var b strings.Builder
	for _, it := range n.Items {
		b.WriteString("\n    - ")
		b.WriteString(it.Text())
	}
	return b.String()
}

func (n *UnorderedList) HTML() markup.HTML {
	return markup.BuildTag("ul", listInner(n.Items, n.Pretty))
}

func listInner(items []*ListItem, pretty bool) markup.HTML {
	if pretty {
		return markup.BlockJoin(childrenHTML(items)...)
	}
	return markup.LineJoin(childrenHTML(items)...)
}

// ThematicBreak is <hr>.
type ThematicBreak struct{}

func (n *ThematicBreak) Text() string      { return "\n\n---\n\n" }
func (n *ThematicBreak) HTML() markup.HTML { return markup.BuildTag("hr", "") }

// CodeBlock is a syntax-highlighted code block. Its markup is trusted and
// echoed verbatim; Content is the plain code and Lang the language, which
// may be empty.
type CodeBlock struct {
	Raw     markup.HTML
	Lang    string
	Content string
}

func (n *CodeBlock) Text() string {
	return "\n~~~~~~~~ lang: " + n.Lang + "\n" + n.Content + "~~~~~~~~\n"
}

func (n *CodeBlock) HTML() markup.HTML { return n.Raw }

// Spoiler hides its content behind a header until the reader expands it.
type Spoiler struct {
	Header  *SpoilerHeader
	Content *SpoilerContent
}

func (n *Spoiler) Text() string {
	return "SPOILER: " + n.Header.Text() + "\nHIDDEN:\n" + n.Content.Text() + "\nENDHIDDEN\n"
}

func (n *Spoiler) HTML() markup.HTML {
	return markup.BuildTag("div", markup.Combine(n.Header.HTML(), n.Content.HTML()),
		markup.A("class", "spoiler-block"),
	)
}

// SpoilerHeader is the always visible part of a spoiler. Its children are
// pretty-printed blocks.
type SpoilerHeader struct {
	Children []Node
}

func (n *SpoilerHeader) Text() string { return childrenText(n.Children, " ") }

func (n *SpoilerHeader) HTML() markup.HTML {
	return markup.BuildTag("div", markup.BlockJoin(childrenHTML(n.Children)...),
		markup.A("class", "spoiler-header"),
	)
}

// SpoilerContent is the hidden part of a spoiler. AriaFirst records whether
// the aria-hidden attribute precedes class in the markup; the server has
// emitted both orders.
type SpoilerContent struct {
	Children  []Node
	AriaFirst bool
}

func (n *SpoilerContent) Text() string { return childrenText(n.Children, " ") }

func (n *SpoilerContent) HTML() markup.HTML {
	inner := combined(n.Children)
	if n.AriaFirst {
		return markup.BuildTag("div", inner, markup.A("aria_hidden", "true"), markup.A("class", "spoiler-content"))
	}
	return markup.BuildTag("div", inner, markup.A("class", "spoiler-content"), markup.A("aria_hidden", "true"))
}

// InlineImage is an image preview attached to a message.
type InlineImage struct {
	Href                string
	Title               *string
	Src                 string
	Animated            bool
	OriginalDimensions  *string
	OriginalContentType *string
}

func (n *InlineImage) Text() string { return "INLINE IMAGE: " + n.Href }

func (n *InlineImage) HTML() markup.HTML {
	img := markup.BuildTag("img", "",
		markup.If(n.Animated, "data_animated", "true"),
		markup.Opt("data_original_content_type", n.OriginalContentType),
		markup.Opt("data_original_dimensions", n.OriginalDimensions),
		markup.A("src", n.Src),
	)
	return inlineMediaHTML("message_inline_image", n.Href, n.Title, img)
}

// InlineVideo is a video preview attached to a message.
type InlineVideo struct {
	Href  string
	Title *string
	Src   string
}

func (n *InlineVideo) Text() string { return "INLINE VIDEO: " + n.Href }

func (n *InlineVideo) HTML() markup.HTML {
	video := markup.BuildTag("video", "",
		markup.A("preload", "metadata"),
		markup.A("src", n.Src),
	)
	return inlineMediaHTML("message_inline_image message_inline_video", n.Href, n.Title, video)
}

func inlineMediaHTML(class, href string, title *string, media markup.HTML) markup.HTML {
	a := markup.BuildTag("a", media, markup.A("href", href), markup.Opt("title", title))
	return markup.BuildTag("div", a, markup.A("class", class))
}

func (n *Body) node()           {}
func (n *Paragraph) node()      {}
func (n *Heading) node()        {}
func (n *BlockQuote) node()     {}
func (n *ListItem) node()       {}
func (n *OrderedList) node()    {}
func (n *UnorderedList) node()  {}
func (n *ThematicBreak) node()  {}
func (n *CodeBlock) node()      {}
func (n *Spoiler) node()        {}
func (n *SpoilerHeader) node()  {}
func (n *SpoilerContent) node() {}
func (n *InlineImage) node()    {}
func (n *InlineVideo) node()    {}

func (n *Paragraph) block()     {}
func (n *Heading) block()       {}
func (n *BlockQuote) block()    {}
func (n *OrderedList) block()   {}
func (n *UnorderedList) block() {}
func (n *ThematicBreak) block() {}
func (n *CodeBlock) block()     {}
func (n *Spoiler) block()       {}
func (n *InlineImage) block()   {}
func (n *InlineVideo) block()   {}
