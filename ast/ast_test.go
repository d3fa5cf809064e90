package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dpotapov/go-msgcontent/markup"
)

func ptr[T any](v T) *T { return &v }

func text(s string) *Text { return &Text{Value: s} }

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		wantHTML markup.HTML
		wantText string
	}{
		{
			name:     "escaped text",
			node:     text("a < b & c’"),
			wantHTML: "a &lt; b &amp; c&#8217;",
			wantText: "a < b & c’",
		},
		{
			name:     "paragraph",
			node:     &Paragraph{Children: []Phrasing{text("hi "), &Strong{Children: []Phrasing{text("there")}}}},
			wantHTML: "<p>hi <strong>there</strong></p>",
			wantText: "hi  **there**\n\n",
		},
		{
			name:     "heading",
			node:     &Heading{Depth: 3, Children: []Phrasing{text("Title")}},
			wantHTML: "<h3>Title</h3>",
			wantText: "### Title\n\n",
		},
		{
			name:     "break and rule",
			node:     &Body{Children: []Node{&Break{}, &ThematicBreak{}}},
			wantHTML: "<body><br/><hr/></body>",
			wantText: "\n \n\n---\n\n",
		},
		{
			name:     "anchor without href",
			node:     &Anchor{Children: []Phrasing{text("x")}},
			wantHTML: "<a>x</a>",
			wantText: "x",
		},
		{
			name:     "anchor",
			node:     &Anchor{Href: ptr("https://example.com"), Children: []Phrasing{text("site")}},
			wantHTML: `<a href="https://example.com">site</a>`,
			wantText: "[site](https://example.com)",
		},
		{
			name:     "stream link",
			node:     &StreamLink{Href: "/#narrow/channel/9-general", StreamID: 9, Children: []Phrasing{text("#general")}},
			wantHTML: `<a class="stream" data-stream-id="9" href="/#narrow/channel/9-general">#general</a>`,
			wantText: "[#general] (/#narrow/channel/9-general) (stream id 9)",
		},
		{
			name:     "user mention",
			node:     &UserMention{Name: "@Alice", UserID: 7},
			wantHTML: `<span class="user-mention" data-user-id="7">@Alice</span>`,
			wantText: "[ @Alice 7 ]",
		},
		{
			name:     "silent user mention",
			node:     &UserMention{Name: "Alice", UserID: 7, Silent: true},
			wantHTML: `<span class="user-mention silent" data-user-id="7">Alice</span>`,
			wantText: "[ _Alice 7 ]",
		},
		{
			name:     "wildcard mention",
			node:     &ChannelWildcardMention{Wildcard: WildcardEveryone},
			wantHTML: `<span class="user-mention channel-wildcard-mention" data-user-id="*">@everyone</span>`,
			wantText: "[ WILDCARD @everyone ]",
		},
		{
			name:     "silent topic mention",
			node:     &TopicMention{Silent: true},
			wantHTML: `<span class="topic-mention silent">topic</span>`,
			wantText: "[ WILDCARD _topic ]",
		},
		{
			name:     "emoji span",
			node:     &EmojiSpan{CodePoints: []rune{0x1f468, 0x200d, 0x1f4bb}, Title: "technologist"},
			wantHTML: `<span aria-label="technologist" class="emoji emoji-1f468-200d-1f4bb" role="img" title="technologist">:technologist:</span>`,
			wantText: "\U0001f468\u200d\U0001f4bb (:technologist:)",
		},
		{
			name:     "emoji image",
			node:     &EmojiImage{Src: "/e/1.png", Title: "green tick"},
			wantHTML: `<img alt=":green_tick:" class="emoji" src="/e/1.png" title="green tick"/>`,
			wantText: ":green_tick:",
		},
		{
			name:     "pretty unordered list",
			node:     &UnorderedList{Pretty: true, Items: []*ListItem{{Children: []Node{text("a")}}, {Children: []Node{text("b")}}}},
			wantHTML: "<ul>\n<li>a</li>\n<li>b</li>\n</ul>",
			wantText: "\n    - a\n    - b",
		},
		{
			name:     "ordered list from start",
			node:     &OrderedList{Start: ptr(3), Items: []*ListItem{{Children: []Node{text("a")}}, {Children: []Node{text("b")}}}},
			wantHTML: "<ol start=\"3\"><li>a</li>\n<li>b</li></ol>",
			wantText: "\n    3. a\n    4. b",
		},
		{
			name:     "empty ordered list",
			node:     &OrderedList{},
			wantHTML: "<ol></ol>",
			wantText: "",
		},
		{
			name: "spoiler",
			node: &Spoiler{
				Header:  &SpoilerHeader{Children: []Node{&Paragraph{Children: []Phrasing{text("Plot")}}}},
				Content: &SpoilerContent{Children: []Node{text("twist")}, AriaFirst: true},
			},
			wantHTML: "<div class=\"spoiler-block\"><div class=\"spoiler-header\">\n<p>Plot</p>\n</div><div aria-hidden=\"true\" class=\"spoiler-content\">twist</div></div>",
			wantText: "SPOILER: Plot\n\n\nHIDDEN:\ntwist\nENDHIDDEN\n",
		},
		{
			name:     "inline image",
			node:     &InlineImage{Href: "/u/a.png", Title: ptr("a.png"), Src: "/t/a.webp", Animated: true},
			wantHTML: `<div class="message_inline_image"><a href="/u/a.png" title="a.png"><img data-animated="true" src="/t/a.webp"/></a></div>`,
			wantText: "INLINE IMAGE: /u/a.png",
		},
		{
			name:     "inline video",
			node:     &InlineVideo{Href: "/u/v.mp4", Src: "/u/v.mp4"},
			wantHTML: `<div class="message_inline_image message_inline_video"><a href="/u/v.mp4"><video preload="metadata" src="/u/v.mp4"></video></a></div>`,
			wantText: "INLINE VIDEO: /u/v.mp4",
		},
		{
			name:     "katex display",
			node:     &Katex{Raw: `<span class="katex-display">x</span>`, Display: true, TeX: `\sum`},
			wantHTML: `<span class="katex-display">x</span>`,
			wantText: `$$\sum$$`,
		},
		{
			name:     "katex without source",
			node:     &Katex{Raw: `<span class="katex">x</span>`},
			wantHTML: `<span class="katex">x</span>`,
			wantText: "<<<some katex html (not shown) with katex class>>>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantHTML, tt.node.HTML())
			require.Equal(t, tt.wantText, tt.node.Text())
		})
	}
}

func TestTable(t *testing.T) {
	tbl := &Table{
		Head: &THead{Row: &Tr{Cells: []Cell{
			&Th{Children: []Node{text("Name")}},
			&Th{Alignment: AlignRight, Children: []Node{text("Qty")}},
		}}},
		Body: &TBody{Rows: []*Tr{{Cells: []Cell{
			&Td{Children: []Node{text("apple")}},
			&Td{Alignment: AlignRight, Children: []Node{text("3")}},
		}}}},
	}

	require.Equal(t, markup.HTML("<table>\n"+
		"<thead>\n<tr>\n<th>Name</th>\n<th style=\"text-align: right;\">Qty</th>\n</tr>\n</thead>\n"+
		"<tbody>\n<tr>\n<td>apple</td>\n<td style=\"text-align: right;\">3</td>\n</tr>\n</tbody>\n"+
		"</table>"), tbl.HTML())
	require.Equal(t, "\nTH: Name | TH: Qty\nTD: apple | TD: 3\n", tbl.Text())
}

func TestWalk(t *testing.T) {
	body := &Body{Children: []Node{
		&Paragraph{Children: []Phrasing{
			&UserMention{Name: "@Alice", UserID: 7},
			text(" and "),
			&Emphasis{Children: []Phrasing{&TopicMention{Silent: true}}},
		}},
		text("\n"),
		&BlockQuote{Children: []Node{&Paragraph{Children: []Phrasing{&UserGroupMention{Name: "@ops", GroupID: 2}}}}},
	}}

	var silent []bool
	Walk(body, func(n Node) bool {
		if m, ok := n.(Mention); ok {
			silent = append(silent, m.IsSilent())
		}
		return true
	})
	require.Equal(t, []bool{false, true, false}, silent)

	var visited int
	Walk(body, func(n Node) bool {
		visited++
		_, isQuote := n.(*BlockQuote)
		return !isQuote
	})
	require.Equal(t, 8, visited)
}

func TestTimeWidget(t *testing.T) {
	tw := &TimeWidget{Datetime: "2024-01-31T12:00:00Z", Value: "1706702400"}
	ts, err := tw.Time()
	require.NoError(t, err)
	require.Equal(t, int64(1706702400), ts.Unix())
	require.Equal(t, markup.HTML(`<time datetime="2024-01-31T12:00:00Z">1706702400</time>`), tw.HTML())
}
