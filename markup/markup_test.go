package markup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		text HTML
		attr HTML
	}{
		{"plain", "hello", "hello", "hello"},
		{"ampersand", "a & b", "a &amp; b", "a &amp; b"},
		{"angle brackets", "<b>", "&lt;b&gt;", "&lt;b&gt;"},
		{"quote", `say "hi"`, `say "hi"`, "say &quot;hi&quot;"},
		{"right single quote", "don’t", "don&#8217;t", "don&#8217;t"},
		{"astral plane", "\U0001F600", "&#128512;", "&#128512;"},
		{"no double escaping", "&amp;", "&amp;amp;", "&amp;amp;"},
		{"all together", "&<>’\"", "&amp;&lt;&gt;&#8217;\"", "&amp;&lt;&gt;&#8217;&quot;"},
		{"latin-1 boundary", "\u007f\u0080", "\u007f&#128;", "\u007f&#128;"},
		{"empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.text, EscapeText(tt.in))
			require.Equal(t, tt.attr, EscapeAttr(tt.in))
		})
	}
}

func TestBuildTag(t *testing.T) {
	start := "3"
	tests := []struct {
		name  string
		tag   string
		inner HTML
		attrs []Attr
		want  HTML
	}{
		{
			name:  "no attributes",
			tag:   "p",
			inner: "hello",
			want:  "<p>hello</p>",
		},
		{
			name:  "attribute order is kept",
			tag:   "span",
			inner: "Alice",
			attrs: []Attr{A("class", "user-mention"), A("data-user-id", "7")},
			want:  `<span class="user-mention" data-user-id="7">Alice</span>`,
		},
		{
			name:  "underscores become hyphens",
			tag:   "span",
			inner: "x",
			attrs: []Attr{A("class_", "c"), A("data_user_group_id", "3")},
			want:  `<span class="c" data-user-group-id="3">x</span>`,
		},
		{
			name:  "absent attributes are omitted",
			tag:   "ol",
			inner: "<li>a</li>",
			attrs: []Attr{Opt("start", nil), If(false, "title", "t")},
			want:  "<ol><li>a</li></ol>",
		},
		{
			name:  "optional attribute present",
			tag:   "ol",
			inner: "<li>a</li>",
			attrs: []Attr{Opt("start", &start)},
			want:  `<ol start="3"><li>a</li></ol>`,
		},
		{
			name: "void element collapses",
			tag:  "br",
			want: "<br/>",
		},
		{
			name:  "void element with attributes",
			tag:   "img",
			attrs: []Attr{A("src", "/a.png"), A("title", `"q"`)},
			want:  `<img src="/a.png" title="&quot;q&quot;"/>`,
		},
		{
			name:  "empty non-void element keeps end tag",
			tag:   "video",
			attrs: []Attr{A("preload", "metadata"), A("src", "/v.mp4")},
			want:  `<video preload="metadata" src="/v.mp4"></video>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, BuildTag(tt.tag, tt.inner, tt.attrs...))
		})
	}
}

func TestRawTagKeepsNames(t *testing.T) {
	got := RawTag("svg", "", A("xlink:href", "#a"), A("view_box", "0 0 1 1"))
	require.Equal(t, HTML(`<svg xlink:href="#a" view_box="0 0 1 1"></svg>`), got)
}

func TestJoins(t *testing.T) {
	require.Equal(t, HTML("ab"), Combine("a", "b"))
	require.Equal(t, HTML(""), Combine())
	require.Equal(t, HTML("\n"), BlockJoin())
	require.Equal(t, HTML("\n<p>a</p>\n<p>b</p>\n"), BlockJoin("<p>a</p>", "<p>b</p>"))
	require.Equal(t, HTML("<li>a</li>\n<li>b</li>"), LineJoin("<li>a</li>", "<li>b</li>"))
	require.Equal(t, HTML(""), LineJoin())
}
