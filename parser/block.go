package parser

import (
	"strings"

	"github.com/dpotapov/go-msgcontent/ast"
	"github.com/dpotapov/go-msgcontent/element"
)

func buildBody(t *element.Tag) (*ast.Body, error) {
	if err := vanilla(t, true); err != nil {
		return nil, err
	}
	children, err := nodes(t)
	if err != nil {
		return nil, err
	}
	return &ast.Body{Children: children}, nil
}

func buildParagraph(t *element.Tag) (*ast.Paragraph, error) {
	if err := vanilla(t, true); err != nil {
		return nil, err
	}
	children, err := phrasing(t)
	if err != nil {
		return nil, err
	}
	return &ast.Paragraph{Children: children}, nil
}

func buildHeading(t *element.Tag) (*ast.Heading, error) {
	if err := vanilla(t, true); err != nil {
		return nil, err
	}
	children, err := phrasing(t)
	if err != nil {
		return nil, err
	}
	return &ast.Heading{Depth: int(t.Name[1] - '0'), Children: children}, nil
}

func buildBlockQuote(t *element.Tag) (*ast.BlockQuote, error) {
	if err := vanilla(t, true); err != nil {
		return nil, err
	}
	children, err := nodes(t)
	if err != nil {
		return nil, err
	}
	return &ast.BlockQuote{Children: children}, nil
}

func buildListItem(t *element.Tag) (*ast.ListItem, error) {
	if err := t.Restrict("li"); err != nil {
		return nil, err
	}
	children, err := nodes(t)
	if err != nil {
		return nil, err
	}
	return &ast.ListItem{Children: children}, nil
}

func listItems(t *element.Tag) ([]*ast.ListItem, bool, error) {
	lis, pretty, err := t.LineChildren()
	if err != nil {
		return nil, false, err
	}
	items, err := each(lis, buildListItem)
	if err != nil {
		return nil, false, err
	}
	return items, pretty, nil
}

func buildOrderedList(t *element.Tag) (*ast.OrderedList, error) {
	if err := t.RestrictAttributes("start"); err != nil {
		return nil, err
	}
	start, err := t.OptionalInt("start")
	if err != nil {
		return nil, err
	}
	items, pretty, err := listItems(t)
	if err != nil {
		return nil, err
	}
	return &ast.OrderedList{Start: start, Items: items, Pretty: pretty}, nil
}

func buildUnorderedList(t *element.Tag) (*ast.UnorderedList, error) {
	if err := vanilla(t, true); err != nil {
		return nil, err
	}
	items, pretty, err := listItems(t)
	if err != nil {
		return nil, err
	}
	return &ast.UnorderedList{Items: items, Pretty: pretty}, nil
}

func buildTable(t *element.Tag) (*ast.Table, error) {
	if err := vanilla(t, true); err != nil {
		return nil, err
	}
	parts, err := t.BlockChildrenOf("thead", "tbody")
	if err != nil {
		return nil, err
	}
	head, err := buildTHead(parts[0])
	if head, err = verify(parts[0], head, err); err != nil {
		return nil, err
	}
	body, err := buildTBody(parts[1])
	if body, err = verify(parts[1], body, err); err != nil {
		return nil, err
	}
	return &ast.Table{Head: head, Body: body}, nil
}

func buildTHead(t *element.Tag) (*ast.THead, error) {
	if err := t.Restrict("thead"); err != nil {
		return nil, err
	}
	tr, err := t.OnlyBlockChild("tr")
	if err != nil {
		return nil, err
	}
	row, err := buildTr(tr, "th")
	if row, err = verify(tr, row, err); err != nil {
		return nil, err
	}
	return &ast.THead{Row: row}, nil
}

func buildTBody(t *element.Tag) (*ast.TBody, error) {
	if err := t.Restrict("tbody"); err != nil {
		return nil, err
	}
	trs, err := t.BlockChildren()
	if err != nil {
		return nil, err
	}
	rows, err := each(trs, func(tr *element.Tag) (*ast.Tr, error) { return buildTr(tr, "td") })
	if err != nil {
		return nil, err
	}
	return &ast.TBody{Rows: rows}, nil
}

// buildTr builds a table row whose cells are all <cell> tags.
func buildTr(t *element.Tag, cell string) (*ast.Tr, error) {
	if err := t.Restrict("tr"); err != nil {
		return nil, err
	}
	tds, err := t.BlockChildren()
	if err != nil {
		return nil, err
	}
	cells, err := each(tds, func(td *element.Tag) (ast.Cell, error) { return buildCell(td, cell) })
	if err != nil {
		return nil, err
	}
	return &ast.Tr{Cells: cells}, nil
}

func buildCell(t *element.Tag, name string) (ast.Cell, error) {
	if err := t.Restrict(name, "style"); err != nil {
		return nil, err
	}
	align, err := alignment(t)
	if err != nil {
		return nil, err
	}
	children, err := nodes(t)
	if err != nil {
		return nil, err
	}
	if name == "th" {
		return &ast.Th{Alignment: align, Children: children}, nil
	}
	return &ast.Td{Alignment: align, Children: children}, nil
}

// alignment parses a cell style of the form "text-align: <value>;".
func alignment(t *element.Tag) (ast.Alignment, error) {
	style, ok := t.Get("style")
	if !ok {
		return ast.AlignNone, nil
	}
	prop, value, _ := strings.Cut(strings.TrimSuffix(style, ";"), ": ")
	if prop != "text-align" {
		return ast.AlignNone, element.Errorf(element.ErrBadAttributeValue, t, "unexpected style %q", style)
	}
	switch align := ast.Alignment(value); align {
	case ast.AlignLeft, ast.AlignCenter, ast.AlignRight:
		return align, nil
	}
	return ast.AlignNone, element.Errorf(element.ErrBadAttributeValue, t, "unexpected text-align %q", value)
}

func buildDiv(t *element.Tag) (ast.Block, error) {
	class, _ := t.Class()
	switch class {
	case "codehilite":
		return buildCodeBlock(t)
	case "spoiler-block":
		return buildSpoiler(t)
	case "message_inline_image":
		return buildInlineImage(t)
	case "message_inline_image message_inline_video":
		return buildInlineVideo(t)
	}
	return nil, element.Errorf(element.ErrUnsupportedTag, t, "unexpected div class %q", class)
}

// buildCodeBlock accepts the highlighted markup as is: only the language and
// the plain code are extracted from it.
func buildCodeBlock(t *element.Tag) (*ast.CodeBlock, error) {
	if err := t.RestrictAttributes("class", "data-code-language"); err != nil {
		return nil, err
	}
	lang, _ := t.Get("data-code-language")
	return &ast.CodeBlock{Raw: t.HTML(), Lang: lang, Content: t.TextContent()}, nil
}

func buildSpoiler(t *element.Tag) (*ast.Spoiler, error) {
	if err := t.RestrictAttributes("class"); err != nil {
		return nil, err
	}
	ht, ct, err := t.TwoChildren("div", "div")
	if err != nil {
		return nil, err
	}
	header, err := buildSpoilerHeader(ht)
	if header, err = verify(ht, header, err); err != nil {
		return nil, err
	}
	content, err := buildSpoilerContent(ct)
	if content, err = verify(ct, content, err); err != nil {
		return nil, err
	}
	return &ast.Spoiler{Header: header, Content: content}, nil
}

func buildSpoilerHeader(t *element.Tag) (*ast.SpoilerHeader, error) {
	if err := t.RestrictAttributes("class"); err != nil {
		return nil, err
	}
	if err := t.EnsureClass("spoiler-header"); err != nil {
		return nil, err
	}
	blocks, err := t.BlockChildren()
	if err != nil {
		return nil, err
	}
	children := make([]ast.Node, 0, len(blocks))
	for _, b := range blocks {
		n, err := child(t, b)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	return &ast.SpoilerHeader{Children: children}, nil
}

func buildSpoilerContent(t *element.Tag) (*ast.SpoilerContent, error) {
	if err := t.RestrictAttributes("aria-hidden", "class"); err != nil {
		return nil, err
	}
	if err := t.EnsureClass("spoiler-content"); err != nil {
		return nil, err
	}
	if err := t.EnsureAttr("aria-hidden", "true"); err != nil {
		return nil, err
	}
	children, err := nodes(t)
	if err != nil {
		return nil, err
	}
	return &ast.SpoilerContent{Children: children, AriaFirst: t.Attr[0].Name() == "aria-hidden"}, nil
}

// mediaLink validates the <a> wrapped by an inline image or video and returns
// it with its media child.
func mediaLink(t *element.Tag, media string) (a, m *element.Tag, err error) {
	if err := t.RestrictAttributes("class"); err != nil {
		return nil, nil, err
	}
	if a, err = t.OnlyChild("a"); err != nil {
		return nil, nil, err
	}
	if err := a.RestrictAttributes("href", "title"); err != nil {
		return nil, nil, err
	}
	if _, err := a.Require("href"); err != nil {
		return nil, nil, err
	}
	if m, err = a.OnlyChild(media); err != nil {
		return nil, nil, err
	}
	if err := m.ForbidChildren(); err != nil {
		return nil, nil, err
	}
	return a, m, nil
}

func buildInlineImage(t *element.Tag) (*ast.InlineImage, error) {
	a, img, err := mediaLink(t, "img")
	if err != nil {
		return nil, err
	}
	if err := img.RestrictAttributes("data-animated", "data-original-content-type", "data-original-dimensions", "src"); err != nil {
		return nil, err
	}
	src, err := img.Require("src")
	if err != nil {
		return nil, err
	}
	animated, err := img.Bool("data-animated")
	if err != nil {
		return nil, err
	}
	href, _ := a.Get("href")
	return &ast.InlineImage{
		Href:                href,
		Title:               a.Optional("title"),
		Src:                 src,
		Animated:            animated,
		OriginalDimensions:  img.Optional("data-original-dimensions"),
		OriginalContentType: img.Optional("data-original-content-type"),
	}, nil
}

func buildInlineVideo(t *element.Tag) (*ast.InlineVideo, error) {
	a, video, err := mediaLink(t, "video")
	if err != nil {
		return nil, err
	}
	if err := video.RestrictAttributes("preload", "src"); err != nil {
		return nil, err
	}
	if err := video.EnsureAttr("preload", "metadata"); err != nil {
		return nil, err
	}
	src, err := video.Require("src")
	if err != nil {
		return nil, err
	}
	href, _ := a.Get("href")
	return &ast.InlineVideo{Href: href, Title: a.Optional("title"), Src: src}, nil
}
