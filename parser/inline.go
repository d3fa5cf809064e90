package parser

import (
	"strconv"
	"strings"

	"github.com/dpotapov/go-msgcontent/ast"
	"github.com/dpotapov/go-msgcontent/element"
)

func buildFormatting(t *element.Tag) (ast.Phrasing, error) {
	if err := vanilla(t, true); err != nil {
		return nil, err
	}
	children, err := phrasing(t)
	if err != nil {
		return nil, err
	}
	switch t.Name {
	case "code":
		return &ast.Code{Children: children}, nil
	case "del":
		return &ast.Delete{Children: children}, nil
	case "em":
		return &ast.Emphasis{Children: children}, nil
	default:
		return &ast.Strong{Children: children}, nil
	}
}

func buildTime(t *element.Tag) (*ast.TimeWidget, error) {
	if err := t.RestrictAttributes("datetime"); err != nil {
		return nil, err
	}
	dt, err := t.Require("datetime")
	if err != nil {
		return nil, err
	}
	text, err := t.OnlyText()
	if err != nil {
		return nil, err
	}
	return &ast.TimeWidget{Datetime: dt, Value: text}, nil
}

func buildLink(t *element.Tag) (ast.Phrasing, error) {
	class, ok := t.Class()
	if !ok {
		if err := t.RestrictAttributes("href"); err != nil {
			return nil, err
		}
		children, err := phrasing(t)
		if err != nil {
			return nil, err
		}
		return &ast.Anchor{Href: t.Optional("href"), Children: children}, nil
	}

	switch class {
	case "message-link":
		if err := t.RestrictAttributes("class", "href"); err != nil {
			return nil, err
		}
		href, err := t.Require("href")
		if err != nil {
			return nil, err
		}
		children, err := phrasing(t)
		if err != nil {
			return nil, err
		}
		return &ast.MessageLink{Href: href, Children: children}, nil
	case "stream", "stream-topic":
		if err := t.RestrictAttributes("class", "data-stream-id", "href"); err != nil {
			return nil, err
		}
		id, err := t.Int("data-stream-id")
		if err != nil {
			return nil, err
		}
		href, err := t.Require("href")
		if err != nil {
			return nil, err
		}
		children, err := phrasing(t)
		if err != nil {
			return nil, err
		}
		if class == "stream" {
			return &ast.StreamLink{Href: href, StreamID: id, Children: children}, nil
		}
		return &ast.StreamTopicLink{Href: href, StreamID: id, Children: children}, nil
	}
	return nil, element.Errorf(element.ErrUnsupportedTag, t, "unexpected a class %q", class)
}

func buildImg(t *element.Tag) (*ast.EmojiImage, error) {
	class, _ := t.Class()
	if class != "emoji" {
		return nil, element.Errorf(element.ErrUnsupportedTag, t, "unexpected img class %q", class)
	}
	if err := t.RestrictAttributes("alt", "class", "src", "title"); err != nil {
		return nil, err
	}
	if err := t.ForbidChildren(); err != nil {
		return nil, err
	}
	src, err := t.Require("src")
	if err != nil {
		return nil, err
	}
	title, err := t.Require("title")
	if err != nil {
		return nil, err
	}
	if err := t.EnsureAttr("alt", ast.EmojiCode(title)); err != nil {
		return nil, err
	}
	return &ast.EmojiImage{Src: src, Title: title}, nil
}

// buildSpan dispatches on the class of a <span>. The mention classes are
// matched as whole strings: loud and silent variants never overlap.
func buildSpan(t *element.Tag) (ast.Phrasing, error) {
	class, ok := t.Class()
	if !ok {
		return nil, element.Errorf(element.ErrUnsupportedTag, t, "span without class")
	}
	switch {
	case strings.HasPrefix(class, "emoji "):
		return buildEmojiSpan(t, class)
	case class == "katex" || class == "katex-display":
		return buildKatex(t, class)
	case class == "tex-error":
		text, err := onlyClassText(t)
		return &ast.TexError{Value: text}, err
	case class == "timestamp-error":
		text, err := onlyClassText(t)
		return &ast.TimestampError{Value: text}, err
	}
	base, silent := strings.CutSuffix(class, " silent")
	switch base {
	case "user-mention":
		return buildUserMention(t, silent)
	case "user-group-mention":
		return buildUserGroupMention(t, silent)
	case "user-mention channel-wildcard-mention":
		return buildWildcardMention(t, silent)
	case "topic-mention":
		if err := t.RestrictAttributes("class"); err != nil {
			return nil, err
		}
		n := &ast.TopicMention{Silent: silent}
		if err := t.EnsureText(n.Name()); err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, element.Errorf(element.ErrUnsupportedTag, t, "unexpected span class %q", class)
}

func onlyClassText(t *element.Tag) (string, error) {
	if err := t.RestrictAttributes("class"); err != nil {
		return "", err
	}
	return t.OnlyText()
}

func buildUserMention(t *element.Tag, silent bool) (*ast.UserMention, error) {
	if err := t.RestrictAttributes("class", "data-user-id"); err != nil {
		return nil, err
	}
	id, err := t.Int("data-user-id")
	if err != nil {
		return nil, err
	}
	name, err := t.OnlyText()
	if err != nil {
		return nil, err
	}
	return &ast.UserMention{Name: name, UserID: id, Silent: silent}, nil
}

func buildUserGroupMention(t *element.Tag, silent bool) (*ast.UserGroupMention, error) {
	if err := t.RestrictAttributes("class", "data-user-group-id"); err != nil {
		return nil, err
	}
	id, err := t.Int("data-user-group-id")
	if err != nil {
		return nil, err
	}
	name, err := t.OnlyText()
	if err != nil {
		return nil, err
	}
	return &ast.UserGroupMention{Name: name, GroupID: id, Silent: silent}, nil
}

func buildWildcardMention(t *element.Tag, silent bool) (*ast.ChannelWildcardMention, error) {
	if err := t.RestrictAttributes("class", "data-user-id"); err != nil {
		return nil, err
	}
	if err := t.EnsureAttr("data-user-id", "*"); err != nil {
		return nil, err
	}
	text, err := t.OnlyText()
	if err != nil {
		return nil, err
	}
	wildcard, loud := strings.CutPrefix(text, "@")
	if loud == silent {
		return nil, element.Errorf(element.ErrBadChildShape, t, "wildcard text %q does not match the silent flag", text)
	}
	switch wildcard {
	case ast.WildcardAll, ast.WildcardChannel, ast.WildcardEveryone:
	default:
		return nil, element.Errorf(element.ErrBadChildShape, t, "unknown wildcard %q", text)
	}
	return &ast.ChannelWildcardMention{Wildcard: wildcard, Silent: silent}, nil
}

func buildEmojiSpan(t *element.Tag, class string) (*ast.EmojiSpan, error) {
	if err := t.RestrictAttributes("aria-label", "class", "role", "title"); err != nil {
		return nil, err
	}
	title, err := t.Require("title")
	if err != nil {
		return nil, err
	}
	if err := t.EnsureAttr("aria-label", title); err != nil {
		return nil, err
	}
	if err := t.EnsureAttr("role", "img"); err != nil {
		return nil, err
	}
	hex, ok := strings.CutPrefix(class, "emoji emoji-")
	if !ok || hex == "" {
		return nil, element.Errorf(element.ErrBadAttributeValue, t, "unexpected emoji class %q", class)
	}
	var codePoints []rune
	for _, h := range strings.Split(hex, "-") {
		cp, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return nil, element.Errorf(element.ErrBadAttributeValue, t, "bad code point %q in emoji class", h)
		}
		codePoints = append(codePoints, rune(cp))
	}
	if err := t.EnsureText(ast.EmojiCode(title)); err != nil {
		return nil, err
	}
	return &ast.EmojiSpan{CodePoints: codePoints, Title: title}, nil
}

func buildKatex(t *element.Tag, class string) (*ast.Katex, error) {
	if err := t.RestrictAttributes("class"); err != nil {
		return nil, err
	}
	n := &ast.Katex{Raw: t.HTML(), Display: class == "katex-display"}
	if ann := t.Find("annotation"); ann != nil {
		if enc, _ := ann.Get("encoding"); enc == "application/x-tex" {
			n.TeX = ann.TextContent()
		}
	}
	return n, nil
}
