package element

import (
	"slices"
	"strconv"
	"strings"
)

// Require returns the value of a mandatory, non-empty attribute.
func (t *Tag) Require(key string) (string, error) {
	v, ok := t.Get(key)
	if !ok {
		return "", Errorf(ErrUnexpectedAttributes, t, "%s is missing", key)
	}
	if v == "" {
		return "", Errorf(ErrBadAttributeValue, t, "%s is empty", key)
	}
	return v, nil
}

// RequireAllowEmpty is like Require but accepts an empty value.
func (t *Tag) RequireAllowEmpty(key string) (string, error) {
	v, ok := t.Get(key)
	if !ok {
		return "", Errorf(ErrUnexpectedAttributes, t, "%s is missing", key)
	}
	return v, nil
}

// Optional returns a pointer to the attribute value, or nil if it is absent.
func (t *Tag) Optional(key string) *string {
	v, ok := t.Get(key)
	if !ok {
		return nil
	}
	return &v
}

// Restrict checks the tag name and that every attribute of t is one of keys.
func (t *Tag) Restrict(name string, keys ...string) error {
	if t.Name != name {
		return Errorf(ErrBadChildShape, t, "expected <%s>, got <%s>", name, t.Name)
	}
	return t.RestrictAttributes(keys...)
}

// RestrictAttributes checks that every attribute of t is one of keys.
func (t *Tag) RestrictAttributes(keys ...string) error {
	var extra []string
	for _, a := range t.Attr {
		if !slices.Contains(keys, a.Name()) {
			extra = append(extra, a.Name())
		}
	}
	if len(extra) > 0 {
		return Errorf(ErrUnexpectedAttributes, t, "%v (actual attributes) > %v (expected)", t.Keys(), keys)
	}
	return nil
}

// EnsureAttr checks that the attribute is present and equals want.
func (t *Tag) EnsureAttr(key, want string) error {
	v, err := t.RequireAllowEmpty(key)
	if err != nil {
		return err
	}
	if v != want {
		return Errorf(ErrBadAttributeValue, t, "%s=%q, want %q", key, v, want)
	}
	return nil
}

// EnsureClass checks that the class attribute equals want.
func (t *Tag) EnsureClass(want string) error {
	return t.EnsureAttr("class", want)
}

// Class returns the class attribute.
func (t *Tag) Class() (string, bool) {
	return t.Get("class")
}

// Int parses a mandatory integer attribute, such as a database id.
func (t *Tag) Int(key string) (int, error) {
	s, err := t.Require(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, Errorf(ErrBadAttributeValue, t, "%s=%q is not a valid integer", key, s)
	}
	return n, nil
}

// OptionalInt is like Int but returns nil when the attribute is absent.
func (t *Tag) OptionalInt(key string) (*int, error) {
	if _, ok := t.Get(key); !ok {
		return nil, nil
	}
	n, err := t.Int(key)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Bool parses a flag attribute: absent means false, "true" means true and
// any other value is rejected.
func (t *Tag) Bool(key string) (bool, error) {
	v, ok := t.Get(key)
	if !ok {
		return false, nil
	}
	if v != "true" {
		return false, Errorf(ErrBadAttributeValue, t, "%s=%q, want \"true\"", key, v)
	}
	return true, nil
}

// ForbidChildren checks that t has no children at all.
func (t *Tag) ForbidChildren() error {
	if len(t.Children) != 0 {
		return Errorf(ErrBadChildShape, t, "%s has unexpected children", t.Name)
	}
	return nil
}

// OnlyText returns the text of t, which must consist of exactly one text run.
func (t *Tag) OnlyText() (string, error) {
	if len(t.Children) != 1 {
		return "", Errorf(ErrBadChildShape, t, "%s has %d children, want one text child", t.Name, len(t.Children))
	}
	txt, ok := t.Children[0].(*Text)
	if !ok {
		return "", Errorf(ErrBadChildShape, t, "%s has a non-text child", t.Name)
	}
	return txt.Data, nil
}

// EnsureText checks that t consists of exactly the text want.
func (t *Tag) EnsureText(want string) error {
	s, err := t.OnlyText()
	if err != nil {
		return err
	}
	if s != want {
		return Errorf(ErrBadChildShape, t, "text %q, want %q", s, want)
	}
	return nil
}

// OnlyChild returns the single child of t, which must be a tag with the given name.
func (t *Tag) OnlyChild(name string) (*Tag, error) {
	if len(t.Children) != 1 {
		return nil, Errorf(ErrBadChildShape, t, "%s has %d children, want one <%s>", t.Name, len(t.Children), name)
	}
	return childTag(t, t.Children[0], name)
}

// OnlyBlockChild returns the single pretty-printed child of t: a newline, a
// tag with the given name, and a newline.
func (t *Tag) OnlyBlockChild(name string) (*Tag, error) {
	tags, err := t.BlockChildrenOf(name)
	if err != nil {
		return nil, err
	}
	return tags[0], nil
}

// TwoChildren returns the two children of t, which must be tags with the
// given names and no text in between.
func (t *Tag) TwoChildren(first, second string) (*Tag, *Tag, error) {
	if len(t.Children) != 2 {
		return nil, nil, Errorf(ErrBadChildShape, t, "%s has %d children, want <%s> and <%s>", t.Name, len(t.Children), first, second)
	}
	c1, err := childTag(t, t.Children[0], first)
	if err != nil {
		return nil, nil, err
	}
	c2, err := childTag(t, t.Children[1], second)
	if err != nil {
		return nil, nil, err
	}
	return c1, c2, nil
}

// BlockChildrenOf returns the pretty-printed children of t, which must be
// exactly the given tags, each preceded by a newline, with a newline after
// the last one.
func (t *Tag) BlockChildrenOf(names ...string) ([]*Tag, error) {
	if len(t.Children) != 2*len(names)+1 {
		return nil, Errorf(ErrBadChildShape, t, "%s has %d children, want %s", t.Name, len(t.Children), prettyShape(names))
	}
	tags := make([]*Tag, len(names))
	for i, c := range t.Children {
		if i%2 == 0 {
			if !IsNewline(c) {
				return nil, Errorf(ErrBadChildShape, t, "expected newline for pretty HTML at child %d", i)
			}
			continue
		}
		ct, err := childTag(t, c, names[i/2])
		if err != nil {
			return nil, err
		}
		tags[i/2] = ct
	}
	return tags, nil
}

// BlockChildren returns the tag children of a pretty-printed container: any
// number of tags, each preceded by a newline, with a newline after the last
// one. A container with no tags holds a single newline.
func (t *Tag) BlockChildren() ([]*Tag, error) {
	if len(t.Children)%2 == 0 {
		return nil, Errorf(ErrBadChildShape, t, "%s has %d children, want newline-separated tags", t.Name, len(t.Children))
	}
	tags := make([]*Tag, 0, len(t.Children)/2)
	for i, c := range t.Children {
		if i%2 == 0 {
			if !IsNewline(c) {
				return nil, Errorf(ErrBadChildShape, t, "expected newline for pretty HTML at child %d", i)
			}
			continue
		}
		ct, ok := c.(*Tag)
		if !ok {
			return nil, Errorf(ErrBadChildShape, t, "unexpected text at child %d", i)
		}
		tags = append(tags, ct)
	}
	return tags, nil
}

// LineChildren returns the tag children of t when they are separated by
// exactly one newline each. The sequence may be wrapped in a leading and a
// trailing newline (pretty is true) or not at all; any other text is an error.
func (t *Tag) LineChildren() (tags []*Tag, pretty bool, err error) {
	children := t.Children
	switch {
	case len(children) == 0:
		return nil, false, nil
	case len(children) == 1 && IsNewline(children[0]):
		return nil, true, nil
	}

	first, last := IsNewline(children[0]), IsNewline(children[len(children)-1])
	if first != last {
		return nil, false, Errorf(ErrBadChildShape, t, "%s is only partly pretty-printed", t.Name)
	}
	if first {
		pretty = true
		children = children[1 : len(children)-1]
	}

	for i, c := range children {
		if i%2 == 1 {
			if !IsNewline(c) {
				return nil, false, Errorf(ErrBadChildShape, t, "text between <%s> items must be a single newline", t.Name)
			}
			continue
		}
		ct, ok := c.(*Tag)
		if !ok {
			return nil, false, Errorf(ErrBadChildShape, t, "unexpected text %q in <%s>", c.(*Text).Data, t.Name)
		}
		tags = append(tags, ct)
	}
	if len(children)%2 == 0 {
		return nil, false, Errorf(ErrBadChildShape, t, "<%s> ends with a separator", t.Name)
	}
	return tags, pretty, nil
}

func childTag(parent *Tag, c Element, name string) (*Tag, error) {
	ct, ok := c.(*Tag)
	if !ok {
		return nil, Errorf(ErrBadChildShape, parent, "unexpected text, want <%s>", name)
	}
	if ct.Name != name {
		return nil, Errorf(ErrBadChildShape, ct, "expected <%s>, got <%s>", name, ct.Name)
	}
	return ct, nil
}

func prettyShape(names []string) string {
	var b strings.Builder
	b.WriteString(`"\n"`)
	for _, n := range names {
		b.WriteString(" <" + n + `> "\n"`)
	}
	return b.String()
}
