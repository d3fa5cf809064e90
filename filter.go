package msgcontent

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter selects messages with a boolean expr expression over the fields of
// Message, for example:
//
//	sender_id == 7 && "starred" in flags
//	type == "private" && 12 in user_ids
//	stream_id == 3 && topic startsWith "release"
type Filter struct {
	src  string
	prog *vm.Program
}

// NewFilter compiles src. An empty src matches every message.
func NewFilter(src string) (*Filter, error) {
	f := &Filter{src: src}
	if src == "" {
		return f, nil
	}
	prog, err := expr.Compile(src, expr.Env(Message{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	f.prog = prog
	return f, nil
}

func (f *Filter) String() string { return f.src }

// Match reports whether m satisfies the filter. A nil Filter matches
// everything.
func (f *Filter) Match(m *Message) (bool, error) {
	if f == nil || f.prog == nil {
		return true, nil
	}
	out, err := expr.Run(f.prog, *m)
	if err != nil {
		return false, fmt.Errorf("run filter %q on message %d: %w", f.src, m.ID, err)
	}
	return out.(bool), nil
}

// Apply returns the messages of c that match the filter.
func (f *Filter) Apply(c *Corpus) ([]Message, error) {
	var res []Message
	for i := range c.Messages {
		ok, err := f.Match(&c.Messages[i])
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, c.Messages[i])
		}
	}
	return res, nil
}
