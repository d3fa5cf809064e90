package msgcontent

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpotapov/go-msgcontent/element"
	"github.com/dpotapov/go-msgcontent/parser"
)

// CheckOptions configure Check.
type CheckOptions struct {
	// Filter restricts the checked messages. Nil checks all of them.
	Filter *Filter
	// FailFast stops at the first message that fails.
	FailFast bool
}

// CheckResult summarizes a corpus check.
type CheckResult struct {
	Label     string
	Checked   int
	Successes int
	Failures  []CheckFailure
}

// CheckFailure is a message that did not pass the check.
type CheckFailure struct {
	ID      int
	Content string
	Err     error
}

func (f CheckFailure) Error() string {
	return fmt.Sprintf("message %d: %v", f.ID, f.Err)
}

func (f CheckFailure) Unwrap() error { return f.Err }

func (r *CheckResult) String() string {
	return fmt.Sprintf("num_successes=%d from %s", r.Successes, r.Label)
}

// Err joins the failures into one error, nil when every message passed.
func (r *CheckResult) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Check parses every message of c that passes the filter, renders it as text
// and verifies that its canonical markup parses back to the same markup.
// Messages that fail are collected in the result; the returned error is
// reserved for filter errors and cancellation of ctx.
func Check(ctx context.Context, c *Corpus, opts CheckOptions) (*CheckResult, error) {
	res := &CheckResult{Label: c.Label}
	msgs, err := opts.Filter.Apply(c)
	if err != nil {
		return res, err
	}

	for i := range msgs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Checked++
		if err := CheckContent(msgs[i].Content); err != nil {
			res.Failures = append(res.Failures, CheckFailure{ID: msgs[i].ID, Content: msgs[i].Content, Err: err})
			if opts.FailFast {
				break
			}
			continue
		}
		res.Successes++
	}
	return res, nil
}

// CheckContent validates a single message content.
func CheckContent(content string) error {
	body, err := parser.Parse(content)
	if err != nil {
		return err
	}
	_ = body.Text()

	canonical := string(body.Content())
	again, err := parser.Parse(canonical)
	if err != nil {
		return fmt.Errorf("reparse canonical markup: %w", err)
	}
	if got := string(again.Content()); got != canonical {
		return &element.ParseError{
			Kind:     element.ErrRoundTripMismatch,
			Path:     "body",
			Msg:      "canonical markup is not stable",
			Expected: canonical,
			Actual:   got,
		}
	}
	return nil
}
