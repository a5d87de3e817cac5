package types

import (
	"regexp"

	"github.com/arthur-debert/aka/pkg/errors"
)

// Conditional is a value that only applies when the invocation's joined
// arguments match Pattern. An empty Pattern applies unconditionally.
type Conditional struct {
	Value   string
	Pattern string
}

// Unconditional reports whether the value always applies.
func (c *Conditional) Unconditional() bool {
	return c.Pattern == ""
}

// Applies evaluates the trigger against the joined argument string. An
// invalid pattern returns an ErrInvalidPattern error and false.
func (c *Conditional) Applies(args string) (bool, error) {
	if c == nil {
		return false, nil
	}
	if c.Unconditional() {
		return true, nil
	}
	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrInvalidPattern, "invalid trigger pattern /%s/", c.Pattern).
			WithDetail("pattern", c.Pattern)
	}
	return re.MatchString(args), nil
}
