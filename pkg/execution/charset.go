package execution

import (
	"strings"

	"github.com/arthur-debert/aka/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// DefaultEncoding is assumed when the console's encoding cannot be told.
const DefaultEncoding = "UTF-8"

// LookupEncoding finds an encoding by WHATWG or IANA name.
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	return nil, errors.Newf(errors.ErrCharset, "unknown character set '%s'", name).
		WithDetail("charset", name)
}

// ConsoleEncoding returns configured if set, otherwise the codeset of the
// first of LC_ALL, LC_CTYPE and LANG that names one.
func ConsoleEncoding(configured string, getenv func(string) string) string {
	if configured != "" {
		return configured
	}
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		locale := getenv(key)
		if locale == "" {
			continue
		}
		_, codeset, ok := strings.Cut(locale, ".")
		if !ok {
			// C, POSIX or a bare language: nothing more specific follows
			return DefaultEncoding
		}
		codeset, _, _ = strings.Cut(codeset, "@")
		if codeset != "" {
			return codeset
		}
	}
	return DefaultEncoding
}

// Conversion is a source to target transcoding.
type Conversion struct {
	Source string
	Target string
	from   encoding.Encoding
	to     encoding.Encoding
}

// ParseConversion reads a "SRC[,DST]" value. Missing parts default to the
// console encoding.
func ParseConversion(value, console string) (*Conversion, error) {
	src, dst, _ := strings.Cut(value, ",")
	src, dst = strings.TrimSpace(src), strings.TrimSpace(dst)
	if src == "" {
		src = console
	}
	if dst == "" {
		dst = console
	}

	from, err := LookupEncoding(src)
	if err != nil {
		return nil, err
	}
	to, err := LookupEncoding(dst)
	if err != nil {
		return nil, err
	}
	return &Conversion{Source: src, Target: dst, from: from, to: to}, nil
}

// Identity reports whether bytes pass through unchanged.
func (c *Conversion) Identity() bool {
	return c.from == c.to
}

// decoder turns source bytes into UTF-8.
func (c *Conversion) decoder() transform.Transformer {
	if c.Identity() {
		return encoding.Nop.NewDecoder()
	}
	return c.from.NewDecoder()
}

// encoder turns UTF-8 into target bytes, replacing what the target cannot
// represent.
func (c *Conversion) encoder() transform.Transformer {
	if c.Identity() {
		return encoding.Nop.NewEncoder()
	}
	return encoding.ReplaceUnsupported(c.to.NewEncoder())
}
