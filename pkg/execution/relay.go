package execution

import (
	"bytes"
	"io"
	"strings"
	"time"

	"golang.org/x/text/transform"
)

// DefaultChunkSize is the pipe read size.
const DefaultChunkSize = 4096

// Names for the terminator written after each prefixed line.
const (
	LineEndingCRLF   = "crlf"
	LineEndingLF     = "lf"
	LineEndingNative = "native"
)

// LineTerminator returns the bytes for a line ending name. Empty and
// unknown names give CRLF.
func LineTerminator(name string) string {
	switch strings.ToLower(name) {
	case LineEndingLF:
		return "\n"
	case LineEndingNative:
		return nativeNewline
	default:
		return "\r\n"
	}
}

// relay copies a child's output to out, transcoding and optionally
// prefixing every line.
type relay struct {
	out        io.Writer
	conv       *Conversion
	prefix     string
	hasPrefix  bool
	chunkSize  int
	pid        int
	now        func() time.Time
	newline    string
	staticText string
}

func newRelay(out io.Writer, conv *Conversion, prefix string, hasPrefix bool, chunkSize, pid int, now func() time.Time) *relay {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if now == nil {
		now = time.Now
	}
	r := &relay{
		out:       out,
		conv:      conv,
		prefix:    prefix,
		hasPrefix: hasPrefix,
		chunkSize: chunkSize,
		pid:       pid,
		now:       now,
		newline:   LineTerminator(LineEndingCRLF),
	}
	if !strings.Contains(prefix, "%") {
		r.staticText = prefix
	}
	return r
}

// run copies src until end of stream.
func (r *relay) run(src io.Reader) error {
	if !r.hasPrefix {
		return r.stream(src)
	}
	return r.lines(src)
}

// stream transcodes chunk by chunk without waiting for line ends.
func (r *relay) stream(src io.Reader) error {
	buf := make([]byte, r.chunkSize)
	if r.conv.Identity() {
		_, err := io.CopyBuffer(writerOnly{r.out}, readerOnly{src}, buf)
		return err
	}
	reader := transform.NewReader(src, transform.Chain(r.conv.decoder(), r.conv.encoder()))
	_, err := io.CopyBuffer(writerOnly{r.out}, readerOnly{reader}, buf)
	return err
}

// lines reassembles decoded text into lines and emits each with the prefix.
func (r *relay) lines(src io.Reader) error {
	decoded := transform.NewReader(src, r.conv.decoder())
	w := transform.NewWriter(r.out, r.conv.encoder())

	buf := make([]byte, r.chunkSize)
	var pending []byte
	for {
		n, readErr := decoded.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			for {
				idx := bytes.IndexByte(pending, '\n')
				if idx < 0 {
					break
				}
				if err := r.emit(w, pending[:idx]); err != nil {
					return err
				}
				pending = pending[idx+1:]
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}
	if len(pending) > 0 {
		if err := r.emit(w, pending); err != nil {
			return err
		}
	}
	return w.Close()
}

func (r *relay) emit(w io.Writer, line []byte) error {
	line = bytes.TrimSuffix(line, []byte("\r"))
	text := r.staticText
	if text == "" && r.prefix != "" {
		text = FormatPrefix(r.prefix, r.now(), r.pid)
	}
	out := make([]byte, 0, len(text)+len(line)+len(r.newline))
	out = append(out, text...)
	out = append(out, line...)
	out = append(out, r.newline...)
	_, err := w.Write(out)
	return err
}

// writerOnly and readerOnly hide ReadFrom/WriteTo so io.CopyBuffer really
// moves one chunk at a time.
type writerOnly struct{ io.Writer }

type readerOnly struct{ io.Reader }
