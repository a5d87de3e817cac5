package execution

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func fixedClock() time.Time {
	return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
}

func identity(t *testing.T) *Conversion {
	t.Helper()
	c, err := ParseConversion("", "UTF-8")
	require.NoError(t, err)
	return c
}

// chunkedReader returns at most n bytes per Read.
type chunkedReader struct {
	data []byte
	n    int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	k := c.n
	if k > len(p) {
		k = len(p)
	}
	if k > len(c.data) {
		k = len(c.data)
	}
	copy(p, c.data[:k])
	c.data = c.data[k:]
	return k, nil
}

func TestRelay_PrefixesReassembledLines(t *testing.T) {
	var out bytes.Buffer
	r := newRelay(&out, identity(t), "> ", true, 4, 9, fixedClock)
	r.newline = "\n"

	src := &chunkedReader{data: []byte("first\r\nsecond line\n\nlast"), n: 3}
	require.NoError(t, r.run(src))
	assert.Equal(t, "> first\n> second line\n> \n> last\n", out.String())
}

func TestRelay_FormatsPrefixPerLine(t *testing.T) {
	var out bytes.Buffer
	r := newRelay(&out, identity(t), "[%T %PID] ", true, 64, 4242, fixedClock)
	r.newline = "\r\n"

	require.NoError(t, r.run(strings.NewReader("a\nb\n")))
	assert.Equal(t, "[03:04:05 4242] a\r\n[03:04:05 4242] b\r\n", out.String())
}

func TestRelay_StreamsWithoutPrefix(t *testing.T) {
	var out bytes.Buffer
	r := newRelay(&out, identity(t), "", false, 2, 1, fixedClock)

	require.NoError(t, r.run(&chunkedReader{data: []byte("no newline at all"), n: 5}))
	assert.Equal(t, "no newline at all", out.String())
}

func TestRelay_Transcodes(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().String("中文输出\n")
	require.NoError(t, err)

	conv, err := ParseConversion("GBK,UTF-8", "UTF-8")
	require.NoError(t, err)

	var out bytes.Buffer
	r := newRelay(&out, conv, "", false, 3, 1, fixedClock)
	require.NoError(t, r.run(&chunkedReader{data: []byte(gbk), n: 3}))
	assert.Equal(t, "中文输出\n", out.String())

	out.Reset()
	r = newRelay(&out, conv, "* ", true, 3, 1, fixedClock)
	r.newline = "\n"
	require.NoError(t, r.run(&chunkedReader{data: []byte(gbk), n: 1}))
	assert.Equal(t, "* 中文输出\n", out.String())
}

func TestRelay_EncodesTarget(t *testing.T) {
	conv, err := ParseConversion("UTF-8,GBK", "UTF-8")
	require.NoError(t, err)

	var out bytes.Buffer
	r := newRelay(&out, conv, "", false, 8, 1, fixedClock)
	require.NoError(t, r.run(strings.NewReader("汉字")))

	want, err := simplifiedchinese.GBK.NewEncoder().String("汉字")
	require.NoError(t, err)
	assert.Equal(t, want, out.String())
}

func TestLineTerminator(t *testing.T) {
	assert.Equal(t, "\r\n", LineTerminator(""))
	assert.Equal(t, "\r\n", LineTerminator("CRLF"))
	assert.Equal(t, "\n", LineTerminator(LineEndingLF))
	assert.Equal(t, nativeNewline, LineTerminator(LineEndingNative))
	assert.Equal(t, "\r\n", LineTerminator("bogus"))
}
