package ui_test

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/ui"
	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	inner := errors.New(errors.ErrTargetNotFound, "no file matches '/x/*'")
	outer := errors.Wrap(inner, errors.ErrTargetNotFound, "alias 'x' (line 3): cannot resolve '/x/*'")
	assert.Equal(t, "alias 'x' (line 3): cannot resolve '/x/*'", ui.Message(outer))

	wrapped := errors.Wrap(fs.ErrPermission, errors.ErrConfigRead, "cannot read ~/.alias")
	assert.Equal(t, "cannot read ~/.alias: permission denied", ui.Message(wrapped))

	assert.Equal(t, assert.AnError.Error(), ui.Message(assert.AnError))
}

func TestRenderError(t *testing.T) {
	var out bytes.Buffer
	err := errors.New(errors.ErrAliasNotFound, "alias 'x' not found").
		WithDetail("alias", "x").
		WithDetail("line", 4)

	ui.RenderError(&out, err, false, false)
	assert.Equal(t, "aka: alias 'x' not found\n", out.String())

	out.Reset()
	ui.RenderError(&out, err, false, true)
	assert.Equal(t, "aka: alias 'x' not found\n  alias: x\n  line: 4\n", out.String())

	out.Reset()
	ui.RenderError(&out, nil, false, true)
	assert.Empty(t, out.String())
}

func TestRenderMarkdown(t *testing.T) {
	assert.Equal(t, "# Title", ui.RenderMarkdown("# Title", false, 0))
	assert.Contains(t, ui.RenderMarkdown("# Title\n\nbody", true, 60), "Title")
}
