package execution

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsFor(path, args string) *types.Settings {
	s := types.NewSettings()
	s.Key, s.Name, s.Path, s.Args = "tool", "tool", path, args
	return s
}

func TestBuild(t *testing.T) {
	s := settingsFor("/opt/My Tools/tool", `-x "two words"`)

	cl, err := Build(s, []string{"plain", "with space", `"already quoted"`})
	require.NoError(t, err)

	assert.Equal(t, []string{"/opt/My Tools/tool", "-x", "two words", "plain", "with space", `"already quoted"`}, cl.Argv)
	assert.Equal(t, `"/opt/My Tools/tool" -x "two words" plain "with space" "already quoted"`, cl.Display)
	assert.Equal(t, cl.Display, cl.String())
	assert.Equal(t, `plain with space "already quoted"`, cl.Joined)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(settingsFor("", ""), nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetNotFound))

	_, err = Build(settingsFor("/bin/x", `"unterminated`), nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidDirective))
}

func TestQuoteArg(t *testing.T) {
	assert.Equal(t, "a", QuoteArg("a"))
	assert.Equal(t, `"a b"`, QuoteArg("a b"))
	assert.Equal(t, `"a b"`, QuoteArg(`"a b"`))
	assert.Equal(t, "", QuoteArg(""))
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", "c.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	pattern := filepath.Join(dir, "*.txt")
	none := filepath.Join(dir, "*.none")

	got := ExpandArgs([]string{"-v", pattern, pattern, none}, func(i int) bool { return i == 3 })
	assert.Equal(t, []string{
		"-v",
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		pattern,
		none,
	}, got)

	assert.Empty(t, ExpandArgs(nil, nil))
}

func TestBuild_ExpandsUnexcludedArgs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "only.txt"), nil, 0644))
	pattern := filepath.Join(dir, "*.txt")

	s := settingsFor("/bin/cat", "")
	s.ExclArgs = []int{2}
	cl, err := Build(s, []string{pattern, pattern})
	require.NoError(t, err)
	assert.Equal(t, []string{"/bin/cat", filepath.Join(dir, "only.txt"), pattern}, cl.Argv)
	assert.Equal(t, pattern+" "+pattern, cl.Joined)
}

func TestBuildEnv(t *testing.T) {
	s := types.NewSettings()
	s.Env.Set("TOOLS", "$HOME/tools")
	s.Env.Set("PATH", "${TOOLS}/bin:$PATH")

	env := BuildEnv([]string{"HOME=/h", "PATH=/bin", "junk"}, s, types.EnvVar{Name: "AKA_DEPTH", Value: "3"})
	assert.Equal(t, []string{"HOME=/h", "PATH=/h/tools/bin:/bin", "TOOLS=/h/tools", "AKA_DEPTH=3"}, env)
}
