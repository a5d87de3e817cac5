package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironment_SetKeepsInsertionOrder(t *testing.T) {
	env := NewEnvironment()
	env.Set("LANG", "C")
	env.Set("PAGER", "less")
	env.Set("LANG", "en_US.UTF-8")

	assert.Equal(t, []EnvVar{
		{Name: "LANG", Value: "en_US.UTF-8"},
		{Name: "PAGER", Value: "less"},
	}, env.Vars())

	v, ok := env.Get("PAGER")
	assert.True(t, ok)
	assert.Equal(t, "less", v)
	assert.Equal(t, 2, env.Len())
}

func TestEnvironment_NilIsEmpty(t *testing.T) {
	var env *Environment
	assert.Equal(t, 0, env.Len())
	assert.Nil(t, env.Vars())
	_, ok := env.Get("X")
	assert.False(t, ok)
	assert.Equal(t, 0, env.Clone().Len())
}

func TestEnvironment_BlobRoundTrip(t *testing.T) {
	env := NewEnvironment()
	env.Set("A", "1")
	env.Set("B", "x=y")
	env.Set("EMPTY", "")

	blob := env.Blob()
	assert.Equal(t, "A=1\x00B=x=y\x00EMPTY=", blob)
	assert.Equal(t, env.Vars(), ParseEnvironmentBlob(blob).Vars())
}

func TestParseEnvironmentBlob_SkipsMalformed(t *testing.T) {
	env := ParseEnvironmentBlob("A=1\x00garbage\x00=nokey\x00B=2")
	assert.Equal(t, []EnvVar{{"A", "1"}, {"B", "2"}}, env.Vars())
	assert.Equal(t, 0, ParseEnvironmentBlob("").Len())
}

func TestEnvironment_MergeAndClone(t *testing.T) {
	base := NewEnvironment()
	base.Set("A", "1")

	clone := base.Clone()
	clone.Set("A", "2")
	clone.Set("B", "3")

	v, _ := base.Get("A")
	assert.Equal(t, "1", v, "clone must not alias the original")

	base.Merge(clone)
	assert.Equal(t, []EnvVar{{"A", "2"}, {"B", "3"}}, base.Vars())
}
