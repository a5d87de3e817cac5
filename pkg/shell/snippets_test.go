package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDefinition(t *testing.T) {
	tests := []struct {
		arg   string
		name  string
		value string
		ok    bool
	}{
		{"ll=ls -l", "ll", "ls -l", true},
		{"empty=", "empty", "", true},
		{"eq=a=b", "eq", "a=b", true},
		{"=value", "", "", false},
		{"no-equals", "", "", false},
		{"two words=x", "", "", false},
		{"/bin/x=1", "", "", false},
	}
	for _, tt := range tests {
		name, value, ok := ParseDefinition(tt.arg)
		assert.Equal(t, tt.ok, ok, tt.arg)
		assert.Equal(t, tt.name, name, tt.arg)
		assert.Equal(t, tt.value, value, tt.arg)
	}
}

func TestAliasSnippet(t *testing.T) {
	assert.Equal(t, "alias ll='ls -l'", AliasSnippet("ll", "ls -l"))
	assert.Equal(t, `alias say='echo '\''hi'\'''`, AliasSnippet("say", "echo 'hi'"))
	assert.Equal(t, "alias e=''", AliasSnippet("e", ""))
}
