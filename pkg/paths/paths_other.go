//go:build !windows

package paths

const caseInsensitiveFS = false
