//go:build !windows

package execution

const nativeNewline = "\n"
