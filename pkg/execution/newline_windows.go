//go:build windows

package execution

const nativeNewline = "\r\n"
