//go:build windows

package resolver

var defaultExtensions = []string{".exe", ".cmd", ".bat", ".com"}
