//go:build !windows

package resolver

var defaultExtensions = []string{""}
