//go:build !windows

package symlinks

const linkSuffix = ""
