package main

import (
	_ "embed"
)

//go:embed help.md
var msgHelp string

const (
	MsgRootShort = "Launch programs through configurable aliases"

	MsgRebuildSummary = "Resolved %d aliases, %d failed.\n"
	MsgRebuildFailure = "  line %d: %s\n"
	MsgLinksSummary   = "Links: %d created, %d removed, %d kept.\n"
	MsgLinkSkipped    = "  %s: occupied by another file, left alone\n"
	MsgLinkFailed     = "  %s: %v\n"
	MsgVersionFormat  = "aka version %s\nCommit: %s\nBuilt:  %s\n"
)
