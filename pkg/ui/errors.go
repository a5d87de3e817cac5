package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/charmbracelet/lipgloss"
)

var (
	errorLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF6B6B"})
	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#616161", Dark: "#9E9E9E"})
)

// RenderError writes err for the user. Structured errors show their message
// and, in verbose mode, their details.
func RenderError(w io.Writer, err error, styled, verbose bool) {
	if err == nil {
		return
	}

	label := "aka:"
	if styled {
		label = errorLabel.Render(label)
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", label, Message(err))

	if !verbose {
		return
	}
	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line := fmt.Sprintf("  %s: %v", k, details[k])
		if styled {
			line = detailStyle.Render(line)
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

// Message returns the human part of err, without the code prefix.
func Message(err error) string {
	var parts []string
	for err != nil {
		akaErr, ok := err.(*errors.AkaError)
		if !ok {
			parts = append(parts, err.Error())
			break
		}
		parts = append(parts, akaErr.Message)
		err = akaErr.Wrapped
		if err != nil && errors.GetErrorCode(err) != errors.ErrUnknown {
			// nested aka errors repeat context, keep only the outermost
			break
		}
	}
	return strings.Join(parts, ": ")
}
