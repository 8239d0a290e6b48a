// Package terminal renders provider output for an interactive shell: items,
// error records, diagnostics, progress and confirmation prompts.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// defaultWidth is used when the terminal size cannot be read.
const defaultWidth = 80

// StdinIsTerminal reports whether prompts can be answered.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// StdoutIsTerminal reports whether spinners and colors make sense.
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Width returns the terminal width, or 80 when it cannot be determined.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return defaultWidth
}

// truncate shortens s to at most n runes, marking the cut with "…".
func truncate(s string, n int) string {
	if n <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
