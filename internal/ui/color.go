// Package ui provides colored console output with a raccoon theme.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	// Colors
	Red    = color.New(color.FgRed)
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Blue   = color.New(color.FgBlue)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
)

// Raccoon prints a bold banner line.
func Raccoon(w io.Writer, format string, args ...any) {
	Bold.Fprintf(w, "🦝 "+format+"\n", args...)
}

// Running announces work that is starting.
func Running(w io.Writer, format string, args ...any) {
	Cyan.Fprintf(w, "🔸 "+format+"\n", args...)
}

// Done prints a green completion message.
func Done(w io.Writer, format string, args ...any) {
	Green.Fprintf(w, "✅ "+format+"\n", args...)
}

// Document prints an uncolored file message.
func Document(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "📄 "+format+"\n", args...)
}

// Warning prints a yellow warning message.
func Warning(w io.Writer, format string, args ...any) {
	Yellow.Fprintf(w, "⚠ "+format+"\n", args...)
}

// Failure prints a red error message.
func Failure(w io.Writer, format string, args ...any) {
	Red.Fprintf(w, "❌ "+format+"\n", args...)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// SetColor enables or disables colored output globally.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}
