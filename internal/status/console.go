// Package status renders Resolver notifications for people and machines.
package status

import (
	"io"

	"github.com/cameronsjo/racoon/internal/manifest"
	"github.com/cameronsjo/racoon/internal/ui"
)

// Console prints one line per notification in the racoon style.
type Console struct {
	w io.Writer
}

var _ manifest.Observer = (*Console)(nil)

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) ManifestParsingStart(name string) {
	ui.Running(c.w, "Running manifest %q", name)
}

func (c *Console) ManifestParsingEnd(name string) {
	ui.Done(c.w, "Manifest %q succeeded...", name)
}

func (c *Console) FileStart(src, dst string, persist bool) {
	if persist {
		ui.Document(c.w, "Copying file from %s to %s", src, dst)
		return
	}
	ui.Document(c.w, "Loading file from %s", src)
}

func (c *Console) FileEnd(src, _ string, persist, failed bool) {
	if !failed {
		return
	}
	if persist {
		ui.Failure(c.w, "Error: Could not copy file %s", src)
		return
	}
	ui.Failure(c.w, "Error: Could not load file %s", src)
}

func (c *Console) VerifyStart(string) {}

func (c *Console) VerifyEnd(path string, failed bool) {
	if failed {
		ui.Failure(c.w, "Error: File %s validation failed", path)
	}
}
