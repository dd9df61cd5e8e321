package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// diagnostics prints messages meant for the file manager's user.
type diagnostics struct {
	w   io.Writer
	red *color.Color
}

func newDiagnostics(w io.Writer) *diagnostics {
	red := color.New(color.FgRed)
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		red.DisableColor()
	}
	return &diagnostics{w: w, red: red}
}

// Error prints an error message in red.
func (d *diagnostics) Error(format string, args ...any) {
	d.red.Fprintf(d.w, "Error: "+format+"\n", args...)
}

// Usage prints an invocation error.
func (d *diagnostics) Usage(format string, args ...any) {
	d.red.Fprintf(d.w, "Usage error: "+format+"\n", args...)
}
