// SPDX-License-Identifier: Apache-2.0

package gobench

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ColorLogHandler renders log lines to an io.Writer with severity-coded
// colors: debug dimmed, info plain, warn yellow.
type ColorLogHandler struct {
	Out io.Writer

	debug *color.Color
	warn  *color.Color
}

// NewColorLogHandler returns a LogHandler writing colored text lines to out.
func NewColorLogHandler(out io.Writer) *ColorLogHandler {
	return &ColorLogHandler{
		Out:   out,
		debug: color.New(color.Faint),
		warn:  color.New(color.FgYellow),
	}
}

func (h *ColorLogHandler) Log(level Level, message string) {
	switch level {
	case LevelDebug:
		h.debug.Fprintf(h.Out, "debug: %s\n", message)
	case LevelWarn:
		h.warn.Fprintf(h.Out, "warn: %s\n", message)
	default:
		fmt.Fprintf(h.Out, "%s\n", message)
	}
}

var _ LogHandler = (*ColorLogHandler)(nil)
