package internal

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger returns the diagnostics logger. User-facing results go to
// stdout with fmt; everything here goes to w, normally stderr.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Prefix: AppName,
		Level:  level,
	})
}
