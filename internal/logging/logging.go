// Package logging builds the structured logger handed to every pipeline stage.
//
// There is no package-level logger: callers create one per run and pass it
// down explicitly, which keeps runs composable in tests.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix tags every line written by the tool.
const Prefix = "depver"

// New returns a logger writing to w. Verbose runs log at debug level and
// include the caller location; otherwise info and above are shown.
func New(w io.Writer, verbose bool) *log.Logger {
	opts := log.Options{
		Prefix: Prefix,
		Level:  log.InfoLevel,
	}
	if verbose {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}
	return log.NewWithOptions(w, opts)
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
