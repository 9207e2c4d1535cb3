package ui

import (
	"fmt"
	"io"
)

// Progress numbers the steps of a fixed-size batch, one line per step.
type Progress struct {
	out   io.Writer
	total int
	done  int
}

// NewProgress creates a progress tracker for total steps. A nil writer
// discards output.
func NewProgress(out io.Writer, total int) *Progress {
	if out == nil {
		out = io.Discard
	}
	return &Progress{out: out, total: total}
}

// Done marks one step as completed and prints it.
func (p *Progress) Done(format string, args ...any) {
	p.done++
	_, _ = fmt.Fprintf(p.out, "[%d/%d] %s\n", p.done, p.total, SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

// Completed returns the number of finished steps.
func (p *Progress) Completed() int {
	return p.done
}
