package ui

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

// Table renders rows of data in aligned columns. The header line is styled
// after alignment so escape codes never count toward column widths.
type Table struct {
	out    io.Writer
	buf    bytes.Buffer
	w      *tabwriter.Writer
	header lipgloss.Style
	rows   int
}

// NewTable creates a table writer with the given column headers.
func NewTable(out io.Writer, headers ...string) *Table {
	t := &Table{out: out, header: HeaderStyle}
	t.w = tabwriter.NewWriter(&t.buf, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(t.w, strings.Join(headers, "\t"))
	return t
}

// Row appends a row of values. Empty strings are shown as "-".
func (t *Table) Row(values ...any) {
	parts := make([]string, len(values))
	for i, v := range values {
		s := fmt.Sprintf("%v", v)
		if s == "" {
			s = "-"
		}
		parts[i] = s
	}
	_, _ = fmt.Fprintln(t.w, strings.Join(parts, "\t"))
	t.rows++
}

// Len returns the number of rows added so far.
func (t *Table) Len() int {
	return t.rows
}

// Flush aligns the buffered rows and writes them out.
func (t *Table) Flush() error {
	if err := t.w.Flush(); err != nil {
		return err
	}
	header, rest, _ := strings.Cut(t.buf.String(), "\n")
	t.buf.Reset()
	if _, err := fmt.Fprintln(t.out, t.header.Render(header)); err != nil {
		return err
	}
	_, err := io.WriteString(t.out, rest)
	return err
}
