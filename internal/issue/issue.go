// Package issue classifies run failures and renders them for the operator.
//
// Every failure that reaches the command layer is an ActionableError carrying a
// Kind. The kind decides the process exit code; Format decides how much detail
// the operator sees.
package issue

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfig covers invalid flags, settings and workspace roots. Nothing has been read or written.
	KindConfig
	// KindIO covers unreadable or malformed manifests found while scanning.
	KindIO
	// KindPersist covers write failures. Manifests written before the failure stay written.
	KindPersist
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration error"
	case KindIO:
		return "I/O error"
	case KindPersist:
		return "persistence error"
	default:
		return "error"
	}
}

// ExitCode returns the process exit status for the kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindConfig:
		return 2
	case KindIO:
		return 3
	case KindPersist:
		return 4
	default:
		return 1
	}
}

type (
	// ActionableError is an error with enough context to tell the operator what
	// failed, on which file or setting, and what to try next.
	//
	//	err := issue.NewErrorContext(issue.KindIO).
	//		WithOperation("parse manifest").
	//		WithResource("packages/ui-kit/package.json").
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		Kind        Kind
		Operation   string
		Resource    string
		Suggestions []string
		Cause       error
	}

	// ErrorContext builds an ActionableError incrementally.
	ErrorContext struct {
		kind        Kind
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewErrorContext starts a builder for an error of the given kind.
func NewErrorContext(kind Kind) *ErrorContext {
	return &ErrorContext{kind: kind}
}

// Configf is shorthand for a configuration error without a cause.
func Configf(operation, format string, args ...any) error {
	return &ActionableError{
		Kind:      KindConfig,
		Operation: operation,
		Cause:     fmt.Errorf(format, args...),
	}
}

// Error returns the concise, single-line message.
func (e *ActionableError) Error() string {
	var msg strings.Builder
	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)
	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error with its suggestions. With verbose set, the full
// chain of wrapped errors follows, one per line.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Kind.String())
	msg.WriteString(": ")
	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, s := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(s)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %T: %s", depth, err, err.Error())
			depth++
		}
	}

	return msg.String()
}

// WithOperation sets the operation, a verb phrase such as "scan workspace".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the file, directory or setting involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends a hint for fixing the problem.
func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	c.suggestions = append(c.suggestions, s)
	return c
}

// Wrap sets the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build returns nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Kind:        c.kind,
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError is Build returned as an error interface, for return statements.
func (c *ErrorContext) BuildError() error {
	ae := c.Build()
	if ae == nil {
		return nil
	}
	return ae
}

// KindOf returns the kind of the first ActionableError in err's chain.
func KindOf(err error) Kind {
	var ae *ActionableError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// ExitCode returns the process exit status for err; 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}

// Format renders any error for display. Errors that are not actionable are
// shown as-is.
func Format(err error, verbose bool) string {
	var ae *ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
