// Package haml parses Haml templates into a tree of nodes. It does not
// evaluate the embedded code or render HTML.
package haml

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching parse failures with errors.Is.
var (
	ErrSyntax             = errors.New("syntax error")
	ErrHardTab            = errors.New("hard tab not allowed")
	ErrInconsistentIndent = errors.New("inconsistent indent")
	ErrIndentMismatch     = errors.New("indent mismatch")
)

// Kind classifies a parse failure.
type Kind int

const (
	KindSyntax Kind = iota + 1
	KindHardTab
	KindInconsistentIndent
	KindIndentMismatch
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	case KindHardTab:
		return "HardTabNotAllowed"
	case KindInconsistentIndent:
		return "InconsistentIndent"
	case KindIndentMismatch:
		return "IndentMismatch"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is implemented by every failure returned from Parse.
type Error interface {
	error
	Kind() Kind
	Line() int
}

var (
	_ Error = (*SyntaxError)(nil)
	_ Error = (*HardTabError)(nil)
	_ Error = (*InconsistentIndentError)(nil)
	_ Error = (*IndentMismatchError)(nil)
)

// location prefixes msg with "file:line: ".
func location(filename string, lineno int, msg string) string {
	if filename == "" {
		return fmt.Sprintf("line %d: %s", lineno, msg)
	}
	return fmt.Sprintf("%s:%d: %s", filename, lineno, msg)
}

// SyntaxError reports malformed template syntax.
type SyntaxError struct {
	Filename string
	Lineno   int
	Msg      string
}

func (e *SyntaxError) Error() string { return location(e.Filename, e.Lineno, e.Msg) }
func (e *SyntaxError) Unwrap() error { return ErrSyntax }
func (e *SyntaxError) Kind() Kind    { return KindSyntax }
func (e *SyntaxError) Line() int     { return e.Lineno }

// HardTabError reports a tab character in the leading indentation of a line.
type HardTabError struct {
	Filename string
	Lineno   int
}

func (e *HardTabError) Error() string {
	return location(e.Filename, e.Lineno, "Indenting with hard tabs is not allowed")
}
func (e *HardTabError) Unwrap() error { return ErrHardTab }
func (e *HardTabError) Kind() Kind    { return KindHardTab }
func (e *HardTabError) Line() int     { return e.Lineno }

// InconsistentIndentError reports a nested line whose indentation step differs
// from the step the document established with its first nested line.
type InconsistentIndentError struct {
	Filename string
	Lineno   int

	// PreviousSize is the established per-level increment.
	PreviousSize int
	// CurrentSize is the increment used by the offending line.
	CurrentSize int
}

func (e *InconsistentIndentError) Error() string {
	return location(e.Filename, e.Lineno, fmt.Sprintf(
		"Inconsistent indentation: %d spaces used for indentation, but the rest of the document was indented using %d spaces",
		e.CurrentSize, e.PreviousSize))
}
func (e *InconsistentIndentError) Unwrap() error { return ErrInconsistentIndent }
func (e *InconsistentIndentError) Kind() Kind    { return KindInconsistentIndent }
func (e *InconsistentIndentError) Line() int     { return e.Lineno }

// IndentMismatchError reports a dedent to a width that matches none of the
// currently open levels.
type IndentMismatchError struct {
	Filename string
	Lineno   int

	// CurrentLevel is the indentation width of the offending line.
	CurrentLevel int
	// IndentLevels holds the widths still open after unwinding deeper levels.
	IndentLevels []int
}

func (e *IndentMismatchError) Error() string {
	return location(e.Filename, e.Lineno, fmt.Sprintf(
		"Unmatched indent level %d, expected one of %v", e.CurrentLevel, e.IndentLevels))
}
func (e *IndentMismatchError) Unwrap() error { return ErrIndentMismatch }
func (e *IndentMismatchError) Kind() Kind    { return KindIndentMismatch }
func (e *IndentMismatchError) Line() int     { return e.Lineno }
