package haml

import (
	"errors"
	"strings"

	"github.com/expr-lang/expr/file"
	exprparser "github.com/expr-lang/expr/parser"
)

// ContinuationFunc reports whether script, the code of a script line plus the
// lines already appended to it, is incomplete and should be followed by the
// next source line.
type ContinuationFunc func(script string) bool

// RubyContinuation continues a script whose last line ends with a comma. A
// character literal such as "?," does not count.
func RubyContinuation(script string) bool {
	line := script[strings.LastIndexByte(script, '\n')+1:]
	n := len(line)
	if n < 2 || line[n-1] != ',' {
		return false
	}
	if line[n-2] == '?' && (n < 3 || !isWordChar(line[n-3])) {
		return false
	}
	return !strings.HasSuffix(line, `?\,`)
}

// ExprContinuation continues a script written in the expr language
// (github.com/expr-lang/expr) while it fails to parse because the input ended
// too early, e.g. inside an argument list or a string literal.
func ExprContinuation(script string) bool {
	if strings.TrimSpace(script) == "" {
		return false
	}
	_, err := exprparser.Parse(script)
	if err == nil {
		return false
	}
	msg := err.Error()
	var fileErr *file.Error
	if errors.As(err, &fileErr) {
		msg = fileErr.Message
	}
	for _, early := range []string{"EOF", "not terminated", "unclosed"} {
		if strings.Contains(msg, early) {
			return true
		}
	}
	return false
}

func isWordChar(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}
