// Package hamlparser loads Haml templates into syntax trees and writes the
// trees in several formats. The parser itself lives in package haml.
package hamlparser

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/dpotapov/hamlparser/haml"
)

// Option configures the parser used by Parse, ParseFile and ParseFS.
type Option func(*haml.Parser)

// WithContinuation sets the function that decides whether a script line
// continues on the next line.
func WithContinuation(f haml.ContinuationFunc) Option {
	return func(p *haml.Parser) { p.Continuation = f }
}

// WithLogger sets the logger receiving debug records about the parse.
func WithLogger(l *slog.Logger) Option {
	return func(p *haml.Parser) { p.Logger = l }
}

// ScriptLanguages maps the names accepted by ContinuationFor to continuation
// rules.
var ScriptLanguages = map[string]haml.ContinuationFunc{
	"ruby": haml.RubyContinuation,
	"expr": haml.ExprContinuation,
}

// ContinuationFor returns the continuation rule for the named script
// language.
func ContinuationFor(lang string) (haml.ContinuationFunc, error) {
	f, ok := ScriptLanguages[lang]
	if !ok {
		names := make([]string, 0, len(ScriptLanguages))
		for name := range ScriptLanguages {
			names = append(names, name)
		}
		slices.Sort(names)
		return nil, fmt.Errorf("unknown script language %q, expected one of %v", lang, names)
	}
	return f, nil
}

// Parse parses src, reporting filename in nodes and errors.
func Parse(src []byte, filename string, opts ...Option) (*haml.Root, error) {
	p := &haml.Parser{Filename: filename}
	for _, opt := range opts {
		opt(p)
	}
	return p.Parse(string(src))
}

// ParseFile reads and parses the template at path.
func ParseFile(path string, opts ...Option) (*haml.Root, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return Parse(src, path, opts...)
}

// ParseFS reads and parses the template name from fsys.
func ParseFS(fsys fs.FS, name string, opts ...Option) (*haml.Root, error) {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return Parse(src, name, opts...)
}
