package haml

import (
	"regexp"
	"strings"
)

var filterNameRe = regexp.MustCompile(`^:(\w+)$`)

// filterParser collects the body of a ":name" block. Body lines are read raw:
// multiline markers and indentation rules do not apply inside a filter.
type filterParser struct {
	node *Filter
	// level is the indentation width of the ":name" line; body lines must be
	// deeper.
	level int
	// base is the indentation width of the first body line, stripped from
	// every line; -1 until the first body line.
	base int
	// blanks holds the numbers of blank lines not yet known to be inside
	// the body.
	blanks []int
}

// parseFilter starts a filter block.
func (p *parser) parseFilter(text string) error {
	m := filterNameRe.FindStringSubmatch(text)
	if m == nil {
		return p.syntaxError("Invalid filter name: " + text)
	}
	p.filter = &filterParser{
		node:  &Filter{Position: p.pos(), Name: m[1]},
		level: p.indent.current(),
		base:  -1,
	}
	return nil
}

// append adds a raw line to the body. It returns false when the line is not
// part of the filter; the caller then finishes the filter and handles the
// line itself.
func (f *filterParser) append(line string, lineno int) bool {
	text := strings.TrimLeft(line, " \t")
	if strings.Trim(text, whitespace) == "" {
		f.blanks = append(f.blanks, lineno)
		return true
	}
	width := len(line) - len(text)
	if width <= f.level {
		return false
	}
	if f.base < 0 {
		f.base = width
	}
	for range f.blanks {
		f.node.Texts = append(f.node.Texts, "")
	}
	f.blanks = f.blanks[:0]
	f.node.Texts = append(f.node.Texts, line[min(width, f.base):])
	return true
}

// finish appends the filter, when it has a body, and the blank lines that
// trailed it to scope.
func (f *filterParser) finish(scope Parent) {
	if len(f.node.Texts) > 0 {
		scope.AppendChild(f.node)
	}
	for _, n := range f.blanks {
		scope.AppendChild(&Empty{Position: Position{Filename: f.node.Filename, Lineno: n}})
	}
}
