package haml

import (
	"strings"
)

// indentAction is the nesting transition implied by a line's indentation.
type indentAction int

const (
	indentHold indentAction = iota // same level as the previous line
	indentPush                     // one level deeper
	indentPop                      // back to an enclosing level
)

// indentTracker maps leading whitespace to nesting transitions. Level 0 is
// always open at the bottom of the stack.
type indentTracker struct {
	filename string
	levels   []int
	// step is the per-level increment fixed by the first nested line, 0
	// until then.
	step int
	// commentLevel is the width of the Haml comment whose body is being
	// skipped, -1 outside comments.
	commentLevel int
}

func newIndentTracker(filename string) *indentTracker {
	return &indentTracker{
		filename:     filename,
		levels:       []int{0},
		commentLevel: -1,
	}
}

// splitIndent separates the leading whitespace of line from its content.
// Tabs are rejected in the leading whitespace.
func (t *indentTracker) splitIndent(line string, lineno int) (int, string, error) {
	text := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(text)]
	if strings.IndexByte(indent, '\t') >= 0 {
		return 0, "", &HardTabError{Filename: t.filename, Lineno: lineno}
	}
	return len(indent), text, nil
}

// current returns the width of the innermost open level.
func (t *indentTracker) current() int {
	return t.levels[len(t.levels)-1]
}

// observe records a non-blank line of the given indentation width and
// returns the transition along with the number of levels closed by a pop.
func (t *indentTracker) observe(width, lineno int) (indentAction, int, error) {
	if t.commentLevel >= 0 {
		if width > t.commentLevel {
			return indentHold, 0, nil
		}
		t.commentLevel = -1
	}

	switch cur := t.current(); {
	case width > cur:
		t.levels = append(t.levels, width)
		return indentPush, 0, nil
	case width == cur:
		return indentHold, 0, nil
	}

	pops := 0
	for width < t.current() {
		t.levels = t.levels[:len(t.levels)-1]
		pops++
	}
	if width != t.current() {
		return indentPop, pops, &IndentMismatchError{
			Filename:     t.filename,
			Lineno:       lineno,
			CurrentLevel: width,
			IndentLevels: append([]int(nil), t.levels...),
		}
	}
	return indentPop, pops, nil
}

// checkStep validates the most recent push against the document's indent
// increment. The first push fixes the increment.
func (t *indentTracker) checkStep(lineno int) error {
	n := len(t.levels)
	size := t.levels[n-1] - t.levels[n-2]
	if t.step == 0 {
		t.step = size
		return nil
	}
	if size != t.step {
		return &InconsistentIndentError{
			Filename:     t.filename,
			Lineno:       lineno,
			PreviousSize: t.step,
			CurrentSize:  size,
		}
	}
	return nil
}

// enterComment switches to comment mode after a push into a Haml comment:
// deeper lines are not tracked until one comes back to the comment's level.
func (t *indentTracker) enterComment() {
	t.commentLevel = t.levels[len(t.levels)-2]
}

// depth returns the number of open levels above level 0.
func (t *indentTracker) depth() int {
	return len(t.levels) - 1
}
