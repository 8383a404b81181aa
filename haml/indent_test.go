package haml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitIndent(t *testing.T) {
	tr := newIndentTracker("a.haml")

	width, text, err := tr.splitIndent("  %p", 1)
	require.NoError(t, err)
	require.Equal(t, 2, width)
	require.Equal(t, "%p", text)

	width, text, err = tr.splitIndent("%p\tx", 1)
	require.NoError(t, err)
	require.Equal(t, 0, width)
	require.Equal(t, "%p\tx", text)

	for _, line := range []string{"\t%p", "  \t%p"} {
		_, _, err = tr.splitIndent(line, 7)
		require.Equal(t, &HardTabError{Filename: "a.haml", Lineno: 7}, err)
	}
}

func TestIndentTracker(t *testing.T) {
	type step struct {
		width  int
		action indentAction
		pops   int
	}
	tr := newIndentTracker("")
	for i, s := range []step{
		{0, indentHold, 0},
		{2, indentPush, 0},
		{4, indentPush, 0},
		{4, indentHold, 0},
		{2, indentPop, 1},
		{4, indentPush, 0},
		{6, indentPush, 0},
		{0, indentPop, 3},
	} {
		action, pops, err := tr.observe(s.width, i+1)
		require.NoError(t, err)
		require.Equal(t, s.action, action, "line %d", i+1)
		require.Equal(t, s.pops, pops, "line %d", i+1)
		if action == indentPush {
			require.NoError(t, tr.checkStep(i+1))
		}
	}
	require.Equal(t, 0, tr.depth())
	require.Equal(t, 0, tr.current())
}

func TestIndentTrackerMismatch(t *testing.T) {
	tr := newIndentTracker("a.haml")
	for i, w := range []int{0, 4, 8} {
		_, _, err := tr.observe(w, i+1)
		require.NoError(t, err)
		if w > 0 {
			require.NoError(t, tr.checkStep(i+1))
		}
	}
	action, pops, err := tr.observe(2, 4)
	require.Equal(t, indentPop, action)
	require.Equal(t, 2, pops)
	require.Equal(t, &IndentMismatchError{
		Filename:     "a.haml",
		Lineno:       4,
		CurrentLevel: 2,
		IndentLevels: []int{0},
	}, err)
	require.Equal(t, "a.haml:4: Unmatched indent level 2, expected one of [0]", err.Error())
}

func TestIndentTrackerStep(t *testing.T) {
	tr := newIndentTracker("")
	_, _, _ = tr.observe(0, 1)
	_, _, _ = tr.observe(2, 2)
	require.NoError(t, tr.checkStep(2))

	action, _, err := tr.observe(6, 3)
	require.NoError(t, err)
	require.Equal(t, indentPush, action)
	require.Equal(t, &InconsistentIndentError{Lineno: 3, PreviousSize: 2, CurrentSize: 4}, tr.checkStep(3))
}

func TestIndentTrackerComment(t *testing.T) {
	tr := newIndentTracker("")
	_, _, _ = tr.observe(0, 1)

	action, _, err := tr.observe(2, 2)
	require.NoError(t, err)
	require.Equal(t, indentPush, action)
	tr.enterComment()

	// Lines deeper than the comment are not tracked, whatever their width.
	for i, w := range []int{6, 4, 3} {
		action, _, err = tr.observe(w, i+3)
		require.NoError(t, err)
		require.Equal(t, indentHold, action)
	}
	require.Equal(t, 1, tr.depth())

	action, pops, err := tr.observe(0, 6)
	require.NoError(t, err)
	require.Equal(t, indentPop, action)
	require.Equal(t, 1, pops)

	// Back to normal tracking.
	action, _, err = tr.observe(2, 7)
	require.NoError(t, err)
	require.Equal(t, indentPush, action)
}
