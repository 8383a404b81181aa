package haml

import (
	"regexp"
	"strings"
)

// multilineSuffix marks a line that continues on the next one.
const multilineSuffix = " |"

// blockWithSpaces matches block arguments written with spaces around them,
// e.g. "foo.each do | bar |", which must not be read as a multiline marker.
var blockWithSpaces = regexp.MustCompile(`do\s*\|\s*[^|]*\s+\|$`)

// lineReader hands out the physical lines of a template one at a time.
type lineReader struct {
	filename string
	lines    []string
	// lineno is the number of lines consumed so far, which is also the
	// 1-based number of the most recently returned line.
	lineno int
	// joined holds the numbers of lines merged into a previous one by the
	// multiline marker and not yet turned into Empty nodes by the parser.
	joined []int
}

func newLineReader(filename, src string) *lineReader {
	var lines []string
	if src != "" {
		lines = strings.Split(src, "\n")
		if lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		for i, l := range lines {
			lines[i] = strings.TrimSuffix(l, "\r")
		}
	}
	return &lineReader{filename: filename, lines: lines}
}

func (r *lineReader) Filename() string { return r.filename }
func (r *lineReader) Lineno() int      { return r.lineno }
func (r *lineReader) HasNext() bool    { return r.lineno < len(r.lines) }

// NextLine consumes one line, merging the lines that follow it when it ends
// with the multiline marker.
func (r *lineReader) NextLine() string {
	line := r.nextRawLine()
	if !isMultiline(line) {
		return line
	}
	return r.nextMultiline(line)
}

// nextRawLine consumes one line as is.
func (r *lineReader) nextRawLine() string {
	r.lineno++
	return r.lines[r.lineno-1]
}

// backup un-reads the last raw line.
func (r *lineReader) backup() {
	r.lineno--
}

// takeJoined returns and forgets the numbers of the merged lines.
func (r *lineReader) takeJoined() []int {
	joined := r.joined
	r.joined = nil
	return joined
}

func (r *lineReader) nextMultiline(line string) string {
	line = strings.TrimRight(line, whitespace)
	var buf strings.Builder
	buf.WriteString(line[:len(line)-1])
	for r.HasNext() {
		next := r.nextRawLine()
		if !isMultiline(next) {
			r.backup()
			break
		}
		next = strings.Trim(next, whitespace)
		buf.WriteString(next[:len(next)-1])
		r.joined = append(r.joined, r.lineno)
	}
	return buf.String()
}

// isMultiline reports whether line carries the multiline marker. A lone "|"
// is plain text.
func isMultiline(line string) bool {
	line = strings.Trim(line, whitespace)
	return strings.HasSuffix(line, multilineSuffix) && !blockWithSpaces.MatchString(line)
}

const whitespace = " \t\r\n\f"
