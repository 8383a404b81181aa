package haml

// The delimiter scanner keeps an explicit stack of frames. It can stop at the
// end of its input and resume after the caller feeds another source line.

type frameKind int

const (
	frameCode   frameKind = iota // counting the target delimiters
	frameString                  // inside a quoted string
	frameInterp                  // inside #{...} within a string
)

type frame struct {
	kind   frameKind
	quote  byte // frameString: the closing quote
	braces int  // frameInterp: nesting of { } inside the interpolation
}

// scanRules selects what the delimiter scanner treats as opaque.
type scanRules struct {
	// quotes skips delimiters inside '...' and "..." strings.
	quotes bool
	// singleInterp makes #{...} live inside single-quoted strings too.
	singleInterp bool
}

var (
	plainRules     = scanRules{}
	rubyRules      = scanRules{quotes: true}
	htmlAttrsRules = scanRules{quotes: true, singleInterp: true}
)

// delimScanner finds the closer matching an opening delimiter.
type delimScanner struct {
	input       string
	pos         int // next byte to scan
	open, close byte
	depth       int
	rules       scanRules
	stack       []frame
}

// newDelimScanner starts scanning input at pos with the given nesting depth
// of open/close already entered.
func newDelimScanner(input string, pos int, open, close byte, depth int, rules scanRules) *delimScanner {
	return &delimScanner{
		input: input,
		pos:   pos,
		open:  open,
		close: close,
		depth: depth,
		rules: rules,
		stack: []frame{{kind: frameCode}},
	}
}

// balance scans s from pos until depth reaches zero. It returns the offset just
// past the closing delimiter, or -1 with the remaining depth when the input
// ran out first.
func balance(s string, pos int, open, close byte, depth int, rules scanRules) (int, int) {
	sc := newDelimScanner(s, pos, open, close, depth, rules)
	if sc.scan() {
		return sc.pos, 0
	}
	return -1, sc.depth
}

// feed appends more input; scanning resumes where it stopped.
func (s *delimScanner) feed(more string) {
	s.input += more
}

// scan advances until the matching closer is consumed (true) or the input is
// exhausted (false).
func (s *delimScanner) scan() bool {
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		s.pos++
		top := &s.stack[len(s.stack)-1]
		switch top.kind {
		case frameCode:
			switch {
			case s.rules.quotes && (c == '"' || c == '\''):
				s.stack = append(s.stack, frame{kind: frameString, quote: c})
			case c == s.open:
				s.depth++
			case c == s.close:
				s.depth--
				if s.depth == 0 {
					return true
				}
			}
		case frameString:
			switch {
			case c == '\\':
				if s.pos < len(s.input) {
					s.pos++
				}
			case c == top.quote:
				s.stack = s.stack[:len(s.stack)-1]
			case c == '#' && s.peek() == '{' && (top.quote == '"' || s.rules.singleInterp):
				s.pos++
				s.stack = append(s.stack, frame{kind: frameInterp, braces: 1})
			}
		case frameInterp:
			switch c {
			case '"', '\'':
				s.stack = append(s.stack, frame{kind: frameString, quote: c})
			case '{':
				top.braces++
			case '}':
				top.braces--
				if top.braces == 0 {
					s.stack = s.stack[:len(s.stack)-1]
				}
			}
		}
	}
	return false
}

func (s *delimScanner) peek() byte {
	if s.pos < len(s.input) {
		return s.input[s.pos]
	}
	return 0
}

// inString reports whether the scanner stopped inside a string or an
// interpolation.
func (s *delimScanner) inString() bool {
	return len(s.stack) > 1
}

// inInterp reports whether the scanner stopped inside a #{...} span.
func (s *delimScanner) inInterp() bool {
	for _, f := range s.stack {
		if f.kind == frameInterp {
			return true
		}
	}
	return false
}

// span returns the text between the opening delimiter at start and the
// matched closer, and the text after the closer. It is only meaningful
// after scan has returned true.
func (s *delimScanner) span(start int) (string, string) {
	return s.input[start+1 : s.pos-1], s.input[s.pos:]
}
