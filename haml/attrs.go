package haml

import (
	"regexp"
	"strings"
)

// trailingComma is the continuation policy of {...} lists: the next line is
// pulled only when the text so far ends with a comma.
var trailingComma = regexp.MustCompile(`,\s*$`)

// elementAttrs holds the attribute lists that follow a tag.
type elementAttrs struct {
	legacy    *string // {...}
	keyword   *string // (...), normalized
	objectRef *string // [...]
}

// text joins the legacy and the normalized keyword lists.
func (a elementAttrs) text() string {
	var parts []string
	if a.legacy != nil && *a.legacy != "" {
		parts = append(parts, *a.legacy)
	}
	if a.keyword != nil && *a.keyword != "" {
		parts = append(parts, *a.keyword)
	}
	return strings.Join(parts, ", ")
}

// parseAttrs consumes the attribute lists at the start of rest. Each kind is
// accepted once; a repeated list is left in the returned rest.
func (p *parser) parseAttrs(rest string) (elementAttrs, string, error) {
	var attrs elementAttrs
	for rest != "" {
		var (
			s   string
			err error
		)
		switch rest[0] {
		case '{':
			if attrs.legacy != nil {
				return attrs, rest, nil
			}
			s, rest, err = p.parseLegacyAttrs(rest)
			attrs.legacy = &s
		case '(':
			if attrs.keyword != nil {
				return attrs, rest, nil
			}
			s, rest, err = p.parseKeywordAttrs(rest)
			attrs.keyword = &s
		case '[':
			if attrs.objectRef != nil {
				return attrs, rest, nil
			}
			s, rest, err = p.parseObjectRef(rest)
			attrs.objectRef = &s
		default:
			return attrs, rest, nil
		}
		if err != nil {
			return attrs, "", err
		}
	}
	return attrs, rest, nil
}

// parseLegacyAttrs captures a hash-literal list verbatim.
func (p *parser) parseLegacyAttrs(text string) (string, string, error) {
	sc := newDelimScanner(text, 1, '{', '}', 1, rubyRules)
	for !sc.scan() {
		if !trailingComma.MatchString(sc.input) || !p.r.HasNext() {
			return "", "", p.syntaxError("Unmatched brace")
		}
		p.pull(sc)
	}
	attrs, rest := sc.span(0)
	return attrs, rest, nil
}

// parseKeywordAttrs captures an HTML-style key=value list and rewrites it as
// hash pairs. An unterminated list always pulls the next line.
func (p *parser) parseKeywordAttrs(text string) (string, string, error) {
	sc := newDelimScanner(text, 1, '(', ')', 1, htmlAttrsRules)
	for !sc.scan() {
		if !p.r.HasNext() {
			switch {
			case sc.inInterp():
				return "", "", p.syntaxError("Invalid attribute list (mismatched interpolation)")
			case sc.inString():
				return "", "", p.syntaxError("Invalid attribute list (mismatched quotation)")
			}
			return "", "", p.syntaxError("Unmatched paren")
		}
		p.pull(sc)
	}
	list, rest := sc.span(0)
	attrs, err := p.normalizeAttrList(list)
	if err != nil {
		return "", "", err
	}
	return attrs, rest, nil
}

// parseObjectRef captures the text between [ and ].
func (p *parser) parseObjectRef(text string) (string, string, error) {
	sc := newDelimScanner(text, 1, '[', ']', 1, rubyRules)
	if !sc.scan() {
		return "", "", p.syntaxError("Unmatched brackets for object reference")
	}
	ref, rest := sc.span(0)
	return ref, rest, nil
}

// pull feeds the next source line to sc. Whatever follows the list now
// starts on that line.
func (p *parser) pull(sc *delimScanner) {
	sc.feed("\n" + p.r.NextLine())
	p.lineno = p.r.Lineno()
	p.log.Debug("attribute list continues", "filename", p.r.Filename(), "lineno", p.lineno)
}

// normalizeAttrList rewrites `a=1 b="x" c` as `"a" => 1,"b" => "x","c" => true,`.
// Line breaks between pairs are kept after the pair's comma.
func (p *parser) normalizeAttrList(s string) (string, error) {
	var (
		buf strings.Builder
		pos int
	)
	skipSpace := func() int {
		n := 0
		for pos < len(s) && isAttrSpace(s[pos]) {
			if s[pos] == '\n' {
				n++
			}
			pos++
		}
		return n
	}

	buf.WriteString(strings.Repeat("\n", skipSpace()))
	for pos < len(s) {
		start := pos
		for pos < len(s) && isKeyChar(s[pos]) {
			pos++
		}
		if pos == start {
			return "", p.syntaxError("Invalid attribute list (missing attribute name)")
		}
		key := s[start:pos]
		newlines := skipSpace()

		value := "true"
		if pos < len(s) && s[pos] == '=' {
			pos++
			newlines += skipSpace()
			var err error
			if value, err = p.scanAttrValue(s, &pos); err != nil {
				return "", err
			}
		}
		newlines += skipSpace()

		buf.WriteString(`"` + key + `" => ` + value + ",")
		buf.WriteString(strings.Repeat("\n", newlines))
	}
	return buf.String(), nil
}

var attrVariable = regexp.MustCompile(`^(?:@@?|\$)?\w+`)

// scanAttrValue reads a quoted string or a variable reference at *pos.
// Quoted values are returned double-quoted; interpolation is kept as is.
func (p *parser) scanAttrValue(s string, pos *int) (string, error) {
	if *pos >= len(s) || (s[*pos] != '"' && s[*pos] != '\'') {
		v := attrVariable.FindString(s[*pos:])
		if v == "" {
			return "", p.syntaxError("Invalid attribute list (invalid variable name)")
		}
		*pos += len(v)
		return v, nil
	}

	quote := s[*pos]
	start := *pos
	i := start + 1
	for {
		if i >= len(s) {
			return "", p.syntaxError("Invalid attribute list (mismatched quotation)")
		}
		switch c := s[i]; {
		case c == '\\':
			i += 2
			continue
		case c == quote:
			*pos = i + 1
			return `"` + s[start+1:i] + `"`, nil
		case c == '#' && i+1 < len(s) && s[i+1] == '{':
			end, _ := balance(s, i+2, '{', '}', 1, rubyRules)
			if end < 0 {
				return "", p.syntaxError("Invalid attribute list (mismatched interpolation)")
			}
			i = end
			continue
		}
		i++
	}
}

func isKeyChar(c byte) bool {
	return c == '-' || c == ':' || c == '_' ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func isAttrSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
