package haml

import (
	"regexp"
	"strings"
)

// blockKeywordRe finds the keyword a script line opens or continues a block
// with, including assignment forms such as "x = if cond".
var blockKeywordRe = regexp.MustCompile(
	`^\s*(?:(else|elsif|rescue|ensure|end|when)|(?:\w+(?:,\s*\w+)*\s*=\s*)?(if|begin|case|unless))\b`)

// blockKeyword returns the block keyword script starts with, or "".
func blockKeyword(script string) string {
	m := blockKeywordRe.FindStringSubmatch(script)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// midBlock reports whether a later sibling may continue the block opened by
// keyword ("if" ... "else", "case" ... "when").
func midBlock(keyword string) bool {
	switch keyword {
	case "if", "unless", "case", "begin", "elsif", "when", "rescue":
		return true
	}
	return false
}

// parseInline parses the content of a line, or the tail of an element line,
// into a Text or Script node. It returns nil for blank content.
func (p *parser) parseInline(text string) (Node, error) {
	if text == "" {
		return nil, nil
	}
	switch text[0] {
	case '=', '~':
		if strings.HasPrefix(text[1:], "=") {
			return p.text(strings.Trim(text[2:], whitespace), true), nil
		}
		return p.parseScript(text[1:], true, text[0] == '~')
	case '&':
		switch {
		case strings.HasPrefix(text, "&=="):
			return p.text(strings.TrimLeft(text[3:], whitespace), true), nil
		case strings.HasPrefix(text[1:], "=") || strings.HasPrefix(text[1:], "~"):
			return p.parseScript(text[2:], true, text[1] == '~')
		}
		return p.text(strings.Trim(text[1:], whitespace), true), nil
	case '!':
		switch {
		case strings.HasPrefix(text, "!=="):
			return p.text(strings.TrimLeft(text[3:], whitespace), false), nil
		case strings.HasPrefix(text[1:], "=") || strings.HasPrefix(text[1:], "~"):
			return p.parseScript(text[2:], false, text[1] == '~')
		}
		return p.text(strings.TrimLeft(text[1:], whitespace), false), nil
	}

	text = strings.TrimLeft(text, whitespace)
	if text == "" {
		return nil, nil
	}
	return p.text(text, true), nil
}

func (p *parser) text(s string, escapeHTML bool) *Text {
	return &Text{Position: p.pos(), Text: s, EscapeHTML: escapeHTML}
}

// parseScript builds a Script from the code after the "=", "~", "&=" or "!="
// marker.
func (p *parser) parseScript(code string, escapeHTML, preserve bool) (*Script, error) {
	code = strings.TrimLeft(code, whitespace)
	if code == "" {
		return nil, p.syntaxError("No code to evaluate")
	}
	s := &Script{
		Position:   p.pos(),
		Keyword:    blockKeyword(code),
		EscapeHTML: escapeHTML,
		Preserve:   preserve,
	}
	s.Script = p.continueScript(code)
	return s, nil
}

// parseSilentScript parses a "-" line.
func (p *parser) parseSilentScript(text string) *SilentScript {
	code := strings.TrimLeft(text[1:], " ")
	s := &SilentScript{
		Position:        p.pos(),
		MidBlockKeyword: midBlock(blockKeyword(code)),
	}
	s.Script = p.continueScript(code)
	return s
}

// continueScript appends the following lines to code for as long as the
// continuation predicate reports it incomplete.
func (p *parser) continueScript(code string) string {
	for p.cont(code) && p.r.HasNext() {
		code += "\n" + p.r.NextLine()
		p.log.Debug("script continues", "filename", p.r.Filename(), "lineno", p.r.Lineno())
	}
	return code
}
