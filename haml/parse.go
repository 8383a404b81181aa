package haml

import (
	"io"
	"log/slog"
	"strings"
)

// Parser parses templates into trees. The zero value is ready to use and a
// Parser may be shared by concurrent Parse calls.
type Parser struct {
	// Filename is recorded in every node and error.
	Filename string

	// Continuation decides whether a script is continued on the next line.
	// Defaults to RubyContinuation.
	Continuation ContinuationFunc

	// Logger receives debug records about the parse. Defaults to discarding
	// them.
	Logger *slog.Logger
}

// Parse parses src with the default settings.
func Parse(src, filename string) (*Root, error) {
	p := &Parser{Filename: filename}
	return p.Parse(src)
}

// Parse parses src. The first malformed construct aborts the parse; the error
// implements Error.
func (cfg *Parser) Parse(src string) (*Root, error) {
	p := &parser{
		r:      newLineReader(cfg.Filename, src),
		indent: newIndentTracker(cfg.Filename),
		cont:   cfg.Continuation,
		log:    cfg.Logger,
	}
	if p.cont == nil {
		p.cont = RubyContinuation
	}
	if p.log == nil {
		p.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	root := &Root{}
	p.stack.push(root)
	p.log.Debug("parse started", "filename", cfg.Filename, "lines", len(p.r.lines))

	for p.r.HasNext() {
		if err := p.parseLine(); err != nil {
			p.log.Debug("parse failed", "filename", cfg.Filename, "error", err)
			return nil, err
		}
	}
	if p.filter != nil {
		p.filter.finish(p.stack.top())
		p.filter = nil
	}

	p.log.Debug("parse finished", "filename", cfg.Filename, "children", len(root.Children()))
	return root, nil
}

// A parser holds the state of one Parse call.
type parser struct {
	r      *lineReader
	indent *indentTracker
	// stack holds the open scopes, the root at the bottom.
	stack nodeStack
	// filter is the filter block being collected, if any.
	filter *filterParser
	cont   ContinuationFunc
	log    *slog.Logger
	// lineno is the line where the construct being parsed begins.
	lineno int
}

func (p *parser) pos() Position {
	return Position{Filename: p.r.Filename(), Lineno: p.lineno}
}

func (p *parser) syntaxError(msg string) error {
	return &SyntaxError{Filename: p.r.Filename(), Lineno: p.r.Lineno(), Msg: msg}
}

func (p *parser) syntaxErrorAt(lineno int, msg string) error {
	return &SyntaxError{Filename: p.r.Filename(), Lineno: lineno, Msg: msg}
}

// parseLine consumes one logical line.
func (p *parser) parseLine() error {
	p.lineno = p.r.Lineno() + 1

	if p.filter != nil {
		if p.filter.append(p.r.nextRawLine(), p.lineno) {
			return nil
		}
		p.filter.finish(p.stack.top())
		p.filter = nil
		p.r.backup()
		p.lineno = p.r.Lineno() + 1
	}

	line := p.r.NextLine()
	if strings.Trim(line, whitespace) == "" {
		p.stack.top().AppendChild(&Empty{Position: p.pos()})
		return nil
	}

	width, text, err := p.indent.splitIndent(line, p.lineno)
	if err != nil {
		return err
	}
	action, pops, err := p.indent.observe(width, p.lineno)
	switch action {
	case indentPush:
		if err := p.enterScope(); err != nil {
			return err
		}
	case indentPop:
		for i := 0; i < pops; i++ {
			p.stack.pop()
		}
	}
	if err != nil {
		return err
	}

	n, err := p.parseContent(text)
	if err != nil {
		return err
	}
	scope := p.stack.top()
	if n != nil {
		scope.AppendChild(n)
	}
	for _, lineno := range p.r.takeJoined() {
		scope.AppendChild(&Empty{Position: Position{Filename: p.r.Filename(), Lineno: lineno}})
	}
	return nil
}

// enterScope opens the last node of the current scope for the line being
// parsed, which is indented one level deeper. Blank lines between the node and
// the line move into the node.
func (p *parser) enterScope() error {
	scope := p.stack.top()
	children := scope.Children()
	i := len(children) - 1
	for i >= 0 {
		if _, ok := children[i].(*Empty); !ok {
			break
		}
		i--
	}
	if i < 0 {
		return p.syntaxErrorAt(p.lineno, "Indenting at the beginning of the document is illegal")
	}

	var target container
	switch n := children[i].(type) {
	case *Text:
		return p.syntaxErrorAt(p.lineno, "Illegal nesting: nesting within plain text is illegal")
	case *Doctype:
		return p.syntaxErrorAt(p.lineno, "Illegal nesting: nesting within a header command is illegal")
	case *Element:
		if n.SelfClosing {
			return p.syntaxErrorAt(p.lineno, "Illegal nesting: nesting within a self-closing tag is illegal")
		}
		if n.OnelineChild != nil {
			return p.syntaxErrorAt(p.lineno,
				"Illegal nesting: content can't be both given on the same line as %"+n.TagName+" and nested within it")
		}
		target = n
	case *HTMLComment:
		if n.Comment != "" {
			return p.syntaxErrorAt(p.lineno,
				"Illegal nesting: nesting within a html comment that already has content is illegal.")
		}
		target = n
	case *HamlComment:
		p.indent.enterComment()
		target = n
	case container:
		target = n
	default:
		return p.syntaxErrorAt(p.lineno, "Illegal nesting: nesting within plain text is illegal")
	}

	if _, ok := target.(*HamlComment); !ok {
		if err := p.indent.checkStep(p.lineno); err != nil {
			return err
		}
	}

	for _, n := range scope.truncate(i + 1) {
		target.AppendChild(n)
	}
	p.stack.push(target)
	return nil
}

// parseContent parses the text of a line, without its indentation. Filters
// produce no node here; their body is collected by later calls.
func (p *parser) parseContent(text string) (Node, error) {
	if _, ok := p.stack.top().(*HamlComment); ok {
		return p.text(text, true), nil
	}

	switch text[0] {
	case '\\':
		return p.text(text[1:], true), nil
	case '%':
		return p.parseElement(text)
	case '.':
		return p.parseElement("%div" + text)
	case '#':
		if strings.HasPrefix(text, "#{") {
			return p.parseInline(text)
		}
		return p.parseElement("%div" + text)
	case '!':
		if strings.HasPrefix(text, "!!!") {
			return &Doctype{Position: p.pos(), Doctype: strings.Trim(text[3:], whitespace)}, nil
		}
		return p.parseInline(text)
	case '/':
		return p.parseHTMLComment(text)
	case '-':
		if strings.HasPrefix(text, "-#") {
			return &HamlComment{Position: p.pos()}, nil
		}
		return p.parseSilentScript(text), nil
	case ':':
		return nil, p.parseFilter(text)
	}
	return p.parseInline(text)
}

// parseHTMLComment parses a "/" line with an optional [condition].
func (p *parser) parseHTMLComment(text string) (*HTMLComment, error) {
	text = strings.Trim(text[1:], whitespace)
	c := &HTMLComment{Position: p.pos()}
	if strings.HasPrefix(text, "[") {
		end, _ := balance(text, 1, '[', ']', 1, plainRules)
		if end < 0 {
			return nil, p.syntaxError("Unmatched brackets in conditional comment")
		}
		c.Conditional = text[1 : end-1]
		text = strings.TrimLeft(text[end:], whitespace)
	}
	c.Comment = text
	return c, nil
}
