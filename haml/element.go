package haml

import (
	"regexp"
	"strings"
)

var (
	elementRe     = regexp.MustCompile(`^%([-:\w]+)([-:\w.#]*)(.*)$`)
	classOrIDRe   = regexp.MustCompile(`^([#.])([-:_a-zA-Z0-9]+)`)
	nukeWhitespRe = regexp.MustCompile(`^(><|<>|[><])(.*)$`)
)

// parseElement parses a "%tag..." line.
func (p *parser) parseElement(text string) (*Element, error) {
	m := elementRe.FindStringSubmatch(text)
	if m == nil {
		return nil, p.syntaxError("Invalid element declaration")
	}

	el := &Element{Position: p.pos(), TagName: m[1]}
	var err error
	if el.StaticClass, el.StaticID, err = p.parseClassAndID(m[2]); err != nil {
		return nil, err
	}

	attrs, rest, err := p.parseAttrs(m[3])
	if err != nil {
		return nil, err
	}
	el.AttributeText = attrs.text()
	el.ObjectRef = attrs.objectRef

	if n := nukeWhitespRe.FindStringSubmatch(rest); n != nil {
		el.NukeInnerWhitespace = strings.Contains(n[1], "<")
		el.NukeOuterWhitespace = strings.Contains(n[1], ">")
		rest = n[2]
	}

	if strings.HasPrefix(rest, "/") {
		if len(rest) > 1 {
			return nil, p.syntaxError("Self-closing tags can't have content")
		}
		el.SelfClosing = true
		return el, nil
	}

	if el.OnelineChild, err = p.parseInline(rest); err != nil {
		return nil, err
	}
	return el, nil
}

// parseClassAndID splits the ".a.b#c" suffix of a tag. Classes accumulate;
// the last id wins.
func (p *parser) parseClassAndID(s string) (string, string, error) {
	var (
		classes []string
		id      string
	)
	for s != "" {
		m := classOrIDRe.FindStringSubmatch(s)
		if m == nil {
			return "", "", p.syntaxError("Illegal element: classes and ids must have values.")
		}
		if m[1] == "." {
			classes = append(classes, m[2])
		} else {
			id = m[2]
		}
		s = s[len(m[0]):]
	}
	return strings.Join(classes, " "), id, nil
}
