package haml

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented outline of the tree rooted at n to w, one node or
// node property per line. The children of a Root are written at the top
// level.
func Fprint(w io.Writer, n Node) error {
	var b bytes.Buffer
	if r, ok := n.(*Root); ok {
		for _, c := range r.Children() {
			dumpLevel(&b, c, 0, "")
		}
	} else {
		dumpLevel(&b, n, 0, "")
	}
	_, err := w.Write(b.Bytes())
	return err
}

func dumpIndent(w io.Writer, level int) {
	_, _ = io.WriteString(w, "| ")
	for i := 0; i < level; i++ {
		_, _ = io.WriteString(w, "  ")
	}
}

// dumpProp writes a property line of the node at level-1.
func dumpProp(w io.Writer, level int, format string, args ...any) {
	dumpIndent(w, level)
	_, _ = fmt.Fprintf(w, format, args...)
	_, _ = io.WriteString(w, "\n")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, "\n", `\n`) + `"`
}

func dumpLevel(w io.Writer, n Node, level int, prefix string) {
	dumpIndent(w, level)
	_, _ = io.WriteString(w, prefix)
	level++
	switch n := n.(type) {
	case *Root:
		_, _ = io.WriteString(w, "(root)\n")
	case *Doctype:
		_, _ = fmt.Fprintf(w, "!!! %s\n", quote(n.Doctype))
	case *Element:
		_, _ = fmt.Fprintf(w, "<%s>\n", n.TagName)
		if n.StaticClass != "" {
			dumpProp(w, level, "class=%s", quote(n.StaticClass))
		}
		if n.StaticID != "" {
			dumpProp(w, level, "id=%s", quote(n.StaticID))
		}
		if n.AttributeText != "" {
			dumpProp(w, level, "attributes=%s", quote(n.AttributeText))
		}
		if n.ObjectRef != nil {
			dumpProp(w, level, "object_ref=%s", quote(*n.ObjectRef))
		}
		if n.SelfClosing {
			dumpProp(w, level, "self-closing")
		}
		if n.Void() {
			dumpProp(w, level, "void")
		}
		if n.NukeInnerWhitespace {
			dumpProp(w, level, "nuke-inner")
		}
		if n.NukeOuterWhitespace {
			dumpProp(w, level, "nuke-outer")
		}
		if n.OnelineChild != nil {
			dumpLevel(w, n.OnelineChild, level, "inline ")
		}
	case *Script:
		marker := "="
		if n.Preserve {
			marker = "~"
		}
		if !n.EscapeHTML {
			marker = "!" + marker
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", marker, quote(n.Script))
		if n.Keyword != "" {
			dumpProp(w, level, "keyword=%s", n.Keyword)
		}
	case *SilentScript:
		_, _ = fmt.Fprintf(w, "- %s\n", quote(n.Script))
		if n.MidBlockKeyword {
			dumpProp(w, level, "mid-block")
		}
	case *HTMLComment:
		_, _ = fmt.Fprintf(w, "<!-- %s -->\n", quote(n.Comment))
		if n.Conditional != "" {
			dumpProp(w, level, "[%s]", n.Conditional)
		}
	case *HamlComment:
		_, _ = io.WriteString(w, "-#\n")
	case *Text:
		if !n.EscapeHTML {
			_, _ = io.WriteString(w, "! ")
		}
		_, _ = fmt.Fprintf(w, "%s\n", quote(n.Text))
	case *Filter:
		_, _ = fmt.Fprintf(w, ":%s\n", n.Name)
		for _, t := range n.Texts {
			dumpProp(w, level, "%s", quote(t))
		}
	case *Empty:
		_, _ = io.WriteString(w, "(empty)\n")
	}

	if p, ok := n.(Parent); ok {
		for _, c := range p.Children() {
			dumpLevel(w, c, level, "")
		}
	}
}
