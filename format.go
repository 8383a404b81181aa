package hamlparser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/beevik/etree"
	"github.com/dpotapov/hamlparser/haml"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by Format for a format name not listed by
// Formats.
var ErrUnknownFormat = errors.New("unknown format")

// A Formatter writes a parsed template to w.
type Formatter func(w io.Writer, root *haml.Root) error

var formatters = map[string]Formatter{
	"pretty": formatPretty,
	"json":   formatJSON,
	"yaml":   formatYAML,
	"xml":    formatXML,
}

// Formats returns the names accepted by Format, sorted.
func Formats() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Format writes root to w in the named format.
func Format(w io.Writer, root *haml.Root, format string) error {
	f, ok := formatters[format]
	if !ok {
		return fmt.Errorf("%w %q, expected one of %v", ErrUnknownFormat, format, Formats())
	}
	return f(w, root)
}

// formatPretty writes the indented outline of haml.Fprint.
func formatPretty(w io.Writer, root *haml.Root) error {
	return haml.Fprint(w, root)
}

func formatJSON(w io.Writer, root *haml.Root) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(haml.ToMap(root))
}

func formatYAML(w io.Writer, root *haml.Root) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(haml.ToMap(root)); err != nil {
		return err
	}
	return enc.Close()
}

// formatXML writes one XML element per node, named after the node type.
// Scalar fields become attributes, filter lines become <line> elements and an
// inline child is wrapped in <oneline_child>.
func formatXML(w io.Writer, root *haml.Root) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	buildXML(&doc.Element, haml.ToMap(root))
	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func buildXML(parent *etree.Element, m map[string]any) {
	el := parent.CreateElement(fmt.Sprint(m["type"]))

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := m[k].(type) {
		case nil:
		case map[string]any:
			buildXML(el.CreateElement(k), v)
		case []string:
			for _, line := range v {
				el.CreateElement("line").SetText(line)
			}
		case []any:
			for _, c := range v {
				if cm, ok := c.(map[string]any); ok {
					buildXML(el, cm)
				}
			}
		default:
			if k != "type" {
				el.CreateAttr(k, fmt.Sprint(v))
			}
		}
	}
}
