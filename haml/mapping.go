package haml

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/fatih/camelcase"
)

// ToMap converts n to nested maps of plain values, suitable for encoding as
// JSON or YAML. Every map has a "type" key with the snake_case node type
// ("element", "silent_script", ...), one snake_case key per node field and,
// for nodes with children, a "children" list. Absent optional values are nil.
// Elements also get a "void" key, which FromMap ignores.
func ToMap(n Node) map[string]any {
	v := reflect.ValueOf(n).Elem()
	m := map[string]any{"type": typeTag(v.Type())}
	encodeFields(v, m)
	if el, ok := n.(*Element); ok {
		m["void"] = el.Void()
	}
	if p, ok := n.(Parent); ok {
		children := make([]any, 0, len(p.Children()))
		for _, c := range p.Children() {
			children = append(children, ToMap(c))
		}
		m["children"] = children
	}
	return m
}

var (
	nodeType      = reflect.TypeOf((*Node)(nil)).Elem()
	containerType = reflect.TypeOf(Container{})
	positionType  = reflect.TypeOf(Position{})
)

// nodeTypes maps type tags to the node struct types.
var nodeTypes = func() map[string]reflect.Type {
	m := make(map[string]reflect.Type)
	for _, n := range []Node{
		&Root{}, &Doctype{}, &Element{}, &Script{}, &SilentScript{},
		&HTMLComment{}, &HamlComment{}, &Text{}, &Filter{}, &Empty{},
	} {
		t := reflect.TypeOf(n).Elem()
		m[typeTag(t)] = t
	}
	return m
}()

func typeTag(t reflect.Type) string {
	return toSnakeCase(t.Name())
}

// encodeFields stores the fields of the node struct v in m. Position fields
// are flattened; children are handled by the caller.
func encodeFields(v reflect.Value, m map[string]any) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		switch {
		case f.Type == containerType:
			continue
		case f.Type == positionType:
			encodeFields(v.Field(i), m)
			continue
		}

		fv := v.Field(i)
		switch {
		case f.Type == nodeType:
			if fv.IsNil() {
				m[fieldName(f)] = nil
			} else {
				m[fieldName(f)] = ToMap(fv.Interface().(Node))
			}
		case fv.Kind() == reflect.Pointer:
			if fv.IsNil() {
				m[fieldName(f)] = nil
			} else {
				m[fieldName(f)] = fv.Elem().Interface()
			}
		case fv.Kind() == reflect.Slice:
			texts := make([]string, fv.Len())
			reflect.Copy(reflect.ValueOf(texts), fv)
			m[fieldName(f)] = texts
		default:
			m[fieldName(f)] = fv.Interface()
		}
	}
}

// A DecodeError is returned by FromMap for a map that does not describe a
// node.
type DecodeError struct {
	Path string // e.g. "children[2].oneline_child.lineno"
	Msg  string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "haml: decode: " + e.Msg
	}
	return "haml: decode " + e.Path + ": " + e.Msg
}

// FromMap rebuilds a node from the output of ToMap. It also accepts the
// result of decoding that output from JSON or YAML: numbers of any numeric
// type and lists of type []any. Missing keys leave fields at their zero
// values.
func FromMap(m map[string]any) (Node, error) {
	return decodeNode(m, "")
}

func decodeNode(m map[string]any, path string) (Node, error) {
	tag, _ := m["type"].(string)
	t, ok := nodeTypes[tag]
	if !ok {
		return nil, &DecodeError{Path: joinPath(path, "type"), Msg: fmt.Sprintf("unknown node type %v", m["type"])}
	}
	v := reflect.New(t)
	if err := decodeFields(v.Elem(), m, path); err != nil {
		return nil, err
	}
	n := v.Interface().(Node)

	raw, ok := m["children"]
	if !ok || raw == nil {
		return n, nil
	}
	p, ok := n.(Parent)
	if !ok {
		return nil, &DecodeError{Path: joinPath(path, "children"), Msg: tag + " nodes have no children"}
	}
	children, err := mapList(raw, joinPath(path, "children"))
	if err != nil {
		return nil, err
	}
	for i, cm := range children {
		c, err := decodeNode(cm, fmt.Sprintf("%s[%d]", joinPath(path, "children"), i))
		if err != nil {
			return nil, err
		}
		p.AppendChild(c)
	}
	return n, nil
}

func decodeFields(v reflect.Value, m map[string]any, path string) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		switch {
		case f.Type == containerType:
			continue
		case f.Type == positionType:
			if err := decodeFields(v.Field(i), m, path); err != nil {
				return err
			}
			continue
		}

		key := fieldName(f)
		val, ok := m[key]
		if !ok || val == nil {
			continue
		}
		if err := decodeValue(v.Field(i), val, joinPath(path, key)); err != nil {
			return err
		}
	}
	return nil
}

func decodeValue(fv reflect.Value, val any, path string) error {
	switch {
	case fv.Type() == nodeType:
		cm, ok := val.(map[string]any)
		if !ok {
			return &DecodeError{Path: path, Msg: fmt.Sprintf("expected a node map, got %T", val)}
		}
		c, err := decodeNode(cm, path)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(c))
		return nil

	case fv.Kind() == reflect.Pointer:
		ev := reflect.New(fv.Type().Elem())
		if err := decodeValue(ev.Elem(), val, path); err != nil {
			return err
		}
		fv.Set(ev)
		return nil

	case fv.Kind() == reflect.Slice:
		texts, err := stringList(val, path)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(texts))
		return nil

	case fv.Kind() == reflect.Int:
		n, ok := toInt(val)
		if !ok {
			return &DecodeError{Path: path, Msg: fmt.Sprintf("expected an integer, got %T", val)}
		}
		fv.SetInt(int64(n))
		return nil
	}

	rv := reflect.ValueOf(val)
	if !rv.Type().AssignableTo(fv.Type()) {
		return &DecodeError{Path: path, Msg: fmt.Sprintf("expected %s, got %T", fv.Type(), val)}
	}
	fv.Set(rv)
	return nil
}

// toInt accepts the integer types and integral floats, as produced by the
// JSON and YAML decoders.
func toInt(val any) (int, bool) {
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

func stringList(val any, path string) ([]string, error) {
	switch l := val.(type) {
	case []string:
		return append([]string(nil), l...), nil
	case []any:
		texts := make([]string, len(l))
		for i, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, &DecodeError{Path: fmt.Sprintf("%s[%d]", path, i), Msg: fmt.Sprintf("expected a string, got %T", e)}
			}
			texts[i] = s
		}
		return texts, nil
	}
	return nil, &DecodeError{Path: path, Msg: fmt.Sprintf("expected a list of strings, got %T", val)}
}

func mapList(val any, path string) ([]map[string]any, error) {
	switch l := val.(type) {
	case []map[string]any:
		return l, nil
	case []any:
		maps := make([]map[string]any, len(l))
		for i, e := range l {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, &DecodeError{Path: fmt.Sprintf("%s[%d]", path, i), Msg: fmt.Sprintf("expected a node map, got %T", e)}
			}
			maps[i] = m
		}
		return maps, nil
	}
	return nil, &DecodeError{Path: path, Msg: fmt.Sprintf("expected a list of nodes, got %T", val)}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// fieldName returns the map key of a node field.
func fieldName(f reflect.StructField) string {
	return toSnakeCase(f.Name)
}

// toSnakeCase converts a Go identifier to snake_case, keeping initialisms
// together: "EscapeHTML" becomes "escape_html".
func toSnakeCase(s string) string {
	words := camelcase.Split(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}
