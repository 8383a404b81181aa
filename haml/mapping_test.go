package haml

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestToMap(t *testing.T) {
	root := mustParse(t, pageSrc)
	f := testFilename
	want := map[string]any{
		"type": "root",
		"children": []any{
			map[string]any{
				"type":     "doctype",
				"doctype":  "5",
				"filename": f,
				"lineno":   1,
			},
			map[string]any{
				"type":                  "element",
				"filename":              f,
				"lineno":                2,
				"tag_name":              "div",
				"static_class":          "",
				"static_id":             "",
				"attribute_text":        "hello: 'world'",
				"object_ref":            nil,
				"oneline_child":         nil,
				"self_closing":          false,
				"nuke_inner_whitespace": true,
				"nuke_outer_whitespace": false,
				"void":                  false,
				"children": []any{
					map[string]any{
						"type":        "text",
						"filename":    f,
						"lineno":      3,
						"text":        "hoge",
						"escape_html": true,
					},
					map[string]any{
						"type":           "element",
						"filename":       f,
						"lineno":         4,
						"tag_name":       "div",
						"static_class":   "foo",
						"static_id":      "bar",
						"attribute_text": "",
						"object_ref":     nil,
						"oneline_child": map[string]any{
							"type":        "text",
							"filename":    f,
							"lineno":      4,
							"text":        "fuga",
							"escape_html": true,
						},
						"self_closing":          false,
						"nuke_inner_whitespace": false,
						"nuke_outer_whitespace": true,
						"void":                  false,
						"children":              []any{},
					},
					map[string]any{
						"type":     "filter",
						"filename": f,
						"lineno":   5,
						"name":     "javascript",
						"texts": []string{
							"(function() {",
							"  alert('hello');",
							"})();",
						},
					},
				},
			},
			map[string]any{
				"type":              "silent_script",
				"filename":          f,
				"lineno":            9,
				"script":            "if 1.even?",
				"mid_block_keyword": true,
				"children": []any{
					map[string]any{"type": "empty", "filename": f, "lineno": 10},
					map[string]any{
						"type":        "script",
						"filename":    f,
						"lineno":      11,
						"script":      "'even'",
						"keyword":     "",
						"escape_html": true,
						"preserve":    false,
						"children":    []any{},
					},
				},
			},
			map[string]any{
				"type":              "silent_script",
				"filename":          f,
				"lineno":            12,
				"script":            "else",
				"mid_block_keyword": false,
				"children": []any{
					map[string]any{
						"type":     "haml_comment",
						"filename": f,
						"lineno":   13,
						"children": []any{},
					},
					map[string]any{
						"type":        "text",
						"filename":    f,
						"lineno":      14,
						"text":        "odd",
						"escape_html": true,
					},
				},
			},
			map[string]any{
				"type":        "html_comment",
				"filename":    f,
				"lineno":      15,
				"comment":     "",
				"conditional": "",
				"children": []any{
					map[string]any{
						"type":                  "element",
						"filename":              f,
						"lineno":                16,
						"tag_name":              "this",
						"static_class":          "",
						"static_id":             "",
						"attribute_text":        "",
						"object_ref":            nil,
						"oneline_child":         nil,
						"self_closing":          false,
						"nuke_inner_whitespace": false,
						"nuke_outer_whitespace": false,
						"void":                  false,
						"children": []any{
							map[string]any{
								"type":        "text",
								"filename":    f,
								"lineno":      17,
								"text":        "is comment",
								"escape_html": true,
							},
						},
					},
				},
			},
		},
	}

	if diff := cmp.Diff(want, ToMap(root)); diff != "" {
		t.Errorf("ToMap() mismatch (-want +got):\n%s", diff)
	}
}

func TestToMapObjectRef(t *testing.T) {
	m := ToMap(single(t, "%span[@user] hi"))
	require.Equal(t, "@user", m["object_ref"])
}

func TestToMapVoid(t *testing.T) {
	require.Equal(t, true, ToMap(single(t, "%br"))["void"])
	require.Equal(t, false, ToMap(single(t, "%p/"))["void"])
	require.NotContains(t, ToMap(single(t, "hello")), "void")
}

func TestFromMapRoundTrip(t *testing.T) {
	srcs := map[string]string{
		"page":       pageSrc,
		"attributes": "%a.x#y[@obj]{a: 1}(b=2)<> text\n%br/\n",
		"scripts":    "= if x\n  %p&= y\n- case z\n- when 1\n  != w\n",
		"comments":   "/[if IE] hi\n-#\n  hidden\n",
	}
	for name, src := range srcs {
		t.Run(name, func(t *testing.T) {
			root := mustParse(t, src)

			got, err := FromMap(ToMap(root))
			require.NoError(t, err)
			if diff := cmp.Diff(Node(root), got, cmp.AllowUnexported(Container{})); diff != "" {
				t.Errorf("FromMap(ToMap()) mismatch (-want +got):\n%s", diff)
			}

			b, err := json.Marshal(ToMap(root))
			require.NoError(t, err)
			var m map[string]any
			require.NoError(t, json.Unmarshal(b, &m))
			got, err = FromMap(m)
			require.NoError(t, err)
			if diff := cmp.Diff(Node(root), got, cmp.AllowUnexported(Container{})); diff != "" {
				t.Errorf("FromMap(json) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromMapErrors(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]any
		path string
	}{
		{"unknown type", map[string]any{"type": "bogus"}, "type"},
		{"missing type", map[string]any{}, "type"},
		{"wrong field type", map[string]any{"type": "text", "lineno": "x"}, "lineno"},
		{"fractional number", map[string]any{"type": "text", "lineno": 1.5}, "lineno"},
		{"children on a leaf", map[string]any{"type": "text", "children": []any{}}, "children"},
		{"bad child", map[string]any{"type": "root", "children": []any{"x"}}, "children[0]"},
		{"bad texts", map[string]any{"type": "filter", "texts": []any{"a", 1}}, "texts[1]"},
		{
			"nested",
			map[string]any{"type": "root", "children": []any{
				map[string]any{"type": "element", "oneline_child": map[string]any{"type": "nope"}},
			}},
			"children[0].oneline_child.type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMap(tt.m)
			var derr *DecodeError
			require.ErrorAs(t, err, &derr)
			require.Equal(t, tt.path, derr.Path)
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	for in, want := range map[string]string{
		"HTMLComment":         "html_comment",
		"EscapeHTML":          "escape_html",
		"StaticID":            "static_id",
		"NukeInnerWhitespace": "nuke_inner_whitespace",
		"Lineno":              "lineno",
	} {
		require.Equal(t, want, toSnakeCase(in))
	}
}
