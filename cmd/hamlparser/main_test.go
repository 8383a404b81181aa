package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	pageFile   = filepath.Join("..", "..", "testdata", "page.haml")
	brokenFile = filepath.Join("..", "..", "testdata", "broken.haml")
)

func TestRunPretty(t *testing.T) {
	want, err := os.ReadFile(filepath.Join("..", "..", "testdata", "page.pretty"))
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	code := run([]string{pageFile}, &stdout, &stderr)
	require.Equal(t, exitSuccess, code, stderr.String())
	require.Equal(t, string(want), stdout.String())
	require.Empty(t, stderr.String())
}

func TestRunJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-f", "json", pageFile}, &stdout, &stderr)
	require.Equal(t, exitSuccess, code, stderr.String())

	var m map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &m))
	require.Equal(t, "root", m["type"])
	require.Len(t, m["children"], 5)
}

func TestRunVerbose(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--verbose", pageFile}, &stdout, &stderr)
	require.Equal(t, exitSuccess, code)
	require.Contains(t, stderr.String(), "parse finished")
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{"no files", nil, exitInvalidArguments, "requires at least 1 arg"},
		{"unknown flag", []string{"--bogus", pageFile}, exitInvalidArguments, "unknown flag"},
		{"unknown format", []string{"-f", "toml", pageFile}, exitInvalidArguments, `unknown format "toml"`},
		{"unknown script language", []string{"--script-lang", "lua", pageFile}, exitInvalidArguments, `unknown script language "lua"`},
		{"negative context", []string{"--context", "-1", brokenFile}, exitInvalidArguments, "invalid --context -1"},
		{"missing file", []string{"nope.haml"}, exitIOError, "read failed"},
		{"parse error", []string{brokenFile}, exitParseError, "nesting within plain text"},
		{"parse error wins", []string{"nope.haml", brokenFile, pageFile}, exitParseError, "read failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			require.Equal(t, tt.code, code)
			require.Contains(t, stderr.String(), tt.stderr)
		})
	}
}

func TestRunParseErrorContext(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--context", "1", brokenFile}, &stdout, &stderr)
	require.Equal(t, exitParseError, code)
	require.Contains(t, stderr.String(), "  4 |   hello\n> 5 |       %span\n  6 |         deep\n")
	require.Empty(t, stdout.String())
}

func TestRunSeveralFiles(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{pageFile, pageFile}, &stdout, &stderr)
	require.Equal(t, exitSuccess, code)
	require.Equal(t, 2, bytes.Count(stdout.Bytes(), []byte("# "+pageFile+"\n")))
}
