package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codeGROOVE-dev/sociomatch/pkg/match"
	"github.com/codeGROOVE-dev/sociomatch/pkg/request"
	"github.com/codeGROOVE-dev/sociomatch/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requestJSON = `{
	"person": {"name": "Alfred Hitchcock", "location": "Portland"},
	"profiles": [
		{"platform": "github", "username": "someone", "displayName": "Someone Else"},
		{"platform": "twitter", "username": "alfie", "displayName": "Alfie Hitchcock", "location": "PDX"}
	]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunMatch_JSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"match", "-request", "-"}, strings.NewReader(requestJSON), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var resp server.MatchResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "alfie", resp.Results[0].Profile.Username)
}

func TestRunMatch_Tables(t *testing.T) {
	tablesFile := writeTemp(t, "tables.yaml", "nicknames:\n  alfred: [alfie]\nlocations:\n  portland: [pdx]\n")
	reqFile := writeTemp(t, "req.json", requestJSON)

	var stdout, stderr bytes.Buffer
	code := run([]string{"match", "-request", reqFile, "-tables", tablesFile}, nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var resp server.MatchResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	top := resp.Results[0]
	assert.Equal(t, "alfie", top.Profile.Username)
	// name 0.95 * 0.30 + location 0.9 * 0.12, over 0.42
	assert.InDelta(t, 0.94, top.Score, 1e-9)
}

func TestRunMatch_Text(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"match", "-request", "-", "-format", "text"}, strings.NewReader(requestJSON), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "#  SCORE"), out)
	assert.Contains(t, out, "alfie")
	assert.NotContains(t, out, "\x1b[", "output to a buffer must not be colored")
}

func TestRunMatch_Remote(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := server.NewAPI(logger, match.Default(), nil, request.DefaultLimits())
	ts := httptest.NewServer(server.NewRouter(logger, api))
	defer ts.Close()

	var stdout, stderr bytes.Buffer
	code := run([]string{"match", "-request", "-", "-remote", ts.URL}, strings.NewReader(requestJSON), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), `"alfie"`)
}

func TestRunMatch_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		code  int
		want  string
	}{
		{"no request flag", []string{"match"}, "", 2, "-request is required"},
		{"bad format", []string{"match", "-request", "-", "-format", "xml"}, requestJSON, 2, "unknown format"},
		{"invalid request", []string{"match", "-request", "-"}, `{"profiles":[]}`, 1, "at least one profile is required"},
		{"missing file", []string{"match", "-request", "/nonexistent/req.json"}, "", 1, "open request file"},
		{"bad tables", []string{"match", "-request", "-", "-tables", "/nonexistent/t.yaml"}, requestJSON, 1, "read tables file"},
		{"unknown command", []string{"frobnicate"}, "", 2, `unknown command "frobnicate"`},
		{"no command", nil, "", 2, "Usage: sociomatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"help"}, nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "serve")
}
