package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/likorise/internal/csv"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParse_StdinJSON(t *testing.T) {
	out, err := run(t, "\ufeffname,age\n\nAlice, 30\nBob\n", "parse")
	require.NoError(t, err)

	var got []csv.Record
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []csv.Record{
		{"name": "Alice", "age": "30"},
		{"name": "Bob", "age": ""},
	}, got)
}

func TestParse_FileYAMLWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("b,a\n1,2\n"), 0o644))

	out, err := run(t, "", "parse", path, "-o", "yaml", "--with-header")
	require.NoError(t, err)

	var got struct {
		Header  []string            `yaml:"header"`
		Records []map[string]string `yaml:"records"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"b", "a"}, got.Header)
	assert.Equal(t, []map[string]string{{"b": "1", "a": "2"}}, got.Records)
}

func TestParse_HeaderOnlyIsEmptyList(t *testing.T) {
	out, err := run(t, "a,b\n", "parse")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestParse_Errors(t *testing.T) {
	_, err := run(t, "", "parse", "-o", "xml")
	assert.ErrorContains(t, err, "invalid --output")

	_, err = run(t, "", "parse", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "opening input")

	_, err = run(t, "", "parse", "a.csv", "b.csv")
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	var gotSheet, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSheet = r.URL.Query().Get("sheet")
		if gotSheet == "missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("表示順,月,タイトル,説明\n1,4月,Opening,Welcome\n"))
	}))
	defer srv.Close()

	t.Setenv("SHEETS_SPREADSHEET_ID", "abc123")
	t.Setenv("SHEETS_BASE_URL", srv.URL)
	t.Setenv("SHEET_SCHEDULE", "Schedule Sheet")

	out, err := run(t, "", "fetch", "schedule")
	require.NoError(t, err)
	assert.Equal(t, "/spreadsheets/d/abc123/gviz/tq", gotPath)
	assert.Equal(t, "Schedule Sheet", gotSheet)
	assert.Contains(t, out, `"タイトル": "Opening"`)

	_, err = run(t, "", "fetch", "missing")
	assert.ErrorContains(t, err, "SHEET001")
}

func TestFetch_NoSpreadsheet(t *testing.T) {
	t.Setenv("SHEETS_SPREADSHEET_ID", "")
	t.Setenv("SPREADSHEET_ID", "")

	_, err := run(t, "", "fetch", "schedule")
	assert.Error(t, err)
}
