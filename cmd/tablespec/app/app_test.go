package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tablespec/internal/config"
	"github.com/agentstation/tablespec/pkg/errors"
	"github.com/agentstation/tablespec/pkg/session"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Cleanup(func() { session.SetGlobalDefaults(nil) })

	var buf bytes.Buffer
	app, err := New("1.0.0", "abc123", "2024-01-01", "test",
		WithConfig(&config.Config{ScaleFactor: 1, LogFormat: "json", LogOutput: "discard"}),
		WithOutput(&buf),
	)
	require.NoError(t, err)
	return app, &buf
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), buf.String())
	return out
}

func TestNew(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, "1.0.0", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2024-01-01", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, app.Config())
}

func TestParserSingleton(t *testing.T) {
	app, _ := newTestApp(t)

	const goroutines = 50
	var wg sync.WaitGroup
	results := make([]any, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			p, err := app.Parser()
			assert.NoError(t, err)
			results[idx] = p
		}(i)
	}
	wg.Wait()

	for _, p := range results[1:] {
		assert.Same(t, results[0], p)
	}
}

func TestResolveJSON(t *testing.T) {
	app, buf := newTestApp(t)
	global := writeFile(t, "global.yaml", "theme: grid\ntableLineWidth: 1\n")
	call := writeFile(t, "call.yaml", `
head: [[Name, Age]]
body:
  - [Ada, 36]
  - [Alan, 41]
tableLineWidth: 2
`)

	err := app.Execute(context.Background(), []string{"resolve", "-g", global, "-c", call, "-o", "json"})
	require.NoError(t, err)

	out := decode(t, buf)
	settings := out["settings"].(map[string]any)
	assert.Equal(t, "grid", settings["theme"])
	assert.Equal(t, 2.0, settings["tableLineWidth"])
	assert.Equal(t, 40.0, settings["startY"])

	content := out["content"].(map[string]any)
	assert.Len(t, content["body"], 2)
	assert.Len(t, content["columns"], 2)
}

func TestResolveContinuesPreviousTable(t *testing.T) {
	app, buf := newTestApp(t)
	call := writeFile(t, "call.json", `{"body": [["a"]]}`)

	err := app.Execute(context.Background(), []string{
		"resolve", "-c", call, "--page", "2", "--previous", "2,1,300", "-o", "json",
	})
	require.NoError(t, err)

	settings := decode(t, buf)["settings"].(map[string]any)
	assert.Equal(t, 320.0, settings["startY"])
}

func TestResolveScrapesHTML(t *testing.T) {
	app, buf := newTestApp(t)
	page := writeFile(t, "report.html", `<html><body>
<table id="people">
  <thead><tr><th>Name</th><th>Age</th><th>City</th></tr></thead>
  <tbody><tr><td>Ada</td><td>36</td><td>London</td></tr></tbody>
</table>
</body></html>`)

	err := app.Execute(context.Background(), []string{"columns", "--html", page, "-s", "#people", "-o", "json"})
	require.NoError(t, err)

	var cols []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &cols))
	require.Len(t, cols, 3)
	assert.Equal(t, 2.0, cols[2]["dataKey"])
}

func TestResolveTableFormat(t *testing.T) {
	app, buf := newTestApp(t)
	call := writeFile(t, "call.yaml", "head: [[Name]]\nbody: [[Ada]]\ncolumnStyles:\n  0: {halign: right}\n")

	err := app.Execute(context.Background(), []string{"resolve", "-c", call, "-o", "table"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "SETTINGS")
	assert.Contains(t, out, "striped")
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "columnStyles[0]")
	assert.Contains(t, out, "didParseCell")
}

func TestExplain(t *testing.T) {
	app, buf := newTestApp(t)
	global := writeFile(t, "global.yaml", "theme: grid\n")
	document := writeFile(t, "document.yaml", "theme: plain\n")

	err := app.Execute(context.Background(), []string{"explain", "-g", global, "-d", document, "-o", "json"})
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "theme", entries[0]["key"])
	assert.Equal(t, "document", entries[0]["scope"])
	assert.Len(t, entries[0]["shadowed"], 1)
}

func TestResolveRejectsInvalidOptions(t *testing.T) {
	app, _ := newTestApp(t)
	call := writeFile(t, "call.yaml", "theme: neon\n")

	err := app.Execute(context.Background(), []string{"resolve", "-c", call})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestResolveRejectsBadFormat(t *testing.T) {
	app, _ := newTestApp(t)

	err := app.Execute(context.Background(), []string{"resolve", "-o", "xml"})
	assert.Error(t, err)
}

func TestResolveMissingLayer(t *testing.T) {
	app, _ := newTestApp(t)

	err := app.Execute(context.Background(), []string{"resolve", "-c", filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)

	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestVersionCommand(t *testing.T) {
	app, buf := newTestApp(t)

	require.NoError(t, app.Execute(context.Background(), []string{"version"}))
	assert.Contains(t, buf.String(), "tablespec version 1.0.0")
	assert.Contains(t, buf.String(), "commit: abc123")
}

func TestParsePrevious(t *testing.T) {
	snap, err := parsePrevious("2,3")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.StartPageNumber)
	assert.Equal(t, 3, snap.PageNumber)
	assert.Nil(t, snap.FinalY)

	snap, err = parsePrevious("1, 1, 250.5")
	require.NoError(t, err)
	require.NotNil(t, snap.FinalY)
	assert.Equal(t, 250.5, *snap.FinalY)

	for _, bad := range []string{"", "1", "a,1", "1,b", "1,1,c", "1,2,3,4"} {
		_, err := parsePrevious(bad)
		assert.Error(t, err, bad)
		assert.True(t, errors.IsValidationError(err), bad)
	}
}

func TestExplainByScope(t *testing.T) {
	app, buf := newTestApp(t)
	global := writeFile(t, "global.yaml", "theme: grid\npageBreak: avoid\n")
	call := writeFile(t, "call.yaml", "theme: plain\n")

	err := app.Execute(context.Background(), []string{"explain", "-g", global, "-c", call, "--by-scope", "-o", "json"})
	require.NoError(t, err)

	var got map[string][]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string][]string{
		"global":   {"pageBreak"},
		"document": {},
		"call":     {"theme"},
	}, got)
}

func TestUnsetFlagsKeepConfig(t *testing.T) {
	app, _ := newTestApp(t)
	app.Config().Verbose = true
	app.Config().NoColor = true

	require.NoError(t, app.Execute(context.Background(), []string{"version"}))
	assert.True(t, app.Config().Verbose)
	assert.True(t, app.Config().NoColor)

	require.NoError(t, app.Execute(context.Background(), []string{"version", "--verbose=false"}))
	assert.False(t, app.Config().Verbose)
	assert.True(t, app.Config().NoColor)
}
