package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCompile(t *testing.T) {
	fixture := `{
		"module": {"type": "Script", "content": "import Chart from './Chart.svelte';\nexport let title = 'Hello';"},
		"html": [
			{"type": "Element", "name": "h1", "children": [
				{"type": "Expression", "codes": ["title"]}
			]},
			{"type": "InlineComponent", "name": "Chart:load"}
		]
	}`
	dir := t.TempDir()
	input := filepath.Join(dir, "index.astro.json")
	require.NoError(t, os.WriteFile(input, []byte(fixture), 0o644))

	flagFilename = "/src/pages/index.astro"
	flagProjectRoot = "/src"
	flagAstroRoot = "/src"
	flagCDN = "https://cdn.example.com"

	var out bytes.Buffer
	require.NoError(t, runCompile(context.Background(), input, &out))

	var result struct {
		Script           string   `json:"script"`
		HTML             string   `json:"html"`
		Imports          []string `json:"imports"`
		ComponentPlugins []string `json:"componentPlugins"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))

	require.Equal(t, "let { title = 'Hello' } = props;", result.Script)
	require.Contains(t, result.HTML, "h(Fragment, null")
	require.Contains(t, result.HTML, `h("h1", null, title)`)
	require.Contains(t, result.HTML, "__svelte_load(Chart")
	require.Contains(t, result.HTML, `componentUrl: "/_astroc/pages/Chart.svelte.js"`)
	require.Contains(t, result.HTML, "https://cdn.example.com/svelte")
	require.Equal(t, []string{"svelte"}, result.ComponentPlugins)
	require.Contains(t, result.Imports, "import Chart from './Chart.svelte';")
}

func TestRunCompileBadDocument(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"html": [{"type": "Widget"}]}`), 0o644))

	var out bytes.Buffer
	err := runCompile(context.Background(), input, &out)
	require.Error(t, err)
}
