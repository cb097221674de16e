package script

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyModule(t *testing.T) {
	mod, err := Parse("", "/src/index.astro")
	require.NoError(t, err)
	require.Empty(t, mod.Props)
	require.Empty(t, mod.Imports)
	require.Empty(t, mod.Retained)

	if got, want := mod.Assemble(nil), "let {} = props;"; got != want {
		t.Errorf("Assemble() = %q, want %q", got, want)
	}
}

func TestParseProps(t *testing.T) {
	tests := []struct {
		name   string
		source string
		props  []Prop
	}{
		{
			name:   "exported with default",
			source: `export let title = 'Hello';`,
			props:  []Prop{{Name: "title", Default: "'Hello'"}},
		},
		{
			name:   "unexported with default",
			source: `const count = 1 + 2;`,
			props:  []Prop{{Name: "count", Default: "1 + 2"}},
		},
		{
			name:   "typed declaration",
			source: `export let items: Array<string> = [];`,
			props:  []Prop{{Name: "items", Default: "[]"}},
		},
		{
			name:   "exported without default",
			source: `export let author;`,
			props:  []Prop{{Name: "author"}},
		},
		{
			name:   "multiple declarators",
			source: `let a = 1, b = {x: 2};`,
			props:  []Prop{{Name: "a", Default: "1"}, {Name: "b", Default: "{x: 2}"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, err := Parse(tt.source, "/src/index.astro")
			require.NoError(t, err)
			if diff := cmp.Diff(tt.props, mod.Props); diff != "" {
				t.Errorf("props mismatch (-want +got):\n%s", diff)
			}
			require.Empty(t, mod.Retained)
		})
	}
}

func TestPropsPreamble(t *testing.T) {
	mod, err := Parse("export let title = 'Hello';\nexport let author;", "/src/index.astro")
	require.NoError(t, err)

	got := mod.Assemble(nil)
	want := "let { title = 'Hello', author } = props;"
	if got != want {
		t.Errorf("Assemble() = %q, want %q", got, want)
	}
}

func TestReservedMarkersRetained(t *testing.T) {
	source := `export let layout = '../layouts/base.astro';`
	mod, err := Parse(source, "/src/index.astro")
	require.NoError(t, err)
	require.Empty(t, mod.Props)
	require.Equal(t, []string{source}, mod.Retained)
}

func TestParseImports(t *testing.T) {
	tests := []struct {
		name   string
		source string
		local  string
		spec   string
	}{
		{"default", `import Foo from './Foo.svelte';`, "Foo", "./Foo.svelte"},
		{"named", `import { Bar } from './bars.jsx'`, "Bar", "./bars.jsx"},
		{"aliased", `import { a as Baz } from './baz.vue';`, "Baz", "./baz.vue"},
		{"namespace", `import * as ns from './tools.js';`, "ns", "./tools.js"},
		{"side effect", `import './reset.css';`, "", "./reset.css"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, err := Parse(tt.source, "/src/index.astro")
			require.NoError(t, err)
			require.Len(t, mod.Imports, 1)
			imp := mod.Imports[0]
			require.Equal(t, tt.spec, imp.Clause.Specifier)
			require.Equal(t, tt.local, imp.Clause.LocalName())
			require.Equal(t, strings.TrimSpace(tt.source), imp.Raw)
			require.Empty(t, mod.Retained)
		})
	}
}

func TestParseImportDefaultAndNamed(t *testing.T) {
	mod, err := Parse(`import React, { useState } from 'react';`, "/src/index.astro")
	require.NoError(t, err)
	require.Len(t, mod.Imports, 1)
	clause := mod.Imports[0].Clause
	require.Equal(t, "React", clause.Default)
	require.Equal(t, []NamedSpec{{Name: "useState"}}, clause.Named)
}

func TestContentFetch(t *testing.T) {
	mod, err := Parse(`let posts = Astro.fetchContent('./post/*.md');`, "/src/index.astro")
	require.NoError(t, err)
	require.Empty(t, mod.Props)
	require.Empty(t, mod.Retained)
	want := []ContentRequest{{
		Binding:   "let",
		Name:      "posts",
		Specifier: "./post/*.md",
	}}
	ignore := cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".Span"
	}, cmp.Ignore())
	if diff := cmp.Diff(want, mod.ContentRequests, ignore, cmpopts.IgnoreUnexported(ContentRequest{})); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestContentFetchRedundantAwait(t *testing.T) {
	mod, err := Parse(`const posts = await Astro.fetchContent('./post/*.md');`, "/src/index.astro")
	require.NoError(t, err)
	require.Len(t, mod.ContentRequests, 1)
	require.True(t, mod.ContentRequests[0].RedundantAwait)
	require.Equal(t, "const", mod.ContentRequests[0].Binding)
	require.Len(t, mod.Warnings, 1)
}

func TestContentFetchChainedCallIsProp(t *testing.T) {
	source := `let titles = Astro.fetchContent('./post/*.md').map(p => p.title);`
	mod, err := Parse(source, "/src/index.astro")
	require.NoError(t, err)
	require.Empty(t, mod.ContentRequests)

	want := []Prop{{Name: "titles", Default: `Astro.fetchContent('./post/*.md').map(p => p.title)`}}
	if diff := cmp.Diff(want, mod.Props); diff != "" {
		t.Errorf("props mismatch (-want +got):\n%s", diff)
	}
}

func TestContentFetchInLargerExpressionIsProp(t *testing.T) {
	mod, err := Parse(`let n = Astro.fetchContent('./post/*.md').length;`, "/src/index.astro")
	require.NoError(t, err)
	require.Empty(t, mod.ContentRequests)
	require.Equal(t, []Prop{{Name: "n", Default: `Astro.fetchContent('./post/*.md').length`}}, mod.Props)
}

func TestContentFetchNonStringArgument(t *testing.T) {
	_, err := Parse(`let posts = Astro.fetchContent(glob);`, "/src/index.astro")
	require.Error(t, err)
	require.Contains(t, err.Error(), "string literal")
}

func TestContentFetchSubstitution(t *testing.T) {
	mod, err := Parse(`let posts = Astro.fetchContent('./post/*.md');`, "/src/index.astro")
	require.NoError(t, err)

	got := mod.Assemble([]string{`let posts = [p0, p1];`})
	if got != `let posts = [p0, p1];` {
		t.Errorf("Assemble() = %q", got)
	}
}

func TestRetainedStatements(t *testing.T) {
	source := "import Foo from './Foo.astro';\n" +
		"export let title = 'x';\n" +
		"function helper(n) { return n * 2; }\n" +
		"console.log(helper(2));"
	mod, err := Parse(source, "/src/index.astro")
	require.NoError(t, err)

	want := []string{
		"function helper(n) { return n * 2; }",
		"console.log(helper(2));",
	}
	if diff := cmp.Diff(want, mod.Retained); diff != "" {
		t.Errorf("retained mismatch (-want +got):\n%s", diff)
	}

	script := mod.Assemble(nil)
	require.True(t, strings.HasPrefix(script, "let { title = 'x' } = props;"))
	require.Contains(t, script, "function helper")
}

func TestElementLiteralInitializer(t *testing.T) {
	source := "const banner = <div class=\"x\">hi; there</div>;\nexport let next = 1;"
	mod, err := Parse(source, "/src/index.astro")
	require.NoError(t, err)

	want := []Prop{
		{Name: "banner", Default: `<div class="x">hi; there</div>`},
		{Name: "next", Default: "1"},
	}
	if diff := cmp.Diff(want, mod.Props); diff != "" {
		t.Errorf("props mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateLiteralInitializer(t *testing.T) {
	source := "const msg = `a; b\nc`;\nlet n = 2;"
	mod, err := Parse(source, "/src/index.astro")
	require.NoError(t, err)
	require.Len(t, mod.Props, 2)
	require.Equal(t, "msg", mod.Props[0].Name)
	require.Equal(t, "n", mod.Props[1].Name)
}

func TestParseErrorCarriesExcerpt(t *testing.T) {
	_, err := Parse("let x = (1 + 2;\n", "/src/broken.astro")
	require.Error(t, err)
	require.Contains(t, err.Error(), "/src/broken.astro")
}

func TestCollectionCapture(t *testing.T) {
	source := "export async function createCollection() {\n" +
		"  let posts = Astro.fetchContent('./post/*.md');\n" +
		"  return { paginate: true, route: '/posts/:page', props: { posts } };\n" +
		"}"
	mod, err := Parse(source, "/src/index.astro")
	require.NoError(t, err)
	require.NotNil(t, mod.Collection)
	require.True(t, mod.Collection.Exported)
	require.Len(t, mod.Collection.Requests, 1)
	require.Equal(t, "./post/*.md", mod.Collection.Requests[0].Specifier)
	require.Empty(t, mod.Retained)

	out := mod.Collection.Assemble(
		[]string{"import p0 from './post/a.md';"},
		[]string{"let posts = [p0];"},
	)
	require.True(t, strings.HasPrefix(out, "import p0 from './post/a.md';\n"))
	require.Contains(t, out, "export async function createCollection()")
	require.Contains(t, out, "let posts = [p0];")
	require.NotContains(t, out, "Astro.fetchContent")
}

func TestCollectionStaysExported(t *testing.T) {
	source := "async function createCollection() { return {}; }"
	mod, err := Parse(source, "/src/index.astro")
	require.NoError(t, err)
	require.NotNil(t, mod.Collection)
	require.False(t, mod.Collection.Exported)

	out := mod.Collection.Assemble(nil, nil)
	require.True(t, strings.HasPrefix(out, "export async function createCollection()"))
}

func TestOtherFunctionsRetained(t *testing.T) {
	source := "export function helper() { return 1; }"
	mod, err := Parse(source, "/src/index.astro")
	require.NoError(t, err)
	require.Nil(t, mod.Collection)
	require.Equal(t, []string{source}, mod.Retained)
}

func TestExportStatementsCollected(t *testing.T) {
	source := "export { helper } from './helpers.js';"
	mod, err := Parse(source, "/src/index.astro")
	require.NoError(t, err)
	require.Equal(t, []string{source}, mod.Externals)
	require.Empty(t, mod.Retained)
}

func TestExternalsKeepStatementOrder(t *testing.T) {
	source := "export { helper } from './helpers.js';\n" +
		"import Foo from './Foo.astro';\n" +
		"export * from './extra.js';"
	mod, err := Parse(source, "/src/index.astro")
	require.NoError(t, err)

	want := []string{
		"export { helper } from './helpers.js';",
		"import Foo from './Foo.astro';",
		"export * from './extra.js';",
	}
	if diff := cmp.Diff(want, mod.Externals); diff != "" {
		t.Errorf("externals mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, mod.Imports, 1)
}
