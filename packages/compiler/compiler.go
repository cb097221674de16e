// Package compiler is the final compilation stage of the component pipeline:
// it takes a parsed document and emits the executable render expression plus
// the auxiliary artifacts (script body, CSS, import list, collection-builder
// source) the build consumes.
package compiler

import (
	"context"
	"path"
	"strings"

	"github.com/go-logr/logr"

	"astroc-go/packages/compiler/ast"
	"astroc-go/packages/compiler/codegen"
	"astroc-go/packages/compiler/content"
	"astroc-go/packages/compiler/registry"
	"astroc-go/packages/compiler/script"
	"astroc-go/packages/compiler/util"
)

// Options configures one compile pass.
type Options struct {
	// Filename is the absolute path of the document being compiled.
	Filename string
	// ProjectRoot anchors content specifiers and the short diagnostic names.
	ProjectRoot string
	// AstroRoot anchors public asset URLs for compiled components.
	AstroRoot string
	// Extensions maps additional file extensions to plugin kinds, merged
	// over the built-in defaults.
	Extensions map[string]string
	// ResolvePackageURL resolves a runtime package to a deployable URL.
	ResolvePackageURL registry.PackageResolver
	// FetchContent resolves content-collection specifiers.
	FetchContent content.Fetcher
	// CompileExpression is the external expression transpiler; nil means
	// expressions pass through unchanged.
	CompileExpression codegen.ExpressionCompiler
	// Log receives non-fatal warnings. The zero logger discards them.
	Log logr.Logger
}

// TransformResult is the complete output record for one compiled file.
type TransformResult struct {
	// Script is the final script body, valid standalone module code once
	// prefixed with Imports.
	Script string `json:"script"`
	// HTML is the render expression for the markup tree.
	HTML string `json:"html"`
	// CSS is the joined style content; empty when the document has none.
	CSS string `json:"css,omitempty"`
	// Imports are the import/export statements, ordered by first discovery
	// and de-duplicated.
	Imports []string `json:"imports"`
	// CreateCollection is the exported collection-builder source; empty when
	// the document declares none.
	CreateCollection string `json:"createCollection,omitempty"`
	// ComponentPlugins is the sorted set of external plugin kinds the
	// document's components use.
	ComponentPlugins []string `json:"componentPlugins,omitempty"`
}

// Compile runs one full compile pass over doc. All state is owned by the
// invocation; concurrent compiles of different files share nothing.
func Compile(ctx context.Context, doc *ast.Document, opts Options) (*TransformResult, error) {
	shortname := projectRelative(opts.ProjectRoot, opts.Filename)

	// styles first: document-level blocks feed the accumulator, inline
	// blocks are picked up during the markup traversal
	css := codegen.ExtractStyles(doc.Css)

	// script pass: classify the frontmatter and populate the registry
	source := ""
	if doc.Module != nil {
		source = doc.Module.Content
	}
	mod, err := script.Parse(source, opts.Filename)
	if err != nil {
		return nil, err
	}
	for _, w := range mod.Warnings {
		opts.Log.Info(w.Msg, "file", shortname)
	}

	reg := registry.New(opts.Filename, opts.AstroRoot, opts.Extensions)
	imports := util.NewOrderedStringSet()
	for _, imp := range mod.Imports {
		reg.Register(imp)
	}
	for _, raw := range mod.Externals {
		imports.Add(raw)
	}

	// content resolution: sequential, in source order, so the emitted
	// import statements stay deterministic
	fetchOpts := content.FetchOptions{
		Namespace:   script.ContentNamespace,
		Filename:    opts.Filename,
		ProjectRoot: opts.ProjectRoot,
	}
	var substitutions []string
	for _, req := range mod.ContentRequests {
		resolved, err := content.Resolve(ctx, opts.FetchContent, req, fetchOpts)
		if err != nil {
			return nil, err
		}
		for _, im := range resolved.Imports {
			imports.Add(im)
		}
		substitutions = append(substitutions, resolved.Code)
	}

	createCollection := ""
	if mod.Collection != nil {
		var colImports, colSubs []string
		for _, req := range mod.Collection.Requests {
			resolved, err := content.Resolve(ctx, opts.FetchContent, req, fetchOpts)
			if err != nil {
				return nil, err
			}
			colImports = append(colImports, resolved.Imports...)
			colSubs = append(colSubs, resolved.Code)
		}
		createCollection = mod.Collection.Assemble(colImports, colSubs)
	}

	// the one asynchronous boundary: runtime URLs must be complete before
	// markup compilation starts
	plugins := reg.Plugins()
	dynamic, err := registry.ResolveDynamicImports(ctx, plugins, opts.ResolvePackageURL)
	if err != nil {
		return nil, err
	}
	reg.SetDynamicImports(dynamic)

	markup := &codegen.Compiler{
		Filename:   opts.Filename,
		Registry:   reg,
		Imports:    imports,
		Expression: opts.CompileExpression,
	}
	html, err := markup.CompileMarkup(doc.Html)
	if err != nil {
		return nil, err
	}
	css = append(css, markup.CSS()...)

	for _, name := range reg.Unreferenced() {
		opts.Log.Info("Component imported but never used", "component", name, "file", shortname)
	}

	pluginNames := make([]string, len(plugins))
	for i, p := range plugins {
		pluginNames[i] = string(p)
	}

	return &TransformResult{
		Script:           mod.Assemble(substitutions),
		HTML:             html,
		CSS:              strings.Join(css, "\n\n"),
		Imports:          imports.Values(),
		CreateCollection: createCollection,
		ComponentPlugins: pluginNames,
	}, nil
}

// projectRelative shortens an absolute filename to its project-relative form
// for diagnostics.
func projectRelative(root, filename string) string {
	if root == "" {
		return filename
	}
	rel := strings.TrimPrefix(path.Clean(filename), path.Clean(root))
	return strings.TrimPrefix(rel, "/")
}
