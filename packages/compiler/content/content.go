// Package content adapts the external content-loading collaborator to the
// compiler's content-collection requests. The adapter performs no I/O of its
// own: globbing belongs to the collaborator.
package content

import (
	"context"
	"fmt"

	"astroc-go/packages/compiler/script"
)

// FetchOptions identifies the requesting compile pass to the loader.
type FetchOptions struct {
	Namespace   string
	Filename    string
	ProjectRoot string
}

// Result is the loader's answer for one specifier: the import statements the
// substitution code needs, and the expression implementing iteration and
// metadata for the collection.
type Result struct {
	Imports []string
	Code    string
}

// Fetcher resolves a content specifier against the project root. It may
// suspend on filesystem globbing; requests are issued sequentially so the
// emitted import order stays deterministic.
type Fetcher interface {
	Fetch(ctx context.Context, specifier string, opts FetchOptions) (Result, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, specifier string, opts FetchOptions) (Result, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, specifier string, opts FetchOptions) (Result, error) {
	return f(ctx, specifier, opts)
}

// Resolved is one fully resolved content-collection request: the loader's
// imports plus the final substitution statement with the call site's binding
// keyword preserved.
type Resolved struct {
	Imports []string
	Code    string
}

// Resolve asks the loader for one request and builds the substitution
// statement that replaces the original declaration.
func Resolve(ctx context.Context, fetcher Fetcher, req script.ContentRequest, opts FetchOptions) (Resolved, error) {
	if fetcher == nil {
		return Resolved{}, fmt.Errorf("no content fetcher configured, cannot resolve %q in %s", req.Specifier, opts.Filename)
	}
	res, err := fetcher.Fetch(ctx, req.Specifier, opts)
	if err != nil {
		return Resolved{}, fmt.Errorf("resolving content %q in %s: %w", req.Specifier, opts.Filename, err)
	}
	return Resolved{
		Imports: res.Imports,
		Code:    fmt.Sprintf("%s %s = %s;", req.Binding, req.Name, res.Code),
	}, nil
}
