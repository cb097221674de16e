package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"astroc-go/packages/compiler/script"
)

func TestResolveBuildsSubstitution(t *testing.T) {
	fetcher := FetcherFunc(func(_ context.Context, specifier string, opts FetchOptions) (Result, error) {
		require.Equal(t, "./post/*.md", specifier)
		require.Equal(t, "Astro", opts.Namespace)
		return Result{
			Imports: []string{"import post0 from './post/first.md';"},
			Code:    "[post0]",
		}, nil
	})
	req := script.ContentRequest{Binding: "let", Name: "posts", Specifier: "./post/*.md"}
	opts := FetchOptions{Namespace: "Astro", Filename: "/src/pages/index.astro"}

	resolved, err := Resolve(context.Background(), fetcher, req, opts)
	require.NoError(t, err)
	require.Equal(t, "let posts = [post0];", resolved.Code)
	require.Equal(t, []string{"import post0 from './post/first.md';"}, resolved.Imports)
}

func TestResolveNilFetcher(t *testing.T) {
	req := script.ContentRequest{Binding: "let", Name: "posts", Specifier: "./post/*.md"}
	_, err := Resolve(context.Background(), nil, req, FetchOptions{Filename: "/src/pages/index.astro"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"./post/*.md"`)
}

func TestResolveFetcherError(t *testing.T) {
	boom := errors.New("glob failed")
	fetcher := FetcherFunc(func(context.Context, string, FetchOptions) (Result, error) {
		return Result{}, boom
	})
	req := script.ContentRequest{Binding: "const", Name: "posts", Specifier: "./post/*.md"}
	_, err := Resolve(context.Background(), fetcher, req, FetchOptions{})
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
}
