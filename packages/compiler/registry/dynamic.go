package registry

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PackageResolver resolves a runtime package name to a deployable URL.
type PackageResolver func(ctx context.Context, name string) (string, error)

// runtimePackages lists the packages each plugin kind needs resolved into
// its framework URL map.
func runtimePackages(plugins []Plugin) []string {
	var pkgs []string
	for _, p := range plugins {
		pkgs = append(pkgs, string(p))
		if p == PluginReact {
			pkgs = append(pkgs, runtimeReactDOM)
		}
	}
	return pkgs
}

// ResolveDynamicImports resolves the runtime URL for every plugin kind in
// use. Resolution runs concurrently; the first failure cancels the rest and
// is fatal for the compile pass. The returned map is complete and immutable
// from the caller's point of view.
func ResolveDynamicImports(ctx context.Context, plugins []Plugin, resolve PackageResolver) (map[string]string, error) {
	urls := make(map[string]string)
	if len(plugins) == 0 {
		return urls, nil
	}
	if resolve == nil {
		return nil, fmt.Errorf("no package resolver configured, cannot resolve runtimes for %v", plugins)
	}
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, pkg := range runtimePackages(plugins) {
		pkg := pkg
		g.Go(func() error {
			url, err := resolve(ctx, pkg)
			if err != nil {
				return fmt.Errorf("resolving runtime package %q: %w", pkg, err)
			}
			mu.Lock()
			urls[pkg] = url
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
