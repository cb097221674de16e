// Package registry tracks the components imported by a document's
// frontmatter and decides, per markup reference, which rendering plugin and
// hydration strategy wraps the component.
package registry

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/exp/slices"

	"astroc-go/packages/compiler/script"
)

// Plugin identifies the component-rendering library that owns a component.
type Plugin string

const (
	PluginAstro  Plugin = "astro"
	PluginVue    Plugin = "vue"
	PluginReact  Plugin = "react"
	PluginPreact Plugin = "preact"
	PluginSvelte Plugin = "svelte"

	// runtimeReactDOM is not an extension plugin but a runtime package the
	// react plugin additionally needs in its framework URL map.
	runtimeReactDOM = "react-dom"
)

// Hydration kinds a component reference may be qualified with.
const (
	HydrationLoad    = "load"
	HydrationIdle    = "idle"
	HydrationVisible = "visible"
)

// MarkdownComponentName is the reserved name resolved to the built-in
// markdown renderer.
const MarkdownComponentName = "Markdown"

var defaultExtensions = map[string]Plugin{
	".astro":  PluginAstro,
	".jsx":    PluginReact,
	".tsx":    PluginReact,
	".vue":    PluginVue,
	".svelte": PluginSvelte,
}

// output extension per plugin for compiled component assets
var outputExtensions = map[Plugin]string{
	PluginAstro:  ".js",
	PluginReact:  ".js",
	PluginPreact: ".js",
	PluginVue:    ".vue.js",
	PluginSvelte: ".svelte.js",
}

// ComponentInfo describes one imported component.
type ComponentInfo struct {
	// Type is the file extension the import specifier resolved to.
	Type string
	// URL is the import specifier as written.
	URL string
	// Plugin is the owning plugin kind; empty when no plugin matched the
	// extension. The entry is still tracked so a markup reference can fail
	// with a precise message.
	Plugin Plugin
	// ExportName is the export the wrapper should load from the compiled
	// component asset.
	ExportName string
}

// Registry maps component local names to their info for one compile pass.
type Registry struct {
	filename   string
	astroRoot  string
	extensions map[string]Plugin
	components map[string]*ComponentInfo
	referenced map[string]bool
	dynamic    map[string]string
}

// New creates a registry for the file being compiled. The extensions
// override map is merged over the built-in defaults.
func New(filename, astroRoot string, extensions map[string]string) *Registry {
	merged := make(map[string]Plugin, len(defaultExtensions)+len(extensions))
	for ext, plugin := range defaultExtensions {
		merged[ext] = plugin
	}
	for ext, plugin := range extensions {
		merged[ext] = Plugin(plugin)
	}
	return &Registry{
		filename:   filename,
		astroRoot:  astroRoot,
		extensions: merged,
		components: map[string]*ComponentInfo{},
		referenced: map[string]bool{},
	}
}

// Register classifies one import declaration. Imports that bind no local
// name (side-effect imports) are ignored.
func (r *Registry) Register(imp script.Import) {
	clause := imp.Clause
	specifier := clause.Specifier
	ext := path.Ext(specifier)
	if ext == "" && strings.HasPrefix(specifier, "astroc/components/") {
		// built-in components ship without an extension
		ext = ".astro"
	}
	name := clause.LocalName()
	if name == "" {
		base := path.Base(specifier)
		name = strings.TrimSuffix(base, ext)
	}
	if name == "" {
		return
	}
	exportName := "default"
	if clause.Default == "" && len(clause.Named) > 0 {
		exportName = clause.Named[0].Name
	}
	r.components[name] = &ComponentInfo{
		Type:       ext,
		URL:        specifier,
		Plugin:     r.extensions[ext],
		ExportName: exportName,
	}
}

// Lookup returns the info registered under name, or nil.
func (r *Registry) Lookup(name string) *ComponentInfo {
	return r.components[name]
}

// Plugins returns the sorted distinct set of external plugin kinds the
// registered components use. The astro plugin needs no client runtime and is
// excluded.
func (r *Registry) Plugins() []Plugin {
	seen := map[Plugin]bool{}
	for _, info := range r.components {
		if info.Plugin != "" && info.Plugin != PluginAstro {
			seen[info.Plugin] = true
		}
	}
	plugins := make([]Plugin, 0, len(seen))
	for p := range seen {
		plugins = append(plugins, p)
	}
	slices.SortFunc(plugins, func(a, b Plugin) int { return strings.Compare(string(a), string(b)) })
	return plugins
}

// Unreferenced returns the sorted component names that look like component
// imports (a matched plugin, an uppercase local name) but were never
// referenced by the markup. Feeds the unused-import warning.
func (r *Registry) Unreferenced() []string {
	var names []string
	for name, info := range r.components {
		if info.Plugin == "" || r.referenced[name] {
			continue
		}
		first := name[0]
		if first < 'A' || first > 'Z' {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SetDynamicImports installs the resolved runtime URL map. Must be called
// before wrapper resolution for any hydrated component.
func (r *Registry) SetDynamicImports(urls map[string]string) {
	r.dynamic = urls
}

// Wrapper is the rendering strategy for one component reference: the
// expression standing in for the component in the render call, plus the
// runtime helper import it needs (empty for astro components).
type Wrapper struct {
	Expr   string
	Import string
}

// GetComponentWrapper resolves a markup reference (possibly qualified with a
// hydration kind, "Name:load") to its wrapper.
func (r *Registry) GetComponentWrapper(reference string) (Wrapper, error) {
	name, hydration, qualified := strings.Cut(reference, ":")
	info := r.components[name]
	if info == nil {
		return Wrapper{}, fmt.Errorf("Unknown component: %s", name)
	}
	r.referenced[name] = true
	if qualified {
		switch hydration {
		case HydrationLoad, HydrationIdle, HydrationVisible:
		default:
			return Wrapper{}, fmt.Errorf("Unsupported hydration directive <%s:%s> in %s", name, hydration, r.filename)
		}
	}

	switch info.Plugin {
	case PluginAstro:
		if qualified {
			return Wrapper{}, fmt.Errorf("Astro components cannot be hydrated: <%s:%s> in %s", name, hydration, r.filename)
		}
		return Wrapper{Expr: name}, nil
	case PluginVue, PluginReact, PluginPreact, PluginSvelte:
		kind := string(info.Plugin)
		if !qualified {
			return Wrapper{
				Expr:   fmt.Sprintf("__%s_static(%s)", kind, name),
				Import: helperImport(kind, "static"),
			}, nil
		}
		url := r.assetURL(info)
		return Wrapper{
			Expr: fmt.Sprintf("__%s_%s(%s, { componentUrl: %q, componentExport: %q, frameworkUrls: %s })",
				kind, hydration, name, url, info.ExportName, r.frameworkURLs(info.Plugin)),
			Import: helperImport(kind, hydration),
		}, nil
	default:
		return Wrapper{}, fmt.Errorf("No supported plugin found for <%s> (%q imported from %s)", name, info.URL, r.filename)
	}
}

func helperImport(kind, suffix string) string {
	return fmt.Sprintf("import { __%s_%s } from 'astroc/runtime/__%s.js';", kind, suffix, kind)
}

// assetURL computes the public URL of the component's compiled output:
// the specifier resolved against the compiling file, expressed relative to
// the astro root, with the source extension rewritten for the plugin. The
// root is stripped only on a path-segment boundary; paths outside it keep
// their own segments under the asset prefix.
func (r *Registry) assetURL(info *ComponentInfo) string {
	resolved := info.URL
	if strings.HasPrefix(resolved, "./") || strings.HasPrefix(resolved, "../") {
		resolved = path.Join(path.Dir(r.filename), resolved)
	}
	resolved = path.Clean(resolved)
	root := path.Clean(r.astroRoot)
	rel := resolved
	if root != "/" && (resolved == root || strings.HasPrefix(resolved, root+"/")) {
		rel = resolved[len(root):]
	}
	rel = strings.TrimPrefix(rel, "/")
	rel = strings.TrimSuffix(rel, info.Type)
	return "/_astroc/" + rel + outputExtensions[info.Plugin]
}

// frameworkURLs renders the runtime URL object for the plugin's frameworks.
func (r *Registry) frameworkURLs(plugin Plugin) string {
	keys := []string{string(plugin)}
	if plugin == PluginReact {
		keys = append(keys, runtimeReactDOM)
	}
	var b strings.Builder
	b.WriteString("{")
	for i, key := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %q", key, r.dynamic[key])
	}
	b.WriteString("}")
	return b.String()
}
