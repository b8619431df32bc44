package loader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodalbuild/nodal/internal/ast"
	"github.com/nodalbuild/nodal/internal/cache"
	"github.com/nodalbuild/nodal/internal/config"
	"github.com/nodalbuild/nodal/internal/diag"
	"github.com/nodalbuild/nodal/internal/graph"
	"github.com/nodalbuild/nodal/internal/plugin"
)

// fixture: entry.js statically imports "./a.js" AND dynamically imports
// "./a.js" again. Before the fix, a naive implementation that reused the
// importer's own already-resolved-id bookkeeping for dynamic targets could
// end up registering the *importer* under "./a.js"'s resolved id instead of
// fetching "a.js" itself. This test locks in the corrected behavior: the
// dynamic import must resolve to, and fetch, "a.js" -- never the entry.
func TestDynamicImport_ResolvesTargetNotImporter(t *testing.T) {
	files := map[string]string{
		"/entry.js": `import "./a.js"; import("./a.js");`,
		"/a.js":     `export const value = 1;`,
	}

	parse := func(id string, code string) (ParsedModule, error) {
		switch id {
		case "/entry.js":
			source := "/a.js"
			return ParsedModule{
				AST:                  &ast.Program{},
				StaticImportSources:  []string{"./a.js"},
				DynamicImportCallees: []*ast.EImportCall{{Source: &source}},
				Exports:              map[string]string{},
			}, nil
		case "/a.js":
			return ParsedModule{AST: &ast.Program{}, Exports: map[string]string{"value": "value"}}, nil
		}
		t.Fatalf("unexpected parse of %q", id)
		return ParsedModule{}, nil
	}
	readFile := func(id string) (string, error) { return files[id], nil }

	g := graph.NewGraph()
	log := diag.NewDeferredLog()
	driver := plugin.NewDriver(nil, log)
	opts := config.Options{Input: config.Input{List: []string{"/entry.js"}}}

	l := New(g, driver, opts, cache.NewSet(), log, parse, readFile)
	err := l.LoadAll(context.Background())
	require.NoError(t, err)
	require.False(t, log.HasErrors())

	entryMod, ok := g.ModuleByID("/entry.js")
	require.True(t, ok)
	entry := entryMod.(*graph.Module)
	require.Len(t, entry.DynamicImportResolutions, 1)
	assert.Equal(t, "/a.js", entry.DynamicImportResolutions[0])

	aMod, ok := g.ModuleByID("/a.js")
	require.True(t, ok)
	a := aMod.(*graph.Module)
	assert.Equal(t, "/a.js", a.ID, "dynamic import must fetch the target module, not re-register the importer under its id")
	assert.False(t, a.IsEntryPoint)
}

// TestDynamicImport_UsesDistinctResolveHook proves resolveDynamicImports
// dispatches through Driver.ResolveDynamicImport, not the static ResolveID
// hook -- a plugin can resolve the very same specifier text differently
// depending on whether it was imported statically or dynamically.
func TestDynamicImport_UsesDistinctResolveHook(t *testing.T) {
	files := map[string]string{
		"/entry.js":   `import "./shared.js"; import("./shared.js");`,
		"/static.js":  `export const value = 1;`,
		"/dynamic.js": `export const value = 2;`,
	}

	parse := func(id string, code string) (ParsedModule, error) {
		switch id {
		case "/entry.js":
			source := "./shared.js"
			return ParsedModule{
				AST:                  &ast.Program{},
				StaticImportSources:  []string{"./shared.js"},
				DynamicImportCallees: []*ast.EImportCall{{Source: &source}},
				Exports:              map[string]string{},
			}, nil
		default:
			return ParsedModule{AST: &ast.Program{}, Exports: map[string]string{"value": "value"}}, nil
		}
	}
	readFile := func(id string) (string, error) { return files[id], nil }

	plugins := []config.Plugin{{
		Name: "splitter",
		ResolveID: func(ctx context.Context, args config.ResolveIDArgs) (config.ResolveIDResult, error) {
			if args.Source == "./shared.js" {
				return config.ResolveIDResult{Handled: true, ID: "/static.js"}, nil
			}
			return config.ResolveIDResult{}, nil
		},
		ResolveDynamicImport: func(ctx context.Context, args config.ResolveDynamicImportArgs) (config.ResolveIDResult, error) {
			if args.Specifier == "./shared.js" {
				return config.ResolveIDResult{Handled: true, ID: "/dynamic.js"}, nil
			}
			return config.ResolveIDResult{}, nil
		},
	}}

	g := graph.NewGraph()
	log := diag.NewDeferredLog()
	driver := plugin.NewDriver(plugins, log)
	opts := config.Options{Input: config.Input{List: []string{"/entry.js"}}}

	l := New(g, driver, opts, cache.NewSet(), log, parse, readFile)
	require.NoError(t, l.LoadAll(context.Background()))
	require.False(t, log.HasErrors())

	entryMod, ok := g.ModuleByID("/entry.js")
	require.True(t, ok)
	entry := entryMod.(*graph.Module)
	assert.Equal(t, "/static.js", entry.ResolvedIDs["./shared.js"], "static import must use ResolveID")
	require.Len(t, entry.DynamicImportResolutions, 1)
	assert.Equal(t, "/dynamic.js", entry.DynamicImportResolutions[0], "dynamic import must use ResolveDynamicImport")

	_, staticExists := g.ModuleByID("/static.js")
	_, dynamicExists := g.ModuleByID("/dynamic.js")
	assert.True(t, staticExists)
	assert.True(t, dynamicExists)
}

func TestDynamicImport_ComputedExpressionIsUnresolved(t *testing.T) {
	parse := func(id string, code string) (ParsedModule, error) {
		return ParsedModule{
			AST:                  &ast.Program{},
			DynamicImportCallees: []*ast.EImportCall{{Source: nil}},
			Exports:              map[string]string{},
		}, nil
	}
	readFile := func(id string) (string, error) { return "", nil }

	g := graph.NewGraph()
	log := diag.NewDeferredLog()
	driver := plugin.NewDriver(nil, log)
	opts := config.Options{Input: config.Input{List: []string{"/entry.js"}}}

	l := New(g, driver, opts, cache.NewSet(), log, parse, readFile)
	require.NoError(t, l.LoadAll(context.Background()))

	entryMod, _ := g.ModuleByID("/entry.js")
	entry := entryMod.(*graph.Module)
	require.Len(t, entry.DynamicImportResolutions, 1)
	assert.Equal(t, "", entry.DynamicImportResolutions[0])
}
