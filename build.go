// Package nodal wires the module graph core's eight components -- Plugin
// Driver, Module Loader, AST & Scope Layer, Binding Linker, Execution-Order
// Analyzer, Tree-Shaker, Chunk Partitioner, and Warning & Error Sink -- into
// a single Build entry point. Grounded on evanw-esbuild/internal/bundler/
// bundler.go's two-phase ScanBundle -> Compile split (internal/bundler
// deleted after extracting this shape -- see DESIGN.md), collapsed here
// into one Build call since chunk composition is this spec's final step
// (code generation is out of scope; see SPEC_FULL.md Non-goals).
package nodal

import (
	"context"

	"github.com/nodalbuild/nodal/internal/cache"
	"github.com/nodalbuild/nodal/internal/chunker"
	"github.com/nodalbuild/nodal/internal/config"
	"github.com/nodalbuild/nodal/internal/diag"
	"github.com/nodalbuild/nodal/internal/graph"
	"github.com/nodalbuild/nodal/internal/linkbind"
	"github.com/nodalbuild/nodal/internal/loader"
	"github.com/nodalbuild/nodal/internal/order"
	"github.com/nodalbuild/nodal/internal/plugin"
	"github.com/nodalbuild/nodal/internal/treeshake"
)

// Result is everything a host needs after a successful Build: the final
// Graph (for inspecting chunks, exports, watch files) and any non-fatal
// warnings collected along the way.
type Result struct {
	Graph    *graph.Graph
	Warnings []diag.Msg
	Cycles   [][]string
}

// Build runs C1-C7 over opts and returns the resulting Graph, or the first
// fatal error encountered. Plugins, parsing, and the default filesystem
// reader are supplied by the host (internal/demo in this repo, for tests
// and cmd/nodal) since C3's concrete grammar is intentionally out of this
// package's scope (spec.md §1 Non-goals).
func Build(ctx context.Context, opts config.Options, plugins []config.Plugin, parse loader.ParseFunc, readFile func(string) (string, error), c *cache.Set) (*Result, error) {
	log := diag.NewDeferredLog()
	g := graph.NewGraph()
	driver := plugin.NewDriver(plugins, log)

	if c == nil {
		c = cache.NewSet()
	}

	l := loader.New(g, driver, opts, c, log, parse, readFile)
	if err := l.LoadAll(ctx); err != nil {
		return nil, err
	}
	if opts.InlineDynamicImports && len(g.EntryPoints) > 1 {
		return nil, diag.NewBuildError(diag.CodeConfiguration, "inlineDynamicImports requires exactly one entry point")
	}

	linker := linkbind.New(g, log, opts.ShimMissingExports)
	linker.Link()
	if log.HasErrors() {
		return nil, diag.NewBuildError(diag.CodeUnresolvedImport, "build failed because of errors reported above")
	}

	orderResult := order.Analyze(g, log)

	shaker := treeshake.New(g, opts.Treeshake)
	shaker.Run()

	chunker.Partition(g, opts, orderResult.ExecutionOrder)

	visited := make(map[string]bool, len(orderResult.ExecutionOrder))
	for _, id := range orderResult.ExecutionOrder {
		visited[id] = true
	}
	c.Tick(visited, opts.ExperimentalCacheExpiry)

	g.Finished = true

	if log.HasErrors() {
		return nil, diag.NewBuildError(diag.CodeConfiguration, "build failed because of errors reported above")
	}

	return &Result{Graph: g, Warnings: log.Done(), Cycles: orderResult.Cycles}, nil
}
