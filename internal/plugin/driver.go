// Package plugin implements C1, the Plugin Driver: first-non-null dispatch
// of resolveId/resolveDynamicImport/load hooks, and in-series dispatch of
// transform hooks, across an ordered plugin list, grounded
// on the teacher's RunOnResolvePlugins/runOnLoadPlugins pattern in
// evanw-esbuild/internal/bundler/bundler.go (deleted after extracting this
// shape -- see DESIGN.md).
package plugin

import (
	"context"
	"fmt"

	"github.com/nodalbuild/nodal/internal/config"
	"github.com/nodalbuild/nodal/internal/diag"
	"github.com/nodalbuild/nodal/internal/helpers"
)

// Driver runs an ordered list of plugins, stopping at the first one that
// handles a given hook (spec.md §4.1: "the first plugin ... to return a
// non-null/non-undefined result wins; later plugins are not consulted").
type Driver struct {
	Plugins []config.Plugin
	Log     diag.Log
}

func NewDriver(plugins []config.Plugin, log diag.Log) *Driver {
	return &Driver{Plugins: plugins, Log: log}
}

// ResolveID runs every plugin's ResolveID hook in order and returns the
// first handled result. Handled=false means no plugin claimed the
// specifier; the Module Loader then falls back to its default resolution.
func (d *Driver) ResolveID(ctx context.Context, args config.ResolveIDArgs) (config.ResolveIDResult, error) {
	for _, p := range d.Plugins {
		if p.ResolveID == nil {
			continue
		}
		result, err := d.runResolveID(ctx, p, args)
		if err != nil {
			return config.ResolveIDResult{}, pluginError(p.Name, err)
		}
		if result.Handled {
			return result, nil
		}
	}
	return config.ResolveIDResult{}, nil
}

// runResolveID isolates the one reflect-free recover() site per hook kind, so
// a panicking plugin (e.g. a bad regex or a nil-map write) fails the build
// with a diagnostic instead of crashing the whole process -- the same
// recover-and-report contract the teacher applies around its own parse/print
// goroutines.
func (d *Driver) runResolveID(ctx context.Context, p config.Plugin, args config.ResolveIDArgs) (result config.ResolveIDResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(p.Name, r)
		}
	}()
	return p.ResolveID(ctx, args)
}

// ResolveDynamicImport runs every plugin's ResolveDynamicImport hook in
// order and returns the first handled result, the dynamic-import counterpart
// to ResolveID (spec.md §4.1's distinct "resolveDynamicImport" hook, kept
// separate from ResolveID so a plugin can resolve a dynamic specifier
// differently from a static one of the same text).
func (d *Driver) ResolveDynamicImport(ctx context.Context, args config.ResolveDynamicImportArgs) (config.ResolveIDResult, error) {
	for _, p := range d.Plugins {
		if p.ResolveDynamicImport == nil {
			continue
		}
		result, err := d.runResolveDynamicImport(ctx, p, args)
		if err != nil {
			return config.ResolveIDResult{}, pluginError(p.Name, err)
		}
		if result.Handled {
			return result, nil
		}
	}
	return config.ResolveIDResult{}, nil
}

func (d *Driver) runResolveDynamicImport(ctx context.Context, p config.Plugin, args config.ResolveDynamicImportArgs) (result config.ResolveIDResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(p.Name, r)
		}
	}()
	return p.ResolveDynamicImport(ctx, args)
}

// Load runs every plugin's Load hook in order and returns the first handled
// result. Handled=false means every plugin passed and the loader must read
// the id itself (e.g. from the filesystem).
func (d *Driver) Load(ctx context.Context, args config.LoadArgs) (config.LoadResult, error) {
	for _, p := range d.Plugins {
		if p.Load == nil {
			continue
		}
		result, err := d.runLoad(ctx, p, args)
		if err != nil {
			return config.LoadResult{}, pluginError(p.Name, err)
		}
		if result.Handled {
			return result, nil
		}
	}
	return config.LoadResult{}, nil
}

func (d *Driver) runLoad(ctx context.Context, p config.Plugin, args config.LoadArgs) (result config.LoadResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(p.Name, r)
		}
	}()
	return p.Load(ctx, args)
}

// Transform runs every plugin's Transform hook in sequence (not
// first-wins): each plugin sees the previous plugin's output, same as the
// teacher's transform pipeline (spec.md §4.1 "transform hooks run in
// series, each one over the previous one's output"). The returned bool is
// true if any plugin opted this module's result out of warm-cache reuse
// (CustomTransformCache) -- internal/loader stores it on the module's cache
// entry, and a set flag keeps later builds from reusing that entry (spec.md
// §4.2 step 5).
func (d *Driver) Transform(ctx context.Context, id string, code string) (string, bool, error) {
	var customTransformCache bool
	for _, p := range d.Plugins {
		if p.Transform == nil {
			continue
		}
		result, err := d.runTransform(ctx, p, id, code)
		if err != nil {
			return "", false, pluginError(p.Name, err)
		}
		if result.Handled {
			code = result.Code
			if result.CustomTransformCache {
				customTransformCache = true
			}
		}
	}
	return code, customTransformCache, nil
}

func (d *Driver) runTransform(ctx context.Context, p config.Plugin, id, code string) (result config.TransformResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(p.Name, r)
		}
	}()
	return p.Transform(ctx, id, code)
}

func pluginError(name string, err error) error {
	return fmt.Errorf("[plugin %s] %w", name, err)
}

// panicError converts a recovered plugin panic into a regular error carrying
// a cleaned-up stack trace, matching the teacher's
// "panic: %v (while ...)" / helpers.PrettyPrintedStack() pairing.
func panicError(name string, r any) error {
	return fmt.Errorf("panic: %v\n%s", r, helpers.PrettyPrintedStack())
}
