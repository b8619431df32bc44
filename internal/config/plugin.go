package config

import "context"

// ResolveIDResult is the outcome of one plugin's resolveId hook (spec.md
// §4.1, C1). Unhandled (the zero value) lets the driver fall through to the
// next plugin; the teacher's equivalent is OnResolveResult's nil-vs-non-nil
// Path field (internal/config/config.go), generalized here into an explicit
// three-state result per the Design Note in SPEC_FULL.md §9.
type ResolveIDResult struct {
	Handled  bool
	ID       string
	External bool

	// Meta is plugin-private data about the resolved id. The Module Loader
	// does not forward it: the LoadArgs it passes to load hooks leave
	// PluginMeta nil.
	Meta map[string]any
}

// LoadResult is the outcome of one plugin's load hook.
type LoadResult struct {
	Handled bool
	Code    string
}

// TransformResult is the outcome of one plugin's transform hook; Handled
// false leaves Code untouched and lets the next plugin see the prior value.
// CustomTransformCache opts this module out of the Module Loader's warm-cache
// reuse (spec.md §4.2 step 5's "no customTransformCache"): set it when the
// hook's output depends on something other than the raw source text (e.g. an
// external file, the current time) that an equal originalCode can't capture.
type TransformResult struct {
	Handled              bool
	Code                 string
	CustomTransformCache bool
}

// ResolveIDArgs is passed to every resolveId hook in turn.
type ResolveIDArgs struct {
	Source     string
	Importer   string
	IsEntry    bool
	PluginMeta map[string]any
}

// LoadArgs is passed to every load hook in turn.
type LoadArgs struct {
	ID         string
	PluginMeta map[string]any
}

// ResolveDynamicImportArgs is passed to every resolveDynamicImport hook in
// turn (spec.md §4.1, §6: "resolveDynamicImport(specifierNodeOrString,
// importerId) -> string | null"). Specifier is empty when the import()
// call's argument was not a string literal (a computed expression) --
// plugins that only handle literal specifiers should decline (Handled:
// false) in that case, same as the teacher leaves non-string import()
// arguments for the default resolver to reject.
type ResolveDynamicImportArgs struct {
	Specifier  string
	Importer   string
	PluginMeta map[string]any
}

// Plugin mirrors the teacher's config.Plugin hook surface (resolveId/load/
// transform/resolveDynamicImport), narrowed to the hooks the Plugin Driver
// (C1) dispatches per spec.md §4.1. A Plugin need not implement every hook:
// a nil function pointer means "this plugin declines to participate in this
// hook", exactly like the teacher's plugin struct leaving fields unset.
type Plugin struct {
	Name string

	ResolveID            func(ctx context.Context, args ResolveIDArgs) (ResolveIDResult, error)
	Load                 func(ctx context.Context, args LoadArgs) (LoadResult, error)
	Transform            func(ctx context.Context, id string, code string) (TransformResult, error)
	ResolveDynamicImport func(ctx context.Context, args ResolveDynamicImportArgs) (ResolveIDResult, error)
}
