// Package config holds the build-wide Options (spec.md §6) and the plugin
// hook argument/result shapes C1 (the Plugin Driver) dispatches. The hook
// shapes generalize the teacher's config.Plugin/OnResolve*/OnLoad* types
// (internal/config/config.go in the teacher tree, deleted wholesale -- see
// DESIGN.md -- since the rest of that file is JSX/TS/CSS specific).
package config

// Input is the entry-point set (spec.md §6 `input`): either a flat list
// (alias derived from the id) or an explicit alias->id map.
type Input struct {
	List    []string
	Aliased map[string]string // alias -> id; nil if List is used instead
}

// ExternalFunc decides whether id should be treated as external. isResolved
// is true when id is already a resolved absolute id rather than a raw
// specifier (spec.md §6 `external`).
type ExternalFunc func(id string, importer string, isResolved bool) bool

// PureExternalModules narrows which external modules are considered free of
// side effects for tree-shaking purposes (spec.md §4.6).
type PureExternalModules struct {
	All       bool
	List      map[string]bool
	Predicate func(id string) bool
}

func (p PureExternalModules) IsPure(id string) bool {
	if p.All {
		return true
	}
	if p.List != nil && p.List[id] {
		return true
	}
	if p.Predicate != nil {
		return p.Predicate(id)
	}
	return false
}

// TreeshakingOptions are the policy knobs spec.md §4.6 describes.
type TreeshakingOptions struct {
	PropertyReadSideEffects bool
	PureExternalModules     PureExternalModules
}

// Treeshake is a three-valued `bool | TreeshakingOptions` per spec.md §6.
type Treeshake struct {
	Enabled bool
	Options TreeshakingOptions
}

// DefaultTreeshake matches Rollup/the spec's own documented default:
// tree-shaking on, PropertyReadSideEffects true, no externals presumed pure.
func DefaultTreeshake() Treeshake {
	return Treeshake{
		Enabled: true,
		Options: TreeshakingOptions{PropertyReadSideEffects: true},
	}
}

// Options is the full set of build-wide configuration the core consumes
// (spec.md §6).
type Options struct {
	Input    Input
	External ExternalFunc

	Treeshake Treeshake

	ExperimentalCacheExpiry int

	Context       string
	ModuleContext func(id string) string

	ShimMissingExports bool
	PreferConst        bool

	ExperimentalTopLevelAwait bool

	// PreserveModules and InlineDynamicImports select the Chunk Partitioner's
	// mode (spec.md §4.7). InlineDynamicImports requires exactly one entry.
	PreserveModules      bool
	InlineDynamicImports bool

	// ManualChunks assigns specific module ids to a named chunk bucket,
	// consulted by internal/chunker ahead of the entry-hash grouping.
	ManualChunks map[string]string // module id -> chunk bucket name
}

// IsExternal applies External, defaulting to "never external" when unset,
// and unconditionally refusing ids beginning with NUL (spec.md §6: "ids
// beginning with \0 are never external" -- matching esbuild's and Rollup's
// shared convention for virtual module ids).
func (o Options) IsExternal(id string, importer string, isResolved bool) bool {
	if len(id) > 0 && id[0] == 0 {
		return false
	}
	if o.External == nil {
		return false
	}
	return o.External(id, importer, isResolved)
}
