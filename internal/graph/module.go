// Package graph holds the process-wide data model spec.md §3 describes:
// Module, ExternalModule, Graph, and Chunk, plus the invariants that bind
// them together across the C2-C7 passes that mutate them in sequence.
package graph

import (
	"github.com/nodalbuild/nodal/internal/ast"
	"github.com/nodalbuild/nodal/internal/scope"
)

// EntryPointsHashSize is the width of the commutative entry-reachability
// digest (spec.md §3 invariant 6, §4.5, §9): 16 bytes, XOR-combined per
// reaching entry.
const EntryPointsHashSize = 16

// EntryPointsHash is the chunk-coloring key assigned to every module by
// internal/order.
type EntryPointsHash [EntryPointsHashSize]byte

// XorWith combines another entry's digest into this one. XOR is commutative
// and order-independent, which is exactly the property spec.md §9 asks for:
// two modules reached by the same *set* of entries end up with the same
// hash regardless of traversal order.
func (h *EntryPointsHash) XorWith(other EntryPointsHash) {
	for i := range h {
		h[i] ^= other[i]
	}
}

// ResolvedImport is one resolved local binding: `import {Imported} from
// "source"` records both the specifier text and the name imported under it,
// per spec.md §3's "imports: map from local binding name -> { source, name }".
type ResolvedImport struct {
	Source   string
	Imported string
}

// Module is a loaded source file (spec.md §3). Its identity is ID, a
// resolved absolute path or virtual-module string that is unique within one
// Graph for the Graph's lifetime (invariant 1).
type Module struct {
	ID           string
	Source       string
	OriginalCode string
	AST          *ast.Program
	Scope        *scope.Scope

	// Sources lists the literal static-import specifiers appearing in the
	// file, in source order (invariant 2: its length tracks ResolvedIDs).
	Sources []string

	// ResolvedIDs maps each entry of Sources to the id it resolved to, or the
	// sentinel ExternalSentinel if the specifier resolved external.
	ResolvedIDs map[string]string

	// Imports maps a local binding name to where it came from.
	Imports map[string]ResolvedImport

	// Exports maps an exported name to the local binding name that produces
	// it. ExportAllSources lists `export * from "..."` specifiers in source
	// order.
	Exports          map[string]string
	ExportAllSources []string

	// ExportsAll is the flattened export surface built after linking: every
	// name this module exports (directly or via export-all chains), mapped
	// to the id of the module that actually declares it.
	ExportsAll map[string]string

	// DynamicImportExpressions are the *ast.EImportCall nodes found during
	// parse, in source order; DynamicImportResolutions is the parallel
	// resolved-id (or ExternalSentinel) array built by the loader.
	DynamicImportExpressions []*ast.EImportCall
	DynamicImportResolutions []string

	IsEntryPoint    bool
	ChunkAlias      string
	EntryPointsHash EntryPointsHash
	Chunk           *Chunk

	// IsIncluded is true once the tree-shaker has pulled at least one
	// statement of this module into the bundle (or unconditionally, if
	// tree-shaking is disabled).
	IsIncluded bool
}

// ExternalSentinel is the ResolvedIDs value recorded for a specifier that
// resolved to an ExternalModule rather than an internal Module.
const ExternalSentinel = "\x00EXTERNAL\x00"

func NewModule(id string) *Module {
	return &Module{
		ID:          id,
		ResolvedIDs: make(map[string]string),
		Imports:     make(map[string]ResolvedImport),
		Exports:     make(map[string]string),
		ExportsAll:  make(map[string]string),
	}
}
