// Package chunker implements C7, the Chunk Partitioner: groups included
// modules into Chunks by shared entry-reachability (EntryPointsHash),
// honoring manual chunk assignment, preserveModules (one chunk per module),
// and inlineDynamicImports (collapse everything into the single entry's
// chunk). Grounded on evanw-esbuild/internal/linker/linker.go's
// computeChunks (group-by-entry-bits, then stable-sort within group),
// adapted from EntryBits helpers.BitSet to this spec's commutative
// entryPointsHash.
package chunker

import (
	"encoding/hex"
	"sort"

	"github.com/nodalbuild/nodal/internal/config"
	"github.com/nodalbuild/nodal/internal/graph"
)

// Partition builds g.Chunks from the modules reachable in executionOrder
// (internal/order.Result.ExecutionOrder: post-order DFS, every static
// dependency before its dependent) according to opts' chunking mode
// (spec.md §4.7). g.Modules is the loader's insertion order -- a module is
// appended to it before its own static dependencies are fetched (internal/
// loader/loader.go's fetchModule), the opposite of execution order -- so
// chunk membership must never be built by walking g.Modules directly.
func Partition(g *graph.Graph, opts config.Options, executionOrder []string) {
	included := includedInOrder(g, executionOrder)

	switch {
	case opts.InlineDynamicImports:
		partitionInlineDynamic(g, included)
	case opts.PreserveModules:
		partitionPreserveModules(g, included)
	default:
		partitionByHash(g, included, opts.ManualChunks)
	}

	linkChunks(g)
	assignFacades(g)
}

func includedInOrder(g *graph.Graph, executionOrder []string) []*graph.Module {
	var out []*graph.Module
	for _, id := range executionOrder {
		v, ok := g.ModuleByID(id)
		if !ok {
			continue
		}
		m, ok := v.(*graph.Module)
		if !ok || !m.IsIncluded {
			continue
		}
		out = append(out, m)
	}
	return out
}

func partitionInlineDynamic(g *graph.Graph, modules []*graph.Module) {
	c := graph.NewChunk()
	for _, m := range modules {
		c.Modules = append(c.Modules, m)
		m.Chunk = c
	}
	if len(g.EntryPoints) > 0 {
		if v, ok := g.ModuleByID(g.EntryPoints[0].ID); ok {
			if em, ok := v.(*graph.Module); ok {
				c.EntryModule = em
			}
		}
	}
	g.Chunks = append(g.Chunks, c)
}

func partitionPreserveModules(g *graph.Graph, modules []*graph.Module) {
	for _, m := range modules {
		c := graph.NewChunk()
		c.Modules = []*graph.Module{m}
		c.EntryModule = m
		m.Chunk = c
		g.Chunks = append(g.Chunks, c)
	}
}

// partitionByHash is the default mode: group modules sharing a manual-chunk
// bucket first, then group the remainder by hex(EntryPointsHash), each
// distinct hash becoming one chunk. modules is already in execution order
// (see Partition), and buildChunk preserves that order within each group,
// so modules within a chunk keep execution order (spec.md §4.7).
func partitionByHash(g *graph.Graph, modules []*graph.Module, manual map[string]string) {
	manualGroups := make(map[string][]*graph.Module)
	var manualOrder []string
	hashGroups := make(map[string][]*graph.Module)
	var hashOrder []string

	for _, m := range modules {
		if manual != nil {
			if bucket, ok := manual[m.ID]; ok {
				if _, seen := manualGroups[bucket]; !seen {
					manualOrder = append(manualOrder, bucket)
				}
				manualGroups[bucket] = append(manualGroups[bucket], m)
				continue
			}
		}
		key := hex.EncodeToString(m.EntryPointsHash[:])
		if _, seen := hashGroups[key]; !seen {
			hashOrder = append(hashOrder, key)
		}
		hashGroups[key] = append(hashGroups[key], m)
	}

	for _, bucket := range manualOrder {
		g.Chunks = append(g.Chunks, buildChunk(manualGroups[bucket], true))
	}
	for _, key := range hashOrder {
		g.Chunks = append(g.Chunks, buildChunk(hashGroups[key], false))
	}

	assignSingleEntryOwners(g)
}

func buildChunk(modules []*graph.Module, isManual bool) *graph.Chunk {
	c := graph.NewChunk()
	c.Modules = modules
	c.IsManualChunk = isManual
	for _, m := range modules {
		m.Chunk = c
	}
	return c
}

// assignSingleEntryOwners sets Chunk.EntryModule when exactly one of a
// chunk's modules is itself an entry point (spec.md §4.7: "a chunk whose
// module set is colored by exactly one entry's hash is owned by that
// entry"). Chunks reached by more than one entry (shared chunks) are left
// without an owning EntryModule and get a generated chunk name instead.
func assignSingleEntryOwners(g *graph.Graph) {
	for _, c := range g.Chunks {
		var owners []*graph.Module
		for _, m := range c.Modules {
			if m.IsEntryPoint {
				owners = append(owners, m)
			}
		}
		if len(owners) == 1 {
			c.EntryModule = owners[0]
		}
	}
}

// assignFacades builds a facade chunk for any entry point whose own chunk
// was not allowed to dictate that chunk's shape (spec.md §4.7: an entry
// that shares its hash-colored chunk with code reachable from other
// entries too doesn't get to rename or reshape that shared chunk, so it
// gets a thin facade chunk that just re-exports the shared chunk's public
// surface under the entry's own alias).
func assignFacades(g *graph.Graph) {
	for _, e := range g.EntryPoints {
		v, ok := g.ModuleByID(e.ID)
		if !ok {
			continue
		}
		m, ok := v.(*graph.Module)
		if !ok || m.Chunk == nil {
			continue
		}
		if m.Chunk.EntryModule == m {
			m.Chunk.EntryModule = m
			m.ChunkAlias = e.Alias
			continue
		}

		facade := graph.NewChunk()
		facade.EntryModule = m
		facade.IsEntryModuleFacade = true
		facade.ImportsFromChunks[m.Chunk] = exportedNames(m)
		for name, local := range m.Exports {
			facade.Exports[name] = local
		}
		for name, ownerID := range m.ExportsAll {
			if _, declared := m.Exports[name]; declared {
				continue
			}
			_ = ownerID
			facade.Exports[name] = name
		}
		m.ChunkAlias = e.Alias
		g.Chunks = append(g.Chunks, facade)
	}
}

func exportedNames(m *graph.Module) []string {
	names := make([]string, 0, len(m.Exports)+len(m.ExportsAll))
	for name := range m.Exports {
		names = append(names, name)
	}
	for name := range m.ExportsAll {
		if _, declared := m.Exports[name]; !declared {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// linkChunks populates each non-facade chunk's ImportsFromChunks by
// scanning its modules' resolved imports for targets that landed in a
// different chunk (spec.md §4.7 "link each chunk").
func linkChunks(g *graph.Graph) {
	for _, c := range g.Chunks {
		for _, m := range c.Modules {
			for local, imp := range m.Imports {
				targetID, ok := m.ResolvedIDs[imp.Source]
				if !ok || targetID == graph.ExternalSentinel {
					continue
				}
				v, ok := g.ModuleByID(targetID)
				if !ok {
					continue
				}
				target, ok := v.(*graph.Module)
				if !ok || target.Chunk == nil || target.Chunk == c {
					continue
				}
				c.ImportsFromChunks[target.Chunk] = appendUnique(c.ImportsFromChunks[target.Chunk], imp.Imported)
				_ = local
			}
		}
	}
}

func appendUnique(list []string, name string) []string {
	for _, existing := range list {
		if existing == name {
			return list
		}
	}
	return append(list, name)
}
