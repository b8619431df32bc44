package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodalbuild/nodal/internal/config"
	"github.com/nodalbuild/nodal/internal/graph"
)

func includedModule(g *graph.Graph, id string, isEntry bool, hash graph.EntryPointsHash) *graph.Module {
	m := graph.NewModule(id)
	m.IsIncluded = true
	m.IsEntryPoint = isEntry
	m.EntryPointsHash = hash
	g.InsertModule(m)
	g.AppendModule(m)
	return m
}

func TestPartition_DefaultGroupsByHash(t *testing.T) {
	g := graph.NewGraph()
	hashA := graph.EntryPointsHash{1}
	hashB := graph.EntryPointsHash{2}

	entryA := includedModule(g, "/a.js", true, hashA)
	includedModule(g, "/a-only-dep.js", false, hashA)
	entryB := includedModule(g, "/b.js", true, hashB)
	g.EntryPoints = []graph.EntryPoint{{ID: "/a.js", Alias: "a"}, {ID: "/b.js", Alias: "b"}}

	// Deliberately the reverse of g.Modules' insertion order, to prove
	// Partition groups/sorts from the passed executionOrder and not from
	// g.Modules.
	Partition(g, config.Options{}, []string{"/b.js", "/a-only-dep.js", "/a.js"})

	require.Len(t, g.Chunks, 2)
	assert.Equal(t, entryB, g.Chunks[0].EntryModule)
	assert.Equal(t, entryA, g.Chunks[1].EntryModule)
	assert.Equal(t, "a", entryA.ChunkAlias)
	assert.Equal(t, "b", entryB.ChunkAlias)
}

func TestPartition_EntriesSharingOneHashEachGetFacade(t *testing.T) {
	g := graph.NewGraph()
	sharedHash := graph.EntryPointsHash{3}

	entryA := includedModule(g, "/a.js", true, sharedHash)
	entryB := includedModule(g, "/b.js", true, sharedHash)
	g.EntryPoints = []graph.EntryPoint{{ID: "/a.js", Alias: "a"}, {ID: "/b.js", Alias: "b"}}

	Partition(g, config.Options{}, []string{"/a.js", "/b.js"})

	// Both entries share one hash, so the default grouping places them in the
	// SAME physical chunk; since two entry modules reach it, neither "owns"
	// it outright, and both Entry points get a facade chunk instead.
	var facades int
	for _, c := range g.Chunks {
		if c.IsEntryModuleFacade {
			facades++
		}
	}
	assert.Equal(t, 2, facades)
	_ = entryA
	_ = entryB
}

func TestPartition_PreserveModulesOneChunkPerModule(t *testing.T) {
	g := graph.NewGraph()
	includedModule(g, "/a.js", true, graph.EntryPointsHash{1})
	includedModule(g, "/b.js", false, graph.EntryPointsHash{1})
	g.EntryPoints = []graph.EntryPoint{{ID: "/a.js", Alias: "a"}}

	// "/b.js" precedes "/a.js" here, the way a real dependency-before-
	// dependent execution order would for a->imports->b.
	Partition(g, config.Options{PreserveModules: true}, []string{"/b.js", "/a.js"})

	require.Len(t, g.Chunks, 2)
	assert.Equal(t, "/b.js", g.Chunks[0].Modules[0].ID)
	assert.Equal(t, "/a.js", g.Chunks[1].Modules[0].ID)
}

func TestPartition_InlineDynamicImportsSingleChunk(t *testing.T) {
	g := graph.NewGraph()
	includedModule(g, "/a.js", true, graph.EntryPointsHash{1})
	includedModule(g, "/b.js", false, graph.EntryPointsHash{1})
	g.EntryPoints = []graph.EntryPoint{{ID: "/a.js", Alias: "a"}}

	Partition(g, config.Options{InlineDynamicImports: true}, []string{"/b.js", "/a.js"})

	require.Len(t, g.Chunks, 1)
	require.Len(t, g.Chunks[0].Modules, 2)
	assert.Equal(t, "/b.js", g.Chunks[0].Modules[0].ID, "the single chunk must keep execution order too")
}

func TestIncludedInOrder_SkipsUnreachedAndNonIncludedModules(t *testing.T) {
	g := graph.NewGraph()
	includedModule(g, "/a.js", true, graph.EntryPointsHash{1})
	notIncluded := graph.NewModule("/dead.js")
	g.InsertModule(notIncluded)
	g.AppendModule(notIncluded)

	// "/missing.js" is in executionOrder but was never registered in the
	// graph (can't happen in the real pipeline, but the lookup must not
	// panic); "/dead.js" is registered but never marked IsIncluded.
	out := includedInOrder(g, []string{"/missing.js", "/dead.js", "/a.js"})

	require.Len(t, out, 1)
	assert.Equal(t, "/a.js", out[0].ID)
}
