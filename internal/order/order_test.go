package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodalbuild/nodal/internal/diag"
	"github.com/nodalbuild/nodal/internal/graph"
)

func module(g *graph.Graph, id string, sources []string, resolved map[string]string) *graph.Module {
	m := graph.NewModule(id)
	m.Sources = sources
	for k, v := range resolved {
		m.ResolvedIDs[k] = v
	}
	g.InsertModule(m)
	g.AppendModule(m)
	return m
}

// entry -> a -> b, linear chain: post-order means b, then a, then entry.
func TestAnalyze_PostOrderExecutionOrder(t *testing.T) {
	g := graph.NewGraph()
	module(g, "/b.js", nil, nil)
	module(g, "/a.js", []string{"./b.js"}, map[string]string{"./b.js": "/b.js"})
	module(g, "/entry.js", []string{"./a.js"}, map[string]string{"./a.js": "/a.js"})
	g.EntryPoints = []graph.EntryPoint{{ID: "/entry.js", Alias: "entry"}}

	log := diag.NewDeferredLog()
	result := Analyze(g, log)

	assert.Equal(t, []string{"/b.js", "/a.js", "/entry.js"}, result.ExecutionOrder)
	assert.Empty(t, result.Cycles)
}

func TestAnalyze_DetectsCycle(t *testing.T) {
	g := graph.NewGraph()
	module(g, "/a.js", []string{"./b.js"}, map[string]string{"./b.js": "/b.js"})
	module(g, "/b.js", []string{"./a.js"}, map[string]string{"./a.js": "/a.js"})
	g.EntryPoints = []graph.EntryPoint{{ID: "/a.js", Alias: "a"}}

	log := diag.NewDeferredLog()
	result := Analyze(g, log)

	if assert.Len(t, result.Cycles, 1) {
		assert.Equal(t, []string{"/a.js", "/b.js", "/a.js"}, result.Cycles[0])
	}
	assert.False(t, log.HasErrors(), "cycles are warnings, not fatal errors")
}

// Two entries sharing a dependency must XOR both entries' digests into it,
// producing a hash distinct from either entry reached alone.
func TestAnalyze_SharedModuleHashCombinesBothEntries(t *testing.T) {
	g := graph.NewGraph()
	module(g, "/shared.js", nil, nil)
	module(g, "/entryA.js", []string{"./shared.js"}, map[string]string{"./shared.js": "/shared.js"})
	module(g, "/entryB.js", []string{"./shared.js"}, map[string]string{"./shared.js": "/shared.js"})
	g.EntryPoints = []graph.EntryPoint{{ID: "/entryA.js", Alias: "a"}, {ID: "/entryB.js", Alias: "b"}}

	log := diag.NewDeferredLog()
	Analyze(g, log)

	sharedV, _ := g.ModuleByID("/shared.js")
	aV, _ := g.ModuleByID("/entryA.js")
	shared := sharedV.(*graph.Module)
	a := aV.(*graph.Module)

	assert.NotEqual(t, a.EntryPointsHash, shared.EntryPointsHash)
}
