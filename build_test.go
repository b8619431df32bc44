package nodal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodalbuild/nodal/internal/ast"
	"github.com/nodalbuild/nodal/internal/config"
	"github.com/nodalbuild/nodal/internal/demo"
	"github.com/nodalbuild/nodal/internal/graph"
)

// Two entries import a shared module: one binding they both use (`shared`),
// and one export neither touches (`deadCode`). Exercises C2-C7 end to end:
// loading, linking, tree-shaking (`deadCode` must drop), execution ordering
// (no cycle), and chunking (the shared module must land in its own chunk,
// owned by neither entry, while each entry owns its own chunk).
func TestBuild_EndToEnd_TreeShakesUnusedAndChunksSharedDependency(t *testing.T) {
	fs := demo.FS{
		"/shared.js": "export const shared = 1;\nexport const deadCode = 2;",
		"/entryA.js": "import { shared } from \"./shared.js\";\nconst a = shared;\nexport { a };",
		"/entryB.js": "import { shared } from \"./shared.js\";\nconst b = shared;\nexport { b };",
	}

	opts := config.Options{
		Input:     config.Input{Aliased: map[string]string{"a": "/entryA.js", "b": "/entryB.js"}},
		Treeshake: config.DefaultTreeshake(),
	}

	result, err := Build(context.Background(), opts, nil, demo.Parse, fs.ReadFile, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Cycles)

	sharedV, ok := result.Graph.ModuleByID("/shared.js")
	require.True(t, ok)
	shared := sharedV.(*graph.Module)
	assert.True(t, shared.IsIncluded)

	assert.True(t, includedStmtFor(shared, "shared"), "shared must be included: both entries reference it")
	assert.False(t, includedStmtFor(shared, "deadCode"), "deadCode must be tree-shaken: nothing references it")

	// /shared.js is reached by both entries, so its combined hash differs
	// from either entry's own (single-entry) hash: it lands in its own
	// unowned chunk rather than being folded into entryA's or entryB's.
	require.Len(t, result.Graph.Chunks, 3)
	var sharedChunkOwned bool
	for _, c := range result.Graph.Chunks {
		for _, m := range c.Modules {
			if m.ID == "/shared.js" && c.EntryModule != nil {
				sharedChunkOwned = true
			}
		}
	}
	assert.False(t, sharedChunkOwned, "the shared chunk must not be owned by either entry")
}

// includedStmtFor reports whether the statement declaring localName in m is
// marked Included.
func includedStmtFor(m *graph.Module, localName string) bool {
	for _, stmt := range m.AST.Stmts {
		if v := ast.DeclaredVariable(stmt); v != nil && v.Name == localName {
			return stmt.Included
		}
	}
	return false
}

func TestBuild_UnresolvedImportWithoutShimFailsBuild(t *testing.T) {
	fs := demo.FS{
		"/entry.js": "import { missing } from \"./lib.js\";",
		"/lib.js":   "export const present = 1;",
	}
	opts := config.Options{
		Input:     config.Input{List: []string{"/entry.js"}},
		Treeshake: config.DefaultTreeshake(),
	}

	_, err := Build(context.Background(), opts, nil, demo.Parse, fs.ReadFile, nil)
	assert.Error(t, err)
}

func TestBuild_ShimMissingExportsRecovers(t *testing.T) {
	fs := demo.FS{
		"/entry.js": "import { missing } from \"./lib.js\";",
		"/lib.js":   "export const present = 1;",
	}
	opts := config.Options{
		Input:              config.Input{List: []string{"/entry.js"}},
		Treeshake:          config.DefaultTreeshake(),
		ShimMissingExports: true,
	}

	_, err := Build(context.Background(), opts, nil, demo.Parse, fs.ReadFile, nil)
	assert.NoError(t, err)
}
