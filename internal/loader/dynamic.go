package loader

import (
	"context"

	"github.com/nodalbuild/nodal/internal/graph"
	"github.com/nodalbuild/nodal/internal/helpers"
)

// resolveDynamicImports resolves every `import(...)` call recorded on m,
// fetching internal targets the same way a static import would and
// registering external targets as namespace-exporting externals (spec.md
// §4.2's dynamic-deps handling).
//
// This fixes a bug present in the original tool this design is adapted
// from: a dynamic import of a specifier that resolves to an id already
// claimed by one of the *importer's own* static imports used to register
// the importer itself under the dynamic import's resolved id, corrupting
// the graph's one-id-one-module invariant. The corrected behavior always
// inserts (or reuses) the module the specifier actually resolves to, never
// the importer, regardless of what else in the importer's own import list
// happens to share that id.
func (l *Loader) resolveDynamicImports(ctx context.Context, m *graph.Module, wg *helpers.ThreadSafeWaitGroup) {
	for _, call := range m.DynamicImportExpressions {
		if call.Source == nil {
			// A computed `import(expr)` can't be statically resolved; record
			// an empty resolution so C6/C7 treat it conservatively (spec.md
			// §4.6: dynamic imports are never eliminated by tree-shaking).
			m.DynamicImportResolutions = append(m.DynamicImportResolutions, "")
			continue
		}
		source := *call.Source
		resolvedID, external, err := l.resolveDynamicImportID(ctx, source, m.ID)
		if err != nil {
			m.DynamicImportResolutions = append(m.DynamicImportResolutions, "")
			continue
		}
		m.DynamicImportResolutions = append(m.DynamicImportResolutions, resolvedID)

		if external {
			ext := l.Graph.GetOrCreateExternal(resolvedID)
			ext.ExportsNamespace = true
			continue
		}

		if _, exists := l.Graph.ModuleByID(resolvedID); exists {
			continue
		}
		wg.Add(1)
		go l.fetchModule(ctx, resolvedID, m.ID, false, wg)
	}
}
