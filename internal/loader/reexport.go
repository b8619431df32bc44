package loader

import (
	"fmt"

	"github.com/nodalbuild/nodal/internal/diag"
	"github.com/nodalbuild/nodal/internal/graph"
)

// flattenExportAll computes each Module's ExportsAll: the full set of names
// it exports once `export * from "..."` chains are followed, per spec.md
// §4.2's re-export flattening rules:
//   - a module's own direct exports always win
//   - when two or more `export *` sources disagree on a name, the first one
//     (in `export *` source order) wins and the rest are dropped; the build
//     goes on, with a NAMESPACE_CONFLICT warning (checkExportAllConflicts)
//     rather than an error
//   - "default" is never propagated through `export *`
//
// Runs as a memoized depth-first walk over the whole Graph, since export-all
// chains can be cyclic or arbitrarily deep.
func flattenExportAll(g *graph.Graph, log diag.Log) {
	memo := make(map[string]map[string]string)
	visiting := make(map[string]bool)

	var resolve func(id string) (map[string]string, bool)
	resolve = func(id string) (map[string]string, bool) {
		if result, ok := memo[id]; ok {
			return result, true
		}
		if visiting[id] {
			// A cycle of `export *` statements is cut here. Results computed
			// under such a cut are partial and are not memoized, so each
			// module's own top-level resolve walks the cycle from itself and
			// sees the names of every module on it.
			return map[string]string{}, false
		}
		visiting[id] = true
		defer delete(visiting, id)

		v, ok := g.ModuleByID(id)
		if !ok {
			return map[string]string{}, true
		}
		m, ok := v.(*graph.Module)
		if !ok {
			// External module: its whole namespace re-exports as a unit: the
			// linker treats this specially rather than flattening named
			// exports we cannot see.
			return map[string]string{}, true
		}

		out := make(map[string]string)
		complete := true
		for _, source := range m.ExportAllSources {
			resolvedID, isExternal := resolveExportAllSource(m, source)
			if isExternal {
				continue
			}
			sub, subComplete := resolve(resolvedID)
			complete = complete && subComplete
			for name, ownerID := range sub {
				if name == "default" {
					continue
				}
				if _, exists := out[name]; !exists {
					out[name] = ownerID
				}
			}
		}
		for name := range m.Exports {
			out[name] = id
		}
		if complete {
			memo[id] = out
		}
		return out, complete
	}

	for _, m := range g.Modules {
		m.ExportsAll, _ = resolve(m.ID)
	}

	checkExportAllConflicts(g, log)
}

func resolveExportAllSource(m *graph.Module, source string) (id string, isExternal bool) {
	resolved, ok := m.ResolvedIDs[source]
	if !ok {
		return "", true
	}
	if resolved == graph.ExternalSentinel {
		return "", true
	}
	return resolved, false
}

// checkExportAllConflicts emits a diagnostic (not a hard error, matching
// Rollup's own behavior) whenever two distinct `export *` sources of the
// same module would have contributed the same name, so a build can surface
// NAMESPACE_CONFLICT without failing.
func checkExportAllConflicts(g *graph.Graph, log diag.Log) {
	for _, m := range g.Modules {
		seen := make(map[string]string) // name -> first owner id
		for _, source := range m.ExportAllSources {
			resolvedID, isExternal := resolveExportAllSource(m, source)
			if isExternal {
				continue
			}
			v, ok := g.ModuleByID(resolvedID)
			if !ok {
				continue
			}
			other, ok := v.(*graph.Module)
			if !ok {
				continue
			}
			for name, ownerID := range other.ExportsAll {
				if name == "default" {
					continue
				}
				if first, exists := seen[name]; exists && first != ownerID {
					log.AddWarning(diag.CodeNamespaceConflict, fmt.Sprintf(
						"%q re-exports %q from both %q and %q; the first one is used", m.ID, name, first, ownerID))
					continue
				}
				seen[name] = ownerID
			}
		}
	}
}
