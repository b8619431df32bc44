package graph

import "sort"

// ExternalModule stands in for an id the host declares external (spec.md
// §3). It never has an AST; it can track which import bindings were used
// against it (RecordImportUsage, MarkReferenced, UnusedImports). No pass of
// the build pipeline calls these, so UNUSED_EXTERNAL_IMPORT is never emitted.
type ExternalModule struct {
	ID string

	// ExportsNamespace is set when any dynamic import of this external
	// resolved with `import(...)`'s implicit namespace-object semantics
	// (spec.md §4.2's dynamic-deps "string that resolves external" case).
	ExportsNamespace bool

	// usedImports tracks, per locally-bound name, whether a reference to it
	// was ever actually bound during linking.
	usedImports map[string]bool
}

func NewExternalModule(id string) *ExternalModule {
	return &ExternalModule{ID: id, usedImports: make(map[string]bool)}
}

// RecordImportUsage marks localName as imported from this external so a
// later UnusedImports call can tell it apart from a binding that was
// declared but never referenced.
func (e *ExternalModule) RecordImportUsage(localName string) {
	if _, ok := e.usedImports[localName]; !ok {
		e.usedImports[localName] = false
	}
}

// MarkReferenced records that localName was actually resolved to a
// reference somewhere in the bundle.
func (e *ExternalModule) MarkReferenced(localName string) {
	e.usedImports[localName] = true
}

// UnusedImports returns every locally-bound name imported from this external
// that was never referenced, in a deterministic (sorted) order.
func (e *ExternalModule) UnusedImports() []string {
	var out []string
	for name, used := range e.usedImports {
		if !used {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
