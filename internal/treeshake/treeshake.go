// Package treeshake implements C6: a fixed-point marking pass that starts
// from each entry point's public exports (plus any statement with a side
// effect, except a side-effect-only import of an external that
// PureExternalModules declares pure) and repeatedly pulls in whatever those
// marked statements reference, until nothing new gets marked. Grounded on
// evanw-esbuild/internal/linker/linker.go's markFileLiveForTreeShaking /
// markPartLiveForTreeShaking fixed-point shape, adapted from esbuild's
// file+part granularity to this spec's module+statement granularity.
package treeshake

import (
	"github.com/nodalbuild/nodal/internal/ast"
	"github.com/nodalbuild/nodal/internal/config"
	"github.com/nodalbuild/nodal/internal/graph"
	"github.com/nodalbuild/nodal/internal/scope"
)

// Shaker runs C6 over a linked Graph.
type Shaker struct {
	Graph   *graph.Graph
	Options config.Treeshake
	tracker *scope.EntityPathTracker
}

func New(g *graph.Graph, opts config.Treeshake) *Shaker {
	return &Shaker{Graph: g, Options: opts, tracker: scope.NewEntityPathTracker()}
}

// Run marks every Stmt.Included and Module.IsIncluded flag. When
// tree-shaking is disabled, every statement in every reached module is
// included unconditionally (spec.md §4.6).
func (s *Shaker) Run() {
	if !s.Options.Enabled {
		s.includeEverything()
		return
	}

	effectsCtx := ast.EffectsContext{PropertyReadSideEffects: s.Options.Options.PropertyReadSideEffects}

	queue := s.seed(effectsCtx)
	for len(queue) > 0 {
		stmt, owner := queue[0].stmt, queue[0].owner
		queue = queue[1:]

		if stmt.Included {
			continue
		}
		stmt.Included = true
		owner.IsIncluded = true

		ast.VisitIdentifiers(stmt, func(id *ast.EIdentifier) {
			queue = append(queue, s.pull(id, owner)...)
		})
	}
}

type queued struct {
	stmt  *ast.Stmt
	owner *graph.Module
}

// seed marks the initial include set: every entry point's exported
// declarations, plus every statement anywhere with an unavoidable side
// effect (spec.md §4.6's "always included" rule), minus any declared pure
// by PureExternalModules for the modules those statements reach into.
func (s *Shaker) seed(ctx ast.EffectsContext) []queued {
	var out []queued

	for _, e := range s.Graph.EntryPoints {
		v, ok := s.Graph.ModuleByID(e.ID)
		if !ok {
			continue
		}
		m, ok := v.(*graph.Module)
		if !ok || m.AST == nil {
			continue
		}
		for _, local := range m.Exports {
			if stmt := declStmt(m, local); stmt != nil {
				out = append(out, queued{stmt, m})
			}
		}
	}

	for _, m := range s.Graph.Modules {
		if m.AST == nil {
			continue
		}
		for _, stmt := range m.AST.Stmts {
			if imp, ok := stmt.Data.(*ast.SImport); ok && !stmt.ForceInclude &&
				m.ResolvedIDs[imp.Source] == graph.ExternalSentinel &&
				s.Options.Options.PureExternalModules.IsPure(imp.Source) {
				// The import's specifier text is the external id checked.
				continue
			}
			if stmt.ForceInclude || stmt.HasEffects(ctx) {
				out = append(out, queued{stmt, m})
			}
		}
	}

	return out
}

// declStmt finds the top-level statement that declares localName in m.
func declStmt(m *graph.Module, localName string) *ast.Stmt {
	if m.AST == nil {
		return nil
	}
	for _, stmt := range m.AST.Stmts {
		if v := ast.DeclaredVariable(stmt); v != nil && v.Name == localName {
			return stmt
		}
		if imp, ok := stmt.Data.(*ast.SImport); ok {
			for _, spec := range imp.Specifiers {
				if spec.Local == localName {
					return stmt
				}
			}
		}
	}
	return nil
}

// pull follows one identifier reference to whatever it must keep alive:
// either a local declaration in the same module, or -- when the reference
// crosses an import -- the declaring statement in the owning module.
func (s *Shaker) pull(id *ast.EIdentifier, owner *graph.Module) []queued {
	if id.Ref == nil {
		return nil
	}
	if s.tracker.Visit(id.Ref, owner.ID) {
		return nil
	}
	// A local declaration's Declarator always needs keeping alive. An
	// imported binding ALSO has a Declarator (its own module's import
	// statement, so the import itself stays in the output) but that alone
	// doesn't reach the statement that actually declares the name on the
	// other side of the import -- that requires following owner.Imports.
	var out []queued
	if id.Ref.Declarator != nil {
		out = append(out, queued{id.Ref.Declarator, owner})
	}
	if id.Ref.Kind != ast.VarImported {
		return out
	}

	imp, ok := owner.Imports[id.Name]
	if !ok {
		return out
	}
	targetID, ok := owner.ResolvedIDs[imp.Source]
	if !ok || targetID == graph.ExternalSentinel {
		return out
	}
	v, ok := s.Graph.ModuleByID(targetID)
	if !ok {
		return out
	}
	target, ok := v.(*graph.Module)
	if !ok {
		return out
	}

	// A namespace import (`import * as ns from "m"`) forces inclusion of
	// every one of m's exports, not just one declaration (GLOSSARY:
	// "Namespace import ... forces inclusion of all of m's exports") since
	// any property of ns may be read at runtime.
	if imp.Imported == "*" {
		return append(out, s.pullNamespace(target)...)
	}

	declOwner, local := target, imp.Imported
	if l, ok := target.Exports[imp.Imported]; ok {
		local = l
	} else if ownerID, ok := target.ExportsAll[imp.Imported]; ok {
		if ov, ok := s.Graph.ModuleByID(ownerID); ok {
			if om, ok := ov.(*graph.Module); ok {
				declOwner = om
				if l, ok := om.Exports[imp.Imported]; ok {
					local = l
				}
			}
		}
	}
	if stmt := declStmt(declOwner, local); stmt != nil {
		out = append(out, queued{stmt, declOwner})
	}
	return out
}

// pullNamespace queues every declaration a namespace import can reach:
// target's own direct exports, plus (recursively, since ExportsAll is
// already flattened across export-all chains by internal/loader) every
// name it re-exports from elsewhere.
func (s *Shaker) pullNamespace(target *graph.Module) []queued {
	var out []queued
	for _, local := range target.Exports {
		if stmt := declStmt(target, local); stmt != nil {
			out = append(out, queued{stmt, target})
		}
	}
	for name, ownerID := range target.ExportsAll {
		if _, direct := target.Exports[name]; direct {
			continue
		}
		v, ok := s.Graph.ModuleByID(ownerID)
		if !ok {
			continue
		}
		owner, ok := v.(*graph.Module)
		if !ok {
			continue
		}
		local := name
		if l, ok := owner.Exports[name]; ok {
			local = l
		}
		if stmt := declStmt(owner, local); stmt != nil {
			out = append(out, queued{stmt, owner})
		}
	}
	return out
}

func (s *Shaker) includeEverything() {
	for _, m := range s.Graph.Modules {
		if m.AST == nil {
			continue
		}
		m.IsIncluded = true
		for _, stmt := range m.AST.Stmts {
			stmt.Included = true
		}
	}
}
