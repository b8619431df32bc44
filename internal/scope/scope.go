// Package scope implements the lexical scope tree spec.md §4.3 describes:
// a tree of scopes rooted in a single GlobalScope owned by the graph, each
// capable of declaring and looking up ast.Variable bindings.
package scope

import "github.com/nodalbuild/nodal/internal/ast"

// Scope is one lexical scope (a module's top level, or a nested function
// body). Lookup walks Parent chains up to the root, which is always a
// GlobalScope and therefore never fails to resolve a name.
type Scope struct {
	Parent *Scope
	global *GlobalScope // non-nil only on the root scope of the chain
	vars   map[string]*ast.Variable
}

// New creates a non-global scope nested inside parent.
func New(parent *Scope) *Scope {
	if parent == nil {
		panic("scope: New requires a non-nil parent; use the GlobalScope's Root for the top of a chain")
	}
	return &Scope{Parent: parent, vars: make(map[string]*ast.Variable)}
}

// Declare registers a new binding in this scope. It does not check for
// redeclaration; the host parser is responsible for rejecting invalid
// programs before they reach this layer.
func (s *Scope) Declare(v *ast.Variable) {
	s.vars[v.Name] = v
}

// FindVariable looks up name in this scope, then each ancestor in turn,
// finally falling back to the owning GlobalScope, which always succeeds by
// synthesizing a global sentinel on first access (spec.md §4.3).
func (s *Scope) FindVariable(name string) *ast.Variable {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.vars[name]; ok {
			return v
		}
		if cur.global != nil {
			return cur.global.FindVariable(name)
		}
	}
	// Unreachable for any scope chain built via GlobalScope.Root/New: every
	// chain terminates at a scope with global set.
	panic("scope: chain has no GlobalScope root")
}
