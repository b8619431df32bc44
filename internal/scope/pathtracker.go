package scope

import "github.com/nodalbuild/nodal/internal/ast"

// EntityPathTracker records "this entity+path has already been visited"
// during fixed-point traversal (spec.md §4.3), keeping repeated inclusion
// passes over the same deoptimized member-access chain O(n·pathDepth)
// instead of re-walking it from scratch every iteration.
type EntityPathTracker struct {
	seen map[entityPathKey]bool
}

type entityPathKey struct {
	entity *ast.Variable
	path   string
}

func NewEntityPathTracker() *EntityPathTracker {
	return &EntityPathTracker{seen: make(map[entityPathKey]bool)}
}

// Visit reports whether (entity, path) has already been recorded, and
// records it if not. Callers use it to skip re-deoptimizing a property chain
// they've already walked in a prior fixed-point iteration.
func (t *EntityPathTracker) Visit(entity *ast.Variable, path string) (alreadyVisited bool) {
	key := entityPathKey{entity: entity, path: path}
	if t.seen[key] {
		return true
	}
	t.seen[key] = true
	return false
}
