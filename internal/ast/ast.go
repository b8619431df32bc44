// Package ast models the module graph core's own lightweight AST: a sum type
// of statement and expression node variants, each carrying the per-node
// inclusion state the tree-shaker mutates. The host-provided parser builds a
// tree of these nodes (or the demo package's toy parser does, for tests and
// the cmd/nodal smoke harness); this package never parses source text itself.
package ast

// NodeID is a process-wide identity for a node, used by the EntityPathTracker
// to memoize "has this node+path already been visited" without needing the
// node itself to be comparable or hashable beyond pointer identity.
type NodeID uint32

var nextNodeID uint32

func newNodeID() NodeID {
	nextNodeID++
	return NodeID(nextNodeID)
}

// ImportKind distinguishes how a module came to depend on another, mirroring
// (in trimmed form) the teacher's ast.ImportKind -- CSS and require() variants
// dropped since this core is ESM-only.
type ImportKind uint8

const (
	ImportEntryPoint ImportKind = iota
	ImportStatic
	ImportDynamic
)

func (k ImportKind) String() string {
	switch k {
	case ImportEntryPoint:
		return "entry-point"
	case ImportStatic:
		return "import-statement"
	case ImportDynamic:
		return "dynamic-import"
	default:
		return "unknown"
	}
}

// VariableKind distinguishes how a binding came to exist.
type VariableKind uint8

const (
	VarLocal VariableKind = iota
	VarImported
	VarGlobal
	VarShim
)

// Variable is a single lexical binding. It is created once by the scope that
// declares it (see package scope) and then referenced from zero or more
// EIdentifier nodes. Declarator points back at the top-level Stmt that must be
// included for this binding to exist in the output; it is nil for globals.
type Variable struct {
	Name       string
	Kind       VariableKind
	Declarator *Stmt

	// ShimFor records the name of the export this variable stands in for when
	// Kind == VarShim (see spec.md §4.4, shimMissingExports).
	ShimFor string
}

// Program is the root of a parsed module: an ordered list of top-level
// statements plus the lexical scope they execute in.
type Program struct {
	Stmts []*Stmt
}
