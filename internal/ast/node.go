package ast

// Stmt wraps a statement-level node. Included is the per-node inclusion flag
// the tree-shaker (internal/treeshake) owns and mutates; everything else is
// immutable once the node is built. This Data/marker-interface split mirrors
// the teacher's js_ast.Stmt{Data S}/js_ast.Expr{Data E} pattern: a tagged sum
// type dispatched with type switches rather than an inheritance hierarchy.
type Stmt struct {
	Data S
	ID   NodeID

	// Included is true once this statement has been pulled into the bundle by
	// the tree-shaker, either because it has side effects or because one of
	// its declared bindings is referenced from an already-included node.
	Included bool

	// ForceInclude marks a statement that internal/treeshake always includes
	// regardless of side effects or reachability. Entry points' public
	// exports are seeded by internal/treeshake directly and do not use it.
	ForceInclude bool
}

func NewStmt(data S) *Stmt {
	return &Stmt{Data: data, ID: newNodeID()}
}

// S is the marker interface every concrete statement kind implements. It is
// never called; its only purpose is to encode the variant type in Go's type
// system (see js_ast.go's identical "this interface is never called" note in
// the teacher tree).
type S interface{ isStmt() }

func (*SImport) isStmt()         {}
func (*SExportNamed) isStmt()    {}
func (*SExportDefault) isStmt()  {}
func (*SExportAll) isStmt()      {}
func (*SVarDecl) isStmt()        {}
func (*SFunctionDecl) isStmt()   {}
func (*SClassDecl) isStmt()      {}
func (*SExprStmt) isStmt()       {}
func (*SIf) isStmt()             {}
func (*SReturn) isStmt()         {}
func (*SBlock) isStmt()          {}

// SImport represents `import ... from "source"`. It never declares a binding
// that can be "included" on its own the way an export can -- it is kept
// whenever any of its Specifiers is referenced, or unconditionally when
// HasSideEffectImport is set (a bare `import "source"` with no bindings).
type SImport struct {
	Source              string
	Specifiers          []ImportSpecifier
	HasSideEffectImport bool
}

// ImportSpecifier is one imported binding: `import { Imported as Local }`.
// Imported == "*" denotes a namespace import; Imported == "default" denotes a
// default import.
type ImportSpecifier struct {
	Imported string
	Local    string
	Var      *Variable
}

// SExportNamed represents `export { a, b as c }` (LocalOnly, no Source) or
// `export { a } from "source"` (re-export, Source != "").
type SExportNamed struct {
	Source     string
	Specifiers []ExportSpecifier
}

type ExportSpecifier struct {
	Local    string
	Exported string
}

// SExportDefault represents `export default <decl-or-expr>`. Exactly one of
// Decl or Expr is non-nil.
type SExportDefault struct {
	Decl *Stmt
	Expr *Expr
	Var  *Variable
}

// SExportAll represents `export * from "source"` or, with Alias set,
// `export * as ns from "source"`.
type SExportAll struct {
	Source string
	Alias  string
}

type DeclKind uint8

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
)

// SVarDecl represents a single top-level `var|let|const name = init`.
// Destructuring is intentionally not modeled -- nothing in spec.md's testable
// properties exercises it and it would not change the inclusion algorithm.
type SVarDecl struct {
	Kind       Kind
	Name       string
	Init       *Expr // nil if uninitialized
	Var        *Variable
	IsExported bool
}

// Kind aliases DeclKind to keep call sites (`ast.DeclConst`) readable; kept as
// a separate name from DeclKind to avoid a self-referential field name.
type Kind = DeclKind

type SFunctionDecl struct {
	Name       string
	Params     []string
	Body       []*Stmt
	Var        *Variable
	IsExported bool
}

type SClassDecl struct {
	Name string
	Var  *Variable
}

type SExprStmt struct {
	Value Expr
}

type SIf struct {
	Test Expr
	Yes  []*Stmt
	No   []*Stmt
}

type SReturn struct {
	Value *Expr
}

type SBlock struct {
	Stmts []*Stmt
}

// Expr wraps an expression-level node.
type Expr struct {
	Data E
	ID   NodeID
}

func NewExpr(data E) Expr {
	return Expr{Data: data, ID: newNodeID()}
}

// E is the marker interface every concrete expression kind implements.
type E interface{ isExpr() }

func (*EIdentifier) isExpr() {}
func (*ECall) isExpr()       {}
func (*EDot) isExpr()        {}
func (*EImportCall) isExpr() {}
func (*ENumber) isExpr()     {}
func (*EString) isExpr()     {}
func (*EBoolean) isExpr()    {}
func (*EBinary) isExpr()     {}
func (*EAssign) isExpr()     {}
func (*EArray) isExpr()      {}
func (*EFunction) isExpr()   {}

// EIdentifier is a reference to a binding. Ref is filled in during
// internal/linkbind's bindReferences pass; it is nil beforehand.
type EIdentifier struct {
	Name string
	Ref  *Variable
}

type ECall struct {
	Callee Expr
	Args   []Expr
}

// EDot is member access: `Target.Name`.
type EDot struct {
	Target Expr
	Name   string
}

// EImportCall is a dynamic `import(Source)` expression. Source is nil when
// the argument isn't a plain string literal (spec.md §4.2's "non-string
// expression with replacement" case); Resolution is filled in by the loader.
type EImportCall struct {
	Source     *string
	Resolution string
}

type ENumber struct{ Value float64 }
type EString struct{ Value string }
type EBoolean struct{ Value bool }

type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinEquals
	BinOther
)

type EBinary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

type EAssign struct {
	Target Expr
	Value  Expr
}

type EArray struct {
	Items []Expr
}

// EFunction models both function expressions and arrow functions; this core
// never needs to tell them apart since neither affects inclusion semantics.
type EFunction struct {
	Params []string
	Body   []*Stmt
}
