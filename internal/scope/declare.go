package scope

import "github.com/nodalbuild/nodal/internal/ast"

// DeclareTopLevel creates (if not already present) and declares the
// Variable for every top-level declaration and import specifier in stmts,
// linking each Variable back to its declaring Stmt via Declarator. This is
// the generic half of C3 (AST & Scope Layer): independent of whatever
// concrete grammar produced stmts, every host parser's output gets bound
// into its module's Scope the same way before C4 (internal/linkbind) runs.
func DeclareTopLevel(sc *Scope, stmts []*ast.Stmt) {
	for _, stmt := range stmts {
		switch d := stmt.Data.(type) {
		case *ast.SImport:
			for i := range d.Specifiers {
				spec := &d.Specifiers[i]
				if spec.Var == nil {
					spec.Var = &ast.Variable{Name: spec.Local, Kind: ast.VarImported, Declarator: stmt}
				}
				sc.Declare(spec.Var)
			}
		case *ast.SVarDecl:
			declareNamed(sc, stmt, &d.Var, d.Name)
		case *ast.SFunctionDecl:
			declareNamed(sc, stmt, &d.Var, d.Name)
		case *ast.SClassDecl:
			declareNamed(sc, stmt, &d.Var, d.Name)
		}
	}
}

func declareNamed(sc *Scope, stmt *ast.Stmt, slot **ast.Variable, name string) {
	if *slot == nil {
		*slot = &ast.Variable{Name: name, Kind: ast.VarLocal, Declarator: stmt}
	}
	sc.Declare(*slot)
}
