package ast

// VisitIdentifiers calls fn once for every EIdentifier reachable from s,
// including identifiers nested inside function/arrow bodies and control-flow
// statements. This is the traversal both internal/linkbind's bindReferences
// pass (to resolve Ref) and internal/treeshake's inclusion pass (to discover
// which variables an included statement keeps alive) are built on.
func VisitIdentifiers(s *Stmt, fn func(*EIdentifier)) {
	switch d := s.Data.(type) {
	case *SImport, *SExportAll:
		// No expressions to visit.
	case *SExportNamed:
		// References to local bindings are tracked via the Specifiers'
		// Local names at link time, not as EIdentifier nodes.
	case *SExportDefault:
		if d.Expr != nil {
			visitExprIdentifiers(*d.Expr, fn)
		}
		if d.Decl != nil {
			VisitIdentifiers(d.Decl, fn)
		}
	case *SVarDecl:
		if d.Init != nil {
			visitExprIdentifiers(*d.Init, fn)
		}
	case *SFunctionDecl:
		for _, stmt := range d.Body {
			VisitIdentifiers(stmt, fn)
		}
	case *SClassDecl:
		// Class bodies are not modeled beyond the declared name.
	case *SExprStmt:
		visitExprIdentifiers(d.Value, fn)
	case *SIf:
		visitExprIdentifiers(d.Test, fn)
		for _, stmt := range d.Yes {
			VisitIdentifiers(stmt, fn)
		}
		for _, stmt := range d.No {
			VisitIdentifiers(stmt, fn)
		}
	case *SReturn:
		if d.Value != nil {
			visitExprIdentifiers(*d.Value, fn)
		}
	case *SBlock:
		for _, stmt := range d.Stmts {
			VisitIdentifiers(stmt, fn)
		}
	}
}

func visitExprIdentifiers(e Expr, fn func(*EIdentifier)) {
	switch d := e.Data.(type) {
	case *EIdentifier:
		fn(d)
	case *ECall:
		visitExprIdentifiers(d.Callee, fn)
		for _, a := range d.Args {
			visitExprIdentifiers(a, fn)
		}
	case *EDot:
		visitExprIdentifiers(d.Target, fn)
	case *EImportCall:
		// Dynamic import targets are resolved separately (graph edges, not
		// variable bindings); nothing to visit.
	case *EBinary:
		visitExprIdentifiers(d.Left, fn)
		visitExprIdentifiers(d.Right, fn)
	case *EAssign:
		visitExprIdentifiers(d.Target, fn)
		visitExprIdentifiers(d.Value, fn)
	case *EArray:
		for _, item := range d.Items {
			visitExprIdentifiers(item, fn)
		}
	case *EFunction:
		for _, stmt := range d.Body {
			VisitIdentifiers(stmt, fn)
		}
	}
}

// DeclaredVariable returns the Variable a top-level statement declares, or
// nil if it declares none (imports declare per-specifier variables instead,
// see SImport.Specifiers).
func DeclaredVariable(s *Stmt) *Variable {
	switch d := s.Data.(type) {
	case *SVarDecl:
		return d.Var
	case *SFunctionDecl:
		return d.Var
	case *SClassDecl:
		return d.Var
	case *SExportDefault:
		return d.Var
	default:
		return nil
	}
}
