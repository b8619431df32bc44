package ast

// EffectsContext carries the policy knobs HasEffects needs without this
// package importing internal/config (which would create an import cycle,
// since config's hook-result decoding has no need of ast at all but treeshake
// needs both). internal/treeshake translates config.TreeshakingOptions into
// this shape once per build.
type EffectsContext struct {
	// PropertyReadSideEffects mirrors TreeshakingOptions.PropertyReadSideEffects
	// (spec.md §4.6): when false, bare member access `x.y` is inert.
	PropertyReadSideEffects bool
}

// HasEffects reports whether evaluating this statement can be observed
// externally (and must therefore always be included), independent of whether
// any of its bindings are referenced elsewhere.
func (s *Stmt) HasEffects(ctx EffectsContext) bool {
	switch d := s.Data.(type) {
	case *SImport:
		// A bare `import "source"` with no bindings is kept purely for its
		// side effects; `import {x} from "source"` is not effectful on its
		// own (the exporting module already runs once regardless).
		return d.HasSideEffectImport
	case *SExportAll:
		return false
	case *SExportNamed:
		return false
	case *SExportDefault:
		if d.Expr != nil {
			return d.Expr.HasEffects(ctx)
		}
		return false
	case *SVarDecl:
		if d.Init != nil {
			return d.Init.HasEffects(ctx)
		}
		return false
	case *SFunctionDecl, *SClassDecl:
		// A declaration alone never runs code.
		return false
	case *SExprStmt:
		return d.Value.HasEffects(ctx)
	case *SIf:
		if d.Test.HasEffects(ctx) {
			return true
		}
		for _, s := range d.Yes {
			if s.HasEffects(ctx) {
				return true
			}
		}
		for _, s := range d.No {
			if s.HasEffects(ctx) {
				return true
			}
		}
		return false
	case *SReturn:
		if d.Value != nil {
			return d.Value.HasEffects(ctx)
		}
		return false
	case *SBlock:
		for _, s := range d.Stmts {
			if s.HasEffects(ctx) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// HasEffects reports whether evaluating this expression can be observed
// externally. Calls and assignments are always effectful; bare identifier
// reads and member reads are effectful only under PropertyReadSideEffects.
func (e Expr) HasEffects(ctx EffectsContext) bool {
	switch d := e.Data.(type) {
	case *EIdentifier, *ENumber, *EString, *EBoolean:
		return false
	case *ECall:
		return true
	case *EImportCall:
		return true
	case *EDot:
		if ctx.PropertyReadSideEffects {
			return true
		}
		return d.Target.HasEffects(ctx)
	case *EBinary:
		return d.Left.HasEffects(ctx) || d.Right.HasEffects(ctx)
	case *EAssign:
		return true
	case *EArray:
		for _, item := range d.Items {
			if item.HasEffects(ctx) {
				return true
			}
		}
		return false
	case *EFunction:
		// Defining a function/arrow never runs its body.
		return false
	default:
		return true
	}
}
