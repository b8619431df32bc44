// Package demo supplies a toy, ESM-only parser and filesystem resolver so
// the core (internal/loader, internal/linkbind, internal/order,
// internal/treeshake, internal/chunker) can be exercised end-to-end without
// a real JavaScript grammar, which is explicitly out of this module's scope
// (spec.md §1 Non-goals). It is never imported by internal/* core
// packages -- only by cmd/nodal and tests.
//
// The grammar this parser accepts is deliberately narrow: one statement per
// line, covering import/export/const/let/var/expression statements and
// function declaration headers, with simple call/dot/binary expressions.
// Function bodies are not parsed, and `if`/`return` lines are not recognised
// as statements (they fall through to the expression-statement case). It exists to produce
// real *ast.Program trees from real text, not to be a JS implementation.
package demo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nodalbuild/nodal/internal/ast"
	"github.com/nodalbuild/nodal/internal/loader"
)

// Parse implements loader.ParseFunc over the line-oriented grammar described
// in the package doc.
func Parse(id string, code string) (loader.ParsedModule, error) {
	p := &parser{id: id}
	lines := strings.Split(code, "\n")
	var stmts []*ast.Stmt
	result := loader.ParsedModule{
		Exports: make(map[string]string),
	}

	for lineNo, raw := range lines {
		line := strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}
		stmt, err := p.parseStatement(line)
		if err != nil {
			return loader.ParsedModule{}, fmt.Errorf("%s:%d: %w", id, lineNo+1, err)
		}
		if stmt == nil {
			continue
		}
		stmts = append(stmts, stmt)

		switch s := stmt.Data.(type) {
		case *ast.SImport:
			result.StaticImportSources = append(result.StaticImportSources, s.Source)
		case *ast.SExportNamed:
			if s.Source != "" {
				// `export {x} from "src"` -- treated as an anonymous import
				// plus a re-export, matching spec.md §4.2's handling.
				result.StaticImportSources = append(result.StaticImportSources, s.Source)
			}
			for _, spec := range s.Specifiers {
				result.Exports[spec.Exported] = spec.Local
			}
		case *ast.SExportDefault:
			result.Exports["default"] = "default"
		case *ast.SExportAll:
			result.StaticImportSources = append(result.StaticImportSources, s.Source)
			result.ExportAllSources = append(result.ExportAllSources, s.Source)
		case *ast.SVarDecl:
			if s.IsExported {
				result.Exports[s.Name] = s.Name
			}
		case *ast.SFunctionDecl:
			if s.IsExported {
				result.Exports[s.Name] = s.Name
			}
		}

		collectDynamicImports(stmt, &result.DynamicImportCallees)
	}

	result.AST = &ast.Program{Stmts: stmts}
	return result, nil
}

func stripComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		return line[:i]
	}
	return line
}

func collectDynamicImports(stmt *ast.Stmt, out *[]*ast.EImportCall) {
	var walk func(e ast.E)
	walk = func(e ast.E) {
		switch v := e.(type) {
		case *ast.EImportCall:
			*out = append(*out, v)
		case *ast.ECall:
			walk(v.Callee.Data)
			for _, a := range v.Args {
				walk(a.Data)
			}
		case *ast.EDot:
			walk(v.Target.Data)
		case *ast.EBinary:
			walk(v.Left.Data)
			walk(v.Right.Data)
		case *ast.EAssign:
			walk(v.Target.Data)
			walk(v.Value.Data)
		case *ast.EArray:
			for _, item := range v.Items {
				walk(item.Data)
			}
		}
	}
	switch s := stmt.Data.(type) {
	case *ast.SExprStmt:
		walk(s.Value.Data)
	case *ast.SVarDecl:
		if s.Init != nil {
			walk(s.Init.Data)
		}
	case *ast.SReturn:
		if s.Value != nil {
			walk(s.Value.Data)
		}
	}
}

type parser struct{ id string }

func (p *parser) parseStatement(line string) (*ast.Stmt, error) {
	switch {
	case strings.HasPrefix(line, "import "):
		return p.parseImport(line)
	case strings.HasPrefix(line, "export default "):
		return p.parseExportDefault(line)
	case strings.HasPrefix(line, "export * from "):
		return p.parseExportAll(line)
	case strings.HasPrefix(line, "export {"):
		return p.parseExportNamed(line)
	case strings.HasPrefix(line, "export const ") || strings.HasPrefix(line, "export let ") || strings.HasPrefix(line, "export var "):
		return p.parseVarDecl(strings.TrimPrefix(line, "export "), true)
	case strings.HasPrefix(line, "const ") || strings.HasPrefix(line, "let ") || strings.HasPrefix(line, "var "):
		return p.parseVarDecl(line, false)
	case strings.HasPrefix(line, "export function "):
		return p.parseFunctionDecl(strings.TrimPrefix(line, "export "), true)
	case strings.HasPrefix(line, "function "):
		return p.parseFunctionDecl(line, false)
	default:
		return p.parseExprStmt(line)
	}
}

func trimSemi(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ";")
}

func (p *parser) parseImport(line string) (*ast.Stmt, error) {
	body := trimSemi(strings.TrimPrefix(line, "import "))
	fromIdx := strings.LastIndex(body, " from ")
	if fromIdx < 0 {
		// side-effect-only import: `import "source"`
		source, err := unquote(body)
		if err != nil {
			return nil, err
		}
		return ast.NewStmt(&ast.SImport{Source: source, HasSideEffectImport: true}), nil
	}
	clause := strings.TrimSpace(body[:fromIdx])
	source, err := unquote(strings.TrimSpace(body[fromIdx+len(" from "):]))
	if err != nil {
		return nil, err
	}
	specs, err := parseImportClause(clause)
	if err != nil {
		return nil, err
	}
	return ast.NewStmt(&ast.SImport{Source: source, Specifiers: specs}), nil
}

func parseImportClause(clause string) ([]ast.ImportSpecifier, error) {
	clause = strings.TrimSpace(clause)
	if strings.HasPrefix(clause, "{") {
		inner := strings.TrimSuffix(strings.TrimPrefix(clause, "{"), "}")
		return parseNamedSpecifiers(inner)
	}
	if strings.HasPrefix(clause, "* as ") {
		alias := strings.TrimSpace(strings.TrimPrefix(clause, "* as "))
		return []ast.ImportSpecifier{{Imported: "*", Local: alias}}, nil
	}
	// default import: `import foo from "x"`
	return []ast.ImportSpecifier{{Imported: "default", Local: clause}}, nil
}

func parseNamedSpecifiers(inner string) ([]ast.ImportSpecifier, error) {
	if strings.TrimSpace(inner) == "" {
		return nil, nil
	}
	var out []ast.ImportSpecifier
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, " as "); idx >= 0 {
			out = append(out, ast.ImportSpecifier{
				Imported: strings.TrimSpace(part[:idx]),
				Local:    strings.TrimSpace(part[idx+len(" as "):]),
			})
			continue
		}
		out = append(out, ast.ImportSpecifier{Imported: part, Local: part})
	}
	return out, nil
}

func (p *parser) parseExportNamed(line string) (*ast.Stmt, error) {
	body := trimSemi(strings.TrimPrefix(line, "export "))
	closeIdx := strings.Index(body, "}")
	if !strings.HasPrefix(body, "{") || closeIdx < 0 {
		return nil, fmt.Errorf("malformed export clause: %q", line)
	}
	inner := body[1:closeIdx]
	rest := strings.TrimSpace(body[closeIdx+1:])

	namedSpecs, err := parseNamedSpecifiers(inner)
	if err != nil {
		return nil, err
	}
	exportSpecs := make([]ast.ExportSpecifier, len(namedSpecs))
	for i, s := range namedSpecs {
		exportSpecs[i] = ast.ExportSpecifier{Local: s.Imported, Exported: s.Local}
	}

	source := ""
	if strings.HasPrefix(rest, "from ") {
		source, err = unquote(strings.TrimSpace(strings.TrimPrefix(rest, "from ")))
		if err != nil {
			return nil, err
		}
	}
	return ast.NewStmt(&ast.SExportNamed{Source: source, Specifiers: exportSpecs}), nil
}

func (p *parser) parseExportAll(line string) (*ast.Stmt, error) {
	body := trimSemi(strings.TrimPrefix(line, "export * from "))
	source, err := unquote(body)
	if err != nil {
		return nil, err
	}
	return ast.NewStmt(&ast.SExportAll{Source: source}), nil
}

func (p *parser) parseExportDefault(line string) (*ast.Stmt, error) {
	expr := trimSemi(strings.TrimPrefix(line, "export default "))
	e, err := parseExpr(expr)
	if err != nil {
		return nil, err
	}
	return ast.NewStmt(&ast.SExportDefault{Expr: &e}), nil
}

func (p *parser) parseVarDecl(line string, isExported bool) (*ast.Stmt, error) {
	kind := ast.DeclConst
	body := line
	switch {
	case strings.HasPrefix(line, "const "):
		body = strings.TrimPrefix(line, "const ")
	case strings.HasPrefix(line, "let "):
		kind = ast.DeclLet
		body = strings.TrimPrefix(line, "let ")
	case strings.HasPrefix(line, "var "):
		kind = ast.DeclVar
		body = strings.TrimPrefix(line, "var ")
	}
	body = trimSemi(body)
	eq := strings.Index(body, "=")
	if eq < 0 {
		return ast.NewStmt(&ast.SVarDecl{Kind: kind, Name: strings.TrimSpace(body), IsExported: isExported}), nil
	}
	name := strings.TrimSpace(body[:eq])
	initSrc := strings.TrimSpace(body[eq+1:])
	init, err := parseExpr(initSrc)
	if err != nil {
		return nil, err
	}
	return ast.NewStmt(&ast.SVarDecl{Kind: kind, Name: name, Init: &init, IsExported: isExported}), nil
}

func (p *parser) parseFunctionDecl(line string, isExported bool) (*ast.Stmt, error) {
	body := strings.TrimPrefix(line, "function ")
	open := strings.Index(body, "(")
	close := strings.Index(body, ")")
	if open < 0 || close < open {
		return nil, fmt.Errorf("malformed function declaration: %q", line)
	}
	name := strings.TrimSpace(body[:open])
	paramStr := strings.TrimSpace(body[open+1 : close])
	var params []string
	if paramStr != "" {
		for _, param := range strings.Split(paramStr, ",") {
			params = append(params, strings.TrimSpace(param))
		}
	}
	return ast.NewStmt(&ast.SFunctionDecl{Name: name, Params: params, IsExported: isExported}), nil
}

func (p *parser) parseExprStmt(line string) (*ast.Stmt, error) {
	e, err := parseExpr(trimSemi(line))
	if err != nil {
		return nil, err
	}
	return ast.NewStmt(&ast.SExprStmt{Value: e}), nil
}

// parseExpr handles a tiny expression grammar: identifiers, numbers,
// strings, booleans, `a(b, c)` calls (including `import(...)`), `a.b` dots,
// and `a = b` assignment, each detected by a simple outermost-operator scan.
// It is not a full expression parser and does not handle precedence beyond
// what the demo fixtures need.
func parseExpr(src string) (ast.Expr, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return ast.Expr{}, fmt.Errorf("empty expression")
	}

	if idx := topLevelIndex(src, "="); idx >= 0 && !isComparisonAt(src, idx) {
		target, err := parseExpr(src[:idx])
		if err != nil {
			return ast.Expr{}, err
		}
		value, err := parseExpr(src[idx+1:])
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.NewExpr(&ast.EAssign{Target: target, Value: value}), nil
	}

	if src == "true" {
		return ast.NewExpr(&ast.EBoolean{Value: true}), nil
	}
	if src == "false" {
		return ast.NewExpr(&ast.EBoolean{Value: false}), nil
	}
	if n, err := strconv.ParseFloat(src, 64); err == nil {
		return ast.NewExpr(&ast.ENumber{Value: n}), nil
	}
	if (strings.HasPrefix(src, `"`) && strings.HasSuffix(src, `"`)) ||
		(strings.HasPrefix(src, "'") && strings.HasSuffix(src, "'")) {
		s, err := unquote(src)
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.NewExpr(&ast.EString{Value: s}), nil
	}

	if strings.HasPrefix(src, "import(") && strings.HasSuffix(src, ")") {
		arg := strings.TrimSpace(src[len("import(") : len(src)-1])
		if s, err := unquote(arg); err == nil {
			return ast.NewExpr(&ast.EImportCall{Source: &s}), nil
		}
		return ast.NewExpr(&ast.EImportCall{}), nil
	}

	if open := strings.Index(src, "("); open >= 0 && strings.HasSuffix(src, ")") {
		callee, err := parseExpr(src[:open])
		if err != nil {
			return ast.Expr{}, err
		}
		argStr := strings.TrimSpace(src[open+1 : len(src)-1])
		var args []ast.Expr
		if argStr != "" {
			for _, a := range strings.Split(argStr, ",") {
				arg, err := parseExpr(a)
				if err != nil {
					return ast.Expr{}, err
				}
				args = append(args, arg)
			}
		}
		return ast.NewExpr(&ast.ECall{Callee: callee, Args: args}), nil
	}

	if idx := strings.LastIndex(src, "."); idx >= 0 && isIdentChar(src[idx+1:]) {
		target, err := parseExpr(src[:idx])
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.NewExpr(&ast.EDot{Target: target, Name: src[idx+1:]}), nil
	}

	for _, op := range []string{"===", "+"} {
		if idx := topLevelIndex(src, op); idx >= 0 {
			left, err := parseExpr(src[:idx])
			if err != nil {
				return ast.Expr{}, err
			}
			right, err := parseExpr(src[idx+len(op):])
			if err != nil {
				return ast.Expr{}, err
			}
			kind := ast.BinOther
			if op == "+" {
				kind = ast.BinAdd
			} else if op == "===" {
				kind = ast.BinEquals
			}
			return ast.NewExpr(&ast.EBinary{Op: kind, Left: left, Right: right}), nil
		}
	}

	return ast.NewExpr(&ast.EIdentifier{Name: src}), nil
}

func topLevelIndex(src, op string) int {
	depth := 0
	for i := 0; i+len(op) <= len(src); i++ {
		switch src[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && src[i:i+len(op)] == op {
			return i
		}
	}
	return -1
}

func isComparisonAt(src string, idx int) bool {
	return (idx > 0 && src[idx-1] == '=') || (idx+1 < len(src) && src[idx+1] == '=')
}

func isIdentChar(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

func unquote(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return "", fmt.Errorf("malformed string literal: %q", s)
	}
	return s[1 : len(s)-1], nil
}
