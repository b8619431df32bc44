package treeshake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodalbuild/nodal/internal/ast"
	"github.com/nodalbuild/nodal/internal/config"
	"github.com/nodalbuild/nodal/internal/graph"
	"github.com/nodalbuild/nodal/internal/scope"
)

func setupModule(g *graph.Graph, id string) *graph.Module {
	m := graph.NewModule(id)
	m.Scope = scope.New(g.Global.Root())
	g.InsertModule(m)
	g.AppendModule(m)
	return m
}

// entry exports `used`, which references `helper`; `unused` is declared but
// never referenced from anything reachable. Only `used` and `helper` should
// end up included.
func TestRun_MarksOnlyReachableDeclarations(t *testing.T) {
	g := graph.NewGraph()
	entry := setupModule(g, "/entry.js")

	helperDecl := ast.NewStmt(&ast.SVarDecl{Kind: ast.DeclConst, Name: "helper", Init: ptr(ast.NewExpr(&ast.ENumber{Value: 1})), IsExported: false})
	usedInit := ast.NewExpr(&ast.EIdentifier{Name: "helper"})
	usedDecl := ast.NewStmt(&ast.SVarDecl{Kind: ast.DeclConst, Name: "used", Init: &usedInit, IsExported: true})
	unusedDecl := ast.NewStmt(&ast.SVarDecl{Kind: ast.DeclConst, Name: "unused", Init: ptr(ast.NewExpr(&ast.ENumber{Value: 2})), IsExported: false})

	entry.AST = &ast.Program{Stmts: []*ast.Stmt{helperDecl, usedDecl, unusedDecl}}
	scope.DeclareTopLevel(entry.Scope, entry.AST.Stmts)
	entry.Exports = map[string]string{"used": "used"}

	// Simulate C4 (internal/linkbind) having already bound references, since
	// Run assumes it always runs after linking in the real pipeline.
	usedInit.Data.(*ast.EIdentifier).Ref = entry.Scope.FindVariable("helper")
	g.EntryPoints = []graph.EntryPoint{{ID: "/entry.js", Alias: "entry"}}

	New(g, config.DefaultTreeshake()).Run()

	assert.True(t, usedDecl.Included)
	assert.True(t, helperDecl.Included)
	assert.False(t, unusedDecl.Included)
	assert.True(t, entry.IsIncluded)
}

// entry imports `* as ns` from lib.js and references `ns`; lib.js exports
// `a` and `b`, neither referenced by name anywhere. A namespace import must
// force-include every one of lib's exports, since any property of `ns`
// could be read at runtime.
func TestRun_NamespaceImportForceIncludesAllExports(t *testing.T) {
	g := graph.NewGraph()
	lib := setupModule(g, "/lib.js")
	entry := setupModule(g, "/entry.js")

	aDecl := ast.NewStmt(&ast.SVarDecl{Kind: ast.DeclConst, Name: "a", Init: ptr(ast.NewExpr(&ast.ENumber{Value: 1})), IsExported: true})
	bDecl := ast.NewStmt(&ast.SVarDecl{Kind: ast.DeclConst, Name: "b", Init: ptr(ast.NewExpr(&ast.ENumber{Value: 2})), IsExported: true})
	lib.AST = &ast.Program{Stmts: []*ast.Stmt{aDecl, bDecl}}
	scope.DeclareTopLevel(lib.Scope, lib.AST.Stmts)
	lib.Exports = map[string]string{"a": "a", "b": "b"}

	importStmt := ast.NewStmt(&ast.SImport{Source: "./lib.js", Specifiers: []ast.ImportSpecifier{{Imported: "*", Local: "ns"}}})
	usedInit := ast.NewExpr(&ast.EIdentifier{Name: "ns"})
	usedDecl := ast.NewStmt(&ast.SVarDecl{Kind: ast.DeclConst, Name: "used", Init: &usedInit, IsExported: true})
	entry.AST = &ast.Program{Stmts: []*ast.Stmt{importStmt, usedDecl}}
	scope.DeclareTopLevel(entry.Scope, entry.AST.Stmts)
	entry.Exports = map[string]string{"used": "used"}
	entry.Sources = []string{"./lib.js"}
	entry.ResolvedIDs = map[string]string{"./lib.js": "/lib.js"}
	entry.Imports = map[string]graph.ResolvedImport{"ns": {Source: "./lib.js", Imported: "*"}}

	usedInit.Data.(*ast.EIdentifier).Ref = entry.Scope.FindVariable("ns")
	g.EntryPoints = []graph.EntryPoint{{ID: "/entry.js", Alias: "entry"}}

	New(g, config.DefaultTreeshake()).Run()

	assert.True(t, aDecl.Included, "namespace import must pull in every export of lib.js")
	assert.True(t, bDecl.Included, "namespace import must pull in every export of lib.js")
	assert.True(t, lib.IsIncluded)
}

func TestRun_DisabledIncludesEverything(t *testing.T) {
	g := graph.NewGraph()
	entry := setupModule(g, "/entry.js")
	decl := ast.NewStmt(&ast.SVarDecl{Kind: ast.DeclConst, Name: "x"})
	entry.AST = &ast.Program{Stmts: []*ast.Stmt{decl}}

	New(g, config.Treeshake{Enabled: false}).Run()

	assert.True(t, decl.Included)
	assert.True(t, entry.IsIncluded)
}

func ptr(e ast.Expr) *ast.Expr { return &e }
