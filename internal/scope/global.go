package scope

import "github.com/nodalbuild/nodal/internal/ast"

// Sentinel global binding names pre-created by NewGlobalScope, per spec.md
// §4.3: these exist in every build regardless of whether any module actually
// references them, mirroring the handful of runtime-injected names esbuild's
// own printer always keeps a symbol slot for.
const (
	SentinelModule            = "module"
	SentinelExports           = "exports"
	SentinelInteropDefault    = "_interopDefault"
	SentinelMissingExportShim = "_missingExportShim"
)

// GlobalScope is the single root of every module's scope chain within one
// Graph. FindVariable on it is idempotent: repeated lookups of the same
// unresolved name return the same synthesized global Variable.
type GlobalScope struct {
	root    *Scope
	globals map[string]*ast.Variable
}

// NewGlobalScope constructs a GlobalScope with the sentinel bindings
// pre-created, ready to root every module's top-level Scope.
func NewGlobalScope() *GlobalScope {
	g := &GlobalScope{globals: make(map[string]*ast.Variable)}
	g.root = &Scope{global: g, vars: make(map[string]*ast.Variable)}
	for _, name := range []string{SentinelModule, SentinelExports, SentinelInteropDefault, SentinelMissingExportShim} {
		g.globals[name] = &ast.Variable{Name: name, Kind: ast.VarGlobal}
	}
	return g
}

// Root returns the scope new top-level module scopes should nest under via
// New(g.Root()).
func (g *GlobalScope) Root() *Scope { return g.root }

// FindVariable returns the global binding for name, creating and caching a
// new global sentinel Variable on first access if none exists yet.
func (g *GlobalScope) FindVariable(name string) *ast.Variable {
	if v, ok := g.globals[name]; ok {
		return v
	}
	v := &ast.Variable{Name: name, Kind: ast.VarGlobal}
	g.globals[name] = v
	return v
}
