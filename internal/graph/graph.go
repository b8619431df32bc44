package graph

import (
	"fmt"
	"sync"

	"github.com/nodalbuild/nodal/internal/scope"
)

// EntryPoint is one user-requested root (spec.md §3, §6 `input`). Alias is
// the chunk-facing name: either the key of the `{alias: id}` input form, or
// derived from the entry's own id.
type EntryPoint struct {
	ID    string
	Alias string
}

// Graph is the process-wide root spec.md §3 describes. A Graph is
// single-use: once Finished is true it must not be mutated further.
type Graph struct {
	mu sync.Mutex

	moduleByID map[string]any // *Module or *ExternalModule
	Modules    []*Module      // insertion order of non-external modules
	Externals  []*ExternalModule

	EntryPoints []EntryPoint
	Chunks      []*Chunk

	WatchFiles map[string]bool

	Global *scope.GlobalScope

	Finished bool
}

func NewGraph() *Graph {
	return &Graph{
		moduleByID: make(map[string]any),
		WatchFiles: make(map[string]bool),
		Global:     scope.NewGlobalScope(),
	}
}

// ModuleByID returns the Module or ExternalModule registered under id, and
// ok=false if none is registered yet. Safe for concurrent use (invariant 1:
// the same id always yields the same object for the graph's lifetime).
func (g *Graph) ModuleByID(id string) (any, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.moduleByID[id]
	return v, ok
}

// InsertModule registers a freshly constructed Module under its ID
// *synchronously*, before any hook I/O begins, so that a recursive import of
// the same id observes the in-flight module and short-circuits instead of
// re-fetching (spec.md §4.2 step 2, §5's ordering guarantee). It panics if
// id is already registered, since that would violate invariant 1.
func (g *Graph) InsertModule(m *Module) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.moduleByID[m.ID]; exists {
		panic(fmt.Sprintf("graph: module %q inserted twice", m.ID))
	}
	g.moduleByID[m.ID] = m
}

// AppendModule records m in Modules' first-registration order (spec.md §4.2:
// "modules[] order equals first-registration order").
func (g *Graph) AppendModule(m *Module) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Modules = append(g.Modules, m)
}

// GetOrCreateExternal returns the ExternalModule registered under id,
// creating and registering one if this is the first reference to it.
func (g *Graph) GetOrCreateExternal(id string) *ExternalModule {
	g.mu.Lock()
	defer g.mu.Unlock()
	if v, ok := g.moduleByID[id]; ok {
		if ext, ok := v.(*ExternalModule); ok {
			return ext
		}
		panic(fmt.Sprintf("graph: id %q already registered as a non-external module", id))
	}
	ext := NewExternalModule(id)
	g.moduleByID[id] = ext
	g.Externals = append(g.Externals, ext)
	return ext
}

// AddWatchFile records id as a file the host should watch for changes.
func (g *Graph) AddWatchFile(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.WatchFiles[id] = true
}
