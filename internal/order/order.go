// Package order implements C5, the Execution-Order Analyzer: a depth-first
// post-order traversal from each entry point that assigns the module
// execution order spec.md §4.5 requires, captures cycle paths for
// diagnostics, and computes each module's commutative entryPointsHash.
// Grounded on evanw-esbuild/internal/linker/linker.go's documented
// depth-first postorder note for findImportedCSSFilesInJSOrder, generalized
// here to JS modules (the teacher itself has no cycle-path capture, since
// its own resolver forbids cycles reaching that code path by construction;
// this package's cycle detection is new logic built for this spec).
package order

import (
	"crypto/sha1"
	"fmt"

	"github.com/nodalbuild/nodal/internal/diag"
	"github.com/nodalbuild/nodal/internal/graph"
)

// Result is the output of one Analyze call.
type Result struct {
	// ExecutionOrder lists every reachable module id in the order the host
	// environment would execute their top-level code, per spec.md §4.5's
	// depth-first, post-order, first-occurrence-wins algorithm.
	ExecutionOrder []string

	// Cycles lists every import cycle discovered, each as the ordered path
	// of module ids from the first repeated id back to itself.
	Cycles [][]string
}

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	visited
)

// Analyze walks the graph from every entry point, assigns EntryPointsHash
// to every reached module, and returns the combined execution order and any
// cycles found. It must run after C2 (loading) and C4 (linking) have
// populated Module.ResolvedIDs.
//
// Order and hash propagation are computed as two separate traversals: order
// is a single depth-first post-order walk across all entries (each module
// takes the position of its first discovery, matching spec.md §4.5), while
// the hash must be XORed in from *every* entry that reaches a module --
// including entries that reach it only through a module some earlier entry
// already finished visiting. Folding both into one "already visited, skip"
// traversal would silently drop those later entries' contribution to the
// hash, so each entry gets its own unconstrained hash-propagation walk.
func Analyze(g *graph.Graph, log diag.Log) Result {
	states := make(map[string]visitState)
	var order []string
	var cycles [][]string
	var stack []string

	var visitOrder func(id string)
	visitOrder = func(id string) {
		switch states[id] {
		case visiting:
			cycles = append(cycles, cyclePath(stack, id))
			return
		case visited:
			return
		}
		states[id] = visiting
		stack = append(stack, id)

		if m := asModule(g, id); m != nil {
			for _, source := range m.Sources {
				depID, ok := m.ResolvedIDs[source]
				if !ok || depID == graph.ExternalSentinel {
					continue
				}
				visitOrder(depID)
			}
		}

		stack = stack[:len(stack)-1]
		states[id] = visited
		order = append(order, id)
	}

	for _, e := range g.EntryPoints {
		visitOrder(e.ID)
		propagateHash(g, e.ID, entryDigest(e.ID), make(map[string]bool))
	}

	for _, path := range cycles {
		log.AddWarning(diag.CodeCircularDependency, fmt.Sprintf("circular dependency: %s", joinCycle(path)))
	}

	return Result{ExecutionOrder: order, Cycles: cycles}
}

func asModule(g *graph.Graph, id string) *graph.Module {
	v, ok := g.ModuleByID(id)
	if !ok {
		return nil
	}
	m, ok := v.(*graph.Module)
	if !ok {
		return nil
	}
	return m
}

// propagateHash XORs digest into every module reachable from id, visiting
// each at most once per entry (seen guards against revisiting inside this
// one entry's walk, not across entries).
func propagateHash(g *graph.Graph, id string, digest [16]byte, seen map[string]bool) {
	if seen[id] {
		return
	}
	seen[id] = true

	m := asModule(g, id)
	if m == nil {
		return
	}
	var h graph.EntryPointsHash
	copy(h[:], digest[:])
	m.EntryPointsHash.XorWith(h)

	for _, source := range m.Sources {
		depID, ok := m.ResolvedIDs[source]
		if !ok || depID == graph.ExternalSentinel {
			continue
		}
		propagateHash(g, depID, digest, seen)
	}
}

// entryDigest derives a 16-byte digest from an entry id. sha1 is truncated
// to 16 bytes: spec.md §9 only requires the digest be stable and
// commutative under XOR, not cryptographically strong.
func entryDigest(entryID string) [16]byte {
	sum := sha1.Sum([]byte(entryID))
	var out [16]byte
	copy(out[:], sum[:16])
	return out
}

func cyclePath(stack []string, repeatedID string) []string {
	for i, id := range stack {
		if id == repeatedID {
			path := append([]string{}, stack[i:]...)
			return append(path, repeatedID)
		}
	}
	return []string{repeatedID}
}

func joinCycle(path []string) string {
	out := ""
	for i, id := range path {
		if i > 0 {
			out += " -> "
		}
		out += id
	}
	return out
}
