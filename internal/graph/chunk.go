package graph

// Chunk is an ordered list of Modules sharing one entry-reachability color
// (spec.md §3, §4.7). Modules within a Chunk are kept in execution order.
type Chunk struct {
	Modules []*Module

	// EntryModule is set when this chunk is "owned" by a single original
	// entry point (either because the entry's hash uniquely colors it, or
	// because this is a facade chunk constructed to re-export that entry's
	// public API).
	EntryModule *Module

	IsManualChunk       bool
	IsEntryModuleFacade bool

	// Imports/Exports describe this chunk's boundary with other chunks,
	// populated by internal/chunker's link step (spec.md §4.7 "Link each
	// chunk").
	ImportsFromChunks map[*Chunk][]string // chunk -> exported names pulled from it
	Exports           map[string]string   // exported name -> local binding name
}

func NewChunk() *Chunk {
	return &Chunk{
		ImportsFromChunks: make(map[*Chunk][]string),
		Exports:           make(map[string]string),
	}
}

// Hash returns the shared EntryPointsHash of this chunk's modules, or the
// zero hash for an empty chunk. All modules in a non-facade chunk share one
// hash by construction (spec.md §4.7 groups by hex-encoded EntryPointsHash).
func (c *Chunk) Hash() EntryPointsHash {
	if len(c.Modules) == 0 {
		return EntryPointsHash{}
	}
	return c.Modules[0].EntryPointsHash
}
