package demo

import (
	"fmt"
)

// FS is an in-memory filesystem keyed by absolute id, the demo stand-in for
// reading real files off disk. cmd/nodal's `build` subcommand and the
// end-to-end tests both use it so the core never has to touch a real
// filesystem just to be exercised end-to-end.
type FS map[string]string

// ReadFile implements the loader.Loader.ReadFile default-reader contract.
func (fs FS) ReadFile(id string) (string, error) {
	code, ok := fs[id]
	if !ok {
		return "", fmt.Errorf("no such module: %s", id)
	}
	return code, nil
}
