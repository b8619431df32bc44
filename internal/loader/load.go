package loader

import (
	"context"
	"fmt"

	"github.com/nodalbuild/nodal/internal/config"
)

// load runs the Plugin Driver's load hook first and falls back to the
// configured filesystem reader (spec.md §4.1: "if no plugin's load hook
// handles an id, Rollup reads it from disk").
func (l *Loader) load(ctx context.Context, id string) (string, error) {
	result, err := l.Driver.Load(ctx, config.LoadArgs{ID: id})
	if err != nil {
		return "", err
	}
	if result.Handled {
		return result.Code, nil
	}
	if l.ReadFile == nil {
		return "", fmt.Errorf("no plugin handled %q and no default file reader is configured", id)
	}
	return l.ReadFile(id)
}
