package demo

import (
	"context"

	"github.com/nodalbuild/nodal/internal/config"
)

// ExternalizePrefix returns a plugin that marks any specifier starting with
// prefix as external without consulting the filesystem, the demo analogue
// of a plugin that marks `node:*` builtins external (spec.md §4.1 example).
func ExternalizePrefix(prefix string) config.Plugin {
	return config.Plugin{
		Name: "externalize-prefix",
		ResolveID: func(ctx context.Context, args config.ResolveIDArgs) (config.ResolveIDResult, error) {
			if len(args.Source) >= len(prefix) && args.Source[:len(prefix)] == prefix {
				return config.ResolveIDResult{Handled: true, ID: args.Source, External: true}, nil
			}
			return config.ResolveIDResult{}, nil
		},
	}
}
