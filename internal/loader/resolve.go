package loader

import (
	"context"
	"path"
	"strings"

	"github.com/nodalbuild/nodal/internal/config"
)

// isRelativeSpecifier reports whether source must be resolved relative to
// its importer rather than looked up as a package, mirroring the teacher's
// resolver.IsPackagePath (internal/resolver/resolver.go, deleted -- see
// DESIGN.md) inverted: esbuild treats anything NOT starting with one of
// these prefixes as a package path; we do the same.
func isRelativeSpecifier(source string) bool {
	return strings.HasPrefix(source, "./") ||
		strings.HasPrefix(source, "../") ||
		strings.HasPrefix(source, "/")
}

// resolveID runs the Plugin Driver's resolveId hook first (spec.md §4.1)
// and falls back to defaultResolve for anything no plugin claims.
func (l *Loader) resolveID(ctx context.Context, source string, importer string, isEntry bool) (id string, external bool, err error) {
	result, err := l.Driver.ResolveID(ctx, config.ResolveIDArgs{
		Source: source, Importer: importer, IsEntry: isEntry,
	})
	if err != nil {
		return "", false, err
	}
	if result.Handled {
		return result.ID, result.External, nil
	}
	return l.defaultResolve(source, importer), nil
}

// resolveDynamicImportID runs the Plugin Driver's distinct
// resolveDynamicImport hook first (spec.md §4.1, §6 "resolveDynamicImport")
// -- separate from resolveID so a plugin can resolve a dynamic-import
// specifier differently from a static import of the same text -- and falls
// back to the same defaultResolve a static import would use when no plugin
// claims it.
func (l *Loader) resolveDynamicImportID(ctx context.Context, source string, importer string) (id string, external bool, err error) {
	result, err := l.Driver.ResolveDynamicImport(ctx, config.ResolveDynamicImportArgs{
		Specifier: source, Importer: importer,
	})
	if err != nil {
		return "", false, err
	}
	if result.Handled {
		return result.ID, result.External, nil
	}
	return l.defaultResolve(source, importer), nil
}

// defaultResolve is the fallback default resolution both resolveID and
// resolveDynamicImportID use once no plugin has claimed a specifier:
// join-with-importer for relative specifiers, or leave bare package
// specifiers unresolved (external) -- matching Rollup's "nothing resolves
// node_modules for you unless a plugin does" stance (spec.md §4.1, §6
// `external`).
func (l *Loader) defaultResolve(source string, importer string) (id string, external bool) {
	if isRelativeSpecifier(source) {
		resolved := source
		if importer != "" && !strings.HasPrefix(source, "/") {
			resolved = path.Join(path.Dir(importer), source)
		}
		if l.Options.IsExternal(resolved, importer, true) {
			return resolved, true
		}
		return resolved, false
	}
	return source, true
}
