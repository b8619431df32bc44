package cache

// Set bundles the module cache and the plugin-owned cache into the single
// object a build run threads through, mirroring the teacher's CacheSet
// (internal/cache/cache.go) grouping its per-kind sub-caches behind one
// struct so a host can hold one cache across repeated builds (spec.md §6
// `experimentalCacheExpiry`).
type Set struct {
	Modules *ModuleCache
	Plugins *PluginCache
}

func NewSet() *Set {
	return &Set{Modules: NewModuleCache(), Plugins: NewPluginCache()}
}

// Tick ages out both sub-caches after a build, called once per Build call
// with the set of module ids visited during that build.
func (s *Set) Tick(visited map[string]bool, defaultExpiry int) {
	s.Modules.Tick(visited, defaultExpiry)
	s.Plugins.Evict(defaultExpiry)
}
