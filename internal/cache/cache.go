// Package cache implements the experimental per-module persisted cache
// (spec.md §6 `experimentalCacheExpiry`, §9), grounded on the teacher's
// CacheSet (internal/cache/cache.go): a set of mutex-guarded sub-caches
// keyed by kind, one of which is a [counter, value] eviction cache
// (internal/cache/ast_cache.go's astCache) that ModuleJSON.Expiry mirrors.
package cache

import (
	"encoding/json"
	"sync"

	"github.com/tidwall/gjson"
)

// ModuleJSON is the on-disk representation of one cached module (spec.md
// §6). Expiry counts down on every build that does *not* touch this module;
// it is evicted once Expiry reaches zero, mirroring the teacher's astCache
// entry eviction counter.
type ModuleJSON struct {
	ID           string `json:"id"`
	OriginalCode string `json:"originalCode"`

	// TransformedCode is OriginalCode after the Plugin Driver's transform
	// hooks ran. internal/loader reuses it verbatim -- skipping the
	// transform hooks entirely -- whenever a fresh load's raw code equals
	// OriginalCode and CustomTransformCache is false (spec.md §4.2 step 5,
	// Testable Property 6).
	TransformedCode      string `json:"transformedCode"`
	CustomTransformCache bool   `json:"customTransformCache"`

	Imports map[string]string `json:"imports"` // local name -> "source\x00imported"
	Exports map[string]string `json:"exports"` // exported name -> local name
	Expiry  int               `json:"expiry"`
}

// ModuleCache is a mutex-guarded sub-cache of ModuleJSON entries, one of the
// two kinds a Set holds (plugin-owned state lives in the other, PluginCache).
type ModuleCache struct {
	mu      sync.Mutex
	entries map[string]ModuleJSON
}

func NewModuleCache() *ModuleCache {
	return &ModuleCache{entries: make(map[string]ModuleJSON)}
}

func (c *ModuleCache) Get(id string) (ModuleJSON, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[id]
	return m, ok
}

func (c *ModuleCache) Set(m ModuleJSON) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[m.ID] = m
}

// Tick decrements every entry's Expiry and evicts entries that reach zero,
// called once per build for modules that were not re-visited this run.
func (c *ModuleCache) Tick(visited map[string]bool, defaultExpiry int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, m := range c.entries {
		if visited[id] {
			m.Expiry = defaultExpiry
			c.entries[id] = m
			continue
		}
		m.Expiry--
		if m.Expiry <= 0 {
			delete(c.entries, id)
			continue
		}
		c.entries[id] = m
	}
}

// MarshalJSON serializes the full entry set, sorted implicitly by Go's
// stable map-to-JSON-object encoding of encoding/json.
func (c *ModuleCache) MarshalJSON() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return json.Marshal(c.entries)
}

func (c *ModuleCache) UnmarshalJSON(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return json.Unmarshal(data, &c.entries)
}

// LookupField does an ad-hoc read of one field of a cached blob without a
// full struct decode, for hosts that persist caches alongside unrelated
// plugin-owned JSON blobs and want to sniff one field cheaply before
// deciding whether to load the whole ModuleCache.
func LookupField(rawJSON []byte, id string, field string) string {
	path := gjson.GetBytes(rawJSON, gjson.Escape(id)+"."+field)
	return path.String()
}
