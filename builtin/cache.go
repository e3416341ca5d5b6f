package builtin

import lru "github.com/hashicorp/golang-lru/v2"

// nameCache fronts Lookup's map access with a bounded LRU, the way a
// shader compiler running inside a live-coding loop re-resolves the same
// handful of builtin names on every recompile (spec.md §11 domain stack:
// golang-lru/v2 "as an LRU cache in front of the builtin registry's
// name-lookup tables"). The underlying map is already O(1); the cache's
// value here is bounding repeated-lookup allocation churn in a hot
// compile loop, not algorithmic complexity.
var nameCache *lru.Cache[string, BuiltinId]

func init() {
	c, err := lru.New[string, BuiltinId](256)
	if err != nil {
		// lru.New only errors on a non-positive size, which 256 never is.
		panic(err)
	}
	nameCache = c
}

// LookupCached is Lookup with an LRU in front of the symbol table.
// q32xform's per-call rewrite (spec.md §4.3) resolves builtins through
// ResolveGLSLName and Symbol, which do not go through this cache.
func LookupCached(symbol string) (BuiltinId, bool) {
	if id, ok := nameCache.Get(symbol); ok {
		return id, true
	}
	id, ok := Lookup(symbol)
	if ok {
		nameCache.Add(symbol, id)
	}
	return id, ok
}
