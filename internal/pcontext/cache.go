package pcontext

import "sync"

// Stats counts cache traffic.
type Stats struct {
	Lookups uint64
	Hits    uint64
	Inserts uint64
}

// Cache maps structurally equal contexts to one shared instance. It only
// grows. A Cache may be shared by several simulators; every top-level
// operation runs under the cache's lock.
type Cache struct {
	mu      sync.Mutex
	buckets map[uint32][]*Context
	count   int
	stats   Stats
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{buckets: make(map[uint32][]*Context, 64)}
}

// Canonicalize returns the cached instance structurally equal to ctx,
// inserting ctx's nodes as needed. Parents are canonicalized before the
// node that refers to them.
func (c *Cache) Canonicalize(ctx *Context) *Context {
	if ctx == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canonical(ctx, make(map[*Context]*Context))
}

// canonical rewrites ctx bottom-up. visited is keyed by the original node
// so shared substructure is rewritten once.
func (c *Cache) canonical(ctx *Context, visited map[*Context]*Context) *Context {
	if ctx == nil || ctx.IsEmpty() {
		return ctx
	}
	if done, ok := visited[ctx]; ok {
		return done
	}

	var parents []*Context
	changed := false
	for i, p := range ctx.parents {
		cp := c.canonical(p, visited)
		if !changed && cp != p {
			parents = make([]*Context, len(ctx.parents))
			copy(parents, ctx.parents)
			changed = true
		}
		if changed {
			parents[i] = cp
		}
	}

	candidate := ctx
	if changed {
		// structurally equal parents hash alike, so the hash carries over
		candidate = &Context{parents: parents, returnStates: ctx.returnStates, hash: ctx.hash}
	}
	out := c.intern(candidate)
	visited[ctx] = out
	if candidate != ctx {
		visited[candidate] = out
	}
	return out
}

// intern returns the bucket entry shallow-equal to n, or inserts n.
func (c *Cache) intern(n *Context) *Context {
	c.stats.Lookups++
	for _, existing := range c.buckets[n.hash] {
		if sameShallow(existing, n) {
			c.stats.Hits++
			return existing
		}
	}
	c.buckets[n.hash] = append(c.buckets[n.hash], n)
	c.count++
	c.stats.Inserts++
	return n
}

// Get returns the cached instance structurally equal to ctx, if any,
// without inserting anything.
func (c *Cache) Get(ctx *Context) (*Context, bool) {
	if ctx == nil {
		return nil, false
	}
	if ctx.IsEmpty() {
		return Empty, true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	seen := make(map[[2]*Context]bool)
	for _, existing := range c.buckets[ctx.hash] {
		if equal(existing, ctx, seen) {
			return existing, true
		}
	}
	return nil, false
}

// Merge combines a and b into one canonical context. With rootIsWildcard
// the empty stack absorbs anything merged with it; otherwise it survives as
// an empty path next to the other stacks.
func (c *Cache) Merge(a, b *Context, rootIsWildcard bool) *Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	visited := make(map[*Context]*Context)
	a = c.canonical(a, visited)
	b = c.canonical(b, visited)
	m := newMerger(rootIsWildcard)
	return c.canonical(m.merge(a, b), visited)
}

// Len returns the number of cached nodes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Stats returns a snapshot of the traffic counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
