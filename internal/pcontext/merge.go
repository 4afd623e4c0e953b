package pcontext

// Merge combines a and b without a cache. See Cache.Merge.
func Merge(a, b *Context, rootIsWildcard bool) *Context {
	return newMerger(rootIsWildcard).merge(a, b)
}

// merger holds the request-scoped memo tables of one merge.
type merger struct {
	rootIsWildcard bool
	memo           map[[2]*Context]*Context
	seen           map[[2]*Context]bool
}

func newMerger(rootIsWildcard bool) *merger {
	return &merger{
		rootIsWildcard: rootIsWildcard,
		memo:           make(map[[2]*Context]*Context),
		seen:           make(map[[2]*Context]bool),
	}
}

func (m *merger) equal(a, b *Context) bool { return equal(a, b, m.seen) }

func (m *merger) lookup(a, b *Context) (*Context, bool) {
	if r, ok := m.memo[[2]*Context{a, b}]; ok {
		return r, true
	}
	r, ok := m.memo[[2]*Context{b, a}]
	return r, ok
}

func (m *merger) store(a, b, r *Context) *Context {
	m.memo[[2]*Context{a, b}] = r
	return r
}

func (m *merger) merge(a, b *Context) *Context {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a == b || m.equal(a, b):
		return a
	}
	if a.Len() == 1 && b.Len() == 1 {
		return m.singletons(a, b)
	}
	if m.rootIsWildcard {
		if a.IsEmpty() {
			return a
		}
		if b.IsEmpty() {
			return b
		}
	}
	return m.arrays(a, b)
}

// root handles merges where either side is Empty; nil means neither is.
func (m *merger) root(a, b *Context) *Context {
	if m.rootIsWildcard {
		if a.IsEmpty() || b.IsEmpty() {
			return Empty
		}
		return nil
	}
	switch {
	case a.IsEmpty() && b.IsEmpty():
		return Empty
	case a.IsEmpty():
		return newNode([]*Context{b.parents[0], nil}, []int{b.returnStates[0], EmptyReturnState})
	case b.IsEmpty():
		return newNode([]*Context{a.parents[0], nil}, []int{a.returnStates[0], EmptyReturnState})
	}
	return nil
}

func (m *merger) singletons(a, b *Context) *Context {
	if r, ok := m.lookup(a, b); ok {
		return r
	}
	if r := m.root(a, b); r != nil {
		return m.store(a, b, r)
	}

	ars, brs := a.returnStates[0], b.returnStates[0]
	ap, bp := a.parents[0], b.parents[0]
	if ars == brs {
		parent := m.merge(ap, bp)
		if parent == ap {
			return a
		}
		if parent == bp {
			return b
		}
		return m.store(a, b, NewSingleton(parent, ars))
	}

	if ap != nil && m.equal(ap, bp) {
		// same stack below, two return states
		rs := []int{ars, brs}
		if ars > brs {
			rs[0], rs[1] = brs, ars
		}
		return m.store(a, b, newNode([]*Context{ap, ap}, rs))
	}

	parents := []*Context{ap, bp}
	rs := []int{ars, brs}
	if ars > brs {
		parents[0], parents[1] = bp, ap
		rs[0], rs[1] = brs, ars
	}
	return m.store(a, b, newNode(parents, rs))
}

func (m *merger) arrays(a, b *Context) *Context {
	if r, ok := m.lookup(a, b); ok {
		return r
	}

	n := a.Len() + b.Len()
	parents := make([]*Context, 0, n)
	rs := make([]int, 0, n)
	i, j := 0, 0
	for i < a.Len() && j < b.Len() {
		ap, bp := a.parents[i], b.parents[j]
		switch ars, brs := a.returnStates[i], b.returnStates[j]; {
		case ars == brs:
			bothEmpty := ars == EmptyReturnState && ap == nil && bp == nil
			sameParent := ap != nil && bp != nil && m.equal(ap, bp)
			if bothEmpty || sameParent {
				parents = append(parents, ap)
			} else {
				parents = append(parents, m.merge(ap, bp))
			}
			rs = append(rs, ars)
			i++
			j++
		case ars < brs:
			parents = append(parents, ap)
			rs = append(rs, ars)
			i++
		default:
			parents = append(parents, bp)
			rs = append(rs, brs)
			j++
		}
	}
	for ; i < a.Len(); i++ {
		parents = append(parents, a.parents[i])
		rs = append(rs, a.returnStates[i])
	}
	for ; j < b.Len(); j++ {
		parents = append(parents, b.parents[j])
		rs = append(rs, b.returnStates[j])
	}

	if len(rs) == 1 {
		return m.store(a, b, NewSingleton(parents[0], rs[0]))
	}

	merged := newNode(parents, rs)
	if m.equal(merged, a) {
		return m.store(a, b, a)
	}
	if m.equal(merged, b) {
		return m.store(a, b, b)
	}
	combineCommonParents(parents, m)
	// parents may now share identities; the hash is unchanged
	return m.store(a, b, merged)
}

// combineCommonParents makes structurally equal parents the same instance.
func combineCommonParents(parents []*Context, m *merger) {
	for i := range parents {
		if parents[i] == nil {
			continue
		}
		for j := 0; j < i; j++ {
			if parents[j] != nil && parents[j] != parents[i] && m.equal(parents[j], parents[i]) {
				parents[i] = parents[j]
				break
			}
		}
	}
}
