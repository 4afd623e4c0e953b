// Package pcontext models prediction contexts, the graph-structured call
// stacks an ATN simulator tracks while exploring rule invocations, and the
// cache that hash-conses them.
//
// A Context is immutable. Each node holds one or more (return state,
// parent) pairs sorted by return state; Empty is the shared root marker. A
// nil parent paired with EmptyReturnState inside a multi-pair node marks an
// "empty path": the stack may also be exhausted at that point.
package pcontext

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"slices"
	"sort"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// EmptyReturnState is the return state stored on the root of every stack.
const EmptyReturnState = 0x7FFFFFFF

// Kind is the closed set of context shapes.
type Kind uint8

const (
	// KindEmpty is the root marker.
	KindEmpty Kind = iota + 1
	// KindSingleton holds exactly one (return state, parent) pair.
	KindSingleton
	// KindArray holds two or more pairs.
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindSingleton:
		return "singleton"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Context is one node of a prediction-context graph.
type Context struct {
	parents      []*Context
	returnStates []int
	hash         uint32
}

// Empty is the root of every context graph.
var Empty = newNode([]*Context{nil}, []int{EmptyReturnState})

// NewSingleton creates a node returning to returnState, then to parent.
func NewSingleton(parent *Context, returnState int) *Context {
	if returnState == EmptyReturnState && parent == nil {
		return Empty
	}
	return newNode([]*Context{parent}, []int{returnState})
}

// NewArray creates a node from parallel parent/return-state slices. Pairs
// are sorted by return state; a single pair yields a singleton.
func NewArray(parents []*Context, returnStates []int) *Context {
	if len(parents) != len(returnStates) || len(parents) == 0 {
		panic(fmt.Sprintf("pcontext: mismatched array node (%d parents, %d return states)", len(parents), len(returnStates)))
	}
	if len(parents) == 1 {
		return NewSingleton(parents[0], returnStates[0])
	}
	ps := slices.Clone(parents)
	rs := slices.Clone(returnStates)
	sort.Stable(pairs{ps, rs})
	return newNode(ps, rs)
}

// FromFollowStates builds the stack for a chain of rule invocations, given
// the follow state of each invocation from the outermost in.
func FromFollowStates(states ...int) *Context {
	ctx := Empty
	for _, s := range states {
		ctx = NewSingleton(ctx, s)
	}
	return ctx
}

type pairs struct {
	parents      []*Context
	returnStates []int
}

func (p pairs) Len() int           { return len(p.returnStates) }
func (p pairs) Less(i, j int) bool { return p.returnStates[i] < p.returnStates[j] }
func (p pairs) Swap(i, j int) {
	p.parents[i], p.parents[j] = p.parents[j], p.parents[i]
	p.returnStates[i], p.returnStates[j] = p.returnStates[j], p.returnStates[i]
}

func newNode(parents []*Context, returnStates []int) *Context {
	return &Context{
		parents:      parents,
		returnStates: returnStates,
		hash:         structuralHash(parents, returnStates),
	}
}

// structuralHash mixes parent hashes and return states, so structurally
// equal graphs hash alike regardless of node identity.
func structuralHash(parents []*Context, returnStates []int) uint32 {
	h := fnv.New32a()
	var buf [4]byte
	for _, p := range parents {
		var ph uint32
		if p != nil {
			ph = p.hash
		}
		binary.LittleEndian.PutUint32(buf[:], ph)
		h.Write(buf[:])
	}
	for _, rs := range returnStates {
		v, err := safecast.Conv[uint32](rs)
		if err != nil {
			panic(fmt.Errorf("pcontext: return state %d: %w", rs, err))
		}
		binary.LittleEndian.PutUint32(buf[:], v)
		h.Write(buf[:])
	}
	return h.Sum32()
}

// Kind reports the node shape.
func (c *Context) Kind() Kind {
	switch {
	case c == Empty:
		return KindEmpty
	case len(c.returnStates) == 1:
		return KindSingleton
	default:
		return KindArray
	}
}

// IsEmpty reports whether c is the root marker.
func (c *Context) IsEmpty() bool { return c == Empty }

// HasEmptyPath reports whether the stack may be exhausted at this node.
func (c *Context) HasEmptyPath() bool {
	return c.returnStates[len(c.returnStates)-1] == EmptyReturnState
}

// Len returns the number of (return state, parent) pairs.
func (c *Context) Len() int { return len(c.returnStates) }

// Parent returns the i-th parent; nil on the empty path.
func (c *Context) Parent(i int) *Context { return c.parents[i] }

// ReturnState returns the i-th return state.
func (c *Context) ReturnState(i int) int { return c.returnStates[i] }

// ReturnStates returns a copy of the return states.
func (c *Context) ReturnStates() []int { return slices.Clone(c.returnStates) }

// Hash returns the structural hash.
func (c *Context) Hash() uint32 { return c.hash }

// Depth returns the length of the longest path to the root.
func (c *Context) Depth() int {
	return depth(c, map[*Context]int{})
}

func depth(c *Context, memo map[*Context]int) int {
	if c == nil || c.IsEmpty() {
		return 0
	}
	if d, ok := memo[c]; ok {
		return d
	}
	best := 0
	for _, p := range c.parents {
		best = max(best, depth(p, memo))
	}
	memo[c] = best + 1
	return best + 1
}

// Equal reports whether a and b describe the same stacks: same return
// states, pairwise-equal parents.
func Equal(a, b *Context) bool {
	return equal(a, b, make(map[[2]*Context]bool))
}

func equal(a, b *Context, seen map[[2]*Context]bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.hash != b.hash || len(a.returnStates) != len(b.returnStates) {
		return false
	}
	key := [2]*Context{a, b}
	if v, ok := seen[key]; ok {
		return v
	}
	if !slices.Equal(a.returnStates, b.returnStates) {
		seen[key] = false
		return false
	}
	for i := range a.parents {
		if !equal(a.parents[i], b.parents[i], seen) {
			seen[key] = false
			return false
		}
	}
	seen[key] = true
	return true
}

// sameShallow compares return states by value and parents by identity.
// It is exact for nodes whose parents are already canonical.
func sameShallow(a, b *Context) bool {
	if a.hash != b.hash || !slices.Equal(a.returnStates, b.returnStates) {
		return false
	}
	for i := range a.parents {
		if a.parents[i] != b.parents[i] {
			return false
		}
	}
	return true
}

// String renders the return states, with $ for the empty path.
func (c *Context) String() string {
	if c == nil {
		return "<nil>"
	}
	if c.IsEmpty() {
		return "$"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, rs := range c.returnStates {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if rs == EmptyReturnState {
			sb.WriteByte('$')
			continue
		}
		sb.WriteString(strconv.Itoa(rs))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Stacks lists every root-to-node path as return states, innermost first.
// It is meant for diagnostics on small graphs.
func (c *Context) Stacks() [][]int {
	if c == nil || c.IsEmpty() {
		return [][]int{{}}
	}
	var out [][]int
	for i, rs := range c.returnStates {
		if rs == EmptyReturnState {
			out = append(out, []int{})
			continue
		}
		for _, tail := range c.parents[i].Stacks() {
			out = append(out, append([]int{rs}, tail...))
		}
	}
	return out
}
