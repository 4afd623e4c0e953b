// Package dfa holds the per-decision DFA cache prediction fills in, and the
// process-wide error state that marks "no viable continuation".
package dfa

import (
	"fmt"
	"math"
	"sync"

	"fortio.org/safecast"
)

// State is one DFA state. Edges are indexed by symbol+1 so that EOF maps
// to slot 0.
type State struct {
	Number              int
	Edges               []*State
	IsAccept            bool
	Prediction          int
	RequiresFullContext bool
}

// NewState creates an unnumbered, non-accepting state.
func NewState() *State {
	return &State{Number: -1}
}

var errorState = sync.OnceValue(func() *State {
	return &State{Number: math.MaxInt32}
})

// ErrorState returns the shared error sentinel. Callers compare it by
// identity.
func ErrorState() *State { return errorState() }

// IsError reports whether s is the error sentinel.
func IsError(s *State) bool { return s == ErrorState() }

func edgeIndex(symbol int) (int, error) {
	idx, err := safecast.Conv[uint16](symbol + 1)
	if err != nil {
		return 0, fmt.Errorf("dfa: symbol %d out of edge range: %w", symbol, err)
	}
	return int(idx), nil
}

// Edge returns the target for symbol, or nil when no edge is recorded.
func (s *State) Edge(symbol int) *State {
	idx, err := edgeIndex(symbol)
	if err != nil || idx >= len(s.Edges) {
		return nil
	}
	return s.Edges[idx]
}

// SetEdge records the target for symbol, growing the table as needed.
func (s *State) SetEdge(symbol int, target *State) error {
	idx, err := edgeIndex(symbol)
	if err != nil {
		return err
	}
	if idx >= len(s.Edges) {
		grown := make([]*State, idx+1)
		copy(grown, s.Edges)
		s.Edges = grown
	}
	s.Edges[idx] = target
	return nil
}

func (s *State) String() string {
	switch {
	case IsError(s):
		return "ERROR"
	case s.IsAccept && s.RequiresFullContext:
		return fmt.Sprintf(":s%d^=>%d", s.Number, s.Prediction)
	case s.IsAccept:
		return fmt.Sprintf(":s%d=>%d", s.Number, s.Prediction)
	default:
		return fmt.Sprintf("s%d", s.Number)
	}
}
