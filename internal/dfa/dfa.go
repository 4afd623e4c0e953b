package dfa

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"atnrt/internal/atn"
)

// ErrNotPrecedence is returned for precedence operations on an ordinary DFA.
var ErrNotPrecedence = errors.New("dfa: not a precedence DFA")

// DFA caches prediction results for one decision. It is safe for concurrent
// use.
type DFA struct {
	Decision      int
	AtnStartState *atn.State

	mu         sync.RWMutex
	s0         *State
	states     []*State
	precedence bool
}

// New creates the DFA for the decision starting at start. Precedence
// decisions get a start state whose edges are indexed by precedence.
func New(start *atn.State, decision int) *DFA {
	d := &DFA{Decision: decision, AtnStartState: start}
	if start != nil && start.Kind == atn.StateStarLoopEntry && start.PrecedenceDecision {
		d.precedence = true
		d.s0 = NewState()
	}
	return d
}

// IsPrecedence reports whether the DFA is keyed by precedence.
func (d *DFA) IsPrecedence() bool { return d.precedence }

// S0 returns the start state, or nil before prediction has run.
func (d *DFA) S0() *State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.s0
}

// SetS0 installs the start state of an ordinary DFA.
func (d *DFA) SetS0(s *State) error {
	if d.precedence {
		return fmt.Errorf("dfa %d: start state of a precedence DFA is fixed", d.Decision)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.s0 = s
	return nil
}

// PrecedenceStartState returns the start state for precedence p.
func (d *DFA) PrecedenceStartState(p int) (*State, error) {
	if !d.precedence {
		return nil, ErrNotPrecedence
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p < 0 {
		return nil, nil
	}
	return d.s0.Edge(p - 1), nil
}

// SetPrecedenceStartState records the start state for precedence p.
// Negative precedences are ignored.
func (d *DFA) SetPrecedenceStartState(p int, s *State) error {
	if !d.precedence {
		return ErrNotPrecedence
	}
	if p < 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.s0.SetEdge(p-1, s)
}

// AddState numbers s and stores it. The error sentinel is never stored.
func (d *DFA) AddState(s *State) *State {
	if IsError(s) {
		return s
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	s.Number = len(d.states)
	d.states = append(d.states, s)
	return s
}

// Len returns the number of stored states.
func (d *DFA) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.states)
}

// Format lists every edge as "s0-A->s1", one per line, naming symbols
// through name.
func (d *DFA) Format(name func(int) string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var sb strings.Builder
	for _, s := range d.states {
		for i, t := range s.Edges {
			if t == nil {
				continue
			}
			fmt.Fprintf(&sb, "%s-%s->%s\n", s, name(i-1), t)
		}
	}
	return sb.String()
}
