package dfa

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"atnrt/internal/atn"
)

func TestErrorStateIsOneInstance(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]*State, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = ErrorState()
		}(i)
	}
	wg.Wait()
	for i := range got {
		if got[i] != got[0] || !IsError(got[i]) {
			t.Fatalf("ErrorState must return one shared instance")
		}
	}
	if IsError(NewState()) {
		t.Fatalf("a fresh state is not the error state")
	}
	if ErrorState().String() != "ERROR" {
		t.Fatalf("String() = %q", ErrorState().String())
	}
}

func TestEdgesIncludeEOF(t *testing.T) {
	s, target := NewState(), NewState()
	if err := s.SetEdge(-1, target); err != nil {
		t.Fatalf("SetEdge(EOF): %v", err)
	}
	if err := s.SetEdge(5, ErrorState()); err != nil {
		t.Fatalf("SetEdge(5): %v", err)
	}
	if s.Edge(-1) != target || !IsError(s.Edge(5)) || s.Edge(3) != nil || s.Edge(40) != nil {
		t.Fatalf("edge lookup is wrong: %v", s.Edges)
	}
	if err := s.SetEdge(-7, target); err == nil {
		t.Fatalf("symbols below EOF must be rejected")
	}
}

func TestAddStateNumbersAndSkipsSentinel(t *testing.T) {
	d := New(nil, 0)
	a := d.AddState(NewState())
	b := d.AddState(NewState())
	d.AddState(ErrorState())
	if a.Number != 0 || b.Number != 1 || d.Len() != 2 {
		t.Fatalf("numbers %d %d len %d", a.Number, b.Number, d.Len())
	}
	if err := d.SetS0(a); err != nil || d.S0() != a {
		t.Fatalf("SetS0: %v", err)
	}

	b.IsAccept, b.Prediction = true, 2
	if err := a.SetEdge(1, b); err != nil {
		t.Fatal(err)
	}
	if got := d.Format(strconv.Itoa); got != "s0-1->:s1=>2\n" {
		t.Fatalf("Format() = %q", got)
	}
}

func TestPrecedenceDFA(t *testing.T) {
	entry := atn.NewState(atn.StateStarLoopEntry, 0)
	entry.PrecedenceDecision = true
	d := New(entry, 3)
	if !d.IsPrecedence() {
		t.Fatalf("precedence decision must give a precedence DFA")
	}
	s := NewState()
	if err := d.SetPrecedenceStartState(2, s); err != nil {
		t.Fatal(err)
	}
	got, err := d.PrecedenceStartState(2)
	if err != nil || got != s {
		t.Fatalf("PrecedenceStartState(2) = %v, %v", got, err)
	}
	if err := d.SetS0(s); err == nil {
		t.Fatalf("SetS0 must fail on a precedence DFA")
	}

	plain := New(atn.NewState(atn.StateBlockStart, 0), 0)
	if _, err := plain.PrecedenceStartState(1); !errors.Is(err, ErrNotPrecedence) {
		t.Fatalf("err = %v", err)
	}
}
