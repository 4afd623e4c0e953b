package atn

import (
	"slices"
	"sync"
	"testing"

	"atnrt/internal/pcontext"
	"atnrt/internal/token"
)

func TestLookThroughBlock(t *testing.T) {
	a := mustDeserialize(parserFixture())
	got := NewLL1Analyzer(a).Look(a.States[6], nil, nil)
	if !slices.Equal(got.Values(), []int{tokB, tokC}) {
		t.Fatalf("LOOK(6) = %v, want {B, C}", got)
	}
}

func TestNextTokens(t *testing.T) {
	a := mustDeserialize(parserFixture())
	tests := []struct {
		state int
		want  []int
	}{
		{0, []int{tokA}},
		{4, []int{tokB, tokC}},
		{5, []int{token.Epsilon}},
		{7, []int{token.Epsilon}},
	}
	for _, tt := range tests {
		got := a.NextTokens(a.States[tt.state])
		if !slices.Equal(got.Values(), tt.want) {
			t.Errorf("NextTokens(%d) = %v, want %v", tt.state, got, tt.want)
		}
	}
	if a.NextTokens(a.States[0]) != a.NextTokens(a.States[0]) {
		t.Fatalf("NextTokens must be memoized")
	}
}

func TestNextTokensConcurrentMemo(t *testing.T) {
	a := mustDeserialize(parserFixture())
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, s := range a.States {
				a.NextTokens(s)
			}
		}()
	}
	wg.Wait()
	if got := a.NextTokens(a.States[6]); !slices.Equal(got.Values(), []int{tokB, tokC}) {
		t.Fatalf("NextTokens(6) = %v", got)
	}
}

func TestLookInContextReachesEOF(t *testing.T) {
	a := mustDeserialize(parserFixture())

	// end of b, returning into s, which is the outermost rule
	got := a.NextTokensInContext(a.States[7], pcontext.FromFollowStates(5))
	if !slices.Equal(got.Values(), []int{token.EOF}) {
		t.Fatalf("in context = %v, want {EOF}", got)
	}
	got = NewLL1Analyzer(a).Look(a.States[5], nil, pcontext.Empty)
	if !slices.Equal(got.Values(), []int{token.EOF}) {
		t.Fatalf("end of s = %v, want {EOF}", got)
	}
}

func TestExpectedTokens(t *testing.T) {
	a := mustDeserialize(parserFixture())

	got, err := a.ExpectedTokens(7, []int{4})
	if err != nil {
		t.Fatalf("ExpectedTokens: %v", err)
	}
	if !slices.Equal(got.Values(), []int{token.EOF}) {
		t.Fatalf("expected = %v, want {EOF}", got)
	}

	got, err = a.ExpectedTokens(4, nil)
	if err != nil || !slices.Equal(got.Values(), []int{tokB, tokC}) {
		t.Fatalf("expected at 4 = %v, %v", got, err)
	}
	if _, err := a.ExpectedTokens(7, []int{8}); err == nil {
		t.Fatalf("non-invoking state must be rejected")
	}
	if _, err := a.ExpectedTokens(99, nil); err == nil {
		t.Fatalf("unknown state must be rejected")
	}
}

func TestDecisionLookahead(t *testing.T) {
	a := mustDeserialize(parserFixture())
	alts := NewLL1Analyzer(a).DecisionLookahead(a.DecisionToState[0])
	if len(alts) != 2 {
		t.Fatalf("alts = %v", alts)
	}
	if !slices.Equal(alts[0].Values(), []int{tokB}) || !slices.Equal(alts[1].Values(), []int{tokC}) {
		t.Fatalf("alternative lookahead = %v / %v", alts[0], alts[1])
	}
}

func TestLookStopsAtPredicates(t *testing.T) {
	a := New(GrammarParser, 2)
	for range 3 {
		a.AddState(NewState(StateBasic, 0))
	}
	a.States[0].AddTransition(NewPredicate(a.States[1], 0, 0, false))
	a.States[1].AddTransition(NewAtom(a.States[2], 2))
	decision := NewState(StateBlockStart, 0)
	a.AddState(decision)
	decision.AddTransition(NewEpsilon(a.States[0], -1))

	la := NewLL1Analyzer(a)
	if got := la.Look(a.States[0], nil, nil); !slices.Equal(got.Values(), []int{2}) {
		t.Fatalf("Look sees through predicates, got %v", got)
	}
	if alts := la.DecisionLookahead(decision); alts[0] != nil {
		t.Fatalf("a predicated alternative must have no LL(1) set, got %v", alts[0])
	}
}

func TestLookWildcardAndNotSet(t *testing.T) {
	a := mustDeserialize(parserFixture())
	s := NewState(StateBasic, 0)
	a.AddState(s)
	s.AddTransition(NewWildcard(a.States[5]))
	if got := NewLL1Analyzer(a).Look(s, nil, nil); !slices.Equal(got.Values(), []int{1, 2, 3}) {
		t.Fatalf("wildcard = %v", got)
	}

	n := NewState(StateBasic, 0)
	a.AddState(n)
	n.AddTransition(NewNotSetEdge(a.States[5], a.States[6].Transitions[0].Target.Transitions[0].Label))
	if got := NewLL1Analyzer(a).Look(n, nil, nil); !slices.Equal(got.Values(), []int{1, 3}) {
		t.Fatalf("not-set = %v", got)
	}
}
