// Package atn holds the augmented transition network a recognizer is
// generated from: states, edges, rule and mode tables, the lexer action
// table, and the integer serialization that carries them between the
// grammar tool and the runtime.
package atn

import (
	"fmt"
	"sync"

	"atnrt/internal/interval"
	"atnrt/internal/pcontext"
	"atnrt/internal/token"
)

// GrammarType tells lexer ATNs from parser ATNs.
type GrammarType int

const (
	GrammarLexer GrammarType = iota
	GrammarParser
)

func (g GrammarType) String() string {
	switch g {
	case GrammarLexer:
		return "lexer"
	case GrammarParser:
		return "parser"
	default:
		return fmt.Sprintf("GrammarType(%d)", int(g))
	}
}

// ATN is a deserialized transition network. States holds nil for slots
// serialized as invalid.
type ATN struct {
	GrammarType  GrammarType
	MaxTokenType int

	States           []*State
	DecisionToState  []*State
	RuleToStartState []*State
	RuleToStopState  []*State
	RuleToTokenType  []int
	ModeToStartState []*State
	LexerActions     []LexerAction

	mu         sync.Mutex
	nextTokens map[*State]*interval.Set
}

// New creates an empty ATN.
func New(grammarType GrammarType, maxTokenType int) *ATN {
	return &ATN{GrammarType: grammarType, MaxTokenType: maxTokenType}
}

// AddState appends s (which may be nil) and numbers it.
func (a *ATN) AddState(s *State) {
	if s != nil {
		s.Number = len(a.States)
	}
	a.States = append(a.States, s)
}

// DefineDecision registers s as the next decision and returns its number.
func (a *ATN) DefineDecision(s *State) int {
	a.DecisionToState = append(a.DecisionToState, s)
	s.Decision = len(a.DecisionToState) - 1
	return s.Decision
}

// State returns state n, or nil when n is out of range.
func (a *ATN) State(n int) *State {
	if n < 0 || n >= len(a.States) {
		return nil
	}
	return a.States[n]
}

// NumRules returns the number of rules.
func (a *ATN) NumRules() int { return len(a.RuleToStartState) }

// NextTokens returns the symbols that can follow s within its rule,
// including token.Epsilon when the rule end is reachable. Results are
// memoized per state and read-only.
func (a *ATN) NextTokens(s *State) *interval.Set {
	a.mu.Lock()
	if set, ok := a.nextTokens[s]; ok {
		a.mu.Unlock()
		return set
	}
	a.mu.Unlock()

	set := NewLL1Analyzer(a).Look(s, nil, nil).Freeze()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.nextTokens == nil {
		a.nextTokens = make(map[*State]*interval.Set)
	}
	if have, ok := a.nextTokens[s]; ok {
		return have
	}
	a.nextTokens[s] = set
	return set
}

// NextTokensInContext returns the symbols that can follow s when the rule
// returns through ctx. It is not memoized.
func (a *ATN) NextTokensInContext(s *State, ctx *pcontext.Context) *interval.Set {
	return NewLL1Analyzer(a).Look(s, nil, ctx)
}

// ExpectedTokens computes the symbols allowed after stateNumber given the
// invoking states of the enclosing rule invocations, innermost first.
// token.EOF is included when the outermost rule may end.
func (a *ATN) ExpectedTokens(stateNumber int, invokingStates []int) (*interval.Set, error) {
	s := a.State(stateNumber)
	if s == nil {
		return nil, fmt.Errorf("atn: invalid state number %d", stateNumber)
	}
	following := a.NextTokens(s)
	if !following.Contains(token.Epsilon) {
		return following, nil
	}

	expected := interval.NewSet()
	expected.AddSet(following)
	expected.Remove(token.Epsilon)
	for _, inv := range invokingStates {
		if !following.Contains(token.Epsilon) {
			break
		}
		invoking := a.State(inv)
		if invoking == nil || len(invoking.Transitions) == 0 || invoking.Transitions[0].Kind != TransitionRule {
			return nil, fmt.Errorf("atn: state %d does not invoke a rule", inv)
		}
		following = a.NextTokens(invoking.Transitions[0].FollowState)
		expected.AddSet(following)
		expected.Remove(token.Epsilon)
	}
	if following.Contains(token.Epsilon) {
		expected.AddOne(token.EOF)
	}
	return expected, nil
}
