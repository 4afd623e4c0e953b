package atn

import (
	"fmt"

	"atnrt/internal/interval"
)

// TransitionKind is the serialized tag of an ATN edge.
type TransitionKind uint8

const (
	TransitionInvalid TransitionKind = iota
	TransitionEpsilon
	TransitionRange
	TransitionRule
	TransitionPredicate
	TransitionAtom
	TransitionAction
	TransitionSet
	TransitionNotSet
	TransitionWildcard
	TransitionPrecedence
)

var transitionKindNames = [...]string{
	TransitionInvalid:    "invalid",
	TransitionEpsilon:    "epsilon",
	TransitionRange:      "range",
	TransitionRule:       "rule",
	TransitionPredicate:  "predicate",
	TransitionAtom:       "atom",
	TransitionAction:     "action",
	TransitionSet:        "set",
	TransitionNotSet:     "not-set",
	TransitionWildcard:   "wildcard",
	TransitionPrecedence: "precedence",
}

func (k TransitionKind) String() string {
	if int(k) < len(transitionKindNames) {
		return transitionKindNames[k]
	}
	return fmt.Sprintf("TransitionKind(%d)", k)
}

// Transition is one ATN edge. Which fields are set depends on Kind:
//
//   - atom, range, set, not-set: Label
//   - rule: Target is the callee's start state, RuleIndex, Precedence, FollowState
//   - predicate: RuleIndex, PredIndex, CtxDependent
//   - action: RuleIndex, ActionIndex, CtxDependent
//   - precedence: Precedence
//   - epsilon: OutermostPrecedenceReturn (-1 when unused)
type Transition struct {
	Kind   TransitionKind
	Target *State
	Label  *interval.Set

	RuleIndex    int
	Precedence   int
	FollowState  *State
	PredIndex    int
	ActionIndex  int
	CtxDependent bool

	OutermostPrecedenceReturn int
}

func newTransition(kind TransitionKind, target *State) *Transition {
	return &Transition{Kind: kind, Target: target, OutermostPrecedenceReturn: -1}
}

// NewEpsilon creates an epsilon edge.
func NewEpsilon(target *State, outermostPrecedenceReturn int) *Transition {
	t := newTransition(TransitionEpsilon, target)
	t.OutermostPrecedenceReturn = outermostPrecedenceReturn
	return t
}

// NewAtom creates an edge matching one symbol.
func NewAtom(target *State, symbol int) *Transition {
	t := newTransition(TransitionAtom, target)
	t.Label = interval.NewSet(symbol).Freeze()
	return t
}

// NewRange creates an edge matching [start, stop].
func NewRange(target *State, start, stop int) *Transition {
	t := newTransition(TransitionRange, target)
	t.Label = interval.RangeSet(start, stop).Freeze()
	return t
}

// NewRule creates a rule invocation edge.
func NewRule(ruleStart *State, ruleIndex, precedence int, follow *State) *Transition {
	t := newTransition(TransitionRule, ruleStart)
	t.RuleIndex = ruleIndex
	t.Precedence = precedence
	t.FollowState = follow
	return t
}

// NewPredicate creates a semantic predicate edge.
func NewPredicate(target *State, ruleIndex, predIndex int, ctxDependent bool) *Transition {
	t := newTransition(TransitionPredicate, target)
	t.RuleIndex = ruleIndex
	t.PredIndex = predIndex
	t.CtxDependent = ctxDependent
	return t
}

// NewPrecedence creates a precedence predicate edge.
func NewPrecedence(target *State, precedence int) *Transition {
	t := newTransition(TransitionPrecedence, target)
	t.Precedence = precedence
	return t
}

// NewAction creates an action edge.
func NewAction(target *State, ruleIndex, actionIndex int, ctxDependent bool) *Transition {
	t := newTransition(TransitionAction, target)
	t.RuleIndex = ruleIndex
	t.ActionIndex = actionIndex
	t.CtxDependent = ctxDependent
	return t
}

// NewSetEdge creates an edge matching any member of set.
func NewSetEdge(target *State, set *interval.Set) *Transition {
	t := newTransition(TransitionSet, target)
	t.Label = set
	return t
}

// NewNotSetEdge creates an edge matching any vocabulary symbol outside set.
func NewNotSetEdge(target *State, set *interval.Set) *Transition {
	t := newTransition(TransitionNotSet, target)
	t.Label = set
	return t
}

// NewWildcard creates an edge matching any vocabulary symbol.
func NewWildcard(target *State) *Transition {
	return newTransition(TransitionWildcard, target)
}

// IsEpsilon reports whether the edge consumes no input.
func (t *Transition) IsEpsilon() bool {
	switch t.Kind {
	case TransitionEpsilon, TransitionRule, TransitionPredicate,
		TransitionAction, TransitionPrecedence:
		return true
	default:
		return false
	}
}

// Matches reports whether the edge consumes symbol, given the vocabulary
// bounds [minVocab, maxVocab].
func (t *Transition) Matches(symbol, minVocab, maxVocab int) bool {
	switch t.Kind {
	case TransitionAtom, TransitionRange, TransitionSet:
		return t.Label.Contains(symbol)
	case TransitionNotSet:
		return symbol >= minVocab && symbol <= maxVocab && !t.Label.Contains(symbol)
	case TransitionWildcard:
		return symbol >= minVocab && symbol <= maxVocab
	default:
		return false
	}
}

func (t *Transition) String() string {
	switch t.Kind {
	case TransitionAtom, TransitionRange, TransitionSet:
		return fmt.Sprintf("%s %s -> %d", t.Kind, t.Label, t.Target.Number)
	case TransitionNotSet:
		return fmt.Sprintf("~%s -> %d", t.Label, t.Target.Number)
	case TransitionRule:
		return fmt.Sprintf("rule %d -> %d (follow %d)", t.RuleIndex, t.Target.Number, t.FollowState.Number)
	case TransitionPredicate:
		return fmt.Sprintf("pred %d:%d -> %d", t.RuleIndex, t.PredIndex, t.Target.Number)
	case TransitionPrecedence:
		return fmt.Sprintf("prec %d >= _p -> %d", t.Precedence, t.Target.Number)
	case TransitionAction:
		return fmt.Sprintf("action %d:%d -> %d", t.RuleIndex, t.ActionIndex, t.Target.Number)
	default:
		return fmt.Sprintf("%s -> %d", t.Kind, t.Target.Number)
	}
}
