package atn

import (
	"atnrt/internal/interval"
	"atnrt/internal/token"
)

// StateFactory builds a state of the given serialized kind. StateInvalid
// yields nil with no error; the slot stays empty in ATN.States.
func StateFactory(kind, ruleIndex int) (*State, error) {
	if kind < 0 || kind > int(StateLoopEnd) {
		return nil, checkf(false, "unknown state type %d", kind)
	}
	k := StateKind(kind)
	if k == StateInvalid {
		return nil, nil
	}
	return NewState(k, ruleIndex), nil
}

// EdgeFactory builds a transition of the given serialized kind from src to
// trg. Operand meaning depends on kind; sets is the ATN's interval-set table.
func EdgeFactory(a *ATN, kind, src, trg, arg1, arg2, arg3 int, sets []*interval.Set) (*Transition, error) {
	target := a.State(trg)
	if target == nil {
		return nil, checkf(false, "edge %d->%d: invalid target state", src, trg)
	}
	if kind <= int(TransitionInvalid) || kind > int(TransitionPrecedence) {
		return nil, checkf(false, "edge %d->%d: unknown transition type %d", src, trg, kind)
	}

	switch TransitionKind(kind) {
	case TransitionEpsilon:
		return NewEpsilon(target, -1), nil
	case TransitionRange:
		lo := arg1
		if arg3 != 0 {
			lo = token.EOF
		}
		if lo > arg2 {
			return nil, checkf(false, "edge %d->%d: empty range %d..%d", src, trg, lo, arg2)
		}
		return NewRange(target, lo, arg2), nil
	case TransitionRule:
		start := a.State(arg1)
		if start == nil || start.Kind != StateRuleStart {
			return nil, checkf(false, "edge %d->%d: rule edge targets non-rule-start state %d", src, trg, arg1)
		}
		return NewRule(start, arg2, arg3, target), nil
	case TransitionPredicate:
		return NewPredicate(target, arg1, arg2, arg3 != 0), nil
	case TransitionPrecedence:
		return NewPrecedence(target, arg1), nil
	case TransitionAtom:
		if arg3 != 0 {
			return NewAtom(target, token.EOF), nil
		}
		return NewAtom(target, arg1), nil
	case TransitionAction:
		return NewAction(target, arg1, arg2, arg3 != 0), nil
	case TransitionSet, TransitionNotSet:
		if arg1 < 0 || arg1 >= len(sets) {
			return nil, checkf(false, "edge %d->%d: invalid set index %d", src, trg, arg1)
		}
		if TransitionKind(kind) == TransitionSet {
			return NewSetEdge(target, sets[arg1]), nil
		}
		return NewNotSetEdge(target, sets[arg1]), nil
	case TransitionWildcard:
		return NewWildcard(target), nil
	}
	return nil, checkf(false, "edge %d->%d: unknown transition type %d", src, trg, kind)
}

// LexerActionFactory builds a lexer action from its serialized kind and
// operands.
func LexerActionFactory(kind, data1, data2 int) (LexerAction, error) {
	if kind < 0 || kind > int(ActionType) {
		return LexerAction{}, checkf(false, "unknown lexer action type %d", kind)
	}
	switch k := LexerActionKind(kind); k {
	case ActionChannel, ActionMode, ActionPushMode, ActionType:
		return LexerAction{Kind: k, Value: data1}, nil
	case ActionCustom:
		return LexerAction{Kind: k, RuleIndex: data1, ActionIndex: data2}, nil
	default:
		return LexerAction{Kind: k}, nil
	}
}
