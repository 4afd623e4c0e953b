package atn

import (
	"atnrt/internal/interval"
	"atnrt/internal/pcontext"
	"atnrt/internal/token"
)

// HitPred marks a lookahead set that passed through a semantic predicate
// it could not see through.
const HitPred = token.InvalidType

// LL1Analyzer computes single-symbol lookahead sets by walking the ATN.
// Rule invocations push prediction contexts; a private cache makes
// equal contexts identical so the busy set can compare them by pointer.
type LL1Analyzer struct {
	atn      *ATN
	contexts *pcontext.Cache
}

// NewLL1Analyzer creates an analyzer over a.
func NewLL1Analyzer(a *ATN) *LL1Analyzer {
	return &LL1Analyzer{atn: a, contexts: pcontext.NewCache()}
}

// DecisionLookahead returns, for each alternative of decision state s, the
// symbols that can start it. An entry is nil when the alternative's set is
// empty or depends on a predicate.
func (la *LL1Analyzer) DecisionLookahead(s *State) []*interval.Set {
	if s == nil {
		return nil
	}
	out := make([]*interval.Set, len(s.Transitions))
	for alt, t := range s.Transitions {
		set := interval.NewSet()
		w := la.newWalk(set, false, false)
		w.look(t.Target, nil, pcontext.Empty)
		if set.IsEmpty() || set.Contains(HitPred) {
			continue
		}
		out[alt] = set
	}
	return out
}

// Look returns the symbols that can follow s. Reaching stopState, or the
// end of s's rule when ctx is nil, adds token.Epsilon; reaching the end of
// the outermost rule through ctx adds token.EOF. Predicates are assumed to
// pass.
func (la *LL1Analyzer) Look(s, stopState *State, ctx *pcontext.Context) *interval.Set {
	set := interval.NewSet()
	w := la.newWalk(set, true, true)
	w.look(s, stopState, la.contexts.Canonicalize(ctx))
	return set
}

type busyKey struct {
	state *State
	ctx   *pcontext.Context
}

type walk struct {
	la           *LL1Analyzer
	out          *interval.Set
	busy         map[busyKey]struct{}
	calledRules  map[int]bool
	seeThruPreds bool
	addEOF       bool
}

func (la *LL1Analyzer) newWalk(out *interval.Set, seeThruPreds, addEOF bool) *walk {
	return &walk{
		la:           la,
		out:          out,
		busy:         make(map[busyKey]struct{}),
		calledRules:  make(map[int]bool),
		seeThruPreds: seeThruPreds,
		addEOF:       addEOF,
	}
}

func (w *walk) look(s, stopState *State, ctx *pcontext.Context) {
	key := busyKey{s, ctx}
	if _, ok := w.busy[key]; ok {
		return
	}
	w.busy[key] = struct{}{}

	if s == stopState || s.Kind == StateRuleStop {
		if ctx == nil {
			w.out.AddOne(token.Epsilon)
			return
		}
		if ctx.IsEmpty() && w.addEOF {
			w.out.AddOne(token.EOF)
			return
		}
	}

	if s.Kind == StateRuleStop && !ctx.IsEmpty() {
		// return through every caller recorded in ctx
		wasCalled := w.calledRules[s.RuleIndex]
		delete(w.calledRules, s.RuleIndex)
		for i := 0; i < ctx.Len(); i++ {
			rs := ctx.ReturnState(i)
			if rs == pcontext.EmptyReturnState {
				if w.addEOF {
					w.out.AddOne(token.EOF)
				}
				continue
			}
			if ret := w.la.atn.State(rs); ret != nil {
				w.look(ret, stopState, ctx.Parent(i))
			}
		}
		if wasCalled {
			w.calledRules[s.RuleIndex] = true
		}
		return
	}

	for _, t := range s.Transitions {
		switch t.Kind {
		case TransitionRule:
			if w.calledRules[t.Target.RuleIndex] {
				continue
			}
			callee := w.la.contexts.Canonicalize(pcontext.NewSingleton(ctx, t.FollowState.Number))
			w.calledRules[t.Target.RuleIndex] = true
			w.look(t.Target, stopState, callee)
			delete(w.calledRules, t.Target.RuleIndex)
		case TransitionPredicate, TransitionPrecedence:
			if w.seeThruPreds {
				w.look(t.Target, stopState, ctx)
			} else {
				w.out.AddOne(HitPred)
			}
		case TransitionEpsilon, TransitionAction:
			w.look(t.Target, stopState, ctx)
		case TransitionWildcard:
			w.out.AddRange(token.MinUserTokenType, w.la.atn.MaxTokenType)
		case TransitionNotSet:
			w.out.AddSet(t.Label.Complement(token.MinUserTokenType, w.la.atn.MaxTokenType))
		case TransitionAtom, TransitionRange, TransitionSet:
			w.out.AddSet(t.Label)
		}
	}
}
