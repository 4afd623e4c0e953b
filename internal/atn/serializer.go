package atn

import (
	"fmt"

	"fortio.org/safecast"

	"atnrt/internal/interval"
	"atnrt/internal/token"
)

// Serialize encodes a into the version-4 integer form read by
// Deserializer. Derived edges (rule stop returns) and derived links are not
// written.
func Serialize(a *ATN) ([]int32, error) {
	w := &writer{}
	w.put(SerializedVersion, int(a.GrammarType), a.MaxTokenType)

	w.put(len(a.States))
	var nonGreedy, precedence []int
	for _, s := range a.States {
		if s == nil {
			w.put(int(StateInvalid))
			continue
		}
		w.put(int(s.Kind), s.RuleIndex)
		switch {
		case s.Kind == StateLoopEnd:
			if s.LoopBack == nil {
				return nil, fmt.Errorf("atn: serialize: loop end %d has no loop back", s.Number)
			}
			w.put(s.LoopBack.Number)
		case s.Kind.IsBlockStart():
			if s.EndState == nil {
				return nil, fmt.Errorf("atn: serialize: block start %d has no end state", s.Number)
			}
			w.put(s.EndState.Number)
		}
		if s.NonGreedy {
			nonGreedy = append(nonGreedy, s.Number)
		}
		if s.Kind == StateRuleStart && s.IsLeftRecursive {
			precedence = append(precedence, s.Number)
		}
	}
	w.list(nonGreedy)
	w.list(precedence)

	w.put(len(a.RuleToStartState))
	for i, s := range a.RuleToStartState {
		w.put(s.Number)
		if a.GrammarType == GrammarLexer {
			w.put(a.RuleToTokenType[i])
		}
	}

	w.put(len(a.ModeToStartState))
	for _, s := range a.ModeToStartState {
		w.put(s.Number)
	}

	sets, setIndex := collectSets(a)
	w.put(len(sets))
	for _, set := range sets {
		w.set(set)
	}

	var edges int
	for _, s := range a.States {
		if s != nil && s.Kind != StateRuleStop {
			edges += len(s.Transitions)
		}
	}
	w.put(edges)
	for _, s := range a.States {
		if s == nil || s.Kind == StateRuleStop {
			continue
		}
		for _, t := range s.Transitions {
			w.edge(s, t, setIndex)
		}
	}

	w.put(len(a.DecisionToState))
	for _, s := range a.DecisionToState {
		w.put(s.Number)
	}

	if a.GrammarType == GrammarLexer {
		w.put(len(a.LexerActions))
		for _, act := range a.LexerActions {
			d1, d2 := act.operands()
			w.put(int(act.Kind), d1, d2)
		}
	}
	if w.err != nil {
		return nil, w.err
	}
	return w.data, nil
}

func collectSets(a *ATN) ([]*interval.Set, map[*interval.Set]int) {
	var sets []*interval.Set
	index := make(map[*interval.Set]int)
	for _, s := range a.States {
		if s == nil || s.Kind == StateRuleStop {
			continue
		}
		for _, t := range s.Transitions {
			if t.Kind != TransitionSet && t.Kind != TransitionNotSet {
				continue
			}
			if _, ok := index[t.Label]; !ok {
				index[t.Label] = len(sets)
				sets = append(sets, t.Label)
			}
		}
	}
	return sets, index
}

type writer struct {
	data []int32
	err  error
}

func (w *writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *writer) put(values ...int) {
	for _, v := range values {
		if w.err != nil {
			return
		}
		n, err := safecast.Conv[int32](v)
		if err != nil {
			w.err = fmt.Errorf("atn: serialize value %d: %w", v, err)
			return
		}
		w.data = append(w.data, n)
	}
}

func (w *writer) list(values []int) {
	w.put(len(values))
	w.put(values...)
}

// set writes an interval set; EOF travels in the contains-EOF flag.
func (w *writer) set(set *interval.Set) {
	ivs := set.Intervals()
	containsEOF := set.Contains(token.EOF)
	count := len(ivs)
	if containsEOF && ivs[0].Stop == token.EOF {
		count--
	}
	flag := 0
	if containsEOF {
		flag = 1
	}
	w.put(count, flag)
	for _, iv := range ivs {
		if iv.Start == token.EOF {
			if iv.Stop == token.EOF {
				continue
			}
			w.put(0, iv.Stop)
			continue
		}
		w.put(iv.Start, iv.Stop)
	}
}

func (w *writer) edge(src *State, t *Transition, setIndex map[*interval.Set]int) {
	trg := t.Target.Number
	var arg1, arg2, arg3 int
	switch t.Kind {
	case TransitionRule:
		trg = t.FollowState.Number
		arg1, arg2, arg3 = t.Target.Number, t.RuleIndex, t.Precedence
	case TransitionPrecedence:
		arg1 = t.Precedence
	case TransitionPredicate:
		arg1, arg2, arg3 = t.RuleIndex, t.PredIndex, boolInt(t.CtxDependent)
	case TransitionAction:
		arg1, arg2, arg3 = t.RuleIndex, t.ActionIndex, boolInt(t.CtxDependent)
	case TransitionRange:
		ivs := t.Label.Intervals()
		if len(ivs) != 1 {
			w.fail(fmt.Errorf("atn: serialize: range edge %d->%d has %d intervals", src.Number, trg, len(ivs)))
			return
		}
		arg1, arg2 = ivs[0].Start, ivs[0].Stop
		if arg1 == token.EOF {
			arg1, arg3 = 0, 1
		}
	case TransitionAtom:
		var ok bool
		if arg1, ok = t.Label.Min(); !ok {
			w.fail(fmt.Errorf("atn: serialize: atom edge %d->%d has no label", src.Number, trg))
			return
		}
		if arg1 == token.EOF {
			arg1, arg3 = 0, 1
		}
	case TransitionSet, TransitionNotSet:
		arg1 = setIndex[t.Label]
	case TransitionEpsilon, TransitionWildcard:
	}
	w.put(src.Number, trg, int(t.Kind), arg1, arg2, arg3)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
