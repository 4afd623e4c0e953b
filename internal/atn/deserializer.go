package atn

import (
	"errors"
	"fmt"

	"atnrt/internal/interval"
	"atnrt/internal/token"
)

// SerializedVersion is the only serialization version understood.
const SerializedVersion = 4

// Options control deserialization.
type Options struct {
	// Verify runs Verify on the result before returning it.
	Verify bool
}

// DefaultOptions returns the options used by the simulator.
func DefaultOptions() Options {
	return Options{Verify: true}
}

// Deserializer turns serialized integer data into an ATN. It holds no
// per-call state and may be used concurrently.
type Deserializer struct {
	opts Options
}

// NewDeserializer creates a deserializer.
func NewDeserializer(opts Options) *Deserializer {
	return &Deserializer{opts: opts}
}

// Deserialize decodes data. On any error no ATN is returned; the error is a
// *FormatError.
func (d *Deserializer) Deserialize(data []int32) (*ATN, error) {
	r := &reader{data: data}

	version := r.next()
	if r.err != nil {
		return nil, r.err
	}
	if version != SerializedVersion {
		return nil, r.failf("unsupported serialization version %d, want %d", version, SerializedVersion)
	}
	grammarType := r.next()
	maxTokenType := r.next()
	if r.err != nil {
		return nil, r.err
	}
	if grammarType != int(GrammarLexer) && grammarType != int(GrammarParser) {
		return nil, r.failf("unknown grammar type %d", grammarType)
	}

	a := New(GrammarType(grammarType), maxTokenType)
	steps := []func(*reader, *ATN) error{
		readStates,
		readRules,
		readModes,
		readEdges,
		readDecisions,
		readLexerActions,
	}
	for _, step := range steps {
		if err := step(r, a); err != nil {
			return nil, err
		}
	}
	if r.pos != len(data) {
		return nil, &FormatError{Offset: r.pos, Msg: fmt.Sprintf("%d trailing values", len(data)-r.pos)}
	}

	markPrecedenceDecisions(a)
	if d.opts.Verify {
		if err := Verify(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// reader walks the serialized data. The first read past the end records an
// error and later reads return zero.
type reader struct {
	data []int32
	pos  int
	err  error
}

func (r *reader) next() int {
	if r.err != nil {
		return 0
	}
	if r.pos >= len(r.data) {
		r.err = &FormatError{Offset: r.pos, Msg: "unexpected end of data"}
		return 0
	}
	v := int(r.data[r.pos])
	r.pos++
	return v
}

// failf reports a problem with the value read last.
func (r *reader) failf(format string, args ...any) error {
	return &FormatError{Offset: r.pos - 1, Msg: fmt.Sprintf(format, args...)}
}

// locate pins an offset-less format error to the value read last.
func (r *reader) locate(err error) error {
	var fe *FormatError
	if errors.As(err, &fe) && fe.Offset < 0 {
		fe.Offset = r.pos - 1
	}
	return err
}

func (r *reader) state(a *ATN, n int, what string) (*State, error) {
	if s := a.State(n); s != nil {
		return s, nil
	}
	return nil, r.failf("%s: invalid state number %d", what, n)
}

// readState reads a state number and resolves it.
func (r *reader) readState(a *ATN, what string) (*State, error) {
	n := r.next()
	if r.err != nil {
		return nil, r.err
	}
	return r.state(a, n, what)
}

type stateRef struct {
	state *State
	ref   int
}

func readStates(r *reader, a *ATN) error {
	n := r.next()
	var loopBacks, ends []stateRef
	for i := 0; i < n && r.err == nil; i++ {
		kind := r.next()
		if r.err != nil {
			break
		}
		if kind == int(StateInvalid) {
			a.AddState(nil)
			continue
		}
		ruleIndex := r.next()
		s, err := StateFactory(kind, ruleIndex)
		if err != nil {
			return r.locate(err)
		}
		switch {
		case s.Kind == StateLoopEnd:
			loopBacks = append(loopBacks, stateRef{s, r.next()})
		case s.Kind.IsBlockStart():
			ends = append(ends, stateRef{s, r.next()})
		}
		a.AddState(s)
	}
	if r.err != nil {
		return r.err
	}

	for _, p := range loopBacks {
		target, err := r.state(a, p.ref, fmt.Sprintf("loop end %d", p.state.Number))
		if err != nil {
			return err
		}
		p.state.LoopBack = target
	}
	for _, p := range ends {
		target, err := r.state(a, p.ref, fmt.Sprintf("block start %d", p.state.Number))
		if err != nil {
			return err
		}
		if target.Kind != StateBlockEnd {
			return checkf(false, "block start %d: end state %d is %s", p.state.Number, target.Number, target.Kind)
		}
		p.state.EndState = target
	}

	nonGreedy := r.next()
	for i := 0; i < nonGreedy && r.err == nil; i++ {
		s, err := r.readState(a, "non-greedy list")
		if err != nil {
			return err
		}
		if !s.Kind.IsDecision() {
			return r.failf("non-greedy state %d is not a decision", s.Number)
		}
		s.NonGreedy = true
	}

	precedence := r.next()
	for i := 0; i < precedence && r.err == nil; i++ {
		s, err := r.readState(a, "precedence list")
		if err != nil {
			return err
		}
		if s.Kind != StateRuleStart {
			return r.failf("precedence state %d is not a rule start", s.Number)
		}
		s.IsLeftRecursive = true
	}
	return r.err
}

func readRules(r *reader, a *ATN) error {
	n := r.next()
	if r.err != nil {
		return r.err
	}
	if n < 0 || n > len(r.data) {
		return r.failf("invalid rule count %d", n)
	}
	a.RuleToStartState = make([]*State, n)
	if a.GrammarType == GrammarLexer {
		a.RuleToTokenType = make([]int, n)
	}
	for i := 0; i < n; i++ {
		s, err := r.readState(a, fmt.Sprintf("rule %d", i))
		if err != nil {
			return err
		}
		if s.Kind != StateRuleStart {
			return r.failf("rule %d: state %d is %s, not rule-start", i, s.Number, s.Kind)
		}
		a.RuleToStartState[i] = s
		if a.GrammarType == GrammarLexer {
			a.RuleToTokenType[i] = r.next()
		}
	}
	if r.err != nil {
		return r.err
	}

	a.RuleToStopState = make([]*State, n)
	for _, s := range a.States {
		if s == nil || s.Kind != StateRuleStop {
			continue
		}
		if s.RuleIndex < 0 || s.RuleIndex >= n {
			return checkf(false, "rule stop %d: invalid rule index %d", s.Number, s.RuleIndex)
		}
		a.RuleToStopState[s.RuleIndex] = s
		a.RuleToStartState[s.RuleIndex].StopState = s
	}
	return nil
}

func readModes(r *reader, a *ATN) error {
	n := r.next()
	for i := 0; i < n && r.err == nil; i++ {
		s, err := r.readState(a, fmt.Sprintf("mode %d", i))
		if err != nil {
			return err
		}
		if s.Kind != StateTokenStart {
			return r.failf("mode %d: state %d is %s, not token-start", i, s.Number, s.Kind)
		}
		a.ModeToStartState = append(a.ModeToStartState, s)
	}
	return r.err
}

func readSets(r *reader) ([]*interval.Set, error) {
	n := r.next()
	sets := make([]*interval.Set, 0, max(min(n, len(r.data)), 0))
	for i := 0; i < n && r.err == nil; i++ {
		count := r.next()
		containsEOF := r.next()
		set := interval.NewSet()
		if containsEOF != 0 {
			set.AddOne(token.EOF)
		}
		for j := 0; j < count && r.err == nil; j++ {
			lo, hi := r.next(), r.next()
			if r.err == nil && lo > hi {
				return nil, r.failf("set %d: empty range %d..%d", i, lo, hi)
			}
			set.AddRange(lo, hi)
		}
		sets = append(sets, set.Freeze())
	}
	return sets, r.err
}

func readEdges(r *reader, a *ATN) error {
	sets, err := readSets(r)
	if err != nil {
		return err
	}

	n := r.next()
	for i := 0; i < n && r.err == nil; i++ {
		src, trg, kind := r.next(), r.next(), r.next()
		arg1, arg2, arg3 := r.next(), r.next(), r.next()
		if r.err != nil {
			break
		}
		from, err := r.state(a, src, "edge source")
		if err != nil {
			return err
		}
		t, err := EdgeFactory(a, kind, src, trg, arg1, arg2, arg3, sets)
		if err != nil {
			return r.locate(err)
		}
		from.AddTransition(t)
	}
	if r.err != nil {
		return r.err
	}

	// rule stop states return to every follow state of their invocations
	for _, s := range a.States {
		if s == nil {
			continue
		}
		for _, t := range s.Transitions {
			if t.Kind != TransitionRule {
				continue
			}
			ri := t.Target.RuleIndex
			if ri < 0 || ri >= len(a.RuleToStopState) || a.RuleToStopState[ri] == nil {
				return checkf(false, "rule edge from %d: rule %d has no stop state", s.Number, ri)
			}
			outermost := -1
			if a.RuleToStartState[ri].IsLeftRecursive && t.Precedence == 0 {
				outermost = ri
			}
			a.RuleToStopState[ri].AddTransition(NewEpsilon(t.FollowState, outermost))
		}
	}

	for _, s := range a.States {
		if s == nil {
			continue
		}
		if s.Kind.IsBlockStart() {
			if s.EndState == nil {
				return checkf(false, "block start %d has no end state", s.Number)
			}
			if s.EndState.StartState != nil {
				return checkf(false, "block end %d is shared by blocks %d and %d",
					s.EndState.Number, s.EndState.StartState.Number, s.Number)
			}
			s.EndState.StartState = s
		}
		switch s.Kind {
		case StatePlusLoopBack:
			for _, t := range s.Transitions {
				if t.Target.Kind == StatePlusBlockStart {
					t.Target.LoopBack = s
				}
			}
		case StateStarLoopBack:
			for _, t := range s.Transitions {
				if t.Target.Kind == StateStarLoopEntry {
					t.Target.LoopBack = s
				}
			}
		}
	}
	return nil
}

func readDecisions(r *reader, a *ATN) error {
	n := r.next()
	for i := 0; i < n && r.err == nil; i++ {
		s, err := r.readState(a, fmt.Sprintf("decision %d", i))
		if err != nil {
			return err
		}
		if !s.Kind.IsDecision() {
			return r.failf("decision %d: state %d is %s", i, s.Number, s.Kind)
		}
		a.DefineDecision(s)
	}
	return r.err
}

func readLexerActions(r *reader, a *ATN) error {
	if a.GrammarType != GrammarLexer {
		return nil
	}
	n := r.next()
	for i := 0; i < n && r.err == nil; i++ {
		kind, data1, data2 := r.next(), r.next(), r.next()
		if r.err != nil {
			break
		}
		action, err := LexerActionFactory(kind, data1, data2)
		if err != nil {
			return r.locate(err)
		}
		a.LexerActions = append(a.LexerActions, action)
	}
	return r.err
}

// markPrecedenceDecisions flags the star-loop entries of left-recursive
// rules whose loop exits straight to the rule stop state.
func markPrecedenceDecisions(a *ATN) {
	for _, s := range a.States {
		if s == nil || s.Kind != StateStarLoopEntry || len(s.Transitions) == 0 {
			continue
		}
		if s.RuleIndex < 0 || s.RuleIndex >= len(a.RuleToStartState) || !a.RuleToStartState[s.RuleIndex].IsLeftRecursive {
			continue
		}
		end := s.Transitions[len(s.Transitions)-1].Target
		if end.Kind != StateLoopEnd || !end.EpsilonOnly || len(end.Transitions) == 0 {
			continue
		}
		if end.Transitions[0].Target.Kind == StateRuleStop {
			s.PrecedenceDecision = true
		}
	}
}
