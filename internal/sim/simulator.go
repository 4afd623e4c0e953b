// Package sim is the base every ATN simulator builds on. A Simulator owns
// or shares a prediction-context cache, keeps one DFA per decision, and
// exposes the deserialization and construction seams for ATN topology.
package sim

import (
	"context"
	"fmt"
	"strconv"

	"atnrt/internal/atn"
	"atnrt/internal/dfa"
	"atnrt/internal/interval"
	"atnrt/internal/pcontext"
	"atnrt/internal/trace"
)

// Option configures a Simulator.
type Option func(*Simulator)

// WithSharedCache makes the simulator use c instead of a private cache.
// Simulators built from one grammar (a lexer and its parser) may share a
// cache.
func WithSharedCache(c *pcontext.Cache) Option {
	return func(s *Simulator) {
		s.cache = c
		s.noCache = c == nil
	}
}

// WithoutCache disables canonicalization; CachedContext returns its input.
func WithoutCache() Option {
	return func(s *Simulator) {
		s.cache = nil
		s.noCache = true
	}
}

// WithTracer sets the tracer used by Load; otherwise the context's tracer
// is used.
func WithTracer(t trace.Tracer) Option {
	return func(s *Simulator) { s.tracer = t }
}

// Simulator is the shared state of an ATN simulation.
type Simulator struct {
	atn     *atn.ATN
	cache   *pcontext.Cache
	noCache bool
	tracer  trace.Tracer
	dfas    []*dfa.DFA
}

// New creates a simulator over a. Without options it allocates a private
// context cache.
func New(a *atn.ATN, opts ...Option) *Simulator {
	s := &Simulator{atn: a}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil && !s.noCache {
		s.cache = pcontext.NewCache()
	}
	s.ClearDFA()
	return s
}

// Load deserializes data and builds a simulator over the result.
func Load(ctx context.Context, data []int32, opts ...Option) (*Simulator, error) {
	probe := &Simulator{}
	for _, opt := range opts {
		opt(probe)
	}
	if probe.tracer != nil {
		ctx = trace.WithTracer(ctx, probe.tracer)
	}

	span, _ := trace.Start(ctx, trace.ScopeStage, "deserialize")
	span.WithExtra("values", strconv.Itoa(len(data)))
	a, err := Deserialize(data)
	if err != nil {
		span.End("error")
		return nil, err
	}
	span.WithExtra("states", strconv.Itoa(len(a.States)))
	span.WithExtra("decisions", strconv.Itoa(len(a.DecisionToState)))
	span.End("ok")
	return New(a, opts...), nil
}

// ATN returns the simulated network.
func (s *Simulator) ATN() *atn.ATN { return s.atn }

// SharedContextCache returns the cache in use, or nil when caching is
// disabled.
func (s *Simulator) SharedContextCache() *pcontext.Cache { return s.cache }

// CachedContext returns the canonical instance of ctx. Without a cache ctx
// is returned unchanged.
func (s *Simulator) CachedContext(ctx *pcontext.Context) *pcontext.Context {
	if s.cache == nil {
		return ctx
	}
	return s.cache.Canonicalize(ctx)
}

// MergeContexts merges a and b, canonicalizing the result when a cache is
// configured.
func (s *Simulator) MergeContexts(a, b *pcontext.Context, rootIsWildcard bool) *pcontext.Context {
	if s.cache == nil {
		return pcontext.Merge(a, b, rootIsWildcard)
	}
	return s.cache.Merge(a, b, rootIsWildcard)
}

// DecisionToDFA returns one DFA per ATN decision, indexed by decision.
func (s *Simulator) DecisionToDFA() []*dfa.DFA { return s.dfas }

// ClearDFA drops every cached DFA state.
func (s *Simulator) ClearDFA() {
	if s.atn == nil {
		s.dfas = nil
		return
	}
	s.dfas = make([]*dfa.DFA, len(s.atn.DecisionToState))
	for i, st := range s.atn.DecisionToState {
		s.dfas[i] = dfa.New(st, i)
	}
}

// Lookahead returns the LL(1) set of each alternative of a decision.
func (s *Simulator) Lookahead(decision int) ([]*interval.Set, error) {
	if decision < 0 || decision >= len(s.atn.DecisionToState) {
		return nil, fmt.Errorf("sim: no decision %d (have %d)", decision, len(s.atn.DecisionToState))
	}
	return atn.NewLL1Analyzer(s.atn).DecisionLookahead(s.atn.DecisionToState[decision]), nil
}

// RuleCallers returns, per rule, the context of return states that
// invocations of the rule may resume at, merged over every call site and
// canonicalized through the simulator's cache. Rules that are never invoked
// get nil.
func (s *Simulator) RuleCallers() []*pcontext.Context {
	callers := make([]*pcontext.Context, s.atn.NumRules())
	for _, st := range s.atn.States {
		if st == nil {
			continue
		}
		for _, t := range st.Transitions {
			if t.Kind != atn.TransitionRule || t.RuleIndex < 0 || t.RuleIndex >= len(callers) {
				continue
			}
			c := s.CachedContext(pcontext.NewSingleton(pcontext.Empty, t.FollowState.Number))
			if prev := callers[t.RuleIndex]; prev != nil {
				c = s.MergeContexts(prev, c, true)
			}
			callers[t.RuleIndex] = c
		}
	}
	return callers
}

// ErrorState returns the shared DFA error sentinel.
func ErrorState() *dfa.State { return dfa.ErrorState() }

// Deserialize decodes serialized ATN data with verification enabled.
func Deserialize(data []int32) (*atn.ATN, error) {
	return atn.NewDeserializer(atn.DefaultOptions()).Deserialize(data)
}

// CheckCondition returns a format error carrying msg when cond is false.
func CheckCondition(cond bool, msg string) error {
	return atn.CheckCondition(cond, msg)
}

// EdgeFactory builds a transition from its serialized tag and operands.
func EdgeFactory(a *atn.ATN, kind, src, trg, arg1, arg2, arg3 int, sets []*interval.Set) (*atn.Transition, error) {
	return atn.EdgeFactory(a, kind, src, trg, arg1, arg2, arg3, sets)
}

// StateFactory builds a state from its serialized tag.
func StateFactory(kind, ruleIndex int) (*atn.State, error) {
	return atn.StateFactory(kind, ruleIndex)
}
