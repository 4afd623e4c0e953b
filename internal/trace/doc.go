// Package trace records what atnrt spends its time on.
//
// Events are spans (begin/end pairs) and points, tagged with a scope that
// orders them from coarse to fine:
//
//   - ScopeTool: one CLI command
//   - ScopeStage: load, deserialize, tokenize, analyze
//   - ScopeGrammar: work on one grammar bundle
//   - ScopeDecision: work on one ATN decision
//
// The level picks how deep events are kept: LevelPhase keeps tool and
// stage events, LevelDetail adds grammars, LevelDebug keeps everything.
//
// A tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopeStage, "deserialize")
//	defer span.End("")
//
// Stream tracers write text or NDJSON as events happen; ring tracers keep
// the last events in memory so they can be dumped after a failure.
package trace
