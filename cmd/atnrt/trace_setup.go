package main

import (
	"fmt"

	"atnrt/internal/trace"
)

// setupTracing creates the tracer described by the session configuration
// and starts the heartbeat if one is configured.
func setupTracing(s *session) error {
	cfg := s.cfg.TraceConfig()
	if cfg.Level == trace.LevelOff && cfg.OutputPath == "" {
		s.tracer = trace.Nop
		return nil
	}

	tracer, err := trace.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	s.tracer = tracer
	if cfg.Heartbeat > 0 && tracer.Enabled() {
		s.heartbeat = trace.StartHeartbeat(tracer, cfg.Heartbeat)
	}
	return nil
}

// ringOf returns the ring buffer behind t, if any.
func ringOf(t trace.Tracer) *trace.RingTracer {
	switch t := t.(type) {
	case *trace.RingTracer:
		return t
	case *trace.MultiTracer:
		return t.Ring()
	}
	return nil
}
