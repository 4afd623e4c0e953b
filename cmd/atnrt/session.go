package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"atnrt/internal/config"
	"atnrt/internal/observ"
	"atnrt/internal/prof"
	"atnrt/internal/trace"
)

// session is the per-invocation state shared by all commands: the merged
// configuration, the tracer and the optional timer.
type session struct {
	cfg       *config.Config
	tracer    trace.Tracer
	heartbeat *trace.Heartbeat
	timer     *observ.Timer
	prof      *prof.Session
	stdout    bool // color on stdout
	stderr    bool // color on stderr
}

type sessionKey struct{}

var current *session

func sessionFrom(ctx context.Context) *session {
	if s, ok := ctx.Value(sessionKey{}).(*session); ok {
		return s
	}
	return &session{cfg: config.Default(), tracer: trace.Nop}
}

// setupSession loads atnrt.toml, applies flag overrides and starts tracing.
func setupSession(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return flagError("config", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s := &session{
		cfg:    cfg,
		stdout: useColor(cfg.Output.Color, os.Stdout),
		stderr: useColor(cfg.Output.Color, os.Stderr),
	}
	if cfg.Output.Timings {
		s.timer = observ.NewTimer()
	}
	if err := setupTracing(s); err != nil {
		return err
	}
	current = s
	if s.prof, err = setupProfiling(cmd); err != nil {
		return err
	}

	ctx := trace.WithTracer(cmd.Context(), s.tracer)
	ctx = context.WithValue(ctx, sessionKey{}, s)
	cmd.SetContext(ctx)
	trace.Point(ctx, trace.ScopeTool, "command:"+cmd.Name(), cfg.Path)
	return nil
}

// applyFlags copies explicitly set flags over the file configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Root().PersistentFlags()
	stringFlags := []struct {
		name string
		dst  *string
	}{
		{"color", &cfg.Output.Color},
		{"trace", &cfg.Trace.Output},
		{"trace-level", &cfg.Trace.Level},
		{"trace-mode", &cfg.Trace.Mode},
		{"trace-format", &cfg.Trace.Format},
	}
	for _, f := range stringFlags {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetString(f.name)
		if err != nil {
			return flagError(f.name, err)
		}
		*f.dst = v
	}
	if flags.Changed("timings") {
		v, err := flags.GetBool("timings")
		if err != nil {
			return flagError("timings", err)
		}
		cfg.Output.Timings = v
	}
	if flags.Changed("trace-ring-size") {
		v, err := flags.GetInt("trace-ring-size")
		if err != nil {
			return flagError("trace-ring-size", err)
		}
		cfg.Trace.RingSize = v
	}
	if flags.Changed("trace-heartbeat") {
		v, err := flags.GetDuration("trace-heartbeat")
		if err != nil {
			return flagError("trace-heartbeat", err)
		}
		cfg.Trace.Heartbeat = v
	}
	// an output file without a level means the user wants a trace
	if flags.Changed("trace") && !flags.Changed("trace-level") && cfg.Trace.Level == "off" {
		cfg.Trace.Level = "phase"
		if !flags.Changed("trace-mode") {
			cfg.Trace.Mode = "stream"
		}
	}
	return nil
}

func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"cpu-profile", &opts.CPU},
		{"mem-profile", &opts.Mem},
		{"runtime-trace", &opts.Trace},
	} {
		v, err := flags.GetString(f.name)
		if err != nil {
			return nil, flagError(f.name, err)
		}
		*f.dst = v
	}
	return prof.Start(opts)
}

// finishSession prints timings after a successful command.
func finishSession(cmd *cobra.Command, _ []string) error {
	s := sessionFrom(cmd.Context())
	if s.timer == nil {
		return nil
	}
	_, err := fmt.Fprint(cmd.ErrOrStderr(), s.timer.Summary())
	return err
}

// closeSession stops profiling and tracing. When the command failed, events
// held by a ring tracer are dumped to stderr.
func closeSession(cmdErr error) {
	s := current
	if s == nil {
		return
	}
	if err := s.prof.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", err)
	}
	if s.tracer == nil {
		return
	}
	s.heartbeat.Stop()
	if cmdErr != nil {
		if ring := ringOf(s.tracer); ring != nil {
			fmt.Fprintln(os.Stderr, "trace: last events before the failure:")
			if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
				fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
			}
		}
	}
	if err := s.tracer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "trace: flush error: %v\n", err)
	}
	if err := s.tracer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "trace: close error: %v\n", err)
	}
}
