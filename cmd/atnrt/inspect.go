package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"atnrt/internal/bundle"
	"atnrt/internal/grammar"
	"atnrt/internal/pcontext"
	"atnrt/internal/render"
	"atnrt/internal/sim"
	"atnrt/internal/trace"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] bundle...",
	Short: "Load grammar bundles and describe their automata",
	Long: `Inspect loads one or more grammar bundles concurrently, verifies their ATNs
and prints rules, modes and the LL(1) lookahead of every decision.
Bundles loaded together share one prediction-context cache unless
[cache].shared is false.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Int("state", -1, "also print the tokens that may follow this ATN state")
	inspectCmd.Flags().IntSlice("invoking", nil, "invoking states for --state, innermost first")
	inspectCmd.Flags().Bool("cache-stats", true, "print prediction-context cache counters")
}

func runInspect(cmd *cobra.Command, args []string) error {
	s := sessionFrom(cmd.Context())
	state, err := cmd.Flags().GetInt("state")
	if err != nil {
		return flagError("state", err)
	}
	invoking, err := cmd.Flags().GetIntSlice("invoking")
	if err != nil {
		return flagError("invoking", err)
	}
	cacheStats, err := cmd.Flags().GetBool("cache-stats")
	if err != nil {
		return flagError("cache-stats", err)
	}
	if state >= 0 && len(args) != 1 {
		return fmt.Errorf("--state needs exactly one bundle, got %d", len(args))
	}

	var shared *pcontext.Cache
	if s.cfg.Cache.Shared {
		shared = pcontext.NewCache()
	}

	span, ctx := trace.Start(cmd.Context(), trace.ScopeStage, "inspect")
	recs := make([]*grammar.Recognizer, len(args))
	g, gctx := errgroup.WithContext(ctx)
	for i, arg := range args {
		g.Go(func() error {
			path := s.cfg.BundlePath(arg)
			idx := s.timer.Begin("load " + filepath.Base(path))
			b, err := bundle.Read(path)
			if err != nil {
				s.timer.End(idx, "error")
				return err
			}
			var opts []sim.Option
			if shared != nil {
				opts = append(opts, sim.WithSharedCache(shared))
			}
			r, err := b.Load(gctx, opts...)
			if err != nil {
				s.timer.End(idx, "error")
				return fmt.Errorf("%s: %w", path, err)
			}
			s.timer.End(idx, fmt.Sprintf("%d states", len(r.ATN().States)))
			recs[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.End("error")
		return err
	}
	span.End("ok")

	out := cmd.OutOrStdout()
	opts := render.Options{Color: s.stdout}
	for i, r := range recs {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := render.Grammar(out, r, opts); err != nil {
			return err
		}
	}
	if state >= 0 {
		fmt.Fprintln(out)
		if err := render.Follow(out, recs[0], state, invoking); err != nil {
			return err
		}
	}

	if !cacheStats {
		return nil
	}
	fmt.Fprintln(out)
	if shared != nil {
		return render.CacheStats(out, shared, len(recs))
	}
	for _, r := range recs {
		fmt.Fprintf(out, "%s ", strings.ToLower(r.GrammarName()))
		if err := render.CacheStats(out, r.Simulator().SharedContextCache(), 1); err != nil {
			return err
		}
	}
	return nil
}
