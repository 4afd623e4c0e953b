package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"atnrt/internal/atn"
	"atnrt/internal/bundle"
	"atnrt/internal/grammar"
	"atnrt/internal/sim"
	"atnrt/internal/trace"
)

var packCmd = &cobra.Command{
	Use:   "pack [flags] manifest.toml",
	Short: "Verify a serialized ATN and write a grammar bundle",
	Long: `Pack reads a TOML pack manifest and the ATN text it names, deserializes and
verifies the ATN, checks the name tables against it and writes a bundle.
The stored ATN is re-serialized so equal automata give equal bundles.`,
	Args: cobra.ExactArgs(1),
	RunE: runPack,
}

func init() {
	packCmd.Flags().StringP("output", "o", "", "bundle path (default from the manifest)")
	packCmd.Flags().Bool("check", false, "verify only, do not write the bundle")
}

func runPack(cmd *cobra.Command, args []string) error {
	s := sessionFrom(cmd.Context())
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return flagError("output", err)
	}
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return flagError("check", err)
	}

	m, err := bundle.ReadManifest(args[0])
	if err != nil {
		return err
	}
	var b *bundle.Bundle
	if err := s.timer.Measure("read", func() error {
		b, err = m.Build()
		return err
	}); err != nil {
		return err
	}

	span, ctx := trace.Start(cmd.Context(), trace.ScopeGrammar, "pack:"+b.Name)
	defer span.End("")
	var normalized bool
	if err := s.timer.Measure("verify", func() error {
		normalized, err = normalizeBundle(ctx, b)
		return err
	}); err != nil {
		return fmt.Errorf("%s: %w", m.Path, err)
	}

	if output == "" {
		output = m.OutputPath()
	}
	note := ""
	if normalized {
		note = " (re-serialized)"
	}
	if check {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d values%s\n", b.Name, len(b.ATN), note)
		return nil
	}
	if err := s.timer.Measure("write", func() error { return bundle.Write(output, b) }); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "packed %s -> %s, %d values%s\n", b.Name, output, len(b.ATN), note)
	return nil
}

// normalizeBundle verifies b's ATN and names and replaces the ATN with its
// canonical serialization. It reports whether the data changed.
func normalizeBundle(ctx context.Context, b *bundle.Bundle) (bool, error) {
	sm, err := sim.Load(ctx, b.ATN, sim.WithoutCache())
	if err != nil {
		return false, err
	}
	a := sm.ATN()
	if a.GrammarType != atn.GrammarType(b.GrammarType) {
		return false, fmt.Errorf("manifest says %v, ATN is %v", atn.GrammarType(b.GrammarType), a.GrammarType)
	}
	if _, err := grammar.NewRecognizer(b.Name, b.Vocabulary(), b.Names(), sm); err != nil {
		return false, err
	}
	canon, err := atn.Serialize(a)
	if err != nil {
		return false, err
	}
	changed := !slices.Equal(canon, b.ATN)
	b.ATN = canon
	return changed, nil
}
