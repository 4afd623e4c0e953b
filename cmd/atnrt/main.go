package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"atnrt/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "atnrt",
	Short: "ATN runtime tools",
	Long:  `atnrt loads serialized grammar automata, packs them into bundles and inspects token streams`,

	SilenceUsage:       true,
	PersistentPreRunE:  setupSession,
	PersistentPostRunE: finishSession,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to atnrt.toml (default: search upwards from the working directory)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("timings", false, "show timing information")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "ring", "trace storage (stream|ring|both)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	flags.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	closeSession(err)
	if err != nil {
		os.Exit(1)
	}
}

// useColor resolves the color setting for output written to f.
func useColor(setting string, f *os.File) bool {
	switch setting {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func flagError(name string, err error) error {
	return fmt.Errorf("failed to get %s flag: %w", name, err)
}
