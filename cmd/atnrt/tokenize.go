package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"atnrt/internal/lexsrc"
	"atnrt/internal/render"
	"atnrt/internal/stream"
	"atnrt/internal/token"
	"atnrt/internal/trace"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file",
	Short: "Buffer the tokens of a source file and print them",
	Long: `Tokenize scans Go-like source text into a channel-filtering token stream
and prints the buffered tokens. Use - to read standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("hidden", false, "include off-channel tokens")
	tokenizeCmd.Flags().Int("channel", -1, "channel the stream follows (default from config)")
	tokenizeCmd.Flags().Bool("normalize", false, "NFC-normalize the input")
	tokenizeCmd.Flags().Bool("stats", false, "print token counts to stderr")
}

type stderrReporter struct {
	out io.Writer
	c   *color.Color
}

func (r stderrReporter) Report(pos lexsrc.Position, msg string) {
	fmt.Fprintf(r.out, "%s: %s\n", pos, r.c.Sprint(msg))
}

func runTokenize(cmd *cobra.Command, args []string) error {
	s := sessionFrom(cmd.Context())
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return flagError("format", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	hidden, err := cmd.Flags().GetBool("hidden")
	if err != nil {
		return flagError("hidden", err)
	}
	channel, err := cmd.Flags().GetInt("channel")
	if err != nil {
		return flagError("channel", err)
	}
	if channel < 0 {
		channel = s.cfg.Stream.Channel
	}
	normalize, err := cmd.Flags().GetBool("normalize")
	if err != nil {
		return flagError("normalize", err)
	}
	showStats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return flagError("stats", err)
	}

	errColor := color.New(color.FgRed)
	if !s.stderr {
		errColor.DisableColor()
	}
	opts := lexsrc.Options{
		Normalize:      normalize || s.cfg.Lex.Normalize,
		CommentChannel: token.Channel(s.cfg.Lex.CommentChannel),
		Reporter:       stderrReporter{out: cmd.ErrOrStderr(), c: errColor},
	}

	span, _ := trace.Start(cmd.Context(), trace.ScopeStage, "tokenize")
	defer span.End("")

	var src *lexsrc.Scanner
	err = s.timer.Measure("read", func() error {
		var err error
		src, err = openSource(args[0], opts)
		return err
	})
	if err != nil {
		return err
	}

	ts := stream.NewCommonStream(src, token.Channel(channel))
	fill := s.timer.Begin("fill")
	ts.Fill()
	s.timer.End(fill, strconv.Itoa(ts.Size())+" tokens")
	span.WithExtra("tokens", strconv.Itoa(ts.Size()))

	ropts := render.Options{Color: s.stdout, ShowHidden: hidden}
	switch format {
	case "json":
		err = render.TokensJSON(cmd.OutOrStdout(), ts.Tokens(), lexsrc.Vocabulary(), ropts)
	default:
		err = render.Tokens(cmd.OutOrStdout(), ts.Tokens(), lexsrc.Vocabulary(), ropts)
	}
	if err != nil {
		return err
	}

	if showStats {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d tokens, %d on channel %d\n", ts.Size(), ts.OnChannelCount(), channel)
	}
	if n := src.ErrorCount(); n > 0 {
		return fmt.Errorf("%s: %d scan errors", src.SourceName(), n)
	}
	return nil
}

func openSource(path string, opts lexsrc.Options) (*lexsrc.Scanner, error) {
	if path == "-" {
		return lexsrc.New("<stdin>", os.Stdin, opts)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return lexsrc.New(path, f, opts)
}
