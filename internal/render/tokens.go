// Package render prints tokens and grammars for the CLI.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"atnrt/internal/grammar"
	"atnrt/internal/token"
)

// Options control terminal output.
type Options struct {
	Color      bool
	ShowHidden bool // include off-channel tokens
	MaxText    int  // display width for token text; 0 means 32
}

func (o Options) maxText() int {
	if o.MaxText <= 0 {
		return 32
	}
	return o.MaxText
}

func (o Options) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if o.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Tokens writes one line per token: index, type name, quoted text,
// line:column and, for off-channel tokens, the channel. Off-channel tokens
// are dimmed.
func Tokens(w io.Writer, toks []*token.Token, vocab *grammar.Vocabulary, opts Options) error {
	shown := make([]*token.Token, 0, len(toks))
	for _, t := range toks {
		if opts.ShowHidden || t.OnDefaultChannel() {
			shown = append(shown, t)
		}
	}

	typeWidth := 0
	for _, t := range shown {
		typeWidth = max(typeWidth, runewidth.StringWidth(vocab.DisplayName(t.Type)))
	}
	textWidth := opts.maxText()
	hidden := opts.paint(color.Faint)
	eof := opts.paint(color.FgCyan)

	for _, t := range shown {
		text := fit(strconv.Quote(token.EscapeWhitespace(t.Text)), textWidth)
		line := fmt.Sprintf("%4d  %s  %s  %d:%d",
			t.Index(),
			runewidth.FillRight(vocab.DisplayName(t.Type), typeWidth),
			runewidth.FillRight(text, textWidth),
			t.Line, t.Column)
		switch {
		case !t.OnDefaultChannel():
			line = hidden.Sprint(line + "  " + t.Channel.String())
		case t.IsEOF():
			line = eof.Sprint(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func fit(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

// TokenOutput is the JSON form of a token.
type TokenOutput struct {
	Index   int    `json:"index"`
	Type    int    `json:"type"`
	Name    string `json:"name"`
	Text    string `json:"text"`
	Channel int    `json:"channel"`
	Start   int    `json:"start"`
	Stop    int    `json:"stop"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// TokensJSON writes toks as an indented JSON array. Off-channel tokens are
// included only with opts.ShowHidden.
func TokensJSON(w io.Writer, toks []*token.Token, vocab *grammar.Vocabulary, opts Options) error {
	out := make([]TokenOutput, 0, len(toks))
	for _, t := range toks {
		if !opts.ShowHidden && !t.OnDefaultChannel() {
			continue
		}
		out = append(out, TokenOutput{
			Index:   t.Index(),
			Type:    t.Type,
			Name:    vocab.SymbolicName(t.Type),
			Text:    t.Text,
			Channel: int(t.Channel),
			Start:   t.Start,
			Stop:    t.Stop,
			Line:    t.Line,
			Column:  t.Column,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
