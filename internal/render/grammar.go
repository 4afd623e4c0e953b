package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"atnrt/internal/atn"
	"atnrt/internal/grammar"
	"atnrt/internal/pcontext"
)

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func header(w io.Writer, title string, opts Options) string {
	if !opts.Color {
		return "== " + title + " =="
	}
	style := lipgloss.NewRenderer(w).NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("6")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true)
	return style.Render(title)
}

// Grammar summarizes a loaded grammar: sizes, rules, modes and the LL(1)
// lookahead of every decision.
func Grammar(w io.Writer, r *grammar.Recognizer, opts Options) error {
	a := r.ATN()
	vocab := r.Vocabulary()
	p := &printer{w: w}
	warn := opts.paint(color.FgYellow)

	p.printf("%s\n", header(w, fmt.Sprintf("%s (%s)", r.GrammarName(), a.GrammarType), opts))
	p.printf("states %d  decisions %d  rules %d  max token type %d\n",
		len(a.States), len(a.DecisionToState), a.NumRules(), a.MaxTokenType)

	p.printf("rules:\n")
	callers := r.Simulator().RuleCallers()
	for i, name := range r.RuleNames() {
		start, stop := a.RuleToStartState[i], a.RuleToStopState[i]
		p.printf("  %3d %-16s start %d  stop %d", i, name, start.Number, stop.Number)
		if callers[i] != nil {
			p.printf("  returns %s", callers[i])
		}
		if start.IsLeftRecursive {
			p.printf("  left-recursive")
		}
		if a.GrammarType == atn.GrammarLexer && i < len(a.RuleToTokenType) {
			p.printf("  -> %s", vocab.DisplayName(a.RuleToTokenType[i]))
		}
		p.printf("\n")
	}

	if a.GrammarType == atn.GrammarLexer {
		p.printf("modes:\n")
		for i, s := range a.ModeToStartState {
			name := fmt.Sprintf("mode#%d", i)
			if i < len(r.ModeNames()) {
				name = r.ModeNames()[i]
			}
			p.printf("  %3d %-16s start %d\n", i, name, s.Number)
		}
		if len(a.LexerActions) > 0 {
			actions := make([]string, len(a.LexerActions))
			for i, act := range a.LexerActions {
				actions[i] = act.String()
			}
			p.printf("actions: %s\n", strings.Join(actions, ", "))
		}
	}

	if len(a.DecisionToState) > 0 {
		p.printf("decisions:\n")
	}
	dfas := r.Simulator().DecisionToDFA()
	for d, s := range a.DecisionToState {
		sets, err := r.Simulator().Lookahead(d)
		if err != nil {
			return err
		}
		p.printf("  d%-3d %-22s", d, s.String())
		if d < len(dfas) && dfas[d].IsPrecedence() {
			p.printf(" precedence")
		}
		for alt, set := range sets {
			if set == nil {
				p.printf("  %s", warn.Sprintf("alt%d ?", alt+1))
				continue
			}
			p.printf("  alt%d %s", alt+1, vocab.FormatSet(set))
		}
		p.printf("\n")
	}
	return p.err
}

// Follow prints the tokens that may follow ATN state n within its rule
// and, given the invoking states of the enclosing rules, the tokens the
// whole parse expects there.
func Follow(w io.Writer, r *grammar.Recognizer, n int, invoking []int) error {
	a := r.ATN()
	s := a.State(n)
	if s == nil {
		return fmt.Errorf("no ATN state %d (have %d)", n, len(a.States))
	}
	expected, err := a.ExpectedTokens(n, invoking)
	if err != nil {
		return err
	}
	p := &printer{w: w}
	p.printf("state %s in rule %s\n", s, r.RuleName(s.RuleIndex))
	p.printf("  next     %s\n", r.Vocabulary().FormatSet(a.NextTokens(s)))
	p.printf("  expected %s\n", r.Vocabulary().FormatSet(expected))
	return p.err
}

// CacheStats prints the traffic counters of a prediction-context cache.
func CacheStats(w io.Writer, c *pcontext.Cache, users int) error {
	if c == nil {
		_, err := fmt.Fprintln(w, "context cache: disabled")
		return err
	}
	st := c.Stats()
	_, err := fmt.Fprintf(w, "context cache: %d contexts, %d lookups, %d hits, %d inserts, shared by %d\n",
		c.Len(), st.Lookups, st.Hits, st.Inserts, users)
	return err
}
