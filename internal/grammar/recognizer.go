package grammar

import (
	"fmt"

	"atnrt/internal/atn"
	"atnrt/internal/sim"
)

// Recognizer binds a grammar's names to the simulator running its ATN.
type Recognizer struct {
	name         string
	vocab        *Vocabulary
	ruleNames    []string
	modeNames    []string
	channelNames []string
	sim          *sim.Simulator

	ruleIndex map[string]int
	tokenType map[string]int
}

// Names groups the name tables of a recognizer.
type Names struct {
	Rules    []string
	Modes    []string
	Channels []string
}

// NewRecognizer checks that names match the ATN behind s and builds the
// recognizer.
func NewRecognizer(grammarName string, vocab *Vocabulary, names Names, s *sim.Simulator) (*Recognizer, error) {
	a := s.ATN()
	if len(names.Rules) != a.NumRules() {
		return nil, fmt.Errorf("grammar %s: %d rule names for %d rules", grammarName, len(names.Rules), a.NumRules())
	}
	if a.GrammarType == atn.GrammarLexer && len(names.Modes) != len(a.ModeToStartState) {
		return nil, fmt.Errorf("grammar %s: %d mode names for %d modes", grammarName, len(names.Modes), len(a.ModeToStartState))
	}
	if vocab == nil {
		vocab = NewVocabulary(nil, nil, nil)
	}

	r := &Recognizer{
		name:         grammarName,
		vocab:        vocab,
		ruleNames:    names.Rules,
		modeNames:    names.Modes,
		channelNames: names.Channels,
		sim:          s,
		ruleIndex:    make(map[string]int, len(names.Rules)),
		tokenType:    make(map[string]int),
	}
	for i, n := range names.Rules {
		r.ruleIndex[n] = i
	}
	for t := 0; t <= vocab.MaxTokenType(); t++ {
		if n := vocab.LiteralName(t); n != "" {
			r.tokenType[n] = t
		}
		if n := vocab.SymbolicName(t); n != "" {
			r.tokenType[n] = t
		}
	}
	r.tokenType["EOF"] = -1
	return r, nil
}

func (r *Recognizer) GrammarName() string              { return r.name }
func (r *Recognizer) Vocabulary() *Vocabulary          { return r.vocab }
func (r *Recognizer) RuleNames() []string              { return r.ruleNames }
func (r *Recognizer) ModeNames() []string              { return r.modeNames }
func (r *Recognizer) ChannelNames() []string           { return r.channelNames }
func (r *Recognizer) Simulator() *sim.Simulator        { return r.sim }
func (r *Recognizer) ATN() *atn.ATN                    { return r.sim.ATN() }
func (r *Recognizer) GrammarType() atn.GrammarType     { return r.sim.ATN().GrammarType }
func (r *Recognizer) DisplayName(tokenType int) string { return r.vocab.DisplayName(tokenType) }

// TokenNames lists display names for every token type up to the ATN's
// maximum.
func (r *Recognizer) TokenNames() []string {
	n := max(r.ATN().MaxTokenType, r.vocab.MaxTokenType()) + 1
	out := make([]string, n)
	for t := range out {
		out[t] = r.vocab.DisplayName(t)
	}
	return out
}

// RuleIndex returns the index of the named rule.
func (r *Recognizer) RuleIndex(name string) (int, bool) {
	i, ok := r.ruleIndex[name]
	return i, ok
}

// TokenType returns the type named by a literal or symbolic name.
func (r *Recognizer) TokenType(name string) (int, bool) {
	t, ok := r.tokenType[name]
	return t, ok
}

// RuleName returns the name of rule i, or its number when unnamed.
func (r *Recognizer) RuleName(i int) string {
	if i >= 0 && i < len(r.ruleNames) {
		return r.ruleNames[i]
	}
	return fmt.Sprintf("rule#%d", i)
}
