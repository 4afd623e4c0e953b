// Package grammar carries the names a generated recognizer attaches to its
// ATN: token vocabulary, rule names, mode and channel names.
package grammar

import (
	"strconv"

	"atnrt/internal/interval"
	"atnrt/internal/token"
)

// Vocabulary maps token types to their literal, symbolic and display
// names. Missing entries are empty strings.
type Vocabulary struct {
	literal  []string
	symbolic []string
	display  []string
	maxType  int
}

// NewVocabulary creates a vocabulary. Any of the slices may be nil.
func NewVocabulary(literal, symbolic, display []string) *Vocabulary {
	return &Vocabulary{
		literal:  literal,
		symbolic: symbolic,
		display:  display,
		maxType:  max(len(literal), len(symbolic), len(display)) - 1,
	}
}

// FromTokenNames builds a vocabulary from a legacy token name table:
// quoted names become literal names, identifiers become symbolic names.
func FromTokenNames(names []string) *Vocabulary {
	literal := make([]string, len(names))
	symbolic := make([]string, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		switch name[0] {
		case '\'':
			literal[i] = name
		default:
			if isUpper(name[0]) {
				symbolic[i] = name
			}
		}
	}
	return NewVocabulary(literal, symbolic, names)
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

// MaxTokenType is the largest token type with a name.
func (v *Vocabulary) MaxTokenType() int { return v.maxType }

// LiteralName returns the literal spelling of t, like "'+'".
func (v *Vocabulary) LiteralName(t int) string {
	return lookup(v.literal, t)
}

// SymbolicName returns the rule-style name of t; EOF is "EOF".
func (v *Vocabulary) SymbolicName(t int) string {
	if t == token.EOF {
		return "EOF"
	}
	return lookup(v.symbolic, t)
}

// DisplayName picks the display name, then the literal name, then the
// symbolic name, and finally the number.
func (v *Vocabulary) DisplayName(t int) string {
	if name := lookup(v.display, t); name != "" {
		return name
	}
	if name := v.LiteralName(t); name != "" {
		return name
	}
	if name := v.SymbolicName(t); name != "" {
		return name
	}
	return strconv.Itoa(t)
}

// FormatSet renders a token-type set with display names.
func (v *Vocabulary) FormatSet(s *interval.Set) string {
	return s.Format(func(t int) string {
		if t == token.Epsilon {
			return "<EPSILON>"
		}
		return v.DisplayName(t)
	})
}

func lookup(names []string, t int) string {
	if t < 0 || t >= len(names) {
		return ""
	}
	return names[t]
}
