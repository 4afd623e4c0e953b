package grammar

import (
	"context"
	"slices"
	"testing"

	"atnrt/internal/interval"
	"atnrt/internal/sim"
	"atnrt/internal/token"
)

// s : A b ; b : B | C ;
var exprATN = []int32{
	4, 1, 3,
	10,
	2, 0, 7, 0, 2, 1, 7, 1, 1, 0, 1, 0, 3, 1, 7, 8, 1, 1, 1, 1, 1,
	0, 0,
	2, 0, 2,
	0,
	0,
	9,
	0, 4, 5, 1, 0, 0,
	2, 6, 1, 0, 0, 0,
	4, 5, 3, 2, 1, 0,
	5, 1, 1, 0, 0, 0,
	6, 8, 1, 0, 0, 0,
	6, 9, 1, 0, 0, 0,
	7, 3, 1, 0, 0, 0,
	8, 7, 5, 2, 0, 0,
	9, 7, 5, 3, 0, 0,
	1, 6,
}

func exprVocabulary() *Vocabulary {
	return NewVocabulary(
		[]string{"", "'a'", "", ""},
		[]string{"", "A", "B", "C"},
		nil,
	)
}

func TestVocabularyNames(t *testing.T) {
	v := exprVocabulary()
	tests := []struct {
		ttype    int
		literal  string
		symbolic string
		display  string
	}{
		{token.EOF, "", "EOF", "EOF"},
		{1, "'a'", "A", "'a'"},
		{2, "", "B", "B"},
		{9, "", "", "9"},
	}
	for _, tt := range tests {
		if got := v.LiteralName(tt.ttype); got != tt.literal {
			t.Errorf("LiteralName(%d) = %q", tt.ttype, got)
		}
		if got := v.SymbolicName(tt.ttype); got != tt.symbolic {
			t.Errorf("SymbolicName(%d) = %q", tt.ttype, got)
		}
		if got := v.DisplayName(tt.ttype); got != tt.display {
			t.Errorf("DisplayName(%d) = %q", tt.ttype, got)
		}
	}
	if v.MaxTokenType() != 3 {
		t.Fatalf("MaxTokenType = %d", v.MaxTokenType())
	}
	if got := v.FormatSet(interval.NewSet(token.EOF, 2, 3)); got != "{EOF, B, C}" {
		t.Fatalf("FormatSet = %q", got)
	}
}

func TestFromTokenNames(t *testing.T) {
	v := FromTokenNames([]string{"<INVALID>", "'+'", "ID"})
	if v.LiteralName(1) != "'+'" || v.SymbolicName(2) != "ID" || v.SymbolicName(0) != "" {
		t.Fatalf("legacy names split wrongly")
	}
	if v.DisplayName(0) != "<INVALID>" {
		t.Fatalf("display name must come from the legacy table")
	}
}

func TestRecognizer(t *testing.T) {
	s, err := sim.Load(context.Background(), exprATN)
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewRecognizer("Expr", exprVocabulary(), Names{Rules: []string{"s", "b"}}, s)
	if err != nil {
		t.Fatal(err)
	}
	if i, ok := r.RuleIndex("b"); !ok || i != 1 {
		t.Fatalf("RuleIndex(b) = %d, %v", i, ok)
	}
	if typ, ok := r.TokenType("'a'"); !ok || typ != 1 {
		t.Fatalf("TokenType('a') = %d, %v", typ, ok)
	}
	if typ, _ := r.TokenType("EOF"); typ != token.EOF {
		t.Fatalf("EOF must be known")
	}
	if got := r.TokenNames(); !slices.Equal(got, []string{"0", "'a'", "B", "C"}) {
		t.Fatalf("TokenNames = %v", got)
	}
	if r.RuleName(7) != "rule#7" || r.Simulator() != s {
		t.Fatalf("accessors are wrong")
	}

	if _, err := NewRecognizer("Expr", nil, Names{Rules: []string{"s"}}, s); err == nil {
		t.Fatalf("rule name count must be checked")
	}
}
