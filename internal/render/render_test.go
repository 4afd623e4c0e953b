package render

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"atnrt/internal/grammar"
	"atnrt/internal/pcontext"
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

var exprVocab = grammar.NewVocabulary(nil, []string{"", "A", "B", "C"}, nil)

func exprRecognizer(t *testing.T, opts ...sim.Option) *grammar.Recognizer {
	t.Helper()
	s, err := sim.Load(context.Background(), exprATN, opts...)
	if err != nil {
		t.Fatal(err)
	}
	r, err := grammar.NewRecognizer("Expr", exprVocab, grammar.Names{Rules: []string{"s", "b"}}, s)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func sampleTokens() []*token.Token {
	a := token.New(1, "a")
	ws := token.New(2, "\t")
	ws.Channel = token.HiddenChannel
	b := token.New(3, "b")
	b.Line, b.Column = 1, 2
	eof := token.NewEOF()
	for i, tok := range []*token.Token{a, ws, b, eof} {
		tok.SetIndex(i)
	}
	return []*token.Token{a, ws, b, eof}
}

func TestTokensTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Tokens(&buf, sampleTokens(), exprVocab, Options{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("hidden tokens must be skipped:\n%s", buf.String())
	}
	if lines[1] != `   2  C    "b"                               1:2` {
		t.Fatalf("line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "   3  EOF  \"<EOF>\"") {
		t.Fatalf("EOF line = %q", lines[2])
	}

	buf.Reset()
	if err := Tokens(&buf, sampleTokens(), exprVocab, Options{ShowHidden: true, MaxText: 6}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"\\t"`) || !strings.Contains(buf.String(), "hidden") {
		t.Fatalf("hidden token must be escaped and labelled:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), `"<E...`) {
		t.Fatalf("long text must be truncated:\n%s", buf.String())
	}
}

func TestTokensJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := TokensJSON(&buf, sampleTokens(), exprVocab, Options{ShowHidden: true}); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 4 || out[1].Channel != 1 || out[1].Text != "\t" || out[3].Name != "EOF" {
		t.Fatalf("json = %+v", out)
	}
}

func TestGrammarSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := Grammar(&buf, exprRecognizer(t), Options{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"== Expr (parser) ==",
		"states 10  decisions 1  rules 2  max token type 3",
		"returns [5]",
		"alt1 {B}  alt2 {C}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary lacks %q:\n%s", want, out)
		}
	}
}

func TestFollow(t *testing.T) {
	r := exprRecognizer(t)
	var buf bytes.Buffer
	if err := Follow(&buf, r, 5, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "expected {EOF}") {
		t.Fatalf("follow:\n%s", buf.String())
	}
	if err := Follow(&buf, r, 99, nil); err == nil {
		t.Fatalf("unknown state must fail")
	}
}

func TestCacheStats(t *testing.T) {
	var buf bytes.Buffer
	if err := CacheStats(&buf, nil, 0); err != nil || !strings.Contains(buf.String(), "disabled") {
		t.Fatalf("nil cache: %q %v", buf.String(), err)
	}
	buf.Reset()
	c := pcontext.NewCache()
	exprRecognizer(t, sim.WithSharedCache(c)).Simulator().RuleCallers()
	if err := CacheStats(&buf, c, 1); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "context cache: ") || c.Len() == 0 {
		t.Fatalf("stats = %q (len %d)", buf.String(), c.Len())
	}
}
