package lexsrc

import (
	"strings"
	"testing"

	"atnrt/internal/stream"
	"atnrt/internal/token"
)

func scanAll(s *Scanner) []*token.Token {
	var out []*token.Token
	for {
		t := s.NextToken()
		out = append(out, t)
		if t.Type == token.EOF {
			return out
		}
	}
}

func TestScannerKinds(t *testing.T) {
	src := "foo = 42 + 1.5 // note\n\"s\" 'c' `raw`"
	toks := scanAll(NewString("k.go", src, Options{}))
	want := []struct {
		ttype int
		text  string
	}{
		{Ident, "foo"}, {Punct, "="}, {Int, "42"}, {Punct, "+"}, {Float, "1.5"},
		{Comment, "// note"}, {String, `"s"`}, {Char, "'c'"}, {RawString, "`raw`"},
		{token.EOF, "<EOF>"},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w.ttype || toks[i].Text != w.text {
			t.Errorf("token %d = %d %q, want %d %q", i, toks[i].Type, toks[i].Text, w.ttype, w.text)
		}
	}
	if toks[5].Channel != token.HiddenChannel {
		t.Fatalf("comments must default to the hidden channel")
	}
	if s := toks[6]; s.Line != 2 || s.Column != 0 || s.Start != 23 || s.Stop != 25 {
		t.Fatalf("string position = line %d col %d [%d,%d]", s.Line, s.Column, s.Start, s.Stop)
	}
	eof := toks[len(toks)-1]
	if eof.Start != len(src) || eof.Stop != len(src)-1 {
		t.Fatalf("EOF offsets [%d,%d]", eof.Start, eof.Stop)
	}
}

func TestScannerRepeatsEOF(t *testing.T) {
	s := NewString("e", "", Options{})
	a, b := s.NextToken(), s.NextToken()
	if a.Type != token.EOF || a != b {
		t.Fatalf("EOF must repeat as the same token")
	}
}

func TestNormalizeUsesRuneOffsets(t *testing.T) {
	decomposed := "e\u0301 x"
	toks := scanAll(NewString("n", decomposed, Options{Normalize: true}))
	if len(toks) != 3 || toks[0].Text != "\u00e9" || toks[1].Start != 2 {
		t.Fatalf("normalized scan = %v", toks)
	}
	raw := scanAll(NewString("n", decomposed, Options{}))
	if len(raw) != 4 || raw[1].Type != Punct || raw[2].Start != 3 {
		t.Fatalf("unnormalized scan = %v", raw)
	}
}

type collect struct {
	msgs []string
	pos  []Position
}

func (c *collect) Report(pos Position, msg string) {
	c.msgs = append(c.msgs, msg)
	c.pos = append(c.pos, pos)
}

func TestScannerReportsErrors(t *testing.T) {
	rep := &collect{}
	s := NewString("bad", `x "open`, Options{Reporter: rep})
	toks := scanAll(s)
	if s.ErrorCount() != 1 || len(rep.msgs) != 1 {
		t.Fatalf("errors = %d %v", s.ErrorCount(), rep.msgs)
	}
	if got := rep.pos[0].String(); got != "bad:1:3" {
		t.Fatalf("error position = %s", got)
	}
	if len(toks) != 3 || toks[1].Type != String || toks[1].Text != `"open` {
		t.Fatalf("unterminated literal must still be a token: %v", toks)
	}
}

func TestScannerErrorTable(t *testing.T) {
	tests := []struct {
		src  string
		want string
		kind int
	}{
		{"/* open", "comment not terminated", Comment},
		{"'a\n", "literal not terminated", Char},
		{"`raw", "literal not terminated", RawString},
		{"1e+", "exponent has no digits", Float},
	}
	for _, tt := range tests {
		rep := &collect{}
		toks := scanAll(NewString("t", tt.src, Options{Reporter: rep}))
		if len(rep.msgs) != 1 || rep.msgs[0] != tt.want {
			t.Errorf("%q: errors = %v, want %q", tt.src, rep.msgs, tt.want)
		}
		if toks[0].Type != tt.kind {
			t.Errorf("%q: first token type = %d, want %d", tt.src, toks[0].Type, tt.kind)
		}
	}
}

func TestScannerNumbers(t *testing.T) {
	toks := scanAll(NewString("n", "0x1F 1_000 2. 3e10 0", Options{}))
	want := []struct {
		ttype int
		text  string
	}{
		{Int, "0x1F"}, {Int, "1_000"}, {Float, "2."}, {Float, "3e10"}, {Int, "0"},
	}
	for i, w := range want {
		if toks[i].Type != w.ttype || toks[i].Text != w.text {
			t.Errorf("token %d = %d %q, want %d %q", i, toks[i].Type, toks[i].Text, w.ttype, w.text)
		}
	}
}

func TestScannerFeedsCommonStream(t *testing.T) {
	s, err := New("in", strings.NewReader("a /* c */ b"), Options{CommentChannel: 3})
	if err != nil {
		t.Fatal(err)
	}
	cs := stream.NewCommonStream(s, token.DefaultChannel)
	if cs.OnChannelCount() != 3 {
		t.Fatalf("on-channel tokens = %d, want a, b and EOF", cs.OnChannelCount())
	}
	if cs.LT(2).Text != "b" {
		t.Fatalf("LT(2) = %v", cs.LT(2))
	}
	hidden, err := cs.HiddenTokensToRight(0, token.OnChannel(3))
	if err != nil || len(hidden) != 1 || hidden[0].Text != "/* c */" {
		t.Fatalf("hidden = %v, %v", hidden, err)
	}
	if Vocabulary().SymbolicName(Comment) != "COMMENT" || Vocabulary().MaxTokenType() != Punct {
		t.Fatalf("vocabulary out of sync with token types")
	}
}
