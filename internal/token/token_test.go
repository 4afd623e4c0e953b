package token

import "testing"

func TestIndexUnstampedIsMinusOne(t *testing.T) {
	tok := New(3, "x")
	if tok.Index() != -1 {
		t.Fatalf("expected -1 before stamping, got %d", tok.Index())
	}
	tok.SetIndex(0)
	if tok.Index() != 0 {
		t.Fatalf("expected stamped index 0, got %d", tok.Index())
	}
}

func TestChannelSelector(t *testing.T) {
	tests := []struct {
		name string
		sel  ChannelSelector
		ch   Channel
		want bool
	}{
		{"any off-channel rejects default", AnyOffChannel, DefaultChannel, false},
		{"any off-channel accepts hidden", AnyOffChannel, HiddenChannel, true},
		{"any off-channel accepts custom", AnyOffChannel, Channel(4), true},
		{"specific hidden", OnChannel(HiddenChannel), HiddenChannel, true},
		{"specific hidden rejects custom", OnChannel(HiddenChannel), Channel(4), false},
		{"specific default", OnChannel(DefaultChannel), DefaultChannel, true},
	}
	for _, tt := range tests {
		if got := tt.sel.Match(tt.ch); got != tt.want {
			t.Errorf("%s: Match(%v) = %v, want %v", tt.name, tt.ch, got, tt.want)
		}
	}
}

func TestSliceSourceAppendsEOFAndRepeatsIt(t *testing.T) {
	src := NewSliceSource("test", New(1, "a"))
	if got := src.NextToken(); got.Type != 1 {
		t.Fatalf("first token type = %d", got.Type)
	}
	eof := src.NextToken()
	if !eof.IsEOF() {
		t.Fatalf("expected synthesized EOF, got %v", eof)
	}
	if again := src.NextToken(); again != eof {
		t.Fatalf("expected the same EOF token after end")
	}
	if src.Pulled() != 3 {
		t.Fatalf("pulled = %d, want 3", src.Pulled())
	}
}

func TestTokenString(t *testing.T) {
	tok := &Token{Type: 5, Channel: HiddenChannel, Start: 0, Stop: 1, Line: 1, Column: 0, Text: "\n\t"}
	tok.SetIndex(2)
	want := `[@2,0:1='\n\t',<5>,channel=1,1:0]`
	if got := tok.String(); got != want {
		t.Fatalf("String() = %s, want %s", got, want)
	}
}
