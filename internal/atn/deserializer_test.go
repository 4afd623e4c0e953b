package atn

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"atnrt/internal/interval"
)

func TestDeserializeParserFixture(t *testing.T) {
	a := mustDeserialize(parserFixture())

	if a.GrammarType != GrammarParser || a.MaxTokenType != 3 {
		t.Fatalf("header = %v/%d", a.GrammarType, a.MaxTokenType)
	}
	if len(a.States) != 10 || a.NumRules() != 2 {
		t.Fatalf("states=%d rules=%d", len(a.States), a.NumRules())
	}
	for i, s := range a.States {
		if s.Number != i {
			t.Fatalf("state %d numbered %d", i, s.Number)
		}
	}
	if a.RuleToStopState[1].Number != 3 || a.RuleToStartState[1].StopState != a.States[3] {
		t.Fatalf("rule stop links are wrong")
	}
	block := a.States[6]
	if block.EndState != a.States[7] || a.States[7].StartState != block {
		t.Fatalf("block start/end must be linked both ways")
	}
	if len(a.DecisionToState) != 1 || a.DecisionToState[0] != block || block.Decision != 0 {
		t.Fatalf("decision table is wrong")
	}

	// the stop state of b returns to the follow state of its invocation
	stop := a.States[3]
	if len(stop.Transitions) != 1 || stop.Transitions[0].Target != a.States[5] {
		t.Fatalf("derived return edge missing: %v", stop.Transitions)
	}
	call := a.States[4].Transitions[0]
	if call.Kind != TransitionRule || call.Target != a.States[2] || call.FollowState != a.States[5] || call.RuleIndex != 1 {
		t.Fatalf("rule edge = %v", call)
	}
	if !a.States[8].Transitions[0].Matches(tokB, 1, 3) || a.States[8].Transitions[0].Matches(tokC, 1, 3) {
		t.Fatalf("atom edge matches the wrong symbols")
	}
}

func TestDeserializeLexerFixture(t *testing.T) {
	a := mustDeserialize(lexerFixture())

	if a.GrammarType != GrammarLexer {
		t.Fatalf("grammar type = %v", a.GrammarType)
	}
	if !slices.Equal(a.RuleToTokenType, []int{1}) {
		t.Fatalf("rule token types = %v", a.RuleToTokenType)
	}
	if len(a.ModeToStartState) != 1 || a.ModeToStartState[0].Kind != StateTokenStart {
		t.Fatalf("mode table = %v", a.ModeToStartState)
	}
	if len(a.LexerActions) != 1 || a.LexerActions[0].Kind != ActionSkip {
		t.Fatalf("lexer actions = %v", a.LexerActions)
	}
	set := a.States[1].Transitions[0]
	if set.Kind != TransitionSet || !set.Matches('q', 0, 0x10FFFF) || set.Matches('Q', 0, 0x10FFFF) {
		t.Fatalf("set edge = %v", set)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	for name, data := range map[string][]int32{
		"parser": parserFixture(),
		"lexer":  lexerFixture(),
	} {
		got, err := Serialize(mustDeserialize(data))
		if err != nil {
			t.Fatalf("%s: serialize: %v", name, err)
		}
		if !slices.Equal(got, data) {
			t.Fatalf("%s: round trip differs\n got %v\nwant %v", name, got, data)
		}
	}
}

func TestSerializeRejectsEmptyLabel(t *testing.T) {
	for _, kind := range []TransitionKind{TransitionRange, TransitionAtom} {
		a := mustDeserialize(parserFixture())
		tr := a.States[8].Transitions[0]
		tr.Kind, tr.Label = kind, interval.NewSet()
		if _, err := Serialize(a); err == nil || !strings.Contains(err.Error(), "edge 8->7") {
			t.Errorf("%v: err = %v", kind, err)
		}
	}
}

func TestDeserializeRejectsBadVersion(t *testing.T) {
	data := parserFixture()
	data[0] = 3
	_, err := NewDeserializer(DefaultOptions()).Deserialize(data)
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Offset != 0 {
		t.Fatalf("expected format error at offset 0, got %v", err)
	}
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("error must match ErrFormat")
	}
}

func TestDeserializeRejectsEveryTruncation(t *testing.T) {
	data := parserFixture()
	d := NewDeserializer(DefaultOptions())
	for n := 0; n < len(data); n++ {
		a, err := d.Deserialize(data[:n])
		if err == nil || a != nil {
			t.Fatalf("prefix of %d values must be rejected", n)
		}
		if !errors.Is(err, ErrFormat) {
			t.Fatalf("prefix %d: unexpected error type %v", n, err)
		}
	}
}

func TestDeserializeRejectsMalformedData(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]int32) []int32
		want   string
	}{
		{"dangling edge target", func(d []int32) []int32 { d[34] = 42; return d }, "invalid target state"},
		{"unknown state type", func(d []int32) []int32 { d[4] = 99; return d }, "unknown state type"},
		{"unknown edge type", func(d []int32) []int32 { d[35] = 77; return d }, "unknown transition type"},
		{"rule edge to plain state", func(d []int32) []int32 { d[48] = 4; return d }, "non-rule-start"},
		{"trailing data", func(d []int32) []int32 { return append(d, 0) }, "trailing"},
		{"grammar type", func(d []int32) []int32 { d[1] = 7; return d }, "grammar type"},
		{"empty range", func(d []int32) []int32 { d[77] = int32(TransitionRange); return d }, "empty range"},
		{"empty EOF range", func(d []int32) []int32 { d[77], d[79], d[80] = int32(TransitionRange), -3, 1; return d }, "empty range"},
	}
	d := NewDeserializer(DefaultOptions())
	for _, tt := range tests {
		_, err := d.Deserialize(tt.mutate(parserFixture()))
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want mention of %q", tt.name, err, tt.want)
		}
	}
}

func TestVerifyCatchesUnregisteredDecision(t *testing.T) {
	data := parserFixture()
	data = append(data[:len(data)-2], 0)

	_, err := NewDeserializer(DefaultOptions()).Deserialize(data)
	if !errors.Is(err, ErrFormat) || !strings.Contains(err.Error(), "not a decision") {
		t.Fatalf("expected verification failure, got %v", err)
	}
	if _, err := NewDeserializer(Options{}).Deserialize(data); err != nil {
		t.Fatalf("without verification the ATN must load: %v", err)
	}
}

func TestFactories(t *testing.T) {
	if s, err := StateFactory(int(StateInvalid), 0); s != nil || err != nil {
		t.Fatalf("invalid state kind must yield an empty slot")
	}
	if _, err := StateFactory(13, 0); !errors.Is(err, ErrFormat) {
		t.Fatalf("unknown state kind must fail, got %v", err)
	}
	if _, err := LexerActionFactory(8, 0, 0); !errors.Is(err, ErrFormat) {
		t.Fatalf("unknown action kind must fail, got %v", err)
	}
	act, err := LexerActionFactory(int(ActionPushMode), 2, 0)
	if err != nil || act.String() != "pushMode(2)" {
		t.Fatalf("push mode action = %v, %v", act, err)
	}

	a := New(GrammarParser, 3)
	a.AddState(NewState(StateBasic, 0))
	a.AddState(NewState(StateBasic, 0))
	eof, err := EdgeFactory(a, int(TransitionAtom), 0, 1, 0, 0, 1, nil)
	if err != nil || !eof.Matches(-1, 1, 3) {
		t.Fatalf("atom with EOF flag must match EOF: %v %v", eof, err)
	}
	if _, err := EdgeFactory(a, int(TransitionSet), 0, 1, 0, 0, 0, nil); err == nil {
		t.Fatalf("set edge with no sets must fail")
	}
	if err := CheckCondition(true, "unused"); err != nil {
		t.Fatalf("true condition must pass")
	}
	if err := CheckCondition(false, "broken"); !errors.Is(err, ErrFormat) {
		t.Fatalf("false condition must be a format error")
	}
}

func TestAddTransitionDeduplicates(t *testing.T) {
	a := New(GrammarParser, 3)
	for range 2 {
		a.AddState(NewState(StateBasic, 0))
	}
	from, to := a.States[0], a.States[1]
	from.AddTransition(NewEpsilon(to, -1))
	from.AddTransition(NewEpsilon(to, -1))
	from.AddTransition(NewAtom(to, 2))
	from.AddTransition(NewAtom(to, 2))
	if len(from.Transitions) != 2 {
		t.Fatalf("transitions = %v", from.Transitions)
	}
	if from.EpsilonOnly {
		t.Fatalf("mixed edges must clear EpsilonOnly")
	}
}
