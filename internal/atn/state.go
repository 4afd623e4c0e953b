package atn

import "fmt"

// StateKind is the serialized tag of an ATN state.
type StateKind uint8

const (
	StateInvalid StateKind = iota
	StateBasic
	StateRuleStart
	StateBlockStart
	StatePlusBlockStart
	StateStarBlockStart
	StateTokenStart
	StateRuleStop
	StateBlockEnd
	StateStarLoopBack
	StateStarLoopEntry
	StatePlusLoopBack
	StateLoopEnd
)

var stateKindNames = [...]string{
	StateInvalid:        "invalid",
	StateBasic:          "basic",
	StateRuleStart:      "rule-start",
	StateBlockStart:     "block-start",
	StatePlusBlockStart: "plus-block-start",
	StateStarBlockStart: "star-block-start",
	StateTokenStart:     "token-start",
	StateRuleStop:       "rule-stop",
	StateBlockEnd:       "block-end",
	StateStarLoopBack:   "star-loop-back",
	StateStarLoopEntry:  "star-loop-entry",
	StatePlusLoopBack:   "plus-loop-back",
	StateLoopEnd:        "loop-end",
}

func (k StateKind) String() string {
	if int(k) < len(stateKindNames) {
		return stateKindNames[k]
	}
	return fmt.Sprintf("StateKind(%d)", k)
}

// IsBlockStart reports whether states of this kind open a block and carry
// an end state.
func (k StateKind) IsBlockStart() bool {
	switch k {
	case StateBlockStart, StatePlusBlockStart, StateStarBlockStart:
		return true
	default:
		return false
	}
}

// IsDecision reports whether states of this kind choose between
// alternatives.
func (k StateKind) IsDecision() bool {
	switch k {
	case StateBlockStart, StatePlusBlockStart, StateStarBlockStart,
		StateTokenStart, StateStarLoopEntry, StatePlusLoopBack:
		return true
	default:
		return false
	}
}

// State is one ATN node. The kind selects which of the link fields are
// meaningful:
//
//   - block starts: EndState
//   - block end: StartState
//   - rule start: StopState, IsLeftRecursive
//   - loop end, plus block start, star loop entry: LoopBack
//   - star loop entry: PrecedenceDecision
//   - decision kinds: Decision, NonGreedy
type State struct {
	Number      int
	Kind        StateKind
	RuleIndex   int
	Transitions []*Transition
	EpsilonOnly bool

	Decision  int
	NonGreedy bool

	EndState           *State
	StartState         *State
	StopState          *State
	LoopBack           *State
	IsLeftRecursive    bool
	PrecedenceDecision bool
}

// NewState allocates an unnumbered state; ATN.AddState assigns Number.
func NewState(kind StateKind, ruleIndex int) *State {
	return &State{Number: -1, Kind: kind, RuleIndex: ruleIndex, Decision: -1}
}

// AddTransition appends t unless an equivalent edge to the same target is
// already present.
func (s *State) AddTransition(t *Transition) {
	if len(s.Transitions) == 0 {
		s.EpsilonOnly = t.IsEpsilon()
	} else if s.EpsilonOnly != t.IsEpsilon() {
		s.EpsilonOnly = false
	}
	for _, have := range s.Transitions {
		if have.Target.Number != t.Target.Number {
			continue
		}
		if have.Label != nil && t.Label != nil && have.Label.Equal(t.Label) {
			return
		}
		if have.IsEpsilon() && t.IsEpsilon() {
			return
		}
	}
	s.Transitions = append(s.Transitions, t)
}

func (s *State) String() string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%d(%s)", s.Number, s.Kind)
}
