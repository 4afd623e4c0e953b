package atn

import "fmt"

// LexerActionKind is the serialized tag of a lexer action.
type LexerActionKind uint8

const (
	ActionChannel LexerActionKind = iota
	ActionCustom
	ActionMode
	ActionMore
	ActionPopMode
	ActionPushMode
	ActionSkip
	ActionType
)

var lexerActionNames = [...]string{
	ActionChannel:  "channel",
	ActionCustom:   "custom",
	ActionMode:     "mode",
	ActionMore:     "more",
	ActionPopMode:  "popMode",
	ActionPushMode: "pushMode",
	ActionSkip:     "skip",
	ActionType:     "type",
}

func (k LexerActionKind) String() string {
	if int(k) < len(lexerActionNames) {
		return lexerActionNames[k]
	}
	return fmt.Sprintf("LexerActionKind(%d)", k)
}

// LexerAction is one entry of a lexer ATN's action table. Value holds the
// channel, mode or token type; RuleIndex and ActionIndex are set for custom
// actions only.
type LexerAction struct {
	Kind        LexerActionKind
	Value       int
	RuleIndex   int
	ActionIndex int
}

// operands returns the two serialized operands of the action.
func (a LexerAction) operands() (int, int) {
	switch a.Kind {
	case ActionChannel, ActionMode, ActionPushMode, ActionType:
		return a.Value, 0
	case ActionCustom:
		return a.RuleIndex, a.ActionIndex
	default:
		return 0, 0
	}
}

func (a LexerAction) String() string {
	switch a.Kind {
	case ActionChannel, ActionMode, ActionPushMode, ActionType:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Value)
	case ActionCustom:
		return fmt.Sprintf("custom(%d, %d)", a.RuleIndex, a.ActionIndex)
	default:
		return a.Kind.String()
	}
}
