package atn

// Verify checks the structural invariants every well-formed ATN satisfies
// and returns the first violation as a *FormatError.
func Verify(a *ATN) error {
	for _, s := range a.States {
		if s == nil {
			continue
		}
		if err := verifyState(s); err != nil {
			return err
		}
	}
	return nil
}

func verifyState(s *State) error {
	n := len(s.Transitions)
	if err := checkf(s.EpsilonOnly || n <= 1, "state %d mixes epsilon and symbol edges", s.Number); err != nil {
		return err
	}

	switch s.Kind {
	case StatePlusBlockStart:
		if err := checkf(s.LoopBack != nil, "plus block start %d has no loop back", s.Number); err != nil {
			return err
		}
	case StateStarLoopEntry:
		if err := verifyStarLoopEntry(s); err != nil {
			return err
		}
	case StateStarLoopBack:
		ok := n == 1 && s.Transitions[0].Target.Kind == StateStarLoopEntry
		if err := checkf(ok, "star loop back %d must have one edge to its loop entry", s.Number); err != nil {
			return err
		}
	case StateLoopEnd:
		if err := checkf(s.LoopBack != nil, "loop end %d has no loop back", s.Number); err != nil {
			return err
		}
	case StateRuleStart:
		if err := checkf(s.StopState != nil, "rule start %d has no stop state", s.Number); err != nil {
			return err
		}
	case StateBlockEnd:
		if err := checkf(s.StartState != nil, "block end %d has no start state", s.Number); err != nil {
			return err
		}
	}

	if s.Kind.IsBlockStart() {
		if err := checkf(s.EndState != nil, "block start %d has no end state", s.Number); err != nil {
			return err
		}
	}
	if s.Kind.IsDecision() {
		return checkf(n <= 1 || s.Decision >= 0, "decision state %d with %d edges is not a decision", s.Number, n)
	}
	return checkf(n <= 1 || s.Kind == StateRuleStop, "state %d has %d edges but is not a decision", s.Number, n)
}

func verifyStarLoopEntry(s *State) error {
	if err := checkf(s.LoopBack != nil, "star loop entry %d has no loop back", s.Number); err != nil {
		return err
	}
	if err := checkf(len(s.Transitions) == 2, "star loop entry %d must have two edges", s.Number); err != nil {
		return err
	}
	first, second := s.Transitions[0].Target.Kind, s.Transitions[1].Target.Kind
	switch first {
	case StateStarBlockStart:
		if err := checkf(second == StateLoopEnd, "star loop entry %d: second edge must exit the loop", s.Number); err != nil {
			return err
		}
		return checkf(!s.NonGreedy, "greedy star loop entry %d is marked non-greedy", s.Number)
	case StateLoopEnd:
		if err := checkf(second == StateStarBlockStart, "star loop entry %d: second edge must enter the loop", s.Number); err != nil {
			return err
		}
		return checkf(s.NonGreedy, "non-greedy star loop entry %d is not marked non-greedy", s.Number)
	default:
		return checkf(false, "star loop entry %d: first edge targets %s", s.Number, first)
	}
}
