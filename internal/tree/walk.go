package tree

// Listener receives callbacks from Walk.
type Listener interface {
	VisitTerminal(*TerminalNode)
	VisitErrorNode(*ErrorNode)
	EnterEveryRule(*RuleNode)
	ExitEveryRule(*RuleNode)
}

// BaseListener implements Listener with no-ops, for embedding.
type BaseListener struct{}

func (BaseListener) VisitTerminal(*TerminalNode) {}
func (BaseListener) VisitErrorNode(*ErrorNode)   {}
func (BaseListener) EnterEveryRule(*RuleNode)    {}
func (BaseListener) ExitEveryRule(*RuleNode)     {}

// Walk visits t depth-first. For rule nodes, EnterEveryRule runs before
// the node's EnterHook and ExitHook runs before ExitEveryRule.
func Walk(l Listener, t Node) {
	switch n := t.(type) {
	case *ErrorNode:
		l.VisitErrorNode(n)
	case *TerminalNode:
		l.VisitTerminal(n)
	case *RuleNode:
		l.EnterEveryRule(n)
		if n.EnterHook != nil {
			n.EnterHook(l)
		}
		for _, c := range n.children {
			Walk(l, c)
		}
		if n.ExitHook != nil {
			n.ExitHook(l)
		}
		l.ExitEveryRule(n)
	}
}
