// Package tree models parse trees: rule nodes with children, terminal
// nodes wrapping tokens, and error nodes for tokens consumed during
// recovery. Walk drives a Listener over a tree; the remaining functions are
// queries used for display and tooling.
package tree

import (
	"strings"

	"atnrt/internal/interval"
	"atnrt/internal/token"
)

// Node is a parse-tree node: *RuleNode, *TerminalNode or *ErrorNode.
type Node interface {
	SourceInterval() interval.Interval
	Text() string
	Parent() *RuleNode
	ChildCount() int
	Child(i int) Node

	setParent(*RuleNode)
}

// TerminalNode is a leaf holding one token.
type TerminalNode struct {
	Symbol *token.Token
	parent *RuleNode
}

// NewTerminal wraps tok in a leaf.
func NewTerminal(tok *token.Token) *TerminalNode {
	return &TerminalNode{Symbol: tok}
}

func (n *TerminalNode) Parent() *RuleNode     { return n.parent }
func (n *TerminalNode) setParent(p *RuleNode) { n.parent = p }
func (n *TerminalNode) ChildCount() int       { return 0 }
func (n *TerminalNode) Child(int) Node        { return nil }

// SourceInterval is the token's own index.
func (n *TerminalNode) SourceInterval() interval.Interval {
	if n.Symbol == nil {
		return interval.Invalid
	}
	i := n.Symbol.Index()
	return interval.Of(i, i)
}

func (n *TerminalNode) Text() string {
	if n.Symbol == nil {
		return ""
	}
	return n.Symbol.Text
}

func (n *TerminalNode) String() string {
	if n.Symbol != nil && n.Symbol.IsEOF() {
		return "<EOF>"
	}
	return n.Text()
}

// ErrorNode is a leaf for a token consumed while recovering from a syntax
// error.
type ErrorNode struct {
	TerminalNode
}

// NewErrorNode wraps tok in an error leaf.
func NewErrorNode(tok *token.Token) *ErrorNode {
	return &ErrorNode{TerminalNode{Symbol: tok}}
}

// RuleNode is the node of one rule invocation.
type RuleNode struct {
	RuleIndex     int
	InvokingState int
	AltNumber     int // 0 when unknown
	Start, Stop   *token.Token

	// EnterHook and ExitHook, when set, dispatch to rule-specific listener
	// methods during Walk.
	EnterHook func(Listener)
	ExitHook  func(Listener)

	parent   *RuleNode
	children []Node
}

// NewRule creates a rule node invoked from invokingState (-1 for the root).
func NewRule(ruleIndex, invokingState int) *RuleNode {
	return &RuleNode{RuleIndex: ruleIndex, InvokingState: invokingState}
}

func (n *RuleNode) Parent() *RuleNode     { return n.parent }
func (n *RuleNode) setParent(p *RuleNode) { n.parent = p }
func (n *RuleNode) ChildCount() int       { return len(n.children) }

// Child returns child i, or nil when out of range.
func (n *RuleNode) Child(i int) Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns the node's children; the slice must not be modified.
func (n *RuleNode) Children() []Node { return n.children }

// AddChild appends c and makes n its parent.
func (n *RuleNode) AddChild(c Node) Node {
	c.setParent(n)
	n.children = append(n.children, c)
	return c
}

// AddToken appends a terminal for tok.
func (n *RuleNode) AddToken(tok *token.Token) *TerminalNode {
	t := NewTerminal(tok)
	n.AddChild(t)
	return t
}

// AddError appends an error leaf for tok.
func (n *RuleNode) AddError(tok *token.Token) *ErrorNode {
	e := NewErrorNode(tok)
	n.AddChild(e)
	return e
}

// RemoveLastChild drops the last child, if any.
func (n *RuleNode) RemoveLastChild() {
	if len(n.children) > 0 {
		n.children = n.children[:len(n.children)-1]
	}
}

// SetChild replaces child i.
func (n *RuleNode) SetChild(i int, c Node) {
	c.setParent(n)
	n.children[i] = c
}

// SourceInterval spans the start and stop token indexes. A rule that
// matched nothing yields an empty interval just before its start.
func (n *RuleNode) SourceInterval() interval.Interval {
	if n.Start == nil {
		return interval.Invalid
	}
	start := n.Start.Index()
	if n.Stop == nil || n.Stop.Index() < start {
		return interval.Of(start, start-1)
	}
	return interval.Of(start, n.Stop.Index())
}

// Text concatenates the text of all leaves.
func (n *RuleNode) Text() string {
	var sb strings.Builder
	for _, c := range n.children {
		sb.WriteString(c.Text())
	}
	return sb.String()
}

// Depth is 0 for a root.
func (n *RuleNode) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}
