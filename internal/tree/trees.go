package tree

import (
	"strconv"
	"strings"

	"atnrt/internal/token"
)

// ToStringTree renders t in LISP form, "(rule child child)", naming rule
// nodes through ruleNames. Leaves print their text with whitespace escaped.
func ToStringTree(t Node, ruleNames []string) string {
	var sb strings.Builder
	writeStringTree(&sb, t, ruleNames)
	return sb.String()
}

func writeStringTree(sb *strings.Builder, t Node, ruleNames []string) {
	text := token.EscapeWhitespace(NodeText(t, ruleNames))
	if t.ChildCount() == 0 {
		sb.WriteString(text)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(text)
	for i := 0; i < t.ChildCount(); i++ {
		sb.WriteByte(' ')
		writeStringTree(sb, t.Child(i), ruleNames)
	}
	sb.WriteByte(')')
}

// NodeText is the label of t in a rendered tree: the rule name (with
// ":alt" when the alternative is known) for rule nodes, the token text for
// leaves.
func NodeText(t Node, ruleNames []string) string {
	switch n := t.(type) {
	case *RuleNode:
		name := strconv.Itoa(n.RuleIndex)
		if n.RuleIndex >= 0 && n.RuleIndex < len(ruleNames) {
			name = ruleNames[n.RuleIndex]
		}
		if n.AltNumber != 0 {
			return name + ":" + strconv.Itoa(n.AltNumber)
		}
		return name
	case *ErrorNode:
		return n.String()
	case *TerminalNode:
		return n.Text()
	}
	return ""
}

// Children returns the children of t.
func Children(t Node) []Node {
	out := make([]Node, 0, t.ChildCount())
	for i := 0; i < t.ChildCount(); i++ {
		out = append(out, t.Child(i))
	}
	return out
}

// Ancestors returns the ancestors of t from the root down to its parent.
func Ancestors(t Node) []*RuleNode {
	var out []*RuleNode
	for p := t.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// IsAncestorOf reports whether t is a proper ancestor of u.
func IsAncestorOf(t, u Node) bool {
	if t == nil || u == nil {
		return false
	}
	for p := u.Parent(); p != nil; p = p.Parent() {
		if Node(p) == t {
			return true
		}
	}
	return false
}

// FindAllTokenNodes collects the leaves of t whose token has type ttype.
func FindAllTokenNodes(t Node, ttype int) []Node {
	return findAll(t, func(n Node) bool {
		leaf, ok := leafOf(n)
		return ok && leaf.Symbol != nil && leaf.Symbol.Type == ttype
	})
}

// FindAllRuleNodes collects the rule nodes of t with the given rule index.
func FindAllRuleNodes(t Node, ruleIndex int) []Node {
	return findAll(t, func(n Node) bool {
		r, ok := n.(*RuleNode)
		return ok && r.RuleIndex == ruleIndex
	})
}

func leafOf(n Node) (*TerminalNode, bool) {
	switch l := n.(type) {
	case *TerminalNode:
		return l, true
	case *ErrorNode:
		return &l.TerminalNode, true
	}
	return nil, false
}

func findAll(t Node, match func(Node) bool) []Node {
	var out []Node
	for _, n := range Descendants(t) {
		if match(n) {
			out = append(out, n)
		}
	}
	return out
}

// Descendants lists t and every node below it in pre-order.
func Descendants(t Node) []Node {
	out := []Node{t}
	for i := 0; i < t.ChildCount(); i++ {
		out = append(out, Descendants(t.Child(i))...)
	}
	return out
}

// RootOfSubtreeEnclosingRegion finds the deepest rule node under t whose
// token range covers [startTokenIndex, stopTokenIndex].
func RootOfSubtreeEnclosingRegion(t Node, startTokenIndex, stopTokenIndex int) *RuleNode {
	for i := 0; i < t.ChildCount(); i++ {
		if r := RootOfSubtreeEnclosingRegion(t.Child(i), startTokenIndex, stopTokenIndex); r != nil {
			return r
		}
	}
	r, ok := t.(*RuleNode)
	if !ok || r.Start == nil {
		return nil
	}
	if startTokenIndex >= r.Start.Index() && (r.Stop == nil || stopTokenIndex <= r.Stop.Index()) {
		return r
	}
	return nil
}

// StripChildrenOutOfRange replaces rule children of t lying entirely
// outside [startIndex, stopIndex] with a "..." leaf. Children on the path
// to root are kept so root stays reachable.
func StripChildrenOutOfRange(t, root *RuleNode, startIndex, stopIndex int) {
	if t == nil {
		return
	}
	for i, c := range t.children {
		if _, ok := c.(*RuleNode); !ok {
			continue
		}
		r := c.SourceInterval()
		if r.Stop >= startIndex && r.Start <= stopIndex {
			continue
		}
		if c == Node(root) || IsAncestorOf(c, root) {
			continue
		}
		t.SetChild(i, NewTerminal(token.New(token.InvalidType, "...")))
	}
}

// FindNodeSuchThat returns the first node of t, in pre-order, satisfying
// pred.
func FindNodeSuchThat(t Node, pred func(Node) bool) Node {
	if t == nil {
		return nil
	}
	if pred(t) {
		return t
	}
	for i := 0; i < t.ChildCount(); i++ {
		if u := FindNodeSuchThat(t.Child(i), pred); u != nil {
			return u
		}
	}
	return nil
}
