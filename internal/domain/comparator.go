package domain

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// Comparison is the result of a structural comparison. When Equal is false,
// A and B are the first diverging pair; one side is nil when a child exists
// only on the other side.
type Comparison struct {
	Equal bool
	A     *sitter.Node
	B     *sitter.Node
}

// Comparator decides whether two syntax trees are the same program modulo
// consistent renaming of identifiers, comments and docstrings.
type Comparator struct {
	profile m.LanguageProfile
}

// NewComparator creates a comparator for the given language.
func NewComparator(profile m.LanguageProfile) *Comparator {
	return &Comparator{profile: profile}
}

// Equivalent reports whether a and b are structurally equal.
func (c *Comparator) Equivalent(a, b *sitter.Node, sourceA, sourceB []byte) bool {
	return c.Compare(a, b, sourceA, sourceB).Equal
}

type siblings struct {
	a, b []*sitter.Node
	next int
}

// Compare walks both trees in lockstep with an explicit stack. Identifiers
// are compared by the order of their first appearance on each side, so a
// consistent rename compares equal. Callee names are compared literally.
func (c *Comparator) Compare(a, b *sitter.Node, sourceA, sourceB []byte) Comparison {
	rolesA := make(map[string]int)
	rolesB := make(map[string]int)

	stack := []siblings{{a: []*sitter.Node{a}, b: []*sitter.Node{b}}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.next >= len(top.a) || top.next >= len(top.b) {
			if len(top.a) != len(top.b) {
				return Comparison{A: at(top.a, top.next), B: at(top.b, top.next)}
			}

			stack = stack[:len(stack)-1]

			continue
		}

		nodeA, nodeB := top.a[top.next], top.b[top.next]
		top.next++

		if nodeA.Kind() != nodeB.Kind() {
			return Comparison{A: nodeA, B: nodeB}
		}

		// Only tokens are compared by text. A container whose children are
		// all skipped still descends, so its skipped text never matters.
		if nodeA.ChildCount() == 0 && nodeB.ChildCount() == 0 {
			if !c.leafEqual(nodeA, nodeB, sourceA, sourceB, rolesA, rolesB) {
				return Comparison{A: nodeA, B: nodeB}
			}

			continue
		}

		stack = append(stack, siblings{a: c.children(nodeA), b: c.children(nodeB)})
	}

	return Comparison{Equal: true}
}

func at(nodes []*sitter.Node, i int) *sitter.Node {
	if i < len(nodes) {
		return nodes[i]
	}

	return nil
}

// children returns the children of node that take part in the comparison.
func (c *Comparator) children(node *sitter.Node) []*sitter.Node {
	count := node.ChildCount()
	if count == 0 {
		return nil
	}

	children := make([]*sitter.Node, 0, count)

	for i := range count {
		child := node.Child(i)
		if child == nil || c.ignored(child) {
			continue
		}

		children = append(children, child)
	}

	return children
}

// ignored reports comments, other extra nodes and docstring statements.
func (c *Comparator) ignored(node *sitter.Node) bool {
	if node.IsExtra() {
		return true
	}

	if c.profile.DocstringStatement == "" || node.Kind() != c.profile.DocstringStatement {
		return false
	}

	first := node.Child(0)

	return first != nil && first.Kind() == c.profile.DocstringKind
}

func (c *Comparator) leafEqual(a, b *sitter.Node, sourceA, sourceB []byte, rolesA, rolesB map[string]int) bool {
	textA := a.Utf8Text(sourceA)
	textB := b.Utf8Text(sourceB)

	if !c.profile.IsIdentifier(a.Kind()) {
		return textA == textB
	}

	if c.isCallee(a) || c.isCallee(b) {
		if textA != textB {
			return false
		}
	}

	return role(rolesA, textA) == role(rolesB, textB)
}

// role returns the index of the first appearance of name, registering it
// when it is new.
func role(roles map[string]int, name string) int {
	if id, ok := roles[name]; ok {
		return id
	}

	id := len(roles)
	roles[name] = id

	return id
}

// isCallee reports whether node names the function of a call, either
// directly or as the member of a member access that is being called.
func (c *Comparator) isCallee(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return false
	}

	if c.profile.IsCall(parent.Kind()) {
		return sameNode(parent.ChildByFieldName(c.profile.CallField), node)
	}

	if !c.profile.IsMember(parent.Kind()) || !sameNode(parent.ChildByFieldName(c.profile.MemberField), node) {
		return false
	}

	call := parent.Parent()

	return call != nil && c.profile.IsCall(call.Kind()) && sameNode(call.ChildByFieldName(c.profile.CallField), parent)
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.Id() == b.Id()
}
