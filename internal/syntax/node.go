package syntax

import (
	"strings"

	"github.com/Feiyang1/tsickle/internal/source"
)

// Node is an immutable snapshot of one tree-sitter node.
// Trees are built once per parse and never mutated by the rewriters.
type Node struct {
	Kind     Kind
	Symbol   string // grammar symbol, e.g. "interface_declaration" or "{"
	Field    string // field name inside Parent, "" when unnamed
	Span     source.Span
	Named    bool
	Missing  bool
	Parent   *Node
	Children []*Node
}

// Start and End are shortcuts for the span bounds.
func (n *Node) Start() uint32 { return n.Span.Start }
func (n *Node) End() uint32   { return n.Span.End }

// Is reports whether n is non-nil and of one of the kinds.
func (n *Node) Is(kinds ...Kind) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// ChildByField returns the first child stored under field.
func (n *Node) ChildByField(field string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// ChildrenByField returns every child stored under field.
func (n *Node) ChildrenByField(field string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Field == field {
			out = append(out, c)
		}
	}
	return out
}

// NamedChildren returns the named children, skipping comments.
func (n *Node) NamedChildren() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Named && c.Kind != KindComment {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first child of one of the kinds.
func (n *Node) FirstChild(kinds ...Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Is(kinds...) {
			return c
		}
	}
	return nil
}

// HasToken reports whether n has a direct anonymous child spelled tok.
func (n *Node) HasToken(tok string) bool {
	return n.Token(tok) != nil
}

// Token returns the direct anonymous child spelled tok.
func (n *Node) Token(tok string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if !c.Named && c.Symbol == tok {
			return c
		}
	}
	return nil
}

// Index returns the position of n among its parent's children, or -1.
func (n *Node) Index() int {
	if n == nil || n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// PrevSibling returns the preceding child of the parent, including comments.
func (n *Node) PrevSibling() *Node {
	i := n.Index()
	if i <= 0 {
		return nil
	}
	return n.Parent.Children[i-1]
}

// NextSibling returns the following child of the parent, including comments.
func (n *Node) NextSibling() *Node {
	i := n.Index()
	if i < 0 || i+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[i+1]
}

// Ancestor returns the closest ancestor of one of the kinds.
func (n *Node) Ancestor(kinds ...Kind) *Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Is(kinds...) {
			return p
		}
	}
	return nil
}

// Walk visits n and its descendants in pre-order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Text returns the source text of n.
func (f *File) Text(n *Node) string {
	if n == nil {
		return ""
	}
	return f.Source.Text(n.Span)
}

// NameOf returns the text of the "name" field, with whitespace removed for
// dotted names like `a . b`.
func (f *File) NameOf(n *Node) string {
	name := n.ChildByField("name")
	if name == nil {
		return ""
	}
	text := f.Text(name)
	if name.Kind == KindNestedIdentifier {
		text = strings.Join(strings.Fields(text), "")
	}
	return text
}
