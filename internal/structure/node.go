// Package structure models the declaration/statement tree supplied by a
// parser and the scope tests rules run against it.
package structure

import (
	"fmt"

	"github.com/standardbeagle/stylecheck/internal/types"
)

// Node is one declaration or statement. Offsets are byte offsets into the
// file. DeclLength covers the head of the construct (keyword through the
// opening of its body); BodyLength covers the body and is zero for nodes
// without one. A child's extent always lies within its parent's.
type Node struct {
	Kind       Kind    `json:"kind"`
	RawKind    string  `json:"raw_kind,omitempty"` // parser's own name for the kind
	Start      int     `json:"start"`
	DeclLength int     `json:"decl_length"`
	BodyLength int     `json:"body_length,omitempty"`
	Children   []*Node `json:"children,omitempty"`
}

// End is the exclusive end of the node's extent.
func (n *Node) End() int {
	return n.Start + n.DeclLength + n.BodyLength
}

// Extent returns the node's span as a Range in file.
func (n *Node) Extent(file types.FileID) types.Range {
	return types.NewRange(types.NewLocation(file, n.Start), n.DeclLength+n.BodyLength)
}

// KindName returns the raw parser kind when the node is unmapped, else the
// canonical kind name.
func (n *Node) KindName() string {
	if n.Kind == KindUnknown && n.RawKind != "" {
		return n.RawKind
	}
	return n.Kind.String()
}

func (n *Node) String() string {
	return fmt.Sprintf("%s[%d+%d+%d]", n.KindName(), n.Start, n.DeclLength, n.BodyLength)
}

// Tree is the parsed structure of a single file.
type Tree struct {
	Root *Node `json:"root"`
}

// NewTree wraps top-level nodes in a synthetic root spanning length bytes.
func NewTree(length int, children ...*Node) *Tree {
	return &Tree{Root: &Node{
		Kind:       KindModule,
		DeclLength: length,
		Children:   children,
	}}
}

// Contains reports whether loc lies strictly inside n's extent:
// n.Start < offset < n.Start+DeclLength+BodyLength. A match sitting exactly
// on either boundary belongs to neither neighbouring scope.
func Contains(n *Node, loc types.Location) bool {
	if n == nil {
		return false
	}
	return n.Start < loc.Offset && loc.Offset < n.End()
}

// ContainedByAny reports whether loc lies strictly inside at least one of
// nodes.
func ContainedByAny(nodes []*Node, loc types.Location) bool {
	for _, n := range nodes {
		if Contains(n, loc) {
			return true
		}
	}
	return false
}

// Predicate selects nodes during Flatten.
type Predicate func(*Node) bool

// Flatten returns every node under root (root's descendants, parents before
// their children, siblings left to right) that satisfies pred. The root
// itself is the container and is not returned. Each call builds a fresh
// slice; nothing is shared between recursive calls.
func Flatten(root *Node, pred Predicate) []*Node {
	if root == nil {
		return nil
	}
	var out []*Node
	for _, child := range root.Children {
		out = append(out, flattenNode(child, pred)...)
	}
	return out
}

func flattenNode(n *Node, pred Predicate) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	if pred == nil || pred(n) {
		out = append(out, n)
	}
	for _, child := range n.Children {
		out = append(out, flattenNode(child, pred)...)
	}
	return out
}

// FlattenTree is Flatten over t's root; a nil tree yields nil.
func FlattenTree(t *Tree, pred Predicate) []*Node {
	if t == nil {
		return nil
	}
	return Flatten(t.Root, pred)
}

// Validate checks that every child lies within its parent and that offsets
// are non-negative.
func Validate(t *Tree) error {
	if t == nil || t.Root == nil {
		return nil
	}
	return validateNode(t.Root)
}

func validateNode(n *Node) error {
	if n.Start < 0 || n.DeclLength < 0 || n.BodyLength < 0 {
		return fmt.Errorf("node %s has a negative offset or length", n)
	}
	for _, c := range n.Children {
		if c.Start < n.Start || c.End() > n.End() {
			return fmt.Errorf("node %s escapes its parent %s", c, n)
		}
		if err := validateNode(c); err != nil {
			return err
		}
	}
	return nil
}

// FixExtents grows every node so that it covers its children, working
// bottom-up. Parsers that compute extents independently per node call it
// once before handing the tree out so Validate holds. A child that starts
// before its parent pulls the parent's start back and lengthens DeclLength
// by the same amount.
func FixExtents(t *Tree) {
	if t == nil || t.Root == nil {
		return
	}
	fixNode(t.Root)
}

func fixNode(n *Node) {
	for _, c := range n.Children {
		fixNode(c)
	}
	for _, c := range n.Children {
		if c.Start < n.Start {
			n.DeclLength += n.Start - c.Start
			n.Start = c.Start
		}
		if end := c.End(); end > n.End() {
			n.BodyLength += end - n.End()
		}
	}
}
