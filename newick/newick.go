// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package newick implements reading and writing
// of phylogenetic trees
// in Newick and NEXUS formats.
//
// Trees are stored as plain nodes
// with a branch length
// and an ordered list of children;
// a node without children is a terminal.
package newick

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// A Node is a node of a phylogenetic tree.
// The branch length is the length of the branch
// that connects the node with its parent.
// A node without children is a terminal
// (i.e., a leaf).
type Node struct {
	Name     string
	Length   float64
	Children []*Node
}

// IsTerm returns true if the node is a terminal.
func (n *Node) IsTerm() bool {
	return len(n.Children) == 0
}

// Terms returns the names of the terminals of the tree
// in document order
// (i.e., the order in which they were read).
func (n *Node) Terms() []string {
	var terms []string
	stack := []*Node{n}
	for len(stack) > 0 {
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if nd.IsTerm() {
			terms = append(terms, nd.Name)
			continue
		}
		// push children in reverse
		// so they pop in document order
		for i := len(nd.Children) - 1; i >= 0; i-- {
			stack = append(stack, nd.Children[i])
		}
	}
	return terms
}

// Copy returns a deep copy of the tree.
func (n *Node) Copy() *Node {
	c := &Node{
		Name:   n.Name,
		Length: n.Length,
	}
	if n.IsTerm() {
		return c
	}
	c.Children = make([]*Node, 0, len(n.Children))
	for _, d := range n.Children {
		c.Children = append(c.Children, d.Copy())
	}
	return c
}

// Prune returns a copy of the tree
// without the named terminals.
// Internal nodes left with a single child
// are spliced out,
// the child keeping its own branch length.
// It returns nil
// if no terminal is left.
func (n *Node) Prune(names map[string]bool) *Node {
	t := prune(n, names)
	if t == nil {
		return nil
	}
	for len(t.Children) == 1 {
		t = t.Children[0]
	}
	return t
}

func prune(n *Node, names map[string]bool) *Node {
	if n.IsTerm() {
		if names[n.Name] {
			return nil
		}
		return &Node{
			Name:   n.Name,
			Length: n.Length,
		}
	}

	var children []*Node
	for _, c := range n.Children {
		pc := prune(c, names)
		if pc == nil {
			continue
		}
		children = append(children, pc)
	}
	if len(children) == 0 {
		return nil
	}
	if len(children) == 1 {
		return children[0]
	}
	return &Node{
		Name:     n.Name,
		Length:   n.Length,
		Children: children,
	}
}

// Newick returns the Newick representation of the tree,
// with branch lengths
// and a closing semicolon.
func (n *Node) Newick() string {
	var sb strings.Builder
	writeNode(&sb, n)
	sb.WriteByte(';')
	return sb.String()
}

func writeNode(sb *strings.Builder, n *Node) {
	if !n.IsTerm() {
		sb.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeNode(sb, c)
		}
		sb.WriteByte(')')
	}
	sb.WriteString(n.Name)
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatFloat(n.Length, 'g', -1, 64))
}

// A LeafIndex is a bijection
// between terminal names
// and integer indices in [0, n).
// The index is defined by the document order
// of the terminals in the first tree of a sequence
// and must be shared by every tree of the sequence.
type LeafIndex struct {
	names []string
	rank  map[string]int
}

// NewLeafIndex creates a leaf index
// from the terminals of a tree
// in document order.
func NewLeafIndex(t *Node) (*LeafIndex, error) {
	names := t.Terms()
	rank := make(map[string]int, len(names))
	for i, nm := range names {
		if _, dup := rank[nm]; dup {
			return nil, fmt.Errorf("newick: repeated terminal %q", nm)
		}
		rank[nm] = i
	}
	return &LeafIndex{
		names: names,
		rank:  rank,
	}, nil
}

// WithOrder returns a new index
// that uses the given name order.
// The order must contain exactly the same names
// as the receiver;
// otherwise the receiver is returned
// along with an error
// that reports the mismatched names.
// The error is recoverable:
// the returned index is always valid.
func (ix *LeafIndex) WithOrder(order []string) (*LeafIndex, error) {
	diff := make(map[string]bool)
	rank := make(map[string]int, len(order))
	for i, nm := range order {
		rank[nm] = i
		if _, ok := ix.rank[nm]; !ok {
			diff[nm] = true
		}
	}
	for _, nm := range ix.names {
		if _, ok := rank[nm]; !ok {
			diff[nm] = true
		}
	}
	if len(diff) > 0 || len(order) != len(ix.names) {
		ls := make([]string, 0, len(diff))
		for nm := range diff {
			ls = append(ls, nm)
		}
		slices.Sort(ls)
		return ix, fmt.Errorf("newick: invalid leaf order: check terminals: %s", strings.Join(ls, ", "))
	}
	return &LeafIndex{
		names: slices.Clone(order),
		rank:  rank,
	}, nil
}

// Len returns the number of terminals in the index.
func (ix *LeafIndex) Len() int {
	return len(ix.names)
}

// Index returns the index of a terminal name.
func (ix *LeafIndex) Index(name string) (int, bool) {
	i, ok := ix.rank[name]
	return i, ok
}

// Name returns the terminal name at a given index.
func (ix *LeafIndex) Name(i int) string {
	return ix.names[i]
}

// Names returns the terminal names in index order.
func (ix *LeafIndex) Names() []string {
	return slices.Clone(ix.names)
}

// SameLeaves returns an error
// if the terminals of the tree
// are not exactly the names of the index.
func (ix *LeafIndex) SameLeaves(t *Node) error {
	terms := t.Terms()
	if len(terms) != len(ix.names) {
		return fmt.Errorf("newick: got %d terminals, want %d", len(terms), len(ix.names))
	}
	seen := make(map[string]bool, len(terms))
	for _, nm := range terms {
		if _, ok := ix.rank[nm]; !ok {
			return fmt.Errorf("newick: unexpected terminal %q", nm)
		}
		if seen[nm] {
			return fmt.Errorf("newick: repeated terminal %q", nm)
		}
		seen[nm] = true
	}
	return nil
}
