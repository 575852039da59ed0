// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package interpolate builds the consensus trees
// that blend each pair of neighbor trees
// in a tree sequence,
// to be used as frames of a morphing animation.
//
// For a pair of trees four trees are made,
// matching branches between the trees
// by split equality:
//
//   - a ramp-down,
//     with the topology of the first tree,
//     shared splits averaged
//     and unique splits set to zero;
//   - a collapse of the first tree,
//     in which unique internal branches are removed,
//     so their children join the parent
//     as a multifurcation;
//   - the mirror collapse of the second tree;
//   - and a ramp-up,
//     the topology of the second tree
//     with shared splits averaged
//     and unique splits set to zero.
package interpolate

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/phylomovie/newick"
)

// A Pair is the reconciliation context
// of two neighbor trees
// that share a leaf set.
// The source trees are copied and normalized
// at construction,
// so a Pair never aliases its input.
type Pair struct {
	ix     *newick.LeafIndex
	t1, t2 *newick.Node
	ln1    map[string]float64
	ln2    map[string]float64
}

// NewPair creates the reconciliation context
// for two trees.
// Both trees must contain
// exactly the terminals of the leaf index.
func NewPair(t1, t2 *newick.Node, ix *newick.LeafIndex) (*Pair, error) {
	if err := ix.SameLeaves(t1); err != nil {
		return nil, fmt.Errorf("interpolate: first tree: %v", err)
	}
	if err := ix.SameLeaves(t2); err != nil {
		return nil, fmt.Errorf("interpolate: second tree: %v", err)
	}

	n1, err := Normalize(t1, ix)
	if err != nil {
		return nil, fmt.Errorf("interpolate: first tree: %v", err)
	}
	n2, err := Normalize(t2, ix)
	if err != nil {
		return nil, fmt.Errorf("interpolate: second tree: %v", err)
	}

	p := &Pair{
		ix:  ix,
		t1:  n1,
		t2:  n2,
		ln1: make(map[string]float64),
		ln2: make(map[string]float64),
	}
	splitLengths(n1, ix, p.ln1)
	splitLengths(n2, ix, p.ln2)
	return p, nil
}

// First returns the normalized copy
// of the first tree of the pair.
func (p *Pair) First() *newick.Node {
	return p.t1
}

// Last returns the normalized copy
// of the second tree of the pair.
func (p *Pair) Last() *newick.Node {
	return p.t2
}

// RampDown returns a tree
// with the topology of the first tree,
// shared splits set to the average length
// of the two trees
// and unique splits set to zero.
func (p *Pair) RampDown() *newick.Node {
	t, _ := ramp(p.t1, p.ix, p.ln2)
	return t
}

// RampUp is the mirror of RampDown,
// on the topology of the second tree.
func (p *Pair) RampUp() *newick.Node {
	t, _ := ramp(p.t2, p.ix, p.ln1)
	return t
}

// CollapseDown returns a tree
// with the topology of the first tree
// in which every internal branch
// not shared with the second tree
// is removed,
// its children spliced into the parent
// at the same position.
// Shared splits keep the averaged length.
func (p *Pair) CollapseDown() *newick.Node {
	t, _, _ := collapse(p.t1, p.ix, p.ln2)
	return t
}

// CollapseUp is the mirror of CollapseDown,
// on the topology of the second tree.
func (p *Pair) CollapseUp() *newick.Node {
	t, _, _ := collapse(p.t2, p.ix, p.ln1)
	return t
}

// Frames returns the four intermediate trees
// of the pair
// in animation order.
func (p *Pair) Frames() []*newick.Node {
	return []*newick.Node{
		p.RampDown(),
		p.CollapseDown(),
		p.CollapseUp(),
		p.RampUp(),
	}
}

// Sequence builds the flat animation sequence
// of a list of trees:
// each pair of neighbor trees is expanded
// to the first tree
// followed by its four intermediate trees,
// and the last tree of the list
// closes the sequence.
// The sequence has a fixed stride of five trees
// per neighbor pair.
func Sequence(trees []*newick.Node, ix *newick.LeafIndex) ([]*newick.Node, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("interpolate: empty tree list")
	}
	if len(trees) == 1 {
		t, err := Normalize(trees[0], ix)
		if err != nil {
			return nil, err
		}
		return []*newick.Node{t}, nil
	}

	var seq []*newick.Node
	for i := 0; i+1 < len(trees); i++ {
		p, err := NewPair(trees[i], trees[i+1], ix)
		if err != nil {
			return nil, fmt.Errorf("interpolate: pair %d: %v", i, err)
		}
		seq = append(seq, p.First())
		seq = append(seq, p.Frames()...)
		if i+2 == len(trees) {
			seq = append(seq, p.Last())
		}
	}
	return seq, nil
}

// Normalize returns a copy of a tree
// in canonical form:
// children sorted
// by their smallest descendant leaf index,
// single-child nodes spliced out,
// and every terminal known to the leaf index.
func Normalize(t *newick.Node, ix *newick.LeafIndex) (*newick.Node, error) {
	c := t.Copy()
	if _, err := canonize(c, ix); err != nil {
		return nil, err
	}
	for len(c.Children) == 1 {
		c = c.Children[0]
	}
	return c, nil
}

// Canonize sorts the children of a node
// and returns its split
// (the sorted indices of its terminals).
func canonize(n *newick.Node, ix *newick.LeafIndex) ([]int, error) {
	if n.IsTerm() {
		i, ok := ix.Index(n.Name)
		if !ok {
			return nil, fmt.Errorf("terminal %q not in leaf index", n.Name)
		}
		return []int{i}, nil
	}

	splits := make(map[*newick.Node][]int, len(n.Children))
	var full []int
	for i, c := range n.Children {
		sp, err := canonize(c, ix)
		if err != nil {
			return nil, err
		}
		// splice single child nodes
		for len(c.Children) == 1 {
			c = c.Children[0]
			n.Children[i] = c
		}
		splits[c] = sp
		full = append(full, sp...)
	}
	slices.SortFunc(n.Children, func(a, b *newick.Node) int {
		return splits[a][0] - splits[b][0]
	})
	slices.Sort(full)
	return full, nil
}

// SplitKey returns the map key of a split.
func splitKey(sp []int) string {
	var sb strings.Builder
	for i, v := range sp {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// SplitLengths stores the branch length
// of every split of a canonical tree
// into the given map.
func splitLengths(n *newick.Node, ix *newick.LeafIndex, ln map[string]float64) []int {
	if n.IsTerm() {
		i, _ := ix.Index(n.Name)
		sp := []int{i}
		ln[splitKey(sp)] = n.Length
		return sp
	}
	var sp []int
	for _, c := range n.Children {
		sp = append(sp, splitLengths(c, ix, ln)...)
	}
	slices.Sort(sp)
	ln[splitKey(sp)] = n.Length
	return sp
}

// Ramp copies a canonical tree
// setting shared splits to the averaged length
// and unique splits to zero.
func ramp(n *newick.Node, ix *newick.LeafIndex, other map[string]float64) (*newick.Node, []int) {
	c := &newick.Node{Name: n.Name}
	var sp []int
	if n.IsTerm() {
		i, _ := ix.Index(n.Name)
		sp = []int{i}
	} else {
		c.Children = make([]*newick.Node, 0, len(n.Children))
		for _, d := range n.Children {
			cd, dsp := ramp(d, ix, other)
			c.Children = append(c.Children, cd)
			sp = append(sp, dsp...)
		}
		slices.Sort(sp)
	}
	if ol, ok := other[splitKey(sp)]; ok {
		c.Length = (n.Length + ol) / 2
	}
	return c, sp
}

// Collapse copies a canonical tree
// removing the internal branches
// whose split is not present in the other tree;
// the children of a removed branch
// are spliced into its parent
// at the branch position.
// The bool result reports whether the node split
// is shared with the other tree.
func collapse(n *newick.Node, ix *newick.LeafIndex, other map[string]float64) (*newick.Node, []int, bool) {
	c := &newick.Node{Name: n.Name}
	var sp []int
	if n.IsTerm() {
		i, _ := ix.Index(n.Name)
		sp = []int{i}
	} else {
		for _, d := range n.Children {
			cd, dsp, shared := collapse(d, ix, other)
			if !shared && !cd.IsTerm() {
				c.Children = append(c.Children, cd.Children...)
			} else {
				c.Children = append(c.Children, cd)
			}
			sp = append(sp, dsp...)
		}
		slices.Sort(sp)
	}
	ol, ok := other[splitKey(sp)]
	if ok {
		c.Length = (n.Length + ol) / 2
	}
	return c, sp, ok
}
