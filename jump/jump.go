// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package jump identifies the taxa
// that move between two neighbor trees
// of a tree sequence.
//
// The two trees are reconciled
// as in package interpolate,
// so that a branch with a positive length
// is shared by both trees
// and a branch with a zero length
// is unique to its tree.
// Branches that subtend at least one zero branch
// are candidate displacement edges;
// each candidate collects the connected groups
// that hang from it in both trees
// and votes for the smallest,
// most repeated difference between the groups.
// Taxa selected by any candidate
// are reported as jumping taxa;
// the search is repeated
// with the jumping taxa removed
// until no new taxon is added.
package jump

import (
	"fmt"
	"slices"
	"strings"

	"github.com/js-arias/phylomovie/interpolate"
	"github.com/js-arias/phylomovie/newick"
)

// An edgeType is the classification of a branch
// by the lengths of the branch
// and of its children.
type edgeType int

const (
	// a terminal branch
	edgeLeaf edgeType = iota

	// a positive branch
	// in which all children are zero
	edgeFull

	// a positive branch
	// in which some children are zero
	edgePartial

	// a zero branch
	// in which all children are positive
	edgeAnti

	// any other internal branch
	edgeNone
)

func (e edgeType) String() string {
	switch e {
	case edgeLeaf:
		return "leaf"
	case edgeFull:
		return "full"
	case edgePartial:
		return "partial"
	case edgeAnti:
		return "anti"
	}
	return "none"
}

// A component is a connected group of terminals,
// stored as sorted leaf indices.
type component []int

// A group is an ordered collection of components.
type group []component

// CompKey returns the map key of a component.
func compKey(c component) string {
	var sb strings.Builder
	for i, v := range c {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", v)
	}
	return sb.String()
}

// GroupKey returns the map key of a group.
func groupKey(g group) string {
	var sb strings.Builder
	for i, c := range g {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(compKey(c))
	}
	return sb.String()
}

// CmpComponent compares two components
// by their indices.
func cmpComponent(a, b component) int {
	return slices.Compare(a, b)
}

// CmpGroup compares two groups
// component by component.
func cmpGroup(a, b group) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmpComponent(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// A node is a tree node
// annotated with its split.
type node struct {
	key      string
	split    component
	length   float64
	children []*node
}

func makeNode(n *newick.Node, ix *newick.LeafIndex) (*node, error) {
	nd := &node{length: n.Length}
	if n.IsTerm() {
		i, ok := ix.Index(n.Name)
		if !ok {
			return nil, fmt.Errorf("jump: terminal %q not in leaf index", n.Name)
		}
		nd.split = component{i}
		nd.key = compKey(nd.split)
		return nd, nil
	}
	for _, c := range n.Children {
		cd, err := makeNode(c, ix)
		if err != nil {
			return nil, err
		}
		nd.children = append(nd.children, cd)
		nd.split = append(nd.split, cd.split...)
	}
	slices.Sort(nd.split)
	nd.key = compKey(nd.split)
	return nd, nil
}

// Classify returns the type of a branch.
func classify(n *node) edgeType {
	if len(n.children) == 0 {
		return edgeLeaf
	}
	zero := 0
	for _, c := range n.children {
		if c.length == 0 {
			zero++
		}
	}
	switch {
	case n.length > 0 && zero == len(n.children):
		return edgeFull
	case n.length > 0 && zero > 0:
		return edgePartial
	case n.length == 0 && zero == 0:
		return edgeAnti
	}
	return edgeNone
}

// A funcTree indexes a reconciled tree
// for the displacement search.
type funcTree struct {
	// branch type by split
	types map[string]edgeType

	// splits of the candidate branches
	// (full and partial branches)
	sedges map[string]bool

	// split of the parent branch,
	// by child split
	parent map[string]string

	// connected groups hanging from a branch,
	// one group per child,
	// by split
	arms map[string][]group
}

func makeFuncTree(t *node) *funcTree {
	f := &funcTree{
		types:  make(map[string]edgeType),
		sedges: make(map[string]bool),
		parent: make(map[string]string),
		arms:   make(map[string][]group),
	}
	f.index(t)
	return f
}

func (f *funcTree) index(n *node) {
	e := classify(n)
	f.types[n.key] = e
	if e == edgeFull || e == edgePartial {
		f.sedges[n.key] = true
	}
	if len(n.children) == 0 {
		return
	}
	arms := make([]group, 0, len(n.children))
	for _, c := range n.children {
		f.parent[c.key] = n.key
		arms = append(arms, arm(c))
		f.index(c)
	}
	f.arms[n.key] = arms
}

// Arm returns the connected groups
// that hang from a child branch:
// a positive branch or a terminal
// is a single group with its own split;
// a zero internal branch is transparent
// and exposes the groups of its children.
func arm(n *node) group {
	if n.length != 0 || len(n.children) == 0 {
		return group{n.split}
	}
	var g group
	for _, c := range n.children {
		g = append(g, arm(c)...)
	}
	slices.SortFunc(g, cmpComponent)
	return g
}

// Ancestor returns the type of the parent branch
// of a component.
// It is an error if the component
// is not a branch of the tree.
func (f *funcTree) ancestor(c component) (edgeType, error) {
	p, ok := f.parent[compKey(c)]
	if !ok {
		return edgeNone, fmt.Errorf("jump: component %v: no such branch", []int(c))
	}
	return f.types[p], nil
}

// Taxa returns the sorted names of the taxa
// that move between two trees.
// Both trees must have the same terminals.
func Taxa(t1, t2 *newick.Node) ([]string, error) {
	total := make(map[string]bool)
	max := len(t1.Terms())

	w1, w2 := t1, t2
	for iter := 0; iter < max; iter++ {
		ix, err := newick.NewLeafIndex(w1)
		if err != nil {
			return nil, err
		}
		if err := ix.SameLeaves(w2); err != nil {
			return nil, err
		}

		names, err := round(w1, w2, ix)
		if err != nil {
			return nil, err
		}

		added := false
		for _, nm := range names {
			if !total[nm] {
				total[nm] = true
				added = true
			}
		}
		if !added {
			break
		}
		// keep at least four terminals
		if ix.Len()-len(names) < 4 {
			break
		}

		del := make(map[string]bool, len(names))
		for _, nm := range names {
			del[nm] = true
		}
		w1 = w1.Prune(del)
		w2 = w2.Prune(del)
	}

	taxa := make([]string, 0, len(total))
	for nm := range total {
		taxa = append(taxa, nm)
	}
	slices.Sort(taxa)
	return taxa, nil
}

// Round runs a single search
// over a pair of trees.
func round(t1, t2 *newick.Node, ix *newick.LeafIndex) ([]string, error) {
	p, err := interpolate.NewPair(t1, t2, ix)
	if err != nil {
		return nil, err
	}
	f1, err := indexTree(p.RampDown(), ix)
	if err != nil {
		return nil, err
	}
	f2, err := indexTree(p.RampUp(), ix)
	if err != nil {
		return nil, err
	}

	verdict, err := voteAll(f1, f2)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(verdict))
	for _, i := range verdict {
		names = append(names, ix.Name(i))
	}
	return names, nil
}

func indexTree(t *newick.Node, ix *newick.LeafIndex) (*funcTree, error) {
	nd, err := makeNode(t, ix)
	if err != nil {
		return nil, err
	}
	return makeFuncTree(nd), nil
}

// VoteAll runs the vote of every candidate branch
// and returns the union of the elected taxa
// as sorted leaf indices.
func voteAll(f1, f2 *funcTree) ([]int, error) {
	cand := make(map[string]bool, len(f1.sedges)+len(f2.sedges))
	for k := range f1.sedges {
		cand[k] = true
	}
	for k := range f2.sedges {
		cand[k] = true
	}
	keys := make([]string, 0, len(cand))
	for k := range cand {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	elected := make(map[int]bool)
	for _, k := range keys {
		win, err := voteEdge(k, f1, f2)
		if err != nil {
			return nil, err
		}
		for _, g := range win {
			for _, c := range g {
				for _, i := range c {
					elected[i] = true
				}
			}
		}
	}

	verdict := make([]int, 0, len(elected))
	for i := range elected {
		verdict = append(verdict, i)
	}
	slices.Sort(verdict)
	return verdict, nil
}

// VoteEdge votes a single candidate branch,
// dispatching on the types of the branch
// in both trees.
func voteEdge(key string, f1, f2 *funcTree) ([]group, error) {
	e1, ok := f1.types[key]
	if !ok {
		return nil, fmt.Errorf("jump: candidate %q: not a branch of the first tree", key)
	}
	e2, ok := f2.types[key]
	if !ok {
		return nil, fmt.Errorf("jump: candidate %q: not a branch of the second tree", key)
	}

	switch {
	case e1 == edgePartial && e2 == edgePartial:
		return votePartial(key, f1, f2)
	case e1 == edgePartial && e2 == edgeNone:
		return voteOneSide(key, f1)
	case e1 == edgeNone && e2 == edgePartial:
		return voteOneSide(key, f2)
	case e1 == edgeFull || e2 == edgeFull:
		return vote(f1.arms[key], f2.arms[key], false), nil
	}
	return nil, fmt.Errorf("jump: candidate %q: unexpected branch types %s-%s", key, e1, e2)
}

// Vote pools the intersection
// and the symmetric difference
// of every pair of groups,
// one from each side,
// and elects the most repeated pool entries
// of smallest size.
// Mirrored pairs are pooled only once.
func vote(c1, c2 []group, skipEmpty bool) []group {
	seen := make(map[string]bool)
	var pool []group
	for _, a := range c1 {
		for _, b := range c2 {
			ka, kb := groupKey(a), groupKey(b)
			pk := ka + "/" + kb
			if kb < ka {
				pk = kb + "/" + ka
			}
			if seen[pk] {
				continue
			}
			seen[pk] = true

			is, sd := groupDiff(a, b)
			if !skipEmpty || len(is) > 0 {
				pool = append(pool, is)
			}
			if !skipEmpty || len(sd) > 0 {
				pool = append(pool, sd)
			}
		}
	}
	return elect(pool)
}

// GroupDiff returns the intersection
// and the symmetric difference
// of two groups,
// by component identity.
func groupDiff(a, b group) (is, sd group) {
	in := make(map[string]int, len(a))
	for _, c := range a {
		in[compKey(c)]++
	}
	for _, c := range b {
		k := compKey(c)
		if in[k] > 0 {
			in[k]--
			is = append(is, c)
			continue
		}
		sd = append(sd, c)
	}
	for _, c := range a {
		k := compKey(c)
		if in[k] > 0 {
			in[k]--
			sd = append(sd, c)
		}
	}
	slices.SortFunc(is, cmpComponent)
	slices.SortFunc(sd, cmpComponent)
	return is, sd
}

// Elect selects the most repeated groups of a pool;
// among ties,
// the groups with the fewest components;
// the result is sorted.
func elect(pool []group) []group {
	if len(pool) == 0 {
		return nil
	}

	count := make(map[string]int, len(pool))
	uniq := make(map[string]group, len(pool))
	for _, g := range pool {
		k := groupKey(g)
		count[k]++
		uniq[k] = g
	}
	max := 0
	for _, v := range count {
		if v > max {
			max = v
		}
	}

	var win []group
	min := -1
	for k, v := range count {
		if v != max {
			continue
		}
		g := uniq[k]
		if min < 0 || len(g) < min {
			min = len(g)
			win = win[:0]
		}
		if len(g) == min {
			win = append(win, g)
		}
	}
	slices.SortFunc(win, cmpGroup)
	return win
}

// VotePartial votes a branch
// that is partial in both trees.
// On each side only the groups
// whose parent is partial in one tree
// and anti in the other
// take part in the vote.
func votePartial(key string, f1, f2 *funcTree) ([]group, error) {
	keep := func(c component) (bool, error) {
		a1, err := f1.ancestor(c)
		if err != nil {
			return false, err
		}
		a2, err := f2.ancestor(c)
		if err != nil {
			return false, err
		}
		p1, n1 := a1 == edgePartial, a1 == edgeAnti
		p2, n2 := a2 == edgePartial, a2 == edgeAnti
		return (p1 && n2) || (n1 && p2), nil
	}

	c1, err := filterArms(f1.arms[key], keep)
	if err != nil {
		return nil, err
	}
	c2, err := filterArms(f2.arms[key], keep)
	if err != nil {
		return nil, err
	}

	win := vote(c1, c2, true)
	return trimWinners(win), nil
}

// VoteOneSide votes a branch
// that is a candidate in a single tree.
// The groups owned by anti branches
// compete against the concatenation
// of the groups owned by partial branches;
// the smallest groups win.
func voteOneSide(key string, f *funcTree) ([]group, error) {
	var anti []group
	var merged group
	for _, g := range f.arms[key] {
		fg, err := filterGroup(g, func(c component) (bool, error) {
			e, err := f.ancestor(c)
			return e == edgeAnti, err
		})
		if err != nil {
			return nil, err
		}
		if len(fg) > 0 {
			anti = append(anti, fg)
		}
		pg, err := filterGroup(g, func(c component) (bool, error) {
			e, err := f.ancestor(c)
			return e == edgePartial, err
		})
		if err != nil {
			return nil, err
		}
		merged = append(merged, pg...)
	}

	pool := append([]group{merged}, anti...)
	min := -1
	for _, g := range pool {
		if min < 0 || len(g) < min {
			min = len(g)
		}
	}
	var win []group
	for _, g := range pool {
		if len(g) == min {
			win = append(win, g)
		}
	}
	return trimWinners(win), nil
}

// FilterArms filters the components
// of each group of a branch,
// dropping groups left empty.
func filterArms(arms []group, keep func(component) (bool, error)) ([]group, error) {
	var out []group
	for _, g := range arms {
		fg, err := filterGroup(g, keep)
		if err != nil {
			return nil, err
		}
		if len(fg) > 0 {
			out = append(out, fg)
		}
	}
	return out, nil
}

func filterGroup(g group, keep func(component) (bool, error)) (group, error) {
	var out group
	for _, c := range g {
		ok, err := keep(c)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// TrimWinners drops the last component
// of every winner group
// with more than one component,
// as the whole group moving
// is indistinguishable
// from its complement staying.
func trimWinners(win []group) []group {
	out := make([]group, 0, len(win))
	for _, g := range win {
		if len(g) > 1 {
			g = g[:len(g)-1]
		}
		out = append(out, g)
	}
	return out
}
