// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package distance implements tree distances
// between the trees of a tree sequence.
//
// The Robinson-Foulds distance of a pair
// is taken from the consensus trees of the pair:
// every internal branch
// removed by a collapse
// is a branch unique to its tree.
// The weighted distance is the sum
// of the absolute length differences
// of the internal branches of the two trees,
// a branch absent from a tree
// counting as zero.
package distance

import (
	"fmt"
	"math"
	"slices"

	"github.com/js-arias/phylomovie/interpolate"
	"github.com/js-arias/phylomovie/newick"
	"gonum.org/v1/gonum/mat"
)

// RobinsonFoulds is the Robinson-Foulds distance
// between two neighbor trees.
// The relative distance is the absolute distance
// scaled by the total number of internal branches
// of the two trees.
type RobinsonFoulds struct {
	Absolute float64
	Relative float64
}

// RF returns the Robinson-Foulds distance
// between two trees.
func RF(t1, t2 *newick.Node, ix *newick.LeafIndex) (RobinsonFoulds, error) {
	p, err := interpolate.NewPair(t1, t2, ix)
	if err != nil {
		return RobinsonFoulds{}, err
	}
	return pairRF(p), nil
}

func pairRF(p *interpolate.Pair) RobinsonFoulds {
	i1 := internalEdges(p.First())
	i2 := internalEdges(p.Last())
	d := float64(i1-internalEdges(p.CollapseDown())) + float64(i2-internalEdges(p.CollapseUp()))

	rf := RobinsonFoulds{Absolute: d}
	if i1+i2 > 0 {
		rf.Relative = d / float64(i1+i2)
	}
	return rf
}

// Series returns the Robinson-Foulds distance
// of every pair of neighbor trees
// of a tree sequence.
func Series(trees []*newick.Node, ix *newick.LeafIndex) ([]RobinsonFoulds, error) {
	if len(trees) < 2 {
		return nil, nil
	}
	ds := make([]RobinsonFoulds, 0, len(trees)-1)
	for i := 0; i+1 < len(trees); i++ {
		p, err := interpolate.NewPair(trees[i], trees[i+1], ix)
		if err != nil {
			return nil, fmt.Errorf("distance: pair %d: %v", i, err)
		}
		ds = append(ds, pairRF(p))
	}
	return ds, nil
}

// Weighted returns the weighted Robinson-Foulds distance
// between two trees.
func Weighted(t1, t2 *newick.Node, ix *newick.LeafIndex) (float64, error) {
	n1, err := interpolate.Normalize(t1, ix)
	if err != nil {
		return 0, err
	}
	n2, err := interpolate.Normalize(t2, ix)
	if err != nil {
		return 0, err
	}

	ln1 := make(map[string]float64)
	internalLengths(n1, ix, ln1)
	ln2 := make(map[string]float64)
	internalLengths(n2, ix, ln2)

	sum := 0.0
	for k, v := range ln1 {
		sum += math.Abs(v - ln2[k])
	}
	for k, v := range ln2 {
		if _, ok := ln1[k]; ok {
			continue
		}
		sum += math.Abs(v)
	}
	return sum, nil
}

// WeightedSeries returns the weighted Robinson-Foulds distance
// of every pair of neighbor trees
// of a tree sequence.
func WeightedSeries(trees []*newick.Node, ix *newick.LeafIndex) ([]float64, error) {
	if len(trees) < 2 {
		return nil, nil
	}
	ds := make([]float64, 0, len(trees)-1)
	for i := 0; i+1 < len(trees); i++ {
		d, err := Weighted(trees[i], trees[i+1], ix)
		if err != nil {
			return nil, fmt.Errorf("distance: pair %d: %v", i, err)
		}
		ds = append(ds, d)
	}
	return ds, nil
}

// A Metric is a pairwise tree distance.
type Metric func(t1, t2 *newick.Node, ix *newick.LeafIndex) (float64, error)

// AbsoluteRF is the absolute Robinson-Foulds distance
// as a Metric.
func AbsoluteRF(t1, t2 *newick.Node, ix *newick.LeafIndex) (float64, error) {
	rf, err := RF(t1, t2, ix)
	if err != nil {
		return 0, err
	}
	return rf.Absolute, nil
}

// RelativeRF is the relative Robinson-Foulds distance
// as a Metric.
func RelativeRF(t1, t2 *newick.Node, ix *newick.LeafIndex) (float64, error) {
	rf, err := RF(t1, t2, ix)
	if err != nil {
		return 0, err
	}
	return rf.Relative, nil
}

// Matrix returns the symmetric matrix
// of the pairwise distances
// between all trees of a collection.
func Matrix(trees []*newick.Node, ix *newick.LeafIndex, fn Metric) (*mat.SymDense, error) {
	n := len(trees)
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d, err := fn(trees[i], trees[j], ix)
			if err != nil {
				return nil, fmt.Errorf("distance: trees %d-%d: %v", i, j, err)
			}
			m.SetSym(i, j, d)
		}
	}
	return m, nil
}

// InternalEdges counts the internal branches of a tree
// (i.e., the branches that subtend an internal node).
func internalEdges(t *newick.Node) int {
	n := 0
	for _, c := range t.Children {
		if c.IsTerm() {
			continue
		}
		n += internalEdges(c) + 1
	}
	return n
}

// InternalLengths stores the branch length
// of every internal node of a canonical tree,
// the root included,
// keyed by its split.
func internalLengths(n *newick.Node, ix *newick.LeafIndex, ln map[string]float64) []int {
	if n.IsTerm() {
		i, _ := ix.Index(n.Name)
		return []int{i}
	}
	var sp []int
	for _, c := range n.Children {
		sp = append(sp, internalLengths(c, ix, ln)...)
	}
	slices.Sort(sp)
	ln[splitKey(sp)] = n.Length
	return sp
}

func splitKey(sp []int) string {
	var sb []byte
	for i, v := range sp {
		if i > 0 {
			sb = append(sb, ',')
		}
		sb = fmt.Appendf(sb, "%d", v)
	}
	return string(sb)
}
