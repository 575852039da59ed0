// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package movie builds the animation document
// of a tree sequence:
// the interpolated tree list,
// the distances between neighbor trees,
// and the taxa that jump on each transition,
// ready to be serialized as JSON
// for a movie player.
package movie

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/js-arias/phylomovie/distance"
	"github.com/js-arias/phylomovie/interpolate"
	"github.com/js-arias/phylomovie/jump"
	"github.com/js-arias/phylomovie/newick"
)

// A Tree is a tree in the animation document.
type Tree struct {
	Name     string  `json:"name"`
	Length   float64 `json:"length"`
	Children []*Tree `json:"children,omitempty"`
}

// NewTree builds a document tree
// from a tree node.
func NewTree(n *newick.Node) *Tree {
	t := &Tree{
		Name:   n.Name,
		Length: n.Length,
	}
	for _, c := range n.Children {
		t.Children = append(t.Children, NewTree(c))
	}
	return t
}

// An RFD is the Robinson-Foulds distance
// of a neighbor pair,
// located by the source tree number
// and by the position of the pair
// in the animation sequence.
type RFD struct {
	Tree           int            `json:"tree"`
	ConsensusIndex int            `json:"consensus_index"`
	RobinsonFoulds RobinsonFoulds `json:"robinson_foulds"`
}

// A RobinsonFoulds is a Robinson-Foulds distance
// in the animation document.
type RobinsonFoulds struct {
	Absolute float64 `json:"absolute"`
	Relative float64 `json:"relative"`
}

// A Data is an animation document.
type Data struct {
	Trees       []*Tree    `json:"tree_list"`
	RFD         []RFD      `json:"rfd_list"`
	WeightedRFD []float64  `json:"weighted_rfd_list"`
	Highlights  [][]string `json:"to_be_highlighted"`
	Leaves      []string   `json:"sorted_leaves"`
	FileName    string     `json:"file_name"`

	// warnings collected while building the document
	Warnings []string `json:"-"`
}

// New builds the animation document
// of a tree sequence.
// All trees must have the terminals
// of the leaf index.
//
// A transition in which the jumping taxa search fails
// is reported with an empty highlight list
// and a warning in the document.
func New(name string, trees []*newick.Node, ix *newick.LeafIndex) (*Data, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("movie: empty tree list")
	}
	for i, t := range trees {
		if err := ix.SameLeaves(t); err != nil {
			return nil, fmt.Errorf("movie: tree %d: %v", i, err)
		}
	}

	seq, err := interpolate.Sequence(trees, ix)
	if err != nil {
		return nil, fmt.Errorf("movie: %v", err)
	}
	rfs, err := distance.Series(trees, ix)
	if err != nil {
		return nil, fmt.Errorf("movie: %v", err)
	}
	ws, err := distance.WeightedSeries(trees, ix)
	if err != nil {
		return nil, fmt.Errorf("movie: %v", err)
	}

	if ws == nil {
		ws = []float64{}
	}
	d := &Data{
		Trees:       make([]*Tree, 0, len(seq)),
		RFD:         make([]RFD, 0, len(rfs)),
		WeightedRFD: ws,
		Highlights:  make([][]string, 0, len(rfs)),
		Leaves:      ix.Names(),
		FileName:    name,
	}
	for _, t := range seq {
		d.Trees = append(d.Trees, NewTree(t))
	}
	for i, rf := range rfs {
		d.RFD = append(d.RFD, RFD{
			Tree:           i,
			ConsensusIndex: 5 * i,
			RobinsonFoulds: RobinsonFoulds{
				Absolute: rf.Absolute,
				Relative: rf.Relative,
			},
		})
	}

	for i := 0; i+1 < len(trees); i++ {
		taxa, err := jump.Taxa(trees[i], trees[i+1])
		if err != nil {
			d.Warnings = append(d.Warnings, fmt.Sprintf("transition %d: %v", i, err))
			taxa = []string{}
		}
		d.Highlights = append(d.Highlights, taxa)
	}
	return d, nil
}

// Write writes the animation document
// as indented JSON.
func (d *Data) Write(w io.Writer) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(d); err != nil {
		return fmt.Errorf("movie: %v", err)
	}
	return nil
}
