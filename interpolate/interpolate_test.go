// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package interpolate_test

import (
	"reflect"
	"testing"

	"github.com/js-arias/phylomovie/interpolate"
	"github.com/js-arias/phylomovie/newick"
)

func makePair(t testing.TB, nw1, nw2 string) (*interpolate.Pair, *newick.LeafIndex) {
	t.Helper()

	t1, err := newick.Parse(nw1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t2, err := newick.Parse(nw2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ix, err := newick.NewLeafIndex(t1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := interpolate.NewPair(t1, t2, ix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p, ix
}

func TestNormalize(t *testing.T) {
	tests := map[string]struct {
		in  string
		out string
	}{
		"sorted": {
			in:  "((D:4,C:3):5,B:2,A:1);",
			out: "(A:1,B:2,(C:3,D:4):5):1;",
		},
		"unary spliced": {
			in:  "(A:1,(((B:2):3):4,C:5):6);",
			out: "(A:1,(B:2,C:5):6):1;",
		},
	}

	ref, err := newick.Parse("(A:1,B:1,C:1,D:1);")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ix, err := newick.NewLeafIndex(ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, test := range tests {
		tr, err := newick.Parse(test.in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		n, err := interpolate.Normalize(tr, ix)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if nw := n.Newick(); nw != test.out {
			t.Errorf("%s: got %q, want %q", name, nw, test.out)
		}
	}
}

func TestPairIdentical(t *testing.T) {
	// a pure child reordering is the same tree
	p, _ := makePair(t, "(A:1,B:2,(C:3,D:4):5);", "((D:4,C:3):5,B:2,A:1);")

	want := p.First().Newick()
	if nw := p.Last().Newick(); nw != want {
		t.Errorf("got %q, want %q", nw, want)
	}
	for i, f := range p.Frames() {
		if nw := f.Newick(); nw != want {
			t.Errorf("frame %d: got %q, want %q", i, nw, want)
		}
	}
}

func TestPairRamp(t *testing.T) {
	p, _ := makePair(t, "(A:1,B:2,(C:3,D:5):4);", "(A:3,(B:2,D:5):2,C:3);")

	// the split C+D is unique to the first tree
	// and is set to zero;
	// shared splits take the average length
	down := "(A:2,B:2,(C:3,D:5):0):1;"
	if nw := p.RampDown().Newick(); nw != down {
		t.Errorf("ramp down: got %q, want %q", nw, down)
	}
	up := "(A:2,(B:2,D:5):0,C:3):1;"
	if nw := p.RampUp().Newick(); nw != up {
		t.Errorf("ramp up: got %q, want %q", nw, up)
	}
}

func TestPairCollapse(t *testing.T) {
	p, _ := makePair(t, "(A:1,B:2,(C:3,D:5):4);", "(A:3,(B:2,D:5):2,C:3);")

	// the unique branch is removed
	// and its children join the root
	// at the branch position
	cd := "(A:2,B:2,C:3,D:5):1;"
	if nw := p.CollapseDown().Newick(); nw != cd {
		t.Errorf("collapse down: got %q, want %q", nw, cd)
	}
	cu := "(A:2,B:2,D:5,C:3):1;"
	if nw := p.CollapseUp().Newick(); nw != cu {
		t.Errorf("collapse up: got %q, want %q", nw, cu)
	}
}

func TestPairMultifurcation(t *testing.T) {
	// collapsing a branch with three children
	// grows the parent by two
	p, _ := makePair(t, "(A:1,(B:1,C:1,D:1):1,E:1);", "(A:1,B:1,C:1,D:1,E:1);")

	cd := p.CollapseDown()
	if len(cd.Children) != 5 {
		t.Errorf("got %d children, want %d", len(cd.Children), 5)
	}
	want := []string{"A", "B", "C", "D", "E"}
	if terms := cd.Terms(); !reflect.DeepEqual(terms, want) {
		t.Errorf("got terminals %v, want %v", terms, want)
	}
}

func TestSequence(t *testing.T) {
	trees := make([]*newick.Node, 3)
	for i, nw := range []string{
		"(A:1,B:2,(C:3,D:4):5);",
		"(A:1,C:2,(B:3,D:4):5);",
		"(A:1,D:2,(B:3,C:4):5);",
	} {
		tr, err := newick.Parse(nw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		trees[i] = tr
	}
	ix, err := newick.NewLeafIndex(trees[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seq, err := interpolate.Sequence(trees, ix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// five trees per pair plus the closing tree
	if len(seq) != 11 {
		t.Fatalf("got %d trees, want %d", len(seq), 11)
	}
	for i, s := range seq {
		if err := ix.SameLeaves(s); err != nil {
			t.Errorf("tree %d: %v", i, err)
		}
	}
	// trees at multiples of the stride
	// are the normalized source trees
	for i, tr := range trees {
		n, err := interpolate.Normalize(tr, ix)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, want := seq[5*i].Newick(), n.Newick(); got != want {
			t.Errorf("tree %d: got %q, want %q", 5*i, got, want)
		}
	}
}
