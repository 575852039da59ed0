// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package newick_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/phylomovie/newick"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		in    string
		terms []string
		out   string
	}{
		"simple": {
			in:    "(A:1,B:2,(C:3,D:4):5);",
			terms: []string{"A", "B", "C", "D"},
			out:   "(A:1,B:2,(C:3,D:4):5):1;",
		},
		"no lengths": {
			in:    "(A,B,(C,D));",
			terms: []string{"A", "B", "C", "D"},
			out:   "(A:1,B:1,(C:1,D:1):1):1;",
		},
		"single child root": {
			in:    "((A:1,B:2):3);",
			terms: []string{"A", "B"},
			out:   "(A:1,B:2):3;",
		},
		"named internal": {
			in:    "(A:1,(B:1,C:1)clade:2);",
			terms: []string{"A", "B", "C"},
			out:   "(A:1,(B:1,C:1)clade:2):1;",
		},
		"zero length": {
			in:    "(A:0,B:1);",
			terms: []string{"A", "B"},
			out:   "(A:0,B:1):1;",
		},
		"invalid length defaults": {
			in:    "(A:xx,B:1);",
			terms: []string{"A", "B"},
			out:   "(A:1,B:1):1;",
		},
	}

	for name, test := range tests {
		tr, err := newick.Parse(test.in)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if terms := tr.Terms(); !reflect.DeepEqual(terms, test.terms) {
			t.Errorf("%s: got terminals %v, want %v", name, terms, test.terms)
		}
		if nw := tr.Newick(); nw != test.out {
			t.Errorf("%s: got %q, want %q", name, nw, test.out)
		}
	}
}

func TestParseError(t *testing.T) {
	tests := map[string]string{
		"empty":      "",
		"unbalanced": "(A,(B,C);",
		"bad comma":  "A,B;",
		"bad close":  "A,B));",
	}
	for name, in := range tests {
		if _, err := newick.Parse(in); err == nil {
			t.Errorf("%s: expecting error for %q", name, in)
		}
	}
}

func TestReadString(t *testing.T) {
	in := "(A:1,B:1,(C:1,D:1):1);\n\n(A:1,C:1,(B:1,D:1):1);\n"
	trees, err := newick.ReadString(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trees) != 2 {
		t.Fatalf("got %d trees, want %d", len(trees), 2)
	}

	if _, err := newick.ReadString("   "); err == nil {
		t.Errorf("expecting error on empty input")
	}
}

func TestReadNexus(t *testing.T) {
	in := `#NEXUS
[ comment ]
BEGIN TAXA;
	DIMENSIONS NTAX=4;
END;
BEGIN TREES;
	TREE one = (A:1,B:1,(C:1,D:1):1);
	TREE two = [&R] (A:1,C:1,(B:1,D:1):1);
END;
`
	trees, err := newick.ReadString(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trees) != 2 {
		t.Fatalf("got %d trees, want %d", len(trees), 2)
	}
	want := []string{"A", "B", "C", "D"}
	if terms := trees[0].Terms(); !reflect.DeepEqual(terms, want) {
		t.Errorf("got terminals %v, want %v", terms, want)
	}
	want = []string{"A", "C", "B", "D"}
	if terms := trees[1].Terms(); !reflect.DeepEqual(terms, want) {
		t.Errorf("got terminals %v, want %v", terms, want)
	}

	if _, err := newick.ReadString("#NEXUS\nBEGIN DATA;\nEND;\n"); err == nil {
		t.Errorf("expecting error on a document without trees")
	}
}

func TestLeafIndex(t *testing.T) {
	tr, err := newick.Parse("(A:1,B:1,(C:1,D:1):1);")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ix, err := newick.NewLeafIndex(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ix.Len() != 4 {
		t.Errorf("got %d terminals, want %d", ix.Len(), 4)
	}
	for i, nm := range []string{"A", "B", "C", "D"} {
		v, ok := ix.Index(nm)
		if !ok || v != i {
			t.Errorf("terminal %q: got index %d, want %d", nm, v, i)
		}
		if ix.Name(i) != nm {
			t.Errorf("index %d: got name %q, want %q", i, ix.Name(i), nm)
		}
	}

	// a valid explicit order
	nx, err := ix.WithOrder([]string{"D", "C", "B", "A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := nx.Index("D"); v != 0 {
		t.Errorf("terminal %q: got index %d, want %d", "D", v, 0)
	}

	// an invalid order falls back to the receiver
	nx, err = ix.WithOrder([]string{"D", "C", "B", "X"})
	if err == nil {
		t.Errorf("expecting error on invalid leaf order")
	}
	if !strings.Contains(err.Error(), "A") || !strings.Contains(err.Error(), "X") {
		t.Errorf("error %q: should report mismatched terminals", err)
	}
	if nx != ix {
		t.Errorf("invalid order: expecting the original index")
	}

	other, err := newick.Parse("(A:1,C:1,(B:1,D:1):1);")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ix.SameLeaves(other); err != nil {
		t.Errorf("same leaves: unexpected error: %v", err)
	}
	bad, err := newick.Parse("(A:1,C:1,(B:1,X:1):1);")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ix.SameLeaves(bad); err == nil {
		t.Errorf("expecting error on a different leaf set")
	}
}

func TestPrune(t *testing.T) {
	tr, err := newick.Parse("(A:1,B:2,(C:3,D:4):5);")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := tr.Prune(map[string]bool{"C": true})
	want := []string{"A", "B", "D"}
	if terms := p.Terms(); !reflect.DeepEqual(terms, want) {
		t.Errorf("got terminals %v, want %v", terms, want)
	}
	// the unary node is spliced out,
	// D keeps its own branch length
	if nw := p.Newick(); nw != "(A:1,B:2,D:4):1;" {
		t.Errorf("got %q, want %q", nw, "(A:1,B:2,D:4):1;")
	}

	// the original tree is unchanged
	if nw := tr.Newick(); nw != "(A:1,B:2,(C:3,D:4):5):1;" {
		t.Errorf("source modified: got %q", nw)
	}

	if p := tr.Prune(map[string]bool{"A": true, "B": true, "C": true, "D": true}); p != nil {
		t.Errorf("expecting a nil tree")
	}
}

func TestCopy(t *testing.T) {
	tr, err := newick.Parse("(A:1,B:2,(C:3,D:4):5);")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := tr.Copy()
	c.Children[0].Length = 100
	c.Children[2].Children[0].Name = "X"
	if nw := tr.Newick(); nw != "(A:1,B:2,(C:3,D:4):5):1;" {
		t.Errorf("source modified: got %q", nw)
	}
}
