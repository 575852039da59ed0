// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package jump_test

import (
	"reflect"
	"testing"

	"github.com/js-arias/phylomovie/jump"
	"github.com/js-arias/phylomovie/newick"
)

func taxa(t testing.TB, nw1, nw2 string) []string {
	t.Helper()

	t1, err := newick.Parse(nw1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t2, err := newick.Parse(nw2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names, err := jump.Taxa(t1, t2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return names
}

func TestTaxa(t *testing.T) {
	tests := map[string]struct {
		t1, t2 string
		want   []string
	}{
		"identical": {
			t1: "(A:1,B:1,(C:1,D:1):1);",
			t2: "(A:1,B:1,(C:1,D:1):1);",
		},
		"reordered children": {
			t1: "(A:1,B:1,(C:1,D:1):1);",
			t2: "((D:1,C:1):1,B:1,A:1);",
		},
		"different lengths only": {
			t1: "(A:1,B:2,(C:3,D:4):5);",
			t2: "(A:5,B:4,(C:3,D:2):1);",
		},
		"simple exchange": {
			t1:   "(A:1,B:1,(C:1,D:1):1);",
			t2:   "(A:1,C:1,(B:1,D:1):1);",
			want: []string{"B", "C"},
		},
		// the A+B clade survives the collapse
		// so only C is blamed
		"collapsed clade": {
			t1:   "(((A:1,B:1):1,C:1):1,(D:1,E:1):1,F:1);",
			t2:   "((A:1,B:1,C:1):1,(D:1,E:1):1,F:1);",
			want: []string{"C"},
		},
	}

	for name, test := range tests {
		got := taxa(t, test.t1, test.t2)
		if len(test.want) == 0 {
			if len(got) != 0 {
				t.Errorf("%s: got %v, want no taxa", name, got)
			}
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s: got %v, want %v", name, got, test.want)
		}
	}
}

func TestTaxaMovedLeaf(t *testing.T) {
	// G moves from the F pair
	// to be sister of the A+B pair
	t1 := "(((A:1,B:1):1,(C:1,D:1):1):1,(E:1,(F:1,G:1):1):1);"
	t2 := "((((A:1,B:1):1,G:1):1,(C:1,D:1):1):1,(E:1,F:1):1);"

	got := taxa(t, t1, t2)
	want := []string{"G"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTaxaDeterminism(t *testing.T) {
	t1 := "(((A:1,B:1):1,(C:1,D:1):1):1,((E:1,F:1):1,(G:1,H:1):1):1);"
	t2 := "(((A:1,D:1):1,(C:1,B:1):1):1,((E:1,H:1):1,(G:1,F:1):1):1);"

	first := taxa(t, t1, t2)
	for i := 0; i < 10; i++ {
		got := taxa(t, t1, t2)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: got %v, want %v", i, got, first)
		}
	}
}

func TestTaxaError(t *testing.T) {
	t1, err := newick.Parse("(A:1,B:1,(C:1,D:1):1);")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t2, err := newick.Parse("(A:1,B:1,(C:1,X:1):1);")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := jump.Taxa(t1, t2); err == nil {
		t.Errorf("expecting error on different leaf sets")
	}
}
