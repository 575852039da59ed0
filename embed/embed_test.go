// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package embed_test

import (
	"math"
	"testing"

	"github.com/js-arias/phylomovie/embed"
	"gonum.org/v1/gonum/mat"
)

func TestCoords(t *testing.T) {
	// three points on a line:
	// 0 --- 1 ----- 2
	//   2       3
	d := mat.NewSymDense(3, nil)
	d.SetSym(0, 1, 2)
	d.SetSym(1, 2, 3)
	d.SetSym(0, 2, 5)

	c, err := embed.Coords(d, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, cols := c.Dims()
	if r != 3 || cols != 2 {
		t.Fatalf("got %dx%d coordinates, want 3x2", r, cols)
	}

	// the embedding must recover the distances
	// on the first axis
	for _, p := range []struct {
		i, j int
		want float64
	}{
		{0, 1, 2},
		{1, 2, 3},
		{0, 2, 5},
	} {
		got := math.Abs(c.At(p.i, 0) - c.At(p.j, 0))
		if math.Abs(got-p.want) > 1e-10 {
			t.Errorf("points %d-%d: got distance %.6f, want %.6f", p.i, p.j, got, p.want)
		}
		// collinear points have no second axis
		if s := c.At(p.i, 1); math.Abs(s) > 1e-10 {
			t.Errorf("point %d: got second axis %.6f, want 0", p.i, s)
		}
	}
}

func TestCoordsDegenerate(t *testing.T) {
	// identical items:
	// every axis is numerical noise
	// and no coordinate may leak through
	d := mat.NewSymDense(4, nil)

	c, err := embed.Coords(d, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			if v := c.At(i, j); v != 0 {
				t.Errorf("point %d: got axis %d value %g, want 0", i, j+1, v)
			}
		}
	}
}

func TestCoordsError(t *testing.T) {
	d := mat.NewSymDense(3, nil)
	if _, err := embed.Coords(d, 0); err == nil {
		t.Errorf("expecting error on invalid dimensions")
	}
}
