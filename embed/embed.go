// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package embed implements principal coordinate analysis
// of a pairwise distance matrix,
// to lay out a tree collection
// as points in a low dimensional space.
package embed

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Coords returns the principal coordinates
// of the items of a pairwise distance matrix,
// one row per item
// and one column per requested dimension.
//
// The coordinates are the eigenvectors
// of the double centered squared distances,
// scaled by the square root
// of their eigenvalues,
// in decreasing eigenvalue order.
// Dimensions beyond the significant
// positive eigenvalues
// are left as zeros.
func Coords(d mat.Symmetric, dims int) (*mat.Dense, error) {
	n := d.SymmetricDim()
	if n == 0 {
		return nil, fmt.Errorf("embed: empty distance matrix")
	}
	if dims < 1 {
		return nil, fmt.Errorf("embed: invalid number of dimensions: %d", dims)
	}

	// double centering of the squared distances
	sq := make([]float64, n*n)
	rows := make([]float64, n)
	tot := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := d.At(i, j)
			v *= v
			sq[i*n+j] = v
			rows[i] += v
			tot += v
		}
	}
	for i := range rows {
		rows[i] /= float64(n)
	}
	tot /= float64(n * n)

	b := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			b.SetSym(i, j, -0.5*(sq[i*n+j]-rows[i]-rows[j]+tot))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(b, true); !ok {
		return nil, fmt.Errorf("embed: eigendecomposition failed")
	}
	vals := eig.Values(nil)
	var vec mat.Dense
	eig.VectorsTo(&vec)

	// eigenvalues are in ascending order;
	// an eigenvalue within numerical noise of zero
	// is a degenerate axis
	// and must not produce coordinates
	out := mat.NewDense(n, dims, nil)
	tol := 1e-8 * math.Abs(vals[n-1])
	for k := 0; k < dims && k < n; k++ {
		c := n - 1 - k
		if vals[c] <= tol {
			break
		}
		s := math.Sqrt(vals[c])
		for i := 0; i < n; i++ {
			out.Set(i, k, vec.At(i, c)*s)
		}
	}
	return out, nil
}
