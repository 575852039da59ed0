// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package embedcmd implements a command to lay out
// the trees of a tree file
// as points in a low dimensional space.
package embedcmd

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/phylomovie/distance"
	"github.com/js-arias/phylomovie/embed"
	"github.com/js-arias/phylomovie/newick"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var Command = &command.Command{
	Usage: `embed [--dims <number>] [--weighted]
	[--plot <png-file>]
	<tree-file>`,
	Short: "embed the trees of a tree file",
	Long: `
Command embed reads a tree file and lays out its trees as points in a low
dimensional space, using a principal coordinate analysis of the pairwise
distances between all trees of the file.

The argument of the command is the name of a tree file, in Newick or NEXUS
format; read 'phylomovie help treefiles' for a description of the accepted
formats.

By default, the distance between two trees is the absolute Robinson-Foulds
distance. If the flag --weighted is set, the weighted Robinson-Foulds
distance is used instead.

By default, two dimensions are reported; use the flag --dims to set a
different number.

The output is a tab-delimited table with the tree number and one column per
dimension. If the flag --plot is set, the first two dimensions are also
saved as a PNG scatter plot with the given file name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var dims int
var weighted bool
var plotFile string

func setFlags(c *command.Command) {
	c.Flags().IntVar(&dims, "dims", 2, "")
	c.Flags().BoolVar(&weighted, "weighted", false, "")
	c.Flags().StringVar(&plotFile, "plot", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting tree file")
	}
	if dims < 1 {
		return c.UsageError(fmt.Sprintf("invalid --dims value: %d", dims))
	}
	if plotFile != "" && dims < 2 {
		return c.UsageError("flag --plot requires at least two dimensions")
	}

	trees, err := readTrees(args[0])
	if err != nil {
		return err
	}
	if len(trees) < 2 {
		return fmt.Errorf("on file %q: expecting at least two trees", args[0])
	}
	ix, err := newick.NewLeafIndex(trees[0])
	if err != nil {
		return fmt.Errorf("on file %q: %v", args[0], err)
	}

	fn := distance.AbsoluteRF
	if weighted {
		fn = distance.Weighted
	}
	m, err := distance.Matrix(trees, ix, fn)
	if err != nil {
		return fmt.Errorf("on file %q: %v", args[0], err)
	}
	coords, err := embed.Coords(m, dims)
	if err != nil {
		return fmt.Errorf("on file %q: %v", args[0], err)
	}

	fmt.Fprintf(c.Stdout(), "tree")
	for d := 0; d < dims; d++ {
		fmt.Fprintf(c.Stdout(), "\tdim%d", d+1)
	}
	fmt.Fprintf(c.Stdout(), "\n")
	for i := range trees {
		fmt.Fprintf(c.Stdout(), "%d", i)
		for d := 0; d < dims; d++ {
			fmt.Fprintf(c.Stdout(), "\t%.6f", coords.At(i, d))
		}
		fmt.Fprintf(c.Stdout(), "\n")
	}

	if plotFile == "" {
		return nil
	}
	return scatterPlot(plotFile, coords, len(trees))
}

func scatterPlot(name string, coords *mat.Dense, n int) error {
	p := plot.New()
	p.X.Label.Text = "dim1"
	p.Y.Label.Text = "dim2"

	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i].X = coords.At(i, 0)
		pts[i].Y = coords.At(i, 1)
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("while plotting %q: %v", name, err)
	}
	p.Add(sc)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, name); err != nil {
		return fmt.Errorf("while plotting %q: %v", name, err)
	}
	return nil
}

func readTrees(name string) ([]*newick.Node, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	trees, err := newick.Read(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return trees, nil
}
