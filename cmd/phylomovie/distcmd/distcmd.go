// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package distcmd implements a command to report
// the distances between the neighbor trees
// of a tree file.
package distcmd

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/phylomovie/distance"
	"github.com/js-arias/phylomovie/newick"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var Command = &command.Command{
	Usage: `distance [--matrix] [--weighted]
	[--plot <out-prefix>]
	<tree-file>`,
	Short: "report distances between neighbor trees",
	Long: `
Command distance reads a tree file and reports the Robinson-Foulds and the
weighted Robinson-Foulds distance of each pair of neighbor trees.

The argument of the command is the name of a tree file, in Newick or NEXUS
format; read 'phylomovie help treefiles' for a description of the accepted
formats.

The output is a tab-delimited table with the following columns:

	transition  the number of the pair, starting at 0
	absolute    the absolute Robinson-Foulds distance
	relative    the Robinson-Foulds distance scaled by the number
	            of internal branches of the two trees
	weighted    the weighted Robinson-Foulds distance

If the flag --matrix is set, the pairwise distances between all trees of
the file are reported instead, as a tab-delimited matrix with one row per
tree. By default, the matrix distance is the absolute Robinson-Foulds
distance; if the flag --weighted is set, the weighted Robinson-Foulds
distance is used.

If the flag --plot is set, the distances along the sequence are also saved
as PNG line charts, using the given prefix for the file names.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var matrix bool
var weighted bool
var plotPrefix string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&matrix, "matrix", false, "")
	c.Flags().BoolVar(&weighted, "weighted", false, "")
	c.Flags().StringVar(&plotPrefix, "plot", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting tree file")
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

	if matrix {
		fn := distance.AbsoluteRF
		if weighted {
			fn = distance.Weighted
		}
		m, err := distance.Matrix(trees, ix, fn)
		if err != nil {
			return fmt.Errorf("on file %q: %v", args[0], err)
		}
		for i := range trees {
			for j := range trees {
				if j > 0 {
					fmt.Fprintf(c.Stdout(), "\t")
				}
				fmt.Fprintf(c.Stdout(), "%.6f", m.At(i, j))
			}
			fmt.Fprintf(c.Stdout(), "\n")
		}
		return nil
	}

	rfs, err := distance.Series(trees, ix)
	if err != nil {
		return fmt.Errorf("on file %q: %v", args[0], err)
	}
	ws, err := distance.WeightedSeries(trees, ix)
	if err != nil {
		return fmt.Errorf("on file %q: %v", args[0], err)
	}

	fmt.Fprintf(c.Stdout(), "transition\tabsolute\trelative\tweighted\n")
	for i, rf := range rfs {
		fmt.Fprintf(c.Stdout(), "%d\t%.0f\t%.6f\t%.6f\n", i, rf.Absolute, rf.Relative, ws[i])
	}

	if plotPrefix == "" {
		return nil
	}
	rel := make([]float64, 0, len(rfs))
	for _, rf := range rfs {
		rel = append(rel, rf.Relative)
	}
	if err := linePlot(plotPrefix+"-rf.png", "relative RF distance", rel); err != nil {
		return err
	}
	if err := linePlot(plotPrefix+"-wrf.png", "weighted RF distance", ws); err != nil {
		return err
	}
	return nil
}

func linePlot(name, label string, vs []float64) error {
	p := plot.New()
	p.X.Label.Text = "transition"
	p.Y.Label.Text = label

	pts := make(plotter.XYs, len(vs))
	for i, v := range vs {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	ln, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("while plotting %q: %v", name, err)
	}
	p.Add(ln)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, name); err != nil {
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
