// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package drawcmd implements a command to draw
// the trees of a tree file as SVG files,
// with the jumping taxa highlighted.
package drawcmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/js-arias/blind"
	"github.com/js-arias/command"
	"github.com/js-arias/phylomovie/interpolate"
	"github.com/js-arias/phylomovie/jump"
	"github.com/js-arias/phylomovie/newick"
)

var Command = &command.Command{
	Usage: `draw [--frames] [--pair <number>]
	[--step <value>]
	[-o|--output <out-prefix>]
	<tree-file>`,
	Short: "draw trees as SVG files",
	Long: `
Command draw reads a tree file and draws its trees into SVG-encoded files.
The terminals that jump in a transition are highlighted with a color unique
to each taxon.

The argument of the command is the name of a tree file, in Newick or NEXUS
format; read 'phylomovie help treefiles' for a description of the accepted
formats.

By default, only the source trees are drawn, each one highlighting the taxa
that jump in the transitions in which the tree takes part. If the flag
--frames is set, every tree of the animation sequence is drawn (each pair of
neighbor trees expanded with four intermediate consensus trees), each frame
highlighting the taxa of its own transition. The flag --pair, which implies
--frames, restricts the drawing to the six frames of the given pair of
neighbor trees.

By default, 10 pixel units are used per branch length unit; use the flag
--step to set a different value (it can have decimal points).

By default, the output files are named by the tree position. Use the flag
-o, or --output, to define a prefix for the resulting files.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var frames bool
var pair int
var stepX float64
var outPrefix string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&frames, "frames", false, "")
	c.Flags().IntVar(&pair, "pair", -1, "")
	c.Flags().Float64Var(&stepX, "step", 10, "")
	c.Flags().StringVar(&outPrefix, "output", "", "")
	c.Flags().StringVar(&outPrefix, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting tree file")
	}
	if pair < -1 {
		return c.UsageError(fmt.Sprintf("invalid --pair value: %d", pair))
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
	for i, t := range trees {
		if err := ix.SameLeaves(t); err != nil {
			return fmt.Errorf("on file %q: tree %d: %v", args[0], i, err)
		}
	}

	jumps := make([][]string, 0, len(trees)-1)
	for i := 0; i+1 < len(trees); i++ {
		taxa, err := jump.Taxa(trees[i], trees[i+1])
		if err != nil {
			fmt.Fprintf(c.Stderr(), "warning: transition %d: %v\n", i, err)
			taxa = nil
		}
		jumps = append(jumps, taxa)
	}
	colors := taxonColors(jumps, ix)

	if pair >= len(jumps) {
		return c.UsageError(fmt.Sprintf("invalid --pair value: %d", pair))
	}
	if frames || pair >= 0 {
		seq, err := interpolate.Sequence(trees, ix)
		if err != nil {
			return fmt.Errorf("on file %q: %v", args[0], err)
		}
		for i, t := range seq {
			// frames of the pair tr
			// highlight the taxa of transition tr
			tr := i / 5
			if tr >= len(jumps) {
				tr = len(jumps) - 1
			}
			if pair >= 0 && (i < 5*pair || i > 5*pair+5) {
				continue
			}
			hl := pickColors(colors, jumps[tr])
			if err := writeSVG(fmt.Sprintf("frame-%03d", i), t, hl); err != nil {
				return err
			}
		}
		return nil
	}

	for i, t := range trees {
		var taxa []string
		if i > 0 {
			taxa = append(taxa, jumps[i-1]...)
		}
		if i < len(jumps) {
			taxa = append(taxa, jumps[i]...)
		}
		hl := pickColors(colors, taxa)
		if err := writeSVG(fmt.Sprintf("tree-%03d", i), t, hl); err != nil {
			return err
		}
	}
	return nil
}

// TaxonColors assigns a color to every taxon
// that jumps in any transition.
func taxonColors(jumps [][]string, ix *newick.LeafIndex) map[string]string {
	all := make(map[string]bool)
	for _, js := range jumps {
		for _, nm := range js {
			all[nm] = true
		}
	}

	colors := make(map[string]string, len(all))
	i := 0
	for _, nm := range ix.Names() {
		if !all[nm] {
			continue
		}
		v := 0.0
		if len(all) > 1 {
			v = float64(i) / float64(len(all)-1)
		}
		r, g, b, _ := blind.Sequential(blind.Iridescent, v).RGBA()
		colors[nm] = fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
		i++
	}
	return colors
}

func pickColors(colors map[string]string, taxa []string) map[string]string {
	hl := make(map[string]string, len(taxa))
	for _, nm := range taxa {
		hl[nm] = colors[nm]
	}
	return hl
}

func writeSVG(name string, t *newick.Node, hl map[string]string) (err error) {
	if outPrefix != "" {
		name = fmt.Sprintf("%s-%s.svg", outPrefix, name)
	} else {
		name += ".svg"
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	st := makeSVGTree(t, stepX, hl)
	if err := st.draw(bw); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
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
