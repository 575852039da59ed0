// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package terms implements a command to print
// the list of the terminals of a tree file.
package terms

import (
	"fmt"
	"os"
	"slices"

	"github.com/js-arias/command"
	"github.com/js-arias/phylomovie/newick"
)

var Command = &command.Command{
	Usage: "terms [--sorted] <tree-file>",
	Short: "print a list of tree terminals",
	Long: `
Command terms reads a tree file and prints the name of the terminals in the
standard output.

The argument of the command is the name of a tree file, in Newick or NEXUS
format; read 'phylomovie help treefiles' for a description of the accepted
formats.

By default, the terminals are printed by their number, that is, by their
appearance in the first tree of the file. If the flag --sorted is set, the
terminals are printed in alphabetical order.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var sorted bool

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&sorted, "sorted", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting tree file")
	}

	ix, err := readLeafIndex(args[0])
	if err != nil {
		return err
	}

	ls := ix.Names()
	if sorted {
		slices.Sort(ls)
	}
	for _, term := range ls {
		fmt.Fprintf(c.Stdout(), "%s\n", term)
	}
	return nil
}

func readLeafIndex(name string) (*newick.LeafIndex, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	trees, err := newick.Read(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	ix, err := newick.NewLeafIndex(trees[0])
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return ix, nil
}
