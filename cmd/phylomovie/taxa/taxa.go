// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package taxa implements a command to report
// the taxa that jump between the neighbor trees
// of a tree file.
package taxa

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phylomovie/jump"
	"github.com/js-arias/phylomovie/newick"
)

var Command = &command.Command{
	Usage: "taxa [--order <order-file>] <tree-file>",
	Short: "report the jumping taxa of a tree file",
	Long: `
Command taxa reads a tree file and reports, for each pair of neighbor trees,
the taxa that move between the two trees.

The argument of the command is the name of a tree file, in Newick or NEXUS
format; read 'phylomovie help treefiles' for a description of the accepted
formats.

By default, the terminals are numbered by their appearance in the first
tree. The flag --order sets an explicit numbering from a file with one
terminal name per line; if the names of the file do not match the terminals
of the trees, the order is ignored with a warning.

The output is a tab-delimited table with the following columns:

	transition  the number of the pair, starting at 0
	taxa        the jumping taxa, separated by commas

A transition in which the search fails is reported with a dash, and the
failure is printed to the standard error.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var orderFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&orderFile, "order", "", "")
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
	if orderFile != "" {
		order, err := readOrder(orderFile)
		if err != nil {
			return err
		}
		nx, err := ix.WithOrder(order)
		if err != nil {
			fmt.Fprintf(c.Stderr(), "warning: %v\n", err)
		}
		ix = nx
	}
	for i, t := range trees {
		if err := ix.SameLeaves(t); err != nil {
			return fmt.Errorf("on file %q: tree %d: %v", args[0], i, err)
		}
	}

	fmt.Fprintf(c.Stdout(), "transition\ttaxa\n")
	for i := 0; i+1 < len(trees); i++ {
		taxa, err := jump.Taxa(trees[i], trees[i+1])
		if err != nil {
			fmt.Fprintf(c.Stderr(), "warning: transition %d: %v\n", i, err)
			fmt.Fprintf(c.Stdout(), "%d\t-\n", i)
			continue
		}
		fmt.Fprintf(c.Stdout(), "%d\t%s\n", i, strings.Join(taxa, ","))
	}
	return nil
}

func readOrder(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var order []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ln := strings.TrimSpace(sc.Text())
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		order = append(order, ln)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return order, nil
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
