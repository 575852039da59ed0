// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package moviecmd implements a command to build
// the animation document of a tree file.
package moviecmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phylomovie/movie"
	"github.com/js-arias/phylomovie/newick"
)

var Command = &command.Command{
	Usage: `movie [--order <order-file>]
	[-o|--output <json-file>] <tree-file>`,
	Short: "build the animation document of a tree file",
	Long: `
Command movie reads a tree file and writes the animation document of its
trees as a JSON file.

The argument of the command is the name of a tree file, in Newick or NEXUS
format; read 'phylomovie help treefiles' for a description of the accepted
formats.

The animation document contains the full tree sequence of the animation
(each pair of neighbor trees expanded with four intermediate consensus
trees), the Robinson-Foulds and weighted Robinson-Foulds distances of each
pair, the taxa that jump on each transition, and the terminals in their
numbering order.

By default, the terminals are numbered by their appearance in the first
tree. The flag --order sets an explicit numbering from a file with one
terminal name per line; if the names of the file do not match the terminals
of the trees, the order is ignored with a warning.

By default, the document is printed in the standard output. Use the flag -o,
or --output, to define an output file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var orderFile string
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&orderFile, "order", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting tree file")
	}

	trees, err := readTrees(args[0])
	if err != nil {
		return err
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

	d, err := movie.New(filepath.Base(args[0]), trees, ix)
	if err != nil {
		return fmt.Errorf("on file %q: %v", args[0], err)
	}
	for _, w := range d.Warnings {
		fmt.Fprintf(c.Stderr(), "warning: %s\n", w)
	}

	if output == "" {
		return d.Write(c.Stdout())
	}
	return writeFile(output, d)
}

func writeFile(name string, d *movie.Data) (err error) {
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
	if err := write(bw, d); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	return nil
}

func write(w io.Writer, d *movie.Data) error {
	return d.Write(w)
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
