// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// PhyloMovie is a tool to animate
// a sequence of phylogenetic trees.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/phylomovie/cmd/phylomovie/distcmd"
	"github.com/js-arias/phylomovie/cmd/phylomovie/drawcmd"
	"github.com/js-arias/phylomovie/cmd/phylomovie/embedcmd"
	"github.com/js-arias/phylomovie/cmd/phylomovie/moviecmd"
	"github.com/js-arias/phylomovie/cmd/phylomovie/taxa"
	"github.com/js-arias/phylomovie/cmd/phylomovie/terms"
)

var app = &command.Command{
	Usage: "phylomovie <command> [<argument>...]",
	Short: "a tool to animate a sequence of phylogenetic trees",
}

func init() {
	app.Add(distcmd.Command)
	app.Add(drawcmd.Command)
	app.Add(embedcmd.Command)
	app.Add(moviecmd.Command)
	app.Add(taxa.Command)
	app.Add(terms.Command)
}

func main() {
	app.Main()
}
