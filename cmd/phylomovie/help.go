// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(treeFilesGuide)
}

var treeFilesGuide = &command.Command{
	Usage: "treefiles",
	Short: "about tree files",
	Long: `
PhyloMovie commands read their trees from a single tree file, given as an
argument of the command. Two formats are accepted and auto-detected.

The first format is plain Newick, with a single tree per line:

	(A:1,B:2,(C:3,D:4):5);
	(A:1,C:2,(B:3,D:4):5);

Square bracket comments are removed before reading. A branch without an
explicit length, or with an unreadable length, is given a length of one.

The second format is NEXUS. A NEXUS file is detected by the "#NEXUS" header,
and the trees are taken from the statements of the TREES block:

	#NEXUS
	BEGIN TREES;
		TREE one = (A:1,B:2,(C:3,D:4):5);
		TREE two = (A:1,C:2,(B:3,D:4):5);
	END;

All trees of a file must have exactly the same terminals. The terminals are
numbered by their appearance in the first tree, and that numbering is used
for all the trees of the file.
	`,
}
