// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package drawcmd

import (
	"fmt"
	"io"

	"github.com/js-arias/phylomovie/newick"
)

// vertical space per terminal, in pixels
const stepY = 15

// left and top margin, in pixels
const margin = 10

// horizontal space for the terminal labels, in pixels
const labelSpace = 100

// An svgNode is a positioned branch of the drawing.
type svgNode struct {
	name     string
	x, y     float64
	parentX  float64
	term     bool
	children []*svgNode
}

// An svgTree is a tree laid out
// as a rectangular cladogram:
// terminals are evenly spaced rows,
// the position of a branch end
// is given by the accumulated length
// from the root,
// and an internal branch is centered
// on its children.
type svgTree struct {
	root   *svgNode
	width  float64
	height float64
	hl     map[string]string
}

func makeSVGTree(t *newick.Node, step float64, hl map[string]string) svgTree {
	st := svgTree{hl: hl}
	next := 0.0
	st.root = st.layout(t, 0, step, &next)
	st.width = margin*2 + st.maxX(st.root) + labelSpace
	st.height = margin*2 + next
	return st
}

func (st *svgTree) layout(n *newick.Node, fromX, step float64, nextY *float64) *svgNode {
	sn := &svgNode{
		name:    n.Name,
		x:       fromX + n.Length*step,
		parentX: fromX,
		term:    n.IsTerm(),
	}
	if sn.term {
		*nextY += stepY
		sn.y = *nextY
		return sn
	}

	sum := 0.0
	for _, c := range n.Children {
		sc := st.layout(c, sn.x, step, nextY)
		sn.children = append(sn.children, sc)
		sum += sc.y
	}
	sn.y = sum / float64(len(sn.children))
	return sn
}

func (st *svgTree) maxX(n *svgNode) float64 {
	max := n.x
	for _, c := range n.children {
		if x := st.maxX(c); x > max {
			max = x
		}
	}
	return max
}

func (st svgTree) draw(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "<?xml version=\"1.0\"?>\n<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%.0f\" height=\"%.0f\">\n", st.width, st.height); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "<g stroke=\"black\" stroke-width=\"1\" fill=\"none\" font-family=\"Verdana\" font-size=\"10\">\n"); err != nil {
		return err
	}
	if err := st.drawNode(w, st.root); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "</g>\n</svg>\n")
	return err
}

func (st svgTree) drawNode(w io.Writer, n *svgNode) error {
	x := margin + n.x
	y := margin + n.y

	// branch to the parent
	if _, err := fmt.Fprintf(w, "<path d=\"M%.2f,%.2f L%.2f,%.2f\"/>\n", margin+n.parentX, y, x, y); err != nil {
		return err
	}

	if n.term {
		fill := "black"
		weight := ""
		if c, ok := st.hl[n.name]; ok {
			fill = c
			weight = " font-weight=\"bold\""
		}
		_, err := fmt.Fprintf(w, "<text x=\"%.2f\" y=\"%.2f\" stroke=\"none\" fill=\"%s\"%s>%s</text>\n", x+3, y+3, fill, weight, n.name)
		return err
	}

	// vertical connector between the first and last child
	first := n.children[0]
	last := n.children[len(n.children)-1]
	if _, err := fmt.Fprintf(w, "<path d=\"M%.2f,%.2f L%.2f,%.2f\"/>\n", x, margin+first.y, x, margin+last.y); err != nil {
		return err
	}

	for _, c := range n.children {
		if err := st.drawNode(w, c); err != nil {
			return err
		}
	}
	return nil
}
