// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package newick

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Read reads a collection of trees
// from a Newick or NEXUS source.
// In Newick the source must contain one tree per line;
// in NEXUS the trees are taken
// from the TREES block.
// The format is detected
// by the "#NEXUS" header.
// Square bracket comments are removed
// before parsing.
func Read(r io.Reader) ([]*Node, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("newick: %v", err)
	}
	return ReadString(string(b))
}

// ReadString is like Read
// but takes the input from a string.
func ReadString(s string) ([]*Node, error) {
	s = stripComments(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("newick: empty input")
	}

	var lines []string
	if strings.HasPrefix(strings.ToUpper(s), "#NEXUS") {
		nx, err := nexusTrees(s)
		if err != nil {
			return nil, err
		}
		lines = nx
	} else {
		for _, ln := range strings.Split(s, "\n") {
			ln = strings.TrimSpace(ln)
			if ln == "" {
				continue
			}
			lines = append(lines, ln)
		}
	}

	trees := make([]*Node, 0, len(lines))
	for i, ln := range lines {
		t, err := Parse(ln)
		if err != nil {
			return nil, fmt.Errorf("newick: tree %d: %v", i+1, err)
		}
		trees = append(trees, t)
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("newick: no trees in input")
	}
	return trees, nil
}

// Parse parses a single tree
// in Newick format.
// A node without an explicit branch length
// is given a length of 1.
// A root with a single descendant
// is collapsed to that descendant.
func Parse(s string) (*Node, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ";")
	if s == "" {
		return nil, fmt.Errorf("empty tree")
	}

	root := &Node{Length: 1}
	cur := root
	var stack []*Node

	for i := 0; i < len(s); {
		switch c := s[i]; c {
		case '(':
			child := &Node{Length: 1}
			cur.Children = append(cur.Children, child)
			stack = append(stack, cur)
			cur = child
			i++
		case ',':
			if len(stack) == 0 {
				return nil, fmt.Errorf("at position %d: comma outside parenthesis", i)
			}
			parent := stack[len(stack)-1]
			child := &Node{Length: 1}
			parent.Children = append(parent.Children, child)
			cur = child
			i++
		case ')':
			if len(stack) == 0 {
				return nil, fmt.Errorf("at position %d: unbalanced parenthesis", i)
			}
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			i++
		case ':':
			j := i + 1
			for j < len(s) && !isDelim(s[j]) {
				j++
			}
			// an invalid length is read as 1
			if v, err := strconv.ParseFloat(strings.TrimSpace(s[i+1:j]), 64); err == nil {
				cur.Length = v
			}
			i = j
		case ' ', '\t', '\r':
			i++
		default:
			j := i
			for j < len(s) && !isDelim(s[j]) && s[j] != ':' {
				j++
			}
			cur.Name = strings.TrimSpace(s[i:j])
			i = j
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("unbalanced parenthesis")
	}

	// collapse a redundant single child root
	for len(root.Children) == 1 {
		root = root.Children[0]
	}
	return root, nil
}

func isDelim(c byte) bool {
	return c == '(' || c == ')' || c == ','
}

// StripComments removes all square bracket comments
// from an input string.
func stripComments(s string) string {
	var sb strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				sb.WriteByte(s[i])
			}
		}
	}
	return sb.String()
}

// NexusTrees extracts the Newick statements
// from the TREES block of a NEXUS document.
func nexusTrees(s string) ([]string, error) {
	up := strings.ToUpper(s)
	start := strings.Index(up, "BEGIN TREES")
	if start < 0 {
		return nil, fmt.Errorf("newick: nexus: no TREES block")
	}
	body := s[start:]
	var trees []string
	for _, st := range strings.Split(body, ";") {
		st = strings.TrimSpace(st)
		u := strings.ToUpper(st)
		if u == "END" || u == "ENDBLOCK" {
			break
		}
		if !strings.HasPrefix(u, "TREE ") && !strings.HasPrefix(u, "TREE\t") {
			continue
		}
		eq := strings.Index(st, "=")
		if eq < 0 {
			return nil, fmt.Errorf("newick: nexus: tree statement without %q", "=")
		}
		nw := strings.TrimSpace(st[eq+1:])
		if nw == "" {
			continue
		}
		trees = append(trees, nw+";")
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("newick: nexus: no trees in TREES block")
	}
	return trees, nil
}
