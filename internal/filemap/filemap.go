// Package filemap renders the directory tree of a file selection as the
// ASCII map placed at the top of a snapshot.
package filemap

import (
	"path/filepath"
	"sort"
	"strings"
)

// Connectors and indentation used by Render.
const (
	Branch     = "├── "
	LastBranch = "└── "
	Pipe       = "│   "
	Blank      = "    "
)

// Title starts the first line of a map, followed by the root name.
const Title = "File Map for: "

// HeaderRule underlines the map title.
var HeaderRule = strings.Repeat("=", 20)

// Node is a directory or file in the visible tree.
type Node struct {
	Name     string
	Dir      bool
	Children []*Node
}

// Build constructs the tree of every relative path in rels plus the
// ancestor directories needed to reach them. Paths are slash-separated;
// duplicates collapse. Children are sorted by name.
func Build(rels []string) *Node {
	root := &Node{Dir: true}
	index := map[string]*Node{"": root}

	for _, rel := range rels {
		rel = strings.Trim(rel, "/")
		if rel == "" {
			continue
		}
		parts := strings.Split(rel, "/")
		parent := root
		key := ""
		for i, part := range parts {
			if key == "" {
				key = part
			} else {
				key += "/" + part
			}
			n, ok := index[key]
			if !ok {
				n = &Node{Name: part}
				index[key] = n
				parent.Children = append(parent.Children, n)
			}
			if i < len(parts)-1 {
				n.Dir = true
			}
			parent = n
		}
	}

	root.sort()
	return root
}

func (n *Node) sort() {
	sort.Slice(n.Children, func(i, j int) bool { return n.Children[i].Name < n.Children[j].Name })
	for _, c := range n.Children {
		c.sort()
	}
}

// Lines renders the children of n, one line per node.
func (n *Node) Lines() []string {
	var lines []string
	n.render(&lines, "")
	return lines
}

func (n *Node) render(lines *[]string, prefix string) {
	for i, child := range n.Children {
		last := i == len(n.Children)-1
		connector, indent := Branch, Pipe
		if last {
			connector, indent = LastBranch, Blank
		}
		if child.Dir {
			*lines = append(*lines, prefix+connector+child.Name+"/")
			child.render(lines, prefix+indent)
		} else {
			*lines = append(*lines, prefix+connector+child.Name)
		}
	}
}

// Render returns the titled map for the files rels under root. The output
// is a pure function of the base name of root and the set of rels and
// carries no trailing newline.
func Render(root string, rels []string) string {
	lines := []string{Title + filepath.Base(root), HeaderRule, ""}
	lines = append(lines, Build(rels).Lines()...)
	return strings.Join(lines, "\n")
}
