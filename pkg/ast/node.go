// Package ast provides the arena-backed syntax tree produced by the Erlang
// parser, together with helpers for traversal, querying, and serialization.
//
// Nodes are owned by their [Tree] and addressed by [NodeID]. Children are
// referenced by ID and there are no parent pointers: ancestry is tracked by
// whoever walks the tree.
package ast

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// NodeID addresses a node inside its tree's arena.
type NodeID int32

// NoNode is the ID returned when a lookup finds nothing.
const NoNode NodeID = -1

// Positions holds the byte span and 1-based line/column bounds of a node.
// StartOffset is inclusive and EndOffset exclusive.
type Positions struct {
	StartLine   int `json:"start_line" yaml:"start_line"`
	StartCol    int `json:"start_col" yaml:"start_col"`
	StartOffset int `json:"start_offset" yaml:"start_offset"`
	EndLine     int `json:"end_line" yaml:"end_line"`
	EndCol      int `json:"end_col" yaml:"end_col"`
	EndOffset   int `json:"end_offset" yaml:"end_offset"`
}

// Node is a single syntax tree node.
//
// Fields:
//
//	ID: position of the node in the arena.
//	Kind: grammar production.
//	Token: source text for leaf nodes, empty otherwise.
//	Pos: source span.
//	Children: ordered child IDs.
type Node struct {
	ID       NodeID
	Kind     Kind
	Token    string
	Pos      Positions
	Children []NodeID
}

// Line returns the 1-based line the node starts on.
func (n *Node) Line() int {
	return n.Pos.StartLine
}

// Is reports whether the node has one of the given kinds.
func (n *Node) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}

	return false
}

// IsToken reports whether the node is a keyword or punctuator leaf with the given text.
func (n *Node) IsToken(text string) bool {
	return (n.Kind == Keyword || n.Kind == Punctuator) && n.Token == text
}

// Tree owns the nodes of one parsed file.
type Tree struct {
	Path   string
	Source []byte
	Nodes  []Node

	lineStarts []int
}

// NewTree creates an empty tree over the given source.
func NewTree(path string, source []byte) *Tree {
	starts := []int{0}

	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &Tree{Path: path, Source: source, lineStarts: starts}
}

// AddNode appends a node to the arena and links it under parent.
// Passing [NoNode] as parent creates a detached node (the root).
func (t *Tree) AddNode(parent NodeID, kind Kind, start, end int) NodeID {
	id := NodeID(len(t.Nodes))

	startLine, startCol := t.Position(start)
	endLine, endCol := t.Position(end)

	nd := Node{
		ID:   id,
		Kind: kind,
		Pos: Positions{
			StartLine:   startLine,
			StartCol:    startCol,
			StartOffset: start,
			EndLine:     endLine,
			EndCol:      endCol,
			EndOffset:   end,
		},
	}

	if kind.IsLeaf() {
		nd.Token = string(t.Source[start:end])
	}

	t.Nodes = append(t.Nodes, nd)

	if parent != NoNode {
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, id)
	}

	return id
}

// Position converts a byte offset into a 1-based line and column.
func (t *Tree) Position(offset int) (line, col int) {
	idx := sort.Search(len(t.lineStarts), func(i int) bool {
		return t.lineStarts[i] > offset
	}) - 1

	return idx + 1, offset - t.lineStarts[idx] + 1
}

// LineCount returns the number of lines in the source. A final "\n"
// terminates the last line and does not start a new one.
func (t *Tree) LineCount() int {
	if terminated(t.Source) {
		return len(t.lineStarts) - 1
	}

	return len(t.lineStarts)
}

// Lines returns the source split into lines without terminators.
func (t *Tree) Lines() []string {
	return SplitLines(t.Source)
}

// SplitLines splits source into lines, dropping "\n" and a trailing "\r".
// An empty source is one empty line; a final "\n" adds no line.
func SplitLines(source []byte) []string {
	text := string(source)
	if terminated(source) {
		text = text[:len(text)-1]
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}

func terminated(source []byte) bool {
	return len(source) > 0 && source[len(source)-1] == '\n'
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *Node {
	if len(t.Nodes) == 0 {
		return nil
	}

	return &t.Nodes[0]
}

// Node returns the node with the given ID, or nil when out of range.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.Nodes) {
		return nil
	}

	return &t.Nodes[id]
}

// Children returns the child nodes of n in order.
func (t *Tree) Children(n *Node) []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, id := range n.Children {
		out = append(out, &t.Nodes[id])
	}

	return out
}

// FirstChild returns the first direct child of n with one of the given kinds,
// or the first child at all when no kinds are given.
func (t *Tree) FirstChild(n *Node, kinds ...Kind) *Node {
	for _, id := range n.Children {
		if len(kinds) == 0 || t.Nodes[id].Is(kinds...) {
			return &t.Nodes[id]
		}
	}

	return nil
}

// ChildrenOf returns the direct children of n with one of the given kinds.
func (t *Tree) ChildrenOf(n *Node, kinds ...Kind) []*Node {
	var out []*Node

	for _, id := range n.Children {
		if t.Nodes[id].Is(kinds...) {
			out = append(out, &t.Nodes[id])
		}
	}

	return out
}

// Text returns the source covered by n.
func (t *Tree) Text(n *Node) string {
	return string(t.Source[n.Pos.StartOffset:n.Pos.EndOffset])
}

// Walk calls fn for n and each of its descendants in pre-order.
func (t *Tree) Walk(n *Node, fn func(*Node)) {
	stack := []NodeID{n.ID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cur := &t.Nodes[id]
		fn(cur)

		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}

// Find returns every node of the given kinds below and including n, in pre-order.
func (t *Tree) Find(n *Node, kinds ...Kind) []*Node {
	var out []*Node

	t.Walk(n, func(cur *Node) {
		if cur.Is(kinds...) {
			out = append(out, cur)
		}
	})

	return out
}

// ToMap converts the subtree rooted at n into a generic map for JSON or YAML output.
func (t *Tree) ToMap(n *Node) map[string]any {
	result := map[string]any{
		"kind": n.Kind.String(),
		"pos":  buildPositionMap(n.Pos),
	}

	if n.Token != "" {
		result["token"] = n.Token
	}

	if len(n.Children) > 0 {
		children := make([]map[string]any, 0, len(n.Children))
		for _, id := range n.Children {
			children = append(children, t.ToMap(&t.Nodes[id]))
		}

		result["children"] = children
	}

	return result
}

func buildPositionMap(pos Positions) map[string]any {
	return map[string]any{
		"start_line":   pos.StartLine,
		"start_col":    pos.StartCol,
		"start_offset": pos.StartOffset,
		"end_line":     pos.EndLine,
		"end_col":      pos.EndCol,
		"end_offset":   pos.EndOffset,
	}
}

// Dump writes an indented outline of the subtree rooted at n.
func (t *Tree) Dump(w io.Writer, n *Node) error {
	return t.dump(w, n, 0)
}

func (t *Tree) dump(w io.Writer, n *Node, depth int) error {
	var buf strings.Builder

	buf.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&buf, "%s [%d:%d-%d:%d]", n.Kind, n.Pos.StartLine, n.Pos.StartCol, n.Pos.EndLine, n.Pos.EndCol)

	if n.Token != "" {
		fmt.Fprintf(&buf, " %q", n.Token)
	}

	buf.WriteByte('\n')

	_, err := io.WriteString(w, buf.String())
	if err != nil {
		return fmt.Errorf("dump node %d: %w", n.ID, err)
	}

	for _, id := range n.Children {
		err = t.dump(w, &t.Nodes[id], depth+1)
		if err != nil {
			return err
		}
	}

	return nil
}
