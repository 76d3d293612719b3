// Package common holds syntax helpers shared by the Erlang visitors.
package common

import (
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
)

// AtomName returns the name of an atom token, without quotes.
func AtomName(token string) string {
	if len(token) >= 2 && strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") {
		return token[1 : len(token)-1]
	}

	return token
}

// Operands returns the children of n that are neither punctuation, keywords
// nor comments.
func Operands(tree *ast.Tree, n *ast.Node) []*ast.Node {
	var out []*ast.Node

	for _, child := range tree.Children(n) {
		if child.Is(ast.Punctuator, ast.Keyword, ast.Comment) {
			continue
		}

		out = append(out, child)
	}

	return out
}

// FunctionSignature returns the name and arity of a Function node, read
// from its first clause.
func FunctionSignature(tree *ast.Tree, fn *ast.Node) (name string, arity int) {
	clause := tree.FirstChild(fn, ast.FunctionClause)
	if clause == nil {
		return "", 0
	}

	if atom := tree.FirstChild(clause, ast.Atom); atom != nil {
		name = AtomName(atom.Token)
	}

	if args := tree.FirstChild(clause, ast.ClauseArgs); args != nil {
		arity = len(Operands(tree, args))
	}

	return name, arity
}

// FunctionKey returns the "name/arity" key of a Function node.
func FunctionKey(tree *ast.Tree, fn *ast.Node) string {
	name, arity := FunctionSignature(tree, fn)

	return name + "/" + strconv.Itoa(arity)
}

// ModuleName returns the module name declared by a ModuleAttr node.
func ModuleName(tree *ast.Tree, attr *ast.Node) string {
	atoms := tree.ChildrenOf(attr, ast.Atom)
	if len(atoms) < 2 {
		return ""
	}

	// The first atom is the attribute name itself.
	return AtomName(atoms[1].Token)
}

// ExportEntry is one name/arity pair of an export attribute.
type ExportEntry struct {
	Key  string
	Line int
}

// ExportEntries returns the entries of an ExportAttr node in source order.
func ExportEntries(tree *ast.Tree, attr *ast.Node) []ExportEntry {
	var out []ExportEntry

	for _, fa := range tree.ChildrenOf(attr, ast.FunArity) {
		atom := tree.FirstChild(fa, ast.Atom)
		arity := tree.FirstChild(fa, ast.Integer)

		if atom == nil || arity == nil {
			continue
		}

		out = append(out, ExportEntry{Key: AtomName(atom.Token) + "/" + arity.Token, Line: fa.Line()})
	}

	return out
}

// Exports returns the set of name/arity keys exported anywhere in tree.
func Exports(tree *ast.Tree) map[string]bool {
	exports := make(map[string]bool)

	root := tree.Root()
	if root == nil {
		return exports
	}

	for _, attr := range tree.Find(root, ast.ExportAttr) {
		for _, entry := range ExportEntries(tree, attr) {
			exports[entry.Key] = true
		}
	}

	return exports
}

// AttributeName returns the name of a generic Attribute node, such as
// "compile" for -compile(...).
func AttributeName(tree *ast.Tree, attr *ast.Node) string {
	if atom := tree.FirstChild(attr, ast.Atom); atom != nil {
		return AtomName(atom.Token)
	}

	return ""
}

// IsBlank reports whether a source line holds only white space.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
