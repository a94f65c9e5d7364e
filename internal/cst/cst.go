// Package cst builds the concrete syntax tree this server analyzes. No
// published tree-sitter grammar for AL exists to bind against (the
// original implementation hand-authored its own grammar.js and compiled
// it through the tree-sitter CLI — see
// _examples/original_source/crates/al-parser/build.rs); this package
// instead parses AL directly in Go. node.go, lexer.go and parser.go
// produce the same Node/Tree/Point shape tree-sitter would have, so
// every downstream package keeps using the same node API.
package cst

import "context"

// Parse parses source into a fresh tree. The parser recovers from
// malformed input by emitting ERROR/MISSING nodes rather than failing,
// so this never returns an error; ctx is accepted for cancellation
// symmetry with the rest of the server's handlers but isn't checked
// mid-parse since a single document never takes long enough to matter.
func Parse(ctx context.Context, source []byte) (*Tree, error) {
	_ = ctx
	return parseTree(source), nil
}

// ParseWith reparses source. The hand-written parser has no
// tree-sitter-style incremental reparse algorithm (no node reuse against
// old), so this is always a full reparse; old is accepted to keep the
// call shape identical to the rest of the document-store reparse path.
func ParseWith(ctx context.Context, source []byte, old *Tree) (*Tree, error) {
	_ = old
	return Parse(ctx, source)
}

// NodeAtOffset returns the deepest named node in tree whose span contains
// byteOffset, descending into unnamed children when no named child
// contains the offset. Returns nil if byteOffset falls outside the tree.
func NodeAtOffset(tree *Tree, byteOffset uint32) *Node {
	if tree == nil {
		return nil
	}
	return deepestNamedNode(tree.RootNode(), byteOffset)
}

func deepestNamedNode(node *Node, byteOffset uint32) *Node {
	if node == nil || byteOffset < node.StartByte() || byteOffset > node.EndByte() {
		return nil
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.StartByte() <= byteOffset && byteOffset <= child.EndByte() {
			if deeper := deepestNamedNode(child, byteOffset); deeper != nil {
				return deeper
			}
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.IsNamed() && child.StartByte() <= byteOffset && byteOffset <= child.EndByte() {
			if deeper := deepestNamedNode(child, byteOffset); deeper != nil {
				return deeper
			}
		}
	}

	if node.IsNamed() {
		return node
	}
	return nil
}

// Text returns the source text spanned by node.
func Text(node *Node, source []byte) string {
	if node == nil {
		return ""
	}
	return node.Content(source)
}

// IsIdentifier reports whether node is a bare or quoted AL identifier.
func IsIdentifier(node *Node) bool {
	if node == nil {
		return false
	}
	switch node.Type() {
	case "identifier", "quoted_identifier":
		return true
	default:
		return false
	}
}

// IdentifierName extracts the case-preserved, quote-stripped name from an
// identifier or quoted_identifier node.
func IdentifierName(node *Node, source []byte) string {
	text := Text(node, source)
	if node != nil && node.Type() == "quoted_identifier" && len(text) >= 2 &&
		text[0] == '"' && text[len(text)-1] == '"' {
		return text[1 : len(text)-1]
	}
	return text
}

// FirstNamedChildOfType returns the first named child of node matching any
// of kinds, or nil.
func FirstNamedChildOfType(node *Node, kinds ...string) *Node {
	if node == nil {
		return nil
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		for _, kind := range kinds {
			if child.Type() == kind {
				return child
			}
		}
	}
	return nil
}

// NamedChildrenOfType returns every named child of node matching any of kinds.
func NamedChildrenOfType(node *Node, kinds ...string) []*Node {
	if node == nil {
		return nil
	}
	var out []*Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		for _, kind := range kinds {
			if child.Type() == kind {
				out = append(out, child)
				break
			}
		}
	}
	return out
}

// FirstIdentifier returns the first identifier or quoted_identifier named
// child of node, which by grammar convention names the declaration node owns.
func FirstIdentifier(node *Node) *Node {
	return FirstNamedChildOfType(node, "identifier", "quoted_identifier")
}
