package cst

// Point is a line/column position within a source file, both
// zero-indexed. Column is a byte offset within the line, not a UTF-16
// code unit count (see store.Rope and SPEC_FULL.md's Open Question on
// non-ASCII identifiers).
type Point struct {
	Row    uint32
	Column uint32
}

// Node is one node of the concrete syntax tree this package builds.
// Its shape deliberately mirrors the subset of the tree-sitter node API
// this server's handlers rely on (kind, byte/point spans, named vs.
// anonymous children, field lookup, parent links), since every package
// downstream of cst was written against that API.
type Node struct {
	kind    string
	named   bool
	missing bool

	startByte, endByte   uint32
	startPoint, endPoint Point

	parent        *Node
	children      []*Node
	namedChildren []*Node // cached NamedChild view, built once in finish()
	fields        map[string]*Node
}

// Tree is a full parse result: a root source_file node plus whatever
// ERROR/MISSING nodes the parser recovered around.
type Tree struct {
	root *Node
}

// RootNode returns the tree's top-level source_file node.
func (t *Tree) RootNode() *Node {
	if t == nil {
		return nil
	}
	return t.root
}

func newNode(kind string, named bool, start, end uint32, startPt, endPt Point) *Node {
	return &Node{kind: kind, named: named, startByte: start, endByte: end, startPoint: startPt, endPoint: endPt}
}

// addChild appends child to n's children, wires up the parent link, and
// records child under fieldName (first one wins) for ChildByFieldName.
func (n *Node) addChild(child *Node, fieldName string) {
	if child == nil {
		return
	}
	child.parent = n
	n.children = append(n.children, child)
	if fieldName != "" {
		if n.fields == nil {
			n.fields = make(map[string]*Node)
		}
		if _, exists := n.fields[fieldName]; !exists {
			n.fields[fieldName] = child
		}
	}
}

// finish caches the named-children view. It does not touch n's span:
// callers widen a container to cover its children and closing delimiter
// with extend as they build it.
func (n *Node) finish() {
	for _, c := range n.children {
		if c.named {
			n.namedChildren = append(n.namedChildren, c)
		}
	}
}

// extend widens n's end span to end/endPt if that extends it.
func (n *Node) extend(end uint32, endPt Point) {
	if end > n.endByte {
		n.endByte = end
		n.endPoint = endPt
	}
}

func (n *Node) Type() string {
	if n == nil {
		return ""
	}
	return n.kind
}

func (n *Node) IsNamed() bool {
	return n != nil && n.named
}

func (n *Node) IsMissing() bool {
	return n != nil && n.missing
}

func (n *Node) StartByte() uint32 {
	if n == nil {
		return 0
	}
	return n.startByte
}

func (n *Node) EndByte() uint32 {
	if n == nil {
		return 0
	}
	return n.endByte
}

func (n *Node) StartPoint() Point {
	if n == nil {
		return Point{}
	}
	return n.startPoint
}

func (n *Node) EndPoint() Point {
	if n == nil {
		return Point{}
	}
	return n.endPoint
}

func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

func (n *Node) ChildCount() uint32 {
	if n == nil {
		return 0
	}
	return uint32(len(n.children))
}

func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) NamedChildCount() uint32 {
	if n == nil {
		return 0
	}
	return uint32(len(n.namedChildren))
}

func (n *Node) NamedChild(i int) *Node {
	if n == nil || i < 0 || i >= len(n.namedChildren) {
		return nil
	}
	return n.namedChildren[i]
}

// ChildByFieldName returns the first child registered under name, or
// nil if the grammar production never tagged one (e.g. a bare
// single-statement for-loop body has no "block" child at all).
func (n *Node) ChildByFieldName(name string) *Node {
	if n == nil || n.fields == nil {
		return nil
	}
	return n.fields[name]
}

// Content returns the source text n spans.
func (n *Node) Content(source []byte) string {
	if n == nil || int(n.endByte) > len(source) {
		return ""
	}
	return string(source[n.startByte:n.endByte])
}
