// Package alsymbol implements the AL symbol model: extracting a nested
// symbol tree from a parsed document (C2) and indexing it for
// scope-aware lookup (C3).
//
// Symbol kinds are modeled as a flat tagged union (Kind, plus ObjectKind
// when Kind is Object) rather than a class hierarchy, per the "avoid
// class hierarchies" design note: a single concrete Symbol type covers
// every declaration shape the grammar produces.
package alsymbol

import (
	"strings"

	"github.com/aacnsilva/al-lsp/internal/cst"
)

// Kind partitions the AL declaration forms this server understands.
type Kind int

const (
	KindObject Kind = iota
	KindProcedure
	KindTrigger
	KindVariable
	KindParameter
	KindField
	KindKey
	KindEnumValue
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "Object"
	case KindProcedure:
		return "Procedure"
	case KindTrigger:
		return "Trigger"
	case KindVariable:
		return "Variable"
	case KindParameter:
		return "Parameter"
	case KindField:
		return "Field"
	case KindKey:
		return "Key"
	case KindEnumValue:
		return "EnumValue"
	default:
		return "Unknown"
	}
}

// ObjectKind is only meaningful when Kind == KindObject.
type ObjectKind int

const (
	ObjectTable ObjectKind = iota
	ObjectTableExtension
	ObjectPage
	ObjectPageExtension
	ObjectCodeunit
	ObjectReport
	ObjectEnum
	ObjectEnumExtension
	ObjectXmlport
	ObjectQuery
	ObjectInterface
	ObjectPermissionSet
	ObjectControlAddin
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectTable:
		return "Table"
	case ObjectTableExtension:
		return "TableExtension"
	case ObjectPage:
		return "Page"
	case ObjectPageExtension:
		return "PageExtension"
	case ObjectCodeunit:
		return "Codeunit"
	case ObjectReport:
		return "Report"
	case ObjectEnum:
		return "Enum"
	case ObjectEnumExtension:
		return "EnumExtension"
	case ObjectXmlport:
		return "Xmlport"
	case ObjectQuery:
		return "Query"
	case ObjectInterface:
		return "Interface"
	case ObjectPermissionSet:
		return "PermissionSet"
	case ObjectControlAddin:
		return "ControlAddin"
	default:
		return "Unknown"
	}
}

// nodeTypeToObjectKind maps a "<object>_declaration" CST node kind to its
// ObjectKind, per §4.1's node-kind list.
var nodeTypeToObjectKind = map[string]ObjectKind{
	"table_declaration":           ObjectTable,
	"table_extension_declaration": ObjectTableExtension,
	"page_declaration":            ObjectPage,
	"page_extension_declaration":  ObjectPageExtension,
	"codeunit_declaration":        ObjectCodeunit,
	"report_declaration":          ObjectReport,
	"enum_declaration":            ObjectEnum,
	"enum_extension_declaration":  ObjectEnumExtension,
	"xmlport_declaration":         ObjectXmlport,
	"query_declaration":           ObjectQuery,
	"interface_declaration":       ObjectInterface,
	"permissionset_declaration":   ObjectPermissionSet,
	"controladdin_declaration":    ObjectControlAddin,
}

// Position is a zero-indexed line/column pair.
type Position struct {
	Line   uint32
	Column uint32
}

// Range is a half-open line/column span.
type Range struct {
	Start Position
	End   Position
}

// ByteSpan is a half-open byte range within the document source.
type ByteSpan struct {
	Start uint32
	End   uint32
}

func (s ByteSpan) Contains(offset uint32) bool {
	return offset >= s.Start && offset <= s.End
}

// Symbol is one declaration in the extracted symbol tree.
type Symbol struct {
	Name       string
	Kind       Kind
	ObjectKind ObjectKind // valid when Kind == KindObject
	TypeInfo   string     // optional; procedures store return type, leaves store declared type
	Span       ByteSpan   // the whole declaration
	Range      Range
	NameSpan   ByteSpan // the identifier alone, for precise rename edits
	NameRange  Range
	Implements []string  // Object only: interface names from the implements clause
	Children   []*Symbol // insertion (source) order
}

// Extract walks tree once and produces the top-level Object symbols,
// each with its nested members, grounded on the original al-syntax
// extraction (object header -> members -> procedure locals/parameters).
func Extract(tree *cst.Tree, source []byte) []*Symbol {
	root := tree.RootNode()
	var objects []*Symbol
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if obj := extractObject(root.NamedChild(i), source); obj != nil {
			objects = append(objects, obj)
		}
	}
	return objects
}

func extractObject(node *cst.Node, source []byte) *Symbol {
	kind, ok := nodeTypeToObjectKind[node.Type()]
	if !ok {
		return nil
	}

	nameNode := cst.FirstIdentifier(node)
	if nameNode == nil {
		return nil
	}

	obj := &Symbol{
		Name:       cst.IdentifierName(nameNode, source),
		Kind:       KindObject,
		ObjectKind: kind,
		Span:       spanOf(node),
		Range:      rangeOf(node),
		NameSpan:   spanOf(nameNode),
		NameRange:  rangeOf(nameNode),
		Implements: extractImplements(node, source),
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		obj.Children = append(obj.Children, extractMember(child, source)...)
	}

	return obj
}

// extractImplements finds the comma-separated interface list on an object
// header. The grammar may surface this as a dedicated node (searched
// first by type suffix) or, failing that, nothing: unlike the access
// modifier prefix this server never falls back to scanning raw source
// text for "implements", since that would risk matching the word inside
// an unrelated comment or string.
func extractImplements(node *cst.Node, source []byte) []string {
	clause := cst.FirstNamedChildOfType(node, "implements_clause", "implements_list")
	if clause == nil {
		return nil
	}
	idents := cst.NamedChildrenOfType(clause, "identifier", "quoted_identifier")
	if len(idents) == 0 {
		return nil
	}
	names := make([]string, 0, len(idents))
	for _, id := range idents {
		names = append(names, cst.IdentifierName(id, source))
	}
	return names
}

func extractMember(node *cst.Node, source []byte) []*Symbol {
	switch node.Type() {
	case "procedure_declaration":
		if sym := extractProcedure(node, source, KindProcedure); sym != nil {
			return []*Symbol{sym}
		}
	case "trigger_declaration":
		if sym := extractProcedure(node, source, KindTrigger); sym != nil {
			return []*Symbol{sym}
		}
	case "interface_method":
		if sym := extractProcedure(node, source, KindProcedure); sym != nil {
			return []*Symbol{sym}
		}
	case "var_section":
		return extractLeaves(node, source, "variable_declaration", KindVariable)
	case "fields_section":
		return extractLeaves(node, source, "field_declaration", KindField)
	case "keys_section":
		return extractLeaves(node, source, "key_declaration", KindKey)
	case "enum_value_declaration":
		if sym := extractLeaf(node, source, KindEnumValue); sym != nil {
			return []*Symbol{sym}
		}
	}
	return nil
}

func extractProcedure(node *cst.Node, source []byte, kind Kind) *Symbol {
	nameNode := cst.FirstIdentifier(node)
	if nameNode == nil {
		return nil
	}

	sym := &Symbol{
		Name:      cst.IdentifierName(nameNode, source),
		Kind:      kind,
		Span:      spanOf(node),
		Range:     rangeOf(node),
		NameSpan:  spanOf(nameNode),
		NameRange: rangeOf(nameNode),
	}

	if retNode := node.ChildByFieldName("return_type"); retNode != nil {
		sym.TypeInfo = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cst.Text(retNode, source)), ":"))
	}

	// Parameters first, then locals, matching source order.
	if params := node.ChildByFieldName("parameters"); params != nil {
		for _, p := range cst.NamedChildrenOfType(params, "parameter") {
			if leaf := extractLeaf(p, source, KindParameter); leaf != nil {
				sym.Children = append(sym.Children, leaf)
			}
		}
	}
	if varSection := node.ChildByFieldName("vars"); varSection != nil {
		sym.Children = append(sym.Children, extractLeaves(varSection, source, "variable_declaration", KindVariable)...)
	} else if varSection := cst.FirstNamedChildOfType(node, "var_section"); varSection != nil {
		sym.Children = append(sym.Children, extractLeaves(varSection, source, "variable_declaration", KindVariable)...)
	}

	return sym
}

func extractLeaves(section *cst.Node, source []byte, childType string, kind Kind) []*Symbol {
	var out []*Symbol
	for _, child := range cst.NamedChildrenOfType(section, childType) {
		if leaf := extractLeaf(child, source, kind); leaf != nil {
			out = append(out, leaf)
		}
	}
	return out
}

func extractLeaf(node *cst.Node, source []byte, kind Kind) *Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = cst.FirstIdentifier(node)
	}
	if nameNode == nil {
		return nil
	}

	sym := &Symbol{
		Name:      cst.IdentifierName(nameNode, source),
		Kind:      kind,
		Span:      spanOf(node),
		Range:     rangeOf(node),
		NameSpan:  spanOf(nameNode),
		NameRange: rangeOf(nameNode),
	}

	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		sym.TypeInfo = strings.TrimSpace(cst.Text(typeNode, source))
	}

	return sym
}

func spanOf(node *cst.Node) ByteSpan {
	return ByteSpan{Start: node.StartByte(), End: node.EndByte()}
}

func rangeOf(node *cst.Node) Range {
	start, end := node.StartPoint(), node.EndPoint()
	return Range{
		Start: Position{Line: start.Row, Column: start.Column},
		End:   Position{Line: end.Row, Column: end.Column},
	}
}

// Walk calls fn for sym and, recursively, every descendant, depth first.
func Walk(sym *Symbol, fn func(*Symbol)) {
	fn(sym)
	for _, child := range sym.Children {
		Walk(child, fn)
	}
}

// WalkAll runs Walk over every top-level symbol.
func WalkAll(symbols []*Symbol, fn func(*Symbol)) {
	for _, sym := range symbols {
		Walk(sym, fn)
	}
}
