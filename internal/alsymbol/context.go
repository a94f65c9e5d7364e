package alsymbol

import (
	"strings"

	"github.com/aacnsilva/al-lsp/internal/cst"
)

// ContextKind is one of the six semantic positions the engine branches
// on for go-to-definition, find-references, and rename. Centralizing the
// classification here means every feature handler asks the same
// question the same way instead of re-deriving it.
type ContextKind int

const (
	ContextOther ContextKind = iota
	ContextInterfaceMethod
	ContextImplementationProcedure
	ContextCodeunitProcedure
	ContextInterfaceTypedCall
	ContextCodeunitTypedCall
)

// Context is the result of classifying the cursor position.
type Context struct {
	Kind ContextKind

	// ObjectName is the interface name (ContextInterfaceMethod,
	// ContextInterfaceTypedCall), the codeunit name (ContextCodeunitProcedure,
	// ContextCodeunitTypedCall), or the owning object's name
	// (ContextImplementationProcedure).
	ObjectName string
	MethodName string
	Implements []string // ContextImplementationProcedure only
}

// typeKeywords lists the type-info prefixes recognized for a typed
// variable/parameter declaration ("Interface IFoo", "Codeunit Bar", ...),
// per §4.5's go-to-type-definition list.
var typeKeywords = map[string]bool{
	"record":    true,
	"codeunit":  true,
	"page":      true,
	"report":    true,
	"query":     true,
	"xmlport":   true,
	"enum":      true,
	"interface": true,
}

// SplitTypeInfo parses a declared type string of the form "<Kind>
// <object-name>" (quotes around the name stripped), returning ok=false
// if typeInfo isn't one of the recognized object-reference kinds.
func SplitTypeInfo(typeInfo string) (keyword, name string, ok bool) {
	fields := strings.SplitN(strings.TrimSpace(typeInfo), " ", 2)
	if len(fields) != 2 {
		return "", "", false
	}
	keyword = fields[0]
	if !typeKeywords[strings.ToLower(keyword)] {
		return "", "", false
	}
	name = strings.Trim(strings.TrimSpace(fields[1]), `"`)
	if name == "" {
		return "", "", false
	}
	return keyword, name, true
}

// Classify determines which of the six semantic positions offset sits
// in, using both the symbol table and the call-expression shape around
// the cursor.
func Classify(tree *cst.Tree, source []byte, table *DocumentSymbolTable, offset uint32) Context {
	if keyword, objectName, method, ok := typedCallAt(tree, source, table, offset); ok {
		switch strings.ToLower(keyword) {
		case "interface":
			return Context{Kind: ContextInterfaceTypedCall, ObjectName: objectName, MethodName: method}
		case "codeunit":
			return Context{Kind: ContextCodeunitTypedCall, ObjectName: objectName, MethodName: method}
		}
	}

	if iface, method, ok := table.InterfaceMethodAt(offset); ok {
		return Context{Kind: ContextInterfaceMethod, ObjectName: iface, MethodName: method}
	}

	if implements, method, ok := table.ImplementationProcedureAt(offset); ok {
		objName := ""
		if obj := table.containingObject(offset); obj != nil {
			objName = obj.Name
		}
		return Context{Kind: ContextImplementationProcedure, ObjectName: objName, MethodName: method, Implements: implements}
	}

	if obj, method, ok := table.CodeunitProcedureAt(offset); ok {
		return Context{Kind: ContextCodeunitProcedure, ObjectName: obj, MethodName: method}
	}

	return Context{Kind: ContextOther}
}

// enclosingCall walks up from node to the nearest function_call/method_call ancestor.
func enclosingCall(node *cst.Node) *cst.Node {
	for n := node; n != nil; n = n.Parent() {
		switch n.Type() {
		case "method_call", "function_call":
			return n
		}
	}
	return nil
}

// typedCallAt reports whether offset sits on the method token of a
// `Var.Method()` call where Var resolves (via scoped lookup) to a
// variable/parameter declared with an object-reference type, returning
// that type's keyword and object name plus the called method's name.
func typedCallAt(tree *cst.Tree, source []byte, table *DocumentSymbolTable, offset uint32) (keyword, objectName, methodName string, ok bool) {
	node := cst.NodeAtOffset(tree, offset)
	if !cst.IsIdentifier(node) {
		return "", "", "", false
	}

	call := enclosingCall(node)
	if call == nil || call.Type() != "method_call" {
		return "", "", "", false
	}

	methodNode := call.ChildByFieldName("method")
	receiverNode := call.ChildByFieldName("object")
	if methodNode == nil || receiverNode == nil {
		idents := cst.NamedChildrenOfType(call, "identifier", "quoted_identifier")
		if len(idents) < 2 {
			return "", "", "", false
		}
		receiverNode, methodNode = idents[0], idents[len(idents)-1]
	}

	if methodNode.StartByte() != node.StartByte() || methodNode.EndByte() != node.EndByte() {
		// Cursor is on the receiver, not the method; not our concern here.
		return "", "", "", false
	}

	receiverName := cst.IdentifierName(receiverNode, source)
	for _, candidate := range table.LookupInScope(receiverName, receiverNode.StartByte()) {
		if candidate.Kind != KindVariable && candidate.Kind != KindParameter {
			continue
		}
		if kw, name, ok := SplitTypeInfo(candidate.TypeInfo); ok {
			return kw, name, cst.IdentifierName(methodNode, source), true
		}
	}

	return "", "", "", false
}
