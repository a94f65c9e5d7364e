// This file defines signature help (§4.5).

package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/aacnsilva/al-lsp/internal/alsymbol"
	"github.com/aacnsilva/al-lsp/internal/cst"
	"github.com/aacnsilva/al-lsp/internal/reqlock"
	"github.com/aacnsilva/al-lsp/internal/store"
)

// SignatureHelp walks up to the enclosing call, resolves which procedure
// it names, and renders "Name(param: type, …)[: ReturnType]" with the
// active parameter tracked by counting ',' tokens preceding the offset.
func (s *server) SignatureHelp(ctx context.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	ctx = reqlock.WithRequestID(ctx)
	doc := s.store.Get(ctx, params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	offset := doc.ByteOffset(params.Position)
	source := doc.Source()

	node := cst.NodeAtOffset(doc.Tree, offset)
	call := enclosingCallNode(node)
	if call == nil {
		return nil, nil
	}

	nameNode := call.ChildByFieldName("method")
	if nameNode == nil {
		nameNode = call.ChildByFieldName("name")
	}
	if nameNode == nil {
		idents := cst.NamedChildrenOfType(call, "identifier", "quoted_identifier")
		if len(idents) == 0 {
			return nil, nil
		}
		nameNode = idents[len(idents)-1]
	}
	name := cst.IdentifierName(nameNode, source)

	target := s.resolveCalledProcedure(ctx, doc, call, name, nameNode)
	if target == nil {
		return nil, nil
	}

	var paramLabels []string
	for _, child := range target.Children {
		if child.Kind != alsymbol.KindParameter {
			continue
		}
		if child.TypeInfo != "" {
			paramLabels = append(paramLabels, child.Name+": "+child.TypeInfo)
		} else {
			paramLabels = append(paramLabels, child.Name)
		}
	}

	label := target.Name + "(" + strings.Join(paramLabels, ", ") + ")"
	if target.TypeInfo != "" {
		label += ": " + target.TypeInfo
	}

	sigParams := make([]protocol.ParameterInformation, 0, len(paramLabels))
	for _, p := range paramLabels {
		sigParams = append(sigParams, protocol.ParameterInformation{Label: p})
	}

	activeParam := countCommasBefore(call, offset)
	if activeParam >= len(sigParams) {
		activeParam = len(sigParams) - 1
	}
	if activeParam < 0 {
		activeParam = 0
	}

	return &protocol.SignatureHelp{
		Signatures: []protocol.SignatureInformation{
			{Label: label, Parameters: sigParams},
		},
		ActiveSignature: 0,
		ActiveParameter: uint32(activeParam),
	}, nil
}

func enclosingCallNode(node *cst.Node) *cst.Node {
	for n := node; n != nil; n = n.Parent() {
		switch n.Type() {
		case "method_call", "function_call":
			return n
		}
	}
	return nil
}

func countCommasBefore(call *cst.Node, offset uint32) int {
	count := 0
	for i := 0; i < int(call.ChildCount()); i++ {
		child := call.Child(i)
		if child.Type() == "," && child.StartByte() < offset {
			count++
		}
	}
	return count
}

// resolveCalledProcedure finds the procedure a call expression names: a
// typed method call resolves through the receiver's declared type
// (interface method or object procedure, current document first); a bare
// call resolves name directly via scoped lookup.
func (s *server) resolveCalledProcedure(ctx context.Context, doc *store.Document, call *cst.Node, name string, nameNode *cst.Node) *alsymbol.Symbol {
	if call.Type() != "method_call" {
		for _, r := range doc.Symbols.LookupInScope(name, nameNode.StartByte()) {
			if r.Kind == alsymbol.KindProcedure {
				return r
			}
		}
		return nil
	}

	receiver := call.ChildByFieldName("object")
	if receiver == nil {
		idents := cst.NamedChildrenOfType(call, "identifier", "quoted_identifier")
		if len(idents) >= 2 {
			receiver = idents[0]
		}
	}
	if receiver == nil {
		return nil
	}

	for _, cand := range doc.Symbols.LookupInScope(cst.IdentifierName(receiver, doc.Source()), receiver.StartByte()) {
		if cand.Kind != alsymbol.KindVariable && cand.Kind != alsymbol.KindParameter {
			continue
		}
		keyword, objectName, ok := alsymbol.SplitTypeInfo(cand.TypeInfo)
		if !ok {
			continue
		}
		if target := s.findTypedProcedure(ctx, doc, keyword, objectName, name); target != nil {
			return target
		}
	}
	return nil
}

func (s *server) findTypedProcedure(ctx context.Context, doc *store.Document, keyword, objectName, method string) *alsymbol.Symbol {
	isInterface := strings.EqualFold(keyword, "interface")

	if isInterface {
		if m := doc.Symbols.FindInterfaceMethod(objectName, method); m != nil {
			return m
		}
	} else if obj := doc.Symbols.FindObjectByName(objectName); obj != nil {
		if m := alsymbol.FindObjectProcedure(obj, method); m != nil {
			return m
		}
	}

	var found *alsymbol.Symbol
	s.store.Range(ctx, func(_ protocol.URI, other *store.Document) bool {
		if isInterface {
			if m := other.Symbols.FindInterfaceMethod(objectName, method); m != nil {
				found = m
				return false
			}
			return true
		}
		if obj := other.Symbols.FindObjectByName(objectName); obj != nil {
			if m := alsymbol.FindObjectProcedure(obj, method); m != nil {
				found = m
				return false
			}
		}
		return true
	})
	return found
}
