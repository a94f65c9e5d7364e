// This file holds small helpers shared by the query/refactor handlers.

package lsp

import (
	"strings"

	"go.lsp.dev/protocol"

	"github.com/aacnsilva/al-lsp/internal/alsymbol"
	"github.com/aacnsilva/al-lsp/internal/cst"
	"github.com/aacnsilva/al-lsp/internal/store"
)

func nodeSpan(n *cst.Node) alsymbol.ByteSpan {
	return alsymbol.ByteSpan{Start: n.StartByte(), End: n.EndByte()}
}

func nodeRange(n *cst.Node) alsymbol.Range {
	start := n.StartPoint()
	end := n.EndPoint()
	return alsymbol.Range{
		Start: alsymbol.Position{Line: start.Row, Column: start.Column},
		End:   alsymbol.Position{Line: end.Row, Column: end.Column},
	}
}

// definingSymbolAt reports the symbol, if any, whose defining-name span is
// exactly span.
func definingSymbolAt(symbols []*alsymbol.Symbol, span alsymbol.ByteSpan) *alsymbol.Symbol {
	var found *alsymbol.Symbol
	alsymbol.WalkAll(symbols, func(sym *alsymbol.Symbol) {
		if found == nil && sym.NameSpan == span {
			found = sym
		}
	})
	return found
}

// resolveTarget finds the symbol that node refers to: node's own
// definition if node names one, else the result of scoped lookup.
func resolveTarget(doc *store.Document, node *cst.Node, offset uint32) *alsymbol.Symbol {
	if def := definingSymbolAt(doc.Symbols.Symbols, nodeSpan(node)); def != nil {
		return def
	}
	name := cst.IdentifierName(node, doc.Source())
	results := doc.Symbols.LookupInScope(name, offset)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}

// referencesInDocument implements the find-all-references algorithm
// (spec §4.5): every identifier/quoted_identifier whose lowercase name
// matches target, filtered by resolution back to target's defining span.
func referencesInDocument(doc *store.Document, target *alsymbol.Symbol) []alsymbol.Range {
	name := strings.ToLower(target.Name)
	source := doc.Source()
	var ranges []alsymbol.Range

	var walk func(n *cst.Node)
	walk = func(n *cst.Node) {
		if n == nil {
			return
		}
		if cst.IsIdentifier(n) && strings.ToLower(cst.IdentifierName(n, source)) == name {
			span := nodeSpan(n)
			if def := definingSymbolAt(doc.Symbols.Symbols, span); def != nil {
				if span == target.NameSpan {
					ranges = append(ranges, nodeRange(n))
				}
			} else {
				for _, resolved := range doc.Symbols.LookupInScope(cst.IdentifierName(n, source), n.StartByte()) {
					if resolved.NameSpan == target.NameSpan {
						ranges = append(ranges, nodeRange(n))
						break
					}
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(doc.Tree.RootNode())
	return ranges
}

func toLocations(uri protocol.URI, ranges []alsymbol.Range) []protocol.Location {
	locs := make([]protocol.Location, 0, len(ranges))
	for _, r := range ranges {
		locs = append(locs, protocol.Location{URI: uri, Range: store.LSPRange(r)})
	}
	return locs
}

// findTypedCallSites walks doc's CST for method_call nodes whose method
// name matches method and whose receiver resolves, via scoped lookup, to
// a variable or parameter typed "<keyword> <typeName>". It returns the
// location of the method-name token at every such call site.
func findTypedCallSites(doc *store.Document, keyword, typeName, method string) []protocol.Location {
	source := doc.Source()
	lowerMethod := strings.ToLower(method)
	lowerType := strings.ToLower(typeName)
	lowerKeyword := strings.ToLower(keyword)

	var locs []protocol.Location
	var walk func(n *cst.Node)
	walk = func(n *cst.Node) {
		if n == nil {
			return
		}
		if n.Type() == "method_call" {
			receiver, methodNode := callReceiverAndMethod(n)
			if receiver != nil && methodNode != nil &&
				strings.ToLower(cst.IdentifierName(methodNode, source)) == lowerMethod {
				for _, cand := range doc.Symbols.LookupInScope(cst.IdentifierName(receiver, source), receiver.StartByte()) {
					if cand.Kind != alsymbol.KindVariable && cand.Kind != alsymbol.KindParameter {
						continue
					}
					if kw, name, ok := alsymbol.SplitTypeInfo(cand.TypeInfo); ok &&
						strings.ToLower(kw) == lowerKeyword && strings.ToLower(name) == lowerType {
						locs = append(locs, protocol.Location{URI: doc.URI, Range: store.LSPRange(nodeRange(methodNode))})
						break
					}
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(doc.Tree.RootNode())
	return locs
}

// callReceiverAndMethod extracts the "Var" and "Method" identifiers from a
// method_call node, falling back to position when field names are absent.
func callReceiverAndMethod(call *cst.Node) (receiver, method *cst.Node) {
	receiver = call.ChildByFieldName("object")
	method = call.ChildByFieldName("method")
	if receiver != nil && method != nil {
		return receiver, method
	}
	idents := cst.NamedChildrenOfType(call, "identifier", "quoted_identifier")
	if len(idents) < 2 {
		return nil, nil
	}
	return idents[0], idents[len(idents)-1]
}
