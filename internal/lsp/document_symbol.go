// This file defines documentSymbol and workspace/symbol (§4.5).

package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/aacnsilva/al-lsp/internal/alsymbol"
	"github.com/aacnsilva/al-lsp/internal/reqlock"
	"github.com/aacnsilva/al-lsp/internal/store"
)

func (s *server) DocumentSymbol(ctx context.Context, params *protocol.DocumentSymbolParams) ([]interface{}, error) {
	ctx = reqlock.WithRequestID(ctx)
	doc := s.store.Get(ctx, params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	out := make([]interface{}, 0, len(doc.Symbols.Symbols))
	for _, sym := range doc.Symbols.Symbols {
		out = append(out, toDocumentSymbol(sym))
	}
	return out, nil
}

func toDocumentSymbol(sym *alsymbol.Symbol) protocol.DocumentSymbol {
	var children []protocol.DocumentSymbol
	for _, child := range sym.Children {
		children = append(children, toDocumentSymbol(child))
	}
	return protocol.DocumentSymbol{
		Name:           sym.Name,
		Detail:         sym.TypeInfo,
		Kind:           symbolKind(sym),
		Range:          store.LSPRange(sym.Range),
		SelectionRange: store.LSPRange(sym.NameRange),
		Children:       children,
	}
}

func symbolKind(sym *alsymbol.Symbol) protocol.SymbolKind {
	switch sym.Kind {
	case alsymbol.KindObject:
		return objectSymbolKind(sym.ObjectKind)
	case alsymbol.KindProcedure, alsymbol.KindTrigger:
		return protocol.SymbolKindMethod
	case alsymbol.KindVariable, alsymbol.KindParameter:
		return protocol.SymbolKindVariable
	case alsymbol.KindField:
		return protocol.SymbolKindField
	case alsymbol.KindKey:
		return protocol.SymbolKindKey
	case alsymbol.KindEnumValue:
		return protocol.SymbolKindEnumMember
	default:
		return protocol.SymbolKindNull
	}
}

func objectSymbolKind(kind alsymbol.ObjectKind) protocol.SymbolKind {
	switch kind {
	case alsymbol.ObjectTable, alsymbol.ObjectTableExtension:
		return protocol.SymbolKindStruct
	case alsymbol.ObjectInterface:
		return protocol.SymbolKindInterface
	case alsymbol.ObjectEnum, alsymbol.ObjectEnumExtension:
		return protocol.SymbolKindEnum
	case alsymbol.ObjectCodeunit:
		return protocol.SymbolKindModule
	default:
		return protocol.SymbolKindClass
	}
}

// Symbols implements workspace/symbol: a flat, case-insensitive substring
// match over every document's symbol tree (§4.5).
func (s *server) Symbols(ctx context.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	ctx = reqlock.WithRequestID(ctx)
	query := strings.ToLower(params.Query)

	var out []protocol.SymbolInformation
	s.store.Range(ctx, func(uri protocol.URI, doc *store.Document) bool {
		alsymbol.WalkAll(doc.Symbols.Symbols, func(sym *alsymbol.Symbol) {
			if query == "" || strings.Contains(strings.ToLower(sym.Name), query) {
				out = append(out, protocol.SymbolInformation{
					Name: sym.Name,
					Kind: symbolKind(sym),
					Location: protocol.Location{
						URI:   uri,
						Range: store.LSPRange(sym.NameRange),
					},
				})
			}
		})
		return true
	})
	return out, nil
}
