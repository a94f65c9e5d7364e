// This file defines completion (§4.5): no ranking, just a case-insensitive
// prefix filter over reachable symbols and a fixed AL keyword list.

package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/aacnsilva/al-lsp/internal/alsymbol"
	"github.com/aacnsilva/al-lsp/internal/reqlock"
)

var alKeywords = []string{
	"begin", "end", "var", "if", "then", "else", "for", "to", "downto", "do",
	"while", "repeat", "until", "case", "of", "procedure", "trigger",
	"local", "internal", "protected", "implements", "exit", "with",
	"record", "array", "text", "integer", "boolean", "decimal", "option",
	"date", "time", "datetime", "guid", "code", "label",
	"table", "tableextension", "page", "pageextension", "codeunit",
	"report", "enum", "enumextension", "xmlport", "query", "interface",
	"permissionset", "controladdin",
}

func (s *server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	ctx = reqlock.WithRequestID(ctx)
	doc := s.store.Get(ctx, params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	offset := doc.ByteOffset(params.Position)
	prefix := strings.ToLower(wordPrefix(doc.Source(), offset))

	var items []protocol.CompletionItem
	seen := make(map[string]bool)
	for _, sym := range doc.Symbols.ReachableSymbols(offset) {
		if !strings.HasPrefix(strings.ToLower(sym.Name), prefix) {
			continue
		}
		key := strings.ToLower(sym.Name) + "\x00" + sym.Kind.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, protocol.CompletionItem{
			Label:  sym.Name,
			Kind:   completionItemKind(sym),
			Detail: sym.TypeInfo,
		})
	}
	for _, kw := range alKeywords {
		if strings.HasPrefix(kw, prefix) {
			items = append(items, protocol.CompletionItem{
				Label: kw,
				Kind:  protocol.CompletionItemKindKeyword,
			})
		}
	}
	return &protocol.CompletionList{Items: items}, nil
}

// wordPrefix returns the longest run of [A-Za-z0-9_] ending at offset.
func wordPrefix(source []byte, offset uint32) string {
	if offset > uint32(len(source)) {
		return ""
	}
	start := offset
	for start > 0 && isWordByte(source[start-1]) {
		start--
	}
	return string(source[start:offset])
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func completionItemKind(sym *alsymbol.Symbol) protocol.CompletionItemKind {
	switch sym.Kind {
	case alsymbol.KindObject:
		return protocol.CompletionItemKindModule
	case alsymbol.KindProcedure, alsymbol.KindTrigger:
		return protocol.CompletionItemKindMethod
	case alsymbol.KindVariable, alsymbol.KindParameter:
		return protocol.CompletionItemKindVariable
	case alsymbol.KindField:
		return protocol.CompletionItemKindField
	case alsymbol.KindKey:
		return protocol.CompletionItemKindProperty
	case alsymbol.KindEnumValue:
		return protocol.CompletionItemKindEnumMember
	default:
		return protocol.CompletionItemKindText
	}
}
