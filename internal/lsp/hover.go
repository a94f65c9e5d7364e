// This file defines hover (§4.5).

package lsp

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"

	"github.com/aacnsilva/al-lsp/internal/alsymbol"
	"github.com/aacnsilva/al-lsp/internal/cst"
	"github.com/aacnsilva/al-lsp/internal/reqlock"
	"github.com/aacnsilva/al-lsp/internal/store"
)

// Hover attempts scoped resolution; on a miss it falls back to a bare
// identifier lookup across the whole document (§10).
func (s *server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	ctx = reqlock.WithRequestID(ctx)
	doc := s.store.Get(ctx, params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	offset := doc.ByteOffset(params.Position)
	node := cst.NodeAtOffset(doc.Tree, offset)
	if !cst.IsIdentifier(node) {
		return nil, nil
	}
	name := cst.IdentifierName(node, doc.Source())

	results := doc.Symbols.LookupInScope(name, offset)
	if len(results) == 0 {
		results = doc.Symbols.Lookup(name)
	}
	if len(results) == 0 {
		return nil, nil
	}
	sym := results[0]

	text := fmt.Sprintf("(%s) %s", hoverKind(sym), sym.Name)
	if sym.TypeInfo != "" {
		text += ": " + sym.TypeInfo
	}

	r := store.LSPRange(nodeRange(node))
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: "```al\n" + text + "\n```",
		},
		Range: &r,
	}, nil
}

func hoverKind(sym *alsymbol.Symbol) string {
	if sym.Kind == alsymbol.KindObject {
		return sym.ObjectKind.String()
	}
	return sym.Kind.String()
}
