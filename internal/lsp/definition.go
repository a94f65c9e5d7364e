// This file defines go-to-definition, go-to-type-definition, and
// go-to-implementation (§4.5).

package lsp

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/aacnsilva/al-lsp/internal/alsymbol"
	"github.com/aacnsilva/al-lsp/internal/cst"
	"github.com/aacnsilva/al-lsp/internal/reqlock"
	"github.com/aacnsilva/al-lsp/internal/store"
)

// Definition implements the two-step algorithm in §4.5: prefer the
// interface fan-out when the cursor sits in an implementation procedure,
// otherwise fall back to scoped lookup, refusing self-navigation.
func (s *server) Definition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	ctx = reqlock.WithRequestID(ctx)
	doc := s.store.Get(ctx, params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	offset := doc.ByteOffset(params.Position)

	if implements, method, ok := doc.Symbols.ImplementationProcedureAt(offset); ok {
		var locs []protocol.Location
		s.store.Range(ctx, func(uri protocol.URI, other *store.Document) bool {
			for _, iface := range implements {
				if m := other.Symbols.FindInterfaceMethod(iface, method); m != nil {
					locs = append(locs, protocol.Location{URI: uri, Range: store.LSPRange(m.NameRange)})
				}
			}
			return true
		})
		if len(locs) > 0 {
			return locs, nil
		}
	}

	node := cst.NodeAtOffset(doc.Tree, offset)
	if !cst.IsIdentifier(node) {
		return nil, nil
	}
	target := resolveTarget(doc, node, offset)
	if target == nil || nodeSpan(node) == target.NameSpan {
		return nil, nil
	}
	return []protocol.Location{{URI: doc.URI, Range: store.LSPRange(target.NameRange)}}, nil
}

// TypeDefinition resolves the identifier's declared type and finds the
// object it names, current document first (§4.5).
func (s *server) TypeDefinition(ctx context.Context, params *protocol.TypeDefinitionParams) ([]protocol.Location, error) {
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

	results := doc.Symbols.LookupInScope(cst.IdentifierName(node, doc.Source()), offset)
	if len(results) == 0 {
		return nil, nil
	}
	_, objectName, ok := alsymbol.SplitTypeInfo(results[0].TypeInfo)
	if !ok {
		return nil, nil
	}

	if obj := doc.Symbols.FindObjectByName(objectName); obj != nil {
		return []protocol.Location{{URI: doc.URI, Range: store.LSPRange(obj.NameRange)}}, nil
	}

	var found *protocol.Location
	s.store.Range(ctx, func(uri protocol.URI, other *store.Document) bool {
		if obj := other.Symbols.FindObjectByName(objectName); obj != nil {
			loc := protocol.Location{URI: uri, Range: store.LSPRange(obj.NameRange)}
			found = &loc
			return false
		}
		return true
	})
	if found == nil {
		return nil, nil
	}
	return []protocol.Location{*found}, nil
}

// Implementation fans out across documents for every procedure that
// implements the interface method at the offset (§4.5).
func (s *server) Implementation(ctx context.Context, params *protocol.ImplementationParams) ([]protocol.Location, error) {
	ctx = reqlock.WithRequestID(ctx)
	doc := s.store.Get(ctx, params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	offset := doc.ByteOffset(params.Position)

	iface, method, ok := doc.Symbols.InterfaceMethodAt(offset)
	if !ok {
		return nil, nil
	}

	var locs []protocol.Location
	s.store.Range(ctx, func(uri protocol.URI, other *store.Document) bool {
		for _, proc := range other.Symbols.FindImplementationProcedures(iface, method) {
			locs = append(locs, protocol.Location{URI: uri, Range: store.LSPRange(proc.NameRange)})
		}
		return true
	})
	return locs, nil
}
