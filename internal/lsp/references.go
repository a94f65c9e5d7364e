// This file defines find-references and document-highlight (§4.5). Both
// route through alsymbol.Classify, the single "where am I" inspector
// (§9), so the five reference modes are never re-derived here.

package lsp

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/aacnsilva/al-lsp/internal/alsymbol"
	"github.com/aacnsilva/al-lsp/internal/cst"
	"github.com/aacnsilva/al-lsp/internal/reqlock"
	"github.com/aacnsilva/al-lsp/internal/store"
)

func (s *server) References(ctx context.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	ctx = reqlock.WithRequestID(ctx)
	doc := s.store.Get(ctx, params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	offset := doc.ByteOffset(params.Position)
	includeDecl := params.Context.IncludeDeclaration

	classification := alsymbol.Classify(doc.Tree, doc.Source(), doc.Symbols, offset)
	switch classification.Kind {
	case alsymbol.ContextInterfaceTypedCall:
		return s.referencesInterfaceTypedCall(ctx, classification, includeDecl), nil
	case alsymbol.ContextCodeunitTypedCall:
		return s.referencesCodeunitTypedCall(ctx, classification), nil
	case alsymbol.ContextInterfaceMethod:
		return s.referencesInterfaceMethod(ctx, doc, classification, includeDecl), nil
	case alsymbol.ContextImplementationProcedure:
		return s.referencesImplementationProcedure(ctx, doc, classification), nil
	default:
		// Safety fence (§4.5): any other identifier gets same-document
		// references only, so names like a control label never "leak"
		// matches into unrelated documents.
		node := cst.NodeAtOffset(doc.Tree, offset)
		if !cst.IsIdentifier(node) {
			return nil, nil
		}
		target := resolveTarget(doc, node, offset)
		if target == nil {
			return nil, nil
		}
		ranges := referencesInDocument(doc, target)
		if !includeDecl {
			ranges = excludeRange(ranges, target.NameRange)
		}
		return toLocations(doc.URI, ranges), nil
	}
}

func (s *server) referencesInterfaceTypedCall(ctx context.Context, c alsymbol.Context, includeDecl bool) []protocol.Location {
	var locs []protocol.Location
	s.store.Range(ctx, func(uri protocol.URI, doc *store.Document) bool {
		if includeDecl {
			if m := doc.Symbols.FindInterfaceMethod(c.ObjectName, c.MethodName); m != nil {
				locs = append(locs, protocol.Location{URI: uri, Range: store.LSPRange(m.NameRange)})
			}
		}
		locs = append(locs, findTypedCallSites(doc, "interface", c.ObjectName, c.MethodName)...)
		return true
	})
	return locs
}

func (s *server) referencesCodeunitTypedCall(ctx context.Context, c alsymbol.Context) []protocol.Location {
	var locs []protocol.Location
	s.store.Range(ctx, func(uri protocol.URI, doc *store.Document) bool {
		if obj := doc.Symbols.FindObjectByName(c.ObjectName); obj != nil {
			if proc := alsymbol.FindObjectProcedure(obj, c.MethodName); proc != nil {
				locs = append(locs, protocol.Location{URI: uri, Range: store.LSPRange(proc.NameRange)})
			}
		}
		locs = append(locs, findTypedCallSites(doc, "codeunit", c.ObjectName, c.MethodName)...)
		return true
	})
	return locs
}

func (s *server) referencesInterfaceMethod(ctx context.Context, doc *store.Document, c alsymbol.Context, includeDecl bool) []protocol.Location {
	target := doc.Symbols.FindInterfaceMethod(c.ObjectName, c.MethodName)
	if target == nil {
		return nil
	}
	sameDoc := referencesInDocument(doc, target)
	if !includeDecl {
		sameDoc = excludeRange(sameDoc, target.NameRange)
	}
	locs := toLocations(doc.URI, sameDoc)

	s.store.Range(ctx, func(uri protocol.URI, other *store.Document) bool {
		locs = append(locs, findTypedCallSites(other, "interface", c.ObjectName, c.MethodName)...)
		return true
	})
	return locs
}

// referencesImplementationProcedure deliberately excludes interface-typed
// call sites (§4.5): only direct calls to this implementation count.
func (s *server) referencesImplementationProcedure(ctx context.Context, doc *store.Document, c alsymbol.Context) []protocol.Location {
	obj := doc.Symbols.FindObjectByName(c.ObjectName)
	if obj == nil {
		return nil
	}
	target := alsymbol.FindObjectProcedure(obj, c.MethodName)
	if target == nil {
		return nil
	}

	locs := toLocations(doc.URI, referencesInDocument(doc, target))

	for _, iface := range c.Implements {
		if m := doc.Symbols.FindInterfaceMethod(iface, c.MethodName); m != nil {
			locs = append(locs, protocol.Location{URI: doc.URI, Range: store.LSPRange(m.NameRange)})
			continue
		}
		s.store.Range(ctx, func(uri protocol.URI, other *store.Document) bool {
			if m := other.Symbols.FindInterfaceMethod(iface, c.MethodName); m != nil {
				locs = append(locs, protocol.Location{URI: uri, Range: store.LSPRange(m.NameRange)})
			}
			return true
		})
	}

	s.store.Range(ctx, func(uri protocol.URI, other *store.Document) bool {
		locs = append(locs, findTypedCallSites(other, "codeunit", c.ObjectName, c.MethodName)...)
		return true
	})
	return locs
}

// DocumentHighlight is same-document references with includeDeclaration
// true, reported uniformly as Read (§4.5).
func (s *server) DocumentHighlight(ctx context.Context, params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
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
	target := resolveTarget(doc, node, offset)
	if target == nil {
		return nil, nil
	}

	ranges := referencesInDocument(doc, target)
	out := make([]protocol.DocumentHighlight, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, protocol.DocumentHighlight{
			Range: store.LSPRange(r),
			Kind:  protocol.DocumentHighlightKindRead,
		})
	}
	return out, nil
}

func excludeRange(ranges []alsymbol.Range, skip alsymbol.Range) []alsymbol.Range {
	out := ranges[:0:0]
	for _, r := range ranges {
		if r != skip {
			out = append(out, r)
		}
	}
	return out
}
