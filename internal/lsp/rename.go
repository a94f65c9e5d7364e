// This file defines prepareRename and rename (§4.5).

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

// PrepareRename refuses Trigger and Object kinds: renaming either is too
// invasive to support (§4.5, §7).
func (s *server) PrepareRename(ctx context.Context, params *protocol.PrepareRenameParams) (*protocol.Range, error) {
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
	if target == nil || target.Kind == alsymbol.KindTrigger || target.Kind == alsymbol.KindObject {
		return nil, nil
	}
	r := store.LSPRange(nodeRange(node))
	return &r, nil
}

func quoteIfNeeded(name string) string {
	if strings.ContainsAny(name, " \t") {
		return `"` + name + `"`
	}
	return name
}

// Rename implements the six semantic modes in §4.5, reusing the same
// alsymbol.Classify inspector that drives References.
func (s *server) Rename(ctx context.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
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
	if target == nil || target.Kind == alsymbol.KindTrigger || target.Kind == alsymbol.KindObject {
		return nil, nil
	}

	newText := quoteIfNeeded(params.NewName)
	edits := make(map[protocol.DocumentURI][]protocol.TextEdit)
	add := func(uri protocol.URI, r alsymbol.Range) {
		key := protocol.DocumentURI(uri)
		edits[key] = append(edits[key], protocol.TextEdit{Range: store.LSPRange(r), NewText: newText})
	}

	classification := alsymbol.Classify(doc.Tree, doc.Source(), doc.Symbols, offset)
	switch classification.Kind {
	case alsymbol.ContextInterfaceTypedCall, alsymbol.ContextInterfaceMethod:
		iface, method := classification.ObjectName, classification.MethodName
		s.store.Range(ctx, func(uri protocol.URI, other *store.Document) bool {
			if m := other.Symbols.FindInterfaceMethod(iface, method); m != nil {
				add(uri, m.NameRange)
			}
			for _, impl := range other.Symbols.FindImplementationProcedures(iface, method) {
				add(uri, impl.NameRange)
			}
			for _, loc := range findTypedCallSites(other, "interface", iface, method) {
				key := protocol.DocumentURI(loc.URI)
				edits[key] = append(edits[key], protocol.TextEdit{Range: loc.Range, NewText: newText})
			}
			return true
		})

	case alsymbol.ContextCodeunitTypedCall, alsymbol.ContextCodeunitProcedure:
		s.renameCodeunitProcedure(ctx, classification.ObjectName, classification.MethodName, newText, edits)

	case alsymbol.ContextImplementationProcedure:
		obj := doc.Symbols.FindObjectByName(classification.ObjectName)
		proc := alsymbol.FindObjectProcedure(obj, classification.MethodName)
		if proc == nil {
			return nil, nil
		}
		add(doc.URI, proc.NameRange)
		for _, r := range referencesInDocument(doc, proc) {
			if r != proc.NameRange {
				add(doc.URI, r)
			}
		}
		for _, iface := range classification.Implements {
			if m := doc.Symbols.FindInterfaceMethod(iface, classification.MethodName); m != nil {
				add(doc.URI, m.NameRange)
				continue
			}
			s.store.Range(ctx, func(uri protocol.URI, other *store.Document) bool {
				if m := other.Symbols.FindInterfaceMethod(iface, classification.MethodName); m != nil {
					add(uri, m.NameRange)
				}
				return true
			})
		}

	default:
		for _, r := range referencesInDocument(doc, target) {
			add(doc.URI, r)
		}
	}

	if len(edits) == 0 {
		return nil, nil
	}
	return &protocol.WorkspaceEdit{Changes: edits}, nil
}

// renameCodeunitProcedure handles modes 2 and 5 of §4.5: the procedure
// definition, every same-document unqualified call inside that codeunit,
// and every qualified call site across documents.
func (s *server) renameCodeunitProcedure(ctx context.Context, objectName, method, newText string, edits map[protocol.DocumentURI][]protocol.TextEdit) {
	add := func(uri protocol.URI, r alsymbol.Range) {
		key := protocol.DocumentURI(uri)
		edits[key] = append(edits[key], protocol.TextEdit{Range: store.LSPRange(r), NewText: newText})
	}
	s.store.Range(ctx, func(uri protocol.URI, other *store.Document) bool {
		if obj := other.Symbols.FindObjectByName(objectName); obj != nil {
			if proc := alsymbol.FindObjectProcedure(obj, method); proc != nil {
				add(uri, proc.NameRange)
				for _, r := range referencesInDocument(other, proc) {
					if r != proc.NameRange {
						add(uri, r)
					}
				}
			}
		}
		for _, loc := range findTypedCallSites(other, "codeunit", objectName, method) {
			key := protocol.DocumentURI(loc.URI)
			edits[key] = append(edits[key], protocol.TextEdit{Range: loc.Range, NewText: newText})
		}
		return true
	})
}
