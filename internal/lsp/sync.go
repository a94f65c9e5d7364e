// This file defines the file-synchronization and workspace-folder handlers (§4.4).

package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/aacnsilva/al-lsp/internal/alsymbol"
	"github.com/aacnsilva/al-lsp/internal/reqlock"
	"github.com/aacnsilva/al-lsp/internal/store"
)

// DidOpen creates/replaces the document from the client-supplied text
// and publishes diagnostics.
func (s *server) DidOpen(
	ctx context.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	ctx = reqlock.WithRequestID(ctx)
	doc, err := s.store.Put(ctx, params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
	if err != nil {
		s.logger.Warn("didOpen: parse failed", zap.Error(err))
		return nil
	}
	s.publishDiagnostics(ctx, doc)
	return nil
}

// DidChange re-derives the full source and reparses it. Because this
// server advertises TextDocumentSyncKindFull, ContentChanges always
// carries the whole new text (§4.4 step 4).
func (s *server) DidChange(
	ctx context.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	ctx = reqlock.WithRequestID(ctx)
	if len(params.ContentChanges) == 0 {
		return nil
	}
	doc, err := s.store.Put(ctx, params.TextDocument.URI, params.TextDocument.Version, params.ContentChanges[0].Text)
	if err != nil {
		s.logger.Warn("didChange: parse failed", zap.Error(err))
		return nil
	}
	s.publishDiagnostics(ctx, doc)
	return nil
}

// DidClose never evicts the document: cross-document features depend
// on it remaining available (§4.4 step 5, §4.6).
func (s *server) DidClose(
	ctx context.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	return nil
}

// DidChangeWatchedFiles is handled by the store's own fsnotify watcher;
// this notification is accepted but otherwise ignored to avoid a
// redundant second reconciliation path.
func (s *server) DidChangeWatchedFiles(
	ctx context.Context,
	params *protocol.DidChangeWatchedFilesParams,
) error {
	return nil
}

// DidChangeWorkspaceFolders adds/removes roots then rescans (§4.4 step 7).
func (s *server) DidChangeWorkspaceFolders(
	ctx context.Context,
	params *protocol.DidChangeWorkspaceFoldersParams,
) error {
	ctx = reqlock.WithRequestID(ctx)

	var added, removed []string
	for _, folder := range params.Event.Added {
		if path, ok := store.URIToPath(protocol.URI(folder.URI)); ok {
			added = append(added, path)
		}
	}
	for _, folder := range params.Event.Removed {
		if path, ok := store.URIToPath(protocol.URI(folder.URI)); ok {
			removed = append(removed, path)
		}
	}

	s.store.RemoveRoots(removed)
	s.store.AddRoots(added)
	if s.watcher != nil {
		for _, root := range added {
			s.watcher.AddRoot(root)
		}
	}

	go s.store.ScanRoots(ctx)
	return nil
}

// publishDiagnostics republishes doc's diagnostics, including an empty
// list when a reparse clears every previous diagnostic (§10).
func (s *server) publishDiagnostics(ctx context.Context, doc *store.Document) {
	diagnostics := make([]protocol.Diagnostic, 0, len(doc.Diagnostics))
	for _, d := range doc.Diagnostics {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    store.LSPRange(d.Range),
			Severity: protocol.DiagnosticSeverityError,
			Source:   alsymbol.Source,
			Message:  d.Message,
		})
	}

	_ = s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     uint32(doc.Version),
		Diagnostics: diagnostics,
	})
}
