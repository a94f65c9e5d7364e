// Copyright 2020-2024 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file defines the lifecycle message handlers.

package lsp

import (
	"context"
	"runtime/debug"

	"go.lsp.dev/protocol"
)

var serverInfo = makeServerInfo()

func makeServerInfo() protocol.ServerInfo {
	info := protocol.ServerInfo{Name: serverName}
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.Version = buildInfo.Main.Version
	}
	return info
}

// Initialize is the first message the LSP receives from the client.
func (s *server) Initialize(
	ctx context.Context,
	params *protocol.InitializeParams,
) (*protocol.InitializeResult, error) {
	if err := s.init(ctx, params); err != nil {
		return nil, err
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				// Whole files are sent on every change; the engine performs
				// a full reparse regardless (§4.4), so there is no benefit
				// to incremental sync here.
				Change: protocol.TextDocumentSyncKindFull,
			},
			DefinitionProvider:        true,
			TypeDefinitionProvider:    true,
			ImplementationProvider:    true,
			HoverProvider:             true,
			DocumentSymbolProvider:    true,
			ReferencesProvider:        true,
			DocumentHighlightProvider: true,
			RenameProvider: &protocol.RenameOptions{
				PrepareProvider: true,
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"."},
			},
			SignatureHelpProvider: &protocol.SignatureHelpOptions{
				TriggerCharacters:   []string{"("},
				RetriggerCharacters: []string{","},
			},
			FoldingRangeProvider:       true,
			CodeActionProvider:         true,
			DocumentFormattingProvider: true,
			WorkspaceSymbolProvider:    true,
			Workspace: &protocol.ServerCapabilitiesWorkspace{
				WorkspaceFolders: &protocol.ServerCapabilitiesWorkspaceFolders{
					Supported:           true,
					ChangeNotifications: true,
				},
			},
		},
		ServerInfo: &serverInfo,
	}, nil
}

// Initialized kicks off the recursive workspace scan (§4.4 step 2), now
// that the client has acknowledged initialize.
func (s *server) Initialized(
	ctx context.Context,
	params *protocol.InitializedParams,
) error {
	go s.store.ScanRoots(ctx)
	return nil
}

func (s *server) SetTrace(
	ctx context.Context,
	params *protocol.SetTraceParams,
) error {
	s.traceValue.Store(&params.Value)
	return nil
}

// Shutdown is acknowledged unconditionally (§7).
func (s *server) Shutdown(ctx context.Context) error {
	return nil
}

// Exit closes the connection so the process can exit.
func (s *server) Exit(ctx context.Context) error {
	return s.conn.Close()
}

// DidChangeConfiguration is a no-op: this server has no configuration
// surface (SPEC_FULL.md §10).
func (s *server) DidChangeConfiguration(
	ctx context.Context,
	params *protocol.DidChangeConfigurationParams,
) error {
	return nil
}
