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

// Package lsp implements the AL language server's LSP surface (C5): one
// handler per feature, built on the document store (C4) and symbol
// model (C2/C3).
//
// The main entry point is Serve, which drives a jsonrpc2.Conn until the
// client disconnects.
package lsp

import (
	"context"
	"sync/atomic"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/aacnsilva/al-lsp/internal/store"
)

const serverName = "al-lsp"

// lsp holds the state shared by every handler method. server (in
// server.go) is the protocol.Server implementation built on top of it;
// the split keeps the dozens of small handler methods separate from
// connection bookkeeping.
type lsp struct {
	logger *zap.Logger
	conn   jsonrpc2.Conn
	client protocol.Client

	store   *store.Store
	watcher *store.Watcher

	traceValue atomic.Pointer[protocol.TraceValue]
	clientCaps protocol.ClientCapabilities
}

// Serve drives an LSP session over conn until the client disconnects.
func Serve(ctx context.Context, conn jsonrpc2.Conn, logger *zap.Logger) error {
	l := &lsp{
		logger: logger,
		conn:   conn,
		client: protocol.ClientDispatcher(conn, logger),
		store:  store.New(logger),
	}

	ctx = protocol.WithClient(ctx, l.client)
	conn.Go(ctx, protocol.ServerHandler(newServer(l), jsonrpc2.MethodNotFoundHandler))

	<-conn.Done()
	if l.watcher != nil {
		_ = l.watcher.Close()
	}
	return conn.Err()
}

// init performs one-time setup driven by the initialize request:
// resolving workspace roots (§4.4 step 1) and starting the file watcher.
// The recursive scan itself is kicked off from Initialized, after the
// client has acknowledged initialize, per §4.4 step 2.
func (l *lsp) init(ctx context.Context, params *protocol.InitializeParams) error {
	l.clientCaps = params.Capabilities

	var roots []string
	for _, folder := range params.WorkspaceFolders {
		if path, ok := store.URIToPath(protocol.URI(folder.URI)); ok {
			roots = append(roots, path)
		}
	}
	if len(roots) == 0 && params.RootURI != "" {
		if path, ok := store.URIToPath(params.RootURI); ok {
			roots = append(roots, path)
		}
	}
	if len(roots) == 0 && params.RootPath != "" {
		roots = append(roots, params.RootPath)
	}
	l.store.SetRoots(roots)

	watcher, err := store.NewWatcher(l.store, l.logger)
	if err != nil {
		l.logger.Warn("failed to start file watcher", zap.Error(err))
		return nil
	}
	l.watcher = watcher
	for _, root := range roots {
		watcher.AddRoot(root)
	}
	go watcher.Run(ctx)

	return nil
}
