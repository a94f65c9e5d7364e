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

package lsp

import "go.lsp.dev/protocol"

// server is the protocol.Server implementation. It is a separate type
// from lsp so the many small handler methods stay out of the
// connection/session bookkeeping in lsp.go.
type server struct {
	// Every method this server doesn't implement returns a
	// "not yet implemented" error instead of panicking.
	nyiServer

	*lsp
}

func newServer(l *lsp) protocol.Server {
	return &server{lsp: l}
}
