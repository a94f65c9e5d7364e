package store

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/aacnsilva/al-lsp/internal/alsymbol"
	"github.com/aacnsilva/al-lsp/internal/cst"
)

// Document is everything the engine knows about one AL source file: its
// identity, its text (via Rope), its parse tree, its derived symbol
// table, and the diagnostics extracted alongside it. A Tree and Symbols
// are always created and replaced together by a single reparse, so
// nothing in this server ever observes a tree that doesn't match its
// symbol table (§3).
type Document struct {
	URI         protocol.URI
	Version     int32
	Rope        *Rope
	Tree        *cst.Tree
	Symbols     *alsymbol.DocumentSymbolTable
	Diagnostics []alsymbol.Diagnostic
}

// newDocument performs a full parse + symbol extraction of text. It
// returns an error only when the CST builder itself fails to produce any
// tree at all (§7); a tree containing error/missing nodes is a normal,
// successful result here.
func newDocument(ctx context.Context, uri protocol.URI, version int32, text string) (*Document, error) {
	source := []byte(text)
	tree, err := cst.Parse(ctx, source)
	if err != nil {
		return nil, err
	}

	symbols := alsymbol.Extract(tree, source)
	return &Document{
		URI:         uri,
		Version:     version,
		Rope:        NewRope(source),
		Tree:        tree,
		Symbols:     alsymbol.NewDocumentSymbolTable(symbols),
		Diagnostics: alsymbol.ExtractDiagnostics(tree, source),
	}, nil
}

// Source returns the document's current text.
func (d *Document) Source() []byte {
	return d.Rope.Text()
}

// ByteOffset converts an LSP position to a byte offset within this document.
func (d *Document) ByteOffset(pos protocol.Position) uint32 {
	return d.Rope.OffsetAt(pos.Line, pos.Character)
}

// LSPRange converts a byte-span symbol range into an LSP protocol.Range.
func LSPRange(r alsymbol.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Column},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Column},
	}
}
