// This file defines folding ranges (§4.5): every declaration, section,
// compound statement, and multi-line comment contributes a range.

package lsp

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/aacnsilva/al-lsp/internal/cst"
	"github.com/aacnsilva/al-lsp/internal/reqlock"
)

var foldableKinds = map[string]bool{
	"object_declaration":    true,
	"table_declaration":     true,
	"table_extension_declaration": true,
	"page_declaration":           true,
	"page_extension_declaration": true,
	"codeunit_declaration":       true,
	"report_declaration":         true,
	"enum_declaration":           true,
	"enum_extension_declaration": true,
	"xmlport_declaration":        true,
	"query_declaration":          true,
	"interface_declaration":      true,
	"permissionset_declaration":  true,
	"controladdin_declaration":   true,
	"procedure_declaration": true,
	"trigger_declaration":   true,
	"interface_method":      true,
	"var_section":           true,
	"fields_section":        true,
	"keys_section":          true,
	"layout_section":        true,
	"actions_section":       true,
	"block":                 true,
	"if_statement":          true,
	"for_statement":         true,
	"while_statement":       true,
	"with_statement":        true,
	"repeat_statement":      true,
	"case_statement":        true,
}

func (s *server) FoldingRanges(ctx context.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	ctx = reqlock.WithRequestID(ctx)
	doc := s.store.Get(ctx, params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	var ranges []protocol.FoldingRange
	var walk func(n *cst.Node)
	walk = func(n *cst.Node) {
		if n == nil {
			return
		}
		start, end := n.StartPoint(), n.EndPoint()
		if end.Row > start.Row {
			if n.Type() == "comment" {
				ranges = append(ranges, makeFoldingRange(start.Row, end.Row, protocol.CommentFoldingRange))
			} else if foldableKinds[n.Type()] {
				ranges = append(ranges, makeFoldingRange(start.Row, end.Row, protocol.RegionFoldingRange))
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(doc.Tree.RootNode())
	return ranges, nil
}

func makeFoldingRange(startLine, endLine uint32, kind protocol.FoldingRangeKind) protocol.FoldingRange {
	return protocol.FoldingRange{
		StartLine: startLine,
		EndLine:   endLine,
		Kind:      kind,
	}
}
