// This file defines document formatting (§4.5): a two-pass structural
// pretty-printer driven by the CST, since begin/end/var/until and object
// keywords are implicit in span boundaries rather than child nodes (§9).

package lsp

import (
	"context"
	"regexp"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/aacnsilva/al-lsp/internal/cst"
	"github.com/aacnsilva/al-lsp/internal/reqlock"
	"github.com/aacnsilva/al-lsp/internal/store"
)

var objectContainerTypes = map[string]bool{
	"table_declaration": true, "table_extension_declaration": true,
	"page_declaration": true, "page_extension_declaration": true,
	"codeunit_declaration": true, "report_declaration": true,
	"enum_declaration": true, "enum_extension_declaration": true,
	"xmlport_declaration": true, "query_declaration": true,
	"interface_declaration": true, "permissionset_declaration": true,
	"controladdin_declaration": true,
	"fields_section":           true, "keys_section": true,
	"layout_section": true, "actions_section": true,
}

type formatState struct {
	levels  map[int]int
	join    map[int]bool
	deleted map[int]bool
	source  []byte
	rope    *store.Rope
}

func (s *server) Formatting(ctx context.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	ctx = reqlock.WithRequestID(ctx)
	doc := s.store.Get(ctx, params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	tabSize := 4
	useTabs := false
	if params.Options.TabSize > 0 {
		tabSize = int(params.Options.TabSize)
	}
	useTabs = !params.Options.InsertSpaces

	fs := &formatState{
		levels:  make(map[int]int),
		join:    make(map[int]bool),
		deleted: make(map[int]bool),
		source:  doc.Source(),
		rope:    doc.Rope,
	}
	fs.assign(doc.Tree.RootNode(), 0)

	formatted := fs.emit(tabSize, useTabs)
	original := string(doc.Source())
	if formatted == original {
		return nil, nil
	}

	end := doc.Rope.Len()
	el, ec := doc.Rope.PositionAt(end)
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: el, Character: ec},
		},
		NewText: formatted,
	}}, nil
}

func (fs *formatState) claim(line int, depth int) {
	if line < 0 {
		return
	}
	if _, ok := fs.levels[line]; !ok {
		fs.levels[line] = depth
	}
}

func namedChildren(n *cst.Node) []*cst.Node {
	out := make([]*cst.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// assign implements pass 1 of §4.5's formatting algorithm: walking the
// CST and recording, per line, the indent depth the first claiming rule
// assigns it.
func (fs *formatState) assign(node *cst.Node, depth int) {
	if node == nil {
		return
	}
	startRow := int(node.StartPoint().Row)
	endRow := int(node.EndPoint().Row)

	switch node.Type() {
	case "block":
		fs.claim(startRow, depth)
		fs.claim(endRow, depth)
		for _, c := range namedChildren(node) {
			fs.assign(c, depth+1)
		}

	case "var_section":
		fs.claim(startRow, depth)
		for _, c := range namedChildren(node) {
			fs.assign(c, depth+1)
		}

	case "if_statement":
		fs.claim(startRow, depth)
		cons := node.ChildByFieldName("consequence")
		alt := node.ChildByFieldName("alternative")
		if cons != nil && alt != nil {
			if elseLine := fs.findElseLine(cons, alt); elseLine >= 0 {
				fs.claim(elseLine, depth)
			}
		}
		if cons != nil {
			fs.assign(cons, depth+1)
		}
		if alt != nil {
			fs.assign(alt, depth+1)
		}

	case "for_statement", "while_statement", "with_statement":
		fs.claim(startRow, depth)
		body := cst.FirstNamedChildOfType(node, "block")
		if body == nil {
			for _, c := range namedChildren(node) {
				fs.assign(c, depth+1)
			}
			return
		}
		bodyStart := int(body.StartPoint().Row)
		if bodyStart > startRow {
			fs.join[bodyStart] = true
		}
		fs.claim(int(body.EndPoint().Row), depth)
		for _, c := range namedChildren(body) {
			fs.assign(c, depth+2)
		}

	case "repeat_statement":
		fs.claim(startRow, depth)
		fs.claim(endRow, depth)
		for _, c := range namedChildren(node) {
			if int(c.EndPoint().Row) == endRow {
				continue // the until-condition expression stays at depth
			}
			fs.assign(c, depth+1)
		}

	case "case_statement":
		fs.claim(startRow, depth)
		fs.claim(endRow, depth)
		for _, c := range namedChildren(node) {
			if c.Type() == "case_branch" {
				fs.assign(c, depth+1)
			} else {
				fs.assign(c, depth)
			}
		}

	case "procedure_declaration", "trigger_declaration":
		fs.claim(startRow, depth)
		nextRow := -1
		for _, c := range namedChildren(node) {
			if c.Type() == "var_section" || c.Type() == "block" {
				nextRow = int(c.StartPoint().Row)
				break
			}
		}
		if nextRow > startRow+1 {
			for r := startRow + 1; r < nextRow; r++ {
				fs.deleted[r] = true
			}
		}
		for _, c := range namedChildren(node) {
			fs.assign(c, depth+1)
		}

	default:
		if objectContainerTypes[node.Type()] {
			fs.claim(startRow, depth)
			for _, c := range namedChildren(node) {
				childDepth := depth
				if int(c.StartPoint().Row) != startRow {
					childDepth = depth + 1
				}
				fs.assign(c, childDepth)
			}
			return
		}
		fs.claim(startRow, depth)
		for _, c := range namedChildren(node) {
			fs.assign(c, depth)
		}
	}
}

// findElseLine locates the row containing the literal "else" token
// between the if-branch and else-branch nodes (keywords are implicit in
// this grammar, so this is a text search over the gap between the two
// spans, per §9).
func (fs *formatState) findElseLine(cons, alt *cst.Node) int {
	if cons.EndByte() >= alt.StartByte() {
		return -1
	}
	gap := string(fs.source[cons.EndByte():alt.StartByte()])
	idx := strings.Index(strings.ToLower(gap), "else")
	if idx < 0 {
		return -1
	}
	line, _ := fs.rope.PositionAt(cons.EndByte() + uint32(idx))
	return int(line)
}

var (
	operatorPattern     = regexp.MustCompile(`\s*(:=|\+=|-=|\*=|/=|<>|<=|>=|<|>)\s*`)
	commaPattern        = regexp.MustCompile(`\s*,\s*`)
	semicolonPattern    = regexp.MustCompile(`\s*;\s*`)
	spaceRunPattern     = regexp.MustCompile(` {2,}`)
	quotedStringPattern = regexp.MustCompile(`'[^']*'`)
)

func normalizeSpacing(line string) string {
	var b strings.Builder
	last := 0
	for _, loc := range quotedStringPattern.FindAllStringIndex(line, -1) {
		b.WriteString(normalizeUnquoted(line[last:loc[0]]))
		b.WriteString(line[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(normalizeUnquoted(line[last:]))
	return strings.TrimRight(b.String(), " ")
}

// normalizeUnquoted applies the spacing rules to a chunk of line known to
// contain no quoted string. It must not trim trailing whitespace itself:
// a chunk ending right before a quoted string (e.g. "X := " before
// "'hello'") needs that trailing space kept; only the fully assembled
// line gets trimmed, in normalizeSpacing.
func normalizeUnquoted(s string) string {
	s = operatorPattern.ReplaceAllString(s, " $1 ")
	s = commaPattern.ReplaceAllString(s, ", ")
	s = semicolonPattern.ReplaceAllString(s, "; ")
	s = spaceRunPattern.ReplaceAllString(s, " ")
	return s
}

// emit implements pass 2 of §4.5: apply the recorded levels/join/delete
// marks and the token-spacing pass, one source line at a time.
func (fs *formatState) emit(tabSize int, useTabs bool) string {
	indentUnit := strings.Repeat(" ", tabSize)
	if useTabs {
		indentUnit = "\t"
	}

	lines := strings.Split(string(fs.source), "\n")
	var out []string
	for i, line := range lines {
		if fs.deleted[i] {
			continue
		}
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}
		trimmed := strings.TrimSpace(line)
		normalized := normalizeSpacing(trimmed)
		if fs.join[i] && len(out) > 0 {
			out[len(out)-1] = strings.TrimRight(out[len(out)-1], " ") + " " + normalized
			continue
		}
		level := fs.levels[i]
		out = append(out, strings.Repeat(indentUnit, level)+normalized)
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n") + "\n"
}
