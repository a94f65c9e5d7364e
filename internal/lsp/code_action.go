// This file defines the two code-action refactors (§4.5): toggle
// procedure visibility and extract procedure.

package lsp

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/aacnsilva/al-lsp/internal/alsymbol"
	"github.com/aacnsilva/al-lsp/internal/cst"
	"github.com/aacnsilva/al-lsp/internal/reqlock"
	"github.com/aacnsilva/al-lsp/internal/store"
)

var visibilityModifiers = map[string]bool{"local": true, "internal": true, "protected": true}

func (s *server) CodeAction(ctx context.Context, params *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	ctx = reqlock.WithRequestID(ctx)
	doc := s.store.Get(ctx, params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	var actions []protocol.CodeAction
	startOffset := doc.ByteOffset(params.Range.Start)
	if a := toggleVisibilityAction(doc, startOffset); a != nil {
		actions = append(actions, *a)
	}
	if a := extractProcedureAction(doc, params.Range); a != nil {
		actions = append(actions, *a)
	}
	return actions, nil
}

func enclosingProcedureNode(node *cst.Node) *cst.Node {
	for n := node; n != nil; n = n.Parent() {
		if n.Type() == "procedure_declaration" {
			return n
		}
	}
	return nil
}

// toggleVisibilityAction implements the "Remove '<mod>' modifier" / "Add
// 'local' modifier" refactor. The procedure node's own span includes any
// visibility-modifier prefix text before the "procedure" keyword (§4.5,
// §9 open question on the fragility of this text search).
func toggleVisibilityAction(doc *store.Document, offset uint32) *protocol.CodeAction {
	node := cst.NodeAtOffset(doc.Tree, offset)
	proc := enclosingProcedureNode(node)
	if proc == nil {
		return nil
	}

	source := doc.Source()
	text := cst.Text(proc, source)
	idx := strings.Index(strings.ToLower(text), "procedure")
	if idx < 0 {
		return nil
	}
	before := strings.TrimSpace(text[:idx])

	uri := protocol.DocumentURI(doc.URI)
	if visibilityModifiers[strings.ToLower(before)] {
		modStart := proc.StartByte()
		modEnd := proc.StartByte() + uint32(idx)
		edit := protocol.TextEdit{
			Range:   byteRangeToLSP(doc, modStart, modEnd),
			NewText: "",
		}
		return &protocol.CodeAction{
			Title: fmt.Sprintf("Remove '%s' modifier", before),
			Kind:  protocol.RefactorRewrite,
			Edit:  &protocol.WorkspaceEdit{Changes: map[protocol.DocumentURI][]protocol.TextEdit{uri: {edit}}},
		}
	}

	edit := protocol.TextEdit{
		Range:   byteRangeToLSP(doc, proc.StartByte(), proc.StartByte()),
		NewText: "local ",
	}
	return &protocol.CodeAction{
		Title: "Add 'local' modifier",
		Kind:  protocol.RefactorRewrite,
		Edit:  &protocol.WorkspaceEdit{Changes: map[protocol.DocumentURI][]protocol.TextEdit{uri: {edit}}},
	}
}

// extractProcedureAction implements extract-procedure (§4.5): only fires
// for a non-empty selection starting inside a procedure's body block.
func extractProcedureAction(doc *store.Document, selection protocol.Range) *protocol.CodeAction {
	if selection.Start == selection.End {
		return nil
	}
	selStart := doc.ByteOffset(selection.Start)
	selEnd := doc.ByteOffset(selection.End)

	node := cst.NodeAtOffset(doc.Tree, selStart)
	proc := enclosingProcedureNode(node)
	if proc == nil {
		return nil
	}
	block := cst.FirstNamedChildOfType(proc, "block")
	if block == nil || selStart < block.StartByte() || selStart > block.EndByte() {
		return nil
	}

	var selected []*cst.Node
	for i := 0; i < int(block.NamedChildCount()); i++ {
		child := block.NamedChild(i)
		if child.StartByte() >= selStart && child.EndByte() <= selEnd {
			selected = append(selected, child)
		}
	}
	if len(selected) == 0 {
		return nil
	}

	procSym := doc.Symbols.ProcedureAt(selStart)
	if procSym == nil {
		return nil
	}
	locals := make(map[string]*alsymbol.Symbol)
	for _, child := range procSym.Children {
		if child.Kind == alsymbol.KindParameter || child.Kind == alsymbol.KindVariable {
			locals[strings.ToLower(child.Name)] = child
		}
	}

	source := doc.Source()
	freeVars := freeVariablesIn(selected, source, locals)

	var argNames []string
	for _, v := range freeVars {
		argNames = append(argNames, v.Name)
	}
	callText := "ExtractedProcedure(" + strings.Join(argNames, ", ") + ");"

	var paramDecls []string
	for _, v := range freeVars {
		paramDecls = append(paramDecls, "var "+v.Name+": "+v.TypeInfo)
	}

	indent := indentFor(proc, source)
	body := reindentLines(source[selected[0].StartByte():selected[len(selected)-1].EndByte()], indent+"    ")

	newProcText := "\n\n" + indent + "local procedure ExtractedProcedure(" +
		strings.Join(paramDecls, "; ") + ")\n" +
		indent + "begin\n" + body + "\n" + indent + "end;"

	replaceRange := byteRangeToLSP(doc, selected[0].StartByte(), selected[len(selected)-1].EndByte())
	insertPos := byteRangeToLSP(doc, proc.EndByte(), proc.EndByte())

	edits := []protocol.TextEdit{
		{Range: replaceRange, NewText: callText},
		{Range: insertPos, NewText: newProcText},
	}

	uri := protocol.DocumentURI(doc.URI)
	return &protocol.CodeAction{
		Title: "Extract procedure",
		Kind:  protocol.RefactorExtract,
		Edit:  &protocol.WorkspaceEdit{Changes: map[protocol.DocumentURI][]protocol.TextEdit{uri: edits}},
	}
}

// freeVariablesIn finds identifiers textually present in selected whose
// names match (case-insensitively) a parameter or local of the enclosing
// procedure, in first-occurrence order.
func freeVariablesIn(selected []*cst.Node, source []byte, locals map[string]*alsymbol.Symbol) []*alsymbol.Symbol {
	seen := make(map[string]bool)
	var out []*alsymbol.Symbol

	var walk func(n *cst.Node)
	walk = func(n *cst.Node) {
		if n == nil {
			return
		}
		if cst.IsIdentifier(n) {
			name := cst.IdentifierName(n, source)
			key := strings.ToLower(name)
			if sym, ok := locals[key]; ok && !seen[key] {
				seen[key] = true
				out = append(out, sym)
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	for _, stmt := range selected {
		walk(stmt)
	}
	return out
}

func indentFor(proc *cst.Node, source []byte) string {
	col := proc.StartPoint().Column
	return strings.Repeat(" ", int(col))
}

func reindentLines(text []byte, indent string) string {
	lines := strings.Split(string(text), "\n")
	for i, line := range lines {
		lines[i] = indent + strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

func byteRangeToLSP(doc *store.Document, start, end uint32) protocol.Range {
	sl, sc := doc.Rope.PositionAt(start)
	el, ec := doc.Rope.PositionAt(end)
	return protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}
