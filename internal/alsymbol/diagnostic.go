package alsymbol

import (
	"fmt"

	"github.com/aacnsilva/al-lsp/internal/cst"
)

// Severity mirrors the LSP DiagnosticSeverity values this server ever
// produces; every AL diagnostic today is an error (§4.2).
type Severity int

const (
	SeverityError Severity = iota + 1
)

// Source is the diagnostic source tag published to the client.
const Source = "al-lsp"

// Diagnostic is one syntactic problem found in a document.
type Diagnostic struct {
	Message  string
	Severity Severity
	Range    Range
}

const maxSnippet = 50

// ExtractDiagnostics walks tree once, emitting one diagnostic per error
// node and one per missing node, per §4.2.
func ExtractDiagnostics(tree *cst.Tree, source []byte) []Diagnostic {
	var diags []Diagnostic
	walkDiagnostics(tree.RootNode(), source, &diags)
	return diags
}

func walkDiagnostics(node *cst.Node, source []byte, diags *[]Diagnostic) {
	if node == nil {
		return
	}

	switch {
	case node.IsMissing():
		*diags = append(*diags, Diagnostic{
			Message:  fmt.Sprintf("Expected `%s`", node.Type()),
			Severity: SeverityError,
			Range:    rangeOf(node),
		})
	case node.Type() == "ERROR":
		text := cst.Text(node, source)
		if len(text) > maxSnippet {
			text = text[:maxSnippet]
		}
		*diags = append(*diags, Diagnostic{
			Message:  fmt.Sprintf("Syntax error: unexpected `%s`", text),
			Severity: SeverityError,
			Range:    rangeOf(node),
		})
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkDiagnostics(node.Child(i), source, diags)
	}
}
