package alsymbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTypeInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		typeInfo string
		wantOK   bool
		wantKw   string
		wantName string
	}{
		{"interface reference", `Interface "Greeter"`, true, "Interface", "Greeter"},
		{"codeunit reference, unquoted name", "Codeunit SalesHelper", true, "Codeunit", "SalesHelper"},
		{"case-insensitive keyword", "INTERFACE Greeter", true, "INTERFACE", "Greeter"},
		{"record reference", `Record Customer`, true, "Record", "Customer"},
		{"plain scalar type is not an object reference", "Text", false, "", ""},
		{"integer is not an object reference", "Integer", false, "", ""},
		{"empty string", "", false, "", ""},
		{"unrecognized keyword", "Array Foo", false, "", ""},
		{"recognized keyword with empty name", `Interface ""`, false, "", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			kw, name, ok := SplitTypeInfo(tt.typeInfo)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKw, kw)
				assert.Equal(t, tt.wantName, name)
			}
		})
	}
}

// Classify's typed-call branch needs a real CST to locate the enclosing
// method_call node, but every other branch only consults the symbol
// table, so a nil tree/source is a valid way to exercise them directly.

func TestClassifyImplementationProcedure(t *testing.T) {
	t.Parallel()

	table := NewDocumentSymbolTable([]*Symbol{buildCodeunitFixture()})
	ctx := Classify(nil, nil, table, 65)

	assert.Equal(t, ContextImplementationProcedure, ctx.Kind)
	assert.Equal(t, "Sales Helper", ctx.ObjectName)
	assert.Equal(t, "Greet", ctx.MethodName)
	assert.Equal(t, []string{"Greeter"}, ctx.Implements)
}

func TestClassifyInterfaceMethod(t *testing.T) {
	t.Parallel()

	table := NewDocumentSymbolTable([]*Symbol{buildInterfaceFixture()})
	ctx := Classify(nil, nil, table, 125)

	assert.Equal(t, ContextInterfaceMethod, ctx.Kind)
	assert.Equal(t, "Greeter", ctx.ObjectName)
	assert.Equal(t, "Greet", ctx.MethodName)
}

func TestClassifyOutsideAnyObjectIsContextOther(t *testing.T) {
	t.Parallel()

	table := NewDocumentSymbolTable([]*Symbol{buildCodeunitFixture()})
	ctx := Classify(nil, nil, table, 5000)

	assert.Equal(t, ContextOther, ctx.Kind)
}
