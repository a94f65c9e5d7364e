package alsymbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildCodeunitFixture constructs, by hand, the symbol tree for:
//
//	codeunit 50100 "Sales Helper" implements "Greeter"
//	{
//	    procedure Greet(Name: Text): Text
//	    var
//	        Prefix: Text;
//	    begin
//	    end;
//	}
//
// spanning byte offsets [0, 100) for the object, with the procedure
// occupying [20, 90) and its parameter/local spanning small sub-ranges
// within that — close enough to real offsets for ByteSpan.Contains checks.
func buildCodeunitFixture() *Symbol {
	param := &Symbol{Name: "Name", Kind: KindParameter, TypeInfo: "Text", Span: ByteSpan{30, 34}}
	local := &Symbol{Name: "Prefix", Kind: KindVariable, TypeInfo: "Text", Span: ByteSpan{60, 66}}
	proc := &Symbol{
		Name:     "Greet",
		Kind:     KindProcedure,
		TypeInfo: "Text",
		Span:     ByteSpan{20, 90},
		Children: []*Symbol{param, local},
	}
	return &Symbol{
		Name:       "Sales Helper",
		Kind:       KindObject,
		ObjectKind: ObjectCodeunit,
		Implements: []string{"Greeter"},
		Span:       ByteSpan{0, 100},
		Children:   []*Symbol{proc},
	}
}

func buildInterfaceFixture() *Symbol {
	method := &Symbol{Name: "Greet", Kind: KindProcedure, Span: ByteSpan{120, 140}}
	return &Symbol{
		Name:       "Greeter",
		Kind:       KindObject,
		ObjectKind: ObjectInterface,
		Span:       ByteSpan{110, 150},
		Children:   []*Symbol{method},
	}
}

func TestDocumentSymbolTableLookup(t *testing.T) {
	t.Parallel()

	table := NewDocumentSymbolTable([]*Symbol{buildCodeunitFixture()})

	found := table.Lookup("greet")
	require.Len(t, found, 1)
	assert.Equal(t, "Greet", found[0].Name)

	assert.Nil(t, table.Lookup("DoesNotExist"))
}

func TestDocumentSymbolTableLookupInScope(t *testing.T) {
	t.Parallel()

	table := NewDocumentSymbolTable([]*Symbol{buildCodeunitFixture()})

	// Inside the procedure body, "Prefix" resolves to the local.
	local := table.LookupInScope("Prefix", 65)
	require.Len(t, local, 1)
	assert.Equal(t, KindVariable, local[0].Kind)

	// The object's own name is visible from inside a procedure, falling
	// through locals and object members to the whole-document lookup.
	obj := table.LookupInScope("Sales Helper", 65)
	require.Len(t, obj, 1)
	assert.Equal(t, KindObject, obj[0].Kind)

	// Outside every object, scope resolution degrades to a flat lookup.
	outside := table.LookupInScope("Greet", 5000)
	require.Len(t, outside, 1)
	assert.Equal(t, "Greet", outside[0].Name)
}

func TestDocumentSymbolTableProcedureAt(t *testing.T) {
	t.Parallel()

	table := NewDocumentSymbolTable([]*Symbol{buildCodeunitFixture()})

	proc := table.ProcedureAt(65)
	require.NotNil(t, proc)
	assert.Equal(t, "Greet", proc.Name)

	assert.Nil(t, table.ProcedureAt(5), "offset 5 sits in the object header, outside any procedure")
	assert.Nil(t, table.ProcedureAt(5000), "offset 5000 sits outside every object entirely")
}

func TestDocumentSymbolTableReachableSymbols(t *testing.T) {
	t.Parallel()

	table := NewDocumentSymbolTable([]*Symbol{buildCodeunitFixture()})

	reachable := table.ReachableSymbols(65)
	var names []string
	for _, sym := range reachable {
		names = append(names, sym.Name)
	}
	// Locals/parameters of the enclosing procedure, then the object's
	// own members, then the object itself.
	assert.Equal(t, []string{"Name", "Prefix", "Greet", "Sales Helper"}, names)
}

func TestFindObjectByNameAndProcedure(t *testing.T) {
	t.Parallel()

	table := NewDocumentSymbolTable([]*Symbol{buildCodeunitFixture()})

	obj := table.FindObjectByName("sales helper")
	require.NotNil(t, obj)

	proc := FindObjectProcedure(obj, "greet")
	require.NotNil(t, proc)
	assert.Equal(t, "Greet", proc.Name)

	assert.Nil(t, FindObjectProcedure(obj, "missing"))
	assert.Nil(t, table.FindObjectByName("missing"))
}

func TestInterfaceMethodLookup(t *testing.T) {
	t.Parallel()

	table := NewDocumentSymbolTable([]*Symbol{buildInterfaceFixture()})

	m := table.FindInterfaceMethod("Greeter", "Greet")
	require.NotNil(t, m)

	iface, method, ok := table.InterfaceMethodAt(125)
	require.True(t, ok)
	assert.Equal(t, "Greeter", iface)
	assert.Equal(t, "Greet", method)

	_, _, ok = table.InterfaceMethodAt(5000)
	assert.False(t, ok)
}

func TestImplementationAndCodeunitProcedureAt(t *testing.T) {
	t.Parallel()

	table := NewDocumentSymbolTable([]*Symbol{buildCodeunitFixture()})

	implements, method, ok := table.ImplementationProcedureAt(65)
	require.True(t, ok)
	assert.Equal(t, []string{"Greeter"}, implements)
	assert.Equal(t, "Greet", method)

	objName, procName, ok := table.CodeunitProcedureAt(65)
	require.True(t, ok)
	assert.Equal(t, "Sales Helper", objName)
	assert.Equal(t, "Greet", procName)

	ifaceTable := NewDocumentSymbolTable([]*Symbol{buildInterfaceFixture()})
	_, _, ok = ifaceTable.CodeunitProcedureAt(125)
	assert.False(t, ok, "an Interface object's own methods are never reported as codeunit procedures")
}

func TestFindImplementationProcedures(t *testing.T) {
	t.Parallel()

	table := NewDocumentSymbolTable([]*Symbol{buildCodeunitFixture(), buildInterfaceFixture()})

	impls := table.FindImplementationProcedures("Greeter", "Greet")
	require.Len(t, impls, 1)
	assert.Equal(t, "Greet", impls[0].Name)

	assert.Empty(t, table.FindImplementationProcedures("NoSuchInterface", "Greet"))
}
