package alsymbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want string
	}{
		{KindObject, "Object"},
		{KindProcedure, "Procedure"},
		{KindTrigger, "Trigger"},
		{KindVariable, "Variable"},
		{KindParameter, "Parameter"},
		{KindField, "Field"},
		{KindKey, "Key"},
		{KindEnumValue, "EnumValue"},
		{Kind(-1), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestObjectKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind ObjectKind
		want string
	}{
		{ObjectTable, "Table"},
		{ObjectCodeunit, "Codeunit"},
		{ObjectInterface, "Interface"},
		{ObjectKind(-1), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestByteSpanContains(t *testing.T) {
	t.Parallel()

	span := ByteSpan{Start: 10, End: 20}

	assert.True(t, span.Contains(10), "span start is inclusive")
	assert.True(t, span.Contains(20), "span end is inclusive (cursor can sit right after the last byte)")
	assert.True(t, span.Contains(15))
	assert.False(t, span.Contains(9))
	assert.False(t, span.Contains(21))
}

func TestWalkVisitsEveryDescendant(t *testing.T) {
	t.Parallel()

	root := &Symbol{
		Name: "Customer",
		Kind: KindObject,
		Children: []*Symbol{
			{Name: "No.", Kind: KindField},
			{
				Name: "OnInsert",
				Kind: KindTrigger,
				Children: []*Symbol{
					{Name: "i", Kind: KindVariable},
				},
			},
		},
	}

	var visited []string
	Walk(root, func(sym *Symbol) {
		visited = append(visited, sym.Name)
	})

	assert.Equal(t, []string{"Customer", "No.", "OnInsert", "i"}, visited)
}

func TestWalkAll(t *testing.T) {
	t.Parallel()

	objects := []*Symbol{
		{Name: "Customer", Kind: KindObject},
		{Name: "Vendor", Kind: KindObject, Children: []*Symbol{
			{Name: "Balance", Kind: KindField},
		}},
	}

	var visited []string
	WalkAll(objects, func(sym *Symbol) {
		visited = append(visited, sym.Name)
	})

	assert.Equal(t, []string{"Customer", "Vendor", "Balance"}, visited)
}
