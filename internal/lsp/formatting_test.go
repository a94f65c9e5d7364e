package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSpacingOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"assignment", "X:=1", "X := 1"},
		{"plus-assign collapses existing spaces", "X  +=   1", "X += 1"},
		{"not-equal", "X<>Y", "X <> Y"},
		{"less-equal and greater-equal", "X<=Y and Y>=Z", "X <= Y and Y >= Z"},
		{"bare relational operators", "X<Y and Y>Z", "X < Y and Y > Z"},
		{"comma gets single trailing space only", "Foo(A,B , C)", "Foo(A, B, C)"},
		{"semicolon gets single trailing space", "X := 1;Y := 2;", "X := 1; Y := 2;"},
		{"collapses runs of spaces outside strings", "X   :=    1", "X := 1"},
		{"no trailing space at line end", "X := 1 ", "X := 1"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, normalizeSpacing(tt.input))
		})
	}
}

func TestNormalizeSpacingLeavesQuotedStringsUntouched(t *testing.T) {
	t.Parallel()

	input := `Message('A,B<>C   :=   D')`
	assert.Equal(t, input, normalizeSpacing(input))
}

func TestNormalizeSpacingOnlyNormalizesOutsideQuotes(t *testing.T) {
	t.Parallel()

	input := `X:='A,B';Y:=2`
	want := `X := 'A,B'; Y := 2`
	assert.Equal(t, want, normalizeSpacing(input))
}

func TestQuoteIfNeeded(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Customer", quoteIfNeeded("Customer"))
	assert.Equal(t, `"Sales Customer"`, quoteIfNeeded("Sales Customer"))
	assert.Equal(t, `"Tab	Stop"`, quoteIfNeeded("Tab\tStop"))
}
