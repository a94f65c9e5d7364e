package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRopePositionAt(t *testing.T) {
	t.Parallel()

	text := []byte("line0\nline1\nline2")
	r := NewRope(text)

	tests := []struct {
		name       string
		offset     uint32
		wantLine   uint32
		wantColumn uint32
	}{
		{"start of text", 0, 0, 0},
		{"mid first line", 3, 0, 3},
		{"start of second line", 6, 1, 0},
		{"mid second line", 9, 1, 3},
		{"start of third line", 12, 2, 0},
		{"end of text", uint32(len(text)), 2, 5},
		{"past end of text clamps", uint32(len(text)) + 10, 2, 5},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			line, column := r.PositionAt(tt.offset)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantColumn, column)
		})
	}
}

func TestRopeOffsetAt(t *testing.T) {
	t.Parallel()

	text := []byte("line0\nline1\nline2")
	r := NewRope(text)

	tests := []struct {
		name   string
		line   uint32
		column uint32
		want   uint32
	}{
		{"start", 0, 0, 0},
		{"mid first line", 0, 3, 3},
		{"start second line", 1, 0, 6},
		{"start third line", 2, 0, 12},
		{"past last line clamps to end", 10, 0, uint32(len(text))},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, r.OffsetAt(tt.line, tt.column))
		})
	}
}

func TestRopeRoundTrip(t *testing.T) {
	t.Parallel()

	text := []byte("table 50100 Foo\n{\n    fields\n    {\n    }\n}\n")
	r := NewRope(text)

	for offset := uint32(0); offset <= r.Len(); offset++ {
		line, column := r.PositionAt(offset)
		require.Equal(t, offset, r.OffsetAt(line, column), "offset %d round-trips through line %d column %d", offset, line, column)
	}
}
