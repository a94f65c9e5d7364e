package store

import "sort"

// Rope translates between byte offsets and line/column positions for a
// document's text.
//
// This is not a piece-table or balanced-tree rope: the document store
// never splices edits into existing text (§7 — full reparse per
// change), so the only operations ever needed are offset<->position
// translation and a cheap full rebuild on reparse. No third-party rope
// library appears anywhere in the example corpus (see DESIGN.md), so
// this is a deliberately minimal line-start index over the standard
// library, rebuilt whenever a document's text changes.
type Rope struct {
	text       []byte
	lineStarts []uint32
}

// NewRope indexes text's line starts.
func NewRope(text []byte) *Rope {
	r := &Rope{text: text, lineStarts: []uint32{0}}
	for i, b := range text {
		if b == '\n' {
			r.lineStarts = append(r.lineStarts, uint32(i+1))
		}
	}
	return r
}

// Text returns the full source text this rope indexes.
func (r *Rope) Text() []byte {
	return r.text
}

// Len returns the number of bytes in the text.
func (r *Rope) Len() uint32 {
	return uint32(len(r.text))
}

// OffsetAt converts a zero-indexed line/column position into a byte
// offset. Per §4.5, character is treated as a byte offset within the
// line, not a UTF-16 code unit count (see the Open Question on
// non-ASCII identifiers in SPEC_FULL.md / spec.md §9).
func (r *Rope) OffsetAt(line, column uint32) uint32 {
	if int(line) >= len(r.lineStarts) {
		return r.Len()
	}
	offset := r.lineStarts[line] + column
	if offset > r.Len() {
		return r.Len()
	}
	return offset
}

// PositionAt converts a byte offset into a zero-indexed line/column position.
func (r *Rope) PositionAt(offset uint32) (line, column uint32) {
	if offset > r.Len() {
		offset = r.Len()
	}
	i := sort.Search(len(r.lineStarts), func(i int) bool { return r.lineStarts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return uint32(i), offset - r.lineStarts[i]
}
