package rewrite

import (
	"errors"
	"fmt"
	"sort"
)

// ErrOverlappingEdits is returned by Apply when two edits cover the same bytes.
var ErrOverlappingEdits = errors.New("overlapping edits")

// Edit replaces the byte span [Start, End) of the buffer text with Text.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Buffer holds the macro text between rewrite passes.
type Buffer struct {
	text string
}

// NewBuffer returns a buffer holding text.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text}
}

// String returns the current text.
func (b *Buffer) String() string {
	return b.text
}

// Apply performs the edits from the highest offset down so that offsets
// collected against the current text stay valid while earlier spans are
// still untouched. The buffer is left unchanged on error.
func (b *Buffer) Apply(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	limit := len(b.text)
	for _, e := range sorted {
		if e.Start < 0 || e.Start > e.End || e.End > len(b.text) {
			return fmt.Errorf("edit [%d:%d] outside text of length %d", e.Start, e.End, len(b.text))
		}
		if e.End > limit {
			return fmt.Errorf("%w: [%d:%d]", ErrOverlappingEdits, e.Start, e.End)
		}
		limit = e.Start
	}

	text := b.text
	for _, e := range sorted {
		text = text[:e.Start] + e.Text + text[e.End:]
	}
	b.text = text
	return nil
}
