// Package models defines data structures for cell indexing and resolution.
package models

// CellRecord represents a single worksheet cell that carries a value.
type CellRecord struct {
	// Row is the row index (1-based).
	Row int `json:"row"`
	// Column is the column index (1-based).
	Column int `json:"column"`
	// IsStringRef reports whether RawValue is a shared string table index.
	IsStringRef bool `json:"is_string_ref"`
	// RawValue is the text of the cell's value element.
	RawValue string `json:"raw_value"`
	// ResolvedContent is the literal content (nil until resolved).
	ResolvedContent *string `json:"resolved_content,omitempty"`
}

// Coord is a 1-based (row, column) pair.
type Coord struct {
	Row    int
	Column int
}

// Coord returns the record's coordinates.
func (c CellRecord) Coord() Coord {
	return Coord{Row: c.Row, Column: c.Column}
}
