package models

// Worksheet represents one worksheet part of a workbook.
type Worksheet struct {
	// Part is the archive path of the worksheet part (e.g. xl/worksheets/sheet1.xml).
	Part string `json:"part"`
	// Number is N in sheetN.xml.
	Number int `json:"number"`
	// Name is the display name from the workbook part (empty if unmapped).
	Name string `json:"name,omitempty"`
	// Cells holds the sheet's cell records in document order.
	Cells []CellRecord `json:"cells"`
}

// Label returns the display name, falling back to the part path.
func (w Worksheet) Label() string {
	if w.Name != "" {
		return w.Name
	}
	return w.Part
}

// Matches reports whether ref names this worksheet, either by display name
// or by part path.
func (w Worksheet) Matches(ref string) bool {
	return ref != "" && (ref == w.Name || ref == w.Part)
}

// WorksheetIndex holds worksheets ordered by Number ascending.
type WorksheetIndex struct {
	Sheets []Worksheet `json:"sheets"`
}

// CellCount returns the total number of records across all worksheets.
func (idx *WorksheetIndex) CellCount() int {
	n := 0
	for _, ws := range idx.Sheets {
		n += len(ws.Cells)
	}
	return n
}
