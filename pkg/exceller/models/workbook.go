package models

// SheetPolicy selects which worksheet answers a coordinate lookup.
type SheetPolicy string

const (
	// SheetPolicyFirst probes worksheets in enumeration order and returns the
	// first one defining the coordinate.
	SheetPolicyFirst SheetPolicy = "first"
	// SheetPolicyPinned consults only the worksheet named by CellMap.Sheet.
	SheetPolicyPinned SheetPolicy = "pinned"
)

// Valid reports whether p is a known policy.
func (p SheetPolicy) Valid() bool {
	return p == SheetPolicyFirst || p == SheetPolicyPinned
}

// SheetCells maps coordinates of one worksheet to resolved content.
type SheetCells struct {
	Worksheet Worksheet
	Values    map[Coord]string
}

// CellMap is the resolved row/column to content mapping, kept per worksheet.
type CellMap struct {
	// Sheets are kept in worksheet enumeration order.
	Sheets []SheetCells
	// Policy decides which worksheet answers Lookup.
	Policy SheetPolicy
	// Sheet names the pinned worksheet (display name or part path).
	Sheet string
}

// Lookup returns the resolved content for (row, column) under the map's policy.
func (m *CellMap) Lookup(row, column int) (string, bool) {
	sc, ok := m.Source(row, column)
	if !ok {
		return "", false
	}
	return sc.Values[Coord{Row: row, Column: column}], true
}

// Source returns the worksheet that answers (row, column) under the map's policy.
func (m *CellMap) Source(row, column int) (*SheetCells, bool) {
	key := Coord{Row: row, Column: column}
	for i := range m.Sheets {
		sc := &m.Sheets[i]
		if m.Policy == SheetPolicyPinned && !sc.Worksheet.Matches(m.Sheet) {
			continue
		}
		if _, ok := sc.Values[key]; ok {
			return sc, true
		}
	}
	return nil, false
}

// Len returns the number of distinct coordinates visible under the policy.
func (m *CellMap) Len() int {
	seen := make(map[Coord]struct{})
	for _, sc := range m.Sheets {
		if m.Policy == SheetPolicyPinned && !sc.Worksheet.Matches(m.Sheet) {
			continue
		}
		for k := range sc.Values {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}
