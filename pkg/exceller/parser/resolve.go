package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ukaji3/exceller-go/pkg/exceller/models"
)

var (
	// ErrStringIndexOutOfRange indicates a string cell pointing past the
	// end of the shared string table.
	ErrStringIndexOutOfRange = errors.New("shared string index out of range")
	// ErrInvalidStringIndex indicates a string cell whose value is not an
	// integer index.
	ErrInvalidStringIndex = errors.New("invalid shared string index")
	// ErrUnknownSheet indicates a pinned worksheet that is not in the index.
	ErrUnknownSheet = errors.New("unknown worksheet")
)

// Resolve joins cell records with the shared string table. It fills
// ResolvedContent on every record of index and returns the per-worksheet
// mapping. Within a worksheet the first record for a coordinate wins.
func Resolve(sharedStrings []string, index *models.WorksheetIndex, policy models.SheetPolicy, sheet string) (*models.CellMap, error) {
	if policy == "" {
		policy = models.SheetPolicyFirst
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("invalid sheet policy %q", policy)
	}

	cellMap := &models.CellMap{Policy: policy, Sheet: sheet}
	pinnedFound := false
	for i := range index.Sheets {
		ws := &index.Sheets[i]
		if ws.Matches(sheet) {
			pinnedFound = true
		}

		values := make(map[models.Coord]string, len(ws.Cells))
		for j := range ws.Cells {
			cell := &ws.Cells[j]
			content, err := resolveCell(sharedStrings, *cell)
			if err != nil {
				return nil, fmt.Errorf("%s!R%dC%d: %w", ws.Label(), cell.Row, cell.Column, err)
			}
			cell.ResolvedContent = &content
			if _, exists := values[cell.Coord()]; !exists {
				values[cell.Coord()] = content
			}
		}
		cellMap.Sheets = append(cellMap.Sheets, models.SheetCells{Worksheet: *ws, Values: values})
	}

	if policy == models.SheetPolicyPinned && !pinnedFound {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSheet, sheet)
	}
	return cellMap, nil
}

func resolveCell(sharedStrings []string, cell models.CellRecord) (string, error) {
	if !cell.IsStringRef {
		return cell.RawValue, nil
	}
	i, err := strconv.Atoi(cell.RawValue)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidStringIndex, cell.RawValue)
	}
	if i < 0 || i >= len(sharedStrings) {
		return "", fmt.Errorf("%w: %d (table has %d entries)", ErrStringIndexOutOfRange, i, len(sharedStrings))
	}
	return sharedStrings[i], nil
}
