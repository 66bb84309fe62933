package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ukaji3/exceller-go/pkg/exceller/models"
	"github.com/xuri/excelize/v2"
)

// ErrInvalidRange indicates a range reference that is not two cell addresses
// joined by a colon.
var ErrInvalidRange = errors.New("invalid range")

// maxRangeColumn is the last column a range may reach (ZZZ).
const maxRangeColumn = 18278

// ExpandRange expands an axis-aligned range like A1:A5 or B3:E3 into the
// coordinates it spans, in ascending order. Endpoints may be written in
// either order. A two-dimensional range expands to nothing. Ranges are cut
// off at the last worksheet row and at column ZZZ.
func ExpandRange(rangeStr string) ([]models.Coord, error) {
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, rangeStr)
	}

	startCol, startRow, err := excelize.SplitCellName(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	endCol, endRow, err := excelize.SplitCellName(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	var coords []models.Coord
	switch {
	case strings.EqualFold(startCol, endCol):
		col, err := ColumnToIndex(startCol)
		if err != nil {
			return nil, err
		}
		lo, hi := span(startRow, endRow, excelize.TotalRows)
		for row := lo; row <= hi; row++ {
			coords = append(coords, models.Coord{Row: row, Column: col})
		}
	case startRow == endRow:
		c1, err := ColumnToIndex(startCol)
		if err != nil {
			return nil, err
		}
		c2, err := ColumnToIndex(endCol)
		if err != nil {
			return nil, err
		}
		lo, hi := span(c1, c2, maxRangeColumn)
		for col := lo; col <= hi; col++ {
			coords = append(coords, models.Coord{Row: startRow, Column: col})
		}
	}

	return coords, nil
}

// span orders a and b and caps the upper end at limit.
func span(a, b, limit int) (lo, hi int) {
	return min(a, b), min(max(a, b), limit)
}
