// Package output exports the resolved cell index as a table, CSV, JSON or
// Parquet.
package output

import (
	"strconv"

	"github.com/ukaji3/exceller-go/pkg/exceller/models"
	"github.com/ukaji3/exceller-go/pkg/exceller/parser"
	"github.com/xuri/excelize/v2"
)

// Row is one cell record of the index, flattened for export.
type Row struct {
	Sheet       string `json:"sheet" parquet:"sheet"`
	Part        string `json:"part" parquet:"part"`
	Address     string `json:"address" parquet:"address"`
	Row         int32  `json:"row" parquet:"row"`
	Column      int32  `json:"column" parquet:"column"`
	IsStringRef bool   `json:"is_string_ref" parquet:"is_string_ref"`
	RawValue    string `json:"raw_value" parquet:"raw_value"`
	Content     string `json:"content" parquet:"content"`
	// Effective marks the record a Cells(row, column) reference resolves to.
	Effective bool `json:"effective" parquet:"effective"`
}

var header = []string{"sheet", "part", "address", "row", "column", "is_string_ref", "raw_value", "content", "effective"}

func (r Row) fields() []string {
	return []string{
		r.Sheet,
		r.Part,
		r.Address,
		strconv.Itoa(int(r.Row)),
		strconv.Itoa(int(r.Column)),
		strconv.FormatBool(r.IsStringRef),
		r.RawValue,
		r.Content,
		strconv.FormatBool(r.Effective),
	}
}

// Flatten lists every record of index in worksheet order. Records must
// already be resolved; cells decides which of them are effective.
func Flatten(index *models.WorksheetIndex, cells *models.CellMap) []Row {
	rows := make([]Row, 0, index.CellCount())
	for _, ws := range index.Sheets {
		seen := make(map[models.Coord]bool, len(ws.Cells))
		for _, cell := range ws.Cells {
			row := Row{
				Sheet:       ws.Label(),
				Part:        ws.Part,
				Address:     address(cell.Row, cell.Column),
				Row:         int32(cell.Row),
				Column:      int32(cell.Column),
				IsStringRef: cell.IsStringRef,
				RawValue:    cell.RawValue,
			}
			if cell.ResolvedContent != nil {
				row.Content = *cell.ResolvedContent
			}
			if !seen[cell.Coord()] && cells != nil {
				if src, ok := cells.Source(cell.Row, cell.Column); ok && src.Worksheet.Part == ws.Part {
					row.Effective = true
				}
			}
			seen[cell.Coord()] = true
			rows = append(rows, row)
		}
	}
	return rows
}

// address renders an A1-style reference. Columns past XFD, which excelize
// rejects, fall back to the local codec.
func address(row, column int) string {
	if name, err := excelize.CoordinatesToCellName(column, row); err == nil {
		return name
	}
	letters, err := parser.IndexToColumn(column)
	if err != nil {
		return ""
	}
	return letters + strconv.Itoa(row)
}
