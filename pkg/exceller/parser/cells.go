package parser

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/exceller-go/pkg/exceller/models"
	"github.com/xuri/excelize/v2"
)

// cellTypeSharedString is the t attribute value of shared string cells.
const cellTypeSharedString = "s"

var worksheetPartPattern = regexp.MustCompile(`^xl/worksheets/sheet([1-9][0-9]*)\.xml$`)

// xlsxC maps the parts of a c element the index needs.
type xlsxC struct {
	R string  `xml:"r,attr"`
	T string  `xml:"t,attr"`
	V *string `xml:"v"`
}

type worksheetPart struct {
	name   string
	number int
}

// BuildWorksheetIndex parses every xl/worksheets/sheetN.xml part into cell
// records. Worksheets are ordered by N; cells keep document order.
func BuildWorksheetIndex(r *zip.Reader, logger logrus.FieldLogger) (*models.WorksheetIndex, error) {
	logger = orDiscard(logger)

	parts := worksheetParts(r)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no worksheet parts in container", ErrMissingPart)
	}

	names := sheetNames(r)
	index := &models.WorksheetIndex{}
	for _, part := range parts {
		data, err := readZipFile(r, part.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", part.name, err)
		}
		cells, err := extractSheetCells(strings.NewReader(string(data)), logger.WithField("part", part.name))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", part.name, err)
		}
		index.Sheets = append(index.Sheets, models.Worksheet{
			Part:   part.name,
			Number: part.number,
			Name:   names[part.name],
			Cells:  cells,
		})
	}

	return index, nil
}

// worksheetParts lists the worksheet parts sorted by sheet number.
func worksheetParts(r *zip.Reader) []worksheetPart {
	var parts []worksheetPart
	for _, name := range findParts(r, worksheetPartPattern.MatchString) {
		m := worksheetPartPattern.FindStringSubmatch(name)
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		parts = append(parts, worksheetPart{name: name, number: n})
	}
	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].number < parts[j].number
	})
	return parts
}

// extractSheetCells decodes each c element of a worksheet. Cells without an
// address or without a value element produce no record.
func extractSheetCells(rd io.Reader, logger logrus.FieldLogger) ([]models.CellRecord, error) {
	var cells []models.CellRecord

	decoder := xml.NewDecoder(rd)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "c" {
			continue
		}
		var c xlsxC
		if err := decoder.DecodeElement(&c, &se); err != nil {
			return nil, err
		}
		if c.R == "" || c.V == nil {
			continue
		}

		record, err := newCellRecord(c)
		if err != nil {
			logger.WithError(err).WithField("cell", c.R).Debug("skipping cell")
			continue
		}
		cells = append(cells, record)
	}

	return cells, nil
}

func newCellRecord(c xlsxC) (models.CellRecord, error) {
	colName, row, err := excelize.SplitCellName(c.R)
	if err != nil {
		return models.CellRecord{}, err
	}
	col, err := ColumnToIndex(colName)
	if err != nil {
		return models.CellRecord{}, err
	}
	return models.CellRecord{
		Row:         row,
		Column:      col,
		IsStringRef: c.T == cellTypeSharedString,
		RawValue:    *c.V,
	}, nil
}
