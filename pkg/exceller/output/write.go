package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// ErrUnsupportedOutput indicates an output format that has no writer.
var ErrUnsupportedOutput = errors.New("unsupported output format")

// Format is an export format.
type Format string

const (
	// FormatTable renders an aligned text table for terminals.
	FormatTable Format = "table"
	// FormatCSV writes a header line and one record per row.
	FormatCSV Format = "csv"
	// FormatJSON writes an indented array of rows.
	FormatJSON Format = "json"
	// FormatParquet writes a zstd-compressed Parquet file.
	FormatParquet Format = "parquet"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedOutput, ext)
	}
}

// Write encodes rows to w in the given format.
func Write(w io.Writer, format Format, rows []Row) error {
	switch format {
	case FormatTable:
		return WriteTable(w, rows)
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	case FormatParquet:
		return WriteParquet(w, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedOutput, format)
	}
}

// WriteTable renders rows as a text table.
func WriteTable(w io.Writer, rows []Row) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	for _, r := range rows {
		table.Append(r.fields())
	}
	table.Render()
	return nil
}

// WriteCSV writes a header line followed by one line per row.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write(r.fields()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

// WriteParquet writes rows as a zstd-compressed Parquet file.
func WriteParquet(w io.Writer, rows []Row) error {
	writer := parquet.NewGenericWriter[Row](w,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBestCompression}),
	)
	if _, err := writer.Write(rows); err != nil {
		writer.Close()
		return fmt.Errorf("error writing parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("error closing parquet writer: %w", err)
	}
	return nil
}
