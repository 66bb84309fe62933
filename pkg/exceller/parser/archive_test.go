package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type part struct {
	name string
	body string
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`

// buildArchive builds an in-memory zip with the given parts, in order.
func buildArchive(t *testing.T, parts ...part) *zip.Reader {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, p := range parts {
		fw, err := w.Create(p.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(p.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return r
}

// sstXML renders a shared string table with one plain t run per item.
func sstXML(items ...string) string {
	var sb strings.Builder
	sb.WriteString(`<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">`)
	for _, item := range items {
		fmt.Fprintf(&sb, "<si><t>%s</t></si>", item)
	}
	sb.WriteString(`</sst>`)
	return sb.String()
}

// sheetXML wraps raw c elements into a single-row worksheet.
func sheetXML(cells ...string) string {
	return `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData><row r="1">` +
		strings.Join(cells, "") +
		`</row></sheetData></worksheet>`
}
