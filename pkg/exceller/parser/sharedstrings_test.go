package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSharedStrings(t *testing.T) {
	r := buildArchive(t,
		part{"[Content_Types].xml", contentTypesXML},
		part{"xl/sharedStrings.xml", sstXML("foo", "bar")},
	)

	items, err := ExtractSharedStrings(r, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar"}, items)
}

func TestExtractSharedStringsMissing(t *testing.T) {
	r := buildArchive(t, part{"[Content_Types].xml", contentTypesXML})

	_, err := ExtractSharedStrings(r, nil)
	assert.ErrorIs(t, err, ErrMissingPart)
}

func TestExtractSharedStringsIndexAlignment(t *testing.T) {
	// The second item has no text at all; later items must keep their
	// positions so cell indices still point at the right strings.
	body := `<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` +
		`<si><t>first</t></si>` +
		`<si></si>` +
		`<si><t/></si>` +
		`<si><t>fourth</t></si>` +
		`</sst>`
	r := buildArchive(t, part{"xl/sharedStrings.xml", body})

	items, err := ExtractSharedStrings(r, nil)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, "first", items[0])
	assert.Equal(t, "", items[1])
	assert.Equal(t, "", items[2])
	assert.Equal(t, "fourth", items[3])
}

func TestExtractSharedStringsRichText(t *testing.T) {
	body := `<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` +
		`<si><r><rPr><b/></rPr><t>Po</t></r><r><t xml:space="preserve">wer </t></r><r><t>Shell</t></r></si>` +
		`<si><t>漢字</t><rPh sb="0" eb="2"><t>カンジ</t></rPh></si>` +
		`<si><t>a&amp;b</t></si>` +
		`</sst>`
	r := buildArchive(t, part{"xl/sharedStrings.xml", body})

	items, err := ExtractSharedStrings(r, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Power Shell", "漢字", "a&b"}, items)
}

func TestExtractSharedStringsMalformed(t *testing.T) {
	r := buildArchive(t, part{"xl/sharedStrings.xml", `<sst><si><t>open`})

	_, err := ExtractSharedStrings(r, nil)
	assert.Error(t, err)
}
