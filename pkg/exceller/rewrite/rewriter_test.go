package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ukaji3/exceller-go/pkg/exceller/models"
)

type cellTable map[models.Coord]string

func (c cellTable) Lookup(row, column int) (string, bool) {
	v, ok := c[models.Coord{Row: row, Column: column}]
	return v, ok
}

// fixtureCells holds A1:A3 = p,q,r, B2 = bar and D4 = "a-b c".
func fixtureCells() cellTable {
	return cellTable{
		{Row: 4, Column: 4}: "a-b c",
		{Row: 1, Column: 1}: "p",
		{Row: 2, Column: 1}: "q",
		{Row: 3, Column: 1}: "r",
		{Row: 2, Column: 2}: "bar",
		{Row: 1, Column: 2}: `say "hi"`,
	}
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"cells", "x = Cells(2, 2)", `x = "bar"`},
		{"replace", `y = Replace(Cells(2, 2), "b", "z")`, `y = "zar"`},
		{"join", `s = Join([TRANSPOSE(A1:A3)], "-")`, `s = "-p-q-r"`},
		{"join reversed range", `s = Join([TRANSPOSE(A3:A1)], "-")`, `s = "-p-q-r"`},
		{"join skips missing cells", `s = Join([TRANSPOSE(A1:A5)], "*")`, `s = "*p*q*r"`},
		{"join horizontal range", `s = Join([TRANSPOSE(A2:C2)], ",")`, `s = ",q,bar"`},
		{"join over oversized range", `s = Join([TRANSPOSE(A1:A2000000000)], "-")`, `s = "-p-q-r"`},
		{"join two dimensional range", `s = Join([TRANSPOSE(A1:B3)], "-")`, `s = ""`},
		{"case insensitive", "x = cells( 2 ,\t2 )", `x = "bar"`},
		{"qualified reference", `x = Worksheets("Data").Cells(2, 2)`, `x = Worksheets("Data")."bar"`},
		{"replace with empty search", `y = Replace(Cells(2, 2), "", "z")`, `y = "zbzazrz"`},
		{"replace non-word search", `y = Replace(Cells(4, 4), "-", "")`, `y = "a-b c"`},
		{"replace uses first word run", `y = Replace(Cells(4, 4), "a-", "")`, `y = "-b c"`},
		{"replace blank search", `y = Replace(Cells(4, 4), " ", "x")`, `y = "xax-xbx xcx"`},
		{"replace non-word replacement", `y = Replace(Cells(2, 2), "a", "-")`, `y = "br"`},
		{"replace single quoted args", `y = Replace(Cells(2, 2), 'ar', 'oo')`, `y = "boo"`},
		{"replace runs before cells", `z = Replace(Cells(2, 2), "b", "z") & Cells(2, 2)`, `z = "zar" & "bar"`},
		{"embedded quotes doubled", "m = Cells(1, 2)", `m = "say ""hi"""`},
		{"string literal untouched", `MsgBox "Cells(2, 2)"`, `MsgBox "Cells(2, 2)"`},
		{"comment untouched", "x = 1 ' Cells(2, 2)\ny = Cells(2, 2)", "x = 1 ' Cells(2, 2)\ny = \"bar\""},
		{"longer identifier untouched", "x = MyCells(2, 2)", "x = MyCells(2, 2)"},
		{"cells after single quoted join delimiter", `x = Join([TRANSPOSE(A1:A3)], '-') & Cells(2, 2)`, `x = "-p-q-r" & "bar"`},
		{"cells after unresolved single quoted replace", `z = Replace(Cells(9, 9), 'a', 'b') & Cells(2, 2)`, `z = Replace(Cells(9, 9), 'a', 'b') & "bar"`},
		{"comment after single quoted args", `z = Replace(Cells(9, 9), 'a', 'b') ' Cells(2, 2)`, `z = Replace(Cells(9, 9), 'a', 'b') ' Cells(2, 2)`},
		{"multiple on one line", "a = Cells(1, 1) & Cells(2, 1) & Cells(3, 1)", `a = "p" & "q" & "r"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := New(fixtureCells()).Rewrite(tt.input)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRewriteMissLeavesTextUnchanged(t *testing.T) {
	src := "Sub Main()\r\n  x = Cells(9, 9)\r\n  y = Replace(Cells(7, 1), \"a\", \"b\")\r\nEnd Sub\r\n"

	out, stats := New(fixtureCells()).Rewrite(src)

	assert.Equal(t, src, out)
	assert.Equal(t, Counts{Matched: 1, Missed: 1}, stats.Replace)
	// the Cells inside the unresolved Replace is seen again by the Cells pass
	assert.Equal(t, Counts{Matched: 2, Missed: 2}, stats.Cells)
}

func TestRewriteIsIdempotent(t *testing.T) {
	src := `Sub Run()
    Dim a, b, c
    a = Cells(2, 2)
    b = Replace(Cells(2, 2), "b", "z")
    c = Join([TRANSPOSE(A1:A3)], "-") & Cells(1, 2)
    Shell Cells(8, 8)
End Sub
`
	rw := New(fixtureCells())
	first, _ := rw.Rewrite(src)
	second, stats := rw.Rewrite(first)

	assert.Equal(t, first, second)
	assert.Zero(t, stats.Replace.Substituted)
	assert.Zero(t, stats.Cells.Substituted)
	assert.Zero(t, stats.Join.Substituted)
}

func TestRewriteStats(t *testing.T) {
	src := `a = Cells(2, 2)
b = Cells(5, 5)
c = Replace(Cells(1, 1), "p", "P")
d = Join([TRANSPOSE(A1:A4)], "-")`

	_, stats := New(fixtureCells()).Rewrite(src)

	assert.Equal(t, Counts{Matched: 1, Substituted: 1}, stats.Replace)
	assert.Equal(t, Counts{Matched: 2, Substituted: 1, Missed: 1}, stats.Cells)
	assert.Equal(t, Counts{Matched: 1, Substituted: 1, Missed: 1}, stats.Join)
}

func TestRewriteEscapeQuotesDisabled(t *testing.T) {
	off := false
	out, _ := New(fixtureCells(), Options{EscapeQuotes: &off}).Rewrite("m = Cells(1, 2)")
	assert.Equal(t, `m = "say "hi""`, out)
}

func TestRewriteWithCellMap(t *testing.T) {
	cells := &models.CellMap{
		Sheets: []models.SheetCells{
			{
				Worksheet: models.Worksheet{Part: "xl/worksheets/sheet1.xml", Number: 1, Name: "Sheet1"},
				Values:    map[models.Coord]string{{Row: 1, Column: 1}: "first"},
			},
			{
				Worksheet: models.Worksheet{Part: "xl/worksheets/sheet2.xml", Number: 2, Name: "Keys"},
				Values:    map[models.Coord]string{{Row: 1, Column: 1}: "second"},
			},
		},
		Policy: models.SheetPolicyPinned,
		Sheet:  "Keys",
	}

	out, _ := New(cells).Rewrite("k = Cells(1, 1)")
	assert.Equal(t, `k = "second"`, out)
}
