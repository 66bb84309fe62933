package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCells(t *testing.T) {
	tests := []struct {
		input    string
		expected cellsCall
		end      int
		ok       bool
	}{
		{input: "Cells(2, 3)", expected: cellsCall{row: 2, column: 3}, end: 11, ok: true},
		{input: "cells(10,20) & x", expected: cellsCall{row: 10, column: 20}, end: 12, ok: true},
		{input: "CELLS ( 1 ,\t4 )", expected: cellsCall{row: 1, column: 4}, end: 15, ok: true},
		{input: "Cells(1)", ok: false},
		{input: "Cells(a, 1)", ok: false},
		{input: "Cells(-1, 1)", ok: false},
		{input: "Cells(1, 2", ok: false},
		{input: "CellsX(1, 2)", ok: false},
		{input: "Cells(1,\n2)", ok: false},
		{input: "Cells(99999999999999999999, 1)", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := &cursor{src: tt.input}
			call, ok := parseCells(c)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, call)
				assert.Equal(t, tt.end, c.pos)
			}
		})
	}
}

func TestParseReplace(t *testing.T) {
	tests := []struct {
		input    string
		expected replaceCall
		ok       bool
	}{
		{
			input:    `Replace(Cells(2, 2), "b", "z")`,
			expected: replaceCall{cell: cellsCall{2, 2}, from: "b", to: "z"},
			ok:       true,
		},
		{
			input:    `replace( Cells(1, 1) , 'ab' ,'' )`,
			expected: replaceCall{cell: cellsCall{1, 1}, from: "ab", to: ""},
			ok:       true,
		},
		{
			input:    `Replace(Cells(1, 1), "say ""hi""", "x y")`,
			expected: replaceCall{cell: cellsCall{1, 1}, from: "say", to: "x"},
			ok:       true,
		},
		{
			input:    `Replace(Cells(1, 1), "-", "a-b")`,
			expected: replaceCall{cell: cellsCall{1, 1}, from: "", to: "a"},
			ok:       true,
		},
		{
			input:    `Replace(Cells(1, 1), " _x1 ", "é!")`,
			expected: replaceCall{cell: cellsCall{1, 1}, from: "_x1", to: "é"},
			ok:       true,
		},
		{input: `Replace(x, "a", "b")`, ok: false},
		{input: `Replace(Cells(1, 1), "a")`, ok: false},
		{input: `Replace(Cells(1, 1), "a", "b"`, ok: false},
		{input: `Replace(Cells(1, 1), "a, "b")`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			call, ok := parseReplace(&cursor{src: tt.input})
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, call)
			}
		})
	}
}

func TestParseJoin(t *testing.T) {
	tests := []struct {
		input    string
		expected joinCall
		ok       bool
	}{
		{
			input:    `Join([TRANSPOSE(A1:A3)], "-")`,
			expected: joinCall{rangeRef: "A1:A3", delimiter: "-"},
			ok:       true,
		},
		{
			input:    `join( [transpose(b2:e2)] ,'')`,
			expected: joinCall{rangeRef: "b2:e2", delimiter: ""},
			ok:       true,
		},
		{
			input:    `Join([TRANSPOSE($A$1:$A$9)], "#")`,
			expected: joinCall{rangeRef: "$A$1:$A$9", delimiter: "#"},
			ok:       true,
		},
		{input: `Join([SUM(A1:A3)], "-")`, ok: false},
		{input: `Join([TRANSPOSE(A1)], "-")`, ok: false},
		{input: `Join([TRANSPOSE(A1:A3)+1], "-")`, ok: false},
		{input: `Join(arr, "-")`, ok: false},
		{input: `Join([TRANSPOSE(A1:A3)], "-"`, ok: false},
		{input: "Join([TRANSPOSE(A1:A3)\n], \"-\")", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			call, ok := parseJoin(&cursor{src: tt.input})
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, call)
			}
		})
	}
}

func TestScanSkipsLiteralsAndComments(t *testing.T) {
	src := "a = \"b \"\"c\"\" d\" ' e f\nMyVar.g_1 h2"
	var seen []string
	scan(src, func(start int) (int, bool) {
		end := start
		for end < len(src) && isIdentChar(src[end]) {
			end++
		}
		seen = append(seen, src[start:end])
		return end, true
	})
	assert.Equal(t, []string{"a", "MyVar", "g_1", "h2"}, seen)
}

func TestScanSkipsSingleQuotedArguments(t *testing.T) {
	src := "a = Replace(Cells(1, 1), 'x', 'y') & b ' c\nd = Join([TRANSPOSE(A1:A2)], ',') + e"
	var seen []string
	scan(src, func(start int) (int, bool) {
		end := start
		for end < len(src) && isIdentChar(src[end]) {
			end++
		}
		seen = append(seen, src[start:end])
		return end, true
	})
	assert.Equal(t, []string{"a", "Replace", "Cells", "b", "d", "Join", "TRANSPOSE", "A1", "A2", "e"}, seen)
}

func TestQuotedArgs(t *testing.T) {
	tests := []struct {
		input    string
		expected [][2]int
	}{
		{`Replace(Cells(1, 1), 'a', "b")`, [][2]int{{21, 24}}},
		{`Join([TRANSPOSE(A1:A3)], '-')`, [][2]int{{25, 28}}},
		{`Join([TRANSPOSE(A1:A3)], "-")`, nil},
		{`Replace(Cells(1, 1), 'a')`, nil},
		{`Cells(1, 1)`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, quotedArgs(tt.input, 0))
		})
	}
}
