package rewrite

import (
	"regexp"
	"strings"

	"github.com/xuri/efp"
)

// cellsCall is Cells(row, column).
type cellsCall struct {
	row    int
	column int
}

// wordRun is the part of a Replace argument that is used as search or
// replacement text.
var wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// replaceCall is Replace(Cells(row, column), "from", "to").
type replaceCall struct {
	cell cellsCall
	from string
	to   string
}

// joinCall is Join([TRANSPOSE(range)], "delimiter").
type joinCall struct {
	rangeRef  string
	delimiter string
}

func parseCells(c *cursor) (cellsCall, bool) {
	var call cellsCall
	if !c.keyword("Cells") || !c.consume('(') {
		return call, false
	}
	var ok bool
	if call.row, ok = c.integer(); !ok || !c.consume(',') {
		return call, false
	}
	if call.column, ok = c.integer(); !ok || !c.consume(')') {
		return call, false
	}
	return call, true
}

func parseReplace(c *cursor) (replaceCall, bool) {
	var call replaceCall
	if !c.keyword("Replace") || !c.consume('(') {
		return call, false
	}
	c.skipSpace()
	var ok bool
	if call.cell, ok = parseCells(c); !ok || !c.consume(',') {
		return call, false
	}
	if call.from, ok = c.stringLiteral(); !ok || !c.consume(',') {
		return call, false
	}
	if call.to, ok = c.stringLiteral(); !ok || !c.consume(')') {
		return call, false
	}
	call.from = wordRun.FindString(call.from)
	call.to = wordRun.FindString(call.to)
	return call, true
}

func parseJoin(c *cursor) (joinCall, bool) {
	var call joinCall
	if !c.keyword("Join") || !c.consume('(') || !c.consume('[') {
		return call, false
	}
	expr, ok := c.until(']')
	if !ok {
		return call, false
	}
	c.pos++
	if call.rangeRef, ok = transposeRange(expr); !ok || !c.consume(',') {
		return call, false
	}
	if call.delimiter, ok = c.stringLiteral(); !ok || !c.consume(')') {
		return call, false
	}
	return call, true
}

// transposeRange tokenizes an evaluation expression and returns the range
// operand when the expression is exactly TRANSPOSE(range).
func transposeRange(expr string) (string, bool) {
	ps := efp.ExcelParser()
	var tokens []efp.Token
	for i, token := range ps.Parse("=" + strings.TrimSpace(expr)) {
		// the formula prefix comes back as an infix operator
		if i == 0 && token.TType == efp.TokenTypeOperatorInfix && token.TValue == "=" {
			continue
		}
		if token.TType != efp.TokenTypeWhitespace {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) != 3 {
		return "", false
	}

	open, operand, closing := tokens[0], tokens[1], tokens[2]
	if open.TType != efp.TokenTypeFunction || open.TSubType != efp.TokenSubTypeStart ||
		!strings.EqualFold(open.TValue, "TRANSPOSE") {
		return "", false
	}
	if operand.TType != efp.TokenTypeOperand || operand.TSubType != efp.TokenSubTypeRange ||
		!strings.Contains(operand.TValue, ":") {
		return "", false
	}
	if closing.TType != efp.TokenTypeFunction || closing.TSubType != efp.TokenSubTypeStop {
		return "", false
	}
	return operand.TValue, true
}
