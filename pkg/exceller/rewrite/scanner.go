package rewrite

import (
	"strconv"
	"strings"
)

func isIdentStart(ch byte) bool {
	return ch >= 'A' && ch <= 'Z' || ch >= 'a' && ch <= 'z'
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || ch >= '0' && ch <= '9' || ch == '_'
}

// skipString returns the offset just past the double-quoted literal that
// starts at i. Doubled quotes are escapes. An unterminated literal ends at
// the line break.
func skipString(src string, i int) int {
	i++
	for i < len(src) {
		switch src[i] {
		case '"':
			if i+1 < len(src) && src[i+1] == '"' {
				i += 2
				continue
			}
			return i + 1
		case '\n', '\r':
			return i
		}
		i++
	}
	return i
}

func skipLine(src string, i int) int {
	if n := strings.IndexAny(src[i:], "\r\n"); n >= 0 {
		return i + n
	}
	return len(src)
}

// scan walks src outside string literals and comments and offers every
// identifier start to match. When match accepts, scanning resumes at the
// returned end offset. Otherwise the identifier is skipped as a whole, so
// match only ever sees identifier boundaries.
//
// A ' starts a comment unless it opens a single-quoted argument of a
// Replace or Join call.
func scan(src string, match func(start int) (end int, ok bool)) {
	quoted := make(map[int]int)
	i := 0
	for i < len(src) {
		ch := src[i]
		switch {
		case ch == '"':
			i = skipString(src, i)
		case ch == '\'':
			if end, ok := quoted[i]; ok {
				i = end
				continue
			}
			i = skipLine(src, i)
		case isIdentStart(ch) && (i == 0 || !isIdentChar(src[i-1])):
			for _, span := range quotedArgs(src, i) {
				quoted[span[0]] = span[1]
			}
			if end, ok := match(i); ok {
				i = end
				continue
			}
			for i < len(src) && isIdentChar(src[i]) {
				i++
			}
		default:
			i++
		}
	}
}

// quotedArgs returns the spans of the single-quoted arguments of a Replace
// or Join call starting at start.
func quotedArgs(src string, start int) [][2]int {
	c := &cursor{src: src, pos: start}
	if _, ok := parseReplace(c); ok {
		return c.quoted
	}
	c = &cursor{src: src, pos: start}
	if _, ok := parseJoin(c); ok {
		return c.quoted
	}
	return nil
}

// cursor is a read position used by the construct parsers.
type cursor struct {
	src string
	pos int
	// quoted collects the [start, end) spans of '...' literals read so far.
	quoted [][2]int
}

func (c *cursor) skipSpace() {
	for c.pos < len(c.src) && (c.src[c.pos] == ' ' || c.src[c.pos] == '\t') {
		c.pos++
	}
}

// consume advances past ch after optional blanks.
func (c *cursor) consume(ch byte) bool {
	c.skipSpace()
	if c.pos < len(c.src) && c.src[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

// keyword matches kw case-insensitively as a whole identifier.
func (c *cursor) keyword(kw string) bool {
	end := c.pos + len(kw)
	if end > len(c.src) || !strings.EqualFold(c.src[c.pos:end], kw) {
		return false
	}
	if end < len(c.src) && isIdentChar(c.src[end]) {
		return false
	}
	c.pos = end
	return true
}

// integer reads an unsigned decimal literal.
func (c *cursor) integer() (int, bool) {
	c.skipSpace()
	start := c.pos
	for c.pos < len(c.src) && c.src[c.pos] >= '0' && c.src[c.pos] <= '9' {
		c.pos++
	}
	if c.pos == start {
		return 0, false
	}
	n, err := strconv.Atoi(c.src[start:c.pos])
	if err != nil {
		return 0, false
	}
	return n, true
}

// stringLiteral reads a "..." literal with "" escapes or a '...' literal,
// neither of which may span lines.
func (c *cursor) stringLiteral() (string, bool) {
	c.skipSpace()
	if c.pos >= len(c.src) {
		return "", false
	}
	quote := c.src[c.pos]
	if quote != '"' && quote != '\'' {
		return "", false
	}

	var value strings.Builder
	for i := c.pos + 1; i < len(c.src); i++ {
		ch := c.src[i]
		switch {
		case ch == '\n' || ch == '\r':
			return "", false
		case ch == quote && quote == '"' && i+1 < len(c.src) && c.src[i+1] == '"':
			value.WriteByte('"')
			i++
		case ch == quote:
			if quote == '\'' {
				c.quoted = append(c.quoted, [2]int{c.pos, i + 1})
			}
			c.pos = i + 1
			return value.String(), true
		default:
			value.WriteByte(ch)
		}
	}
	return "", false
}

// until reads up to, not including, the next stop byte on the current line.
func (c *cursor) until(stop byte) (string, bool) {
	start := c.pos
	for c.pos < len(c.src) {
		switch c.src[c.pos] {
		case stop:
			return c.src[start:c.pos], true
		case '\n', '\r':
			return "", false
		}
		c.pos++
	}
	return "", false
}
