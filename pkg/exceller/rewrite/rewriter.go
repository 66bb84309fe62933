// Package rewrite substitutes spreadsheet cell references in macro source
// with the literal values they resolve to.
package rewrite

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/exceller-go/pkg/exceller/parser"
)

// Lookup resolves a 1-based (row, column) coordinate to cell content.
type Lookup interface {
	Lookup(row, column int) (string, bool)
}

// Options configures a Rewriter.
type Options struct {
	// Logger receives per-pass statistics and lookup misses.
	Logger logrus.FieldLogger
	// EscapeQuotes doubles embedded quotes in substituted literals.
	// Defaults to true.
	EscapeQuotes *bool
}

// Counts tallies one construct kind. For Cells and Replace a miss is a
// construct whose cell was not found. For Join it is a cell inside the
// range that was not found.
type Counts struct {
	Matched     int `json:"matched"`
	Substituted int `json:"substituted"`
	Missed      int `json:"missed"`
}

// Stats summarizes a Rewrite call.
type Stats struct {
	Replace Counts `json:"replace"`
	Cells   Counts `json:"cells"`
	Join    Counts `json:"join"`
}

// Rewriter rewrites macro text against a cell lookup.
type Rewriter struct {
	cells        Lookup
	logger       logrus.FieldLogger
	escapeQuotes bool
}

// New returns a Rewriter reading cell contents from cells.
func New(cells Lookup, opts ...Options) *Rewriter {
	rw := &Rewriter{cells: cells, escapeQuotes: true}
	for _, opt := range opts {
		if opt.Logger != nil {
			rw.logger = opt.Logger
		}
		if opt.EscapeQuotes != nil {
			rw.escapeQuotes = *opt.EscapeQuotes
		}
	}
	if rw.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		rw.logger = l
	}
	return rw
}

// Rewrite runs the Replace, Cells and Join passes over src in that order.
// Each pass sees the output of the previous one.
func (rw *Rewriter) Rewrite(src string) (string, Stats) {
	var stats Stats
	buf := NewBuffer(src)

	passes := []struct {
		name   string
		counts *Counts
		run    func(text string, counts *Counts) []Edit
	}{
		{"replace", &stats.Replace, rw.replaceEdits},
		{"cells", &stats.Cells, rw.cellsEdits},
		{"join", &stats.Join, rw.joinEdits},
	}
	for _, pass := range passes {
		edits := pass.run(buf.String(), pass.counts)
		if err := buf.Apply(edits); err != nil {
			// Spans come from a single forward scan and cannot overlap.
			rw.logger.WithError(err).WithField("pass", pass.name).Error("failed to apply edits")
			continue
		}
		rw.logger.WithFields(logrus.Fields{
			"pass":        pass.name,
			"matched":     pass.counts.Matched,
			"substituted": pass.counts.Substituted,
			"missed":      pass.counts.Missed,
		}).Info("rewrite pass complete")
	}

	return buf.String(), stats
}

func (rw *Rewriter) replaceEdits(text string, counts *Counts) []Edit {
	var edits []Edit
	scan(text, func(start int) (int, bool) {
		c := &cursor{src: text, pos: start}
		call, ok := parseReplace(c)
		if !ok {
			return 0, false
		}
		counts.Matched++
		content, found := rw.cells.Lookup(call.cell.row, call.cell.column)
		if !found {
			counts.Missed++
			rw.logMiss("replace", call.cell)
			return c.pos, true
		}
		counts.Substituted++
		edits = append(edits, Edit{
			Start: start,
			End:   c.pos,
			Text:  rw.quote(strings.ReplaceAll(content, call.from, call.to)),
		})
		return c.pos, true
	})
	return edits
}

func (rw *Rewriter) cellsEdits(text string, counts *Counts) []Edit {
	var edits []Edit
	scan(text, func(start int) (int, bool) {
		c := &cursor{src: text, pos: start}
		call, ok := parseCells(c)
		if !ok {
			return 0, false
		}
		counts.Matched++
		content, found := rw.cells.Lookup(call.row, call.column)
		if !found {
			counts.Missed++
			rw.logMiss("cells", call)
			return c.pos, true
		}
		counts.Substituted++
		edits = append(edits, Edit{Start: start, End: c.pos, Text: rw.quote(content)})
		return c.pos, true
	})
	return edits
}

func (rw *Rewriter) joinEdits(text string, counts *Counts) []Edit {
	var edits []Edit
	scan(text, func(start int) (int, bool) {
		c := &cursor{src: text, pos: start}
		call, ok := parseJoin(c)
		if !ok {
			return 0, false
		}
		coords, err := parser.ExpandRange(call.rangeRef)
		if err != nil {
			rw.logger.WithError(err).WithField("range", call.rangeRef).Debug("skipping join over unreadable range")
			return 0, false
		}
		counts.Matched++

		var joined strings.Builder
		for _, coord := range coords {
			content, found := rw.cells.Lookup(coord.Row, coord.Column)
			if !found {
				counts.Missed++
				continue
			}
			joined.WriteString(call.delimiter)
			joined.WriteString(content)
		}
		counts.Substituted++
		edits = append(edits, Edit{Start: start, End: c.pos, Text: rw.quote(joined.String())})
		return c.pos, true
	})
	return edits
}

func (rw *Rewriter) logMiss(pass string, call cellsCall) {
	rw.logger.WithFields(logrus.Fields{
		"pass":   pass,
		"row":    call.row,
		"column": call.column,
	}).Debug("no cell content for reference")
}

// quote renders s as a double-quoted macro string literal.
func (rw *Rewriter) quote(s string) string {
	if rw.escapeQuotes {
		s = strings.ReplaceAll(s, `"`, `""`)
	}
	return `"` + s + `"`
}
