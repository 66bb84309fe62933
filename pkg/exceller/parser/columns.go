// Package parser reads cell data out of OOXML spreadsheet containers.
package parser

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidColumnLabel indicates a column label with characters outside A-Z.
var ErrInvalidColumnLabel = errors.New("invalid column label")

// ColumnToIndex converts a column label to its 1-based index.
// Labels are bijective base-26 numerals (A=1, Z=26, AA=27) and are
// case-insensitive.
func ColumnToIndex(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("%w: empty label", ErrInvalidColumnLabel)
	}
	n := 0
	for i := 0; i < len(letters); i++ {
		var digit int
		switch ch := letters[i]; {
		case 'A' <= ch && ch <= 'Z':
			digit = int(ch-'A') + 1
		case 'a' <= ch && ch <= 'z':
			digit = int(ch-'a') + 1
		default:
			return 0, fmt.Errorf("%w: %q", ErrInvalidColumnLabel, letters)
		}
		if n > (math.MaxInt-digit)/26 {
			return 0, fmt.Errorf("%w: %q overflows", ErrInvalidColumnLabel, letters)
		}
		n = n*26 + digit
	}
	return n, nil
}

// IndexToColumn converts a 1-based column index to its label.
func IndexToColumn(n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("%w: index %d", ErrInvalidColumnLabel, n)
	}
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}
