package parser

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// SharedStringsFile is the file name of the shared string table part.
const SharedStringsFile = "sharedStrings.xml"

// ExtractSharedStrings reads the shared string table of the container.
// Every si item yields exactly one entry, so entry i is the string that
// cells reference with index i.
func ExtractSharedStrings(r *zip.Reader, logger logrus.FieldLogger) ([]string, error) {
	logger = orDiscard(logger)

	parts := findParts(r, func(name string) bool {
		return strings.Contains(name, SharedStringsFile)
	})
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no %s in container", ErrMissingPart, SharedStringsFile)
	}
	if len(parts) > 1 {
		logger.WithField("parts", parts).Warnf("multiple %s parts, using the first", SharedStringsFile)
	}

	data, err := readZipFile(r, parts[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", parts[0], err)
	}
	items, err := parseSharedStrings(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", parts[0], err)
	}

	logger.WithFields(logrus.Fields{
		"part":  parts[0],
		"count": len(items),
	}).Debug("loaded shared strings")
	return items, nil
}

// parseSharedStrings concatenates the t runs of each si item. Phonetic
// (rPh) runs are not part of the cell text and are skipped.
func parseSharedStrings(rd io.Reader) ([]string, error) {
	var items []string
	var current strings.Builder
	inItem := false
	phonetic := 0

	decoder := xml.NewDecoder(rd)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "si":
				inItem = true
				current.Reset()
			case "rPh":
				phonetic++
			case "t":
				if inItem && phonetic == 0 {
					text, err := readElementText(decoder)
					if err != nil {
						return nil, err
					}
					current.WriteString(text)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "si":
				items = append(items, current.String())
				inItem = false
			case "rPh":
				phonetic--
			}
		}
	}

	return items, nil
}
