package parser

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrMissingPart indicates a required part is absent from the container.
var ErrMissingPart = errors.New("missing part")

// readZipFile returns the content of the named entry. A missing entry
// yields fs.ErrNotExist.
func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fs.ErrNotExist
}

// findParts returns the names of entries accepted by keep, in archive order.
func findParts(r *zip.Reader, keep func(name string) bool) []string {
	var names []string
	for _, f := range r.File {
		if keep(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names
}

// readElementText collects the character data of the current element,
// consuming tokens up to and including its end element.
func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

func orDiscard(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger != nil {
		return logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
