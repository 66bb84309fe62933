// Package container identifies the spreadsheet container format of a file.
//
// OOXML workbooks are zip packages carrying a [Content_Types].xml part. Legacy
// workbooks are OLE2 compound files and are recognized by the streams they
// hold; they are reported but never processed.
package container

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"
)

// ErrLegacyInspection indicates that the file itself could not be read while
// probing for an OLE2 compound file.
var ErrLegacyInspection = errors.New("legacy container inspection failed")

// Format identifies a container format.
type Format int

const (
	// FormatUnknown is neither an OOXML package nor a recognized OLE2 document.
	FormatUnknown Format = iota
	// FormatOOXML is a zip package carrying [Content_Types].xml.
	FormatOOXML
	// FormatLegacy is an OLE2 compound file with a known marker stream.
	FormatLegacy
)

func (f Format) String() string {
	switch f {
	case FormatOOXML:
		return "ooxml"
	case FormatLegacy:
		return "ole2"
	default:
		return "unknown"
	}
}

const contentTypesPart = "[Content_Types].xml"

var (
	zipMagic = []byte("PK")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// legacyMarkers are root-level stream names that identify an Office document.
var legacyMarkers = map[string]bool{
	"VBA":                         true,
	"PROJECT":                     true,
	"_VBA_PROJECT":                true,
	"Workbook":                    true,
	"Book":                        true,
	"Equation Native":             true,
	"\x04JSRV_SegmentInformation": true,
	"\x05HwpSummaryInformation":   true,
}

const equationNative = "equation native"

// LegacyReport describes what was found while inspecting a file as OLE2.
type LegacyReport struct {
	// Compound is set when the file starts with the OLE2 signature.
	Compound bool
	// Recognized is set when a marker stream was found.
	Recognized bool
	// Marker is the full name of the stream that triggered recognition.
	Marker string
	// Streams lists full stream names in directory order.
	Streams []string
	// Properties holds decoded property-set values keyed by property name.
	Properties map[string]string
	// StructureErr is the recoverable structure error that ended inspection.
	StructureErr error
}

// IsOOXML reports whether path is a zip package with a readable
// [Content_Types].xml entry.
func IsOOXML(path string) (bool, error) {
	ok, err := hasMagic(path, zipMagic)
	if err != nil || !ok {
		return false, err
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return false, nil
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != contentTypesPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return false, nil
		}
		rc.Close()
		return true, nil
	}
	return false, nil
}

// DetectLegacy inspects path as an OLE2 compound file. Malformed or truncated
// compound structure is not an error: it ends inspection with the report
// marked unrecognized and the cause kept in StructureErr.
func DetectLegacy(path string) (*LegacyReport, error) {
	report := &LegacyReport{}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLegacyInspection, err)
	}
	defer f.Close()

	header := make([]byte, len(oleMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		if isTruncation(err) {
			return report, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrLegacyInspection, err)
	}
	if !bytes.Equal(header, oleMagic) {
		return report, nil
	}
	report.Compound = true

	doc, err := mscfb.New(f)
	if err != nil {
		return report, classify(report, err)
	}

	props := msoleps.New()
	for {
		entry, err := doc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, classify(report, err)
		}
		if entry.FileInfo().IsDir() {
			continue
		}

		name := fullName(entry)
		report.Streams = append(report.Streams, name)

		if msoleps.IsMSOLEPS(entry.Initial) {
			readProperties(props, doc, report)
		}

		if report.Recognized {
			continue
		}
		top := entry.Name
		if len(entry.Path) > 0 {
			top = entry.Path[0]
		}
		if (len(entry.Path) == 0 && legacyMarkers[name]) || strings.EqualFold(top, equationNative) {
			report.Recognized = true
			report.Marker = strings.Join(append(append([]string{}, entry.Path...), name), "/")
		}
	}

	return report, nil
}

// Detect returns the container format of path. The legacy report is only
// set when the file is not OOXML.
func Detect(path string) (Format, *LegacyReport, error) {
	ok, err := IsOOXML(path)
	if err != nil {
		return FormatUnknown, nil, err
	}
	if ok {
		return FormatOOXML, nil, nil
	}

	report, err := DetectLegacy(path)
	if err != nil {
		return FormatUnknown, nil, err
	}
	if report.Recognized {
		return FormatLegacy, report, nil
	}
	return FormatUnknown, report, nil
}

func hasMagic(path string, magic []byte) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, len(magic))
	if _, err := io.ReadFull(f, buf); err != nil {
		if isTruncation(err) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(buf, magic), nil
}

// fullName restores the leading control character mscfb strips from
// special stream names such as \x05SummaryInformation.
func fullName(entry *mscfb.File) string {
	if entry.Initial != 0 && !unicode.IsPrint(rune(entry.Initial)) {
		return string(rune(entry.Initial)) + entry.Name
	}
	return entry.Name
}

func readProperties(props *msoleps.Reader, doc *mscfb.Reader, report *LegacyReport) {
	defer func() {
		// msoleps indexes raw offsets from the stream
		if r := recover(); r != nil {
			props.Property = nil
		}
	}()
	if err := props.Reset(doc); err != nil {
		return
	}
	for _, p := range props.Property {
		if p == nil || p.Name == "" || p.T == nil {
			continue
		}
		if report.Properties == nil {
			report.Properties = make(map[string]string)
		}
		report.Properties[p.Name] = p.String()
	}
}

// classify keeps mscfb structure errors and truncated reads on the report
// and turns anything else into ErrLegacyInspection.
func classify(report *LegacyReport, err error) error {
	var cfbErr mscfb.Error
	if errors.As(err, &cfbErr) || isTruncation(err) {
		report.StructureErr = err
		report.Recognized = false
		report.Marker = ""
		return nil
	}
	return fmt.Errorf("%w: %v", ErrLegacyInspection, err)
}

func isTruncation(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
