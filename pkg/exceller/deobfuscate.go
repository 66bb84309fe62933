package exceller

import (
	"archive/zip"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ukaji3/exceller-go/pkg/exceller/container"
	"github.com/ukaji3/exceller-go/pkg/exceller/models"
	"github.com/ukaji3/exceller-go/pkg/exceller/parser"
	"github.com/ukaji3/exceller-go/pkg/exceller/rewrite"
)

// Index is the resolved cell data of one workbook.
type Index struct {
	SharedStrings []string
	Worksheets    *models.WorksheetIndex
	Cells         *models.CellMap
}

// Report summarizes a Deobfuscate run.
type Report struct {
	SharedStrings int
	Worksheets    int
	Cells         int
	Stats         rewrite.Stats
}

// BuildIndex validates the workbook at path and resolves its cells.
func BuildIndex(path string, opts Options) (*Index, error) {
	logger := opts.logger().WithField("file", path)

	if err := requireFile(path); err != nil {
		return nil, err
	}
	if err := checkFormat(path, logger); err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, NewStageError(StageDetect, path, err)
	}
	defer zr.Close()

	sharedStrings, err := parser.ExtractSharedStrings(&zr.Reader, logger)
	if err != nil {
		return nil, NewStageError(StageStrings, path, err)
	}

	worksheets, err := parser.BuildWorksheetIndex(&zr.Reader, logger)
	if err != nil {
		return nil, NewStageError(StageCells, path, err)
	}

	cells, err := parser.Resolve(sharedStrings, worksheets, opts.SheetPolicy, opts.Sheet)
	if err != nil {
		return nil, NewStageError(StageResolve, path, err)
	}

	logger.WithFields(logrus.Fields{
		"shared_strings": len(sharedStrings),
		"worksheets":     len(worksheets.Sheets),
		"cells":          worksheets.CellCount(),
		"policy":         cells.Policy,
	}).Info("indexed workbook")

	return &Index{
		SharedStrings: sharedStrings,
		Worksheets:    worksheets,
		Cells:         cells,
	}, nil
}

// Deobfuscate rewrites the macro at macroPath against the workbook at
// excelPath and writes the result to outputPath. Nothing is written unless
// every stage succeeds.
func Deobfuscate(excelPath, macroPath, outputPath string, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.logger()

	if err := requireFile(macroPath); err != nil {
		return nil, err
	}

	index, err := BuildIndex(excelPath, opts)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(macroPath)
	if err != nil {
		return nil, NewStageError(StageReadMacro, macroPath, err)
	}
	source, err := decodeText(raw, opts.Encoding)
	if err != nil {
		return nil, NewStageError(StageReadMacro, macroPath, err)
	}

	escape := opts.ShouldEscapeQuotes()
	rewritten, stats := rewrite.New(index.Cells, rewrite.Options{
		Logger:       logger,
		EscapeQuotes: &escape,
	}).Rewrite(source)

	out, err := encodeText(rewritten, opts.Encoding)
	if err != nil {
		return nil, NewStageError(StageWriteOutput, outputPath, err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return nil, NewStageError(StageWriteOutput, outputPath, err)
	}

	logger.WithField("output", outputPath).Info("wrote deobfuscated macro")

	return &Report{
		SharedStrings: len(index.SharedStrings),
		Worksheets:    len(index.Worksheets.Sheets),
		Cells:         index.Worksheets.CellCount(),
		Stats:         stats,
	}, nil
}

func requireFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return nil
}

// checkFormat accepts OOXML workbooks only.
func checkFormat(path string, logger logrus.FieldLogger) error {
	format, report, err := container.Detect(path)
	if err != nil {
		return NewStageError(StageDetect, path, err)
	}

	switch format {
	case container.FormatOOXML:
		return nil
	case container.FormatLegacy:
		fields := logrus.Fields{"marker": report.Marker}
		for name, value := range report.Properties {
			fields["ole_"+name] = value
		}
		logger.WithFields(fields).Warn("recognized a legacy OLE2 document")
		return NewStageError(StageDetect, path, ErrUnsupportedFormat)
	default:
		if report != nil && report.StructureErr != nil {
			logger.WithError(report.StructureErr).Warn("malformed OLE2 structure")
		}
		return NewStageError(StageDetect, path, ErrUnrecognizedFormat)
	}
}
