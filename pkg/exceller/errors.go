package exceller

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates an input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrUnrecognizedFormat indicates the spreadsheet is neither OOXML nor a
// recognized OLE2 document.
var ErrUnrecognizedFormat = errors.New("not a valid OOXML/OLE2 spreadsheet")

// ErrUnsupportedFormat indicates a recognized legacy OLE2 document.
var ErrUnsupportedFormat = errors.New("OLE2 spreadsheets are not supported, provide an OOXML workbook")

// Stage names a pipeline step.
type Stage string

const (
	StageDetect      Stage = "detect"
	StageStrings     Stage = "strings"
	StageCells       Stage = "cells"
	StageResolve     Stage = "resolve"
	StageReadMacro   Stage = "read-macro"
	StageWriteOutput Stage = "write-output"
)

// StageError represents a failure in one pipeline stage.
type StageError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed for %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError.
func NewStageError(stage Stage, path string, err error) *StageError {
	return &StageError{
		Stage: stage,
		Path:  path,
		Err:   err,
	}
}
