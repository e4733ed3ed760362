package sheetflat

import (
	"fmt"

	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/parser"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = parser.ErrFileNotFound

// ErrInvalidFormat indicates the input is not a valid xlsx container.
var ErrInvalidFormat = parser.ErrInvalidFormat

// ProcessingError represents a fatal error during a run.
type ProcessingError struct {
	SheetName string
	Stage     string // "load", "normalize", "align", "flatten", "synonyms", "panic"
	Err       error
}

func (e *ProcessingError) Error() string {
	if e.SheetName == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s in sheet %q: %v", e.Stage, e.SheetName, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// NewProcessingError creates a new ProcessingError.
func NewProcessingError(sheetName, stage string, err error) *ProcessingError {
	return &ProcessingError{
		SheetName: sheetName,
		Stage:     stage,
		Err:       err,
	}
}
