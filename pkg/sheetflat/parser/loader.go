// Package parser turns workbook bytes into typed sheet grids and cuts those
// grids into data blocks.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/models"
	"github.com/xuri/excelize/v2"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input is not a valid xlsx container.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// LoadError reports a workbook that could not be decoded.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidFormat, e.Err)
}

// Unwrap exposes both ErrInvalidFormat and the codec error.
func (e *LoadError) Unwrap() []error {
	return []error{ErrInvalidFormat, e.Err}
}

// LoadWorkbook decodes workbook bytes into an ordered list of typed sheets.
func LoadWorkbook(data []byte) (*models.Workbook, error) {
	return LoadReader(bytes.NewReader(data))
}

// LoadReader decodes a workbook from r.
func LoadReader(r io.Reader) (*models.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	defer f.Close()

	return readWorkbook(f)
}

// LoadFile decodes the workbook stored at path.
func LoadFile(path string) (*models.Workbook, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	defer f.Close()

	wb, err := readWorkbook(f)
	if err != nil {
		return nil, err
	}
	wb.Name = filepath.Base(path)
	return wb, nil
}

func readWorkbook(f *excelize.File) (*models.Workbook, error) {
	sheetList := f.GetSheetList()
	wb := &models.Workbook{Sheets: make([]models.Sheet, 0, len(sheetList))}

	for _, sheetName := range sheetList {
		rows, err := ExtractCells(f, sheetName)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
		}
		wb.Sheets = append(wb.Sheets, models.Sheet{Name: sheetName, Rows: rows})
	}

	return wb, nil
}
