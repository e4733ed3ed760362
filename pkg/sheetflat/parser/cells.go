package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/models"
	"github.com/xuri/excelize/v2"
)

// builtinDateFormats lists the built-in number format ids that render dates or times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// isoLayouts are the layouts accepted for ISO 8601 date cells (t="d").
var isoLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// cellReader converts raw sheet values into typed cells.
type cellReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	// dateStyles caches whether a style id carries a date number format.
	dateStyles map[int]bool
}

func newCellReader(f *excelize.File, sheetName string) *cellReader {
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	return &cellReader{
		f:          f,
		sheet:      sheetName,
		date1904:   date1904,
		dateStyles: make(map[int]bool),
	}
}

// ExtractCells extracts typed cell data from a sheet.
// The returned rows keep their sheet position; empty rows are kept as
// zero-length rows so row indices line up with the sheet.
func ExtractCells(f *excelize.File, sheetName string) ([]models.Row, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	cr := newCellReader(f, sheetName)
	result := make([]models.Row, len(rows))
	for rowIdx, row := range rows {
		cells := make(models.Row, len(row))
		for colIdx, raw := range row {
			if raw == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			cells[colIdx] = cr.convert(cellName, raw)
		}
		result[rowIdx] = cells
	}

	return result, nil
}

// convert maps a raw value to a cell using the cell's stored type and number format.
func (cr *cellReader) convert(cellName, raw string) models.Cell {
	cellType, err := cr.f.GetCellType(cr.sheet, cellName)
	if err != nil {
		return parseValue(raw)
	}

	switch cellType {
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return models.Text("TRUE")
		}
		return models.Text("FALSE")
	case excelize.CellTypeDate:
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return models.Date(t)
			}
		}
		return models.Text(raw)
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.Text(raw)
		}
		if cr.isDateFormatted(cellName) {
			if t, err := excelize.ExcelDateToTime(v, cr.date1904); err == nil {
				return models.Date(t)
			}
		}
		return models.Number(v)
	default:
		// Shared and inline strings, formula string results and error values.
		return models.Text(raw)
	}
}

// isDateFormatted reports whether the cell's number format displays a date or time.
func (cr *cellReader) isDateFormatted(cellName string) bool {
	styleID, err := cr.f.GetCellStyle(cr.sheet, cellName)
	if err != nil || styleID == 0 {
		return false
	}
	if isDate, ok := cr.dateStyles[styleID]; ok {
		return isDate
	}

	isDate := false
	if style, err := cr.f.GetStyle(styleID); err == nil && style != nil {
		if builtinDateFormats[style.NumFmt] {
			isDate = true
		} else if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	cr.dateStyles[styleID] = isDate
	return isDate
}

// isDateFormatCode reports whether a custom number format code renders a date.
// Quoted literals, escaped characters and bracketed sections such as colours
// or locales are ignored; elapsed-time sections like [h] count as time.
func isDateFormatCode(code string) bool {
	code = strings.ToLower(code)
	var b, section strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case inBracket:
			if ch != ']' {
				section.WriteByte(ch)
				continue
			}
			inBracket = false
			if s := section.String(); s != "" && strings.Trim(s, "hms") == "" {
				b.WriteString(s)
			}
			section.Reset()
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		default:
			b.WriteByte(ch)
		}
	}
	return strings.ContainsAny(b.String(), "ydhs")
}

// parseValue attempts to parse a string value as a number.
// Returns a number cell for numeric text, a text cell otherwise and a null
// cell for the empty string.
func parseValue(s string) models.Cell {
	if s == "" {
		return models.Null()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return models.Number(f)
	}
	return models.Text(s)
}
