// Package models defines data structures for workbook flattening.
package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the text form used for date cells in headers and output.
const DateLayout = "2006-01-02 15:04:05"

// CellKind identifies which variant a Cell holds.
type CellKind uint8

const (
	// CellNull is an empty cell.
	CellNull CellKind = iota
	// CellNumber is a numeric cell.
	CellNumber
	// CellText is a string cell.
	CellText
	// CellDate is a date or date-time cell.
	CellDate
)

// String returns the kind name.
func (k CellKind) String() string {
	switch k {
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	case CellDate:
		return "date"
	default:
		return "null"
	}
}

// Cell is a nullable scalar sheet value.
// The zero value is a null cell.
type Cell struct {
	// Kind selects which of the value fields is meaningful.
	Kind CellKind
	// Num holds the value of a CellNumber.
	Num float64
	// Str holds the value of a CellText.
	Str string
	// Time holds the value of a CellDate.
	Time time.Time
}

// Null returns an empty cell.
func Null() Cell { return Cell{} }

// Number returns a numeric cell.
func Number(v float64) Cell { return Cell{Kind: CellNumber, Num: v} }

// Text returns a string cell.
func Text(s string) Cell { return Cell{Kind: CellText, Str: s} }

// Date returns a date cell.
func Date(t time.Time) Cell { return Cell{Kind: CellDate, Time: t} }

// IsNull reports whether the cell is empty.
func (c Cell) IsNull() bool { return c.Kind == CellNull }

// String renders the cell as text. Null cells render as "".
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellText:
		return c.Str
	case CellDate:
		return c.Time.Format(DateLayout)
	default:
		return ""
	}
}

// Float parses the cell as a decimal number.
// Numbers succeed, text succeeds when it holds a plain decimal literal,
// null and date cells fail.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Num, true
	case CellText:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Str), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// MarshalJSON renders null cells as "" and non-finite numbers as strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Kind == CellNumber && !math.IsNaN(c.Num) && !math.IsInf(c.Num, 0) {
		return json.Marshal(c.Num)
	}
	return json.Marshal(c.String())
}

// Row is an ordered list of cells.
type Row []Cell

// NonNull counts the non-null cells in the row.
func (r Row) NonNull() int {
	n := 0
	for _, c := range r {
		if !c.IsNull() {
			n++
		}
	}
	return n
}

// IsBlank reports whether every cell in the row is null.
func (r Row) IsBlank() bool {
	return r.NonNull() == 0
}

// At returns the cell at column i, or a null cell past the end of a ragged row.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Null()
	}
	return r[i]
}
