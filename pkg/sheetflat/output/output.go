// Package output serializes flattening results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ukaji3/sheetflat-go/pkg/sheetflat"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/models"
	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the sheet written by WriteXLSX when none is given.
const DefaultSheetName = "Flattened"

// SplitTable is a table in split orientation: columns, row index and data.
type SplitTable struct {
	Columns []string       `json:"columns"`
	Index   []int          `json:"index"`
	Data    [][]models.Cell `json:"data"`
}

// Response is the serialized form of a run.
type Response struct {
	RunID  string                `json:"run_id,omitempty"`
	Steps  []models.Step         `json:"steps"`
	Data   *SplitTable           `json:"data"`
	Blocks []models.BlockSummary `json:"blocks,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// Split converts a table to split orientation, or nil when it is empty.
func Split(t models.Table) *SplitTable {
	if len(t.Rows) == 0 {
		return nil
	}
	st := &SplitTable{
		Columns: append([]string{}, t.Columns...),
		Index:   make([]int, len(t.Rows)),
		Data:    make([][]models.Cell, len(t.Rows)),
	}
	for i, row := range t.Rows {
		st.Index[i] = i
		cells := make([]models.Cell, len(t.Columns))
		copy(cells, row)
		st.Data[i] = cells
	}
	return st
}

// NewResponse builds the serialized form of res.
func NewResponse(res *sheetflat.Result) Response {
	resp := Response{
		RunID:  res.RunID,
		Steps:  res.Steps,
		Data:   Split(res.Table),
		Blocks: res.Blocks,
	}
	if resp.Steps == nil {
		resp.Steps = []models.Step{}
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	return resp
}

// ToJSON serializes a run result to JSON.
func ToJSON(res *sheetflat.Result, pretty bool) ([]byte, error) {
	resp := NewResponse(res)
	if pretty {
		return json.MarshalIndent(resp, "", "  ")
	}
	return json.Marshal(resp)
}

// WriteCSV writes the table header and rows as CSV. Null cells become empty fields.
func WriteCSV(w io.Writer, t models.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range record {
			record[i] = row.At(i).String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the table to a new single-sheet workbook.
func WriteXLSX(w io.Writer, t models.Table, sheetName string) error {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for r, row := range t.Rows {
		values := make([]interface{}, len(t.Columns))
		for i := range values {
			values[i] = cellValue(row.At(i))
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// cellValue maps a cell to the value excelize stores for it.
func cellValue(c models.Cell) interface{} {
	switch c.Kind {
	case models.CellNumber:
		return c.Num
	case models.CellText:
		return c.Str
	case models.CellDate:
		return c.Time
	default:
		return nil
	}
}
