package parser

import "github.com/ukaji3/sheetflat-go/pkg/sheetflat/models"

// minDataCells is the number of non-null cells that marks a row as data.
const minDataCells = 2

// MetadataScan is the outcome of scanning a sheet for leading metadata rows.
type MetadataScan struct {
	// DataStart is the 0-based row where tabular data begins.
	DataStart int
	// Stripped is the number of metadata rows above DataStart.
	Stripped int
	// Found reports whether a data row was found at all.
	Found bool
	// Values holds the text of the non-null cells in the stripped rows.
	Values []string
}

// StripMetadata finds the first row holding at least two non-null cells.
// Rows below it are never inspected. When no row qualifies the whole sheet
// is treated as data starting at row 0, Found is false and Values holds
// every non-null cell seen.
func StripMetadata(rows []models.Row) MetadataScan {
	var values []string
	for idx, row := range rows {
		if row.NonNull() >= minDataCells {
			return MetadataScan{DataStart: idx, Stripped: idx, Found: true, Values: values}
		}
		for _, c := range row {
			if !c.IsNull() {
				values = append(values, c.String())
			}
		}
	}
	return MetadataScan{Values: values}
}
