package models

// Block is a rectangular data region cut out of a sheet.
type Block struct {
	// Sheet is the name of the sheet owning the block.
	Sheet string `json:"sheet"`
	// Index is the 1-based position of the block within its sheet.
	Index int `json:"index"`
	// StartRow is the 0-based sheet row of the block's first row.
	StartRow int `json:"start_row"`
	// Columns holds the 0-based sheet columns kept after trimming.
	Columns []int `json:"columns"`
	// Ref is the bounding range in A1 notation (e.g. "A3:C10").
	Ref string `json:"ref,omitempty"`
	// Rows holds the trimmed cells, one entry per kept column.
	Rows []Row `json:"rows"`
}

// Shape returns the number of rows and columns of the block.
func (b Block) Shape() (rows, cols int) {
	return len(b.Rows), len(b.Columns)
}

// ColumnRole tags a normalized column as categorical or numeric.
type ColumnRole string

const (
	// RoleMetric marks a column whose non-null values all parse as numbers.
	RoleMetric ColumnRole = "Metric"
	// RoleDimension marks any other column.
	RoleDimension ColumnRole = "Dimension"
)

// NormalizedBlock is a block after orientation and header promotion.
type NormalizedBlock struct {
	// Sheet is the name of the sheet owning the block.
	Sheet string `json:"sheet"`
	// Index is the 1-based position of the block within its sheet.
	Index int `json:"index"`
	// Transposed reports whether rows and columns were swapped.
	Transposed bool `json:"transposed"`
	// Headers holds the trimmed header labels.
	Headers []string `json:"headers"`
	// Rows holds the data body; every row has len(Headers) cells.
	Rows []Row `json:"rows"`
	// Roles holds the classification of each column, once classified.
	Roles []ColumnRole `json:"roles,omitempty"`
}

// Column returns the cells of column i.
func (nb NormalizedBlock) Column(i int) []Cell {
	col := make([]Cell, len(nb.Rows))
	for r, row := range nb.Rows {
		col[r] = row.At(i)
	}
	return col
}

// ColumnProfile summarizes one normalized column.
type ColumnProfile struct {
	// Label is the column header.
	Label string `json:"label"`
	// Role is the column classification.
	Role ColumnRole `json:"role"`
	// NonNull is the number of non-null cells.
	NonNull int `json:"non_null"`
	// Min is the smallest value of a metric column.
	Min *float64 `json:"min,omitempty"`
	// Max is the largest value of a metric column.
	Max *float64 `json:"max,omitempty"`
	// Mean is the arithmetic mean of a metric column.
	Mean *float64 `json:"mean,omitempty"`
}

// BlockSummary describes one block that made it into the result.
type BlockSummary struct {
	// Sheet is the name of the sheet owning the block.
	Sheet string `json:"sheet"`
	// Index is the 1-based position of the block within its sheet.
	Index int `json:"index"`
	// Ref is the source range in A1 notation.
	Ref string `json:"ref"`
	// Rows is the number of data rows.
	Rows int `json:"rows"`
	// Transposed reports whether rows and columns were swapped.
	Transposed bool `json:"transposed"`
	// Columns profiles each normalized column, labelled before alignment.
	Columns []ColumnProfile `json:"columns"`
}
