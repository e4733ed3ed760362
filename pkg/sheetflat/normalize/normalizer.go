// Package normalize reads a block's orientation and header and classifies
// its columns.
package normalize

import (
	"errors"
	"strings"

	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/models"
)

// ErrNoHeaders is returned when every cell of a block's header row is null.
var ErrNoHeaders = errors.New("header row has no labels")

// Normalize promotes the first row of b to headers, swapping rows and columns
// first when transpose is set. Columns with a null header are dropped and the
// remaining labels are trimmed.
func Normalize(b models.Block, transpose bool) (models.NormalizedBlock, error) {
	rows := b.Rows
	if transpose {
		rows = Transpose(rows)
	}

	nb := models.NormalizedBlock{
		Sheet:      b.Sheet,
		Index:      b.Index,
		Transposed: transpose,
	}
	if len(rows) == 0 {
		return nb, ErrNoHeaders
	}

	var keep []int
	for c, cell := range rows[0] {
		if cell.IsNull() {
			continue
		}
		keep = append(keep, c)
		nb.Headers = append(nb.Headers, strings.TrimSpace(cell.String()))
	}
	if len(keep) == 0 {
		return nb, ErrNoHeaders
	}

	nb.Rows = make([]models.Row, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out := make(models.Row, len(keep))
		for i, c := range keep {
			out[i] = row.At(c)
		}
		nb.Rows = append(nb.Rows, out)
	}

	return nb, nil
}

// Transpose swaps rows and columns. Ragged rows are padded with null cells.
func Transpose(rows []models.Row) []models.Row {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	out := make([]models.Row, width)
	for c := range out {
		col := make(models.Row, len(rows))
		for r, row := range rows {
			col[r] = row.At(c)
		}
		out[c] = col
	}
	return out
}
