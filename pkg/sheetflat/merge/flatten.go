// Package merge unions aligned blocks into a single table.
package merge

import (
	"fmt"

	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/models"
)

// DuplicateLabelError reports a block that carries the same label twice, so
// its cells cannot be placed into one output column.
type DuplicateLabelError struct {
	Sheet string
	Index int
	Label string
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("block %d of sheet %q has duplicate column %q", e.Index, e.Sheet, e.Label)
}

// DuplicateLabel returns the first label that occurs twice in headers.
func DuplicateLabel(headers []string) (string, bool) {
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if seen[h] {
			return h, true
		}
		seen[h] = true
	}
	return "", false
}

// Flatten concatenates the rows of blocks in order. Columns are the union of
// block labels in first-seen order; a block lacking a label contributes null
// cells to that column.
func Flatten(blocks []models.NormalizedBlock) (models.Table, error) {
	var t models.Table
	index := make(map[string]int)

	for _, b := range blocks {
		if label, dup := DuplicateLabel(b.Headers); dup {
			return models.Table{}, &DuplicateLabelError{Sheet: b.Sheet, Index: b.Index, Label: label}
		}
		for _, h := range b.Headers {
			if _, ok := index[h]; !ok {
				index[h] = len(t.Columns)
				t.Columns = append(t.Columns, h)
			}
		}
	}

	for _, b := range blocks {
		for _, row := range b.Rows {
			out := make(models.Row, len(t.Columns))
			for i, h := range b.Headers {
				out[index[h]] = row.At(i)
			}
			t.Rows = append(t.Rows, out)
		}
	}

	return t, nil
}
