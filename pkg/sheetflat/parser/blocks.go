package parser

import (
	"fmt"

	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/models"
	"github.com/xuri/excelize/v2"
)

// BlockParams holds the minimum shape of a retained block.
type BlockParams struct {
	MinRows int
	MinCols int
}

// DefaultBlockParams returns the default block thresholds: a block needs
// more than one row and more than one column after trimming.
func DefaultBlockParams() BlockParams {
	return BlockParams{
		MinRows: 2,
		MinCols: 2,
	}
}

// Segmentation is the result of cutting a sheet into blocks.
type Segmentation struct {
	// Blocks holds the qualifying blocks in discovery order.
	Blocks []models.Block
	// Rejected holds the runs that fell below the size threshold.
	Rejected []models.Block
}

// SegmentBlocks splits the rows from dataStart onward into maximal runs of
// non-blank rows separated by blank rows. Each run is trimmed of columns that
// are null across all of its rows and kept only if it meets params.
func SegmentBlocks(sheetName string, rows []models.Row, dataStart int, params BlockParams) Segmentation {
	var seg Segmentation
	start := -1

	for i := dataStart; i <= len(rows); i++ {
		blank := i == len(rows) || rows[i].IsBlank()
		if !blank {
			if start < 0 {
				start = i
			}
			continue
		}
		if start < 0 {
			continue
		}

		b := trimBlock(sheetName, start, rows[start:i])
		if r, c := b.Shape(); r >= params.MinRows && c >= params.MinCols {
			b.Index = len(seg.Blocks) + 1
			seg.Blocks = append(seg.Blocks, b)
		} else {
			seg.Rejected = append(seg.Rejected, b)
		}
		start = -1
	}

	return seg
}

// trimBlock drops the columns that hold no value in any of the given rows.
func trimBlock(sheetName string, startRow int, rows []models.Row) models.Block {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	var cols []int
	for c := 0; c < width; c++ {
		for _, row := range rows {
			if !row.At(c).IsNull() {
				cols = append(cols, c)
				break
			}
		}
	}

	trimmed := make([]models.Row, len(rows))
	for r, row := range rows {
		out := make(models.Row, len(cols))
		for i, c := range cols {
			out[i] = row.At(c)
		}
		trimmed[r] = out
	}

	return models.Block{
		Sheet:    sheetName,
		StartRow: startRow,
		Columns:  cols,
		Ref:      blockRef(startRow, startRow+len(rows)-1, cols),
		Rows:     trimmed,
	}
}

// blockRef converts 0-based bounds to Excel range notation.
func blockRef(firstRow, lastRow int, cols []int) string {
	if len(cols) == 0 {
		return ""
	}
	startCell, err := excelize.CoordinatesToCellName(cols[0]+1, firstRow+1)
	if err != nil {
		return ""
	}
	endCell, err := excelize.CoordinatesToCellName(cols[len(cols)-1]+1, lastRow+1)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s:%s", startCell, endCell)
}
