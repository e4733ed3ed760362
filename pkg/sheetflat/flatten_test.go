package sheetflat

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetflat-go/internal/testutil"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/merge"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/models"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/trace"
)

func quietOptions(instructions string) Options {
	opts := DefaultOptions()
	opts.Instructions = instructions
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func quarters(t *testing.T) []byte {
	return testutil.WorkbookBytes(t,
		testutil.Sheet{Name: "Q1", Rows: [][]interface{}{
			{"Region", "Sales"},
			{"East", 100},
		}},
		testutil.Sheet{Name: "Q2", Rows: [][]interface{}{
			{"Region", "Revenue"},
			{"West", 200},
		}},
	)
}

func findStep(steps []models.Step, name string) (models.Step, bool) {
	for _, s := range steps {
		if s.Step == name {
			return s, true
		}
	}
	return models.Step{}, false
}

func TestFlattenSingleBlock(t *testing.T) {
	data := testutil.WorkbookBytes(t, testutil.Sheet{Name: "Sales", Rows: [][]interface{}{
		{"Region", "Revenue"},
		{"East", 100},
		{"West", 200},
	}})

	res := Flatten(data, quietOptions(""))
	require.NoError(t, res.Err)
	assert.False(t, res.Failed())
	assert.NotEmpty(t, res.RunID)

	assert.Equal(t, []string{"Region", "Revenue"}, res.Table.Columns)
	require.Len(t, res.Table.Rows, 2)
	assert.Equal(t, models.Row{models.Text("East"), models.Number(100)}, res.Table.Rows[0])
	assert.Equal(t, models.Row{models.Text("West"), models.Number(200)}, res.Table.Rows[1])

	require.Len(t, res.Blocks, 1)
	block := res.Blocks[0]
	assert.Equal(t, "Sales", block.Sheet)
	assert.Equal(t, "A1:B3", block.Ref)
	require.Len(t, block.Columns, 2)
	assert.Equal(t, models.RoleDimension, block.Columns[0].Role)
	assert.Equal(t, models.RoleMetric, block.Columns[1].Role)

	wantSteps := []models.Step{
		{Step: "Initialization", Details: "No instructions provided.", Status: models.StatusSuccess},
		{Step: "Sheet Identification", Details: "Detected 1 sheets: Sales", Status: models.StatusSuccess},
		{Step: "Processing Sheet: Sales", Details: "Starting analysis...", Status: models.StatusSuccess},
		{Step: "Block Detection - Sales", Details: "Found 1 potential data blocks.", Status: models.StatusSuccess},
		{Step: "Block Analysis - Sales - Block 1", Details: "Dimensions: (3, 2). Detecting orientation...", Status: models.StatusSuccess},
		{Step: "Normalization", Details: `Block 1 of Sales has 2 rows x 2 columns: ["Region" "Revenue"]`, Status: models.StatusSuccess},
		{Step: "Column Analysis", Details: `Dimensions: ["Region"], Metrics: ["Revenue"]`, Status: models.StatusSuccess},
		{Step: "Flattening", Details: "Merging 1 detected blocks.", Status: models.StatusSuccess},
		{Step: "Flattening", Details: "Merge complete: 2 rows x 2 columns.", Status: models.StatusSuccess},
	}
	assert.Equal(t, wantSteps, res.Steps)
}

func TestFlattenAlignInstruction(t *testing.T) {
	res := Flatten(quarters(t), quietOptions("align sales with revenue"))
	require.NoError(t, res.Err)

	assert.Equal(t, []string{"Region", "Revenue"}, res.Table.Columns)
	assert.Equal(t, []models.Cell{models.Number(100), models.Number(200)}, res.Table.Column("Revenue"))

	step, ok := findStep(res.Steps, "Header Alignment")
	require.True(t, ok)
	assert.Equal(t, "Mapped 'Sales' to 'Revenue' based on instructions.", step.Details)
	assert.Equal(t, models.StatusSuccess, step.Status)

	require.Len(t, res.Alignments, 1)
	assert.True(t, res.Alignments[0].Resolved)
}

func TestFlattenWithoutAlignKeepsColumnsApart(t *testing.T) {
	res := Flatten(quarters(t), quietOptions(""))
	require.NoError(t, res.Err)

	assert.Equal(t, []string{"Region", "Sales", "Revenue"}, res.Table.Columns)
	assert.Equal(t, []models.Cell{models.Number(100), models.Null()}, res.Table.Column("Sales"))
	assert.Equal(t, []models.Cell{models.Null(), models.Number(200)}, res.Table.Column("Revenue"))
}

func TestFlattenUnresolvedAlign(t *testing.T) {
	res := Flatten(quarters(t), quietOptions("align zzz with qqq"))
	require.NoError(t, res.Err)

	step, ok := findStep(res.Steps, "Header Alignment")
	require.True(t, ok)
	assert.Equal(t, models.StatusWarning, step.Status)
	assert.Len(t, res.Table.Columns, 3)
}

func TestFlattenIgnoreSheet(t *testing.T) {
	res := Flatten(quarters(t), quietOptions("ignore q2"))
	require.NoError(t, res.Err)

	step, ok := findStep(res.Steps, "Processing Sheet: Q2")
	require.True(t, ok)
	assert.Equal(t, models.StatusWarning, step.Status)
	assert.Equal(t, "Skipping based on user instructions.", step.Details)

	assert.Equal(t, []string{"Region", "Sales"}, res.Table.Columns)
	require.Len(t, res.Table.Rows, 1)
	assert.Equal(t, "East", res.Table.Rows[0][0].String())

	initStep, ok := findStep(res.Steps, "Initialization")
	require.True(t, ok)
	assert.Equal(t, "Received instructions: ignore q2", initStep.Details)
}

func TestFlattenStripsMetadata(t *testing.T) {
	data := testutil.WorkbookBytes(t, testutil.Sheet{Name: "Report", Rows: [][]interface{}{
		{"Quarterly Report"},
		{nil, "Confidential"},
		{"Region", "Revenue", "Units"},
		{"East", 100, 5},
	}})

	res := Flatten(data, quietOptions(""))
	require.NoError(t, res.Err)

	step, ok := findStep(res.Steps, "Metadata - Report")
	require.True(t, ok)
	assert.Equal(t, "Found potential metadata in first 2 rows.", step.Details)

	assert.Equal(t, []string{"Region", "Revenue", "Units"}, res.Table.Columns)
	require.Len(t, res.Table.Rows, 1)
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, "A3:C4", res.Blocks[0].Ref)
}

func TestFlattenNoBlocks(t *testing.T) {
	data := testutil.WorkbookBytes(t, testutil.Sheet{Name: "Notes", Rows: [][]interface{}{
		{"lonely"},
	}})

	res := Flatten(data, quietOptions(""))
	require.NoError(t, res.Err)
	assert.True(t, res.Table.Empty())
	assert.Empty(t, res.Blocks)

	last := res.Steps[len(res.Steps)-1]
	assert.Equal(t, models.Step{Step: "Flattening", Details: "No valid data blocks found.", Status: models.StatusWarning}, last)

	detection, ok := findStep(res.Steps, "Block Detection - Notes")
	require.True(t, ok)
	assert.Equal(t, models.StatusWarning, detection.Status)
	assert.Equal(t, "Discarded 1 x 1 region at A1:A1: below the 2 x 2 minimum.", detection.Details)

	meta, ok := findStep(res.Steps, "Metadata - Notes")
	require.True(t, ok)
	assert.Equal(t, models.StatusWarning, meta.Status)
}

func TestFlattenInvalidBytes(t *testing.T) {
	res := Flatten([]byte("not a workbook"), quietOptions(""))

	require.Error(t, res.Err)
	assert.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, ErrInvalidFormat)
	assert.True(t, res.Table.Empty())
	assert.Empty(t, res.Blocks)

	assert.Equal(t, 1, trace.Count(res.Steps, models.StatusError))
	last := res.Steps[len(res.Steps)-1]
	assert.Equal(t, "Error", last.Step)
	assert.Equal(t, res.Err.Error(), last.Details)

	var pe *ProcessingError
	require.True(t, errors.As(res.Err, &pe))
	assert.Equal(t, "load", pe.Stage)
}

func TestFlattenTranspose(t *testing.T) {
	data := testutil.WorkbookBytes(t, testutil.Sheet{Name: "Wide", Rows: [][]interface{}{
		{"Month", "Jan", "Feb"},
		{"Sales", 10, 20},
	}})

	res := Flatten(data, quietOptions("transpose"))
	require.NoError(t, res.Err)

	assert.Equal(t, []string{"Month", "Sales"}, res.Table.Columns)
	require.Len(t, res.Table.Rows, 2)
	assert.Equal(t, models.Row{models.Text("Jan"), models.Number(10)}, res.Table.Rows[0])

	step, ok := findStep(res.Steps, "Orientation")
	require.True(t, ok)
	assert.Equal(t, "Transposed block based on instructions.", step.Details)
	require.Len(t, res.Blocks, 1)
	assert.True(t, res.Blocks[0].Transposed)
}

func collidingQuarters(t *testing.T) []byte {
	return testutil.WorkbookBytes(t,
		testutil.Sheet{Name: "Q1", Rows: [][]interface{}{
			{"Region", "Sales"},
			{"East", 100},
		}},
		testutil.Sheet{Name: "Q2", Rows: [][]interface{}{
			{"Region", "Sales", "Revenue"},
			{"West", 1, 2},
		}},
	)
}

func TestFlattenDuplicateLabelIsFatal(t *testing.T) {
	res := Flatten(collidingQuarters(t), quietOptions("align revenue with sales"))

	require.Error(t, res.Err)
	assert.False(t, res.Partial)
	assert.True(t, res.Table.Empty())
	assert.Empty(t, res.Blocks)

	var pe *ProcessingError
	require.ErrorAs(t, res.Err, &pe)
	assert.Equal(t, "flatten", pe.Stage)
	assert.Equal(t, "Q2", pe.SheetName)

	var dup *merge.DuplicateLabelError
	require.ErrorAs(t, res.Err, &dup)
	assert.Equal(t, "Sales", dup.Label)
}

func TestFlattenRepeatedHeaderIsFatal(t *testing.T) {
	data := testutil.WorkbookBytes(t,
		testutil.Sheet{Name: "Good", Rows: [][]interface{}{
			{"Region", "Revenue"},
			{"East", 100},
		}},
		testutil.Sheet{Name: "Notes", Rows: [][]interface{}{
			{"Item", "Note", "Note"},
			{"pen", "blue", "cheap"},
		}},
	)

	res := Flatten(data, quietOptions(""))
	require.Error(t, res.Err)
	assert.True(t, res.Table.Empty())

	var dup *merge.DuplicateLabelError
	require.ErrorAs(t, res.Err, &dup)
	assert.Equal(t, "Notes", dup.Sheet)
	assert.Equal(t, "Note", dup.Label)

	opts := quietOptions("")
	opts.KeepPartial = true
	res = Flatten(data, opts)
	require.Error(t, res.Err)
	assert.True(t, res.Partial)
	assert.Equal(t, []string{"Region", "Revenue"}, res.Table.Columns)
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, "Good", res.Blocks[0].Sheet)
}

func TestFlattenKeepPartial(t *testing.T) {
	opts := quietOptions("align revenue with sales")
	opts.KeepPartial = true

	res := Flatten(collidingQuarters(t), opts)

	require.Error(t, res.Err)
	assert.True(t, res.Partial)
	assert.Equal(t, []string{"Region", "Sales"}, res.Table.Columns)
	require.Len(t, res.Table.Rows, 1)
	assert.Equal(t, "East", res.Table.Rows[0][0].String())

	require.Len(t, res.Blocks, 1)
	assert.Equal(t, "Q1", res.Blocks[0].Sheet)

	last := res.Steps[len(res.Steps)-1]
	assert.Equal(t, "Partial Result", last.Step)
	assert.Equal(t, models.StatusWarning, last.Status)
	assert.Equal(t, 1, trace.Count(res.Steps, models.StatusError))
}

func TestFlattenSynonyms(t *testing.T) {
	opts := quietOptions("")
	opts.SynonymSets = merge.DefaultSynonyms

	res := Flatten(quarters(t), opts)
	require.NoError(t, res.Err)

	assert.Equal(t, []string{"Region", "Sales"}, res.Table.Columns)
	assert.Equal(t, []models.Cell{models.Number(100), models.Number(200)}, res.Table.Column("Sales"))
	assert.Equal(t, []merge.SynonymMerge{{From: "Revenue", Into: "Sales"}}, res.Synonyms)

	step, ok := findStep(res.Steps, "Synonym Alignment")
	require.True(t, ok)
	assert.Equal(t, "Merged 'Revenue' into 'Sales'.", step.Details)
}

func TestFlattenInvalidOptions(t *testing.T) {
	opts := quietOptions("")
	opts.MatchCutoff = 2

	res := Flatten(quarters(t), opts)
	require.Error(t, res.Err)

	var pe *ProcessingError
	require.ErrorAs(t, res.Err, &pe)
	assert.Equal(t, "options", pe.Stage)
}

func TestFlattenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quarters.xlsx")
	require.NoError(t, os.WriteFile(path, quarters(t), 0644))

	res := FlattenFile(path, quietOptions("align sales with revenue"))
	require.NoError(t, res.Err)
	assert.Len(t, res.Table.Rows, 2)

	res = FlattenFile(filepath.Join(t.TempDir(), "missing.xlsx"), quietOptions(""))
	assert.ErrorIs(t, res.Err, ErrFileNotFound)
}

func TestFlattenWorkbook(t *testing.T) {
	wb := &models.Workbook{
		Name: "inline",
		Sheets: []models.Sheet{{
			Name: "Data",
			Rows: []models.Row{
				{models.Text("k"), models.Text("v")},
				{models.Text("a"), models.Number(1)},
			},
		}},
	}

	res := FlattenWorkbook(wb, quietOptions(""))
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"k", "v"}, res.Table.Columns)

	res = FlattenWorkbook(nil, quietOptions(""))
	assert.Error(t, res.Err)
}

func TestFlattenIsDeterministic(t *testing.T) {
	data := quarters(t)
	first := Flatten(data, quietOptions("align sales with revenue"))
	second := Flatten(data, quietOptions("align sales with revenue"))

	assert.Equal(t, first.Steps, second.Steps)
	assert.Equal(t, first.Table, second.Table)
	assert.NotEqual(t, first.RunID, second.RunID)
}
