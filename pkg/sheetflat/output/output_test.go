package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/models"
	"github.com/xuri/excelize/v2"
)

func sampleTable() models.Table {
	return models.Table{
		Columns: []string{"Region", "Revenue"},
		Rows: []models.Row{
			{models.Text("East"), models.Number(100)},
			{models.Text("West"), models.Null()},
		},
	}
}

func TestSplit(t *testing.T) {
	st := Split(sampleTable())
	require.NotNil(t, st)
	assert.Equal(t, []string{"Region", "Revenue"}, st.Columns)
	assert.Equal(t, []int{0, 1}, st.Index)
	assert.Equal(t, [][]models.Cell{
		{models.Text("East"), models.Number(100)},
		{models.Text("West"), models.Null()},
	}, st.Data)

	assert.Nil(t, Split(models.Table{}))
	assert.Nil(t, Split(models.Table{Columns: []string{"a"}}))
}

func TestToJSON(t *testing.T) {
	res := &sheetflat.Result{
		RunID: "run-1",
		Steps: []models.Step{{Step: "Initialization", Details: "No instructions provided.", Status: models.StatusSuccess}},
		Table: sampleTable(),
	}

	data, err := ToJSON(res, false)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"run_id": "run-1",
		"steps": [{"step": "Initialization", "details": "No instructions provided.", "status": "success"}],
		"data": {
			"columns": ["Region", "Revenue"],
			"index": [0, 1],
			"data": [["East", 100], ["West", ""]]
		}
	}`, string(data))
}

func TestToJSONEmptyTable(t *testing.T) {
	res := &sheetflat.Result{Err: errors.New("load: invalid xlsx format")}

	data, err := ToJSON(res, true)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["data"])
	assert.Equal(t, []interface{}{}, decoded["steps"])
	assert.Equal(t, "load: invalid xlsx format", decoded["error"])
	assert.Contains(t, string(data), "\n  ")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))
	assert.Equal(t, "Region,Revenue\nEast,100\nWest,\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTable(), ""))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheetName}, f.GetSheetList())

	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Region", "Revenue"}, rows[0])
	assert.Equal(t, []string{"East", "100"}, rows[1])
	assert.Equal(t, []string{"West"}, rows[2])
}
