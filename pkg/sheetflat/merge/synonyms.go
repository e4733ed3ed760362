package merge

import (
	"strings"

	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/models"
)

// SynonymSet is a group of labels treated as naming the same column.
// Labels compare case-insensitively.
type SynonymSet []string

// DefaultSynonyms holds common business synonyms.
var DefaultSynonyms = []SynonymSet{
	{"revenue", "sales", "amount", "total"},
	{"cost", "expense", "expenditure"},
	{"profit", "net income", "margin"},
	{"region", "area", "zone", "location"},
	{"date", "period", "time", "month", "year"},
}

// SynonymMerge records one column folded into another.
type SynonymMerge struct {
	From string `json:"from"`
	Into string `json:"into"`
}

// ApplySynonyms folds columns whose labels share a synonym set into the first
// such column of the table. A column is folded only when no row holds a value
// in both columns, which keeps columns that came from the same block apart.
func ApplySynonyms(t models.Table, sets []SynonymSet) (models.Table, []SynonymMerge) {
	cols := make([][]models.Cell, len(t.Columns))
	for i := range t.Columns {
		cols[i] = make([]models.Cell, len(t.Rows))
		for r, row := range t.Rows {
			cols[i][r] = row.At(i)
		}
	}
	labels := append([]string(nil), t.Columns...)
	removed := make([]bool, len(labels))

	var merges []SynonymMerge
	for _, set := range sets {
		members := make(map[string]bool, len(set))
		for _, s := range set {
			members[strings.ToLower(strings.TrimSpace(s))] = true
		}

		into := -1
		for i, l := range labels {
			if removed[i] || !members[strings.ToLower(strings.TrimSpace(l))] {
				continue
			}
			if into < 0 {
				into = i
				continue
			}
			if overlaps(cols[into], cols[i]) {
				continue
			}
			for r, c := range cols[i] {
				if !c.IsNull() {
					cols[into][r] = c
				}
			}
			removed[i] = true
			merges = append(merges, SynonymMerge{From: l, Into: labels[into]})
		}
	}

	if len(merges) == 0 {
		return t, nil
	}

	out := models.Table{Rows: make([]models.Row, len(t.Rows))}
	var keep []int
	for i, l := range labels {
		if !removed[i] {
			keep = append(keep, i)
			out.Columns = append(out.Columns, l)
		}
	}
	for r := range t.Rows {
		row := make(models.Row, len(keep))
		for j, i := range keep {
			row[j] = cols[i][r]
		}
		out.Rows[r] = row
	}
	return out, merges
}

// overlaps reports whether a and b both hold a value in some row.
func overlaps(a, b []models.Cell) bool {
	for r := range a {
		if !a[r].IsNull() && !b[r].IsNull() {
			return true
		}
	}
	return false
}
