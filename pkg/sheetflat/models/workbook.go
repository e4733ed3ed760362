package models

// Workbook is an ordered, read-only collection of sheets.
type Workbook struct {
	// Name is the workbook file name (no path), empty for in-memory input.
	Name string `json:"name,omitempty"`
	// Sheets holds the sheets in workbook order.
	Sheets []Sheet `json:"sheets"`
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}
