package models

// Sheet is a named grid of cells. Rows may be ragged; missing cells are null.
type Sheet struct {
	// Name is the sheet name as shown in the workbook.
	Name string `json:"name"`
	// Rows holds the sheet rows from row 1 downward.
	Rows []Row `json:"rows,omitempty"`
}

