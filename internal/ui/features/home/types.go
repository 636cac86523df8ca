// Package home provides the SQL sandbox page of the UI.
package home

// Signals is the datastar signal set of the home page.
type Signals struct {
	Database string `json:"database"`
	SQL      string `json:"sql"`
}
