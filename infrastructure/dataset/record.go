package dataset

import (
	"fmt"
	"strings"
)

// Canonical column names of the customer dataset. The spreadsheets come out
// of the German CRM export, so the headers are German.
const (
	ColSubscription = "Abo"
	ColCategory     = "Produktkategorie"
	ColProduct      = "Produkt"
	ColStart        = "Beginn"
	ColEnd          = "Ende"
	ColCustomerID   = "Kundennummer"
	ColSalesperson  = "Zugewiesen an"
)

// RequiredColumns lists the columns a dataset must carry. ColSalesperson is
// optional; without it the sales performance tables stay empty.
func RequiredColumns() []string {
	return []string{
		ColSubscription,
		ColCategory,
		ColProduct,
		ColStart,
		ColEnd,
		ColCustomerID,
	}
}

// Record is one raw spreadsheet row. All cells are kept as strings; typing
// and coercion happen during dataset preparation, after group filtering.
type Record struct {
	Row          int
	Subscription string
	Category     string
	Product      string
	Start        string
	End          string
	CustomerID   string
	Salesperson  string
}

// MissingColumnsError reports every required column absent from the header
// row in one error, so the caller can surface the full list at once.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("dataset is missing required columns: %s", strings.Join(e.Columns, ", "))
}
