package domain

import "time"

// Contract is a single subscription line item after dataset preparation.
// End is nil while the contract is still running.
type Contract struct {
	CustomerID  int          `json:"customer_id"`
	Category    string       `json:"category"`
	Product     string       `json:"product"`
	Group       ProductGroup `json:"group"`
	Start       time.Time    `json:"start"`
	End         *time.Time   `json:"end,omitempty"`
	Salesperson string       `json:"salesperson,omitempty"`
	Row         int          `json:"-"` // original spreadsheet row, tie-break for same-day starts
}

// Ended reports whether the contract has a termination date.
func (c Contract) Ended() bool {
	return c.End != nil
}

// ActiveAt reports whether the contract is running at the given instant:
// it began strictly before and has not ended before it.
func (c Contract) ActiveAt(at time.Time) bool {
	return c.Start.Before(at) && (c.End == nil || !c.End.Before(at))
}
