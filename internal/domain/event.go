package domain

import "time"

// ChurnReason tags why a contract end counted as a true churn.
type ChurnReason string

const (
	// ChurnReasonNoFollowOn: no later contract exists in the same group.
	ChurnReasonNoFollowOn ChurnReason = "no-follow-on"
	// ChurnReasonLongGap: a follow-on contract exists but starts after the
	// grace period expired.
	ChurnReasonLongGap ChurnReason = "long-gap"
)

// ChurnEvent is a contract termination classified as a genuine cancellation.
// Produced only for non-reseller customers.
type ChurnEvent struct {
	CustomerID int          `json:"customer_id"`
	Group      ProductGroup `json:"group"`
	ChurnDate  time.Time    `json:"churn_date"`
	Reason     ChurnReason  `json:"reason"`
}

// ReactivationEvent is a contract termination followed by a new contract in
// the same group within the grace period. Mutually exclusive with ChurnEvent
// for the same contract end.
type ReactivationEvent struct {
	CustomerID int          `json:"customer_id"`
	Group      ProductGroup `json:"group"`
	End        time.Time    `json:"end"`
	NextStart  time.Time    `json:"next_start"`
	GapDays    int          `json:"gap_days"`
}
