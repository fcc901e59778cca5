package model

import "time"

// PointStatus is the lifecycle state of a point entry. Pending entries may be
// approved or rejected exactly once; both outcomes are terminal.
type PointStatus string

const (
	PointPending  PointStatus = "pending"
	PointApproved PointStatus = "approved"
	PointRejected PointStatus = "rejected"
)

// Point is one merit (positive value) or demerit (negative value) entry.
// Only approved entries count toward a receiver's balance.
type Point struct {
	ID             int64       `json:"id"`
	GiverID        string      `json:"giver_id"`
	ReceiverID     string      `json:"receiver_id"`
	ApproverID     string      `json:"approver_id"`
	Value          int         `json:"value"`
	Reason         string      `json:"reason"`
	GivenAt        time.Time   `json:"given_at"`
	CreatedAt      time.Time   `json:"created_at"`
	Status         PointStatus `json:"status"`
	ApprovedAt     *time.Time  `json:"approved_at"`
	RejectedAt     *time.Time  `json:"rejected_at"`
	RejectedReason *string     `json:"rejected_reason"`

	// Display names resolved from the actors table; fall back to the raw
	// id when the account no longer exists.
	GiverName    string `json:"giver_name,omitempty"`
	ReceiverName string `json:"receiver_name,omitempty"`
}

// PointListItem is the compact history row shown to an entry's owner.
type PointListItem struct {
	ID             int64       `json:"id"`
	Status         PointStatus `json:"status"`
	RejectedReason *string     `json:"rejected_reason"`
	CreatedAt      time.Time   `json:"created_at"`
}

// PendingPoint is the full view presented to a designated approver.
type PendingPoint struct {
	ID       int64     `json:"id"`
	Value    int       `json:"value"`
	Reason   string    `json:"reason"`
	GivenAt  time.Time `json:"given_at"`
	Giver    string    `json:"giver"`
	Receiver string    `json:"receiver"`
}

// PointCounts summarizes an actor's entries by status.
type PointCounts struct {
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

// PointSummary aggregates a receiver's approved entries and redemptions.
// Demerit is a negative number (sum of negative values).
type PointSummary struct {
	Merit    int `json:"merit"`
	Demerit  int `json:"demerit"`
	Redeemed int `json:"redeemed"`
}

// Spendable returns the balance available for redemption.
func (s PointSummary) Spendable() int {
	return s.Merit + s.Demerit - s.Redeemed
}
