package model

import "time"

// Redemption records a spend of accumulated merit. Immutable once written.
type Redemption struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	RecordedBy string    `json:"recorded_by"`
	Value      int       `json:"value"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`

	// RecorderName is the display name of the authorizing actor.
	RecorderName string `json:"recorder_name,omitempty"`
}
