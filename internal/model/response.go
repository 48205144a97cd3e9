package model

import "time"

// Outcome describes how a deferred greeting ended.
type Outcome string

const (
	OutcomeServed    Outcome = "served"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeRejected  Outcome = "rejected"
)

// ResponseRecord is one journal entry for a greeting request.
// This is a pure domain model with no database-specific dependencies or tags.
type ResponseRecord struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	Outcome   Outcome   `json:"outcome"`
	DelayMs   int64     `json:"delay_ms"`
	CreatedAt time.Time `json:"created_at"`
}
