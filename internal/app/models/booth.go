package models

import "time"

// Booth represents a company's presence within a job fair. Its slot ledger
// lives in the booth_slots table, one row per open instant.
type Booth struct {
	ID          int64     `json:"id"`
	JobFairID   int64     `json:"jobFairId"`
	CompanyID   int64     `json:"companyId"`
	CompanyName string    `json:"companyName"`
	CreatedAt   time.Time `json:"createdAt"`

	// AvailableSlots is populated on detail reads, ascending.
	AvailableSlots []time.Time `json:"availableSlots,omitempty"`
}
