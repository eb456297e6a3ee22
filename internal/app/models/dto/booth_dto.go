package dto

import "time"

// CreateBoothRequest registers a company booth under a fair
type CreateBoothRequest struct {
	CompanyName string `json:"companyName" binding:"required" example:"Acme Corp"`
}

// SlotRequest carries a single ledger instant
type SlotRequest struct {
	SlotAt time.Time `json:"slotAt" binding:"required" example:"2025-05-12T10:30:00Z"`
}

// BoothResponse is the read view of a booth with its current ledger
type BoothResponse struct {
	ID             int64       `json:"id"`
	JobFairID      int64       `json:"jobFairId"`
	CompanyID      int64       `json:"companyId"`
	CompanyName    string      `json:"companyName"`
	AvailableSlots []time.Time `json:"availableSlots"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// SlotMutationResponse reports whether an add/remove changed the ledger
type SlotMutationResponse struct {
	Changed        bool        `json:"changed"`
	AvailableSlots []time.Time `json:"availableSlots"`
}
