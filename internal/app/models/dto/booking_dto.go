package dto

import "time"

// BookSlotRequest claims a slot on a booth
type BookSlotRequest struct {
	SlotAt time.Time `json:"slotAt" binding:"required" example:"2025-05-12T10:30:00Z"`
}

// AppointmentResponse is the read view of an appointment
type AppointmentResponse struct {
	ID          int64     `json:"id"`
	Reference   string    `json:"reference"`
	StudentID   int64     `json:"studentId"`
	StudentName string    `json:"studentName"`
	CompanyID   int64     `json:"companyId"`
	CompanyName string    `json:"companyName"`
	JobFairID   int64     `json:"jobFairId"`
	BoothID     int64     `json:"boothId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
