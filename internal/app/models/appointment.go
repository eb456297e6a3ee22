package models

import "time"

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

// Appointment statuses
const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is created exactly once per successful slot claim. The
// scheduled instant is immutable after creation; there is no reschedule.
type Appointment struct {
	ID          int64             `json:"id"`
	Reference   string            `json:"reference"`
	StudentID   int64             `json:"studentId"`
	StudentName string            `json:"studentName"`
	CompanyID   int64             `json:"companyId"`
	CompanyName string            `json:"companyName"`
	JobFairID   int64             `json:"jobFairId"`
	BoothID     int64             `json:"boothId"`
	ScheduledAt time.Time         `json:"scheduledAt"`
	Status      AppointmentStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
}
