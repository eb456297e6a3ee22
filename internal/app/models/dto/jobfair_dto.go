package dto

import "time"

// CreateJobFairRequest is the payload for creating a job fair
type CreateJobFairRequest struct {
	Title       string    `json:"title" binding:"required" example:"Spring Tech Fair"`
	Description string    `json:"description" example:"Annual on-campus recruiting fair"`
	StartsAt    time.Time `json:"startsAt" binding:"required" example:"2025-05-12T09:00:00Z"`
	EndsAt      time.Time `json:"endsAt" binding:"required" example:"2025-05-12T17:00:00Z"`
}

// JobFairResponse is the read view of a job fair, status derived per read
type JobFairResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	OrganizerID int64     `json:"organizerId"`
	Status      string    `json:"status" example:"UPCOMING"`
	CreatedAt   time.Time `json:"createdAt"`
}

// JobFairListResponse is a paginated list of fairs
type JobFairListResponse struct {
	JobFairs       []JobFairResponse `json:"jobFairs"`
	PaginationInfo PaginationInfo    `json:"pagination"`
}

// JobFairFilterRequest carries list filters
type JobFairFilterRequest struct {
	OrganizerID *int64
	Search      *string
	Page        int
	PageSize    int
}
