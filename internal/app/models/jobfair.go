package models

import "time"

// FairStatus is the display status of a job fair, derived from wall-clock
// time on every read and never persisted.
type FairStatus string

// Fair display statuses
const (
	FairUpcoming FairStatus = "UPCOMING"
	FairLive     FairStatus = "LIVE"
	FairFinished FairStatus = "FINISHED"
)

// JobFair represents a job fair record in the database
type JobFair struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	OrganizerID int64     `json:"organizerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DisplayStatus derives the fair status from the given instant.
func (f *JobFair) DisplayStatus(now time.Time) FairStatus {
	switch {
	case now.Before(f.StartsAt):
		return FairUpcoming
	case now.After(f.EndsAt):
		return FairFinished
	default:
		return FairLive
	}
}
