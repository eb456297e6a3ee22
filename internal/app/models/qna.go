package models

import "time"

// SessionStatus represents the state of a live Q&A session
type SessionStatus string

// Session statuses. Transitions are one-directional:
// scheduled -> live -> ended.
const (
	SessionScheduled SessionStatus = "scheduled"
	SessionLive      SessionStatus = "live"
	SessionEnded     SessionStatus = "ended"
)

// NextSessionStatus returns the only legal successor of a status, or empty
// when the status is terminal.
func NextSessionStatus(s SessionStatus) SessionStatus {
	switch s {
	case SessionScheduled:
		return SessionLive
	case SessionLive:
		return SessionEnded
	default:
		return ""
	}
}

// QnaSession represents a live Q&A session hosted by a recruiter
type QnaSession struct {
	ID            int64         `json:"id"`
	RecruiterID   int64         `json:"recruiterId"`
	RecruiterName string        `json:"recruiterName"`
	CompanyID     int64         `json:"companyId"`
	Topic         string        `json:"topic"`
	ScheduledAt   time.Time     `json:"scheduledAt"`
	Status        SessionStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Question is a child of a QnaSession. The answer is write-once: the host
// sets isAnswered and answerText together and the question is never mutated
// again.
type Question struct {
	ID          int64     `json:"id"`
	SessionID   int64     `json:"sessionId"`
	StudentID   int64     `json:"studentId"`
	StudentName string    `json:"studentName"`
	Text        string    `json:"text"`
	AskedAt     time.Time `json:"askedAt"`
	IsAnswered  bool      `json:"isAnswered"`
	AnswerText  *string   `json:"answerText,omitempty"`
}
