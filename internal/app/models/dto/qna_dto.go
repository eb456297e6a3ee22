package dto

import "time"

// CreateSessionRequest schedules a new Q&A session
type CreateSessionRequest struct {
	Topic       string    `json:"topic" binding:"required" example:"Life as a backend engineer"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required" example:"2025-05-13T15:00:00Z"`
}

// AdvanceSessionRequest moves a session to its next status
type AdvanceSessionRequest struct {
	Target string `json:"target" binding:"required,oneof=live ended" example:"live"`
}

// AskQuestionRequest submits a guest question to a live session
type AskQuestionRequest struct {
	Text string `json:"text" binding:"required" example:"Do you hire new grads?"`
}

// AnswerQuestionRequest publishes the host's answer
type AnswerQuestionRequest struct {
	AnswerText string `json:"answerText" binding:"required" example:"Yes, every spring."`
}

// SessionResponse is the read view of a Q&A session
type SessionResponse struct {
	ID            int64     `json:"id"`
	RecruiterID   int64     `json:"recruiterId"`
	RecruiterName string    `json:"recruiterName"`
	CompanyID     int64     `json:"companyId"`
	Topic         string    `json:"topic"`
	ScheduledAt   time.Time `json:"scheduledAt"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// QuestionResponse is the read view of a question
type QuestionResponse struct {
	ID          int64     `json:"id"`
	SessionID   int64     `json:"sessionId"`
	StudentID   int64     `json:"studentId"`
	StudentName string    `json:"studentName"`
	Text        string    `json:"text"`
	AskedAt     time.Time `json:"askedAt"`
	IsAnswered  bool      `json:"isAnswered"`
	AnswerText  *string   `json:"answerText,omitempty"`
}

// SessionSnapshot is the full state pushed to session subscribers: the
// guest transcript chronological, the host's answered review list most
// recent first, pending questions chronological.
type SessionSnapshot struct {
	Session    SessionResponse    `json:"session"`
	Transcript []QuestionResponse `json:"transcript"`
	Pending    []QuestionResponse `json:"pending"`
	Answered   []QuestionResponse `json:"answered"`
}

// LedgerSnapshot is the full slot ledger pushed to booth subscribers
type LedgerSnapshot struct {
	BoothID        int64       `json:"boothId"`
	AvailableSlots []time.Time `json:"availableSlots"`
}
