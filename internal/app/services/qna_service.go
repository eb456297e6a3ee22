package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/app/models/dto"
	"github.com/umut/fairline/internal/pkg/apperrors"
	"github.com/umut/fairline/internal/pkg/realtime"
)

// QnaService defines the interface for live Q&A session operations
type QnaService interface {
	CreateSession(ctx context.Context, principal models.Principal, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionID int64) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context, recruiterID *int64) ([]dto.SessionResponse, error)
	AdvanceSession(ctx context.Context, principal models.Principal, sessionID int64, target models.SessionStatus) (*dto.SessionResponse, error)
	AskQuestion(ctx context.Context, principal models.Principal, sessionID int64, text string) (*dto.QuestionResponse, error)
	AnswerQuestion(ctx context.Context, principal models.Principal, sessionID, questionID int64, answerText string) (*dto.QuestionResponse, error)
	ListQuestions(ctx context.Context, sessionID int64, answered *bool, newestFirst bool) ([]dto.QuestionResponse, error)
	Snapshot(ctx context.Context, sessionID int64) (interface{}, error)
}

// qnaServiceImpl implements QnaService
type qnaServiceImpl struct {
	qnaStore  QnaStore
	publisher realtime.Publisher
	opTimeout time.Duration
	logger    zerolog.Logger
}

// NewQnaService creates a new QnaService
func NewQnaService(qnaStore QnaStore, publisher realtime.Publisher, opTimeout time.Duration, logger zerolog.Logger) QnaService {
	return &qnaServiceImpl{
		qnaStore:  qnaStore,
		publisher: publisher,
		opTimeout: opTimeout,
		logger:    logger,
	}
}

// CreateSession schedules a new session hosted by the calling recruiter
func (s *qnaServiceImpl) CreateSession(ctx context.Context, principal models.Principal, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	if !principal.IsRecruiter() {
		return nil, apperrors.NewForbiddenError("only recruiters may host sessions")
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, apperrors.NewInvalidArgumentError("topic must not be empty")
	}

	session := &models.QnaSession{
		RecruiterID:   principal.ID,
		RecruiterName: principal.Name,
		CompanyID:     principal.ID,
		Topic:         topic,
		ScheduledAt:   req.ScheduledAt,
		Status:        models.SessionScheduled,
	}

	if _, err := s.qnaStore.CreateSession(ctx, session); err != nil {
		return nil, mapStoreErr(err)
	}

	s.logger.Info().
		Int64("sessionID", session.ID).
		Int64("hostID", principal.ID).
		Msg("Q&A session created")

	return toSessionResponse(session), nil
}

// GetSession retrieves a session by ID
func (s *qnaServiceImpl) GetSession(ctx context.Context, sessionID int64) (*dto.SessionResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	session, err := s.qnaStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return toSessionResponse(session), nil
}

// ListSessions retrieves sessions, optionally for one recruiter
func (s *qnaServiceImpl) ListSessions(ctx context.Context, recruiterID *int64) ([]dto.SessionResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	sessions, err := s.qnaStore.GetAllSessions(ctx, recruiterID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	responses := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, *toSessionResponse(&sessions[i]))
	}

	return responses, nil
}

// AdvanceSession moves a session one step forward. Statuses only ever move
// scheduled -> live -> ended; any other requested edge is rejected with
// ErrInvalidTransition, including skips and regressions. The update is a
// compare-and-set so two concurrent advances cannot both land.
func (s *qnaServiceImpl) AdvanceSession(ctx context.Context, principal models.Principal, sessionID int64, target models.SessionStatus) (*dto.SessionResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	session, err := s.qnaStore.GetSession(ctx, sessionID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, apperrors.NewForbiddenError("not authorized to manage this session")
		}
		return nil, mapStoreErr(err)
	}

	if session.RecruiterID != principal.ID {
		return nil, apperrors.NewForbiddenError("not authorized to manage this session")
	}

	if models.NextSessionStatus(session.Status) != target {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			"session cannot move from "+string(session.Status)+" to "+string(target))
	}

	advanced, err := s.qnaStore.AdvanceSessionStatus(ctx, sessionID, session.Status, target)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !advanced {
		// Lost a race with another advance; re-read and report the illegal edge
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			"session status changed concurrently, refresh and retry")
	}

	session.Status = target

	s.logger.Info().
		Int64("sessionID", sessionID).
		Str("status", string(target)).
		Msg("Session advanced")

	s.publishSession(ctx, sessionID)

	return toSessionResponse(session), nil
}

// AskQuestion submits a guest question. The gate is server-side: the
// session must be live at submission time. The check and the insert are not
// one atomic step, so a question racing the host's end transition can land
// in the final transcript; the transcript simply includes it.
func (s *qnaServiceImpl) AskQuestion(ctx context.Context, principal models.Principal, sessionID int64, text string) (*dto.QuestionResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewInvalidArgumentError("question text must not be empty")
	}

	session, err := s.qnaStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if session.Status != models.SessionLive {
		return nil, apperrors.NewCustomError(apperrors.ErrSessionNotLive, "questions are only accepted while the session is live")
	}

	question := &models.Question{
		SessionID:   sessionID,
		StudentID:   principal.ID,
		StudentName: principal.Name,
		Text:        text,
	}

	if _, err := s.qnaStore.CreateQuestion(ctx, question); err != nil {
		return nil, mapStoreErr(err)
	}

	s.logger.Debug().
		Int64("sessionID", sessionID).
		Int64("questionID", question.ID).
		Msg("Question submitted")

	s.publishSession(ctx, sessionID)

	return toQuestionResponse(question), nil
}

// AnswerQuestion publishes the host's answer exactly once. A second answer
// attempt surfaces as ErrAlreadyAnswered no matter how the calls interleave.
func (s *qnaServiceImpl) AnswerQuestion(ctx context.Context, principal models.Principal, sessionID, questionID int64, answerText string) (*dto.QuestionResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	answerText = strings.TrimSpace(answerText)
	if answerText == "" {
		return nil, apperrors.NewInvalidArgumentError("answer text must not be empty")
	}

	session, err := s.qnaStore.GetSession(ctx, sessionID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, apperrors.NewForbiddenError("not authorized to answer in this session")
		}
		return nil, mapStoreErr(err)
	}

	if session.RecruiterID != principal.ID {
		return nil, apperrors.NewForbiddenError("not authorized to answer in this session")
	}

	question, err := s.qnaStore.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if question.SessionID != sessionID {
		return nil, mapStoreErr(apperrors.ErrQuestionNotFound)
	}

	answered, err := s.qnaStore.AnswerQuestion(ctx, questionID, answerText)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !answered {
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadyAnswered, "question has already been answered")
	}

	question.IsAnswered = true
	question.AnswerText = &answerText

	s.logger.Info().
		Int64("sessionID", sessionID).
		Int64("questionID", questionID).
		Msg("Question answered")

	s.publishSession(ctx, sessionID)

	return toQuestionResponse(question), nil
}

// ListQuestions returns a session's questions with the per-view ordering
func (s *qnaServiceImpl) ListQuestions(ctx context.Context, sessionID int64, answered *bool, newestFirst bool) ([]dto.QuestionResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	questions, err := s.qnaStore.ListQuestions(ctx, sessionID, answered, newestFirst)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	responses := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		responses = append(responses, *toQuestionResponse(&questions[i]))
	}

	return responses, nil
}

// Snapshot implements realtime.SnapshotProvider for qna topics. The payload
// carries every view of the session so a resubscribing client starts
// complete: chronological transcript, chronological pending queue, and the
// answered list newest first.
func (s *qnaServiceImpl) Snapshot(ctx context.Context, sessionID int64) (interface{}, error) {
	session, err := s.qnaStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	answered := true
	unanswered := false

	transcript, err := s.qnaStore.ListQuestions(ctx, sessionID, &answered, false)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	pending, err := s.qnaStore.ListQuestions(ctx, sessionID, &unanswered, false)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	reviewed, err := s.qnaStore.ListQuestions(ctx, sessionID, &answered, true)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	snapshot := &dto.SessionSnapshot{
		Session:    *toSessionResponse(session),
		Transcript: toQuestionResponses(transcript),
		Pending:    toQuestionResponses(pending),
		Answered:   toQuestionResponses(reviewed),
	}

	return snapshot, nil
}

// publishSession pushes the full current session snapshot to subscribers.
// The write has already committed; a failed push only delays observers
// until the next event or their reconnect.
func (s *qnaServiceImpl) publishSession(ctx context.Context, sessionID int64) {
	if s.publisher == nil {
		return
	}

	snapshot, err := s.Snapshot(ctx, sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("sessionID", sessionID).Msg("Failed to build session snapshot")
		return
	}

	s.publisher.Publish(realtime.QnaTopic(sessionID), "session", snapshot)
}

func toSessionResponse(session *models.QnaSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:            session.ID,
		RecruiterID:   session.RecruiterID,
		RecruiterName: session.RecruiterName,
		CompanyID:     session.CompanyID,
		Topic:         session.Topic,
		ScheduledAt:   session.ScheduledAt,
		Status:        string(session.Status),
		CreatedAt:     session.CreatedAt,
	}
}

func toQuestionResponse(question *models.Question) *dto.QuestionResponse {
	return &dto.QuestionResponse{
		ID:          question.ID,
		SessionID:   question.SessionID,
		StudentID:   question.StudentID,
		StudentName: question.StudentName,
		Text:        question.Text,
		AskedAt:     question.AskedAt,
		IsAnswered:  question.IsAnswered,
		AnswerText:  question.AnswerText,
	}
}

func toQuestionResponses(questions []models.Question) []dto.QuestionResponse {
	responses := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		responses = append(responses, *toQuestionResponse(&questions[i]))
	}
	return responses
}
