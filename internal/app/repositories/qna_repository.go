package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/pkg/apperrors"
)

// QnaRepository handles database operations for Q&A sessions and their
// questions.
type QnaRepository struct {
	db *pgxpool.Pool
}

// NewQnaRepository creates a new QnaRepository
func NewQnaRepository(db *pgxpool.Pool) *QnaRepository {
	return &QnaRepository{db: db}
}

// CreateSession inserts a new session in the scheduled state
func (r *QnaRepository) CreateSession(ctx context.Context, session *models.QnaSession) (int64, error) {
	query := `
		INSERT INTO qna_sessions (recruiter_id, recruiter_name, company_id, topic, scheduled_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		session.RecruiterID,
		session.RecruiterName,
		session.CompanyID,
		session.Topic,
		session.ScheduledAt,
		session.Status,
	).Scan(&session.ID, &session.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating session: %w", err)
	}

	return session.ID, nil
}

// GetSession retrieves a session by ID
func (r *QnaRepository) GetSession(ctx context.Context, id int64) (*models.QnaSession, error) {
	query := `
		SELECT id, recruiter_id, recruiter_name, company_id, topic, scheduled_at, status, created_at
		FROM qna_sessions
		WHERE id = $1
	`

	var session models.QnaSession
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.RecruiterID,
		&session.RecruiterName,
		&session.CompanyID,
		&session.Topic,
		&session.ScheduledAt,
		&session.Status,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}

	return &session, nil
}

// GetAllSessions retrieves sessions, optionally filtered by recruiter,
// soonest first.
func (r *QnaRepository) GetAllSessions(ctx context.Context, recruiterID *int64) ([]models.QnaSession, error) {
	query := `
		SELECT id, recruiter_id, recruiter_name, company_id, topic, scheduled_at, status, created_at
		FROM qna_sessions
	`
	args := []interface{}{}
	if recruiterID != nil {
		query += ` WHERE recruiter_id = $1`
		args = append(args, *recruiterID)
	}
	query += ` ORDER BY scheduled_at ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.QnaSession
	for rows.Next() {
		var session models.QnaSession
		if err := rows.Scan(
			&session.ID,
			&session.RecruiterID,
			&session.RecruiterName,
			&session.CompanyID,
			&session.Topic,
			&session.ScheduledAt,
			&session.Status,
			&session.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}

	if sessions == nil {
		sessions = []models.QnaSession{}
	}

	return sessions, nil
}

// AdvanceSessionStatus moves a session from one status to the next with a
// compare-and-set. A false return means the session was not in the expected
// status at commit time, so a concurrent advance already happened.
func (r *QnaRepository) AdvanceSessionStatus(ctx context.Context, id int64, from, to models.SessionStatus) (bool, error) {
	query := `
		UPDATE qna_sessions
		SET status = $1
		WHERE id = $2 AND status = $3
	`

	tag, err := r.db.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("error advancing session status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// CreateQuestion inserts a new unanswered question
func (r *QnaRepository) CreateQuestion(ctx context.Context, question *models.Question) (int64, error) {
	query := `
		INSERT INTO qna_questions (session_id, student_id, student_name, question_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, asked_at
	`

	err := r.db.QueryRow(ctx, query,
		question.SessionID,
		question.StudentID,
		question.StudentName,
		question.Text,
	).Scan(&question.ID, &question.AskedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating question: %w", err)
	}

	return question.ID, nil
}

// GetQuestion retrieves a question by ID
func (r *QnaRepository) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	query := `
		SELECT id, session_id, student_id, student_name, question_text, asked_at, is_answered, answer_text
		FROM qna_questions
		WHERE id = $1
	`

	var question models.Question
	err := r.db.QueryRow(ctx, query, id).Scan(
		&question.ID,
		&question.SessionID,
		&question.StudentID,
		&question.StudentName,
		&question.Text,
		&question.AskedAt,
		&question.IsAnswered,
		&question.AnswerText,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("error retrieving question: %w", err)
	}

	return &question, nil
}

// AnswerQuestion publishes the answer with a write-once guard: the update
// only lands while is_answered is still false, and sets both fields in one
// statement. A false return means the question was already answered.
func (r *QnaRepository) AnswerQuestion(ctx context.Context, questionID int64, answerText string) (bool, error) {
	query := `
		UPDATE qna_questions
		SET is_answered = TRUE, answer_text = $1
		WHERE id = $2 AND is_answered = FALSE
	`

	tag, err := r.db.Exec(ctx, query, answerText, questionID)
	if err != nil {
		return false, fmt.Errorf("error answering question: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListQuestions returns a session's questions, optionally filtered by
// answered state. Ordering is per view: the guest transcript and the host
// pending queue read chronologically, the host's answered review list reads
// most recent first.
func (r *QnaRepository) ListQuestions(ctx context.Context, sessionID int64, answered *bool, newestFirst bool) ([]models.Question, error) {
	query := `
		SELECT id, session_id, student_id, student_name, question_text, asked_at, is_answered, answer_text
		FROM qna_questions
		WHERE session_id = $1
	`
	args := []interface{}{sessionID}
	if answered != nil {
		query += ` AND is_answered = $2`
		args = append(args, *answered)
	}
	if newestFirst {
		query += ` ORDER BY asked_at DESC`
	} else {
		query += ` ORDER BY asked_at ASC`
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var question models.Question
		if err := rows.Scan(
			&question.ID,
			&question.SessionID,
			&question.StudentID,
			&question.StudentName,
			&question.Text,
			&question.AskedAt,
			&question.IsAnswered,
			&question.AnswerText,
		); err != nil {
			return nil, fmt.Errorf("error scanning question row: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question rows: %w", err)
	}

	if questions == nil {
		questions = []models.Question{}
	}

	return questions, nil
}
