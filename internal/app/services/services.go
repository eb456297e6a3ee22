package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/pkg/apperrors"
)

// The services own the coordination protocol; persistence is behind small
// store interfaces so the protocol can be exercised against fakes.

// TxRunner executes a function inside a single atomic transaction. The
// slot-claim protocol depends on this: ledger removal and appointment
// creation must commit or roll back together.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// UserStore is the persistence surface for accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// JobFairStore is the persistence surface for job fairs
type JobFairStore interface {
	Create(ctx context.Context, fair *models.JobFair) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.JobFair, error)
	GetAll(ctx context.Context, organizerID *int64, search *string, page, pageSize int) ([]models.JobFair, int64, error)
	DeleteCascadeTx(ctx context.Context, tx pgx.Tx, fairID int64) error
}

// BoothStore is the persistence surface for booths and their slot ledgers
type BoothStore interface {
	Create(ctx context.Context, booth *models.Booth) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Booth, error)
	GetAllByFair(ctx context.Context, fairID int64) ([]models.Booth, error)
	AddSlot(ctx context.Context, boothID int64, slotAt time.Time) (bool, error)
	RemoveSlot(ctx context.Context, boothID int64, slotAt time.Time) (bool, error)
	ListSlots(ctx context.Context, boothID int64) ([]time.Time, error)
	ClaimSlotTx(ctx context.Context, tx pgx.Tx, boothID int64, slotAt time.Time) (bool, error)
}

// AppointmentStore is the persistence surface for appointments
type AppointmentStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, appt *models.Appointment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Appointment, error)
	GetAll(ctx context.Context, studentID, companyID, fairID *int64) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.AppointmentStatus) (bool, error)
}

// QnaStore is the persistence surface for Q&A sessions and questions
type QnaStore interface {
	CreateSession(ctx context.Context, session *models.QnaSession) (int64, error)
	GetSession(ctx context.Context, id int64) (*models.QnaSession, error)
	GetAllSessions(ctx context.Context, recruiterID *int64) ([]models.QnaSession, error)
	AdvanceSessionStatus(ctx context.Context, id int64, from, to models.SessionStatus) (bool, error)
	CreateQuestion(ctx context.Context, question *models.Question) (int64, error)
	GetQuestion(ctx context.Context, id int64) (*models.Question, error)
	AnswerQuestion(ctx context.Context, questionID int64, answerText string) (bool, error)
	ListQuestions(ctx context.Context, sessionID int64, answered *bool, newestFirst bool) ([]models.Question, error)
}

// Clock supplies the current instant; injectable so lifecycle derivation is
// testable.
type Clock func() time.Time

// boundCtx applies the configured store operation timeout when the caller
// has not set a tighter one.
func boundCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// mapStoreErr normalizes store failures into the coordinator's error
// taxonomy. Domain sentinels pass through untouched; deadline expiry becomes
// TimedOut; anything else is Unavailable.
func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}

	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		return err
	}

	if apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrFairNotFound,
		apperrors.ErrBoothNotFound,
		apperrors.ErrAppointmentNotFound,
		apperrors.ErrSessionNotFound,
		apperrors.ErrQuestionNotFound,
		apperrors.ErrSlotTaken,
		apperrors.ErrConflict,
		apperrors.ErrPermissionDenied,
		apperrors.ErrInvalidArgument,
		apperrors.ErrSessionNotLive,
		apperrors.ErrInvalidTransition,
		apperrors.ErrAlreadyAnswered,
		apperrors.ErrEmailAlreadyExists,
		apperrors.ErrInvalidCredentials) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewCustomError(apperrors.ErrTimedOut, "store operation timed out")
	}

	return apperrors.NewCustomError(apperrors.ErrUnavailable, err.Error())
}
