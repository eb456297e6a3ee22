package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/pkg/apperrors"
	"github.com/umut/fairline/internal/pkg/dberrors"
)

// AppointmentRepository handles database operations for appointments
type AppointmentRepository struct {
	db *pgxpool.Pool
}

// NewAppointmentRepository creates a new AppointmentRepository
func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// CreateTx inserts a new appointment inside the caller's transaction. The
// uq_appointments_active_slot partial unique index backs up the ledger
// claim: even if two claims somehow both observed the slot, only one insert
// commits. Cancelled rows are outside the index, so a re-opened instant can
// be booked again.
func (r *AppointmentRepository) CreateTx(ctx context.Context, tx pgx.Tx, appt *models.Appointment) (int64, error) {
	query := `
		INSERT INTO appointments (
			reference, student_id, student_name, company_id, company_name,
			job_fair_id, booth_id, scheduled_at, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		appt.Reference,
		appt.StudentID,
		appt.StudentName,
		appt.CompanyID,
		appt.CompanyName,
		appt.JobFairID,
		appt.BoothID,
		appt.ScheduledAt,
		appt.Status,
	).Scan(&appt.ID, &appt.CreatedAt)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrSlotTaken
		}
		return 0, fmt.Errorf("error creating appointment: %w", err)
	}

	return appt.ID, nil
}

// GetByID retrieves an appointment by ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*models.Appointment, error) {
	query := `
		SELECT id, reference, student_id, student_name, company_id, company_name,
			job_fair_id, booth_id, scheduled_at, status, created_at
		FROM appointments
		WHERE id = $1
	`

	var appt models.Appointment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&appt.ID,
		&appt.Reference,
		&appt.StudentID,
		&appt.StudentName,
		&appt.CompanyID,
		&appt.CompanyName,
		&appt.JobFairID,
		&appt.BoothID,
		&appt.ScheduledAt,
		&appt.Status,
		&appt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("error retrieving appointment: %w", err)
	}

	return &appt, nil
}

// GetAll retrieves appointments filtered by student, company or fair,
// soonest first.
func (r *AppointmentRepository) GetAll(ctx context.Context, studentID, companyID, fairID *int64) ([]models.Appointment, error) {
	builder := squirrel.Select(
		"id", "reference", "student_id", "student_name", "company_id", "company_name",
		"job_fair_id", "booth_id", "scheduled_at", "status", "created_at",
	).
		From("appointments").
		PlaceholderFormat(squirrel.Dollar).
		OrderBy("scheduled_at ASC")

	if studentID != nil {
		builder = builder.Where(squirrel.Eq{"student_id": *studentID})
	}
	if companyID != nil {
		builder = builder.Where(squirrel.Eq{"company_id": *companyID})
	}
	if fairID != nil {
		builder = builder.Where(squirrel.Eq{"job_fair_id": *fairID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building appointment query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing appointments: %w", err)
	}
	defer rows.Close()

	var appts []models.Appointment
	for rows.Next() {
		var appt models.Appointment
		if err := rows.Scan(
			&appt.ID,
			&appt.Reference,
			&appt.StudentID,
			&appt.StudentName,
			&appt.CompanyID,
			&appt.CompanyName,
			&appt.JobFairID,
			&appt.BoothID,
			&appt.ScheduledAt,
			&appt.Status,
			&appt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning appointment row: %w", err)
		}
		appts = append(appts, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointment rows: %w", err)
	}

	if appts == nil {
		appts = []models.Appointment{}
	}

	return appts, nil
}

// UpdateStatus moves an appointment from one status to another with a
// compare-and-set, so a concurrent update cannot be silently overwritten.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, from, to models.AppointmentStatus) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $1
		WHERE id = $2 AND status = $3
	`

	tag, err := r.db.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("error updating appointment status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
