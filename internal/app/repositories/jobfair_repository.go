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
)

// JobFairRepository handles database operations for job fairs
type JobFairRepository struct {
	db *pgxpool.Pool
}

// NewJobFairRepository creates a new JobFairRepository
func NewJobFairRepository(db *pgxpool.Pool) *JobFairRepository {
	return &JobFairRepository{db: db}
}

// Create inserts a new job fair and returns its generated ID
func (r *JobFairRepository) Create(ctx context.Context, fair *models.JobFair) (int64, error) {
	query := `
		INSERT INTO job_fairs (title, description, starts_at, ends_at, organizer_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		fair.Title,
		fair.Description,
		fair.StartsAt,
		fair.EndsAt,
		fair.OrganizerID,
	).Scan(&fair.ID, &fair.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating job fair: %w", err)
	}

	return fair.ID, nil
}

// GetByID retrieves a job fair by ID
func (r *JobFairRepository) GetByID(ctx context.Context, id int64) (*models.JobFair, error) {
	query := `
		SELECT id, title, description, starts_at, ends_at, organizer_id, created_at
		FROM job_fairs
		WHERE id = $1
	`

	var fair models.JobFair
	err := r.db.QueryRow(ctx, query, id).Scan(
		&fair.ID,
		&fair.Title,
		&fair.Description,
		&fair.StartsAt,
		&fair.EndsAt,
		&fair.OrganizerID,
		&fair.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFairNotFound
		}
		return nil, fmt.Errorf("error retrieving job fair: %w", err)
	}

	return &fair, nil
}

// GetAll retrieves job fairs with optional organizer filter and search,
// paginated, newest start first.
func (r *JobFairRepository) GetAll(ctx context.Context, organizerID *int64, search *string, page, pageSize int) ([]models.JobFair, int64, error) {
	builder := squirrel.Select(
		"id", "title", "description", "starts_at", "ends_at", "organizer_id", "created_at",
		"COUNT(*) OVER() AS total_count",
	).
		From("job_fairs").
		PlaceholderFormat(squirrel.Dollar)

	if organizerID != nil {
		builder = builder.Where(squirrel.Eq{"organizer_id": *organizerID})
	}
	if search != nil && *search != "" {
		pattern := "%" + *search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"description": pattern},
		})
	}

	offset := (page - 1) * pageSize
	builder = builder.OrderBy("starts_at DESC").Limit(uint64(pageSize)).Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building job fair query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing job fairs: %w", err)
	}
	defer rows.Close()

	var fairs []models.JobFair
	var total int64
	for rows.Next() {
		var fair models.JobFair
		if err := rows.Scan(
			&fair.ID,
			&fair.Title,
			&fair.Description,
			&fair.StartsAt,
			&fair.EndsAt,
			&fair.OrganizerID,
			&fair.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning job fair row: %w", err)
		}
		fairs = append(fairs, fair)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating job fair rows: %w", err)
	}

	if fairs == nil {
		fairs = []models.JobFair{}
	}

	return fairs, total, nil
}

// DeleteCascadeTx deletes a fair together with every booth, ledger row and
// appointment that references it, inside the caller's transaction. All four
// deletes commit or roll back as one unit.
func (r *JobFairRepository) DeleteCascadeTx(ctx context.Context, tx pgx.Tx, fairID int64) error {
	statements := []string{
		`DELETE FROM booth_slots WHERE booth_id IN (SELECT id FROM booths WHERE job_fair_id = $1)`,
		`DELETE FROM appointments WHERE job_fair_id = $1`,
		`DELETE FROM booths WHERE job_fair_id = $1`,
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, fairID); err != nil {
			return fmt.Errorf("error cascading fair delete: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM job_fairs WHERE id = $1`, fairID)
	if err != nil {
		return fmt.Errorf("error deleting job fair: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrFairNotFound
	}

	return nil
}
