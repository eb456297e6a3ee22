package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/pkg/apperrors"
)

// BoothRepository handles database operations for booths and their slot
// ledgers. The ledger is the booth_slots table: one row per open instant,
// keyed by (booth_id, slot_at). Add and remove work by value, never by
// rewriting the whole ledger from a stale read.
type BoothRepository struct {
	db *pgxpool.Pool
}

// NewBoothRepository creates a new BoothRepository
func NewBoothRepository(db *pgxpool.Pool) *BoothRepository {
	return &BoothRepository{db: db}
}

// Create inserts a new booth and returns its generated ID
func (r *BoothRepository) Create(ctx context.Context, booth *models.Booth) (int64, error) {
	query := `
		INSERT INTO booths (job_fair_id, company_id, company_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		booth.JobFairID,
		booth.CompanyID,
		booth.CompanyName,
	).Scan(&booth.ID, &booth.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating booth: %w", err)
	}

	return booth.ID, nil
}

// GetByID retrieves a booth by ID, without its ledger
func (r *BoothRepository) GetByID(ctx context.Context, id int64) (*models.Booth, error) {
	query := `
		SELECT id, job_fair_id, company_id, company_name, created_at
		FROM booths
		WHERE id = $1
	`

	var booth models.Booth
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booth.ID,
		&booth.JobFairID,
		&booth.CompanyID,
		&booth.CompanyName,
		&booth.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBoothNotFound
		}
		return nil, fmt.Errorf("error retrieving booth: %w", err)
	}

	return &booth, nil
}

// GetAllByFair retrieves all booths registered under a job fair
func (r *BoothRepository) GetAllByFair(ctx context.Context, fairID int64) ([]models.Booth, error) {
	query := `
		SELECT id, job_fair_id, company_id, company_name, created_at
		FROM booths
		WHERE job_fair_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, fairID)
	if err != nil {
		return nil, fmt.Errorf("error listing booths: %w", err)
	}
	defer rows.Close()

	var booths []models.Booth
	for rows.Next() {
		var booth models.Booth
		if err := rows.Scan(
			&booth.ID,
			&booth.JobFairID,
			&booth.CompanyID,
			&booth.CompanyName,
			&booth.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning booth row: %w", err)
		}
		booths = append(booths, booth)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booth rows: %w", err)
	}

	if booths == nil {
		booths = []models.Booth{}
	}

	return booths, nil
}

// AddSlot appends an instant to the booth's ledger. Inserting an instant
// that is already present is a no-op, reported through the bool return.
// Instants are stored at millisecond resolution.
func (r *BoothRepository) AddSlot(ctx context.Context, boothID int64, slotAt time.Time) (bool, error) {
	query := `
		INSERT INTO booth_slots (booth_id, slot_at)
		VALUES ($1, $2)
		ON CONFLICT (booth_id, slot_at) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query, boothID, slotAt.Truncate(time.Millisecond))
	if err != nil {
		return false, fmt.Errorf("error adding slot: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// RemoveSlot removes a value-equal instant from the booth's ledger. Removing
// an absent instant is a no-op; the bool return tells the caller whether a
// removal actually occurred.
func (r *BoothRepository) RemoveSlot(ctx context.Context, boothID int64, slotAt time.Time) (bool, error) {
	query := `
		DELETE FROM booth_slots
		WHERE booth_id = $1 AND slot_at = $2
	`

	tag, err := r.db.Exec(ctx, query, boothID, slotAt.Truncate(time.Millisecond))
	if err != nil {
		return false, fmt.Errorf("error removing slot: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListSlots returns the booth's open instants ascending. The ledger is read
// fresh on every call; nothing is cached.
func (r *BoothRepository) ListSlots(ctx context.Context, boothID int64) ([]time.Time, error) {
	query := `
		SELECT slot_at
		FROM booth_slots
		WHERE booth_id = $1
		ORDER BY slot_at ASC
	`

	rows, err := r.db.Query(ctx, query, boothID)
	if err != nil {
		return nil, fmt.Errorf("error listing slots: %w", err)
	}
	defer rows.Close()

	var slots []time.Time
	for rows.Next() {
		var slotAt time.Time
		if err := rows.Scan(&slotAt); err != nil {
			return nil, fmt.Errorf("error scanning slot row: %w", err)
		}
		slots = append(slots, slotAt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slot rows: %w", err)
	}

	if slots == nil {
		slots = []time.Time{}
	}

	return slots, nil
}

// ClaimSlotTx removes the instant from the ledger inside the caller's
// transaction. A false return means the slot was no longer present at claim
// time, which is how a lost booking race surfaces.
func (r *BoothRepository) ClaimSlotTx(ctx context.Context, tx pgx.Tx, boothID int64, slotAt time.Time) (bool, error) {
	query := `
		DELETE FROM booth_slots
		WHERE booth_id = $1 AND slot_at = $2
	`

	tag, err := tx.Exec(ctx, query, boothID, slotAt.Truncate(time.Millisecond))
	if err != nil {
		return false, fmt.Errorf("error claiming slot: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
