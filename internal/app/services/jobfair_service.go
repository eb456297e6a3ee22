package services

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/app/models/dto"
	"github.com/umut/fairline/internal/pkg/apperrors"
)

// JobFairService defines the interface for job fair lifecycle operations
type JobFairService interface {
	CreateFair(ctx context.Context, principal models.Principal, req *dto.CreateJobFairRequest) (*dto.JobFairResponse, error)
	GetFair(ctx context.Context, fairID int64) (*dto.JobFairResponse, error)
	ListFairs(ctx context.Context, filter *dto.JobFairFilterRequest) (*dto.JobFairListResponse, error)
	DeleteFair(ctx context.Context, principal models.Principal, fairID int64) error
	CreateBooth(ctx context.Context, principal models.Principal, fairID int64, req *dto.CreateBoothRequest) (*dto.BoothResponse, error)
	ListBooths(ctx context.Context, fairID int64) ([]dto.BoothResponse, error)
}

// jobFairServiceImpl implements JobFairService
type jobFairServiceImpl struct {
	fairStore          JobFairStore
	boothStore         BoothStore
	txRunner           TxRunner
	clock              Clock
	validateFairWindow bool
	opTimeout          time.Duration
	logger             zerolog.Logger
}

// NewJobFairService creates a new JobFairService
func NewJobFairService(
	fairStore JobFairStore,
	boothStore BoothStore,
	txRunner TxRunner,
	clock Clock,
	validateFairWindow bool,
	opTimeout time.Duration,
	logger zerolog.Logger,
) JobFairService {
	if clock == nil {
		clock = time.Now
	}
	return &jobFairServiceImpl{
		fairStore:          fairStore,
		boothStore:         boothStore,
		txRunner:           txRunner,
		clock:              clock,
		validateFairWindow: validateFairWindow,
		opTimeout:          opTimeout,
		logger:             logger,
	}
}

// CreateFair creates a job fair owned by the calling recruiter
func (s *jobFairServiceImpl) CreateFair(ctx context.Context, principal models.Principal, req *dto.CreateJobFairRequest) (*dto.JobFairResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	if !principal.IsRecruiter() {
		return nil, apperrors.NewForbiddenError("only recruiters may create job fairs")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewInvalidArgumentError("title must not be empty")
	}
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		return nil, apperrors.NewInvalidArgumentError("start and end instants are required")
	}
	// Window ordering is a configurable check, off by default
	if s.validateFairWindow && !req.StartsAt.Before(req.EndsAt) {
		return nil, apperrors.NewInvalidArgumentError("fair must start before it ends")
	}

	fair := &models.JobFair{
		Title:       title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		OrganizerID: principal.ID,
	}

	if _, err := s.fairStore.Create(ctx, fair); err != nil {
		return nil, mapStoreErr(err)
	}

	s.logger.Info().
		Int64("fairID", fair.ID).
		Int64("organizerID", principal.ID).
		Msg("Job fair created")

	return s.toResponse(fair), nil
}

// GetFair retrieves a fair with its display status derived at read time
func (s *jobFairServiceImpl) GetFair(ctx context.Context, fairID int64) (*dto.JobFairResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	fair, err := s.fairStore.GetByID(ctx, fairID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return s.toResponse(fair), nil
}

// ListFairs retrieves fairs with filtering and pagination
func (s *jobFairServiceImpl) ListFairs(ctx context.Context, filter *dto.JobFairFilterRequest) (*dto.JobFairListResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	fairs, total, err := s.fairStore.GetAll(ctx, filter.OrganizerID, filter.Search, filter.Page, filter.PageSize)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	responses := make([]dto.JobFairResponse, 0, len(fairs))
	for i := range fairs {
		responses = append(responses, *s.toResponse(&fairs[i]))
	}

	totalPages := (int(total) + filter.PageSize - 1) / filter.PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return &dto.JobFairListResponse{
		JobFairs: responses,
		PaginationInfo: dto.PaginationInfo{
			CurrentPage: filter.Page,
			PageSize:    filter.PageSize,
			TotalItems:  total,
			TotalPages:  totalPages,
		},
	}, nil
}

// DeleteFair removes a fair and cascades to its booths, ledgers and
// appointments in one atomic transaction. Only the organizer may delete;
// the denial does not reveal whether the fair exists.
func (s *jobFairServiceImpl) DeleteFair(ctx context.Context, principal models.Principal, fairID int64) error {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	fair, err := s.fairStore.GetByID(ctx, fairID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrFairNotFound) {
			// Indistinguishable from a denied delete on an existing fair
			return apperrors.NewForbiddenError("not authorized to delete this fair")
		}
		return mapStoreErr(err)
	}

	if fair.OrganizerID != principal.ID {
		return apperrors.NewForbiddenError("not authorized to delete this fair")
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.fairStore.DeleteCascadeTx(ctx, tx, fairID)
	})
	if err != nil {
		return mapStoreErr(err)
	}

	s.logger.Info().
		Int64("fairID", fairID).
		Int64("organizerID", principal.ID).
		Msg("Job fair deleted with cascade")

	return nil
}

// CreateBooth registers the calling recruiter's company booth under a fair
func (s *jobFairServiceImpl) CreateBooth(ctx context.Context, principal models.Principal, fairID int64, req *dto.CreateBoothRequest) (*dto.BoothResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	if !principal.IsRecruiter() {
		return nil, apperrors.NewForbiddenError("only recruiters may register booths")
	}

	companyName := strings.TrimSpace(req.CompanyName)
	if companyName == "" {
		return nil, apperrors.NewInvalidArgumentError("company name must not be empty")
	}

	// Fair must exist before a booth can reference it
	if _, err := s.fairStore.GetByID(ctx, fairID); err != nil {
		return nil, mapStoreErr(err)
	}

	booth := &models.Booth{
		JobFairID:   fairID,
		CompanyID:   principal.ID,
		CompanyName: companyName,
	}

	if _, err := s.boothStore.Create(ctx, booth); err != nil {
		return nil, mapStoreErr(err)
	}

	s.logger.Info().
		Int64("boothID", booth.ID).
		Int64("fairID", fairID).
		Int64("companyID", principal.ID).
		Msg("Booth registered")

	return &dto.BoothResponse{
		ID:             booth.ID,
		JobFairID:      booth.JobFairID,
		CompanyID:      booth.CompanyID,
		CompanyName:    booth.CompanyName,
		AvailableSlots: []time.Time{},
		CreatedAt:      booth.CreatedAt,
	}, nil
}

// ListBooths retrieves all booths of a fair with their current ledgers
func (s *jobFairServiceImpl) ListBooths(ctx context.Context, fairID int64) ([]dto.BoothResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	booths, err := s.boothStore.GetAllByFair(ctx, fairID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	responses := make([]dto.BoothResponse, 0, len(booths))
	for _, booth := range booths {
		slots, err := s.boothStore.ListSlots(ctx, booth.ID)
		if err != nil {
			return nil, mapStoreErr(err)
		}
		responses = append(responses, dto.BoothResponse{
			ID:             booth.ID,
			JobFairID:      booth.JobFairID,
			CompanyID:      booth.CompanyID,
			CompanyName:    booth.CompanyName,
			AvailableSlots: slots,
			CreatedAt:      booth.CreatedAt,
		})
	}

	return responses, nil
}

func (s *jobFairServiceImpl) toResponse(fair *models.JobFair) *dto.JobFairResponse {
	return &dto.JobFairResponse{
		ID:          fair.ID,
		Title:       fair.Title,
		Description: fair.Description,
		StartsAt:    fair.StartsAt,
		EndsAt:      fair.EndsAt,
		OrganizerID: fair.OrganizerID,
		Status:      string(fair.DisplayStatus(s.clock())),
		CreatedAt:   fair.CreatedAt,
	}
}
