package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/app/models/dto"
	"github.com/umut/fairline/internal/pkg/apperrors"
	"github.com/umut/fairline/internal/pkg/realtime"
)

// BoothService defines the interface for slot ledger operations
type BoothService interface {
	GetBooth(ctx context.Context, boothID int64) (*dto.BoothResponse, error)
	AddSlot(ctx context.Context, principal models.Principal, boothID int64, slotAt time.Time) (*dto.SlotMutationResponse, error)
	RemoveSlot(ctx context.Context, principal models.Principal, boothID int64, slotAt time.Time) (*dto.SlotMutationResponse, error)
	ListSlots(ctx context.Context, boothID int64) ([]time.Time, error)
	Snapshot(ctx context.Context, boothID int64) (interface{}, error)
}

// boothServiceImpl implements BoothService
type boothServiceImpl struct {
	boothStore BoothStore
	publisher  realtime.Publisher
	opTimeout  time.Duration
	logger     zerolog.Logger
}

// NewBoothService creates a new BoothService
func NewBoothService(boothStore BoothStore, publisher realtime.Publisher, opTimeout time.Duration, logger zerolog.Logger) BoothService {
	return &boothServiceImpl{
		boothStore: boothStore,
		publisher:  publisher,
		opTimeout:  opTimeout,
		logger:     logger,
	}
}

// GetBooth retrieves a booth with its current ledger
func (s *boothServiceImpl) GetBooth(ctx context.Context, boothID int64) (*dto.BoothResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	booth, err := s.boothStore.GetByID(ctx, boothID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	slots, err := s.boothStore.ListSlots(ctx, boothID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return &dto.BoothResponse{
		ID:             booth.ID,
		JobFairID:      booth.JobFairID,
		CompanyID:      booth.CompanyID,
		CompanyName:    booth.CompanyName,
		AvailableSlots: slots,
		CreatedAt:      booth.CreatedAt,
	}, nil
}

// AddSlot appends an instant to the booth's ledger. Adding a duplicate is a
// no-op reported through Changed=false.
func (s *boothServiceImpl) AddSlot(ctx context.Context, principal models.Principal, boothID int64, slotAt time.Time) (*dto.SlotMutationResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	if slotAt.IsZero() {
		return nil, apperrors.NewInvalidArgumentError("slot instant is required")
	}

	if err := s.requireOwner(ctx, principal, boothID); err != nil {
		return nil, err
	}

	added, err := s.boothStore.AddSlot(ctx, boothID, slotAt)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return s.finishMutation(ctx, boothID, added)
}

// RemoveSlot removes a value-equal instant from the ledger. Removing an
// absent instant succeeds with Changed=false.
func (s *boothServiceImpl) RemoveSlot(ctx context.Context, principal models.Principal, boothID int64, slotAt time.Time) (*dto.SlotMutationResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	if slotAt.IsZero() {
		return nil, apperrors.NewInvalidArgumentError("slot instant is required")
	}

	if err := s.requireOwner(ctx, principal, boothID); err != nil {
		return nil, err
	}

	removed, err := s.boothStore.RemoveSlot(ctx, boothID, slotAt)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return s.finishMutation(ctx, boothID, removed)
}

// ListSlots returns the booth's open instants ascending, read fresh
func (s *boothServiceImpl) ListSlots(ctx context.Context, boothID int64) ([]time.Time, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	slots, err := s.boothStore.ListSlots(ctx, boothID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return slots, nil
}

// Snapshot implements realtime.SnapshotProvider for booth topics
func (s *boothServiceImpl) Snapshot(ctx context.Context, boothID int64) (interface{}, error) {
	if _, err := s.boothStore.GetByID(ctx, boothID); err != nil {
		return nil, mapStoreErr(err)
	}

	slots, err := s.boothStore.ListSlots(ctx, boothID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return &dto.LedgerSnapshot{
		BoothID:        boothID,
		AvailableSlots: slots,
	}, nil
}

// requireOwner gates ledger mutations to the booth's company. The denial
// carries no hint of whether the booth exists.
func (s *boothServiceImpl) requireOwner(ctx context.Context, principal models.Principal, boothID int64) error {
	booth, err := s.boothStore.GetByID(ctx, boothID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrBoothNotFound) {
			return apperrors.NewForbiddenError("not authorized to manage this booth")
		}
		return mapStoreErr(err)
	}

	if booth.CompanyID != principal.ID {
		return apperrors.NewForbiddenError("not authorized to manage this booth")
	}

	return nil
}

// finishMutation re-reads the ledger and pushes it to subscribers
func (s *boothServiceImpl) finishMutation(ctx context.Context, boothID int64, changed bool) (*dto.SlotMutationResponse, error) {
	slots, err := s.boothStore.ListSlots(ctx, boothID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if changed && s.publisher != nil {
		s.publisher.Publish(realtime.BoothTopic(boothID), "ledger", &dto.LedgerSnapshot{
			BoothID:        boothID,
			AvailableSlots: slots,
		})
	}

	return &dto.SlotMutationResponse{
		Changed:        changed,
		AvailableSlots: slots,
	}, nil
}
