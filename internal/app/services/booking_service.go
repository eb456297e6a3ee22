package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/app/models/dto"
	"github.com/umut/fairline/internal/pkg/apperrors"
	"github.com/umut/fairline/internal/pkg/realtime"
)

// BookingService is the only path by which an appointment may come into
// existence.
type BookingService interface {
	BookSlot(ctx context.Context, principal models.Principal, boothID int64, slotAt time.Time) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, principal models.Principal, id int64) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, principal models.Principal, fairID *int64) ([]dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, principal models.Principal, id int64) error
}

// bookingServiceImpl implements BookingService
type bookingServiceImpl struct {
	boothStore BoothStore
	apptStore  AppointmentStore
	txRunner   TxRunner
	publisher  realtime.Publisher
	opTimeout  time.Duration
	logger     zerolog.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	boothStore BoothStore,
	apptStore AppointmentStore,
	txRunner TxRunner,
	publisher realtime.Publisher,
	opTimeout time.Duration,
	logger zerolog.Logger,
) BookingService {
	return &bookingServiceImpl{
		boothStore: boothStore,
		apptStore:  apptStore,
		txRunner:   txRunner,
		publisher:  publisher,
		opTimeout:  opTimeout,
		logger:     logger,
	}
}

// BookSlot claims a slot and creates the appointment in one atomic
// transaction. The ledger row removal is the claim: if the row is already
// gone at commit time another booking won the race and the caller gets
// ErrSlotTaken. There is no window in which a slot is removed without an
// appointment existing for it.
func (s *bookingServiceImpl) BookSlot(ctx context.Context, principal models.Principal, boothID int64, slotAt time.Time) (*dto.AppointmentResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	if slotAt.IsZero() {
		return nil, apperrors.NewInvalidArgumentError("slot instant is required")
	}
	if principal.IsRecruiter() {
		return nil, apperrors.NewForbiddenError("recruiters cannot book slots")
	}

	booth, err := s.boothStore.GetByID(ctx, boothID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	appt := &models.Appointment{
		Reference:   uuid.New().String(),
		StudentID:   principal.ID,
		StudentName: principal.Name,
		CompanyID:   booth.CompanyID,
		CompanyName: booth.CompanyName,
		JobFairID:   booth.JobFairID,
		BoothID:     booth.ID,
		ScheduledAt: slotAt.Truncate(time.Millisecond),
		Status:      models.AppointmentScheduled,
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		claimed, err := s.boothStore.ClaimSlotTx(ctx, tx, boothID, slotAt)
		if err != nil {
			return err
		}
		if !claimed {
			return apperrors.ErrSlotTaken
		}

		_, err = s.apptStore.CreateTx(ctx, tx, appt)
		return err
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSlotTaken) {
			s.logger.Info().
				Int64("boothID", boothID).
				Int64("studentID", principal.ID).
				Time("slotAt", slotAt).
				Msg("Booking lost the race for a slot")
			return nil, apperrors.NewConflictError("slot no longer available, please choose another")
		}
		return nil, mapStoreErr(err)
	}

	s.logger.Info().
		Int64("appointmentID", appt.ID).
		Int64("boothID", boothID).
		Int64("studentID", principal.ID).
		Msg("Slot booked")

	s.publishLedger(ctx, boothID)

	return toAppointmentResponse(appt), nil
}

// GetAppointment retrieves an appointment visible to its student or company
func (s *bookingServiceImpl) GetAppointment(ctx context.Context, principal models.Principal, id int64) (*dto.AppointmentResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	appt, err := s.apptStore.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if appt.StudentID != principal.ID && appt.CompanyID != principal.ID {
		return nil, apperrors.NewForbiddenError("not authorized to view this appointment")
	}

	return toAppointmentResponse(appt), nil
}

// ListAppointments returns the caller's appointments: a student sees their
// own bookings, a recruiter their company's.
func (s *bookingServiceImpl) ListAppointments(ctx context.Context, principal models.Principal, fairID *int64) ([]dto.AppointmentResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	var studentID, companyID *int64
	if principal.IsRecruiter() {
		companyID = &principal.ID
	} else {
		studentID = &principal.ID
	}

	appts, err := s.apptStore.GetAll(ctx, studentID, companyID, fairID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	responses := make([]dto.AppointmentResponse, 0, len(appts))
	for i := range appts {
		responses = append(responses, *toAppointmentResponse(&appts[i]))
	}

	return responses, nil
}

// CancelAppointment moves a scheduled appointment to cancelled. Only the
// booking student may cancel. The slot is not returned to the ledger; the
// booth owner re-opens it explicitly if they want to.
func (s *bookingServiceImpl) CancelAppointment(ctx context.Context, principal models.Principal, id int64) error {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	appt, err := s.apptStore.GetByID(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}

	if appt.StudentID != principal.ID {
		return apperrors.NewForbiddenError("not authorized to cancel this appointment")
	}

	updated, err := s.apptStore.UpdateStatus(ctx, id, models.AppointmentScheduled, models.AppointmentCancelled)
	if err != nil {
		return mapStoreErr(err)
	}
	if !updated {
		return apperrors.NewConflictError("appointment is not in a cancellable state")
	}

	s.logger.Info().
		Int64("appointmentID", id).
		Int64("studentID", principal.ID).
		Msg("Appointment cancelled")

	return nil
}

// publishLedger pushes the post-claim ledger to booth subscribers
func (s *bookingServiceImpl) publishLedger(ctx context.Context, boothID int64) {
	if s.publisher == nil {
		return
	}

	slots, err := s.boothStore.ListSlots(ctx, boothID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("boothID", boothID).Msg("Failed to read ledger for snapshot push")
		return
	}

	s.publisher.Publish(realtime.BoothTopic(boothID), "ledger", &dto.LedgerSnapshot{
		BoothID:        boothID,
		AvailableSlots: slots,
	})
}

func toAppointmentResponse(appt *models.Appointment) *dto.AppointmentResponse {
	return &dto.AppointmentResponse{
		ID:          appt.ID,
		Reference:   appt.Reference,
		StudentID:   appt.StudentID,
		StudentName: appt.StudentName,
		CompanyID:   appt.CompanyID,
		CompanyName: appt.CompanyName,
		JobFairID:   appt.JobFairID,
		BoothID:     appt.BoothID,
		ScheduledAt: appt.ScheduledAt,
		Status:      string(appt.Status),
		CreatedAt:   appt.CreatedAt,
	}
}
