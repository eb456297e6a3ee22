package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/pkg/apperrors"
	"github.com/umut/fairline/internal/pkg/realtime"
)

func newBookingFixture() (*fakeBoothStore, *fakeAppointmentStore, *fakeTxRunner, *fakePublisher, BookingService) {
	booths := newFakeBoothStore()
	appts := newFakeAppointmentStore()
	tx := &fakeTxRunner{}
	pub := &fakePublisher{}
	svc := NewBookingService(booths, appts, tx, pub, time.Second, zerolog.Nop())
	return booths, appts, tx, pub, svc
}

var (
	student      = models.Principal{ID: 10, Name: "Ada Student", Role: models.RoleStudent}
	otherStudent = models.Principal{ID: 11, Name: "Ben Student", Role: models.RoleStudent}
	recruiter    = models.Principal{ID: 20, Name: "Rita Recruiter", Role: models.RoleRecruiter}
)

func TestBookSlotClaimsSlotAndCreatesAppointment(t *testing.T) {
	booths, appts, tx, pub, svc := newBookingFixture()
	booth := booths.addBooth(recruiter.ID, "Acme Corp")
	slot := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)
	_, err := booths.AddSlot(context.Background(), booth.ID, slot)
	require.NoError(t, err)

	resp, err := svc.BookSlot(context.Background(), student, booth.ID, slot)
	require.NoError(t, err)

	assert.Equal(t, student.ID, resp.StudentID)
	assert.Equal(t, booth.CompanyID, resp.CompanyID)
	assert.Equal(t, string(models.AppointmentScheduled), resp.Status)
	assert.NotEmpty(t, resp.Reference)
	assert.True(t, resp.ScheduledAt.Equal(slot))

	// Claim and create ran inside one transaction
	assert.Equal(t, 1, tx.calls)
	assert.Len(t, appts.appts, 1)

	// The slot left the ledger
	slots, err := booths.ListSlots(context.Background(), booth.ID)
	require.NoError(t, err)
	assert.Empty(t, slots)

	// Subscribers saw the post-claim ledger
	require.Len(t, pub.events, 1)
	assert.Equal(t, realtime.BoothTopic(booth.ID), pub.events[0].topic)
	assert.Equal(t, "ledger", pub.events[0].kind)
}

func TestBookSlotOnlyOneOfTwoStudentsWins(t *testing.T) {
	booths, appts, _, _, svc := newBookingFixture()
	booth := booths.addBooth(recruiter.ID, "Acme Corp")
	slot := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)
	_, err := booths.AddSlot(context.Background(), booth.ID, slot)
	require.NoError(t, err)

	_, err = svc.BookSlot(context.Background(), student, booth.ID, slot)
	require.NoError(t, err)

	_, err = svc.BookSlot(context.Background(), otherStudent, booth.ID, slot)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.Contains(t, err.Error(), "choose another")

	// Exactly one appointment exists for the slot
	assert.Len(t, appts.appts, 1)
	for _, appt := range appts.appts {
		assert.Equal(t, student.ID, appt.StudentID)
	}

	// The loser retries against a still-open slot and succeeds
	secondSlot := time.Date(2025, 5, 12, 11, 0, 0, 0, time.UTC)
	_, err = booths.AddSlot(context.Background(), booth.ID, secondSlot)
	require.NoError(t, err)

	resp, err := svc.BookSlot(context.Background(), otherStudent, booth.ID, secondSlot)
	require.NoError(t, err)
	assert.Equal(t, otherStudent.ID, resp.StudentID)
	assert.Len(t, appts.appts, 2)
}

func TestBookSlotMissingSlotIsConflict(t *testing.T) {
	booths, _, _, _, svc := newBookingFixture()
	booth := booths.addBooth(recruiter.ID, "Acme Corp")

	_, err := svc.BookSlot(context.Background(), student, booth.ID, time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestBookSlotRecruiterForbidden(t *testing.T) {
	booths, _, tx, _, svc := newBookingFixture()
	booth := booths.addBooth(recruiter.ID, "Acme Corp")

	_, err := svc.BookSlot(context.Background(), recruiter, booth.ID, time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrPermissionDenied))
	assert.Zero(t, tx.calls)
}

func TestBookSlotUnknownBooth(t *testing.T) {
	_, _, _, _, svc := newBookingFixture()

	_, err := svc.BookSlot(context.Background(), student, 999, time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBoothNotFound))
}

func TestGetAppointmentVisibleToBothParties(t *testing.T) {
	booths, _, _, _, svc := newBookingFixture()
	booth := booths.addBooth(recruiter.ID, "Acme Corp")
	slot := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)
	_, err := booths.AddSlot(context.Background(), booth.ID, slot)
	require.NoError(t, err)

	created, err := svc.BookSlot(context.Background(), student, booth.ID, slot)
	require.NoError(t, err)

	// The booking student sees it
	_, err = svc.GetAppointment(context.Background(), student, created.ID)
	assert.NoError(t, err)

	// The booth's company sees it
	companyPrincipal := models.Principal{ID: booth.CompanyID, Name: "Rita Recruiter", Role: models.RoleRecruiter}
	_, err = svc.GetAppointment(context.Background(), companyPrincipal, created.ID)
	assert.NoError(t, err)

	// A third party does not
	_, err = svc.GetAppointment(context.Background(), otherStudent, created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrPermissionDenied))
}

func TestListAppointmentsScopedByRole(t *testing.T) {
	booths, _, _, _, svc := newBookingFixture()
	booth := booths.addBooth(recruiter.ID, "Acme Corp")
	slotA := time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC)
	slotB := time.Date(2025, 5, 12, 11, 0, 0, 0, time.UTC)
	for _, slot := range []time.Time{slotA, slotB} {
		_, err := booths.AddSlot(context.Background(), booth.ID, slot)
		require.NoError(t, err)
	}

	_, err := svc.BookSlot(context.Background(), student, booth.ID, slotA)
	require.NoError(t, err)
	_, err = svc.BookSlot(context.Background(), otherStudent, booth.ID, slotB)
	require.NoError(t, err)

	mine, err := svc.ListAppointments(context.Background(), student, nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, student.ID, mine[0].StudentID)

	companyView, err := svc.ListAppointments(context.Background(), models.Principal{ID: booth.CompanyID, Role: models.RoleRecruiter}, nil)
	require.NoError(t, err)
	assert.Len(t, companyView, 2)
}

func TestCancelAppointment(t *testing.T) {
	booths, _, _, _, svc := newBookingFixture()
	booth := booths.addBooth(recruiter.ID, "Acme Corp")
	slot := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)
	_, err := booths.AddSlot(context.Background(), booth.ID, slot)
	require.NoError(t, err)

	created, err := svc.BookSlot(context.Background(), student, booth.ID, slot)
	require.NoError(t, err)

	// Only the booking student may cancel
	err = svc.CancelAppointment(context.Background(), otherStudent, created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrPermissionDenied))

	require.NoError(t, svc.CancelAppointment(context.Background(), student, created.ID))

	// Cancelled is terminal; a second cancel does not land
	err = svc.CancelAppointment(context.Background(), student, created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	// The slot stays claimed after cancellation
	slots, err := booths.ListSlots(context.Background(), booth.ID)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestBookSlotAfterCancelAndReopen(t *testing.T) {
	booths, appts, _, _, svc := newBookingFixture()
	booth := booths.addBooth(recruiter.ID, "Acme Corp")
	slot := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)
	_, err := booths.AddSlot(context.Background(), booth.ID, slot)
	require.NoError(t, err)

	created, err := svc.BookSlot(context.Background(), student, booth.ID, slot)
	require.NoError(t, err)
	require.NoError(t, svc.CancelAppointment(context.Background(), student, created.ID))

	// The booth owner re-opens the instant; the cancelled row must not
	// block a fresh booking for it
	_, err = booths.AddSlot(context.Background(), booth.ID, slot)
	require.NoError(t, err)

	rebooked, err := svc.BookSlot(context.Background(), otherStudent, booth.ID, slot)
	require.NoError(t, err)
	assert.Equal(t, otherStudent.ID, rebooked.StudentID)
	assert.Equal(t, string(models.AppointmentScheduled), rebooked.Status)

	// The cancelled appointment is retained alongside the new one
	old, err := appts.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, old.Status)
	assert.Len(t, appts.appts, 2)
}

func TestBookSlotStoreFailureIsUnavailable(t *testing.T) {
	booths, appts, _, _, svc := newBookingFixture()
	booth := booths.addBooth(recruiter.ID, "Acme Corp")
	slot := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)
	_, err := booths.AddSlot(context.Background(), booth.ID, slot)
	require.NoError(t, err)

	appts.failTx = errors.New("connection reset by peer")

	_, err = svc.BookSlot(context.Background(), student, booth.ID, slot)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnavailable))
	assert.Empty(t, appts.appts)
}

func TestBookSlotConcurrentClaimsHaveOneWinner(t *testing.T) {
	booths, appts, _, _, svc := newBookingFixture()
	booth := booths.addBooth(recruiter.ID, "Acme Corp")
	slot := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)
	_, err := booths.AddSlot(context.Background(), booth.ID, slot)
	require.NoError(t, err)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, p := range []models.Principal{student, otherStudent} {
		wg.Add(1)
		go func(principal models.Principal) {
			defer wg.Done()
			_, err := svc.BookSlot(context.Background(), principal, booth.ID, slot)
			results <- err
		}(p)
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
		conflicts++
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, appts.appts, 1)
}
