package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/app/models/dto"
	"github.com/umut/fairline/internal/pkg/apperrors"
)

func newJobFairFixture(validateWindow bool) (*fakeJobFairStore, *fakeBoothStore, *fakeTxRunner, JobFairService) {
	fairs := newFakeJobFairStore()
	booths := newFakeBoothStore()
	tx := &fakeTxRunner{}
	clock := func() time.Time { return time.Date(2025, 5, 12, 12, 0, 0, 0, time.UTC) }
	svc := NewJobFairService(fairs, booths, tx, clock, validateWindow, time.Second, zerolog.Nop())
	return fairs, booths, tx, svc
}

func validFairRequest() *dto.CreateJobFairRequest {
	return &dto.CreateJobFairRequest{
		Title:       "Spring Tech Fair",
		Description: "Annual recruiting fair",
		StartsAt:    time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2025, 5, 12, 17, 0, 0, 0, time.UTC),
	}
}

func TestCreateFairRecruiterOnly(t *testing.T) {
	_, _, _, svc := newJobFairFixture(false)

	_, err := svc.CreateFair(context.Background(), student, validFairRequest())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrPermissionDenied))

	created, err := svc.CreateFair(context.Background(), recruiter, validFairRequest())
	require.NoError(t, err)
	assert.Equal(t, recruiter.ID, created.OrganizerID)
}

func TestCreateFairRejectsBlankTitle(t *testing.T) {
	_, _, _, svc := newJobFairFixture(false)

	req := validFairRequest()
	req.Title = "   "
	_, err := svc.CreateFair(context.Background(), recruiter, req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidArgument))
}

func TestCreateFairWindowValidationIsConfigurable(t *testing.T) {
	inverted := validFairRequest()
	inverted.StartsAt, inverted.EndsAt = inverted.EndsAt, inverted.StartsAt

	// Off by default: an inverted window is stored as given
	_, _, _, lenientSvc := newJobFairFixture(false)
	_, err := lenientSvc.CreateFair(context.Background(), recruiter, inverted)
	assert.NoError(t, err)

	// Opted in: the inverted window is rejected
	_, _, _, strictSvc := newJobFairFixture(true)
	_, err = strictSvc.CreateFair(context.Background(), recruiter, inverted)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidArgument))
}

func TestFairStatusDerivedFromClock(t *testing.T) {
	_, _, _, svc := newJobFairFixture(false)

	// Fixture clock sits at 12:00 inside the window
	created, err := svc.CreateFair(context.Background(), recruiter, validFairRequest())
	require.NoError(t, err)
	assert.Equal(t, string(models.FairLive), created.Status)

	future := validFairRequest()
	future.StartsAt = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	future.EndsAt = time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)
	upcoming, err := svc.CreateFair(context.Background(), recruiter, future)
	require.NoError(t, err)
	assert.Equal(t, string(models.FairUpcoming), upcoming.Status)
}

func TestDeleteFairDenialHidesExistence(t *testing.T) {
	fairs, _, _, svc := newJobFairFixture(false)

	created, err := svc.CreateFair(context.Background(), recruiter, validFairRequest())
	require.NoError(t, err)

	outsider := models.Principal{ID: 55, Name: "Eve Recruiter", Role: models.RoleRecruiter}

	errExisting := svc.DeleteFair(context.Background(), outsider, created.ID)
	require.Error(t, errExisting)
	assert.True(t, apperrors.Is(errExisting, apperrors.ErrPermissionDenied))

	errMissing := svc.DeleteFair(context.Background(), outsider, 999)
	require.Error(t, errMissing)
	assert.True(t, apperrors.Is(errMissing, apperrors.ErrPermissionDenied))
	assert.Equal(t, errExisting.Error(), errMissing.Error())

	// Nothing was deleted
	assert.Empty(t, fairs.cascaded)
}

func TestDeleteFairCascadesInOneTransaction(t *testing.T) {
	fairs, _, tx, svc := newJobFairFixture(false)

	created, err := svc.CreateFair(context.Background(), recruiter, validFairRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFair(context.Background(), recruiter, created.ID))

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, []int64{created.ID}, fairs.cascaded)

	_, err = svc.GetFair(context.Background(), created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrFairNotFound))
}

func TestCreateBoothRequiresExistingFair(t *testing.T) {
	_, _, _, svc := newJobFairFixture(false)

	_, err := svc.CreateBooth(context.Background(), recruiter, 999, &dto.CreateBoothRequest{CompanyName: "Acme Corp"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrFairNotFound))
}

func TestListBoothsIncludesLedgers(t *testing.T) {
	_, booths, _, svc := newJobFairFixture(false)

	created, err := svc.CreateFair(context.Background(), recruiter, validFairRequest())
	require.NoError(t, err)

	booth, err := svc.CreateBooth(context.Background(), recruiter, created.ID, &dto.CreateBoothRequest{CompanyName: "Acme Corp"})
	require.NoError(t, err)

	slot := time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC)
	_, err = booths.AddSlot(context.Background(), booth.ID, slot)
	require.NoError(t, err)

	listed, err := svc.ListBooths(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Len(t, listed[0].AvailableSlots, 1)
	assert.True(t, listed[0].AvailableSlots[0].Equal(slot))
}
