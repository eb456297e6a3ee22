package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/pkg/apperrors"
)

func newBoothFixture() (*fakeBoothStore, *fakePublisher, BoothService) {
	store := newFakeBoothStore()
	pub := &fakePublisher{}
	svc := NewBoothService(store, pub, time.Second, zerolog.Nop())
	return store, pub, svc
}

func TestAddSlotIsIdempotent(t *testing.T) {
	store, pub, svc := newBoothFixture()
	booth := store.addBooth(recruiter.ID, "Acme Corp")
	slot := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)

	first, err := svc.AddSlot(context.Background(), recruiter, booth.ID, slot)
	require.NoError(t, err)
	assert.True(t, first.Changed)
	assert.Len(t, first.AvailableSlots, 1)

	// Same instant again is a no-op, not an error
	second, err := svc.AddSlot(context.Background(), recruiter, booth.ID, slot)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Len(t, second.AvailableSlots, 1)

	// Only the mutating add pushed a snapshot
	assert.Len(t, pub.events, 1)
}

func TestRemoveAbsentSlotSucceedsUnchanged(t *testing.T) {
	store, pub, svc := newBoothFixture()
	booth := store.addBooth(recruiter.ID, "Acme Corp")

	resp, err := svc.RemoveSlot(context.Background(), recruiter, booth.ID, time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, resp.Changed)
	assert.Empty(t, pub.events)
}

func TestSlotMatchingIsValueEqual(t *testing.T) {
	store, _, svc := newBoothFixture()
	booth := store.addBooth(recruiter.ID, "Acme Corp")
	slot := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)

	_, err := svc.AddSlot(context.Background(), recruiter, booth.ID, slot)
	require.NoError(t, err)

	// The same instant in another zone removes the slot
	istanbul := time.FixedZone("TRT", 3*60*60)
	resp, err := svc.RemoveSlot(context.Background(), recruiter, booth.ID, slot.In(istanbul))
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Empty(t, resp.AvailableSlots)
}

func TestLedgerMutationDenialHidesExistence(t *testing.T) {
	store, _, svc := newBoothFixture()
	booth := store.addBooth(recruiter.ID, "Acme Corp")
	slot := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)
	outsider := models.Principal{ID: 77, Name: "Eve Recruiter", Role: models.RoleRecruiter}

	// A non-owner on an existing booth
	_, errExisting := svc.AddSlot(context.Background(), outsider, booth.ID, slot)
	require.Error(t, errExisting)
	assert.True(t, apperrors.Is(errExisting, apperrors.ErrPermissionDenied))

	// The same caller on a missing booth gets the identical denial
	_, errMissing := svc.AddSlot(context.Background(), outsider, 999, slot)
	require.Error(t, errMissing)
	assert.True(t, apperrors.Is(errMissing, apperrors.ErrPermissionDenied))
	assert.Equal(t, errExisting.Error(), errMissing.Error())
}

func TestListSlotsAscending(t *testing.T) {
	store, _, svc := newBoothFixture()
	booth := store.addBooth(recruiter.ID, "Acme Corp")

	later := time.Date(2025, 5, 12, 14, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	for _, slot := range []time.Time{later, earlier} {
		_, err := svc.AddSlot(context.Background(), recruiter, booth.ID, slot)
		require.NoError(t, err)
	}

	slots, err := svc.ListSlots(context.Background(), booth.ID)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Equal(earlier))
	assert.True(t, slots[1].Equal(later))
}

func TestBoothSnapshotForSubscribers(t *testing.T) {
	store, _, svc := newBoothFixture()
	booth := store.addBooth(recruiter.ID, "Acme Corp")
	slot := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)
	_, err := svc.AddSlot(context.Background(), recruiter, booth.ID, slot)
	require.NoError(t, err)

	raw, err := svc.Snapshot(context.Background(), booth.ID)
	require.NoError(t, err)
	require.NotNil(t, raw)

	// A snapshot for a missing booth fails before any upgrade happens
	_, err = svc.Snapshot(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBoothNotFound))
}
