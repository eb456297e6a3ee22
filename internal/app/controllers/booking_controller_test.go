package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/app/models/dto"
	"github.com/umut/fairline/internal/middleware"
	"github.com/umut/fairline/internal/pkg/apperrors"
)

// stubBookingService scripts service outcomes for handler tests
type stubBookingService struct {
	bookResult *dto.AppointmentResponse
	bookErr    error
	gotBoothID int64
	gotSlotAt  time.Time
}

func (s *stubBookingService) BookSlot(ctx context.Context, principal models.Principal, boothID int64, slotAt time.Time) (*dto.AppointmentResponse, error) {
	s.gotBoothID = boothID
	s.gotSlotAt = slotAt
	return s.bookResult, s.bookErr
}

func (s *stubBookingService) GetAppointment(ctx context.Context, principal models.Principal, id int64) (*dto.AppointmentResponse, error) {
	return nil, apperrors.ErrAppointmentNotFound
}

func (s *stubBookingService) ListAppointments(ctx context.Context, principal models.Principal, fairID *int64) ([]dto.AppointmentResponse, error) {
	return []dto.AppointmentResponse{}, nil
}

func (s *stubBookingService) CancelAppointment(ctx context.Context, principal models.Principal, id int64) error {
	return nil
}

func bookingRouter(stub *stubBookingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewBookingController(stub)

	// Inject the caller the way the auth middleware would
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, int64(10))
		c.Set(middleware.ContextUserName, "Ada Student")
		c.Set(middleware.ContextUserRole, string(models.RoleStudent))
	})
	router.POST("/booths/:id/bookings", controller.BookSlot)
	router.GET("/appointments/:id", controller.GetAppointment)
	return router
}

func TestBookSlotHandlerSuccess(t *testing.T) {
	slot := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)
	stub := &stubBookingService{
		bookResult: &dto.AppointmentResponse{ID: 1, BoothID: 5, ScheduledAt: slot, Status: "scheduled"},
	}
	router := bookingRouter(stub)

	body, _ := json.Marshal(dto.BookSlotRequest{SlotAt: slot})
	req := httptest.NewRequest(http.MethodPost, "/booths/5/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, int64(5), stub.gotBoothID)
	assert.True(t, stub.gotSlotAt.Equal(slot))

	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestBookSlotHandlerConflict(t *testing.T) {
	stub := &stubBookingService{
		bookErr: apperrors.NewConflictError("slot no longer available, please choose another"),
	}
	router := bookingRouter(stub)

	body, _ := json.Marshal(dto.BookSlotRequest{SlotAt: time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)})
	req := httptest.NewRequest(http.MethodPost, "/booths/5/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusConflict, recorder.Code)

	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "choose another")
}

func TestBookSlotHandlerRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"missing slot", "/booths/5/bookings", `{}`},
		{"malformed json", "/booths/5/bookings", `{"slotAt":`},
		{"bad booth id", "/booths/not-a-number/bookings", `{"slotAt":"2025-05-12T10:30:00Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubBookingService{}
			router := bookingRouter(stub)

			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Zero(t, stub.gotBoothID)
		})
	}
}

func TestGetAppointmentHandlerNotFound(t *testing.T) {
	router := bookingRouter(&stubBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/appointments/99", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
