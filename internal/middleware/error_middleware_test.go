package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umut/fairline/internal/app/models/dto"
	"github.com/umut/fairline/internal/pkg/apperrors"
)

func handleInTestContext(t *testing.T, err error) (*httptest.ResponseRecorder, *dto.APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	HandleAPIError(c, err)

	var body dto.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder, &body
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"fair not found", apperrors.ErrFairNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"booth not found wrapped", apperrors.NewCustomError(apperrors.ErrBoothNotFound, "booth 3"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"permission denied", apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"slot taken", apperrors.NewCustomError(apperrors.ErrSlotTaken, "taken"), http.StatusConflict, dto.ErrorCodeSlotTaken},
		{"session not live", apperrors.ErrSessionNotLive, http.StatusConflict, dto.ErrorCodeSessionNotLive},
		{"invalid transition", apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeInvalidTransition},
		{"already answered", apperrors.ErrAlreadyAnswered, http.StatusConflict, dto.ErrorCodeConflict},
		{"generic conflict", apperrors.NewConflictError("busy"), http.StatusConflict, dto.ErrorCodeConflict},
		{"email exists", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeConflict},
		{"invalid argument", apperrors.NewInvalidArgumentError("bad"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"timed out", apperrors.ErrTimedOut, http.StatusGatewayTimeout, dto.ErrorCodeTimeout},
		{"unavailable", apperrors.ErrUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, body := handleInTestContext(t, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestPermissionDeniedCarriesNoDetail(t *testing.T) {
	_, body := handleInTestContext(t, apperrors.NewForbiddenError("booth 42 belongs to someone else"))

	require.NotNil(t, body.Error)
	// The response must not echo the service's internal reason
	assert.Equal(t, "Permission denied", body.Error.Message)
	assert.NotContains(t, body.Error.Message, "42")
}

func TestSlotTakenMessageSuggestsRetry(t *testing.T) {
	_, body := handleInTestContext(t, apperrors.NewCustomError(apperrors.ErrSlotTaken, "gone"))

	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Message, "choose another")
}
