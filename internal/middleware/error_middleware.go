package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/umut/fairline/internal/app/models/dto"
	"github.com/umut/fairline/internal/pkg/apperrors"
	"github.com/umut/fairline/internal/pkg/logger"
)

// HandleAPIError translates the coordinator's error taxonomy into HTTP
// responses. Leaf operations never swallow errors; this is the single place
// they become user-visible.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrFairNotFound,
		apperrors.ErrBoothNotFound,
		apperrors.ErrAppointmentNotFound,
		apperrors.ErrSessionNotFound,
		apperrors.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")))

	case apperrors.Is(err, apperrors.ErrPermissionDenied):
		// Deliberately no detail: a denial must not reveal whether the
		// resource exists to non-owners.
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")))

	case apperrors.Is(err, apperrors.ErrSlotTaken):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeSlotTaken, "Slot no longer available, please choose another")))

	case apperrors.Is(err, apperrors.ErrSessionNotLive):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeSessionNotLive, "Session is not live")))

	case apperrors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidTransition, err.Error())))

	case apperrors.Is(err, apperrors.ErrAlreadyAnswered):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeConflict, "Question has already been answered")))

	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeConflict, err.Error())))

	case apperrors.Is(err, apperrors.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))

	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")))

	case apperrors.Is(err, apperrors.ErrTimedOut):
		c.JSON(http.StatusGatewayTimeout, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeTimeout, "Operation timed out, please retry")))

	case apperrors.Is(err, apperrors.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnavailable, "Service temporarily unavailable")))

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
