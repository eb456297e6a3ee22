package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/umut/fairline/internal/app/models/dto"
	"github.com/umut/fairline/internal/app/services"
	"github.com/umut/fairline/internal/middleware"
)

// BookingController handles appointment booking operations
type BookingController struct {
	bookingService services.BookingService
}

// NewBookingController creates a new BookingController
func NewBookingController(bookingService services.BookingService) *BookingController {
	return &BookingController{
		bookingService: bookingService,
	}
}

// BookSlot handles booking an open slot
// @Summary Book a slot
// @Description Claims an open slot and creates the appointment atomically. A lost race returns 409.
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path int true "Booth ID"
// @Param request body dto.BookSlotRequest true "Slot instant"
// @Success 201 {object} dto.APIResponse{data=dto.AppointmentResponse} "Appointment created"
// @Failure 403 {object} dto.APIResponse "Recruiters cannot book"
// @Failure 409 {object} dto.APIResponse "Slot no longer available"
// @Security BearerAuth
// @Router /booths/{id}/bookings [post]
func (c *BookingController) BookSlot(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	boothID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid booth ID")))
		return
	}

	var req dto.BookSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	appt, err := c.bookingService.BookSlot(ctx, principal, boothID, req.SlotAt)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(appt))
}

// GetAppointment handles single appointment retrieval
// @Summary Get an appointment
// @Description Retrieves an appointment visible to its student or company
// @Tags bookings
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} dto.APIResponse{data=dto.AppointmentResponse} "Appointment"
// @Failure 403 {object} dto.APIResponse "Not a party to the appointment"
// @Failure 404 {object} dto.APIResponse "Appointment not found"
// @Security BearerAuth
// @Router /appointments/{id} [get]
func (c *BookingController) GetAppointment(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	apptID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid appointment ID")))
		return
	}

	appt, err := c.bookingService.GetAppointment(ctx, principal, apptID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(appt))
}

// ListAppointments handles listing the caller's appointments
// @Summary List appointments
// @Description A student sees their own bookings, a recruiter their company's
// @Tags bookings
// @Produce json
// @Param fairId query int false "Filter by fair"
// @Success 200 {object} dto.APIResponse{data=[]dto.AppointmentResponse} "Appointments"
// @Security BearerAuth
// @Router /appointments [get]
func (c *BookingController) ListAppointments(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var fairID *int64
	if fairStr := ctx.Query("fairId"); fairStr != "" {
		parsed, err := strconv.ParseInt(fairStr, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid fair ID")))
			return
		}
		fairID = &parsed
	}

	appts, err := c.bookingService.ListAppointments(ctx, principal, fairID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(appts))
}

// CancelAppointment handles cancelling a scheduled appointment
// @Summary Cancel an appointment
// @Description Moves a scheduled appointment to cancelled. The slot is not re-opened.
// @Tags bookings
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} dto.APIResponse "Appointment cancelled"
// @Failure 403 {object} dto.APIResponse "Not the booking student"
// @Failure 409 {object} dto.APIResponse "Not in a cancellable state"
// @Security BearerAuth
// @Router /appointments/{id} [delete]
func (c *BookingController) CancelAppointment(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	apptID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid appointment ID")))
		return
	}

	if err := c.bookingService.CancelAppointment(ctx, principal, apptID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"message": "Appointment cancelled successfully"}))
}
