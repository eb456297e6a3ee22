package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/umut/fairline/internal/app/models/dto"
	"github.com/umut/fairline/internal/app/services"
	"github.com/umut/fairline/internal/middleware"
)

// BoothController handles slot ledger operations
type BoothController struct {
	boothService services.BoothService
}

// NewBoothController creates a new BoothController
func NewBoothController(boothService services.BoothService) *BoothController {
	return &BoothController{
		boothService: boothService,
	}
}

// GetBooth handles single booth retrieval
// @Summary Get a booth
// @Description Retrieves a booth with its current slot ledger
// @Tags booths
// @Produce json
// @Param id path int true "Booth ID"
// @Success 200 {object} dto.APIResponse{data=dto.BoothResponse} "Booth"
// @Failure 404 {object} dto.APIResponse "Booth not found"
// @Security BearerAuth
// @Router /booths/{id} [get]
func (c *BoothController) GetBooth(ctx *gin.Context) {
	boothID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid booth ID")))
		return
	}

	booth, err := c.boothService.GetBooth(ctx, boothID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(booth))
}

// AddSlot handles opening an interview slot
// @Summary Open a slot
// @Description Adds an instant to the booth's slot ledger. Duplicates are no-ops.
// @Tags booths
// @Accept json
// @Produce json
// @Param id path int true "Booth ID"
// @Param request body dto.SlotRequest true "Slot instant"
// @Success 200 {object} dto.APIResponse{data=dto.SlotMutationResponse} "Ledger after the add"
// @Failure 403 {object} dto.APIResponse "Not the booth owner"
// @Security BearerAuth
// @Router /booths/{id}/slots [post]
func (c *BoothController) AddSlot(ctx *gin.Context) {
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

	var req dto.SlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.boothService.AddSlot(ctx, principal, boothID, req.SlotAt)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// RemoveSlot handles withdrawing an open slot
// @Summary Withdraw a slot
// @Description Removes an instant from the ledger. Removing an absent instant succeeds unchanged.
// @Tags booths
// @Accept json
// @Produce json
// @Param id path int true "Booth ID"
// @Param request body dto.SlotRequest true "Slot instant"
// @Success 200 {object} dto.APIResponse{data=dto.SlotMutationResponse} "Ledger after the remove"
// @Failure 403 {object} dto.APIResponse "Not the booth owner"
// @Security BearerAuth
// @Router /booths/{id}/slots [delete]
func (c *BoothController) RemoveSlot(ctx *gin.Context) {
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

	var req dto.SlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.boothService.RemoveSlot(ctx, principal, boothID, req.SlotAt)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// ListSlots handles reading the current ledger
// @Summary List open slots
// @Description Returns the booth's open instants in ascending order
// @Tags booths
// @Produce json
// @Param id path int true "Booth ID"
// @Success 200 {object} dto.APIResponse{data=[]string} "Open instants"
// @Security BearerAuth
// @Router /booths/{id}/slots [get]
func (c *BoothController) ListSlots(ctx *gin.Context) {
	boothID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid booth ID")))
		return
	}

	slots, err := c.boothService.ListSlots(ctx, boothID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(slots))
}
