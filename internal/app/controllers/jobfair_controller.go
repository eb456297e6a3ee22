package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/umut/fairline/internal/app/models/dto"
	"github.com/umut/fairline/internal/app/services"
	"github.com/umut/fairline/internal/middleware"
	"github.com/umut/fairline/internal/pkg/helpers"
)

// JobFairController handles job fair lifecycle operations
type JobFairController struct {
	jobFairService services.JobFairService
}

// NewJobFairController creates a new JobFairController
func NewJobFairController(jobFairService services.JobFairService) *JobFairController {
	return &JobFairController{
		jobFairService: jobFairService,
	}
}

// CreateFair handles fair creation
// @Summary Create a job fair
// @Description Creates a fair owned by the calling recruiter
// @Tags fairs
// @Accept json
// @Produce json
// @Param request body dto.CreateJobFairRequest true "Fair data"
// @Success 201 {object} dto.APIResponse{data=dto.JobFairResponse} "Fair created"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 403 {object} dto.APIResponse "Not a recruiter"
// @Security BearerAuth
// @Router /fairs [post]
func (c *JobFairController) CreateFair(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var req dto.CreateJobFairRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	fair, err := c.jobFairService.CreateFair(ctx, principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(fair))
}

// GetFair handles single fair retrieval
// @Summary Get a job fair
// @Description Retrieves a fair with its display status derived at read time
// @Tags fairs
// @Produce json
// @Param id path int true "Fair ID"
// @Success 200 {object} dto.APIResponse{data=dto.JobFairResponse} "Fair"
// @Failure 404 {object} dto.APIResponse "Fair not found"
// @Security BearerAuth
// @Router /fairs/{id} [get]
func (c *JobFairController) GetFair(ctx *gin.Context) {
	fairID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid fair ID")))
		return
	}

	fair, err := c.jobFairService.GetFair(ctx, fairID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(fair))
}

// ListFairs handles fair listing with filters and pagination
// @Summary List job fairs
// @Description Retrieves fairs filtered by organizer and free-text search
// @Tags fairs
// @Produce json
// @Param organizerId query int false "Filter by organizer"
// @Param search query string false "Title search"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.JobFairListResponse} "Fairs"
// @Security BearerAuth
// @Router /fairs [get]
func (c *JobFairController) ListFairs(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	filter := &dto.JobFairFilterRequest{
		Page:     page,
		PageSize: pageSize,
	}

	if organizerStr := ctx.Query("organizerId"); organizerStr != "" {
		organizerID, err := strconv.ParseInt(organizerStr, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid organizer ID")))
			return
		}
		filter.OrganizerID = &organizerID
	}
	if search := ctx.Query("search"); search != "" {
		filter.Search = &search
	}

	fairs, err := c.jobFairService.ListFairs(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(fairs))
}

// DeleteFair handles fair deletion with cascade
// @Summary Delete a job fair
// @Description Removes the fair and all its booths, slots and appointments atomically
// @Tags fairs
// @Produce json
// @Param id path int true "Fair ID"
// @Success 200 {object} dto.APIResponse "Fair deleted"
// @Failure 403 {object} dto.APIResponse "Not the organizer"
// @Security BearerAuth
// @Router /fairs/{id} [delete]
func (c *JobFairController) DeleteFair(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	fairID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid fair ID")))
		return
	}

	if err := c.jobFairService.DeleteFair(ctx, principal, fairID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"message": "Fair deleted successfully"}))
}

// CreateBooth handles booth registration under a fair
// @Summary Register a booth
// @Description Registers the calling recruiter's company booth under a fair
// @Tags fairs
// @Accept json
// @Produce json
// @Param id path int true "Fair ID"
// @Param request body dto.CreateBoothRequest true "Booth data"
// @Success 201 {object} dto.APIResponse{data=dto.BoothResponse} "Booth registered"
// @Failure 404 {object} dto.APIResponse "Fair not found"
// @Security BearerAuth
// @Router /fairs/{id}/booths [post]
func (c *JobFairController) CreateBooth(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	fairID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid fair ID")))
		return
	}

	var req dto.CreateBoothRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	booth, err := c.jobFairService.CreateBooth(ctx, principal, fairID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(booth))
}

// ListBooths handles booth listing for a fair
// @Summary List booths of a fair
// @Description Retrieves all booths with their current slot ledgers
// @Tags fairs
// @Produce json
// @Param id path int true "Fair ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.BoothResponse} "Booths"
// @Security BearerAuth
// @Router /fairs/{id}/booths [get]
func (c *JobFairController) ListBooths(ctx *gin.Context) {
	fairID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid fair ID")))
		return
	}

	booths, err := c.jobFairService.ListBooths(ctx, fairID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(booths))
}
