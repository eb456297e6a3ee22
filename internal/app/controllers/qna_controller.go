package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/app/models/dto"
	"github.com/umut/fairline/internal/app/services"
	"github.com/umut/fairline/internal/middleware"
)

// QnaController handles live Q&A session operations
type QnaController struct {
	qnaService services.QnaService
}

// NewQnaController creates a new QnaController
func NewQnaController(qnaService services.QnaService) *QnaController {
	return &QnaController{
		qnaService: qnaService,
	}
}

// CreateSession handles scheduling a new Q&A session
// @Summary Create a Q&A session
// @Description Schedules a session hosted by the calling recruiter
// @Tags qna
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest true "Session data"
// @Success 201 {object} dto.APIResponse{data=dto.SessionResponse} "Session created"
// @Failure 403 {object} dto.APIResponse "Not a recruiter"
// @Security BearerAuth
// @Router /qna [post]
func (c *QnaController) CreateSession(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var req dto.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	session, err := c.qnaService.CreateSession(ctx, principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(session))
}

// GetSession handles single session retrieval
// @Summary Get a Q&A session
// @Tags qna
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Session"
// @Failure 404 {object} dto.APIResponse "Session not found"
// @Security BearerAuth
// @Router /qna/{id} [get]
func (c *QnaController) GetSession(ctx *gin.Context) {
	sessionID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid session ID")))
		return
	}

	session, err := c.qnaService.GetSession(ctx, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(session))
}

// ListSessions handles session listing
// @Summary List Q&A sessions
// @Tags qna
// @Produce json
// @Param recruiterId query int false "Filter by host"
// @Success 200 {object} dto.APIResponse{data=[]dto.SessionResponse} "Sessions"
// @Security BearerAuth
// @Router /qna [get]
func (c *QnaController) ListSessions(ctx *gin.Context) {
	var recruiterID *int64
	if recruiterStr := ctx.Query("recruiterId"); recruiterStr != "" {
		parsed, err := strconv.ParseInt(recruiterStr, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid recruiter ID")))
			return
		}
		recruiterID = &parsed
	}

	sessions, err := c.qnaService.ListSessions(ctx, recruiterID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(sessions))
}

// AdvanceSession handles moving a session one step forward
// @Summary Advance a session
// @Description Moves a session scheduled -> live or live -> ended. Any other edge is rejected.
// @Tags qna
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param request body dto.AdvanceSessionRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Session after the advance"
// @Failure 403 {object} dto.APIResponse "Not the host"
// @Failure 409 {object} dto.APIResponse "Illegal transition"
// @Security BearerAuth
// @Router /qna/{id}/advance [post]
func (c *QnaController) AdvanceSession(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	sessionID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid session ID")))
		return
	}

	var req dto.AdvanceSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	session, err := c.qnaService.AdvanceSession(ctx, principal, sessionID, models.SessionStatus(req.Target))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(session))
}

// AskQuestion handles guest question submission
// @Summary Ask a question
// @Description Submits a question to a live session. Questions are rejected before and after.
// @Tags qna
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param request body dto.AskQuestionRequest true "Question text"
// @Success 201 {object} dto.APIResponse{data=dto.QuestionResponse} "Question submitted"
// @Failure 409 {object} dto.APIResponse "Session not live"
// @Security BearerAuth
// @Router /qna/{id}/questions [post]
func (c *QnaController) AskQuestion(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	sessionID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid session ID")))
		return
	}

	var req dto.AskQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	question, err := c.qnaService.AskQuestion(ctx, principal, sessionID, req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(question))
}

// AnswerQuestion handles the host answering a question
// @Summary Answer a question
// @Description Publishes the host's answer exactly once. A second attempt returns 409.
// @Tags qna
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param questionId path int true "Question ID"
// @Param request body dto.AnswerQuestionRequest true "Answer text"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionResponse} "Question with answer"
// @Failure 403 {object} dto.APIResponse "Not the host"
// @Failure 409 {object} dto.APIResponse "Already answered"
// @Security BearerAuth
// @Router /qna/{id}/questions/{questionId}/answer [post]
func (c *QnaController) AnswerQuestion(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	sessionID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid session ID")))
		return
	}

	questionID, err := strconv.ParseInt(ctx.Param("questionId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid question ID")))
		return
	}

	var req dto.AnswerQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	question, err := c.qnaService.AnswerQuestion(ctx, principal, sessionID, questionID, req.AnswerText)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(question))
}

// ListQuestions handles reading a session's questions
// @Summary List questions
// @Description Returns the session's questions. answered filters by state, order=desc returns newest first.
// @Tags qna
// @Produce json
// @Param id path int true "Session ID"
// @Param answered query bool false "Filter by answered state"
// @Param order query string false "asc or desc" default(asc)
// @Success 200 {object} dto.APIResponse{data=[]dto.QuestionResponse} "Questions"
// @Security BearerAuth
// @Router /qna/{id}/questions [get]
func (c *QnaController) ListQuestions(ctx *gin.Context) {
	sessionID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid session ID")))
		return
	}

	var answered *bool
	if answeredStr := ctx.Query("answered"); answeredStr != "" {
		parsed, err := strconv.ParseBool(answeredStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid answered filter")))
			return
		}
		answered = &parsed
	}

	newestFirst := ctx.Query("order") == "desc"

	questions, err := c.qnaService.ListQuestions(ctx, sessionID, answered, newestFirst)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(questions))
}
