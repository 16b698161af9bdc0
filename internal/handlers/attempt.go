package handlers

import (
	"net/http"

	"studyhall-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	attemptService *services.AttemptService
}

func NewAttemptHandler(attemptService *services.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

type SubmitAnswerRequest struct {
	QuestionID uint `json:"question_id" binding:"required" example:"7"`
	AnswerID   uint `json:"answer_id" binding:"required" example:"21"`
}

// StartAttempt godoc
// @Summary      Start a quiz attempt
// @Description  Creates a new attempt and returns the first question
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      201 {object} services.AttemptHandle
// @Failure      404 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/attempts [post]
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	userID := c.GetUint("user_id")
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}

	handle, err := h.attemptService.Start(c.Request.Context(), quizID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handle)
}

// RetakeQuiz godoc
// @Summary      Retake a quiz
// @Description  Always creates a fresh, independent attempt
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      201 {object} services.AttemptHandle
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/attempts/retake [post]
func (h *AttemptHandler) RetakeQuiz(c *gin.Context) {
	userID := c.GetUint("user_id")
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}

	handle, err := h.attemptService.Retake(c.Request.Context(), quizID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handle)
}

// NextQuestion godoc
// @Summary      Advance to the next question
// @Description  Moves the cursor past the answered current question; 409 when it is unanswered
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Attempt ID"
// @Success      200 {object} services.NextResult
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/next [post]
func (h *AttemptHandler) NextQuestion(c *gin.Context) {
	userID := c.GetUint("user_id")
	attemptID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.attemptService.Next(c.Request.Context(), attemptID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitAnswer godoc
// @Summary      Submit an answer for the current question
// @Description  Records the answer once and reveals the correct option
// @Tags         attempts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Attempt ID"
// @Param        request body SubmitAnswerRequest true "Answer"
// @Success      200 {object} services.SubmissionResult
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/answers [post]
func (h *AttemptHandler) SubmitAnswer(c *gin.Context) {
	userID := c.GetUint("user_id")
	attemptID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "invalid"})
		return
	}

	result, err := h.attemptService.Submit(c.Request.Context(), attemptID, userID, req.QuestionID, req.AnswerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetResult godoc
// @Summary      Get the attempt result
// @Description  Finalizes the attempt when all questions are answered and returns the canonical score
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Attempt ID"
// @Success      200 {object} services.AttemptResult
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/result [get]
func (h *AttemptHandler) GetResult(c *gin.Context) {
	userID := c.GetUint("user_id")
	attemptID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.attemptService.Finalize(c.Request.Context(), attemptID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAttempt godoc
// @Summary      Get attempt progress
// @Description  Returns cursor position and the current question for resume
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Attempt ID"
// @Success      200 {object} services.AttemptProgress
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/attempts/{id} [get]
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	userID := c.GetUint("user_id")
	attemptID, ok := pathID(c, "id")
	if !ok {
		return
	}

	progress, err := h.attemptService.Progress(c.Request.Context(), attemptID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// ListAttempts godoc
// @Summary      List my attempts
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.Attempt
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/attempts [get]
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	userID := c.GetUint("user_id")

	attempts, err := h.attemptService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}
