package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"studyhall-backend/internal/models"
	"studyhall-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
	Kind  string `json:"kind,omitempty" example:"not_found"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// respondError maps domain errors to HTTP statuses with a machine-readable
// kind: not_found 404, forbidden 403, invalid 400, conflict 409 (state machine
// violations). Anything unrecognized is logged and becomes a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrCourseNotFound),
		errors.Is(err, models.ErrNoteNotFound),
		errors.Is(err, models.ErrQuizNotFound),
		errors.Is(err, models.ErrQuestionNotFound),
		errors.Is(err, models.ErrAttemptNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Kind: "not_found"})

	case errors.Is(err, models.ErrNotCourseOwner),
		errors.Is(err, models.ErrNotAttemptOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error(), Kind: "forbidden"})

	case errors.Is(err, models.ErrQuizHasNoQuestions),
		errors.Is(err, models.ErrTooFewOptions),
		errors.Is(err, models.ErrOptionNotInQuestion),
		errors.Is(err, models.ErrExactlyOneCorrect):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "invalid"})

	case errors.Is(err, models.ErrNotCurrentQuestion),
		errors.Is(err, models.ErrAlreadyAnswered),
		errors.Is(err, models.ErrQuestionUnanswered),
		errors.Is(err, models.ErrAttemptNotComplete),
		errors.Is(err, models.ErrAttemptCompleted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Kind: "conflict"})

	default:
		logger.Log.Error("internal server error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name, Kind: "invalid"})
		return 0, false
	}
	return uint(id), true
}
