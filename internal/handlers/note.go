package handlers

import (
	"net/http"

	"studyhall-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	noteService *services.NoteService
}

func NewNoteHandler(noteService *services.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

type NoteRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=255" example:"Lecture 3"`
	Content string `json:"content"`
}

// ListNotes godoc
// @Summary      List notes in a course
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Course ID"
// @Success      200 {array} models.Note
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/courses/{id}/notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	userID := c.GetUint("user_id")
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	notes, err := h.noteService.ListNotes(courseID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notes)
}

// CreateNote godoc
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Course ID"
// @Param        request body NoteRequest true "Note data"
// @Success      201 {object} models.Note
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/courses/{id}/notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	userID := c.GetUint("user_id")
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "invalid"})
		return
	}

	note, err := h.noteService.CreateNote(courseID, userID, req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// GetNote godoc
// @Summary      Get a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Note ID"
// @Success      200 {object} models.Note
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/notes/{id} [get]
func (h *NoteHandler) GetNote(c *gin.Context) {
	userID := c.GetUint("user_id")
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	note, err := h.noteService.GetNote(noteID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// UpdateNote godoc
// @Summary      Update a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Note ID"
// @Param        request body NoteRequest true "Note data"
// @Success      200 {object} models.Note
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/notes/{id} [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	userID := c.GetUint("user_id")
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "invalid"})
		return
	}

	note, err := h.noteService.UpdateNote(noteID, userID, req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// DeleteNote godoc
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Note ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	userID := c.GetUint("user_id")
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.noteService.DeleteNote(noteID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "note deleted"})
}
