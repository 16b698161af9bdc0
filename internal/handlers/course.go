package handlers

import (
	"net/http"

	"studyhall-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	courseService *services.CourseService
}

func NewCourseHandler(courseService *services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

type CourseRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255" example:"Linear Algebra"`
	Description string `json:"description" binding:"max=2000"`
}

// ListCourses godoc
// @Summary      List courses
// @Description  Get all courses owned by the authenticated user
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.Course
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	userID := c.GetUint("user_id")

	courses, err := h.courseService.ListCourses(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// CreateCourse godoc
// @Summary      Create a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CourseRequest true "Course data"
// @Success      201 {object} models.Course
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "invalid"})
		return
	}

	course, err := h.courseService.CreateCourse(userID, req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourse godoc
// @Summary      Get a course
// @Description  Get a course with its notes and quizzes
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Course ID"
// @Success      200 {object} models.Course
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	userID := c.GetUint("user_id")
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	course, err := h.courseService.GetCourse(courseID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourse godoc
// @Summary      Update a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Course ID"
// @Param        request body CourseRequest true "Course data"
// @Success      200 {object} models.Course
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	userID := c.GetUint("user_id")
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "invalid"})
		return
	}

	course, err := h.courseService.UpdateCourse(courseID, userID, req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse godoc
// @Summary      Delete a course
// @Description  Delete a course and everything in it
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Course ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	userID := c.GetUint("user_id")
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.courseService.DeleteCourse(courseID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "course deleted"})
}
