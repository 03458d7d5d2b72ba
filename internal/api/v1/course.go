package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courseforge/courseforge/internal/api/dto"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/service"
	"github.com/courseforge/courseforge/internal/types"
)

// CourseHandler serves course authoring and roster management.
type CourseHandler struct {
	courses service.CourseService
	roster  service.RosterService
}

func NewCourseHandler(courses service.CourseService, roster service.RosterService) *CourseHandler {
	return &CourseHandler{courses: courses, roster: roster}
}

// CreateCourse handles POST /v1/courses.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.courses.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetCourse handles GET /v1/courses/:id.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	resp, err := h.courses.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListCourses handles GET /v1/organizations/:id/courses.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var query types.QueryFilter
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	items, err := h.courses.ListCourses(c.Request.Context(), c.Param("id"), &query)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// PublishCourse handles POST /v1/courses/:id/publish.
func (h *CourseHandler) PublishCourse(c *gin.Context) {
	resp, err := h.courses.PublishCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteCourse handles DELETE /v1/courses/:id.
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	if err := h.courses.DeleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type addMemberRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name"`
}

// AddInstructor handles POST /v1/organizations/:id/instructors.
func (h *CourseHandler) AddInstructor(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	member, err := h.roster.AddInstructor(c.Request.Context(), c.Param("id"), req.Email, req.FullName)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// EnrollLearner handles POST /v1/organizations/:id/learners.
func (h *CourseHandler) EnrollLearner(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	member, err := h.roster.EnrollLearner(c.Request.Context(), c.Param("id"), req.Email, req.FullName)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, member)
}
