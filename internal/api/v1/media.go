package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/service"
	"github.com/courseforge/courseforge/internal/storage"
)

// MediaHandler serves course media uploads.
type MediaHandler struct {
	media   storage.MediaStore
	courses service.CourseService
}

func NewMediaHandler(media storage.MediaStore, courses service.CourseService) *MediaHandler {
	return &MediaHandler{media: media, courses: courses}
}

// UploadCourseCover handles POST /v1/courses/:id/cover (multipart form,
// field "file"). The stored URL is written onto the course.
func (h *MediaHandler) UploadCourseCover(c *gin.Context) {
	course, err := h.courses.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("A file upload is required").
			Mark(ierr.ErrValidation))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to read uploaded file").
			Mark(ierr.ErrValidation))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to read uploaded file").
			Mark(ierr.ErrValidation))
		return
	}

	url, err := h.media.Upload(c.Request.Context(), course.OrganizationID, fileHeader.Filename, data)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.courses.SetCoverMedia(c.Request.Context(), course.ID, url)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
