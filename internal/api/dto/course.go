package dto

import (
	"context"

	"github.com/courseforge/courseforge/internal/domain/course"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// CreateCourseRequest is the payload for authoring a new course.
type CreateCourseRequest struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description,omitempty"`
}

func (r *CreateCourseRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid course request").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToCourse builds the domain course.
func (r *CreateCourseRequest) ToCourse(ctx context.Context) *course.Course {
	return &course.Course{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COURSE),
		OrganizationID: r.OrganizationID,
		Title:          r.Title,
		Description:    r.Description,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

// CourseResponse is the API representation of a course.
type CourseResponse struct {
	*course.Course
}

// NewCourseResponse builds the response for a course.
func NewCourseResponse(c *course.Course) *CourseResponse {
	return &CourseResponse{Course: c}
}
