package course

import (
	"time"

	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// Course is an authored course owned by an organization. Modules, lessons and
// enrollment state hang off it in the CRUD layer; the engine only needs
// ownership and counts.
type Course struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	CoverMediaURL  string     `json:"cover_media_url,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	types.BaseModel
}

// Validate validates the course
func (c *Course) Validate() error {
	if c.OrganizationID == "" {
		return ierr.NewError("organization_id is required").
			WithHint("Course must belong to an organization").
			Mark(ierr.ErrValidation)
	}
	if c.Title == "" {
		return ierr.NewError("title is required").
			WithHint("Course title is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
