package types

import (
	ierr "github.com/courseforge/courseforge/internal/errors"
)

// ResourceType identifies a quota-bound resource of an organization.
type ResourceType string

const (
	ResourceCourses     ResourceType = "courses"
	ResourceInstructors ResourceType = "instructors"
	ResourceLearners    ResourceType = "learners"
)

func (r ResourceType) Validate() error {
	switch r {
	case ResourceCourses, ResourceInstructors, ResourceLearners:
		return nil
	}
	return ierr.NewError("invalid resource type").
		WithHint("Resource must be one of courses, instructors, learners").
		WithReportableDetails(map[string]interface{}{
			"resource": string(r),
		}).
		Mark(ierr.ErrValidation)
}

// UsageCounts is a snapshot of an organization's current resource counts.
// Counts are live aggregates, not transactionally consistent with any write
// that follows.
type UsageCounts struct {
	Courses     int `json:"courses"`
	Instructors int `json:"instructors"`
	Learners    int `json:"learners"`
}

// Get returns the count for a resource type.
func (u UsageCounts) Get(r ResourceType) int {
	switch r {
	case ResourceCourses:
		return u.Courses
	case ResourceInstructors:
		return u.Instructors
	case ResourceLearners:
		return u.Learners
	}
	return 0
}

// PlanLimits is the closed record of per-resource maximums. A nil field means
// unlimited. It replaces the upstream stringly-keyed "max_"+feature maps so a
// typo cannot silently grant unlimited quota.
type PlanLimits struct {
	MaxCourses     *int `json:"max_courses"`
	MaxInstructors *int `json:"max_instructors"`
	MaxLearners    *int `json:"max_learners"`
}

// Max returns the limit for a resource type, nil meaning unlimited.
func (l PlanLimits) Max(r ResourceType) *int {
	switch r {
	case ResourceCourses:
		return l.MaxCourses
	case ResourceInstructors:
		return l.MaxInstructors
	case ResourceLearners:
		return l.MaxLearners
	}
	return nil
}
