package postgres

import (
	"context"
	"database/sql"

	"github.com/courseforge/courseforge/internal/domain/course"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/types"
)

type courseRepository struct {
	db  *sql.DB
	log *logger.Logger
}

// NewCourseRepository creates a postgres-backed course repository
func NewCourseRepository(db *sql.DB, log *logger.Logger) course.Repository {
	return &courseRepository{db: db, log: log}
}

const courseColumns = `id, organization_id, title, description, cover_media_url, published_at,
	status, created_at, updated_at, created_by, updated_by`

func (r *courseRepository) Create(ctx context.Context, c *course.Course) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO courses (`+courseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.OrganizationID, c.Title, c.Description, c.CoverMediaURL, c.PublishedAt,
		c.Status, c.CreatedAt, c.UpdatedAt, c.CreatedBy, c.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create course").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *courseRepository) Get(ctx context.Context, id string) (*course.Course, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+courseColumns+`
		FROM courses
		WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted,
	)
	c, err := scanCourse(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("course not found").
				WithHint("Course not found").
				WithReportableDetails(map[string]interface{}{
					"id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get course").
			Mark(ierr.ErrDatabase)
	}
	return c, nil
}

func (r *courseRepository) Update(ctx context.Context, c *course.Course) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE courses
		SET title = $2, description = $3, cover_media_url = $4, published_at = $5,
			updated_at = $6, updated_by = $7
		WHERE id = $1 AND status != $8`,
		c.ID, c.Title, c.Description, c.CoverMediaURL, c.PublishedAt,
		c.UpdatedAt, c.UpdatedBy, types.StatusDeleted,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update course").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("course not found").
			WithHint("Course not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE courses SET status = $2 WHERE id = $1`,
		id, types.StatusDeleted,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete course").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *courseRepository) CountByOrganization(ctx context.Context, organizationID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM courses
		WHERE organization_id = $1 AND status != $2`,
		organizationID, types.StatusDeleted,
	).Scan(&count)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count courses").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *courseRepository) ListByOrganization(ctx context.Context, organizationID string, filter *types.QueryFilter) ([]*course.Course, error) {
	query := `SELECT ` + courseColumns + `
		FROM courses
		WHERE organization_id = $1 AND status != $2
		ORDER BY created_at DESC`
	if limit := filter.GetLimit(); limit > 0 {
		query += ` LIMIT ` + itoa(limit) + ` OFFSET ` + itoa(filter.GetOffset())
	}

	rows, err := r.db.QueryContext(ctx, query, organizationID, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list courses").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var courses []*course.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan course").
				Mark(ierr.ErrDatabase)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func scanCourse(row rowScanner) (*course.Course, error) {
	var c course.Course
	err := row.Scan(
		&c.ID, &c.OrganizationID, &c.Title, &c.Description, &c.CoverMediaURL, &c.PublishedAt,
		&c.Status, &c.CreatedAt, &c.UpdatedAt, &c.CreatedBy, &c.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
