package scripts

import (
	"context"
	"os"

	"github.com/gocarina/gocsv"

	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/service"
	"github.com/courseforge/courseforge/internal/types"
)

// LearnerImportRow is one line of the learner import CSV.
type LearnerImportRow struct {
	Email    string `csv:"email"`
	FullName string `csv:"full_name"`
}

// ImportLearners bulk-enrolls learners from a CSV file. Each row goes through
// the regular roster path, so the plan gate applies: the import stops at the
// first denial instead of blowing past the limit.
func ImportLearners(ctx context.Context, roster service.RosterService, organizationID, csvPath string, log *logger.Logger) (int, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to open CSV file").
			WithReportableDetails(map[string]any{"path": csvPath}).
			Mark(ierr.ErrValidation)
	}
	defer f.Close()

	var rows []*LearnerImportRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to parse CSV file").
			Mark(ierr.ErrValidation)
	}

	ctx = types.SetUserID(ctx, types.DefaultUserID)

	imported := 0
	for i, row := range rows {
		if row.Email == "" {
			log.Warnw("skipping row without email", "row", i+1)
			continue
		}
		if _, err := roster.EnrollLearner(ctx, organizationID, row.Email, row.FullName); err != nil {
			if ierr.IsLimitExceeded(err) {
				log.Errorw("plan limit reached, stopping import",
					"imported", imported, "remaining", len(rows)-i)
				return imported, err
			}
			log.Errorw("failed to enroll learner", "row", i+1, "email", row.Email, "error", err)
			continue
		}
		imported++
	}

	log.Infow("learner import finished", "imported", imported, "total_rows", len(rows))
	return imported, nil
}
