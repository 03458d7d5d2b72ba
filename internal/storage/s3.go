package storage

import (
	"bytes"
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"

	"github.com/courseforge/courseforge/internal/config"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/types"
)

// MediaStore persists uploaded media and returns public URLs.
type MediaStore interface {
	// Upload validates and stores a media file, returning its public URL.
	Upload(ctx context.Context, organizationID, filename string, data []byte) (string, error)
}

type s3Store struct {
	client *s3.Client
	bucket string
	region string
	maxLen int64
	logger *logger.Logger
}

// NewS3MediaStore creates an S3-backed media store.
func NewS3MediaStore(ctx context.Context, cfg *config.Configuration, log *logger.Logger) (MediaStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Storage.Region))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load AWS configuration").
			Mark(ierr.ErrSystem)
	}

	return &s3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Storage.S3Bucket,
		region: cfg.Storage.Region,
		maxLen: cfg.Storage.MaxUploadBytes,
		logger: log,
	}, nil
}

// Upload rejects files over the size cap and files that are not images or
// video. Type detection reads the magic bytes, not the filename.
func (s *s3Store) Upload(ctx context.Context, organizationID, filename string, data []byte) (string, error) {
	if int64(len(data)) > s.maxLen {
		return "", ierr.NewError("file too large").
			WithHint("The uploaded file exceeds the maximum allowed size").
			WithReportableDetails(map[string]any{
				"size_bytes": len(data),
				"max_bytes":  s.maxLen,
			}).
			Mark(ierr.ErrValidation)
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "", ierr.NewError("unrecognized file type").
			WithHint("Only image and video uploads are supported").
			Mark(ierr.ErrValidation)
	}
	if !filetype.IsImage(data) && !filetype.IsVideo(data) {
		return "", ierr.NewError("unsupported file type").
			WithHint("Only image and video uploads are supported").
			WithReportableDetails(map[string]any{"detected": kind.MIME.Value}).
			Mark(ierr.ErrValidation)
	}

	key := fmt.Sprintf("media/%s/%s.%s",
		organizationID, types.GenerateUUID(), kind.Extension)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &kind.MIME.Value,
	})
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to store media file").
			Mark(ierr.ErrSystem)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	s.logger.Debugw("uploaded media", "key", key, "organization_id", organizationID, "filename", filename)
	return url, nil
}
