package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"samarth/internal/config"
	"samarth/internal/domain"
	"samarth/internal/export"
	"samarth/internal/port"
)

const defaultArchiveURLExpirySecs = 900

// AttemptPage is one page of verification attempts.
type AttemptPage struct {
	Attempts []domain.VerificationAttempt `json:"attempts"`
	Total    int                          `json:"total"`
	Offset   int                          `json:"offset"`
	Limit    int                          `json:"limit"`
}

// ReviewService serves the manual-review side: attempt listings, the pending
// queue export, and access to archived certificate images.
type ReviewService interface {
	ListAttempts(ctx context.Context, status domain.VerificationStatus, subjectID uuid.UUID, offset, limit int) (*AttemptPage, error)
	ExportPending(ctx context.Context, w io.Writer) error
	ArchiveURL(ctx context.Context, attemptID uuid.UUID) (string, error)
	ArchiveImage(ctx context.Context, attemptID uuid.UUID) (*domain.VerificationAttempt, []byte, error)
}

type reviewService struct {
	attempts port.AttemptRepository
	storage  port.ObjectStorage
	s3Cfg    *config.S3Config
}

// NewReviewService creates a new ReviewService implementation.
func NewReviewService(attempts port.AttemptRepository, storage port.ObjectStorage, s3Cfg *config.S3Config) ReviewService {
	return &reviewService{attempts: attempts, storage: storage, s3Cfg: s3Cfg}
}

// ListAttempts pages through attempts, newest first. A non-nil subject ID
// takes precedence over the status filter.
func (s *reviewService) ListAttempts(ctx context.Context, status domain.VerificationStatus, subjectID uuid.UUID, offset, limit int) (*AttemptPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var (
		attempts []domain.VerificationAttempt
		total    int
		err      error
	)
	switch {
	case subjectID != uuid.Nil:
		attempts, total, err = s.attempts.ListBySubject(ctx, subjectID, offset, limit)
	default:
		if status == "" {
			status = domain.VerificationStatusPending
		}
		attempts, total, err = s.attempts.ListByStatus(ctx, status, offset, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("listing attempts: %w", err)
	}
	return &AttemptPage{Attempts: attempts, Total: total, Offset: offset, Limit: limit}, nil
}

// ExportPending streams the full pending queue as an XLSX workbook.
func (s *reviewService) ExportPending(ctx context.Context, w io.Writer) error {
	const pageSize = 500
	var all []domain.VerificationAttempt
	for offset := 0; ; offset += pageSize {
		page, total, err := s.attempts.ListByStatus(ctx, domain.VerificationStatusPending, offset, pageSize)
		if err != nil {
			return fmt.Errorf("loading pending attempts: %w", err)
		}
		all = append(all, page...)
		if offset+pageSize >= total || len(page) == 0 {
			break
		}
	}
	if err := export.WriteAttempts(w, all); err != nil {
		return fmt.Errorf("exporting pending attempts: %w", err)
	}
	return nil
}

// ArchiveURL returns a short-lived presigned URL for an attempt's archived
// certificate image.
func (s *reviewService) ArchiveURL(ctx context.Context, attemptID uuid.UUID) (string, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		return "", err
	}
	if attempt.ArchiveKey == "" {
		return "", domain.ErrNotFound
	}
	expiry := s.s3Cfg.PresignExpiry
	if expiry <= 0 {
		expiry = defaultArchiveURLExpirySecs
	}
	url, err := s.storage.GetPresignedURL(ctx, s.s3Cfg.Bucket, attempt.ArchiveKey, expiry)
	if err != nil {
		return "", fmt.Errorf("presigning archive URL: %w", err)
	}
	return url, nil
}

// ArchiveImage loads an attempt's archived certificate image for reviewers
// whose clients cannot follow presigned URLs.
func (s *reviewService) ArchiveImage(ctx context.Context, attemptID uuid.UUID) (*domain.VerificationAttempt, []byte, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		return nil, nil, err
	}
	if attempt.ArchiveKey == "" {
		return nil, nil, domain.ErrNotFound
	}
	data, err := s.storage.Download(ctx, s.s3Cfg.Bucket, attempt.ArchiveKey)
	if err != nil {
		return nil, nil, fmt.Errorf("downloading archived certificate: %w", err)
	}
	return attempt, data, nil
}
