package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"samarth/internal/domain"
	"samarth/internal/port"
)

type attemptRepo struct {
	db *sqlx.DB
}

// NewAttemptRepo creates a new PostgreSQL-backed AttemptRepository.
func NewAttemptRepo(db *sqlx.DB) port.AttemptRepository {
	return &attemptRepo{db: db}
}

func (r *attemptRepo) Create(ctx context.Context, attempt *domain.VerificationAttempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO verification_attempts (id, subject_id, file_name, status, reason, score, confidence, archive_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		attempt.ID, attempt.SubjectID, attempt.FileName, attempt.Status,
		attempt.Reason, attempt.Score, attempt.Confidence, attempt.ArchiveKey, attempt.CreatedAt)
	if err != nil {
		return fmt.Errorf("attemptRepo.Create: %w", err)
	}
	return nil
}

func (r *attemptRepo) GetByID(ctx context.Context, attemptID uuid.UUID) (*domain.VerificationAttempt, error) {
	var attempt domain.VerificationAttempt
	err := r.db.GetContext(ctx, &attempt,
		"SELECT * FROM verification_attempts WHERE id = $1", attemptID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("attemptRepo.GetByID: %w", err)
	}
	return &attempt, nil
}

func (r *attemptRepo) ListBySubject(ctx context.Context, subjectID uuid.UUID, offset, limit int) ([]domain.VerificationAttempt, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM verification_attempts WHERE subject_id = $1", subjectID)
	if err != nil {
		return nil, 0, fmt.Errorf("attemptRepo.ListBySubject count: %w", err)
	}

	var attempts []domain.VerificationAttempt
	err = r.db.SelectContext(ctx, &attempts,
		`SELECT * FROM verification_attempts WHERE subject_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		subjectID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("attemptRepo.ListBySubject: %w", err)
	}
	return attempts, total, nil
}

func (r *attemptRepo) ListByStatus(ctx context.Context, status domain.VerificationStatus, offset, limit int) ([]domain.VerificationAttempt, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM verification_attempts WHERE status = $1", status)
	if err != nil {
		return nil, 0, fmt.Errorf("attemptRepo.ListByStatus count: %w", err)
	}

	var attempts []domain.VerificationAttempt
	err = r.db.SelectContext(ctx, &attempts,
		`SELECT * FROM verification_attempts WHERE status = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("attemptRepo.ListByStatus: %w", err)
	}
	return attempts, total, nil
}
