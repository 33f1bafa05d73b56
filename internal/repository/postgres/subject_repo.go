package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"samarth/internal/domain"
	"samarth/internal/port"
)

// activityLimit bounds the per-subject activity log.
const activityLimit = 20

type subjectRepo struct {
	db *sqlx.DB
}

// NewSubjectRepo creates a new PostgreSQL-backed SubjectRepository.
func NewSubjectRepo(db *sqlx.DB) port.SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) Create(ctx context.Context, subject *domain.Subject) error {
	if subject.ID == uuid.Nil {
		subject.ID = uuid.New()
	}
	now := time.Now().UTC()
	subject.CreatedAt = now
	subject.UpdatedAt = now
	if subject.VerificationStatus == "" {
		subject.VerificationStatus = domain.VerificationStatusUnverified
	}

	query := `INSERT INTO subjects (id, full_name, email, verification_status, is_verified, certificate_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		subject.ID, subject.FullName, subject.Email, subject.VerificationStatus,
		subject.IsVerified, subject.CertificateData, subject.CreatedAt, subject.UpdatedAt)
	if err != nil {
		return fmt.Errorf("subjectRepo.Create: %w", err)
	}
	return nil
}

func (r *subjectRepo) GetByID(ctx context.Context, subjectID uuid.UUID) (*domain.Subject, error) {
	var subject domain.Subject
	err := r.db.GetContext(ctx, &subject,
		"SELECT * FROM subjects WHERE id = $1", subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("subjectRepo.GetByID: %w", err)
	}
	return &subject, nil
}

func (r *subjectRepo) UpdateVerification(ctx context.Context, subjectID uuid.UUID, status domain.VerificationStatus, isVerified bool, data *domain.CertificateData) error {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("subjectRepo.UpdateVerification marshal: %w", err)
		}
		raw = b
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE subjects SET verification_status = $1, is_verified = $2,
			certificate_data = COALESCE($3, certificate_data), updated_at = NOW()
		 WHERE id = $4`,
		status, isVerified, raw, subjectID)
	if err != nil {
		return fmt.Errorf("subjectRepo.UpdateVerification: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AppendActivity inserts the entry and prunes everything older than the most
// recent activityLimit rows for the subject.
func (r *subjectRepo) AppendActivity(ctx context.Context, entry *domain.ActivityEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subject_activity (id, subject_id, action, description, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.SubjectID, entry.Action, entry.Description, entry.Metadata, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("subjectRepo.AppendActivity insert: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`DELETE FROM subject_activity WHERE subject_id = $1 AND id NOT IN (
			SELECT id FROM subject_activity WHERE subject_id = $1
			ORDER BY created_at DESC LIMIT $2)`,
		entry.SubjectID, activityLimit)
	if err != nil {
		return fmt.Errorf("subjectRepo.AppendActivity prune: %w", err)
	}
	return nil
}

func (r *subjectRepo) ListActivity(ctx context.Context, subjectID uuid.UUID) ([]domain.ActivityEntry, error) {
	var entries []domain.ActivityEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM subject_activity WHERE subject_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		subjectID, activityLimit)
	if err != nil {
		return nil, fmt.Errorf("subjectRepo.ListActivity: %w", err)
	}
	return entries, nil
}
