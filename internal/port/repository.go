package port

import (
	"context"

	"github.com/google/uuid"

	"samarth/internal/domain"
)

// SubjectRepository defines the contract for subject profile persistence.
type SubjectRepository interface {
	Create(ctx context.Context, subject *domain.Subject) error
	GetByID(ctx context.Context, subjectID uuid.UUID) (*domain.Subject, error)
	UpdateVerification(ctx context.Context, subjectID uuid.UUID, status domain.VerificationStatus, isVerified bool, data *domain.CertificateData) error
	AppendActivity(ctx context.Context, entry *domain.ActivityEntry) error
	ListActivity(ctx context.Context, subjectID uuid.UUID) ([]domain.ActivityEntry, error)
}

// AttemptRepository defines the contract for verification attempt persistence.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *domain.VerificationAttempt) error
	GetByID(ctx context.Context, attemptID uuid.UUID) (*domain.VerificationAttempt, error)
	ListBySubject(ctx context.Context, subjectID uuid.UUID, offset, limit int) ([]domain.VerificationAttempt, int, error)
	ListByStatus(ctx context.Context, status domain.VerificationStatus, offset, limit int) ([]domain.VerificationAttempt, int, error)
}
