package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"samarth/internal/domain"
)

// MockSubjectRepo is a mock implementation of port.SubjectRepository.
type MockSubjectRepo struct {
	mock.Mock
}

func (m *MockSubjectRepo) Create(ctx context.Context, subject *domain.Subject) error {
	args := m.Called(ctx, subject)
	return args.Error(0)
}

func (m *MockSubjectRepo) GetByID(ctx context.Context, subjectID uuid.UUID) (*domain.Subject, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subject), args.Error(1)
}

func (m *MockSubjectRepo) UpdateVerification(ctx context.Context, subjectID uuid.UUID, status domain.VerificationStatus, isVerified bool, data *domain.CertificateData) error {
	args := m.Called(ctx, subjectID, status, isVerified, data)
	return args.Error(0)
}

func (m *MockSubjectRepo) AppendActivity(ctx context.Context, entry *domain.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockSubjectRepo) ListActivity(ctx context.Context, subjectID uuid.UUID) ([]domain.ActivityEntry, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityEntry), args.Error(1)
}

// MockAttemptRepo is a mock implementation of port.AttemptRepository.
type MockAttemptRepo struct {
	mock.Mock
}

func (m *MockAttemptRepo) Create(ctx context.Context, attempt *domain.VerificationAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepo) GetByID(ctx context.Context, attemptID uuid.UUID) (*domain.VerificationAttempt, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationAttempt), args.Error(1)
}

func (m *MockAttemptRepo) ListBySubject(ctx context.Context, subjectID uuid.UUID, offset, limit int) ([]domain.VerificationAttempt, int, error) {
	args := m.Called(ctx, subjectID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.VerificationAttempt), args.Int(1), args.Error(2)
}

func (m *MockAttemptRepo) ListByStatus(ctx context.Context, status domain.VerificationStatus, offset, limit int) ([]domain.VerificationAttempt, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.VerificationAttempt), args.Int(1), args.Error(2)
}
