package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"samarth/internal/domain"
	"samarth/internal/port"
)

// CreateSubjectInput is the DTO for registering a subject profile.
type CreateSubjectInput struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// SubjectProfile bundles a subject with their recent activity log.
type SubjectProfile struct {
	Subject  *domain.Subject        `json:"subject"`
	Activity []domain.ActivityEntry `json:"activity"`
}

// SubjectService manages subject profiles and their activity logs.
type SubjectService interface {
	Create(ctx context.Context, input CreateSubjectInput) (*domain.Subject, error)
	Get(ctx context.Context, subjectID uuid.UUID) (*SubjectProfile, error)
}

type subjectService struct {
	subjects port.SubjectRepository
}

// NewSubjectService creates a new SubjectService implementation.
func NewSubjectService(subjects port.SubjectRepository) SubjectService {
	return &subjectService{subjects: subjects}
}

func (s *subjectService) Create(ctx context.Context, input CreateSubjectInput) (*domain.Subject, error) {
	subject := &domain.Subject{
		ID:                 uuid.New(),
		FullName:           strings.TrimSpace(input.FullName),
		Email:              strings.ToLower(strings.TrimSpace(input.Email)),
		VerificationStatus: domain.VerificationStatusUnverified,
	}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("creating subject: %w", err)
	}
	return subject, nil
}

func (s *subjectService) Get(ctx context.Context, subjectID uuid.UUID) (*SubjectProfile, error) {
	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	activity, err := s.subjects.ListActivity(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("listing subject activity: %w", err)
	}
	return &SubjectProfile{Subject: subject, Activity: activity}, nil
}
