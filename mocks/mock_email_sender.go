package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"samarth/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendOutcomeEmail(ctx context.Context, toEmail, toName string, outcome *domain.VerificationOutcome) error {
	args := m.Called(ctx, toEmail, toName, outcome)
	return args.Error(0)
}
