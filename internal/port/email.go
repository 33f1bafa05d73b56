package port

import (
	"context"

	"samarth/internal/domain"
)

// EmailSender defines the contract for outcome notification emails.
type EmailSender interface {
	SendOutcomeEmail(ctx context.Context, toEmail, toName string, outcome *domain.VerificationOutcome) error
}
