package noop

import (
	"context"
	"log"

	"samarth/internal/domain"
	"samarth/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs outcomes to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendOutcomeEmail(_ context.Context, toEmail, toName string, outcome *domain.VerificationOutcome) error {
	log.Printf("[NOOP EMAIL] Verification outcome for %s (%s): status=%s message=%q", toName, toEmail, outcome.Status, outcome.Message)
	return nil
}
