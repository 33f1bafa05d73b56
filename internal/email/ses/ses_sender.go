package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"samarth/internal/domain"
	"samarth/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendOutcomeEmail(ctx context.Context, toEmail, toName string, outcome *domain.VerificationOutcome) error {
	subject, textBody := outcomeBody(toName, outcome)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func outcomeBody(name string, outcome *domain.VerificationOutcome) (subject, body string) {
	switch outcome.Status {
	case domain.VerificationStatusVerified:
		subject = "Your disability certificate has been verified"
	case domain.VerificationStatusPending:
		subject = "Your disability certificate needs a manual review"
	default:
		subject = "Your disability certificate could not be verified"
	}
	body = fmt.Sprintf("Hi %s,\n\n%s\n\nSamarth Verification Team", name, outcome.Message)
	return subject, body
}
