package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"codeclash/internal/models"
)

var ErrNoReportAddress = errors.New("no report address on profile")

// ReportService sends learner progress summaries via Amazon SES. When
// no sender address is configured the service is disabled and every
// send becomes a logged no-op.
type ReportService struct {
	client    *sesv2.Client
	fromEmail string
	enabled   bool
}

// NewReportService creates a new report service
func NewReportService(awsRegion, fromEmail string) (*ReportService, error) {
	if fromEmail == "" {
		log.Println("Report service disabled: REPORT_FROM_ADDRESS not configured")
		return &ReportService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Report service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &ReportService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		enabled:   true,
	}, nil
}

// IsEnabled returns whether the report service is enabled
func (s *ReportService) IsEnabled() bool {
	return s.enabled
}

// SendProgressReport emails a learner's progress summary to the
// instructor address on the learner profile.
func (s *ReportService) SendProgressReport(ctx context.Context, progress *models.LearnerProgress) error {
	toEmail := progress.Learner.Email
	if toEmail == "" {
		return fmt.Errorf("learner %d: %w", progress.Learner.ID, ErrNoReportAddress)
	}
	if !s.enabled {
		log.Printf("Skipping report send (service disabled): progress report to %s", toEmail)
		return nil
	}

	name := progress.Learner.DisplayName
	if name == "" {
		name = progress.Learner.Username
	}

	subject := fmt.Sprintf("CodeClash progress report for %s", name)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Progress report for %s</h2>
	<ul>
		<li>Puzzles attempted: %d</li>
		<li>Puzzles solved: %d</li>
		<li>Points earned: %d</li>
		<li>Hints used: %d</li>
		<li>Current difficulty: %s</li>
	</ul>
	<p style="font-size: 12px; color: #666;">This is an automated email from CodeClash. Please do not reply.</p>
</body>
</html>
`, name, progress.TotalAttempts, progress.SolvedAttempts, progress.TotalPoints, progress.TotalHints, progress.Difficulty)

	textBody := fmt.Sprintf(`Progress report for %s

Puzzles attempted: %d
Puzzles solved: %d
Points earned: %d
Hints used: %d
Current difficulty: %s

---
This is an automated email from CodeClash. Please do not reply.
`, name, progress.TotalAttempts, progress.SolvedAttempts, progress.TotalPoints, progress.TotalHints, progress.Difficulty)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *ReportService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("CodeClash <%s>", s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
