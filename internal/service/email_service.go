package service

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"snapfolio/internal/config"
)

type EmailService interface {
	SendEventCompletedEmail(ctx context.Context, toEmail, hostName, eventName string, totalPhotos, processedPhotos int64) error
}

type emailService struct {
	client *resend.Client
	config *config.Config
}

func NewEmailService(cfg *config.Config) EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &emailService{
		client: client,
		config: cfg,
	}
}

func (s *emailService) SendEventCompletedEmail(ctx context.Context, toEmail, hostName, eventName string, totalPhotos, processedPhotos int64) error {
	subject := fmt.Sprintf("Your event gallery is ready: %s", eventName)

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Gallery Ready</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9fafb;">

	<div style="background: linear-gradient(135deg, #6366f1 0%%, #4f46e5 100%%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
		<h1 style="color: #ffffff; margin: 0; font-size: 28px;">Snapfolio</h1>
	</div>

	<div style="background-color: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px;">

		<h2 style="color: #111827; margin-top: 0;">Hi %s,</h2>

		<p>
			All photographers have finished uploading for <strong>%s</strong>.
			The gallery is processed and ready for your guests.
		</p>

		<div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
			<div style="margin-bottom: 10px;"><strong>Photos uploaded:</strong> %d</div>
			<div><strong>Photos processed:</strong> %d</div>
		</div>

		<p style="color: #6b7280; font-size: 14px;">
			Processed photos remain available for 7 days before they are removed from storage.
		</p>
	</div>
</body>
</html>`, hostName, eventName, totalPhotos, processedPhotos)

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{toEmail},
		Subject: subject,
		Html:    html,
	}

	_, err := s.client.Emails.Send(params)
	return err
}
