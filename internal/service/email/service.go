package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"afyalink/internal/config"
)

type Service interface {
	SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error
	SendEmergencyAlertEmail(ctx context.Context, title, message string) error
}

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
	}
}

func (s *service) sendEmail(toEmail, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("AfyaLink EMS <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    html,
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}

func (s *service) SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error {
	html := fmt.Sprintf(`
		<h2>Welcome to AfyaLink EMS</h2>
		<p>Hi %s,</p>
		<p>Your staff account has been created. Sign in at <a href="https://%s/login">https://%s/login</a>.</p>`,
		fullName, s.config.Domain, s.config.Domain)
	return s.sendEmail(toEmail, "Welcome to AfyaLink EMS", html)
}

// SendEmergencyAlertEmail forwards a gateway emergency alert to the on-call
// address, if one is configured.
func (s *service) SendEmergencyAlertEmail(ctx context.Context, title, message string) error {
	if s.config.OnCallEmail == "" {
		return nil
	}
	html := fmt.Sprintf(`
		<h2>%s</h2>
		<p>%s</p>
		<p>Open the dashboard for details: <a href="https://%s">https://%s</a></p>`,
		title, message, s.config.Domain, s.config.Domain)
	return s.sendEmail(s.config.OnCallEmail, "[EMERGENCY] "+title, html)
}
