package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, name string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to Cipher Haven")
	m.SetBody("text/html", WelcomeBody(name))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func WelcomeBody(name string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`
		<h2>Welcome to Cipher Haven, %s!</h2>
		<p>Your account has been verified and is ready to use.</p>
		<p>You can sign in at any time to manage reports and review submissions.</p>
		<p>The Cipher Haven Team</p>
	`, html.EscapeString(name))
}
