package utils

import (
	"fmt"
	"mime"
	"net/smtp"
	"time"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/config"
)

// EmailService handles email sending operations
type EmailService struct {
	config *config.EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{
		config: cfg,
		send:   smtp.SendMail,
	}
}

// Send mails a plain text message to one recipient
func (e *EmailService) Send(to, subject, body string) error {
	// Check if credentials are set
	if e.config.SMTPUsername == "" || e.config.SMTPPassword == "" {
		return fmt.Errorf("email credentials not configured")
	}

	auth := smtp.PlainAuth("", e.config.SMTPUsername, e.config.SMTPPassword, e.config.SMTPHost)

	fromEmail := e.config.FromEmail
	if fromEmail == "" {
		fromEmail = e.config.SMTPUsername
	}

	message := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"Date: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		mime.QEncoding.Encode("utf-8", e.config.FromName), fromEmail, to,
		mime.QEncoding.Encode("utf-8", subject), time.Now().Format(time.RFC1123Z), body))

	addr := e.config.SMTPHost + ":" + e.config.SMTPPort
	if err := e.send(addr, auth, fromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
