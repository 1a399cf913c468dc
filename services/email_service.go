package services

import (
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"blog-api/config"
)

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailService struct {
	config *config.Config
	sender MailSender
}

// ContactMessage is what a visitor submits through the contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailAddress, cfg.EmailPassword)
	return NewEmailServiceWithSender(cfg, dialer)
}

func NewEmailServiceWithSender(cfg *config.Config, sender MailSender) *EmailService {
	return &EmailService{
		config: cfg,
		sender: sender,
	}
}

// SendContactMessage relays a contact form submission to the site owner's own address.
func (es *EmailService) SendContactMessage(msg ContactMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", es.config.EmailAddress)
	m.SetHeader("To", es.config.EmailAddress)
	m.SetHeader("Subject", "New Message")
	if msg.Email != "" {
		m.SetHeader("Reply-To", msg.Email)
	}

	textBody := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nMessage: %s",
		msg.Name, msg.Email, msg.Phone, msg.Message)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <h2>New Message</h2>
    <p><strong>Name:</strong> %s</p>
    <p><strong>Email:</strong> %s</p>
    <p><strong>Phone:</strong> %s</p>
    <p><strong>Message:</strong></p>
    <p>%s</p>
</body>
</html>`,
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		html.EscapeString(msg.Phone),
		strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"),
	)

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	if err := es.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
