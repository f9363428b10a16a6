package email

import (
	"fmt"
	"net/url"

	"gopkg.in/gomail.v2"
)

// SMTPSender реализация Provider поверх gomail
type SMTPSender struct {
	config    Config
	templates *TemplateManager
}

// NewSMTPSender создает новый SMTP отправитель
func NewSMTPSender(config Config) (Provider, error) {
	if config.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if config.SMTPPort <= 0 || config.SMTPPort > 65535 {
		return nil, fmt.Errorf("invalid SMTP port: %d", config.SMTPPort)
	}
	if config.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	tm, err := NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	return &SMTPSender{
		config:    config,
		templates: tm,
	}, nil
}

// Send отправляет email
func (s *SMTPSender) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			m.AddAlternative("text/plain", email.Body)
		}
	} else {
		m.SetBody("text/plain", email.Body)
	}

	d := gomail.NewDialer(
		s.config.SMTPHost,
		s.config.SMTPPort,
		s.config.Username,
		s.config.Password,
	)

	return d.DialAndSend(m)
}

// SendVerification отправляет письмо подтверждения email
func (s *SMTPSender) SendVerification(to, verificationID, token string) error {
	actionURL := fmt.Sprintf("%s/confirm-email?emailVerificationId=%s&token=%s",
		s.config.BaseURL, url.QueryEscape(verificationID), url.QueryEscape(token))

	htmlBody, err := s.templates.Render("verification", TemplateData{
		Subject:    "Подтверждение Email",
		ActionURL:  actionURL,
		ActionText: "Подтвердить Email",
		FromName:   s.config.FromName,
	})
	if err != nil {
		return err
	}

	return s.Send(&Email{
		To:       []string{to},
		Subject:  "Подтверждение Email",
		HTMLBody: htmlBody,
	})
}

// SendPasswordReset отправляет письмо сброса пароля
func (s *SMTPSender) SendPasswordReset(to, token string) error {
	actionURL := fmt.Sprintf("%s/reset-password?email=%s&token=%s",
		s.config.BaseURL, url.QueryEscape(to), url.QueryEscape(token))

	htmlBody, err := s.templates.Render("password_reset", TemplateData{
		Subject:    "Сброс пароля",
		Message:    "Нажмите кнопку ниже, чтобы задать новый пароль.",
		ActionURL:  actionURL,
		ActionText: "Сбросить пароль",
		FromName:   s.config.FromName,
	})
	if err != nil {
		return err
	}

	return s.Send(&Email{
		To:       []string{to},
		Subject:  "Сброс пароля",
		HTMLBody: htmlBody,
	})
}
