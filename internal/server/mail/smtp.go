package mail

import (
	"errors"
	"fmt"
	"net/smtp"
)

// SMTPConfig holds the settings for plain SMTP delivery.
type SMTPConfig struct {
	Host        string
	Port        string
	Username    string
	Password    string
	From        string
	FrontendURL string
}

// SMTPMailer implements Mailer over net/smtp.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port == "" || cfg.From == "" {
		return nil, errors.New("invalid smtp configuration")
	}
	return &SMTPMailer{cfg: cfg}, nil
}

func (m *SMTPMailer) SendPasswordReset(to string, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.FrontendURL, token)
	msg := []byte(fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: Password reset\r\n\r\nFollow the link to reset your password (valid for a limited time):\r\n%s\r\n",
		to, m.cfg.From, link))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send error: %w", err)
	}
	return nil
}
