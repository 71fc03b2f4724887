package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	appidentity "github.com/customs/backend/internal/application/identity"
	"github.com/customs/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SMTPMailer sends account emails through a plain SMTP relay.
// Messages are short transactional texts; delivery failures are returned to
// the caller, which decides whether they are fatal.
type SMTPMailer struct {
	cfg     config.SMTPConfig
	baseURL string
	logger  *zap.Logger
}

// NewSMTPMailer creates a new SMTPMailer. baseURL is the public address of
// the application, used to build verification and reset links.
func NewSMTPMailer(cfg config.SMTPConfig, baseURL string, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// SendVerificationEmail sends the email verification link for a new account
func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	link := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", m.baseURL, token)
	body := fmt.Sprintf(
		"Dear %s,\r\n\r\n"+
			"Your account has been created. Verify your email address by opening the link below:\r\n\r\n"+
			"%s\r\n\r\n"+
			"The link expires in 24 hours.\r\n",
		name, link)
	return m.send(ctx, to, "Verify your email address", body)
}

// SendPasswordResetEmail sends the password reset link
func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.baseURL, token)
	body := fmt.Sprintf(
		"Dear %s,\r\n\r\n"+
			"A password reset was requested for your account. Open the link below to choose a new password:\r\n\r\n"+
			"%s\r\n\r\n"+
			"The link expires in 1 hour. If you did not request this, ignore this message.\r\n",
		name, link)
	return m.send(ctx, to, "Password reset request", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Builder{}
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(m.cfg.Addr(), auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		m.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Debug("Email sent",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}

// Ensure SMTPMailer implements the identity application's Mailer
var _ appidentity.Mailer = (*SMTPMailer)(nil)

