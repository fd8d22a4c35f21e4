// Package email delivers verification tokens out-of-band. Senders receive
// only the recipient address and the raw token; the auth flows never see or
// build user-facing links themselves.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Sender is the delivery collaborator for verification and reset tokens.
type Sender interface {
	SendEmailVerification(ctx context.Context, recipient, rawToken string) error
	SendPasswordReset(ctx context.Context, recipient, rawToken string) error
}

// SMTPSender delivers mail over plain SMTP. Auth is optional; local dev
// typically runs an unauthenticated catcher like Mailpit.
type SMTPSender struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string

	// BaseURL is the public origin used to build the links embedded in the
	// message bodies, e.g. "https://blog.example.com".
	BaseURL string
}

func (s *SMTPSender) SendEmailVerification(ctx context.Context, recipient, rawToken string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(s.BaseURL, "/"), rawToken)
	body := "Welcome! Confirm your email address by visiting:\r\n\r\n" + link + "\r\n"
	return s.send(ctx, recipient, "Verify your email address", body)
}

func (s *SMTPSender) SendPasswordReset(ctx context.Context, recipient, rawToken string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(s.BaseURL, "/"), rawToken)
	body := "A password reset was requested for your account. " +
		"If this was you, visit:\r\n\r\n" + link + "\r\n\r\n" +
		"If not, you can ignore this message.\r\n"
	return s.send(ctx, recipient, "Reset your password", body)
}

func (s *SMTPSender) send(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + s.From,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	if err := smtp.SendMail(addr, auth, s.From, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", addr, err)
	}
	return nil
}

// LogSender writes deliveries to the log instead of sending mail. Used in
// dev and tests.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) SendEmailVerification(ctx context.Context, recipient, rawToken string) error {
	s.logger().InfoContext(ctx, "email verification token issued", "recipient", recipient, "token", rawToken)
	return nil
}

func (s *LogSender) SendPasswordReset(ctx context.Context, recipient, rawToken string) error {
	s.logger().InfoContext(ctx, "password reset token issued", "recipient", recipient, "token", rawToken)
	return nil
}

func (s *LogSender) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
