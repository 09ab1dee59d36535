package email

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("email sender is not configured")

type Service interface {
	Send(ctx context.Context, to string, subject string, htmlBody string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// dialer is the part of gomail.Dialer used for sending.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpService struct {
	from   string
	dialer dialer
}

// NewSMTPService sends through an SMTP relay. Without credentials every send
// fails with ErrNotConfigured.
func NewSMTPService(cfg Config) Service {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	var d dialer
	if cfg.Username != "" && cfg.Password != "" {
		d = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return &smtpService{from: from, dialer: d}
}

func (s *smtpService) Send(ctx context.Context, to string, subject string, htmlBody string) error {
	if s.dialer == nil {
		return ErrNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	// gomail has no context support; the send keeps running in the
	// background if ctx ends first.
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
