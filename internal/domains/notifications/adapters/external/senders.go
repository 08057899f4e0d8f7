// Package external holds the outbound channel senders. The log-backed
// implementations stand in for the real email/SMS/WhatsApp providers in
// development and tests; production wiring swaps them per channel.
package external

import (
	"context"
	"log/slog"

	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/ports"
)

var (
	_ ports.EmailSender    = (*LogEmailSender)(nil)
	_ ports.SMSSender      = (*LogSMSSender)(nil)
	_ ports.WhatsAppSender = (*LogWhatsAppSender)(nil)
)

// LogEmailSender writes outbound email to the structured log.
type LogEmailSender struct {
	Logger *slog.Logger
}

func (s *LogEmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	s.logger().InfoContext(ctx, "email sent",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(body)),
	)
	return nil
}

func (s *LogEmailSender) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// LogSMSSender writes outbound SMS to the structured log.
type LogSMSSender struct {
	Logger *slog.Logger
}

func (s *LogSMSSender) SendSMS(ctx context.Context, phone, body string) error {
	s.logger().InfoContext(ctx, "sms sent",
		slog.String("phone", phone),
		slog.Int("body_bytes", len(body)),
	)
	return nil
}

func (s *LogSMSSender) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// LogWhatsAppSender writes outbound WhatsApp messages to the structured log.
type LogWhatsAppSender struct {
	Logger *slog.Logger
}

func (s *LogWhatsAppSender) SendWhatsApp(ctx context.Context, phone, body string) error {
	s.logger().InfoContext(ctx, "whatsapp sent",
		slog.String("phone", phone),
		slog.Int("body_bytes", len(body)),
	)
	return nil
}

func (s *LogWhatsAppSender) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
