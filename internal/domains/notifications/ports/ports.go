// Package ports declares the boundary interfaces of the notifications
// context.
package ports

import (
	"context"
	"errors"

	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/domain"
	"github.com/inkwell-letters/fulfillment/internal/events"
)

// ErrNotFound indicates no notification matches the query.
var ErrNotFound = errors.New("notification not found")

// ErrUnknownRecipient indicates the directory cannot resolve the recipient.
var ErrUnknownRecipient = errors.New("unknown notification recipient")

// Recipient is the resolved contact surface of an account.
type Recipient struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// Directory resolves recipient ids to contact details.
type Directory interface {
	Resolve(ctx context.Context, id string) (*Recipient, error)
}

// Repository is the persistence boundary for the notification log.
type Repository interface {
	Save(ctx context.Context, notification *domain.Notification) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error)
	List(ctx context.Context) ([]*domain.Notification, error)
}

// EmailSender delivers a message over email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a message over SMS.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, body string) error
}

// WhatsAppSender delivers a message over WhatsApp.
type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, phone, body string) error
}

// Service is the application boundary for notification dispatch.
type Service interface {
	Notify(ctx context.Context, recipientID string, evt events.Event) (*domain.Notification, error)
	History(ctx context.Context, recipientID string) ([]*domain.Notification, error)
}
