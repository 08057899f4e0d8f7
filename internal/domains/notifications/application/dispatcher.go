// Package application implements multi-channel notification dispatch.
package application

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/ports"
	"github.com/inkwell-letters/fulfillment/internal/events"
)

var _ ports.Service = (*Dispatcher)(nil)

// Dispatcher resolves the recipient, composes the message from the event's
// template and fans it out over every reachable channel. One log record is
// written per dispatch listing the attempted channels; a channel failing is
// logged but never fails the dispatch or the remaining channels.
type Dispatcher struct {
	directory ports.Directory
	log       ports.Repository
	email     ports.EmailSender
	sms       ports.SMSSender
	whatsapp  ports.WhatsAppSender
	logger    *slog.Logger
}

func NewDispatcher(directory ports.Directory, log ports.Repository, email ports.EmailSender, sms ports.SMSSender, whatsapp ports.WhatsAppSender, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		directory: directory,
		log:       log,
		email:     email,
		sms:       sms,
		whatsapp:  whatsapp,
		logger:    logger,
	}
}

// Notify dispatches the event's message to one recipient. Events without
// notification copy are skipped and return nil.
func (d *Dispatcher) Notify(ctx context.Context, recipientID string, evt events.Event) (*domain.Notification, error) {
	payload, ok := evt.Payload.(events.OrderPayload)
	if !ok {
		d.logger.DebugContext(ctx, "notification skipped, payload is not an order snapshot", slog.String("event", evt.Name))
		return nil, nil
	}
	message, ok := domain.Compose(evt.Name, audienceFor(recipientID, payload), payload)
	if !ok {
		d.logger.DebugContext(ctx, "notification skipped, no template for event", slog.String("event", evt.Name))
		return nil, nil
	}
	recipient, err := d.directory.Resolve(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	notification := &domain.Notification{
		ID:          uuid.NewString(),
		EventName:   evt.Name,
		OrderID:     payload.OrderID,
		RecipientID: recipient.ID,
		Title:       message.Title,
		Body:        message.Body,
		Channels:    channelsFor(recipient),
	}
	if err := notification.Validate(); err != nil {
		return nil, err
	}
	saved, err := d.log.Save(ctx, notification)
	if err != nil {
		return nil, err
	}

	for _, channel := range saved.Channels {
		d.send(ctx, channel, recipient, message)
	}
	return saved, nil
}

// History lists a recipient's dispatched notifications.
func (d *Dispatcher) History(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	return d.log.ListByRecipient(ctx, recipientID)
}

func (d *Dispatcher) send(ctx context.Context, channel domain.Channel, recipient *ports.Recipient, message domain.Message) {
	var err error
	switch channel {
	case domain.ChannelEmail:
		if d.email != nil {
			err = d.email.SendEmail(ctx, recipient.Email, message.Title, message.Body)
		}
	case domain.ChannelSMS:
		if d.sms != nil {
			err = d.sms.SendSMS(ctx, recipient.Phone, message.Body)
		}
	case domain.ChannelWhatsApp:
		if d.whatsapp != nil {
			err = d.whatsapp.SendWhatsApp(ctx, recipient.Phone, message.Body)
		}
	}
	if err != nil {
		d.logger.WarnContext(ctx, "notification channel failed",
			slog.String("channel", string(channel)),
			slog.String("recipient_id", recipient.ID),
			slog.String("error", err.Error()),
		)
	}
}

// audienceFor picks the copy for the recipient: the assigned writer gets
// writer-facing copy, everyone else reads as the customer.
func audienceFor(recipientID string, payload events.OrderPayload) domain.Audience {
	if payload.WriterID != "" && recipientID == payload.WriterID {
		return domain.AudienceWriter
	}
	return domain.AudienceCustomer
}

func channelsFor(recipient *ports.Recipient) []domain.Channel {
	channels := make([]domain.Channel, 0, 3)
	if recipient.Email != "" {
		channels = append(channels, domain.ChannelEmail)
	}
	if recipient.Phone != "" {
		channels = append(channels, domain.ChannelSMS, domain.ChannelWhatsApp)
	}
	return channels
}
