package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/adapters/memory"
	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/ports"
	"github.com/inkwell-letters/fulfillment/internal/events"
)

type staticDirectory struct {
	recipients map[string]*ports.Recipient
}

func (d staticDirectory) Resolve(_ context.Context, id string) (*ports.Recipient, error) {
	recipient, ok := d.recipients[id]
	if !ok {
		return nil, ports.ErrUnknownRecipient
	}
	return recipient, nil
}

type fakeSender struct {
	calls int
	err   error
}

func (s *fakeSender) SendEmail(context.Context, string, string, string) error {
	s.calls++
	return s.err
}

func (s *fakeSender) SendSMS(context.Context, string, string) error {
	s.calls++
	return s.err
}

func (s *fakeSender) SendWhatsApp(context.Context, string, string) error {
	s.calls++
	return s.err
}

func fullContactDirectory() staticDirectory {
	return staticDirectory{recipients: map[string]*ports.Recipient{
		"cus-1": {ID: "cus-1", Name: "Ben", Email: "ben@example.com", Phone: "+62811111111"},
		"cus-2": {ID: "cus-2", Name: "Lia", Email: "lia@example.com"},
	}}
}

func shippedEvent() events.Event {
	return events.New(events.OrderShipped, events.OrderPayload{
		OrderID:    "ord-1",
		CustomerID: "cus-1",
		TrackingID: "TRK-123",
	})
}

func TestNotify_AttemptsEveryReachableChannel(t *testing.T) {
	email, sms, whatsapp := &fakeSender{}, &fakeSender{}, &fakeSender{}
	dispatcher := NewDispatcher(fullContactDirectory(), memory.NewRepository(), email, sms, whatsapp, nil)

	notification, err := dispatcher.Notify(context.Background(), "cus-1", shippedEvent())
	require.NoError(t, err)
	require.ElementsMatch(t,
		[]domain.Channel{domain.ChannelEmail, domain.ChannelSMS, domain.ChannelWhatsApp},
		notification.Channels,
	)
	require.Equal(t, 1, email.calls)
	require.Equal(t, 1, sms.calls)
	require.Equal(t, 1, whatsapp.calls)
	require.Contains(t, notification.Body, "TRK-123")
}

func TestNotify_ChannelFailureDoesNotStopOthers(t *testing.T) {
	email := &fakeSender{err: errors.New("smtp down")}
	sms, whatsapp := &fakeSender{}, &fakeSender{}
	log := memory.NewRepository()
	dispatcher := NewDispatcher(fullContactDirectory(), log, email, sms, whatsapp, nil)

	notification, err := dispatcher.Notify(context.Background(), "cus-1", shippedEvent())
	require.NoError(t, err)
	require.Equal(t, 1, sms.calls)
	require.Equal(t, 1, whatsapp.calls)

	// the single record stays even though a channel failed
	history, err := log.ListByRecipient(context.Background(), "cus-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, notification.ID, history[0].ID)
}

func TestNotify_EmailOnlyRecipientSkipsPhoneChannels(t *testing.T) {
	email, sms, whatsapp := &fakeSender{}, &fakeSender{}, &fakeSender{}
	dispatcher := NewDispatcher(fullContactDirectory(), memory.NewRepository(), email, sms, whatsapp, nil)

	notification, err := dispatcher.Notify(context.Background(), "cus-2", shippedEvent())
	require.NoError(t, err)
	require.Equal(t, []domain.Channel{domain.ChannelEmail}, notification.Channels)
	require.Zero(t, sms.calls)
	require.Zero(t, whatsapp.calls)
}

func TestNotify_AssignmentCopyDiffersPerAudience(t *testing.T) {
	dir := staticDirectory{recipients: map[string]*ports.Recipient{
		"cus-1": {ID: "cus-1", Name: "Ben", Email: "ben@example.com"},
		"wrt-1": {ID: "wrt-1", Name: "Ada", Email: "ada@example.com"},
	}}
	dispatcher := NewDispatcher(dir, memory.NewRepository(), &fakeSender{}, &fakeSender{}, &fakeSender{}, nil)
	evt := events.New(events.WriterAssigned, events.OrderPayload{
		OrderID: "ord-1", CustomerID: "cus-1", WriterID: "wrt-1", Pages: 2,
	})

	customerNote, err := dispatcher.Notify(context.Background(), "cus-1", evt)
	require.NoError(t, err)
	require.NotNil(t, customerNote)
	require.Contains(t, customerNote.Body, "ord-1")
	require.Contains(t, customerNote.Body, "assigned to one of our writers")

	writerNote, err := dispatcher.Notify(context.Background(), "wrt-1", evt)
	require.NoError(t, err)
	require.NotNil(t, writerNote)
	require.Contains(t, writerNote.Body, "is now yours")
	require.NotEqual(t, customerNote.Body, writerNote.Body)
}

func TestNotify_EventsWithoutTemplateAreSkipped(t *testing.T) {
	log := memory.NewRepository()
	dispatcher := NewDispatcher(fullContactDirectory(), log, &fakeSender{}, &fakeSender{}, &fakeSender{}, nil)

	notification, err := dispatcher.Notify(context.Background(), "cus-1",
		events.New(events.DraftUploaded, events.OrderPayload{OrderID: "ord-1"}))
	require.NoError(t, err)
	require.Nil(t, notification)

	all, err := log.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestNotify_UnknownRecipient(t *testing.T) {
	dispatcher := NewDispatcher(fullContactDirectory(), memory.NewRepository(), &fakeSender{}, &fakeSender{}, &fakeSender{}, nil)

	_, err := dispatcher.Notify(context.Background(), "missing", shippedEvent())
	require.ErrorIs(t, err, ports.ErrUnknownRecipient)
}
