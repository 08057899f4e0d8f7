// Package domain holds the notification model and message templates.
package domain

import (
	"errors"
	"time"
)

var (
	ErrEmptyRecipient = errors.New("notification recipient is required")
	ErrEmptyTitle     = errors.New("notification title is required")
)

// Channel names a delivery transport.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// Notification is one dispatched message. A single record is kept per
// dispatch regardless of how many channels were attempted; Channels lists
// the attempts.
type Notification struct {
	ID          string
	EventName   string
	OrderID     string
	RecipientID string
	Title       string
	Body        string
	Channels    []Channel
	CreatedAt   time.Time
}

// Validate applies the record invariants.
func (n *Notification) Validate() error {
	if n.RecipientID == "" {
		return ErrEmptyRecipient
	}
	if n.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}
