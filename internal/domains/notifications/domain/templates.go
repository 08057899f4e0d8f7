package domain

import (
	"fmt"

	"github.com/inkwell-letters/fulfillment/internal/events"
)

// Message is a composed title/body pair ready for any channel.
type Message struct {
	Title string
	Body  string
}

// Audience selects whose copy an event composes. The same workflow event can
// read very differently to the customer and to the writer working the order.
type Audience string

const (
	AudienceCustomer Audience = "customer"
	AudienceWriter   Audience = "writer"
)

type template func(p events.OrderPayload) Message

// templates maps workflow event names to per-audience copy. Event names
// without an entry for the requested audience are deliberately not
// dispatched.
var templates = map[string]map[Audience]template{
	events.OrderPaid: {
		AudienceCustomer: func(p events.OrderPayload) Message {
			return Message{
				Title: "Payment received",
				Body:  fmt.Sprintf("We received your payment for order %s. A writer will pick it up shortly.", p.OrderID),
			}
		},
	},
	events.WriterAssigned: {
		AudienceCustomer: func(p events.OrderPayload) Message {
			return Message{
				Title: "A writer picked up your order",
				Body:  fmt.Sprintf("Order %s has been assigned to one of our writers. Drafting starts soon.", p.OrderID),
			}
		},
		AudienceWriter: func(p events.OrderPayload) Message {
			return Message{
				Title: "New letter assignment",
				Body:  fmt.Sprintf("Order %s (%d pages) is now yours. Head to your dashboard to get started.", p.OrderID, p.Pages),
			}
		},
	},
	events.QCApproved: {
		AudienceCustomer: func(p events.OrderPayload) Message {
			return Message{
				Title: "Your letter passed review",
				Body:  fmt.Sprintf("The handwritten letter for order %s has been approved and is being prepared for shipping.", p.OrderID),
			}
		},
	},
	events.QCRejected: {
		AudienceWriter: func(p events.OrderPayload) Message {
			return Message{
				Title: "Changes requested on your draft",
				Body:  fmt.Sprintf("Order %s needs another pass: %s", p.OrderID, p.Feedback),
			}
		},
	},
	events.OrderShipped: {
		AudienceCustomer: func(p events.OrderPayload) Message {
			return Message{
				Title: "Your letter is on its way",
				Body:  fmt.Sprintf("Order %s has shipped. Track it with %s.", p.OrderID, p.TrackingID),
			}
		},
	},
	events.OrderDelivered: {
		AudienceCustomer: func(p events.OrderPayload) Message {
			return Message{
				Title: "Your letter has arrived",
				Body:  fmt.Sprintf("Order %s was delivered. We hope it lands just right.", p.OrderID),
			}
		},
	},
	events.OrderCancelled: {
		AudienceCustomer: func(p events.OrderPayload) Message {
			return Message{
				Title: "Order cancelled",
				Body:  fmt.Sprintf("Order %s was cancelled: %s", p.OrderID, p.Reason),
			}
		},
	},
}

// Compose renders the message for an event name and audience. The second
// return reports whether that audience has notification copy at all.
func Compose(eventName string, audience Audience, payload events.OrderPayload) (Message, bool) {
	byAudience, ok := templates[eventName]
	if !ok {
		return Message{}, false
	}
	tmpl, ok := byAudience[audience]
	if !ok {
		return Message{}, false
	}
	return tmpl(payload), true
}
