// Package http exposes the notification log over gin.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/ports"
	sharederrors "github.com/inkwell-letters/fulfillment/internal/shared/errors"
)

// NotificationsAPI wires HTTP transport with the notification log.
type NotificationsAPI struct {
	service   ports.Service
	responder *sharederrors.ChainedResponder
}

func NewNotificationsAPI(service ports.Service, responder *sharederrors.ChainedResponder) *NotificationsAPI {
	return &NotificationsAPI{service: service, responder: responder}
}

// Register mounts the notification routes on the group.
func (api *NotificationsAPI) Register(rg *gin.RouterGroup) {
	rg.GET("/notifications/:recipientId", api.History)
}

// Get /v1/notifications/:recipientId
func (api *NotificationsAPI) History(c *gin.Context) {
	notifications, err := api.service.History(c.Request.Context(), c.Param("recipientId"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	list := make([]notificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		list = append(list, toNotificationResponse(notification))
	}
	c.JSON(http.StatusOK, list)
}

type notificationResponse struct {
	ID          string   `json:"id"`
	EventName   string   `json:"event_name"`
	OrderID     string   `json:"order_id,omitempty"`
	RecipientID string   `json:"recipient_id"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Channels    []string `json:"channels"`
	CreatedAt   string   `json:"created_at"`
}

func toNotificationResponse(notification *domain.Notification) notificationResponse {
	channels := make([]string, 0, len(notification.Channels))
	for _, channel := range notification.Channels {
		channels = append(channels, string(channel))
	}
	return notificationResponse{
		ID:          notification.ID,
		EventName:   notification.EventName,
		OrderID:     notification.OrderID,
		RecipientID: notification.RecipientID,
		Title:       notification.Title,
		Body:        notification.Body,
		Channels:    channels,
		CreatedAt:   notification.CreatedAt.UTC().Format(time.RFC3339),
	}
}
