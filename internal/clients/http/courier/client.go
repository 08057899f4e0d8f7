// Package courier talks to the shipping partner's pickup API.
package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ordersdomain "github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	ordersports "github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
)

var _ ordersports.CourierSync = (*Client)(nil)

// Client books pickups with the courier over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates the courier client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("courier base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// pickupRequest is the wire payload of the courier's pickup endpoint.
type pickupRequest struct {
	OrderReference string `json:"order_reference"`
	TrackingID     string `json:"tracking_id"`
	RecipientID    string `json:"recipient_id"`
}

type pickupError struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// BookPickup registers the shipped order for courier pickup. The tracking id
// doubles as the idempotency key, so retried bookings after a timeout are
// safe.
func (c *Client) BookPickup(ctx context.Context, order *ordersdomain.Order) error {
	if c == nil || c.httpClient == nil {
		return errors.New("courier client not configured")
	}
	if order == nil {
		return errors.New("order is required")
	}
	trackingID := strings.TrimSpace(order.Fulfillment.TrackingID)
	if trackingID == "" {
		return errors.New("order has no tracking id")
	}

	body, err := json.Marshal(pickupRequest{
		OrderReference: order.ID,
		TrackingID:     trackingID,
		RecipientID:    order.CustomerID,
	})
	if err != nil {
		return fmt.Errorf("encode pickup request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pickups", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build pickup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", trackingID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call courier API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK, resp.StatusCode == http.StatusCreated:
		return nil
	case resp.StatusCode == http.StatusConflict:
		// the pickup already exists for this tracking id
		return nil
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("courier API error: %s", errorMessage(resp))
	default:
		return fmt.Errorf("courier API unexpected status: %s", resp.Status)
	}
}

func errorMessage(resp *http.Response) string {
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(payload) == 0 {
		return resp.Status
	}
	var body pickupError
	if err := json.Unmarshal(payload, &body); err != nil {
		return resp.Status
	}
	if msg := strings.TrimSpace(body.Message); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(body.Status); msg != "" {
		return msg
	}
	return resp.Status
}
