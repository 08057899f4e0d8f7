package courier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	ordersdomain "github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
)

func shippedOrder(t *testing.T, trackingID string) *ordersdomain.Order {
	t.Helper()
	order, err := ordersdomain.NewOrder("order-1", "cust-1", 4500, 3, "KIT-CLASSIC")
	require.NoError(t, err)
	order.Fulfillment.TrackingID = trackingID
	return order
}

func TestBookPickup_SendsIdempotentRequest(t *testing.T) {
	var captured pickupRequest
	var idempotencyKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/pickups", r.URL.Path)
		idempotencyKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	require.NoError(t, client.BookPickup(context.Background(), shippedOrder(t, "TRK-42")))
	require.Equal(t, "TRK-42", idempotencyKey)
	require.Equal(t, "order-1", captured.OrderReference)
	require.Equal(t, "TRK-42", captured.TrackingID)
	require.Equal(t, "cust-1", captured.RecipientID)
}

func TestBookPickup_ConflictMeansAlreadyBooked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	require.NoError(t, client.BookPickup(context.Background(), shippedOrder(t, "TRK-42")))
}

func TestBookPickup_SurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(pickupError{Message: "pickup window closed"})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	err = client.BookPickup(context.Background(), shippedOrder(t, "TRK-42"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "pickup window closed")
}

func TestBookPickup_RequiresTrackingID(t *testing.T) {
	client, err := NewClient("http://courier.invalid", nil)
	require.NoError(t, err)

	err = client.BookPickup(context.Background(), shippedOrder(t, ""))
	require.Error(t, err)
}
