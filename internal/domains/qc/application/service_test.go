package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	ordersmemory "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/memory"
	ordersapp "github.com/inkwell-letters/fulfillment/internal/domains/orders/application"
	ordersdomain "github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	ordersports "github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
	qcmemory "github.com/inkwell-letters/fulfillment/internal/domains/qc/adapters/memory"
	"github.com/inkwell-letters/fulfillment/internal/domains/qc/domain"
)

func newDesk(t *testing.T) (*Service, ordersports.Service) {
	t.Helper()
	engine := ordersapp.NewService(ordersmemory.NewRepository(), ordersmemory.NewIdempotencyStore(), nil)
	return NewService(engine, qcmemory.NewRepository(), nil), engine
}

func orderInReview(t *testing.T, engine ordersports.Service) string {
	t.Helper()
	ctx := context.Background()
	order, err := engine.CreateOrder(ctx, ordersports.CreateOrderInput{CustomerID: "cus-1", PriceCents: 5000, Pages: 2, KitSKU: "kit-classic"})
	require.NoError(t, err)
	_, err = engine.ConfirmPayment(ctx, order.ID, "gw-ord-1", "gw-pay-"+order.ID)
	require.NoError(t, err)
	_, err = engine.ClaimWriter(ctx, order.ID, "wrt-a")
	require.NoError(t, err)
	_, err = engine.UploadDraft(ctx, order.ID, "https://files.example/draft-1.pdf")
	require.NoError(t, err)
	return order.ID
}

func TestQueue_ListsOnlyOrdersInReview(t *testing.T) {
	desk, engine := newDesk(t)
	ctx := context.Background()

	inReview := orderInReview(t, engine)
	_, err := engine.CreateOrder(ctx, ordersports.CreateOrderInput{CustomerID: "cus-2", PriceCents: 4000, Pages: 1, KitSKU: "kit-classic"})
	require.NoError(t, err)

	queue, err := desk.Queue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	require.Equal(t, inReview, queue[0].ID)
}

func TestApprove_TransitionsAndRecordsVerdict(t *testing.T) {
	desk, engine := newDesk(t)
	ctx := context.Background()
	orderID := orderInReview(t, engine)

	review, err := desk.Approve(ctx, orderID, "qc-1", domain.Checklist{HandwritingLegible: true, MatchesBrief: true})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeApproved, review.Outcome)
	// the verdict pins the draft it was given on
	require.Equal(t, "https://files.example/draft-1.pdf", review.SubmissionURL)

	order, err := engine.GetByID(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, ordersdomain.StateApproved, order.State)

	history, err := desk.History(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestReject_RequiresFeedback(t *testing.T) {
	desk, engine := newDesk(t)
	ctx := context.Background()
	orderID := orderInReview(t, engine)

	_, err := desk.Reject(ctx, orderID, "qc-1", "", domain.Checklist{})
	require.ErrorIs(t, err, domain.ErrEmptyFeedback)

	// a failed validation must not move the order
	order, err := engine.GetByID(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, ordersdomain.StateQCReview, order.State)
}

func TestReject_RejectionLoopKeepsFullHistory(t *testing.T) {
	desk, engine := newDesk(t)
	ctx := context.Background()
	orderID := orderInReview(t, engine)

	_, err := desk.Reject(ctx, orderID, "qc-1", "ink smudged on page two", domain.Checklist{HandwritingLegible: true})
	require.NoError(t, err)

	order, err := engine.GetByID(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, ordersdomain.StateChangesRequested, order.State)
	require.Equal(t, "ink smudged on page two", order.Fulfillment.QCFeedback)

	_, err = engine.UploadDraft(ctx, orderID, "https://files.example/draft-2.pdf")
	require.NoError(t, err)
	_, err = desk.Approve(ctx, orderID, "qc-1", domain.Checklist{HandwritingLegible: true, MatchesBrief: true})
	require.NoError(t, err)

	history, err := desk.History(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, domain.OutcomeChangesRequested, history[0].Outcome)
	require.Equal(t, "https://files.example/draft-1.pdf", history[0].SubmissionURL)
	require.Equal(t, domain.OutcomeApproved, history[1].Outcome)
	require.Equal(t, "https://files.example/draft-2.pdf", history[1].SubmissionURL)
}

func TestApprove_WrongStateDoesNotRecordVerdict(t *testing.T) {
	desk, engine := newDesk(t)
	ctx := context.Background()

	order, err := engine.CreateOrder(ctx, ordersports.CreateOrderInput{CustomerID: "cus-1", PriceCents: 5000, Pages: 2, KitSKU: "kit-classic"})
	require.NoError(t, err)

	_, err = desk.Approve(ctx, order.ID, "qc-1", domain.Checklist{})
	require.Error(t, err)

	history, err := desk.History(ctx, order.ID)
	require.NoError(t, err)
	require.Empty(t, history)
}
