// Package http exposes the writer portal over gin.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ordersmapper "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/http/mapper"
	"github.com/inkwell-letters/fulfillment/internal/domains/writers/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/writers/ports"
	sharederrors "github.com/inkwell-letters/fulfillment/internal/shared/errors"
)

// WritersAPI wires HTTP transport with the writer portal.
type WritersAPI struct {
	service   ports.Service
	responder *sharederrors.ChainedResponder
}

func NewWritersAPI(service ports.Service, responder *sharederrors.ChainedResponder) *WritersAPI {
	return &WritersAPI{service: service, responder: responder}
}

// Register mounts the writer portal routes on the group.
func (api *WritersAPI) Register(rg *gin.RouterGroup) {
	rg.GET("/writer/tasks", api.OpenTasks)
	rg.POST("/writer/tasks/:orderId/accept", api.AcceptTask)
	rg.POST("/writer/tasks/:orderId/decline", api.DeclineTask)
	rg.POST("/writer/tasks/:orderId/start", api.StartWriting)
	rg.POST("/writer/tasks/:orderId/draft", api.SubmitDraft)
	rg.GET("/writer/:writerId/earnings", api.Earnings)
}

// Get /v1/writer/tasks
func (api *WritersAPI) OpenTasks(c *gin.Context) {
	tasks, err := api.service.OpenTasks(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersmapper.FromOrderList(tasks))
}

type writerActionRequest struct {
	WriterID string `json:"writer_id" binding:"required"`
}

// Post /v1/writer/tasks/:orderId/accept
func (api *WritersAPI) AcceptTask(c *gin.Context) {
	var payload writerActionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	order, err := api.service.AcceptTask(c.Request.Context(), c.Param("orderId"), payload.WriterID)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersmapper.FromOrder(order))
}

// Post /v1/writer/tasks/:orderId/decline
func (api *WritersAPI) DeclineTask(c *gin.Context) {
	var payload writerActionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	order, err := api.service.DeclineTask(c.Request.Context(), c.Param("orderId"), payload.WriterID)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersmapper.FromOrder(order))
}

// Post /v1/writer/tasks/:orderId/start
func (api *WritersAPI) StartWriting(c *gin.Context) {
	var payload writerActionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	order, err := api.service.StartWriting(c.Request.Context(), c.Param("orderId"), payload.WriterID)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersmapper.FromOrder(order))
}

type submitDraftRequest struct {
	WriterID      string `json:"writer_id" binding:"required"`
	SubmissionURL string `json:"submission_url" binding:"required"`
}

// Post /v1/writer/tasks/:orderId/draft
func (api *WritersAPI) SubmitDraft(c *gin.Context) {
	var payload submitDraftRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	order, err := api.service.SubmitDraft(c.Request.Context(), c.Param("orderId"), payload.WriterID, payload.SubmissionURL)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersmapper.FromOrder(order))
}

type payoutResponse struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	Pages       int    `json:"pages"`
	RateCents   int64  `json:"rate_cents"`
	AmountCents int64  `json:"amount_cents"`
	BookedAt    string `json:"booked_at"`
}

type earningsResponse struct {
	WriterID   string           `json:"writer_id"`
	TotalCents int64            `json:"total_cents"`
	Payouts    []payoutResponse `json:"payouts"`
}

// Get /v1/writer/:writerId/earnings
func (api *WritersAPI) Earnings(c *gin.Context) {
	earnings, err := api.service.EarningsFor(c.Request.Context(), c.Param("writerId"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEarningsResponse(earnings))
}

func toEarningsResponse(earnings *ports.Earnings) earningsResponse {
	resp := earningsResponse{
		WriterID:   earnings.WriterID,
		TotalCents: earnings.TotalCents,
		Payouts:    make([]payoutResponse, 0, len(earnings.Payouts)),
	}
	for _, payout := range earnings.Payouts {
		resp.Payouts = append(resp.Payouts, toPayoutResponse(payout))
	}
	return resp
}

func toPayoutResponse(payout *domain.Payout) payoutResponse {
	return payoutResponse{
		ID:          payout.ID,
		OrderID:     payout.OrderID,
		Pages:       payout.Pages,
		RateCents:   payout.RateCents,
		AmountCents: payout.AmountCents,
		BookedAt:    payout.BookedAt.UTC().Format(time.RFC3339),
	}
}
