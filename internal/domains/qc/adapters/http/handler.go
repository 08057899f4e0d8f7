// Package http exposes the QC desk over gin.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ordersmapper "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/http/mapper"
	"github.com/inkwell-letters/fulfillment/internal/domains/qc/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/qc/ports"
	sharederrors "github.com/inkwell-letters/fulfillment/internal/shared/errors"
)

// QCAPI wires HTTP transport with the QC desk.
type QCAPI struct {
	service   ports.Service
	responder *sharederrors.ChainedResponder
}

func NewQCAPI(service ports.Service, responder *sharederrors.ChainedResponder) *QCAPI {
	return &QCAPI{service: service, responder: responder}
}

// Register mounts the QC routes on the group.
func (api *QCAPI) Register(rg *gin.RouterGroup) {
	rg.GET("/qc/queue", api.Queue)
	rg.POST("/qc/orders/:orderId/approve", api.Approve)
	rg.POST("/qc/orders/:orderId/reject", api.Reject)
	rg.GET("/qc/orders/:orderId/reviews", api.History)
}

// Get /v1/qc/queue
func (api *QCAPI) Queue(c *gin.Context) {
	queue, err := api.service.Queue(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersmapper.FromOrderList(queue))
}

type checklistRequest struct {
	HandwritingLegible bool `json:"handwriting_legible"`
	MatchesBrief       bool `json:"matches_brief"`
	StationeryCorrect  bool `json:"stationery_correct"`
	NoSmudges          bool `json:"no_smudges"`
}

func (r checklistRequest) toDomain() domain.Checklist {
	return domain.Checklist{
		HandwritingLegible: r.HandwritingLegible,
		MatchesBrief:       r.MatchesBrief,
		StationeryCorrect:  r.StationeryCorrect,
		NoSmudges:          r.NoSmudges,
	}
}

type approveRequest struct {
	ReviewerID string           `json:"reviewer_id" binding:"required"`
	Checklist  checklistRequest `json:"checklist"`
}

// Post /v1/qc/orders/:orderId/approve
func (api *QCAPI) Approve(c *gin.Context) {
	var payload approveRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	review, err := api.service.Approve(c.Request.Context(), c.Param("orderId"), payload.ReviewerID, payload.Checklist.toDomain())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(review))
}

type rejectRequest struct {
	ReviewerID string           `json:"reviewer_id" binding:"required"`
	Feedback   string           `json:"feedback" binding:"required"`
	Checklist  checklistRequest `json:"checklist"`
}

// Post /v1/qc/orders/:orderId/reject
func (api *QCAPI) Reject(c *gin.Context) {
	var payload rejectRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	review, err := api.service.Reject(c.Request.Context(), c.Param("orderId"), payload.ReviewerID, payload.Feedback, payload.Checklist.toDomain())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(review))
}

// Get /v1/qc/orders/:orderId/reviews
func (api *QCAPI) History(c *gin.Context) {
	reviews, err := api.service.History(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	list := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		list = append(list, toReviewResponse(review))
	}
	c.JSON(http.StatusOK, list)
}

type reviewResponse struct {
	ID            string           `json:"id"`
	OrderID       string           `json:"order_id"`
	ReviewerID    string           `json:"reviewer_id"`
	Outcome       string           `json:"outcome"`
	Feedback      string           `json:"feedback,omitempty"`
	SubmissionURL string           `json:"submission_url,omitempty"`
	Checklist     checklistRequest `json:"checklist"`
	CreatedAt     string           `json:"created_at"`
}

func toReviewResponse(review *domain.Review) reviewResponse {
	return reviewResponse{
		ID:            review.ID,
		OrderID:       review.OrderID,
		ReviewerID:    review.ReviewerID,
		Outcome:       string(review.Outcome),
		Feedback:      review.Feedback,
		SubmissionURL: review.SubmissionURL,
		Checklist: checklistRequest{
			HandwritingLegible: review.Checklist.HandwritingLegible,
			MatchesBrief:       review.Checklist.MatchesBrief,
			StationeryCorrect:  review.Checklist.StationeryCorrect,
			NoSmudges:          review.Checklist.NoSmudges,
		},
		CreatedAt: review.CreatedAt.UTC().Format(time.RFC3339),
	}
}
