// Package http exposes the order workflow over gin.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/http/mapper"
	"github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
	sharederrors "github.com/inkwell-letters/fulfillment/internal/shared/errors"
)

// OrdersAPI wires HTTP transport with the order workflow engine. Shipping
// goes through the dispatcher so the durable flow is used when configured.
type OrdersAPI struct {
	service   ports.Service
	shipments ports.ShipmentDispatcher
	responder *sharederrors.ChainedResponder
}

// NewOrdersAPI creates an OrdersAPI backed by the provided engine.
func NewOrdersAPI(service ports.Service, shipments ports.ShipmentDispatcher, responder *sharederrors.ChainedResponder) *OrdersAPI {
	return &OrdersAPI{service: service, shipments: shipments, responder: responder}
}

// Register mounts the order routes on the group.
func (api *OrdersAPI) Register(rg *gin.RouterGroup) {
	rg.POST("/orders", api.CreateOrder)
	rg.GET("/orders", api.ListOrders)
	rg.GET("/orders/:orderId", api.GetOrder)
	rg.POST("/orders/:orderId/payment/confirm", api.ConfirmPayment)
	rg.POST("/orders/:orderId/assign", api.AssignWriter)
	rg.POST("/orders/:orderId/packed", api.MarkPacked)
	rg.POST("/orders/:orderId/ship", api.Ship)
	rg.POST("/orders/:orderId/delivered", api.MarkDelivered)
	rg.POST("/orders/:orderId/cancel", api.Cancel)
}

// Post /v1/orders
func (api *OrdersAPI) CreateOrder(c *gin.Context) {
	var payload mapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	order, err := api.service.CreateOrder(c.Request.Context(), mapper.ToCreateInput(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromOrder(order))
}

// Get /v1/orders
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.List(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderList(orders))
}

// Get /v1/orders/:orderId
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	order, err := api.service.GetByID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

type confirmPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
}

// Post /v1/orders/:orderId/payment/confirm
func (api *OrdersAPI) ConfirmPayment(c *gin.Context) {
	var payload confirmPaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	order, err := api.service.ConfirmPayment(c.Request.Context(), c.Param("orderId"), payload.GatewayOrderID, payload.GatewayPaymentID)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

type assignWriterRequest struct {
	WriterID string `json:"writer_id" binding:"required"`
}

// Post /v1/orders/:orderId/assign
func (api *OrdersAPI) AssignWriter(c *gin.Context) {
	var payload assignWriterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	order, err := api.service.AssignWriter(c.Request.Context(), c.Param("orderId"), payload.WriterID)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

// Post /v1/orders/:orderId/packed
func (api *OrdersAPI) MarkPacked(c *gin.Context) {
	order, err := api.service.MarkPacked(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

type shipRequest struct {
	TrackingID string `json:"tracking_id" binding:"required"`
}

// Post /v1/orders/:orderId/ship
func (api *OrdersAPI) Ship(c *gin.Context) {
	var payload shipRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	input := ports.DispatchShipmentInput{OrderID: c.Param("orderId"), TrackingID: payload.TrackingID}
	order, err := api.dispatch(c, input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

func (api *OrdersAPI) dispatch(c *gin.Context, input ports.DispatchShipmentInput) (*domain.Order, error) {
	if api.shipments != nil {
		return api.shipments.DispatchShipment(c.Request.Context(), input)
	}
	return api.service.MarkShipped(c.Request.Context(), input.OrderID, input.TrackingID)
}

// Post /v1/orders/:orderId/delivered
func (api *OrdersAPI) MarkDelivered(c *gin.Context) {
	order, err := api.service.MarkDelivered(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Post /v1/orders/:orderId/cancel
func (api *OrdersAPI) Cancel(c *gin.Context) {
	var payload cancelRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	order, err := api.service.Cancel(c.Request.Context(), c.Param("orderId"), payload.Reason)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}
