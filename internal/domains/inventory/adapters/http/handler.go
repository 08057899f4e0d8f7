// Package http exposes inventory management over gin.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-letters/fulfillment/internal/domains/inventory/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/inventory/ports"
	sharederrors "github.com/inkwell-letters/fulfillment/internal/shared/errors"
)

// InventoryAPI wires HTTP transport with the inventory service.
type InventoryAPI struct {
	service   ports.Service
	responder *sharederrors.ChainedResponder
}

func NewInventoryAPI(service ports.Service, responder *sharederrors.ChainedResponder) *InventoryAPI {
	return &InventoryAPI{service: service, responder: responder}
}

// Register mounts the inventory routes on the group.
func (api *InventoryAPI) Register(rg *gin.RouterGroup) {
	rg.POST("/inventory/items", api.CreateItem)
	rg.GET("/inventory/items", api.ListItems)
	rg.GET("/inventory/items/:sku", api.GetItem)
	rg.POST("/inventory/items/:sku/adjust", api.Adjust)
	rg.GET("/inventory/items/:sku/movements", api.Movements)
}

type createItemRequest struct {
	SKU       string `json:"sku" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

// Post /v1/inventory/items
func (api *InventoryAPI) CreateItem(c *gin.Context) {
	var payload createItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	item, err := api.service.CreateItem(c.Request.Context(), payload.SKU, payload.Name, payload.Stock, payload.Threshold)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItemResponse(item))
}

// Get /v1/inventory/items
func (api *InventoryAPI) ListItems(c *gin.Context) {
	items, err := api.service.List(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	list := make([]itemResponse, 0, len(items))
	for _, item := range items {
		list = append(list, toItemResponse(item))
	}
	c.JSON(http.StatusOK, list)
}

// Get /v1/inventory/items/:sku
func (api *InventoryAPI) GetItem(c *gin.Context) {
	item, err := api.service.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

type adjustRequest struct {
	Op      string `json:"op" binding:"required"`
	Qty     int    `json:"qty" binding:"required"`
	Reason  string `json:"reason"`
	OrderID string `json:"order_id"`
}

// Post /v1/inventory/items/:sku/adjust
func (api *InventoryAPI) Adjust(c *gin.Context) {
	var payload adjustRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	item, err := api.service.AdjustStock(c.Request.Context(), c.Param("sku"), payload.Qty, payload.Reason, payload.OrderID, domain.Op(payload.Op))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

// Get /v1/inventory/items/:sku/movements
func (api *InventoryAPI) Movements(c *gin.Context) {
	movements, err := api.service.Movements(c.Request.Context(), c.Param("sku"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	list := make([]movementResponse, 0, len(movements))
	for _, movement := range movements {
		list = append(list, toMovementResponse(movement))
	}
	c.JSON(http.StatusOK, list)
}

type itemResponse struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Reserved  int    `json:"reserved"`
	Available int    `json:"available"`
	Threshold int    `json:"threshold"`
	LowStock  bool   `json:"low_stock"`
}

func toItemResponse(item *domain.Item) itemResponse {
	return itemResponse{
		SKU:       item.SKU,
		Name:      item.Name,
		Stock:     item.Stock,
		Reserved:  item.Reserved,
		Available: item.Available(),
		Threshold: item.Threshold,
		LowStock:  item.LowStock(),
	}
}

type movementResponse struct {
	ID        string `json:"id"`
	SKU       string `json:"sku"`
	Op        string `json:"op"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
	OrderID   string `json:"order_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toMovementResponse(movement domain.Movement) movementResponse {
	return movementResponse{
		ID:        movement.ID,
		SKU:       movement.SKU,
		Op:        string(movement.Op),
		Quantity:  movement.Quantity,
		Reason:    movement.Reason,
		OrderID:   movement.OrderID,
		CreatedAt: movement.CreatedAt.UTC().Format(time.RFC3339),
	}
}
