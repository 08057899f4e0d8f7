package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	accountshttp "github.com/inkwell-letters/fulfillment/internal/domains/accounts/adapters/http"
	accountsports "github.com/inkwell-letters/fulfillment/internal/domains/accounts/ports"
	inventoryhttp "github.com/inkwell-letters/fulfillment/internal/domains/inventory/adapters/http"
	inventoryports "github.com/inkwell-letters/fulfillment/internal/domains/inventory/ports"
	notificationshttp "github.com/inkwell-letters/fulfillment/internal/domains/notifications/adapters/http"
	notificationsports "github.com/inkwell-letters/fulfillment/internal/domains/notifications/ports"
	ordershttp "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/http"
	ordersports "github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
	qchttp "github.com/inkwell-letters/fulfillment/internal/domains/qc/adapters/http"
	qcports "github.com/inkwell-letters/fulfillment/internal/domains/qc/ports"
	writershttp "github.com/inkwell-letters/fulfillment/internal/domains/writers/adapters/http"
	writersports "github.com/inkwell-letters/fulfillment/internal/domains/writers/ports"
	sharederrors "github.com/inkwell-letters/fulfillment/internal/shared/errors"
)

// Services groups the application services exposed over HTTP.
type Services struct {
	Orders        ordersports.Service
	Shipments     ordersports.ShipmentDispatcher
	Writers       writersports.Service
	QC            qcports.Service
	Inventory     inventoryports.Service
	Accounts      accountsports.Service
	Notifications notificationsports.Service
}

// NewRouter assembles the gin engine with every bounded context mounted
// under /v1 and domain errors rendered as Problem Details.
func NewRouter(serviceName string, services Services) *gin.Engine {
	responder := sharederrors.NewChainedResponder("", sharederrors.FulfillmentErrorMapper)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	ordershttp.NewOrdersAPI(services.Orders, services.Shipments, responder).Register(v1)
	writershttp.NewWritersAPI(services.Writers, responder).Register(v1)
	qchttp.NewQCAPI(services.QC, responder).Register(v1)
	inventoryhttp.NewInventoryAPI(services.Inventory, responder).Register(v1)
	accountshttp.NewAccountsAPI(services.Accounts, responder).Register(v1)
	notificationshttp.NewNotificationsAPI(services.Notifications, responder).Register(v1)

	return router
}
