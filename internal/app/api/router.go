package api

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	orderhttp "github.com/Apurer/go-gin-trade-server/internal/domains/orders/adapters/http"
	"github.com/Apurer/go-gin-trade-server/internal/shared/requestid"
)

// NewRouter builds the gin engine serving the order routes.
func NewRouter(serviceName string, orders *orderhttp.OrderAPI) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), requestid.Middleware(), otelgin.Middleware(serviceName))
	router.NoMethod(orders.MethodNotAllowed)
	orderhttp.RegisterRoutes(router, orders)
	return router
}
