package http

import (
	nethttp "net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/go-gin-trade-server/internal/shared/errors"

	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/application"
	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/ports"
)

const bearerPrefix = "Bearer "

// OrderAPI wires HTTP transport with the orders service.
type OrderAPI struct {
	service   ports.Service
	responder *apierrors.ChainedResponder
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ports.Service, responder *apierrors.ChainedResponder) *OrderAPI {
	if responder == nil {
		responder = NewResponder()
	}
	return &OrderAPI{service: service, responder: responder}
}

// Get /api/order/verify
// Resolves the bearer token to a user id.
func (api *OrderAPI) Verify(c *gin.Context) {
	token, ok := api.bearerToken(c)
	if !ok {
		return
	}
	userID, err := api.service.Identify(c.Request.Context(), token)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.VerifyResponse{UserID: userID})
}

// Post /api/order/register
// Registers a new order for the caller.
func (api *OrderAPI) Register(c *gin.Context) {
	token, ok := api.bearerToken(c)
	if !ok {
		return
	}
	var payload mapper.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.RespondError(c, invalidField(err))
		return
	}
	input, err := mapper.ToCreateInput(payload)
	if err != nil {
		api.responder.RespondError(c, invalidField(err))
		return
	}
	order, err := api.service.CreateOrder(c.Request.Context(), token, input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrder(order))
}

// Patch /api/order/update
// Advances an order to its next status.
func (api *OrderAPI) UpdateStatus(c *gin.Context) {
	token, ok := api.bearerToken(c)
	if !ok {
		return
	}
	var payload mapper.StatusUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.RespondError(c, invalidField(err))
		return
	}
	input, err := mapper.ToUpdateInput(payload)
	if err != nil {
		api.responder.RespondError(c, invalidField(err))
		return
	}
	order, err := api.service.UpdateOrderStatus(c.Request.Context(), token, input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrder(order))
}

// Get /api/order/list
// Looks an order up by date and invoice and returns page navigation.
func (api *OrderAPI) List(c *gin.Context) {
	token, ok := api.bearerToken(c)
	if !ok {
		return
	}
	var query mapper.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		api.responder.RespondError(c, invalidField(err))
		return
	}
	date, invoice, err := mapper.ParseListKey(query)
	if err != nil {
		api.responder.RespondError(c, invalidField(err))
		return
	}
	ctx := c.Request.Context()
	page, err := api.service.ListOrders(ctx, query.Offset, query.Limit)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	order, err := api.service.GetOrder(ctx, token, date, invoice)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.ListResponse{
		Success: true,
		Message: "Success to search invoices",
		Data:    mapper.FromDomainOrder(order),
		Links:   application.BuildLinks(page.TotalPages, date, query.Limit, query.Offset, invoice),
	})
}

// Delete /api/order/delete
// Removes an order owned by the caller.
func (api *OrderAPI) Delete(c *gin.Context) {
	token, ok := api.bearerToken(c)
	if !ok {
		return
	}
	var payload mapper.DeleteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.RespondError(c, invalidField(err))
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), token, mapper.ToDeleteInput(payload)); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, gin.H{"success": true, "message": "ok"})
}

// MethodNotAllowed answers a known path requested with an unsupported verb.
func (api *OrderAPI) MethodNotAllowed(c *gin.Context) {
	api.responder.RespondError(c, domain.ErrMethodNotAllowed)
}

// bearerToken extracts the token from the Authorization header and responds
// with InvalidAccessToken when it is missing or malformed.
func (api *OrderAPI) bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		api.responder.RespondError(c, domain.ErrInvalidAccessToken)
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		api.responder.RespondError(c, domain.ErrInvalidAccessToken)
		return "", false
	}
	return token, true
}
