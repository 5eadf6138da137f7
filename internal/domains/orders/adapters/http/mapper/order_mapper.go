package mapper

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/application"
	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/ports"
)

// Order is the JSON shape of an order.
type Order struct {
	ID              string  `json:"id"`
	OrderDate       string  `json:"orderDate"`
	UserID          int64   `json:"userId"`
	Invoice         string  `json:"invoice"`
	ItemType        string  `json:"itemType"`
	Quantity        float64 `json:"quantity"`
	ShippingAddress string  `json:"shippingAddress"`
	Status          string  `json:"status"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	UserID          int64           `json:"userId" binding:"required"`
	Invoice         string          `json:"invoice" binding:"required"`
	ItemType        string          `json:"itemType" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	ShippingAddress string          `json:"shippingAddress"`
}

// StatusUpdateRequest is the body of PATCH /update.
type StatusUpdateRequest struct {
	UserID    int64  `json:"userId" binding:"required"`
	OrderID   string `json:"orderId" binding:"required"`
	NewStatus string `json:"newStatus" binding:"required"`
}

// DeleteRequest is the body of DELETE /delete.
type DeleteRequest struct {
	UserID  int64  `json:"userId" binding:"required"`
	OrderID string `json:"orderId" binding:"required"`
}

// ListQuery is the query string of GET /list. Offset is a zero-based page index.
type ListQuery struct {
	Date    string `form:"date" binding:"required"`
	Limit   int    `form:"limit" binding:"required,min=1"`
	Offset  int    `form:"offset" binding:"min=0"`
	Invoice string `form:"invoice" binding:"required"`
}

// ListResponse is the body of GET /list.
type ListResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    Order             `json:"data"`
	Links   application.Links `json:"links"`
}

// VerifyResponse is the body of GET /verify.
type VerifyResponse struct {
	UserID int64 `json:"userId"`
}

// FromDomainOrder converts a domain order to its JSON shape.
func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	return Order{
		ID:              order.ID(),
		OrderDate:       order.OrderDate().Format(domain.DateLayout),
		UserID:          order.UserID(),
		Invoice:         string(order.Invoice()),
		ItemType:        string(order.ItemType()),
		Quantity:        order.Quantity().InexactFloat64(),
		ShippingAddress: order.ShippingAddress(),
		Status:          string(order.Status()),
	}
}

// ToCreateInput validates enum fields and builds the service input.
func ToCreateInput(req RegisterRequest) (ports.CreateOrderInput, error) {
	invoice, err := domain.ParseInvoice(req.Invoice)
	if err != nil {
		return ports.CreateOrderInput{}, err
	}
	itemType, err := domain.ParseItemType(req.ItemType)
	if err != nil {
		return ports.CreateOrderInput{}, err
	}
	return ports.CreateOrderInput{
		UserID:          req.UserID,
		Invoice:         invoice,
		ItemType:        itemType,
		Quantity:        req.Quantity,
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
	}, nil
}

// ToUpdateInput validates the requested status and builds the service input.
func ToUpdateInput(req StatusUpdateRequest) (ports.UpdateStatusInput, error) {
	status, err := domain.ParseStatus(req.NewStatus)
	if err != nil {
		return ports.UpdateStatusInput{}, err
	}
	return ports.UpdateStatusInput{
		UserID:    req.UserID,
		OrderID:   strings.TrimSpace(req.OrderID),
		NewStatus: status,
	}, nil
}

// ToDeleteInput builds the service input.
func ToDeleteInput(req DeleteRequest) ports.DeleteOrderInput {
	return ports.DeleteOrderInput{UserID: req.UserID, OrderID: strings.TrimSpace(req.OrderID)}
}

// ParseListKey parses the date and invoice of a listing lookup. Dates carry no
// zone and are read as UTC.
func ParseListKey(q ListQuery) (time.Time, domain.Invoice, error) {
	date, err := time.ParseInLocation(domain.DateLayout, strings.TrimSpace(q.Date), time.UTC)
	if err != nil {
		return time.Time{}, "", err
	}
	invoice, err := domain.ParseInvoice(q.Invoice)
	if err != nil {
		return time.Time{}, "", err
	}
	return date, invoice, nil
}
