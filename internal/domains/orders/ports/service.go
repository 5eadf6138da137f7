package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/domain"
)

// CreateOrderInput carries an order registration request.
type CreateOrderInput struct {
	UserID          int64
	Invoice         domain.Invoice
	ItemType        domain.ItemType
	Quantity        decimal.Decimal
	ShippingAddress string
}

// UpdateStatusInput carries a status change request.
type UpdateStatusInput struct {
	UserID    int64
	OrderID   string
	NewStatus domain.Status
}

// DeleteOrderInput carries a deletion request.
type DeleteOrderInput struct {
	UserID  int64
	OrderID string
}

// Service exposes order lifecycle use cases to adapters.
type Service interface {
	Identify(ctx context.Context, token string) (int64, error)
	CreateOrder(ctx context.Context, token string, input CreateOrderInput) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, token string, input UpdateStatusInput) (*domain.Order, error)
	GetOrder(ctx context.Context, token string, date time.Time, invoice domain.Invoice) (*domain.Order, error)
	DeleteOrder(ctx context.Context, token string, input DeleteOrderInput) error
	ListOrders(ctx context.Context, offset, limit int) (domain.Page, error)
}
