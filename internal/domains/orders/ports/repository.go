package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateID is returned by Create when the order number is taken.
	ErrDuplicateID = errors.New("order id already exists")
	// ErrStatusConflict is returned by UpdateStatus when the stored status no
	// longer matches the expected one.
	ErrStatusConflict = errors.New("order status changed concurrently")
	// ErrCorrupt wraps validation failures raised while rehydrating a stored order.
	ErrCorrupt = errors.New("stored order is corrupt")
)

// Repository persists orders keyed by order number.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// UpdateStatus stores order.Status() only if the stored status is still expected.
	UpdateStatus(ctx context.Context, order *domain.Order, expected domain.Status) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByDateAndInvoice(ctx context.Context, date time.Time, invoice domain.Invoice) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
	// Page returns the zero-based page offset of size limit.
	Page(ctx context.Context, offset, limit int) (domain.Page, error)
}
