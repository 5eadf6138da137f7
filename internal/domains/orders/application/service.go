package application

import (
	"context"
	"strings"
	"time"

	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/ports"
)

// Service orchestrates the order lifecycle: every mutation passes the
// identity gate first and every status change passes the state machine.
type Service struct {
	repo  ports.Repository
	gate  *Gate
	clock func() time.Time
}

// Option customises the service.
type Option func(*Service)

// WithClock overrides the time source used for order numbers and dates.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService wires the orders service with its collaborators.
func NewService(repo ports.Repository, authority ports.IdentityAuthority, opts ...Option) *Service {
	s := &Service{repo: repo, gate: NewGate(authority), clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Identify resolves the user behind token.
func (s *Service) Identify(ctx context.Context, token string) (int64, error) {
	return s.gate.Identify(ctx, token)
}

// CreateOrder registers a new order for the authorized user.
func (s *Service) CreateOrder(ctx context.Context, token string, input ports.CreateOrderInput) (*domain.Order, error) {
	userID, err := s.gate.AuthorizeClaim(ctx, token, input.UserID)
	if err != nil {
		return nil, err
	}
	order, err := domain.PlaceOrder(s.clock(), userID, input.Invoice, input.ItemType, input.Quantity, input.ShippingAddress)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateOrderStatus advances an order owned by the authorized caller to the
// requested status.
func (s *Service) UpdateOrderStatus(ctx context.Context, token string, input ports.UpdateStatusInput) (*domain.Order, error) {
	userID, err := s.gate.AuthorizeClaim(ctx, token, input.UserID)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, strings.TrimSpace(input.OrderID))
	if err != nil {
		return nil, mapError(err)
	}
	if !current.OwnedBy(userID) {
		return nil, domain.ErrForbiddenOrder
	}
	next, err := current.Advance(input.NewStatus)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.UpdateStatus(ctx, next, current.Status())
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetOrder looks an order up by its creation second and invoice. The token
// must belong to the order's owner.
func (s *Service) GetOrder(ctx context.Context, token string, date time.Time, invoice domain.Invoice) (*domain.Order, error) {
	order, err := s.repo.GetByDateAndInvoice(ctx, date, invoice)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.gate.AuthorizeOwner(ctx, token, order); err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder removes an order owned by the authorized caller.
func (s *Service) DeleteOrder(ctx context.Context, token string, input ports.DeleteOrderInput) error {
	userID, err := s.gate.AuthorizeClaim(ctx, token, input.UserID)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(input.OrderID)
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapError(err)
	}
	if !order.OwnedBy(userID) {
		return domain.ErrForbiddenOrder
	}
	return mapError(s.repo.Delete(ctx, id))
}

// ListOrders returns one page of all orders.
func (s *Service) ListOrders(ctx context.Context, offset, limit int) (domain.Page, error) {
	page, err := s.repo.Page(ctx, offset, limit)
	if err != nil {
		return domain.Page{}, mapError(err)
	}
	return page, nil
}

var _ ports.Service = (*Service)(nil)
