package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Orders are immutable
// values, so stored pointers are shared with callers.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID()]; ok {
		return nil, ports.ErrDuplicateID
	}
	r.orders[order.ID()] = order
	return order, nil
}

func (r *Repository) UpdateStatus(_ context.Context, order *domain.Order, expected domain.Status) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID()]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.Status() != expected {
		return nil, ports.ErrStatusConflict
	}
	r.orders[order.ID()] = order
	return order, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order, nil
}

// GetByDateAndInvoice returns the lowest order number created at date for invoice.
func (r *Repository) GetByDateAndInvoice(_ context.Context, date time.Time, invoice domain.Invoice) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var match *domain.Order
	for _, order := range r.orders {
		if order.Invoice() != invoice || !order.OrderDate().Equal(date) {
			continue
		}
		if match == nil || order.ID() < match.ID() {
			match = order
		}
	}
	if match == nil {
		return nil, ports.ErrNotFound
	}
	return match, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

// Page orders by order number and slices out page offset.
func (r *Repository) Page(_ context.Context, offset, limit int) (domain.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, order)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID() < list[j].ID() })
	total := int64(len(list))
	if limit <= 0 || offset < 0 {
		return domain.NewPage(nil, offset, limit, total), nil
	}
	start := offset * limit
	if start >= len(list) {
		return domain.NewPage([]*domain.Order{}, offset, limit, total), nil
	}
	end := start + limit
	if end > len(list) {
		end = len(list)
	}
	return domain.NewPage(list[start:end], offset, limit, total), nil
}
