package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/ports"
)

type fakeOrderRepo struct {
	orders map[string]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*domain.Order{}}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if _, ok := f.orders[order.ID()]; ok {
		return nil, ports.ErrDuplicateID
	}
	f.orders[order.ID()] = order
	return order, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, order *domain.Order, expected domain.Status) (*domain.Order, error) {
	stored, ok := f.orders[order.ID()]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.Status() != expected {
		return nil, ports.ErrStatusConflict
	}
	f.orders[order.ID()] = order
	return order, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeOrderRepo) GetByDateAndInvoice(_ context.Context, date time.Time, invoice domain.Invoice) (*domain.Order, error) {
	for _, o := range f.orders {
		if o.OrderDate().Equal(date) && o.Invoice() == invoice {
			return o, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (f *fakeOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderRepo) Page(_ context.Context, offset, limit int) (domain.Page, error) {
	ids := make([]string, 0, len(f.orders))
	for id := range f.orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var list []*domain.Order
	for i := offset * limit; i < len(ids) && i < (offset+1)*limit; i++ {
		list = append(list, f.orders[ids[i]])
	}
	return domain.NewPage(list, offset, limit, int64(len(ids))), nil
}

type fakeAuthority struct {
	tokens map[string]int64
	err    error
	calls  int
}

func (f *fakeAuthority) VerifyToken(_ context.Context, token string) (ports.Verification, error) {
	f.calls++
	if f.err != nil {
		return ports.Verification{}, f.err
	}
	userID, ok := f.tokens[token]
	return ports.Verification{Valid: ok, UserID: userID}, nil
}

type steppingClock struct {
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	now := c.now
	c.now = c.now.Add(time.Second)
	return now
}

func newTestService(t *testing.T) (*Service, *fakeOrderRepo, *fakeAuthority) {
	t.Helper()
	repo := newFakeOrderRepo()
	authority := &fakeAuthority{tokens: map[string]int64{"alice-token": 1, "bob-token": 2, "seven": 7}}
	clock := &steppingClock{now: time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)}
	return NewService(repo, authority, WithClock(clock.Now)), repo, authority
}

func purchaseInput(userID int64, qty float64) ports.CreateOrderInput {
	return ports.CreateOrderInput{
		UserID:          userID,
		Invoice:         domain.InvoicePurchase,
		ItemType:        domain.ItemGold999,
		Quantity:        decimal.NewFromFloat(qty),
		ShippingAddress: "1 Gold St",
	}
}

func TestPurchaseLifecycleScenario(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "alice-token", purchaseInput(1, 3.005))
	require.NoError(t, err)
	require.Equal(t, "ORDER-20240612-100000", order.ID())
	require.Equal(t, "3.01", order.Quantity().StringFixed(2))
	require.Equal(t, domain.StatusOrderCompleted, order.Status())
	require.Contains(t, repo.orders, order.ID())

	paid, err := svc.UpdateOrderStatus(ctx, "alice-token", ports.UpdateStatusInput{UserID: 1, OrderID: order.ID(), NewStatus: domain.StatusPaymentCompleted})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaymentCompleted, paid.Status())

	_, err = svc.UpdateOrderStatus(ctx, "alice-token", ports.UpdateStatusInput{UserID: 1, OrderID: order.ID(), NewStatus: domain.StatusReceived})
	require.ErrorIs(t, err, domain.ErrStatusNotAvailable)

	shipped, err := svc.UpdateOrderStatus(ctx, "alice-token", ports.UpdateStatusInput{UserID: 1, OrderID: order.ID(), NewStatus: domain.StatusShipped})
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, shipped.Status())

	_, err = svc.UpdateOrderStatus(ctx, "alice-token", ports.UpdateStatusInput{UserID: 1, OrderID: order.ID(), NewStatus: domain.StatusShipped})
	require.ErrorIs(t, err, domain.ErrStatusNotForPurchase)
}

func TestUpdateOrderStatus_ForeignStatusOnPurchaseFromTerminal(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	stored, err := domain.NewOrder("ORDER-X", time.Now(), 1, domain.InvoicePurchase, domain.ItemGold999, decimal.NewFromInt(1), "", domain.StatusShipped)
	require.NoError(t, err)
	repo.orders[stored.ID()] = stored

	_, err = svc.UpdateOrderStatus(ctx, "alice-token", ports.UpdateStatusInput{UserID: 1, OrderID: "ORDER-X", NewStatus: domain.StatusReceived})
	require.ErrorIs(t, err, domain.ErrStatusNotForPurchase)
	require.Equal(t, domain.StatusShipped, repo.orders["ORDER-X"].Status())
}

func TestCreateOrder_ClaimMismatchIsNotPersisted(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), "seven", purchaseInput(8, 1))
	require.ErrorIs(t, err, domain.ErrUserNotAuthenticated)
	require.Empty(t, repo.orders)
}

func TestCreateOrder_AuthorityFailureBecomesUnauthenticated(t *testing.T) {
	svc, repo, authority := newTestService(t)
	authority.err = errors.New("connection refused")

	_, err := svc.CreateOrder(context.Background(), "alice-token", purchaseInput(1, 1))
	require.ErrorIs(t, err, domain.ErrUserNotAuthenticated)
	require.Equal(t, domain.KindUserNotAuthenticated, domain.KindOf(err))
	require.Empty(t, repo.orders)
}

func TestCreateOrder_InvalidTokenAndEmptyToken(t *testing.T) {
	svc, _, authority := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), "unknown", purchaseInput(1, 1))
	require.ErrorIs(t, err, domain.ErrUserNotAuthenticated)

	calls := authority.calls
	_, err = svc.CreateOrder(context.Background(), "  ", purchaseInput(1, 1))
	require.ErrorIs(t, err, domain.ErrUserNotAuthenticated)
	require.Equal(t, calls, authority.calls)
}

func TestCreateOrder_EveryCallReverifies(t *testing.T) {
	svc, _, authority := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, "alice-token", purchaseInput(1, 1))
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, "alice-token", purchaseInput(1, 2))
	require.NoError(t, err)
	require.Equal(t, 2, authority.calls)
}

func TestCreateOrder_InvalidQuantity(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), "alice-token", purchaseInput(1, 0.001))
	require.ErrorIs(t, err, domain.ErrInvalidField)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCreateOrder_SameSecondCollisionIsSurfaced(t *testing.T) {
	repo := newFakeOrderRepo()
	authority := &fakeAuthority{tokens: map[string]int64{"alice-token": 1}}
	fixed := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	svc := NewService(repo, authority, WithClock(func() time.Time { return fixed }))

	_, err := svc.CreateOrder(context.Background(), "alice-token", purchaseInput(1, 1))
	require.NoError(t, err)
	_, err = svc.CreateOrder(context.Background(), "alice-token", purchaseInput(1, 2))
	require.ErrorIs(t, err, domain.ErrServerError)
	require.ErrorIs(t, err, ports.ErrDuplicateID)
	require.Len(t, repo.orders, 1)
}

func TestUpdateOrderStatus_Errors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateOrderStatus(ctx, "alice-token", ports.UpdateStatusInput{UserID: 2, OrderID: "ORDER-1", NewStatus: domain.StatusShipped})
	require.ErrorIs(t, err, domain.ErrUserNotAuthenticated)

	_, err = svc.UpdateOrderStatus(ctx, "alice-token", ports.UpdateStatusInput{UserID: 1, OrderID: "ORDER-404", NewStatus: domain.StatusShipped})
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestUpdateOrderStatus_RejectsForeignOrder(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "alice-token", purchaseInput(1, 1))
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(ctx, "bob-token", ports.UpdateStatusInput{UserID: 2, OrderID: order.ID(), NewStatus: domain.StatusPaymentCompleted})
	require.ErrorIs(t, err, domain.ErrForbiddenOrder)
	require.Equal(t, domain.StatusOrderCompleted, repo.orders[order.ID()].Status())
	require.EqualValues(t, 1, repo.orders[order.ID()].UserID())
}

func TestUpdateOrderStatus_LostRaceIsStatusNotAvailable(t *testing.T) {
	repo := &racingRepo{fakeOrderRepo: newFakeOrderRepo()}
	authority := &fakeAuthority{tokens: map[string]int64{"alice-token": 1}}
	svc := NewService(repo, authority)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "alice-token", purchaseInput(1, 1))
	require.NoError(t, err)
	repo.raceTo = domain.StatusPaymentCompleted

	_, err = svc.UpdateOrderStatus(ctx, "alice-token", ports.UpdateStatusInput{UserID: 1, OrderID: order.ID(), NewStatus: domain.StatusPaymentCompleted})
	require.ErrorIs(t, err, domain.ErrStatusNotAvailable)
	require.ErrorIs(t, err, ports.ErrStatusConflict)
}

// racingRepo advances the stored order between the read and the write.
type racingRepo struct {
	*fakeOrderRepo
	raceTo domain.Status
}

func (r *racingRepo) UpdateStatus(ctx context.Context, order *domain.Order, expected domain.Status) (*domain.Order, error) {
	if r.raceTo != "" {
		stored := r.orders[order.ID()]
		advanced, err := stored.Advance(r.raceTo)
		if err != nil {
			return nil, err
		}
		r.orders[order.ID()] = advanced
		r.raceTo = ""
	}
	return r.fakeOrderRepo.UpdateStatus(ctx, order, expected)
}

// corruptRepo fails every read the way a persistence adapter reports an
// unreadable row.
type corruptRepo struct {
	*fakeOrderRepo
}

func (r *corruptRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	return nil, fmt.Errorf("%w: %s: %w", ports.ErrCorrupt, id, domain.ErrStatusForInvoice)
}

func TestUpdateOrderStatus_CorruptStoredOrderIsServerError(t *testing.T) {
	repo := &corruptRepo{fakeOrderRepo: newFakeOrderRepo()}
	authority := &fakeAuthority{tokens: map[string]int64{"alice-token": 1}}
	svc := NewService(repo, authority)

	_, err := svc.UpdateOrderStatus(context.Background(), "alice-token", ports.UpdateStatusInput{UserID: 1, OrderID: "ORDER-1", NewStatus: domain.StatusShipped})
	require.ErrorIs(t, err, domain.ErrServerError)
	require.NotErrorIs(t, err, domain.ErrInvalidField)
	require.ErrorIs(t, err, domain.ErrStatusForInvoice)
}

func TestGetOrder_AuthorizesStoredOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "alice-token", purchaseInput(1, 1))
	require.NoError(t, err)

	found, err := svc.GetOrder(ctx, "alice-token", order.OrderDate(), domain.InvoicePurchase)
	require.NoError(t, err)
	require.Equal(t, order.ID(), found.ID())

	_, err = svc.GetOrder(ctx, "bob-token", order.OrderDate(), domain.InvoicePurchase)
	require.ErrorIs(t, err, domain.ErrUserNotAuthenticated)

	_, err = svc.GetOrder(ctx, "alice-token", order.OrderDate(), domain.InvoiceSell)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestDeleteOrder(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "alice-token", purchaseInput(1, 1))
	require.NoError(t, err)

	err = svc.DeleteOrder(ctx, "bob-token", ports.DeleteOrderInput{UserID: 2, OrderID: order.ID()})
	require.ErrorIs(t, err, domain.ErrForbiddenOrder)
	require.Contains(t, repo.orders, order.ID())

	err = svc.DeleteOrder(ctx, "bob-token", ports.DeleteOrderInput{UserID: 1, OrderID: order.ID()})
	require.ErrorIs(t, err, domain.ErrUserNotAuthenticated)

	err = svc.DeleteOrder(ctx, "alice-token", ports.DeleteOrderInput{UserID: 1, OrderID: "ORDER-404"})
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	require.NoError(t, svc.DeleteOrder(ctx, "alice-token", ports.DeleteOrderInput{UserID: 1, OrderID: order.ID()}))
	require.NotContains(t, repo.orders, order.ID())
}

func TestListOrders_PassesThrough(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.CreateOrder(ctx, "alice-token", purchaseInput(1, float64(i+1)))
		require.NoError(t, err)
	}

	page, err := svc.ListOrders(ctx, 1, 2)
	require.NoError(t, err)
	require.Equal(t, 3, page.TotalPages)
	require.EqualValues(t, 5, page.TotalItems)
	require.Len(t, page.Orders, 2)
}

func TestIdentify(t *testing.T) {
	svc, _, _ := newTestService(t)

	userID, err := svc.Identify(context.Background(), "bob-token")
	require.NoError(t, err)
	require.EqualValues(t, 2, userID)

	_, err = NewService(newFakeOrderRepo(), nil).Identify(context.Background(), "bob-token")
	require.ErrorIs(t, err, domain.ErrUserNotAuthenticated)
}
