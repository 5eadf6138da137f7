package domain

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRoundQuantity_HalfUp(t *testing.T) {
	cases := map[float64]string{
		1.005: "1.01",
		2.344: "2.34",
		3.005: "3.01",
		0.125: "0.13",
		7:     "7",
	}
	for in, want := range cases {
		got := RoundQuantity(decimal.NewFromFloat(in))
		require.True(t, got.Equal(decimal.RequireFromString(want)), "%v -> %s", in, got)
	}
}

func TestGenerateID_UsesUTCSeconds(t *testing.T) {
	at := time.Date(2024, 6, 12, 19, 4, 5, 999, time.FixedZone("KST", 9*60*60))
	require.Equal(t, "ORDER-20240612-100405", GenerateID(at))
}

func TestPlaceOrder_StartsCompletedAndRounded(t *testing.T) {
	now := time.Date(2024, 6, 12, 10, 0, 0, 500_000_000, time.UTC)
	order, err := PlaceOrder(now, 1, InvoicePurchase, ItemGold999, decimal.NewFromFloat(3.005), "Seoul")
	require.NoError(t, err)
	require.Equal(t, "ORDER-20240612-100000", order.ID())
	require.Equal(t, StatusOrderCompleted, order.Status())
	require.Equal(t, "3.01", order.Quantity().StringFixed(2))
	require.Equal(t, time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC), order.OrderDate())
	require.True(t, order.OwnedBy(1))
	require.False(t, order.OwnedBy(2))
}

func TestNewOrder_Invariants(t *testing.T) {
	now := time.Now()
	qty := decimal.NewFromInt(1)

	_, err := NewOrder("", now, 1, InvoiceSell, ItemGold999, qty, "", StatusOrderCompleted)
	require.ErrorIs(t, err, ErrEmptyID)

	_, err = NewOrder("ORDER-1", now, 0, InvoiceSell, ItemGold999, qty, "", StatusOrderCompleted)
	require.ErrorIs(t, err, ErrInvalidUserID)

	_, err = NewOrder("ORDER-1", now, 1, InvoiceSell, ItemGold999, decimal.Zero, "", StatusOrderCompleted)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder("ORDER-1", now, 1, InvoiceSell, ItemType("SILVER"), qty, "", StatusOrderCompleted)
	require.ErrorIs(t, err, ErrInvalidItemType)

	_, err = NewOrder("ORDER-1", now, 1, InvoiceSell, ItemGold999, qty, "", StatusShipped)
	require.ErrorIs(t, err, ErrStatusForInvoice)

	_, err = NewOrder("ORDER-1", now, 1, InvoicePurchase, ItemGold999, qty, "", StatusReceived)
	require.ErrorIs(t, err, ErrStatusForInvoice)
}

func TestAdvance_ReturnsCopy(t *testing.T) {
	order, err := PlaceOrder(time.Now(), 1, InvoiceSell, ItemGold9999, decimal.NewFromInt(2), "Busan")
	require.NoError(t, err)

	next, err := order.Advance(StatusPaymentReceived)
	require.NoError(t, err)
	require.Equal(t, StatusPaymentReceived, next.Status())
	require.Equal(t, StatusOrderCompleted, order.Status())
	require.Equal(t, order.ID(), next.ID())

	_, err = next.Advance(StatusShipped)
	require.ErrorIs(t, err, ErrStatusNotAvailable)

	done, err := next.Advance(StatusReceived)
	require.NoError(t, err)
	_, err = done.Advance(StatusReceived)
	require.ErrorIs(t, err, ErrStatusNotForSell)
}

func TestNewPage_TotalPages(t *testing.T) {
	require.Equal(t, 0, NewPage(nil, 0, 10, 0).TotalPages)
	require.Equal(t, 1, NewPage(nil, 0, 10, 10).TotalPages)
	require.Equal(t, 2, NewPage(nil, 0, 10, 11).TotalPages)
	require.Equal(t, 0, NewPage(nil, 0, 0, 11).TotalPages)
}

func TestErrorCatalog(t *testing.T) {
	err := NewError(KindOrderNotFound)
	require.Equal(t, 2001, err.Code)
	require.Equal(t, http.StatusNotFound, err.Status)
	require.ErrorIs(t, err, ErrOrderNotFound)
	require.NotErrorIs(t, err, ErrForbiddenOrder)

	cause := errors.New("dial tcp: refused")
	wrapped := WrapError(KindUserNotAuthenticated, cause)
	require.ErrorIs(t, wrapped, ErrUserNotAuthenticated)
	require.ErrorIs(t, wrapped, cause)
	require.Equal(t, http.StatusUnauthorized, wrapped.Status)

	require.Equal(t, KindStatusNotForSell, KindOf(ErrStatusNotForSell))
	require.Equal(t, KindServerError, KindOf(cause))
	require.Equal(t, "FORBIDDEN_ORDER", KindForbiddenOrder.String())
	require.Equal(t, 5000, NewError(Kind(99)).Code)
}
