package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// IDPrefix starts every order number.
	IDPrefix = "ORDER-"
	// IDLayout renders the creation second into the order number.
	IDLayout = "20060102-150405"
	// DateLayout is the lookup key format for order dates.
	DateLayout = "2006-01-02T15:04:05"
	// QuantityScale is the number of fractional digits kept on quantities.
	QuantityScale = 2
)

var (
	ErrEmptyID          = errors.New("order id is required")
	ErrInvalidUserID    = errors.New("user id must be greater than zero")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrStatusForInvoice = errors.New("status does not belong to the invoice sequence")
)

// Order models a precious-metal trade order. It is immutable: the only way
// to obtain an order in another status is Advance.
type Order struct {
	id              string
	orderDate       time.Time
	userID          int64
	invoice         Invoice
	itemType        ItemType
	quantity        decimal.Decimal
	shippingAddress string
	status          Status
}

// NewOrder validates and constructs an order aggregate. Repositories use it
// to rehydrate stored orders, so it accepts any status of the invoice's
// sequence.
func NewOrder(id string, orderDate time.Time, userID int64, invoice Invoice, itemType ItemType, quantity decimal.Decimal, shippingAddress string, status Status) (*Order, error) {
	o := &Order{
		id:              strings.TrimSpace(id),
		orderDate:       orderDate.UTC(),
		userID:          userID,
		invoice:         invoice,
		itemType:        itemType,
		quantity:        quantity,
		shippingAddress: shippingAddress,
		status:          status,
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// PlaceOrder builds a freshly registered order: the id is derived from now,
// the quantity is normalized and the status starts at ORDER_COMPLETED.
func PlaceOrder(now time.Time, userID int64, invoice Invoice, itemType ItemType, quantity decimal.Decimal, shippingAddress string) (*Order, error) {
	now = now.UTC().Truncate(time.Second)
	return NewOrder(GenerateID(now), now, userID, invoice, itemType, RoundQuantity(quantity), shippingAddress, StatusOrderCompleted)
}

// GenerateID renders the order number for the given creation time. Two
// orders created within the same second get the same number.
func GenerateID(at time.Time) string {
	return IDPrefix + at.UTC().Format(IDLayout)
}

// RoundQuantity keeps two fractional digits, rounding half up.
func RoundQuantity(q decimal.Decimal) decimal.Decimal {
	return q.Round(QuantityScale)
}

func (o *Order) validate() error {
	if o.id == "" {
		return ErrEmptyID
	}
	if o.userID <= 0 {
		return ErrInvalidUserID
	}
	switch o.invoice {
	case InvoicePurchase, InvoiceSell:
	default:
		return ErrInvalidInvoice
	}
	switch o.itemType {
	case ItemGold999, ItemGold9999:
	default:
		return ErrInvalidItemType
	}
	if !o.quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	if !o.invoice.Allows(o.status) {
		return ErrStatusForInvoice
	}
	return nil
}

// Advance validates the transition to next and returns a copy of the order
// in that status. The receiver is left untouched.
func (o *Order) Advance(next Status) (*Order, error) {
	if err := ValidateTransition(o.invoice, o.status, next); err != nil {
		return nil, err
	}
	return o.withStatus(next), nil
}

func (o *Order) withStatus(status Status) *Order {
	clone := *o
	clone.status = status
	return &clone
}

func (o *Order) ID() string                { return o.id }
func (o *Order) OrderDate() time.Time      { return o.orderDate }
func (o *Order) UserID() int64             { return o.userID }
func (o *Order) Invoice() Invoice          { return o.invoice }
func (o *Order) ItemType() ItemType        { return o.itemType }
func (o *Order) Quantity() decimal.Decimal { return o.quantity }
func (o *Order) ShippingAddress() string   { return o.shippingAddress }
func (o *Order) Status() Status            { return o.status }

// OwnedBy reports whether userID owns the order.
func (o *Order) OwnedBy(userID int64) bool { return o.userID == userID }

// Page is one slice of the order listing.
type Page struct {
	Orders     []*Order
	Offset     int
	Limit      int
	TotalItems int64
	TotalPages int
}

// NewPage computes the page count for total items split into pages of limit.
func NewPage(orders []*Order, offset, limit int, total int64) Page {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Page{Orders: orders, Offset: offset, Limit: limit, TotalItems: total, TotalPages: pages}
}
