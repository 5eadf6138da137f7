package domain

import (
	"errors"
	"strings"
)

// Invoice is the direction of a trade.
type Invoice string

const (
	InvoicePurchase Invoice = "PURCHASE"
	InvoiceSell     Invoice = "SELL"
)

// ItemType is the material grade being traded.
type ItemType string

const (
	ItemGold999  ItemType = "GOLD_999"
	ItemGold9999 ItemType = "GOLD_9999"
)

// Status enumerates order progression.
//
//	PURCHASE: ORDER_COMPLETED -> PAYMENT_COMPLETED -> SHIPPED
//	SELL:     ORDER_COMPLETED -> PAYMENT_RECEIVED  -> RECEIVED
type Status string

const (
	StatusOrderCompleted   Status = "ORDER_COMPLETED"
	StatusPaymentCompleted Status = "PAYMENT_COMPLETED"
	StatusPaymentReceived  Status = "PAYMENT_RECEIVED"
	StatusShipped          Status = "SHIPPED"
	StatusReceived         Status = "RECEIVED"
)

var (
	ErrInvalidInvoice  = errors.New("invoice is invalid")
	ErrInvalidItemType = errors.New("item type is invalid")
	ErrInvalidStatus   = errors.New("order status is invalid")
)

// transitions holds the only forward step allowed from each non-terminal
// status of an invoice sequence.
var transitions = map[Invoice]map[Status]Status{
	InvoicePurchase: {
		StatusOrderCompleted:   StatusPaymentCompleted,
		StatusPaymentCompleted: StatusShipped,
	},
	InvoiceSell: {
		StatusOrderCompleted:  StatusPaymentReceived,
		StatusPaymentReceived: StatusReceived,
	},
}

// ValidateTransition accepts or rejects moving an order of the given invoice
// from current to next.
func ValidateTransition(invoice Invoice, current, next Status) error {
	steps, ok := transitions[invoice]
	if !ok {
		return ErrStatusNotAvailable
	}
	allowed, ok := steps[current]
	if !ok {
		if invoice == InvoicePurchase {
			return ErrStatusNotForPurchase
		}
		return ErrStatusNotForSell
	}
	if allowed != next {
		return ErrStatusNotAvailable
	}
	return nil
}

// Sequence lists the statuses an order of this invoice passes through.
func (i Invoice) Sequence() []Status {
	switch i {
	case InvoicePurchase:
		return []Status{StatusOrderCompleted, StatusPaymentCompleted, StatusShipped}
	case InvoiceSell:
		return []Status{StatusOrderCompleted, StatusPaymentReceived, StatusReceived}
	default:
		return nil
	}
}

// Allows reports whether status belongs to the invoice's sequence.
func (i Invoice) Allows(status Status) bool {
	for _, s := range i.Sequence() {
		if s == status {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves status.
func (s Status) Terminal() bool {
	return s == StatusShipped || s == StatusReceived
}

func ParseInvoice(raw string) (Invoice, error) {
	switch v := Invoice(strings.ToUpper(strings.TrimSpace(raw))); v {
	case InvoicePurchase, InvoiceSell:
		return v, nil
	default:
		return "", ErrInvalidInvoice
	}
}

func ParseItemType(raw string) (ItemType, error) {
	switch v := ItemType(strings.ToUpper(strings.TrimSpace(raw))); v {
	case ItemGold999, ItemGold9999:
		return v, nil
	default:
		return "", ErrInvalidItemType
	}
}

func ParseStatus(raw string) (Status, error) {
	switch v := Status(strings.ToUpper(strings.TrimSpace(raw))); v {
	case StatusOrderCompleted, StatusPaymentCompleted, StatusPaymentReceived, StatusShipped, StatusReceived:
		return v, nil
	default:
		return "", ErrInvalidStatus
	}
}
