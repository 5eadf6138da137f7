package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{
	StatusOrderCompleted,
	StatusPaymentCompleted,
	StatusPaymentReceived,
	StatusShipped,
	StatusReceived,
}

func TestValidateTransition_Table(t *testing.T) {
	tests := []struct {
		name    string
		invoice Invoice
		current Status
		next    Status
		want    error
	}{
		{"purchase paid", InvoicePurchase, StatusOrderCompleted, StatusPaymentCompleted, nil},
		{"purchase shipped", InvoicePurchase, StatusPaymentCompleted, StatusShipped, nil},
		{"sell remitted", InvoiceSell, StatusOrderCompleted, StatusPaymentReceived, nil},
		{"sell received", InvoiceSell, StatusPaymentReceived, StatusReceived, nil},
		{"purchase skip ahead", InvoicePurchase, StatusOrderCompleted, StatusShipped, ErrStatusNotAvailable},
		{"purchase cross invoice", InvoicePurchase, StatusOrderCompleted, StatusPaymentReceived, ErrStatusNotAvailable},
		{"purchase backwards", InvoicePurchase, StatusPaymentCompleted, StatusOrderCompleted, ErrStatusNotAvailable},
		{"purchase terminal", InvoicePurchase, StatusShipped, StatusShipped, ErrStatusNotForPurchase},
		{"purchase foreign current", InvoicePurchase, StatusPaymentReceived, StatusReceived, ErrStatusNotForPurchase},
		{"sell skip ahead", InvoiceSell, StatusOrderCompleted, StatusReceived, ErrStatusNotAvailable},
		{"sell terminal", InvoiceSell, StatusReceived, StatusReceived, ErrStatusNotForSell},
		{"sell foreign current", InvoiceSell, StatusPaymentCompleted, StatusShipped, ErrStatusNotForSell},
		{"unknown invoice", Invoice("SWAP"), StatusOrderCompleted, StatusPaymentCompleted, ErrStatusNotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.invoice, tt.current, tt.next)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateTransition_OnlySequenceIsReachable(t *testing.T) {
	for _, invoice := range []Invoice{InvoicePurchase, InvoiceSell} {
		seq := invoice.Sequence()
		for _, from := range allStatuses {
			for _, to := range allStatuses {
				err := ValidateTransition(invoice, from, to)
				expected := false
				for i := 0; i+1 < len(seq); i++ {
					if seq[i] == from && seq[i+1] == to {
						expected = true
					}
				}
				if expected {
					require.NoError(t, err, "%s %s -> %s", invoice, from, to)
				} else {
					require.Error(t, err, "%s %s -> %s", invoice, from, to)
				}
			}
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	require.True(t, StatusShipped.Terminal())
	require.True(t, StatusReceived.Terminal())
	require.False(t, StatusOrderCompleted.Terminal())
	require.False(t, StatusPaymentCompleted.Terminal())
}

func TestParseEnums(t *testing.T) {
	invoice, err := ParseInvoice(" purchase ")
	require.NoError(t, err)
	require.Equal(t, InvoicePurchase, invoice)

	_, err = ParseInvoice("rent")
	require.ErrorIs(t, err, ErrInvalidInvoice)

	item, err := ParseItemType("gold_9999")
	require.NoError(t, err)
	require.Equal(t, ItemGold9999, item)

	_, err = ParseItemType("SILVER")
	require.ErrorIs(t, err, ErrInvalidItemType)

	status, err := ParseStatus("SHIPPED")
	require.NoError(t, err)
	require.Equal(t, StatusShipped, status)

	_, err = ParseStatus("LOST")
	require.ErrorIs(t, err, ErrInvalidStatus)
}
