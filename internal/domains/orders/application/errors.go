package application

import (
	"errors"

	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/ports"
)

// mapError converts repository and validation failures into catalog errors.
// Catalog errors pass through unchanged. Validation failures of stored rows are
// server faults, not caller input.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrCorrupt) {
		return domain.WrapError(domain.KindServerError, err)
	}
	var catalogErr *domain.Error
	if errors.As(err, &catalogErr) {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrEmptyID),
		errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidInvoice),
		errors.Is(err, domain.ErrInvalidItemType),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrStatusForInvoice):
		return domain.WrapError(domain.KindInvalidField, err)
	case errors.Is(err, ports.ErrNotFound):
		return domain.WrapError(domain.KindOrderNotFound, err)
	case errors.Is(err, ports.ErrStatusConflict):
		return domain.WrapError(domain.KindStatusNotAvailable, err)
	default:
		return domain.WrapError(domain.KindServerError, err)
	}
}
