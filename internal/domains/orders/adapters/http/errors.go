package http

import (
	"errors"

	apierrors "github.com/Apurer/go-gin-trade-server/internal/shared/errors"

	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/domain"
)

// ProblemFromError renders catalog errors as problem documents with the
// business code attached. The cause is never exposed.
func ProblemFromError(err error) (apierrors.ProblemDetail, bool) {
	var catalogErr *domain.Error
	if !errors.As(err, &catalogErr) {
		return apierrors.ProblemDetail{}, false
	}
	return apierrors.ForStatus(catalogErr.Status).
		WithDetail(catalogErr.Message).
		WithCode(catalogErr.Code).
		WithExtension("error", catalogErr.Kind.String()), true
}

// NewResponder builds the problem responder used by the order routes.
func NewResponder() *apierrors.ChainedResponder {
	return apierrors.NewChainedResponder("", ProblemFromError)
}

func invalidField(err error) error {
	return domain.WrapError(domain.KindInvalidField, err)
}
