package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind enumerates the failures the order lifecycle reports to callers.
type Kind int

const (
	KindServerError Kind = iota
	KindInvalidAccessToken
	KindUserNotAuthenticated
	KindOrderNotFound
	KindStatusNotAvailable
	KindStatusNotForSell
	KindStatusNotForPurchase
	KindForbiddenOrder
	KindInvalidField
	KindMethodNotAllowed
)

type catalogEntry struct {
	code    int
	message string
	status  int
	name    string
}

var catalog = map[Kind]catalogEntry{
	KindInvalidAccessToken:   {code: 1000, message: "invalid access token", status: http.StatusUnauthorized, name: "INVALID_ACCESS_TOKEN"},
	KindUserNotAuthenticated: {code: 1001, message: "user is not authenticated", status: http.StatusUnauthorized, name: "USER_NOT_AUTHENTICATED"},
	KindOrderNotFound:        {code: 2001, message: "order does not exist", status: http.StatusNotFound, name: "ORDER_NOT_FOUND"},
	KindStatusNotAvailable:   {code: 2002, message: "check the current status of the order", status: http.StatusBadRequest, name: "STATUS_NOT_AVAILABLE"},
	KindStatusNotForSell:     {code: 2003, message: "status is not valid for a sell order", status: http.StatusBadRequest, name: "STATUS_NOT_FOR_SELL"},
	KindStatusNotForPurchase: {code: 2004, message: "status is not valid for a purchase order", status: http.StatusBadRequest, name: "STATUS_NOT_FOR_PURCHASE"},
	KindForbiddenOrder:       {code: 2005, message: "no permission for this order", status: http.StatusForbidden, name: "FORBIDDEN_ORDER"},
	KindInvalidField:         {code: 5001, message: "a field has an invalid value", status: http.StatusBadRequest, name: "INVALID_FIELD_TYPE"},
	KindMethodNotAllowed:     {code: 5003, message: "request method is not supported", status: http.StatusMethodNotAllowed, name: "METHOD_NOT_ALLOWED"},
	KindServerError:          {code: 5000, message: "an unknown problem occurred", status: http.StatusInternalServerError, name: "SERVER_ERROR"},
}

func (k Kind) entry() catalogEntry {
	if e, ok := catalog[k]; ok {
		return e
	}
	return catalog[KindServerError]
}

// String returns the catalog name of the kind.
func (k Kind) String() string { return k.entry().name }

// Error is the structured failure exposed to the transport layer. Code,
// Message and Status come from the catalog; Cause is kept for logs only.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Status  int
	Cause   error
}

// NewError builds the catalog error for kind.
func NewError(kind Kind) *Error {
	e := kind.entry()
	return &Error{Kind: kind, Code: e.code, Message: e.message, Status: e.status}
}

// WrapError builds the catalog error for kind, keeping cause for diagnostics.
func WrapError(kind Kind, cause error) *Error {
	err := NewError(kind)
	err.Cause = cause
	return err
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so callers can compare against the
// package sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

var (
	ErrInvalidAccessToken   = NewError(KindInvalidAccessToken)
	ErrUserNotAuthenticated = NewError(KindUserNotAuthenticated)
	ErrOrderNotFound        = NewError(KindOrderNotFound)
	ErrStatusNotAvailable   = NewError(KindStatusNotAvailable)
	ErrStatusNotForSell     = NewError(KindStatusNotForSell)
	ErrStatusNotForPurchase = NewError(KindStatusNotForPurchase)
	ErrForbiddenOrder       = NewError(KindForbiddenOrder)
	ErrInvalidField         = NewError(KindInvalidField)
	ErrMethodNotAllowed     = NewError(KindMethodNotAllowed)
	ErrServerError          = NewError(KindServerError)
)

// KindOf reports the catalog kind carried by err, defaulting to ServerError.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServerError
}
