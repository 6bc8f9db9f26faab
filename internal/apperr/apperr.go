// Package apperr defines the error kinds shared by group membership and
// payment settlement, and their mapping onto Connect codes.
package apperr

import (
	"errors"

	"connectrpc.com/connect"
)

// Kind classifies a domain error.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindPaymentDeclined Kind = "payment_declined"
	KindTransport       Kind = "transport"
	KindInternal        Kind = "internal"
)

// Error is a domain error carrying its Kind.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// New creates an Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

var (
	ErrAlreadyInGroup  = New(KindValidation, "user is already in a group")
	ErrGroupNotActive  = New(KindValidation, "group is not active")
	ErrUserNotInGroup  = New(KindValidation, "user is not in this group")
	ErrOrderConflict   = New(KindValidation, "party already has an open order")
	ErrGroupNotFound   = New(KindNotFound, "group not found")
	ErrUserNotFound    = New(KindNotFound, "user not found")
	ErrOrderNotFound   = New(KindNotFound, "order not found")
	ErrPaymentDeclined = New(KindPaymentDeclined, "payment declined")
	ErrGatewayDown     = New(KindTransport, "payment gateway unavailable")
)

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ToConnect wraps err in a connect.Error whose code matches its Kind.
func ToConnect(err error) *connect.Error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}
	switch KindOf(err) {
	case KindValidation:
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case KindNotFound:
		return connect.NewError(connect.CodeNotFound, err)
	case KindPaymentDeclined:
		return connect.NewError(connect.CodeAborted, err)
	case KindTransport:
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
