package domain

import (
	"errors"
	"fmt"
)

// Error kinds returned by the transfer core. Client input errors never reach
// storage, business rejections only read it, and ErrStoreUnavailable is safe
// to retry because a failed unit of work leaves no partial state.
var (
	ErrMissingField       = errors.New("missing field")
	ErrInvalidField       = errors.New("invalid field")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDestination = errors.New("invalid destination")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrEmailTaken         = errors.New("email already registered")
	ErrBalanceLimit       = errors.New("balance limit exceeded")
)

// TransferError carries an error kind, a reason that is safe to show to the
// end user, and the underlying cause (logged, never shown).
type TransferError struct {
	Kind   error
	Reason string
	Err    error
}

func (e *TransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *TransferError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func Reject(kind error, reason string) *TransferError {
	return &TransferError{Kind: kind, Reason: reason}
}

func Fail(kind error, reason string, err error) *TransferError {
	return &TransferError{Kind: kind, Reason: reason, Err: err}
}

// ReasonOf returns the user-facing reason for err, falling back to fallback
// when err is not a TransferError.
func ReasonOf(err error, fallback string) string {
	var te *TransferError
	if errors.As(err, &te) && te.Reason != "" {
		return te.Reason
	}
	return fallback
}
