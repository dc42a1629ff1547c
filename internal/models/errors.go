package models

import (
	"errors"
	"fmt"
)

// Validation error codes surfaced to the user on rejected trades.
const (
	CodeInvalidQuantity    = "invalid_quantity"
	CodeInsufficientFunds  = "insufficient_funds"
	CodeInsufficientShares = "insufficient_shares"
)

// ValidationError rejects a trade before it mutates any state. It is
// user-facing and never recovered silently.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is allows errors.Is matching against the sentinel validation errors.
func (e *ValidationError) Is(target error) bool {
	var v *ValidationError
	if errors.As(target, &v) {
		return e.Code == v.Code
	}
	return false
}

// Sentinel validation errors for errors.Is checks.
var (
	ErrInvalidQuantity    = &ValidationError{Code: CodeInvalidQuantity, Message: "quantity must be greater than zero"}
	ErrInsufficientFunds  = &ValidationError{Code: CodeInsufficientFunds, Message: "insufficient funds"}
	ErrInsufficientShares = &ValidationError{Code: CodeInsufficientShares, Message: "insufficient shares"}
)

// ErrSourceUnavailable marks a remote collaborator (quote source, trade
// backend, portfolio backend) as unreachable or having returned a malformed
// payload. It is always recovered locally — via synthetic generation or by
// keeping the local ledger authoritative — and never surfaced as a hard
// failure to the user.
var ErrSourceUnavailable = errors.New("source unavailable")

// SourceError wraps an underlying transport or schema failure so callers can
// match it with errors.Is(err, ErrSourceUnavailable) while logs keep the cause.
func SourceError(source string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, source, err)
}
