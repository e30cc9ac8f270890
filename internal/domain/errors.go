package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error classes. Every error returned by the engine matches exactly one of
// these with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrStore               = errors.New("store failure")
)

var (
	// Lookup errors
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrEarningNotFound     = fmt.Errorf("earning %w", ErrNotFound)
	ErrCurrencyNotFound    = fmt.Errorf("currency %w", ErrNotFound)
	ErrCustomerNotFound    = fmt.Errorf("customer %w", ErrNotFound)
	ErrBalanceNotFound     = fmt.Errorf("balance %w", ErrNotFound)

	// Input errors
	ErrInvalidAmount         = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidCommissionRate = fmt.Errorf("%w: commission rate must be a fraction between 0 and 1", ErrValidation)
	ErrInvalidMovement       = fmt.Errorf("%w: unknown movement", ErrValidation)
	ErrMissingBalance        = fmt.Errorf("%w: balance row required for movement", ErrValidation)

	// Policy errors
	ErrNegativeBalanceNotAllowed = fmt.Errorf("%w: balance does not allow negative values", ErrInsufficientBalance)

	// Earning errors
	ErrEarningLinked = errors.New("earning is linked to a transaction")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientBalanceError reports the bucket state that blocked a write.
type InsufficientBalanceError struct {
	Bucket    Bucket
	Current   decimal.Decimal
	Requested decimal.Decimal
	// Cause is set when a policy, rather than an explicit remove, rejected the write.
	Cause error
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: current %s, requested %s",
		e.Bucket, e.Current.String(), e.Requested.String())
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

func (e *InsufficientBalanceError) Unwrap() error {
	return e.Cause
}

// StoreError wraps an underlying storage failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err unless it is nil or already classified.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrStore) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
