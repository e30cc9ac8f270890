package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxNoteLength     = 1000
	MaxNameLength     = 255
	DefaultPageSize   = 20
	MaxPageSize       = 100
	MinCurrencyLength = 3
	MaxCurrencyLength = 10
)

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]+$`)

// ValidateAmount checks that amount is positive. There is no upper bound:
// NUMERIC columns hold any exact value.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateCommissionRate checks that rate is a fraction in [0, 1].
func ValidateCommissionRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return ErrInvalidCommissionRate
	}
	return nil
}

// NormalizeCurrencyCode upper-cases and validates a currency code.
func NormalizeCurrencyCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < MinCurrencyLength || len(code) > MaxCurrencyLength || !currencyCodeRegex.MatchString(code) {
		return "", NewValidationError("code", fmt.Sprintf("must be %d to %d letters", MinCurrencyLength, MaxCurrencyLength))
	}
	return code, nil
}

// ValidateName checks a display name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewValidationError("name", "is required")
	}
	if len(name) > MaxNameLength {
		return NewValidationError("name", fmt.Sprintf("exceeds %d characters", MaxNameLength))
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
