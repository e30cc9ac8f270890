package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EarningType classifies company income.
type EarningType string

const (
	EarningCommission EarningType = "commission"
	EarningExchange   EarningType = "exchange"
	EarningFee        EarningType = "fee"
	EarningSpread     EarningType = "spread"
	EarningOther      EarningType = "other"
)

// Valid reports whether t is a known earning type.
func (t EarningType) Valid() bool {
	switch t {
	case EarningCommission, EarningExchange, EarningFee, EarningSpread, EarningOther:
		return true
	}
	return false
}

// Earning is income recorded in one currency. Commission earnings are owned
// by the transaction they were derived from.
type Earning struct {
	ID            string
	CurrencyID    string
	TransactionID *string
	Amount        decimal.Decimal
	Type          EarningType
	Description   string
	Date          time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLinked reports whether the earning belongs to a transaction.
func (e *Earning) IsLinked() bool {
	return e.TransactionID != nil
}

// CommissionDescription is the description stored on derived earnings.
func CommissionDescription(transactionID string) string {
	return fmt.Sprintf("Commission for transaction #%s", transactionID)
}

// EarningFilter narrows earning listings.
type EarningFilter struct {
	CurrencyID string
	Type       EarningType
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// EarningGroup selects how earning totals are grouped.
type EarningGroup string

const (
	EarningGroupCurrency EarningGroup = "currency"
	EarningGroupType     EarningGroup = "type"
)

// Valid reports whether g is a known grouping.
func (g EarningGroup) Valid() bool {
	return g == EarningGroupCurrency || g == EarningGroupType
}

// EarningTotal is the sum of earnings for one group key.
type EarningTotal struct {
	Key   string          `json:"key"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}
