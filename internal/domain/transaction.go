package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one recorded movement against the ledger.
type Transaction struct {
	ID             string
	Amount         decimal.Decimal
	CommissionRate decimal.Decimal
	Note           string
	Movement       Movement
	CustomerID     *string
	CurrencyID     string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Populated by read paths for display.
	Currency *Currency
	Customer *Customer
}

// Commission recomputes the commission from the stored fields.
func (t *Transaction) Commission() decimal.Decimal {
	return ComputeCommission(t.Amount, t.CommissionRate, t.Movement)
}

// CompanyKey returns the company row this transaction affects.
func (t *Transaction) CompanyKey() BalanceKey {
	return CompanyKey(t.CurrencyID)
}

// CustomerKey returns the customer row this transaction affects, if any.
func (t *Transaction) CustomerKey() (BalanceKey, bool) {
	if t.CustomerID == nil || *t.CustomerID == "" || !t.Movement.TouchesCustomer() {
		return BalanceKey{}, false
	}
	return CustomerKey(*t.CustomerID, t.CurrencyID), true
}

// BalanceKeys lists every row the transaction's effect touches.
func (t *Transaction) BalanceKeys() []BalanceKey {
	var keys []BalanceKey
	if t.Movement.TouchesCompany(t.CustomerID) {
		keys = append(keys, t.CompanyKey())
	}
	if k, ok := t.CustomerKey(); ok {
		keys = append(keys, k)
	}
	return keys
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	CustomerID string
	CurrencyID string
	Movement   Movement
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// TransactionStat aggregates transactions sharing a movement and currency.
type TransactionStat struct {
	Movement        Movement
	CurrencyID      string
	Count           int64
	TotalAmount     decimal.Decimal
	TotalCommission decimal.Decimal
}
