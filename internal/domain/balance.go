package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnerKind identifies whose ledger a balance row belongs to.
type OwnerKind string

const (
	OwnerCompany OwnerKind = "company"
	OwnerClient  OwnerKind = "client"
)

// Valid reports whether k is a known owner kind.
func (k OwnerKind) Valid() bool {
	return k == OwnerCompany || k == OwnerClient
}

// BalanceKey addresses one balance row. An empty CustomerID is the company.
type BalanceKey struct {
	CurrencyID string
	CustomerID string
}

// CompanyKey returns the key of the company row for a currency.
func CompanyKey(currencyID string) BalanceKey {
	return BalanceKey{CurrencyID: currencyID}
}

// CustomerKey returns the key of a customer row.
func CustomerKey(customerID, currencyID string) BalanceKey {
	return BalanceKey{CurrencyID: currencyID, CustomerID: customerID}
}

// IsCompany reports whether the key addresses the company ledger.
func (k BalanceKey) IsCompany() bool {
	return k.CustomerID == ""
}

// Owner returns the owner kind of the key.
func (k BalanceKey) Owner() OwnerKind {
	if k.IsCompany() {
		return OwnerCompany
	}
	return OwnerClient
}

// Less orders keys so company rows sort before customer rows. Locks are
// always taken in this order.
func (k BalanceKey) Less(other BalanceKey) bool {
	if k.IsCompany() != other.IsCompany() {
		return k.IsCompany()
	}
	if k.CustomerID != other.CustomerID {
		return k.CustomerID < other.CustomerID
	}
	return k.CurrencyID < other.CurrencyID
}

func (k BalanceKey) String() string {
	if k.IsCompany() {
		return "company/" + k.CurrencyID
	}
	return "customer/" + k.CustomerID + "/" + k.CurrencyID
}

// Balance is a company or customer balance row for one currency.
type Balance struct {
	ID           string
	CurrencyID   string
	CustomerID   *string
	CashBalance  decimal.Decimal
	CheckBalance decimal.Decimal
	Starred      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Currency is populated by read paths for display.
	Currency *Currency
}

// NewBalance returns a zero-valued row for key.
func NewBalance(id string, key BalanceKey, now time.Time) *Balance {
	b := &Balance{
		ID:           id,
		CurrencyID:   key.CurrencyID,
		CashBalance:  decimal.Zero,
		CheckBalance: decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !key.IsCompany() {
		customerID := key.CustomerID
		b.CustomerID = &customerID
	}
	return b
}

// Key returns the row's address.
func (b *Balance) Key() BalanceKey {
	if b.CustomerID == nil {
		return CompanyKey(b.CurrencyID)
	}
	return CustomerKey(*b.CustomerID, b.CurrencyID)
}

// Bucket returns the current value of one bucket.
func (b *Balance) Bucket(bucket Bucket) decimal.Decimal {
	if bucket == BucketCheck {
		return b.CheckBalance
	}
	return b.CashBalance
}

func (b *Balance) add(bucket Bucket, delta decimal.Decimal) {
	if delta.IsZero() {
		return
	}
	if bucket == BucketCheck {
		b.CheckBalance = b.CheckBalance.Add(delta)
		return
	}
	b.CashBalance = b.CashBalance.Add(delta)
}

// Clone returns an independent copy of the row.
func (b *Balance) Clone() *Balance {
	c := *b
	if b.CustomerID != nil {
		id := *b.CustomerID
		c.CustomerID = &id
	}
	return &c
}

// BalancePolicy decides whether company buckets may go below zero through
// ordinary transactions.
type BalancePolicy struct {
	AllowNegativeCash  bool
	AllowNegativeCheck bool
}

// DefaultBalancePolicy permits overdrafts on both buckets.
func DefaultBalancePolicy() BalancePolicy {
	return BalancePolicy{AllowNegativeCash: true, AllowNegativeCheck: true}
}

// Check compares a company row before and after one operation. A bucket
// fails only when it ends below zero and below where it started, so a row
// already overdrawn can still be traded toward zero. Customer rows always
// pass. A nil before is a fresh row.
func (p BalancePolicy) Check(before, after *Balance) error {
	if after == nil || after.CustomerID != nil {
		return nil
	}
	if !p.AllowNegativeCash {
		if err := checkBucket(BucketCash, before, after); err != nil {
			return err
		}
	}
	if !p.AllowNegativeCheck {
		if err := checkBucket(BucketCheck, before, after); err != nil {
			return err
		}
	}
	return nil
}

func checkBucket(bucket Bucket, before, after *Balance) error {
	start := decimal.Zero
	if before != nil {
		start = before.Bucket(bucket)
	}
	end := after.Bucket(bucket)
	if !end.IsNegative() || !end.LessThan(start) {
		return nil
	}
	return &InsufficientBalanceError{
		Bucket:    bucket,
		Current:   start,
		Requested: start.Sub(end),
		Cause:     ErrNegativeBalanceNotAllowed,
	}
}
