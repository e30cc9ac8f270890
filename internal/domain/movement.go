package domain

import (
	"fmt"
	"strings"
)

// Movement is the stored kind of a transaction.
type Movement string

const (
	MovementBuyCash         Movement = "buy-cash"
	MovementBuyCheck        Movement = "buy-check"
	MovementSellCash        Movement = "sell-cash"
	MovementSellCheck       Movement = "sell-check"
	MovementWithdrawalCash  Movement = "withdrawal-cash"
	MovementWithdrawalCheck Movement = "withdrawal-check"
	MovementDepositCash     Movement = "deposit-cash"
	MovementDepositCheck    Movement = "deposit-check"
	MovementCheckCollection Movement = "check-collection"

	MovementAdjustCashAdd     Movement = "balance-adjustment-cash-add"
	MovementAdjustCashRemove  Movement = "balance-adjustment-cash-remove"
	MovementAdjustCheckAdd    Movement = "balance-adjustment-check-add"
	MovementAdjustCheckRemove Movement = "balance-adjustment-check-remove"
)

// Movements lists every valid movement in a stable order.
var Movements = []Movement{
	MovementBuyCash, MovementBuyCheck,
	MovementSellCash, MovementSellCheck,
	MovementWithdrawalCash, MovementWithdrawalCheck,
	MovementDepositCash, MovementDepositCheck,
	MovementCheckCollection,
	MovementAdjustCashAdd, MovementAdjustCashRemove,
	MovementAdjustCheckAdd, MovementAdjustCheckRemove,
}

// Bucket is one of the two balance slots kept per owner and currency.
type Bucket string

const (
	BucketCash  Bucket = "cash"
	BucketCheck Bucket = "check"
)

// Valid reports whether b is a known bucket.
func (b Bucket) Valid() bool {
	return b == BucketCash || b == BucketCheck
}

// Slot is the normalized semantic of a movement. The buy and deposit
// vocabularies share SlotAcquire; sell and withdrawal share SlotRelease.
type Slot int

const (
	SlotAcquire Slot = iota + 1
	SlotRelease
	SlotCollect
	SlotAdjustAdd
	SlotAdjustRemove
)

func (s Slot) String() string {
	switch s {
	case SlotAcquire:
		return "acquire"
	case SlotRelease:
		return "release"
	case SlotCollect:
		return "collect"
	case SlotAdjustAdd:
		return "adjust-add"
	case SlotAdjustRemove:
		return "adjust-remove"
	default:
		return "unknown"
	}
}

// MovementKind is the tagged form every stored movement normalizes to.
type MovementKind struct {
	Slot   Slot
	Bucket Bucket
}

var movementKinds = map[Movement]MovementKind{
	MovementBuyCash:         {SlotAcquire, BucketCash},
	MovementDepositCash:     {SlotAcquire, BucketCash},
	MovementBuyCheck:        {SlotAcquire, BucketCheck},
	MovementDepositCheck:    {SlotAcquire, BucketCheck},
	MovementSellCash:        {SlotRelease, BucketCash},
	MovementWithdrawalCash:  {SlotRelease, BucketCash},
	MovementSellCheck:       {SlotRelease, BucketCheck},
	MovementWithdrawalCheck: {SlotRelease, BucketCheck},
	// check-collection moves value from check to cash; Bucket names the source.
	MovementCheckCollection:   {SlotCollect, BucketCheck},
	MovementAdjustCashAdd:     {SlotAdjustAdd, BucketCash},
	MovementAdjustCashRemove:  {SlotAdjustRemove, BucketCash},
	MovementAdjustCheckAdd:    {SlotAdjustAdd, BucketCheck},
	MovementAdjustCheckRemove: {SlotAdjustRemove, BucketCheck},
}

// ParseMovement normalizes a raw movement name. Surrounding whitespace and
// case are ignored.
func ParseMovement(raw string) (Movement, error) {
	m := Movement(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := movementKinds[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidMovement, raw)
	}
	return m, nil
}

// Kind returns the normalized tag of m.
func (m Movement) Kind() (MovementKind, error) {
	k, ok := movementKinds[m]
	if !ok {
		return MovementKind{}, fmt.Errorf("%w: %q", ErrInvalidMovement, string(m))
	}
	return k, nil
}

// Valid reports whether m is a known movement.
func (m Movement) Valid() bool {
	_, ok := movementKinds[m]
	return ok
}

// IsTrade reports whether m is a buy, sell, deposit or withdrawal.
func (m Movement) IsTrade() bool {
	k, ok := movementKinds[m]
	return ok && (k.Slot == SlotAcquire || k.Slot == SlotRelease)
}

// IsCheckTrade reports whether m is a trade on the check bucket. Only these
// movements can carry a commission.
func (m Movement) IsCheckTrade() bool {
	k, ok := movementKinds[m]
	return ok && m.IsTrade() && k.Bucket == BucketCheck
}

// IsAdjustment reports whether m is a manual balance correction.
func (m Movement) IsAdjustment() bool {
	k, ok := movementKinds[m]
	return ok && (k.Slot == SlotAdjustAdd || k.Slot == SlotAdjustRemove)
}

// IsCollection reports whether m is check-collection.
func (m Movement) IsCollection() bool {
	return m == MovementCheckCollection
}

// RequiresCustomer reports whether a transaction with m must name a customer.
func (m Movement) RequiresCustomer() bool {
	return m.IsTrade()
}

// TouchesCustomer reports whether m changes a customer row when the
// transaction names a customer.
func (m Movement) TouchesCustomer() bool {
	return m.IsTrade() || m.IsAdjustment()
}

// TouchesCompany reports whether m changes the company row for a
// transaction. Adjustments against a customer leave the company alone.
func (m Movement) TouchesCompany(customerID *string) bool {
	if m.IsAdjustment() {
		return customerID == nil
	}
	return m.Valid()
}

// AdjustmentType selects the direction of a manual correction.
type AdjustmentType string

const (
	AdjustmentAdd    AdjustmentType = "add"
	AdjustmentRemove AdjustmentType = "remove"
)

// Valid reports whether t is a known adjustment type.
func (t AdjustmentType) Valid() bool {
	return t == AdjustmentAdd || t == AdjustmentRemove
}

// AdjustmentMovement returns the audit movement recorded for a correction.
func AdjustmentMovement(bucket Bucket, adj AdjustmentType) (Movement, error) {
	if !bucket.Valid() {
		return "", NewValidationError("balance_type", "must be cash or check")
	}
	if !adj.Valid() {
		return "", NewValidationError("adjustment_type", "must be add or remove")
	}
	return Movement(fmt.Sprintf("balance-adjustment-%s-%s", bucket, adj)), nil
}
