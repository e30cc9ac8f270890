package domain

import (
	"github.com/shopspring/decimal"
)

// ComputeCommission derives the commission charged on a transaction. Only
// check trades with a positive rate carry one; the rate is a fraction.
func ComputeCommission(amount, rate decimal.Decimal, movement Movement) decimal.Decimal {
	if !movement.IsCheckTrade() || !rate.IsPositive() {
		return decimal.Zero
	}
	return amount.Mul(rate)
}

// Direction selects whether a movement's effect is applied or undone.
type Direction int

const (
	Apply Direction = iota + 1
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "apply"
}

// Delta is a signed change to both buckets of one row.
type Delta struct {
	Cash  decimal.Decimal
	Check decimal.Decimal
}

func (d Delta) neg() Delta {
	return Delta{Cash: d.Cash.Neg(), Check: d.Check.Neg()}
}

// IsZero reports whether d changes nothing.
func (d Delta) IsZero() bool {
	return d.Cash.IsZero() && d.Check.IsZero()
}

// Effect is the signed change a movement makes under Apply.
type Effect struct {
	Company Delta
	// Customer is meaningful only when HasCustomer is set.
	Customer    Delta
	HasCustomer bool
	// Target is the only row an adjustment touches.
	Target Delta
	// IsAdjustment routes Target to the customer row when one is given,
	// otherwise to the company row.
	IsAdjustment bool
}

// EffectOf returns the Apply effect of a movement.
func EffectOf(movement Movement, amount, commission decimal.Decimal) (Effect, error) {
	kind, err := movement.Kind()
	if err != nil {
		return Effect{}, err
	}

	value := amount
	if kind.Bucket == BucketCheck && (kind.Slot == SlotAcquire || kind.Slot == SlotRelease) {
		value = amount.Add(commission)
	}

	onBucket := func(bucket Bucket, v decimal.Decimal) Delta {
		if bucket == BucketCheck {
			return Delta{Cash: decimal.Zero, Check: v}
		}
		return Delta{Cash: v, Check: decimal.Zero}
	}

	switch kind.Slot {
	case SlotAcquire:
		d := onBucket(kind.Bucket, value)
		return Effect{Company: d, Customer: d.neg(), HasCustomer: true}, nil
	case SlotRelease:
		d := onBucket(kind.Bucket, value.Neg())
		return Effect{Company: d, Customer: d.neg(), HasCustomer: true}, nil
	case SlotCollect:
		return Effect{Company: Delta{Cash: value, Check: value.Neg()}}, nil
	case SlotAdjustAdd:
		return Effect{Target: onBucket(kind.Bucket, value), IsAdjustment: true}, nil
	case SlotAdjustRemove:
		return Effect{Target: onBucket(kind.Bucket, value.Neg()), IsAdjustment: true}, nil
	}
	return Effect{}, ErrInvalidMovement
}

// Scaled returns the effect under dir.
func (e Effect) Scaled(dir Direction) Effect {
	if dir != Reverse {
		return e
	}
	return Effect{
		Company:      e.Company.neg(),
		Customer:     e.Customer.neg(),
		HasCustomer:  e.HasCustomer,
		Target:       e.Target.neg(),
		IsAdjustment: e.IsAdjustment,
	}
}

// ApplyMovement applies or reverses the effect of one transaction on the
// company row and the optional customer row. Adjustments touch the customer
// row when one is given and the company row otherwise. check-collection
// ignores the customer row. No row is modified when an error is returned.
func ApplyMovement(dir Direction, movement Movement, amount, commission decimal.Decimal, company, customer *Balance) error {
	if dir != Apply && dir != Reverse {
		return NewValidationError("direction", "must be apply or reverse")
	}

	effect, err := EffectOf(movement, amount, commission)
	if err != nil {
		return err
	}
	effect = effect.Scaled(dir)

	if effect.IsAdjustment {
		target := company
		if customer != nil {
			target = customer
		}
		if target == nil {
			return ErrMissingBalance
		}
		applyDelta(target, effect.Target)
		return nil
	}

	if company == nil {
		return ErrMissingBalance
	}
	if effect.HasCustomer && customer == nil {
		return ErrMissingBalance
	}

	applyDelta(company, effect.Company)
	if effect.HasCustomer {
		applyDelta(customer, effect.Customer)
	}
	return nil
}

func applyDelta(b *Balance, d Delta) {
	b.add(BucketCash, d.Cash)
	b.add(BucketCheck, d.Check)
}
