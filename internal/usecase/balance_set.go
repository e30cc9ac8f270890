package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/iho/exchangeledger/internal/domain"
)

// balanceSet holds the balance rows locked by one unit of work. Each key
// maps to a single handle, so an update whose old and new pair coincide
// reverses and re-applies on the same row. locked keeps a copy of each row
// as it was read.
type balanceSet struct {
	repo   BalanceRepository
	tx     Transaction
	rows   map[domain.BalanceKey]*domain.Balance
	locked map[domain.BalanceKey]*domain.Balance
	dirty  map[domain.BalanceKey]bool
}

// lockBalances find-or-creates and locks every row in keys. Rows are locked
// in domain.BalanceKey order regardless of the order given.
func lockBalances(ctx context.Context, repo BalanceRepository, tx Transaction, keys ...domain.BalanceKey) (*balanceSet, error) {
	set := &balanceSet{
		repo:  repo,
		tx:    tx,
		rows:   make(map[domain.BalanceKey]*domain.Balance, len(keys)),
		locked: make(map[domain.BalanceKey]*domain.Balance, len(keys)),
		dirty:  make(map[domain.BalanceKey]bool, len(keys)),
	}

	ordered := make([]domain.BalanceKey, 0, len(keys))
	seen := make(map[domain.BalanceKey]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			ordered = append(ordered, k)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Less(ordered[j]) })

	for _, k := range ordered {
		b, err := repo.GetOrCreateForUpdate(ctx, tx, k)
		if err != nil {
			return nil, err
		}
		set.rows[k] = b
		set.locked[k] = b.Clone()
	}

	return set, nil
}

// row returns the locked handle for key, or nil.
func (s *balanceSet) row(key domain.BalanceKey) *domain.Balance {
	return s.rows[key]
}

// apply runs the balance mutator for t against the locked rows.
func (s *balanceSet) apply(dir domain.Direction, t *domain.Transaction) error {
	var company, customer *domain.Balance

	if t.Movement.TouchesCompany(t.CustomerID) {
		company = s.rows[t.CompanyKey()]
	}
	customerKey, hasCustomer := t.CustomerKey()
	if hasCustomer {
		customer = s.rows[customerKey]
	}

	if err := domain.ApplyMovement(dir, t.Movement, t.Amount, t.Commission(), company, customer); err != nil {
		return err
	}

	for _, k := range t.BalanceKeys() {
		s.dirty[k] = true
	}
	return nil
}

// check enforces policy on the rows addressed by keys, measured against
// their state when the unit of work locked them.
func (s *balanceSet) check(policy domain.BalancePolicy, keys []domain.BalanceKey) error {
	for _, k := range keys {
		if err := policy.Check(s.locked[k], s.rows[k]); err != nil {
			return err
		}
	}
	return nil
}

// flush persists every modified row in lock order.
func (s *balanceSet) flush(ctx context.Context, now time.Time) error {
	keys := make([]domain.BalanceKey, 0, len(s.dirty))
	for k := range s.dirty {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	for _, k := range keys {
		b := s.rows[k]
		b.UpdatedAt = now
		if err := s.repo.Update(ctx, s.tx, b); err != nil {
			return err
		}
	}
	return nil
}
