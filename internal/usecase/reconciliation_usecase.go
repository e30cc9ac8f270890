package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/exchangeledger/internal/domain"
)

// ReconciliationUseCase checks stored balances against the transaction log.
// Both sides are read in one unit of work; give it a transaction manager
// with a snapshot isolation level so concurrent writes cannot show up as
// drift.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	txRepo      TransactionRepository
	balanceRepo BalanceRepository
	now         func() time.Time
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(txManager TransactionManager, txRepo TransactionRepository, balanceRepo BalanceRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:   txManager,
		txRepo:      txRepo,
		balanceRepo: balanceRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Discrepancy is one bucket whose stored value differs from the replay.
type Discrepancy struct {
	Key        domain.BalanceKey
	Bucket     domain.Bucket
	Recorded   decimal.Decimal
	Calculated decimal.Decimal
	Difference decimal.Decimal
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	Transactions  int
	Balances      int
	Discrepancies []*Discrepancy
	Consistent    bool
	CheckedAt     time.Time
}

// Reconcile replays every stored transaction into zero rows and compares the
// result with the stored balances. Rows present on only one side count as
// zero on the other.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context) (*ReconciliationReport, error) {
	calculated := make(map[domain.BalanceKey]*domain.Balance)
	handle := func(key domain.BalanceKey) *domain.Balance {
		b, ok := calculated[key]
		if !ok {
			b = domain.NewBalance("", key, time.Time{})
			calculated[key] = b
		}
		return b
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	count := 0
	err = uc.txRepo.Each(ctx, tx, func(t *domain.Transaction) error {
		count++
		var company, customer *domain.Balance
		if t.Movement.TouchesCompany(t.CustomerID) {
			company = handle(t.CompanyKey())
		}
		if key, ok := t.CustomerKey(); ok {
			customer = handle(key)
		}
		if err := domain.ApplyMovement(domain.Apply, t.Movement, t.Amount, t.Commission(), company, customer); err != nil {
			return fmt.Errorf("replay transaction %s: %w", t.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stored, err := uc.balanceRepo.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	recorded := make(map[domain.BalanceKey]*domain.Balance, len(stored))
	keys := make([]domain.BalanceKey, 0, len(stored)+len(calculated))
	for _, b := range stored {
		recorded[b.Key()] = b
		keys = append(keys, b.Key())
	}
	for k := range calculated {
		if _, ok := recorded[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	report := &ReconciliationReport{
		Transactions:  count,
		Balances:      len(stored),
		Discrepancies: make([]*Discrepancy, 0),
		CheckedAt:     uc.now(),
	}

	for _, k := range keys {
		for _, bucket := range []domain.Bucket{domain.BucketCash, domain.BucketCheck} {
			rec, calc := decimal.Zero, decimal.Zero
			if b := recorded[k]; b != nil {
				rec = b.Bucket(bucket)
			}
			if b := calculated[k]; b != nil {
				calc = b.Bucket(bucket)
			}
			if rec.Equal(calc) {
				continue
			}
			report.Discrepancies = append(report.Discrepancies, &Discrepancy{
				Key:        k,
				Bucket:     bucket,
				Recorded:   rec,
				Calculated: calc,
				Difference: rec.Sub(calc),
			})
		}
	}
	report.Consistent = len(report.Discrepancies) == 0

	return report, nil
}
