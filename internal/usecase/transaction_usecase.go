package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/infrastructure/metrics"
)

// TransactionUseCase creates, updates and deletes transactions together with
// their balance effect and derived commission earning.
type TransactionUseCase struct {
	txManager   TransactionManager
	txRepo      TransactionRepository
	balanceRepo BalanceRepository
	earningRepo EarningRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	policy      domain.BalancePolicy
	now         func() time.Time
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	txRepo TransactionRepository,
	balanceRepo BalanceRepository,
	earningRepo EarningRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:   txManager,
		txRepo:      txRepo,
		balanceRepo: balanceRepo,
		earningRepo: earningRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		logger:      zerolog.Nop(),
		policy:      domain.DefaultBalancePolicy(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithRetrier sets the retrier used for transient store failures.
func (uc *TransactionUseCase) WithRetrier(r Retrier) *TransactionUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables metric collection.
func (uc *TransactionUseCase) WithMetrics(m *metrics.Metrics) *TransactionUseCase {
	uc.metrics = m
	return uc
}

// WithLogger sets the logger.
func (uc *TransactionUseCase) WithLogger(l zerolog.Logger) *TransactionUseCase {
	uc.logger = l.With().Str("component", "transactions").Logger()
	return uc
}

// WithPolicy sets the negative-balance policy for company rows.
func (uc *TransactionUseCase) WithPolicy(p domain.BalancePolicy) *TransactionUseCase {
	uc.policy = p
	return uc
}

// TransactionInput holds the caller-supplied fields of a transaction.
type TransactionInput struct {
	Amount         decimal.Decimal `validate:"decimal_gt0"`
	CommissionRate decimal.Decimal `validate:"decimal_fraction"`
	Note           string          `validate:"max=1000"`
	Movement       domain.Movement `validate:"required"`
	CustomerID     *string
	CurrencyID     string `validate:"required"`
}

// normalize validates input and returns the canonical form.
func (in TransactionInput) normalize() (TransactionInput, error) {
	in.CurrencyID = strings.TrimSpace(in.CurrencyID)
	in.CustomerID = trimOptional(in.CustomerID)

	if err := validateInput(in); err != nil {
		return in, err
	}

	movement, err := domain.ParseMovement(string(in.Movement))
	if err != nil {
		return in, err
	}
	in.Movement = movement

	if err := domain.ValidateAmount(in.Amount); err != nil {
		return in, err
	}

	if in.CustomerID == nil && movement.RequiresCustomer() {
		return in, domain.NewValidationError("customer_id", "is required for "+string(movement))
	}

	return in, nil
}

// CreateTransaction records a transaction and applies its balance effect.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input TransactionInput) (*domain.Transaction, error) {
	start := time.Now()

	in, err := input.normalize()
	if err != nil {
		uc.logger.Debug().Err(err).Msg("create rejected")
		observe(uc.metrics, "transaction_create", start, err)
		return nil, err
	}

	var created *domain.Transaction
	err = runWithRetry(ctx, uc.retrier, func() error {
		t, err := uc.create(ctx, in)
		if err != nil {
			return err
		}
		created = t
		return nil
	})
	observe(uc.metrics, "transaction_create", start, err)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.WithLabelValues(string(created.Movement)).Inc()
		uc.metrics.TransactionAmount.Observe(created.Amount.InexactFloat64())
		if c := created.Commission(); c.IsPositive() {
			uc.metrics.CommissionEarned.Add(c.InexactFloat64())
		}
	}

	uc.logger.Info().
		Str("transaction_id", created.ID).
		Str("movement", string(created.Movement)).
		Str("amount", created.Amount.String()).
		Str("currency_id", created.CurrencyID).
		Msg("transaction created")

	return uc.withDisplayData(ctx, created), nil
}

func (uc *TransactionUseCase) create(ctx context.Context, in TransactionInput) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := uc.now()
	t := &domain.Transaction{
		ID:             uc.idGen.Generate(),
		Amount:         in.Amount,
		CommissionRate: in.CommissionRate,
		Note:           in.Note,
		Movement:       in.Movement,
		CustomerID:     in.CustomerID,
		CurrencyID:     in.CurrencyID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.txRepo.Create(txCtx, tx, t); err != nil {
		return nil, err
	}

	if commission := t.Commission(); commission.IsPositive() {
		if err := uc.earningRepo.Create(txCtx, tx, uc.commissionEarning(t, commission, now)); err != nil {
			return nil, err
		}
	}

	set, err := lockBalances(txCtx, uc.balanceRepo, tx, t.BalanceKeys()...)
	if err != nil {
		return nil, err
	}
	if err := set.apply(domain.Apply, t); err != nil {
		return nil, err
	}
	if err := set.check(uc.policy, t.BalanceKeys()); err != nil {
		return nil, err
	}
	if err := set.flush(txCtx, now); err != nil {
		return nil, err
	}

	if err := emitEvent(txCtx, uc.outboxRepo, tx, uc.idGen,
		domain.AggregateTypeTransaction, t.ID, domain.EventTypeTransactionCreated,
		domain.TransactionPayload(t), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return t, nil
}

// UpdateTransaction replaces the fields of a stored transaction. The old
// effect is reversed on the original (customer, currency) pair and the new
// effect applied on the new pair.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, id string, input TransactionInput) (*domain.Transaction, error) {
	start := time.Now()

	if strings.TrimSpace(id) == "" {
		err := domain.NewValidationError("id", "is required")
		observe(uc.metrics, "transaction_update", start, err)
		return nil, err
	}

	in, err := input.normalize()
	if err != nil {
		uc.logger.Debug().Err(err).Str("transaction_id", id).Msg("update rejected")
		observe(uc.metrics, "transaction_update", start, err)
		return nil, err
	}

	var updated *domain.Transaction
	err = runWithRetry(ctx, uc.retrier, func() error {
		t, err := uc.update(ctx, id, in)
		if err != nil {
			return err
		}
		updated = t
		return nil
	})
	observe(uc.metrics, "transaction_update", start, err)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsUpdated.Inc()
	}

	uc.logger.Info().
		Str("transaction_id", updated.ID).
		Str("movement", string(updated.Movement)).
		Str("amount", updated.Amount.String()).
		Msg("transaction updated")

	return uc.withDisplayData(ctx, updated), nil
}

func (uc *TransactionUseCase) update(ctx context.Context, id string, in TransactionInput) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	existing, err := uc.txRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	updated := &domain.Transaction{
		ID:             existing.ID,
		Amount:         in.Amount,
		CommissionRate: in.CommissionRate,
		Note:           in.Note,
		Movement:       in.Movement,
		CustomerID:     in.CustomerID,
		CurrencyID:     in.CurrencyID,
		CreatedAt:      existing.CreatedAt,
		UpdatedAt:      now,
	}

	keys := append(existing.BalanceKeys(), updated.BalanceKeys()...)
	set, err := lockBalances(txCtx, uc.balanceRepo, tx, keys...)
	if err != nil {
		return nil, err
	}
	if err := set.apply(domain.Reverse, existing); err != nil {
		return nil, err
	}

	if err := uc.txRepo.Update(txCtx, tx, updated); err != nil {
		return nil, err
	}
	if err := uc.syncEarning(txCtx, tx, updated, now); err != nil {
		return nil, err
	}

	if err := set.apply(domain.Apply, updated); err != nil {
		return nil, err
	}
	if err := set.check(uc.policy, updated.BalanceKeys()); err != nil {
		return nil, err
	}
	if err := set.flush(txCtx, now); err != nil {
		return nil, err
	}

	payload := domain.TransactionPayload(updated)
	payload["previous"] = domain.TransactionPayload(existing)
	if err := emitEvent(txCtx, uc.outboxRepo, tx, uc.idGen,
		domain.AggregateTypeTransaction, updated.ID, domain.EventTypeTransactionUpdated,
		payload, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return updated, nil
}

// syncEarning makes the linked commission earning match t.
func (uc *TransactionUseCase) syncEarning(ctx context.Context, tx Transaction, t *domain.Transaction, now time.Time) error {
	commission := t.Commission()

	existing, err := uc.earningRepo.GetByTransaction(ctx, tx, t.ID)
	if err != nil && !errors.Is(err, domain.ErrEarningNotFound) {
		return err
	}

	switch {
	case !commission.IsPositive():
		if existing == nil {
			return nil
		}
		return uc.earningRepo.DeleteByTransaction(ctx, tx, t.ID)
	case existing != nil:
		existing.Amount = commission
		existing.CurrencyID = t.CurrencyID
		existing.UpdatedAt = now
		return uc.earningRepo.Update(ctx, tx, existing)
	default:
		return uc.earningRepo.Create(ctx, tx, uc.commissionEarning(t, commission, now))
	}
}

// DeleteTransaction reverses a transaction's effect and removes it together
// with its earning.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string) error {
	start := time.Now()

	if strings.TrimSpace(id) == "" {
		err := domain.NewValidationError("id", "is required")
		observe(uc.metrics, "transaction_delete", start, err)
		return err
	}

	var deleted *domain.Transaction
	err := runWithRetry(ctx, uc.retrier, func() error {
		t, err := uc.delete(ctx, id)
		if err != nil {
			return err
		}
		deleted = t
		return nil
	})
	observe(uc.metrics, "transaction_delete", start, err)
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsDeleted.Inc()
	}

	uc.logger.Info().
		Str("transaction_id", deleted.ID).
		Str("movement", string(deleted.Movement)).
		Msg("transaction deleted")

	return nil
}

func (uc *TransactionUseCase) delete(ctx context.Context, id string) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	existing, err := uc.txRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	set, err := lockBalances(txCtx, uc.balanceRepo, tx, existing.BalanceKeys()...)
	if err != nil {
		return nil, err
	}
	if err := set.apply(domain.Reverse, existing); err != nil {
		return nil, err
	}
	if err := set.flush(txCtx, now); err != nil {
		return nil, err
	}

	if err := uc.earningRepo.DeleteByTransaction(txCtx, tx, id); err != nil {
		return nil, err
	}
	if err := uc.txRepo.Delete(txCtx, tx, id); err != nil {
		return nil, err
	}

	if err := emitEvent(txCtx, uc.outboxRepo, tx, uc.idGen,
		domain.AggregateTypeTransaction, existing.ID, domain.EventTypeTransactionDeleted,
		domain.TransactionPayload(existing), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return existing, nil
}

// GetTransaction returns a transaction with currency and customer data.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, id)
}

// ListTransactions lists transactions newest first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if filter.Movement != "" {
		m, err := domain.ParseMovement(string(filter.Movement))
		if err != nil {
			return nil, err
		}
		filter.Movement = m
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.NewValidationError("to", "must not be before from")
	}
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.txRepo.List(ctx, filter)
}

// TransactionStats aggregates amounts and commissions by movement and currency.
func (uc *TransactionUseCase) TransactionStats(ctx context.Context, from, to *time.Time) ([]*domain.TransactionStat, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.NewValidationError("to", "must not be before from")
	}
	return uc.txRepo.Stats(ctx, from, to)
}

func (uc *TransactionUseCase) commissionEarning(t *domain.Transaction, commission decimal.Decimal, now time.Time) *domain.Earning {
	txID := t.ID
	return &domain.Earning{
		ID:            uc.idGen.Generate(),
		CurrencyID:    t.CurrencyID,
		TransactionID: &txID,
		Amount:        commission,
		Type:          domain.EarningCommission,
		Description:   domain.CommissionDescription(t.ID),
		Date:          now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// withDisplayData reloads t with joined currency and customer data.
func (uc *TransactionUseCase) withDisplayData(ctx context.Context, t *domain.Transaction) *domain.Transaction {
	full, err := uc.txRepo.GetByID(ctx, t.ID)
	if err != nil {
		uc.logger.Warn().Err(err).Str("transaction_id", t.ID).Msg("failed to load display data")
		return t
	}
	return full
}
