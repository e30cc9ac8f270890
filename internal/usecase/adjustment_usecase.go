package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/infrastructure/metrics"
)

// AdjustmentUseCase applies manual balance corrections. It is the only path
// that refuses to take a bucket below zero.
type AdjustmentUseCase struct {
	txManager   TransactionManager
	txRepo      TransactionRepository
	balanceRepo BalanceRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAdjustmentUseCase creates a new AdjustmentUseCase.
func NewAdjustmentUseCase(
	txManager TransactionManager,
	txRepo TransactionRepository,
	balanceRepo BalanceRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		txManager:   txManager,
		txRepo:      txRepo,
		balanceRepo: balanceRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		logger:      zerolog.Nop(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithRetrier sets the retrier used for transient store failures.
func (uc *AdjustmentUseCase) WithRetrier(r Retrier) *AdjustmentUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables metric collection.
func (uc *AdjustmentUseCase) WithMetrics(m *metrics.Metrics) *AdjustmentUseCase {
	uc.metrics = m
	return uc
}

// WithLogger sets the logger.
func (uc *AdjustmentUseCase) WithLogger(l zerolog.Logger) *AdjustmentUseCase {
	uc.logger = l.With().Str("component", "adjustments").Logger()
	return uc
}

// AdjustBalanceInput describes one manual correction.
type AdjustBalanceInput struct {
	OwnerKind      domain.OwnerKind      `validate:"required,oneof=company client"`
	CustomerID     *string               `validate:"required_if=OwnerKind client"`
	CurrencyID     string                `validate:"required"`
	BalanceType    domain.Bucket         `validate:"required,oneof=cash check"`
	AdjustmentType domain.AdjustmentType `validate:"required,oneof=add remove"`
	Amount         decimal.Decimal       `validate:"decimal_gt0"`
	Note           string                `validate:"max=1000"`
}

// Adjustment summarizes the change made to one bucket.
type Adjustment struct {
	Type            domain.AdjustmentType
	BalanceType     domain.Bucket
	Amount          decimal.Decimal
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
}

// AdjustBalanceResult is the outcome of AdjustBalance.
type AdjustBalanceResult struct {
	Balance     *domain.Balance
	Adjustment  Adjustment
	Transaction *domain.Transaction
}

func (in AdjustBalanceInput) normalize() (AdjustBalanceInput, error) {
	in.OwnerKind = domain.OwnerKind(strings.ToLower(strings.TrimSpace(string(in.OwnerKind))))
	in.BalanceType = domain.Bucket(strings.ToLower(strings.TrimSpace(string(in.BalanceType))))
	in.AdjustmentType = domain.AdjustmentType(strings.ToLower(strings.TrimSpace(string(in.AdjustmentType))))
	in.CurrencyID = strings.TrimSpace(in.CurrencyID)
	in.CustomerID = trimOptional(in.CustomerID)

	if err := validateInput(in); err != nil {
		return in, err
	}
	if err := domain.ValidateAmount(in.Amount); err != nil {
		return in, err
	}

	if in.OwnerKind == domain.OwnerCompany {
		in.CustomerID = nil
	}
	if strings.TrimSpace(in.Note) == "" {
		in.Note = fmt.Sprintf("Manual %s of %s %s balance", in.AdjustmentType, in.Amount.String(), in.BalanceType)
	}

	return in, nil
}

func (in AdjustBalanceInput) key() domain.BalanceKey {
	if in.CustomerID == nil {
		return domain.CompanyKey(in.CurrencyID)
	}
	return domain.CustomerKey(*in.CustomerID, in.CurrencyID)
}

// AdjustBalance adds to or removes from one bucket of a company or customer
// row and records the correction as a transaction.
func (uc *AdjustmentUseCase) AdjustBalance(ctx context.Context, input AdjustBalanceInput) (*AdjustBalanceResult, error) {
	start := time.Now()

	in, err := input.normalize()
	if err != nil {
		uc.logger.Debug().Err(err).Msg("adjustment rejected")
		observe(uc.metrics, "balance_adjust", start, err)
		return nil, err
	}

	var result *AdjustBalanceResult
	err = runWithRetry(ctx, uc.retrier, func() error {
		r, err := uc.adjust(ctx, in)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	observe(uc.metrics, "balance_adjust", start, err)
	if err != nil {
		uc.logger.Debug().Err(err).Str("key", in.key().String()).Msg("adjustment failed")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AdjustmentsApplied.WithLabelValues(string(in.OwnerKind), string(in.BalanceType), string(in.AdjustmentType)).Inc()
	}

	uc.logger.Info().
		Str("key", in.key().String()).
		Str("balance_type", string(in.BalanceType)).
		Str("adjustment_type", string(in.AdjustmentType)).
		Str("previous", result.Adjustment.PreviousBalance.String()).
		Str("new", result.Adjustment.NewBalance.String()).
		Msg("balance adjusted")

	return result, nil
}

func (uc *AdjustmentUseCase) adjust(ctx context.Context, in AdjustBalanceInput) (*AdjustBalanceResult, error) {
	movement, err := domain.AdjustmentMovement(in.BalanceType, in.AdjustmentType)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	key := in.key()
	set, err := lockBalances(txCtx, uc.balanceRepo, tx, key)
	if err != nil {
		return nil, err
	}
	row := set.row(key)
	previous := row.Bucket(in.BalanceType)

	now := uc.now()
	t := &domain.Transaction{
		ID:             uc.idGen.Generate(),
		Amount:         in.Amount,
		CommissionRate: decimal.Zero,
		Note:           in.Note,
		Movement:       movement,
		CustomerID:     in.CustomerID,
		CurrencyID:     in.CurrencyID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := set.apply(domain.Apply, t); err != nil {
		return nil, err
	}
	next := row.Bucket(in.BalanceType)

	if in.AdjustmentType == domain.AdjustmentRemove && next.IsNegative() {
		return nil, &domain.InsufficientBalanceError{
			Bucket:    in.BalanceType,
			Current:   previous,
			Requested: in.Amount,
		}
	}

	if err := set.flush(txCtx, now); err != nil {
		return nil, err
	}
	if err := uc.txRepo.Create(txCtx, tx, t); err != nil {
		return nil, err
	}

	payload := domain.TransactionPayload(t)
	payload["owner"] = string(key.Owner())
	payload["balance_type"] = string(in.BalanceType)
	payload["previous_balance"] = previous.String()
	payload["new_balance"] = next.String()
	if err := emitEvent(txCtx, uc.outboxRepo, tx, uc.idGen,
		domain.AggregateTypeBalance, row.ID, domain.EventTypeBalanceAdjusted,
		payload, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return &AdjustBalanceResult{
		Balance: row,
		Adjustment: Adjustment{
			Type:            in.AdjustmentType,
			BalanceType:     in.BalanceType,
			Amount:          in.Amount,
			PreviousBalance: previous,
			NewBalance:      next,
		},
		Transaction: t,
	}, nil
}
