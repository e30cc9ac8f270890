package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/exchangeledger/internal/domain"
)

// EarningUseCase handles earning reports and manually recorded income.
// Commission earnings are owned by TransactionUseCase and are read-only here.
type EarningUseCase struct {
	txManager   TransactionManager
	earningRepo EarningRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	cache       Cache
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEarningUseCase creates a new EarningUseCase.
func NewEarningUseCase(
	txManager TransactionManager,
	earningRepo EarningRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *EarningUseCase {
	return &EarningUseCase{
		txManager:   txManager,
		earningRepo: earningRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		cacheTTL:    DefaultReportCacheTTL,
		logger:      zerolog.Nop(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithCache serves totals through c for ttl.
func (uc *EarningUseCase) WithCache(c Cache, ttl time.Duration) *EarningUseCase {
	uc.cache = c
	if ttl > 0 {
		uc.cacheTTL = ttl
	}
	return uc
}

// WithLogger sets the logger.
func (uc *EarningUseCase) WithLogger(l zerolog.Logger) *EarningUseCase {
	uc.logger = l.With().Str("component", "earnings").Logger()
	return uc
}

// RecordEarningInput describes manually recorded income.
type RecordEarningInput struct {
	CurrencyID  string             `validate:"required"`
	Amount      decimal.Decimal    `validate:"decimal_gt0"`
	Type        domain.EarningType `validate:"required,oneof=exchange fee spread other"`
	Description string             `validate:"max=1000"`
	Date        *time.Time
}

// EarningTotals is the grouped and overall sum of earnings.
type EarningTotals struct {
	GroupBy domain.EarningGroup    `json:"group_by"`
	Groups  []*domain.EarningTotal `json:"groups"`
	Total   decimal.Decimal        `json:"total"`
}

// ListEarnings lists earnings newest first.
func (uc *EarningUseCase) ListEarnings(ctx context.Context, filter domain.EarningFilter) ([]*domain.Earning, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.NewValidationError("type", "is invalid")
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.NewValidationError("to", "must not be before from")
	}
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.earningRepo.List(ctx, filter)
}

// GetEarning returns one earning.
func (uc *EarningUseCase) GetEarning(ctx context.Context, id string) (*domain.Earning, error) {
	return uc.earningRepo.GetByID(ctx, id)
}

// Totals sums earnings per group over an optional date range.
func (uc *EarningUseCase) Totals(ctx context.Context, group domain.EarningGroup, from, to *time.Time) (*EarningTotals, error) {
	if group == "" {
		group = domain.EarningGroupCurrency
	}
	if !group.Valid() {
		return nil, domain.NewValidationError("group_by", "must be currency or type")
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.NewValidationError("to", "must not be before from")
	}

	key := totalsCacheKey(group, from, to)
	if cached, ok := uc.cachedTotals(ctx, key); ok {
		return cached, nil
	}

	groups, err := uc.earningRepo.Totals(ctx, group, from, to)
	if err != nil {
		return nil, err
	}

	result := &EarningTotals{GroupBy: group, Groups: groups, Total: decimal.Zero}
	for _, g := range groups {
		result.Total = result.Total.Add(g.Total)
	}

	uc.storeTotals(ctx, key, result)
	return result, nil
}

func (uc *EarningUseCase) cachedTotals(ctx context.Context, key string) (*EarningTotals, bool) {
	if uc.cache == nil {
		return nil, false
	}
	raw, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("key", key).Msg("report cache read failed")
		}
		return nil, false
	}
	var totals EarningTotals
	if err := json.Unmarshal(raw, &totals); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("report cache entry corrupt")
		return nil, false
	}
	return &totals, true
}

func (uc *EarningUseCase) storeTotals(ctx context.Context, key string, totals *EarningTotals) {
	if uc.cache == nil {
		return
	}
	raw, err := json.Marshal(totals)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, raw, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("report cache write failed")
	}
}

func totalsCacheKey(group domain.EarningGroup, from, to *time.Time) string {
	bound := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("earnings:totals:%s:%s:%s", group, bound(from), bound(to))
}

// RecordEarning stores an earning that is not linked to any transaction.
func (uc *EarningUseCase) RecordEarning(ctx context.Context, input RecordEarningInput) (*domain.Earning, error) {
	input.CurrencyID = strings.TrimSpace(input.CurrencyID)
	input.Type = domain.EarningType(strings.ToLower(strings.TrimSpace(string(input.Type))))
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	now := uc.now()
	date := now
	if input.Date != nil {
		date = input.Date.UTC()
	}

	earning := &domain.Earning{
		ID:          uc.idGen.Generate(),
		CurrencyID:  input.CurrencyID,
		Amount:      input.Amount,
		Type:        input.Type,
		Description: strings.TrimSpace(input.Description),
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.earningRepo.Create(txCtx, tx, earning); err != nil {
		return nil, err
	}
	if err := emitEvent(txCtx, uc.outboxRepo, tx, uc.idGen,
		domain.AggregateTypeEarning, earning.ID, domain.EventTypeEarningRecorded,
		earningPayload(earning), now); err != nil {
		return nil, err
	}
	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("earning_id", earning.ID).
		Str("type", string(earning.Type)).
		Str("amount", earning.Amount.String()).
		Msg("earning recorded")

	return earning, nil
}

// DeleteEarning removes an unlinked earning. Earnings derived from a
// transaction fail with domain.ErrEarningLinked.
func (uc *EarningUseCase) DeleteEarning(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("id", "is required")
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	earning, err := uc.earningRepo.GetByID(txCtx, id)
	if err != nil {
		return err
	}
	if earning.IsLinked() {
		return domain.ErrEarningLinked
	}

	if err := uc.earningRepo.Delete(txCtx, tx, id); err != nil {
		return err
	}
	if err := emitEvent(txCtx, uc.outboxRepo, tx, uc.idGen,
		domain.AggregateTypeEarning, earning.ID, domain.EventTypeEarningDeleted,
		earningPayload(earning), uc.now()); err != nil {
		return err
	}
	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	uc.logger.Info().Str("earning_id", id).Msg("earning deleted")
	return nil
}

func earningPayload(e *domain.Earning) map[string]any {
	return map[string]any{
		"earning_id":  e.ID,
		"currency_id": e.CurrencyID,
		"type":        string(e.Type),
		"amount":      e.Amount.String(),
		"date":        e.Date.Format(time.RFC3339),
	}
}
