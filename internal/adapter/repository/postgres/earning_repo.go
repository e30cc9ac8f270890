package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/infrastructure/postgres/generated"
	"github.com/iho/exchangeledger/internal/usecase"
)

// EarningRepository implements usecase.EarningRepository.
type EarningRepository struct {
	queries *generated.Queries
}

// NewEarningRepository creates a new EarningRepository.
func NewEarningRepository(db generated.DBTX) *EarningRepository {
	return &EarningRepository{queries: generated.New(db)}
}

func (r *EarningRepository) Create(ctx context.Context, tx usecase.Transaction, e *domain.Earning) error {
	err := queriesFor(tx).CreateEarning(ctx, generated.CreateEarningParams{
		ID:            e.ID,
		CurrencyID:    e.CurrencyID,
		TransactionID: optionalText(e.TransactionID),
		Amount:        decimalToNumeric(e.Amount),
		Type:          string(e.Type),
		Description:   e.Description,
		Date:          timeToPgTimestamptz(e.Date),
		CreatedAt:     timeToPgTimestamptz(e.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(e.UpdatedAt),
	})
	return mapError("create earning", err, nil)
}

func (r *EarningRepository) GetByID(ctx context.Context, id string) (*domain.Earning, error) {
	row, err := r.queries.GetEarningByID(ctx, id)
	if err != nil {
		return nil, mapError("get earning", err, domain.ErrEarningNotFound)
	}
	return rowToEarning(row), nil
}

// GetByTransaction locks the earning derived from a transaction.
func (r *EarningRepository) GetByTransaction(ctx context.Context, tx usecase.Transaction, transactionID string) (*domain.Earning, error) {
	row, err := queriesFor(tx).GetEarningByTransaction(ctx, pgtype.Text{String: transactionID, Valid: true})
	if err != nil {
		return nil, mapError("get transaction earning", err, domain.ErrEarningNotFound)
	}
	return rowToEarning(row), nil
}

func (r *EarningRepository) Update(ctx context.Context, tx usecase.Transaction, e *domain.Earning) error {
	n, err := queriesFor(tx).UpdateEarning(ctx, generated.UpdateEarningParams{
		ID:          e.ID,
		CurrencyID:  e.CurrencyID,
		Amount:      decimalToNumeric(e.Amount),
		Type:        string(e.Type),
		Description: e.Description,
		Date:        timeToPgTimestamptz(e.Date),
		UpdatedAt:   timeToPgTimestamptz(e.UpdatedAt),
	})
	if err != nil {
		return mapError("update earning", err, nil)
	}
	if n == 0 {
		return domain.ErrEarningNotFound
	}
	return nil
}

func (r *EarningRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	n, err := queriesFor(tx).DeleteEarning(ctx, id)
	if err != nil {
		return mapError("delete earning", err, nil)
	}
	if n == 0 {
		return domain.ErrEarningNotFound
	}
	return nil
}

// DeleteByTransaction removes the derived earning of a transaction, if any.
func (r *EarningRepository) DeleteByTransaction(ctx context.Context, tx usecase.Transaction, transactionID string) error {
	err := queriesFor(tx).DeleteEarningByTransaction(ctx, pgtype.Text{String: transactionID, Valid: true})
	return mapError("delete transaction earning", err, nil)
}

// List returns earnings newest first.
func (r *EarningRepository) List(ctx context.Context, filter domain.EarningFilter) ([]*domain.Earning, error) {
	rows, err := r.queries.ListEarnings(ctx, generated.ListEarningsParams{
		CurrencyID: filterText(filter.CurrencyID),
		Type:       filterText(string(filter.Type)),
		FromDate:   optionalTimestamptz(filter.From),
		ToDate:     optionalTimestamptz(filter.To),
		Limit:      int32(filter.Limit),
		Offset:     int32(filter.Offset),
	})
	if err != nil {
		return nil, mapError("list earnings", err, nil)
	}

	earnings := make([]*domain.Earning, 0, len(rows))
	for _, row := range rows {
		earnings = append(earnings, rowToEarning(row))
	}
	return earnings, nil
}

// Totals sums earnings per currency or per type.
func (r *EarningRepository) Totals(ctx context.Context, group domain.EarningGroup, from, to *time.Time) ([]*domain.EarningTotal, error) {
	params := generated.EarningTotalsParams{
		FromDate: optionalTimestamptz(from),
		ToDate:   optionalTimestamptz(to),
	}

	var (
		rows []generated.EarningTotalsRow
		err  error
	)
	switch group {
	case domain.EarningGroupType:
		rows, err = r.queries.EarningTotalsByType(ctx, params)
	default:
		rows, err = r.queries.EarningTotalsByCurrency(ctx, params)
	}
	if err != nil {
		return nil, mapError("earning totals", err, nil)
	}

	totals := make([]*domain.EarningTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, &domain.EarningTotal{
			Key:   row.Key,
			Count: row.Count,
			Total: numericToDecimal(row.Total),
		})
	}
	return totals, nil
}

func rowToEarning(row generated.Earning) *domain.Earning {
	return &domain.Earning{
		ID:            row.ID,
		CurrencyID:    row.CurrencyID,
		TransactionID: textPtr(row.TransactionID),
		Amount:        numericToDecimal(row.Amount),
		Type:          domain.EarningType(row.Type),
		Description:   row.Description,
		Date:          row.Date.Time,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}
