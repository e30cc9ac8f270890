package postgres

import (
	"context"
	"time"

	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/infrastructure/postgres/generated"
	"github.com/iho/exchangeledger/internal/usecase"
)

// eachBatchSize bounds how many rows Each holds in memory at once.
const eachBatchSize = 500

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts a transaction within tx.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	err := queriesFor(tx).CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:             t.ID,
		Amount:         decimalToNumeric(t.Amount),
		CommissionRate: decimalToNumeric(t.CommissionRate),
		Note:           t.Note,
		Movement:       string(t.Movement),
		CustomerID:     optionalText(t.CustomerID),
		CurrencyID:     t.CurrencyID,
		CreatedAt:      timeToPgTimestamptz(t.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(t.UpdatedAt),
	})
	return mapError("create transaction", err, nil)
}

// GetByID retrieves a transaction with its currency and customer joined.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, mapError("get transaction", err, domain.ErrTransactionNotFound)
	}
	return joinedRowToTransaction(row), nil
}

// GetByIDForUpdate retrieves a transaction with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	row, err := queriesFor(tx).GetTransactionByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapError("lock transaction", err, domain.ErrTransactionNotFound)
	}
	return rowToTransaction(row), nil
}

// Update rewrites every mutable field of a transaction.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	n, err := queriesFor(tx).UpdateTransaction(ctx, generated.UpdateTransactionParams{
		ID:             t.ID,
		Amount:         decimalToNumeric(t.Amount),
		CommissionRate: decimalToNumeric(t.CommissionRate),
		Note:           t.Note,
		Movement:       string(t.Movement),
		CustomerID:     optionalText(t.CustomerID),
		CurrencyID:     t.CurrencyID,
		UpdatedAt:      timeToPgTimestamptz(t.UpdatedAt),
	})
	if err != nil {
		return mapError("update transaction", err, nil)
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// Delete removes a transaction. Its linked earning goes with it.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	n, err := queriesFor(tx).DeleteTransaction(ctx, id)
	if err != nil {
		return mapError("delete transaction", err, nil)
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// List returns transactions newest first.
func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx, generated.ListTransactionsParams{
		CustomerID: filterText(filter.CustomerID),
		CurrencyID: filterText(filter.CurrencyID),
		Movement:   filterText(string(filter.Movement)),
		FromDate:   optionalTimestamptz(filter.From),
		ToDate:     optionalTimestamptz(filter.To),
		Limit:      int32(filter.Limit),
		Offset:     int32(filter.Offset),
	})
	if err != nil {
		return nil, mapError("list transactions", err, nil)
	}

	transactions := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, joinedRowToTransaction(row))
	}
	return transactions, nil
}

// Stats aggregates counts, amounts and commissions by movement and currency.
func (r *TransactionRepository) Stats(ctx context.Context, from, to *time.Time) ([]*domain.TransactionStat, error) {
	rows, err := r.queries.TransactionStats(ctx, generated.TransactionStatsParams{
		FromDate: optionalTimestamptz(from),
		ToDate:   optionalTimestamptz(to),
	})
	if err != nil {
		return nil, mapError("transaction stats", err, nil)
	}

	stats := make([]*domain.TransactionStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, &domain.TransactionStat{
			Movement:        domain.Movement(row.Movement),
			CurrencyID:      row.CurrencyID,
			Count:           row.Count,
			TotalAmount:     numericToDecimal(row.TotalAmount),
			TotalCommission: numericToDecimal(row.TotalCommission),
		})
	}
	return stats, nil
}

// Each walks every transaction in creation order using keyset pagination.
// All pages are read through tx.
func (r *TransactionRepository) Each(ctx context.Context, tx usecase.Transaction, fn func(*domain.Transaction) error) error {
	q := queriesFor(tx)

	params := generated.ListTransactionsAfterParams{
		AfterCreatedAt: timeToPgTimestamptz(time.Time{}),
		Limit:          eachBatchSize,
	}

	for {
		rows, err := q.ListTransactionsAfter(ctx, params)
		if err != nil {
			return mapError("scan transactions", err, nil)
		}

		for _, row := range rows {
			if err := fn(rowToTransaction(row)); err != nil {
				return err
			}
		}

		if len(rows) < eachBatchSize {
			return nil
		}
		last := rows[len(rows)-1]
		params.AfterCreatedAt = last.CreatedAt
		params.AfterID = last.ID
	}
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:             row.ID,
		Amount:         numericToDecimal(row.Amount),
		CommissionRate: numericToDecimal(row.CommissionRate),
		Note:           row.Note,
		Movement:       domain.Movement(row.Movement),
		CustomerID:     textPtr(row.CustomerID),
		CurrencyID:     row.CurrencyID,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}

func joinedRowToTransaction(row generated.GetTransactionByIDRow) *domain.Transaction {
	t := rowToTransaction(generated.Transaction{
		ID:             row.ID,
		Amount:         row.Amount,
		CommissionRate: row.CommissionRate,
		Note:           row.Note,
		Movement:       row.Movement,
		CustomerID:     row.CustomerID,
		CurrencyID:     row.CurrencyID,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	})
	if row.CurrencyCode.Valid {
		t.Currency = &domain.Currency{ID: row.CurrencyID, Code: row.CurrencyCode.String, Name: row.CurrencyName.String}
	}
	if row.CustomerID.Valid && row.CustomerName.Valid {
		t.Customer = &domain.Customer{ID: row.CustomerID.String, Name: row.CustomerName.String, Phone: row.CustomerPhone.String}
	}
	return t
}
