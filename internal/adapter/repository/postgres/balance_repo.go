package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/infrastructure/postgres/generated"
	"github.com/iho/exchangeledger/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository over the
// company_balances and customer_balances tables.
type BalanceRepository struct {
	queries *generated.Queries
	idGen   usecase.IDGenerator
	now     func() time.Time
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(db generated.DBTX, idGen usecase.IDGenerator) *BalanceRepository {
	return &BalanceRepository{
		queries: generated.New(db),
		idGen:   idGen,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// GetOrCreateForUpdate locks the row for key. Only when no row exists is a
// zero row inserted (ON CONFLICT DO NOTHING) and locked, so concurrent
// creators converge on the same row.
func (r *BalanceRepository) GetOrCreateForUpdate(ctx context.Context, tx usecase.Transaction, key domain.BalanceKey) (*domain.Balance, error) {
	queries := queriesFor(tx)

	b, err := r.lock(ctx, queries, key)
	if !errors.Is(err, pgx.ErrNoRows) {
		if err != nil {
			return nil, mapError("lock balance", err, nil)
		}
		return b, nil
	}

	if err := r.insertZero(ctx, queries, key); err != nil {
		return nil, mapError("insert balance", err, nil)
	}

	b, err = r.lock(ctx, queries, key)
	if err != nil {
		return nil, mapError("lock balance", err, domain.ErrBalanceNotFound)
	}
	return b, nil
}

func (r *BalanceRepository) lock(ctx context.Context, queries *generated.Queries, key domain.BalanceKey) (*domain.Balance, error) {
	if key.IsCompany() {
		row, err := queries.GetCompanyBalanceForUpdate(ctx, key.CurrencyID)
		if err != nil {
			return nil, err
		}
		return companyRowToBalance(row), nil
	}

	row, err := queries.GetCustomerBalanceForUpdate(ctx, generated.GetCustomerBalanceForUpdateParams{
		CustomerID: key.CustomerID,
		CurrencyID: key.CurrencyID,
	})
	if err != nil {
		return nil, err
	}
	return customerRowToBalance(row), nil
}

func (r *BalanceRepository) insertZero(ctx context.Context, queries *generated.Queries, key domain.BalanceKey) error {
	now := timeToPgTimestamptz(r.now())
	if key.IsCompany() {
		return queries.InsertCompanyBalance(ctx, generated.InsertCompanyBalanceParams{
			ID:         r.idGen.Generate(),
			CurrencyID: key.CurrencyID,
			CreatedAt:  now,
		})
	}
	return queries.InsertCustomerBalance(ctx, generated.InsertCustomerBalanceParams{
		ID:         r.idGen.Generate(),
		CustomerID: key.CustomerID,
		CurrencyID: key.CurrencyID,
		CreatedAt:  now,
	})
}

// Update writes both buckets of a locked row.
func (r *BalanceRepository) Update(ctx context.Context, tx usecase.Transaction, balance *domain.Balance) error {
	queries := queriesFor(tx)
	key := balance.Key()

	var (
		n   int64
		err error
	)
	if key.IsCompany() {
		n, err = queries.UpdateCompanyBalance(ctx, generated.UpdateCompanyBalanceParams{
			CurrencyID:   key.CurrencyID,
			CashBalance:  decimalToNumeric(balance.CashBalance),
			CheckBalance: decimalToNumeric(balance.CheckBalance),
			UpdatedAt:    timeToPgTimestamptz(balance.UpdatedAt),
		})
	} else {
		n, err = queries.UpdateCustomerBalance(ctx, generated.UpdateCustomerBalanceParams{
			CustomerID:   key.CustomerID,
			CurrencyID:   key.CurrencyID,
			CashBalance:  decimalToNumeric(balance.CashBalance),
			CheckBalance: decimalToNumeric(balance.CheckBalance),
			UpdatedAt:    timeToPgTimestamptz(balance.UpdatedAt),
		})
	}
	if err != nil {
		return mapError("update balance", err, nil)
	}
	if n == 0 {
		return domain.ErrBalanceNotFound
	}
	return nil
}

// SetStarred flips the display flag of a row.
func (r *BalanceRepository) SetStarred(ctx context.Context, tx usecase.Transaction, key domain.BalanceKey, starred bool, updatedAt time.Time) error {
	queries := queriesFor(tx)

	var (
		n   int64
		err error
	)
	if key.IsCompany() {
		n, err = queries.SetCompanyBalanceStarred(ctx, generated.SetCompanyBalanceStarredParams{
			CurrencyID: key.CurrencyID,
			Starred:    starred,
			UpdatedAt:  timeToPgTimestamptz(updatedAt),
		})
	} else {
		n, err = queries.SetCustomerBalanceStarred(ctx, generated.SetCustomerBalanceStarredParams{
			CustomerID: key.CustomerID,
			CurrencyID: key.CurrencyID,
			Starred:    starred,
			UpdatedAt:  timeToPgTimestamptz(updatedAt),
		})
	}
	if err != nil {
		return mapError("star balance", err, nil)
	}
	if n == 0 {
		return domain.ErrBalanceNotFound
	}
	return nil
}

// Get returns a row with its currency joined.
func (r *BalanceRepository) Get(ctx context.Context, key domain.BalanceKey) (*domain.Balance, error) {
	if key.IsCompany() {
		row, err := r.queries.GetCompanyBalance(ctx, key.CurrencyID)
		if err != nil {
			return nil, mapError("get company balance", err, domain.ErrBalanceNotFound)
		}
		return companyListRowToBalance(row), nil
	}

	row, err := r.queries.GetCustomerBalance(ctx, generated.GetCustomerBalanceParams{
		CustomerID: key.CustomerID,
		CurrencyID: key.CurrencyID,
	})
	if err != nil {
		return nil, mapError("get customer balance", err, domain.ErrBalanceNotFound)
	}
	return customerListRowToBalance(row), nil
}

// ListCompany returns company rows, starred first.
func (r *BalanceRepository) ListCompany(ctx context.Context) ([]*domain.Balance, error) {
	rows, err := r.queries.ListCompanyBalances(ctx)
	if err != nil {
		return nil, mapError("list company balances", err, nil)
	}

	balances := make([]*domain.Balance, 0, len(rows))
	for _, row := range rows {
		balances = append(balances, companyListRowToBalance(row))
	}
	return balances, nil
}

// ListByCustomer returns a customer's rows, starred first.
func (r *BalanceRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Balance, error) {
	rows, err := r.queries.ListCustomerBalances(ctx, customerID)
	if err != nil {
		return nil, mapError("list customer balances", err, nil)
	}

	balances := make([]*domain.Balance, 0, len(rows))
	for _, row := range rows {
		balances = append(balances, customerListRowToBalance(row))
	}
	return balances, nil
}

// ListAll returns every company and customer row as seen by tx.
func (r *BalanceRepository) ListAll(ctx context.Context, tx usecase.Transaction) ([]*domain.Balance, error) {
	q := queriesFor(tx)

	companyRows, err := q.ListCompanyBalances(ctx)
	if err != nil {
		return nil, mapError("list company balances", err, nil)
	}
	customerRows, err := q.ListAllCustomerBalances(ctx)
	if err != nil {
		return nil, mapError("list all balances", err, nil)
	}

	balances := make([]*domain.Balance, 0, len(companyRows)+len(customerRows))
	for _, row := range companyRows {
		balances = append(balances, companyListRowToBalance(row))
	}
	for _, row := range customerRows {
		balances = append(balances, customerRowToBalance(row))
	}
	return balances, nil
}

func companyRowToBalance(row generated.CompanyBalance) *domain.Balance {
	return &domain.Balance{
		ID:           row.ID,
		CurrencyID:   row.CurrencyID,
		CashBalance:  numericToDecimal(row.CashBalance),
		CheckBalance: numericToDecimal(row.CheckBalance),
		Starred:      row.Starred,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}

func customerRowToBalance(row generated.CustomerBalance) *domain.Balance {
	customerID := row.CustomerID
	return &domain.Balance{
		ID:           row.ID,
		CurrencyID:   row.CurrencyID,
		CustomerID:   &customerID,
		CashBalance:  numericToDecimal(row.CashBalance),
		CheckBalance: numericToDecimal(row.CheckBalance),
		Starred:      row.Starred,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}

func companyListRowToBalance(row generated.GetCompanyBalanceRow) *domain.Balance {
	b := companyRowToBalance(generated.CompanyBalance{
		ID:           row.ID,
		CurrencyID:   row.CurrencyID,
		CashBalance:  row.CashBalance,
		CheckBalance: row.CheckBalance,
		Starred:      row.Starred,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	})
	b.Currency = &domain.Currency{ID: row.CurrencyID, Code: row.CurrencyCode, Name: row.CurrencyName}
	return b
}

func customerListRowToBalance(row generated.GetCustomerBalanceRow) *domain.Balance {
	b := customerRowToBalance(generated.CustomerBalance{
		ID:           row.ID,
		CustomerID:   row.CustomerID,
		CurrencyID:   row.CurrencyID,
		CashBalance:  row.CashBalance,
		CheckBalance: row.CheckBalance,
		Starred:      row.Starred,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	})
	b.Currency = &domain.Currency{ID: row.CurrencyID, Code: row.CurrencyCode, Name: row.CurrencyName}
	return b
}
