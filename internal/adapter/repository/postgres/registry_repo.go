package postgres

import (
	"context"

	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/infrastructure/postgres/generated"
)

// CurrencyRepository implements usecase.CurrencyRepository.
type CurrencyRepository struct {
	queries *generated.Queries
}

// NewCurrencyRepository creates a new CurrencyRepository.
func NewCurrencyRepository(db generated.DBTX) *CurrencyRepository {
	return &CurrencyRepository{queries: generated.New(db)}
}

func (r *CurrencyRepository) Create(ctx context.Context, c *domain.Currency) error {
	err := r.queries.CreateCurrency(ctx, generated.CreateCurrencyParams{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		CreatedAt: timeToPgTimestamptz(c.CreatedAt),
	})
	if isUniqueViolation(err) {
		return domain.NewValidationError("code", "already exists")
	}
	return mapError("create currency", err, nil)
}

func (r *CurrencyRepository) GetByID(ctx context.Context, id string) (*domain.Currency, error) {
	row, err := r.queries.GetCurrencyByID(ctx, id)
	if err != nil {
		return nil, mapError("get currency", err, domain.ErrCurrencyNotFound)
	}
	return rowToCurrency(row), nil
}

func (r *CurrencyRepository) List(ctx context.Context) ([]*domain.Currency, error) {
	rows, err := r.queries.ListCurrencies(ctx)
	if err != nil {
		return nil, mapError("list currencies", err, nil)
	}

	currencies := make([]*domain.Currency, 0, len(rows))
	for _, row := range rows {
		currencies = append(currencies, rowToCurrency(row))
	}
	return currencies, nil
}

func rowToCurrency(row generated.Currency) *domain.Currency {
	return &domain.Currency{
		ID:        row.ID,
		Code:      row.Code,
		Name:      row.Name,
		CreatedAt: row.CreatedAt.Time,
	}
}

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	queries *generated.Queries
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db generated.DBTX) *CustomerRepository {
	return &CustomerRepository{queries: generated.New(db)}
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	err := r.queries.CreateCustomer(ctx, generated.CreateCustomerParams{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		CreatedAt: timeToPgTimestamptz(c.CreatedAt),
	})
	return mapError("create customer", err, nil)
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row, err := r.queries.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, mapError("get customer", err, domain.ErrCustomerNotFound)
	}
	return rowToCustomer(row), nil
}

func (r *CustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	rows, err := r.queries.ListCustomers(ctx, generated.ListCustomersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, mapError("list customers", err, nil)
	}

	customers := make([]*domain.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, rowToCustomer(row))
	}
	return customers, nil
}

func rowToCustomer(row generated.Customer) *domain.Customer {
	return &domain.Customer{
		ID:        row.ID,
		Name:      row.Name,
		Phone:     row.Phone,
		CreatedAt: row.CreatedAt.Time,
	}
}
