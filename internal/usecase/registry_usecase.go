package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/exchangeledger/internal/domain"
)

// CurrencyUseCase manages the currency registry.
type CurrencyUseCase struct {
	repo  CurrencyRepository
	idGen IDGenerator
}

// NewCurrencyUseCase creates a new CurrencyUseCase.
func NewCurrencyUseCase(repo CurrencyRepository, idGen IDGenerator) *CurrencyUseCase {
	return &CurrencyUseCase{repo: repo, idGen: idGen}
}

// CreateCurrencyInput holds the fields of a new currency.
type CreateCurrencyInput struct {
	Code string
	Name string
}

// CreateCurrency registers a currency under an upper-cased code.
func (uc *CurrencyUseCase) CreateCurrency(ctx context.Context, input CreateCurrencyInput) (*domain.Currency, error) {
	code, err := domain.NormalizeCurrencyCode(input.Code)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	currency := &domain.Currency{
		ID:        uc.idGen.Generate(),
		Code:      code,
		Name:      strings.TrimSpace(input.Name),
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, currency); err != nil {
		return nil, err
	}
	return currency, nil
}

// GetCurrency returns a currency by ID.
func (uc *CurrencyUseCase) GetCurrency(ctx context.Context, id string) (*domain.Currency, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListCurrencies lists currencies ordered by code.
func (uc *CurrencyUseCase) ListCurrencies(ctx context.Context) ([]*domain.Currency, error) {
	return uc.repo.List(ctx)
}

// CustomerUseCase manages the customer registry.
type CustomerUseCase struct {
	repo  CustomerRepository
	idGen IDGenerator
}

// NewCustomerUseCase creates a new CustomerUseCase.
func NewCustomerUseCase(repo CustomerRepository, idGen IDGenerator) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, idGen: idGen}
}

// CreateCustomerInput holds the fields of a new customer.
type CreateCustomerInput struct {
	Name  string
	Phone string `validate:"max=50"`
}

// CreateCustomer registers a customer.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}
	input.Phone = strings.TrimSpace(input.Phone)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		ID:        uc.idGen.Generate(),
		Name:      strings.TrimSpace(input.Name),
		Phone:     input.Phone,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer returns a customer by ID.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListCustomers lists customers by name.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.repo.List(ctx, limit, offset)
}
