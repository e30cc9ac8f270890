package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/usecase"
)

// TransactionRequest is the body of transaction create and update calls.
type TransactionRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Note           string          `json:"note,omitempty"`
	Movement       string          `json:"movement"`
	CustomerID     *string         `json:"customer_id,omitempty"`
	CurrencyID     string          `json:"currency_id"`
}

// ToUseCaseInput converts to use case input.
func (r *TransactionRequest) ToUseCaseInput() usecase.TransactionInput {
	return usecase.TransactionInput{
		Amount:         r.Amount,
		CommissionRate: r.CommissionRate,
		Note:           r.Note,
		Movement:       domain.Movement(r.Movement),
		CustomerID:     r.CustomerID,
		CurrencyID:     r.CurrencyID,
	}
}

// AdjustBalanceRequest represents a manual balance correction.
type AdjustBalanceRequest struct {
	OwnerKind      string          `json:"owner_kind"`
	CustomerID     *string         `json:"customer_id,omitempty"`
	CurrencyID     string          `json:"currency_id"`
	BalanceType    string          `json:"balance_type"`
	AdjustmentType string          `json:"adjustment_type"`
	Amount         decimal.Decimal `json:"amount"`
	Note           string          `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AdjustBalanceRequest) ToUseCaseInput() usecase.AdjustBalanceInput {
	return usecase.AdjustBalanceInput{
		OwnerKind:      domain.OwnerKind(r.OwnerKind),
		CustomerID:     r.CustomerID,
		CurrencyID:     r.CurrencyID,
		BalanceType:    domain.Bucket(r.BalanceType),
		AdjustmentType: domain.AdjustmentType(r.AdjustmentType),
		Amount:         r.Amount,
		Note:           r.Note,
	}
}

// RecordEarningRequest represents manually recorded income.
type RecordEarningRequest struct {
	CurrencyID  string          `json:"currency_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordEarningRequest) ToUseCaseInput() usecase.RecordEarningInput {
	return usecase.RecordEarningInput{
		CurrencyID:  r.CurrencyID,
		Amount:      r.Amount,
		Type:        domain.EarningType(r.Type),
		Description: r.Description,
		Date:        r.Date,
	}
}

// CreateCurrencyRequest represents a request to register a currency.
type CreateCurrencyRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCurrencyRequest) ToUseCaseInput() usecase.CreateCurrencyInput {
	return usecase.CreateCurrencyInput{Code: r.Code, Name: r.Name}
}

// CreateCustomerRequest represents a request to register a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCustomerRequest) ToUseCaseInput() usecase.CreateCustomerInput {
	return usecase.CreateCustomerInput{Name: r.Name, Phone: r.Phone}
}
