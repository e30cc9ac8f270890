package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/usecase"
)

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID             string          `json:"id"`
	Amount         decimal.Decimal `json:"amount"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Commission     decimal.Decimal `json:"commission"`
	Note           string          `json:"note,omitempty"`
	Movement       domain.Movement `json:"movement"`
	CustomerID     *string         `json:"customer_id,omitempty"`
	CustomerName   string          `json:"customer_name,omitempty"`
	CurrencyID     string          `json:"currency_id"`
	CurrencyCode   string          `json:"currency_code,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:             t.ID,
		Amount:         t.Amount,
		CommissionRate: t.CommissionRate,
		Commission:     t.Commission(),
		Note:           t.Note,
		Movement:       t.Movement,
		CustomerID:     t.CustomerID,
		CurrencyID:     t.CurrencyID,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.Currency != nil {
		resp.CurrencyCode = t.Currency.Code
	}
	if t.Customer != nil {
		resp.CustomerName = t.Customer.Name
	}
	return resp
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// TransactionStatResponse is one row of the transaction statistics.
type TransactionStatResponse struct {
	Movement        domain.Movement `json:"movement"`
	CurrencyID      string          `json:"currency_id"`
	Count           int64           `json:"count"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TotalCommission decimal.Decimal `json:"total_commission"`
}

// TransactionStatsFromDomain converts statistics rows to responses.
func TransactionStatsFromDomain(stats []*domain.TransactionStat) []*TransactionStatResponse {
	result := make([]*TransactionStatResponse, len(stats))
	for i, s := range stats {
		result[i] = &TransactionStatResponse{
			Movement:        s.Movement,
			CurrencyID:      s.CurrencyID,
			Count:           s.Count,
			TotalAmount:     s.TotalAmount,
			TotalCommission: s.TotalCommission,
		}
	}
	return result
}

// BalanceResponse represents a company or customer balance row.
type BalanceResponse struct {
	ID           string           `json:"id"`
	OwnerKind    domain.OwnerKind `json:"owner_kind"`
	CustomerID   *string          `json:"customer_id,omitempty"`
	CurrencyID   string           `json:"currency_id"`
	CurrencyCode string           `json:"currency_code,omitempty"`
	CurrencyName string           `json:"currency_name,omitempty"`
	CashBalance  decimal.Decimal  `json:"cash_balance"`
	CheckBalance decimal.Decimal  `json:"check_balance"`
	Starred      bool             `json:"starred"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// BalanceFromDomain converts domain balance to response.
func BalanceFromDomain(b *domain.Balance) *BalanceResponse {
	resp := &BalanceResponse{
		ID:           b.ID,
		OwnerKind:    b.Key().Owner(),
		CustomerID:   b.CustomerID,
		CurrencyID:   b.CurrencyID,
		CashBalance:  b.CashBalance,
		CheckBalance: b.CheckBalance,
		Starred:      b.Starred,
		UpdatedAt:    b.UpdatedAt,
	}
	if b.Currency != nil {
		resp.CurrencyCode = b.Currency.Code
		resp.CurrencyName = b.Currency.Name
	}
	return resp
}

// BalancesFromDomain converts domain balances to responses.
func BalancesFromDomain(balances []*domain.Balance) []*BalanceResponse {
	result := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceFromDomain(b)
	}
	return result
}

// AdjustmentResponse describes the change made to one bucket.
type AdjustmentResponse struct {
	Type            domain.AdjustmentType `json:"type"`
	BalanceType     domain.Bucket         `json:"balance_type"`
	Amount          decimal.Decimal       `json:"amount"`
	PreviousBalance decimal.Decimal       `json:"previous_balance"`
	NewBalance      decimal.Decimal       `json:"new_balance"`
}

// AdjustBalanceResponse is returned by the adjust endpoint.
type AdjustBalanceResponse struct {
	Balance     *BalanceResponse     `json:"balance"`
	Adjustment  AdjustmentResponse   `json:"adjustment"`
	Transaction *TransactionResponse `json:"transaction"`
}

// AdjustBalanceFromResult converts an adjustment result to response.
func AdjustBalanceFromResult(r *usecase.AdjustBalanceResult) *AdjustBalanceResponse {
	return &AdjustBalanceResponse{
		Balance: BalanceFromDomain(r.Balance),
		Adjustment: AdjustmentResponse{
			Type:            r.Adjustment.Type,
			BalanceType:     r.Adjustment.BalanceType,
			Amount:          r.Adjustment.Amount,
			PreviousBalance: r.Adjustment.PreviousBalance,
			NewBalance:      r.Adjustment.NewBalance,
		},
		Transaction: TransactionFromDomain(r.Transaction),
	}
}

// EarningResponse represents an earning in API responses.
type EarningResponse struct {
	ID            string             `json:"id"`
	CurrencyID    string             `json:"currency_id"`
	TransactionID *string            `json:"transaction_id,omitempty"`
	Amount        decimal.Decimal    `json:"amount"`
	Type          domain.EarningType `json:"type"`
	Description   string             `json:"description,omitempty"`
	Date          time.Time          `json:"date"`
	CreatedAt     time.Time          `json:"created_at"`
}

// EarningFromDomain converts domain earning to response.
func EarningFromDomain(e *domain.Earning) *EarningResponse {
	return &EarningResponse{
		ID:            e.ID,
		CurrencyID:    e.CurrencyID,
		TransactionID: e.TransactionID,
		Amount:        e.Amount,
		Type:          e.Type,
		Description:   e.Description,
		Date:          e.Date,
		CreatedAt:     e.CreatedAt,
	}
}

// EarningsFromDomain converts domain earnings to responses.
func EarningsFromDomain(earnings []*domain.Earning) []*EarningResponse {
	result := make([]*EarningResponse, len(earnings))
	for i, e := range earnings {
		result[i] = EarningFromDomain(e)
	}
	return result
}

// CurrencyResponse represents a currency in API responses.
type CurrencyResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CurrencyFromDomain converts domain currency to response.
func CurrencyFromDomain(c *domain.Currency) *CurrencyResponse {
	return &CurrencyResponse{ID: c.ID, Code: c.Code, Name: c.Name, CreatedAt: c.CreatedAt}
}

// CurrenciesFromDomain converts domain currencies to responses.
func CurrenciesFromDomain(currencies []*domain.Currency) []*CurrencyResponse {
	result := make([]*CurrencyResponse, len(currencies))
	for i, c := range currencies {
		result[i] = CurrencyFromDomain(c)
	}
	return result
}

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerFromDomain converts domain customer to response.
func CustomerFromDomain(c *domain.Customer) *CustomerResponse {
	return &CustomerResponse{ID: c.ID, Name: c.Name, Phone: c.Phone, CreatedAt: c.CreatedAt}
}

// CustomersFromDomain converts domain customers to responses.
func CustomersFromDomain(customers []*domain.Customer) []*CustomerResponse {
	result := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		result[i] = CustomerFromDomain(c)
	}
	return result
}

// DiscrepancyResponse is one bucket whose stored value disagrees with the
// replayed transaction log.
type DiscrepancyResponse struct {
	OwnerKind  domain.OwnerKind `json:"owner_kind"`
	CustomerID string           `json:"customer_id,omitempty"`
	CurrencyID string           `json:"currency_id"`
	Bucket     domain.Bucket    `json:"bucket"`
	Recorded   decimal.Decimal  `json:"recorded"`
	Calculated decimal.Decimal  `json:"calculated"`
	Difference decimal.Decimal  `json:"difference"`
}

// ReconciliationResponse represents a reconciliation report.
type ReconciliationResponse struct {
	Consistent    bool                   `json:"consistent"`
	Transactions  int                    `json:"transactions"`
	Balances      int                    `json:"balances"`
	Discrepancies []*DiscrepancyResponse `json:"discrepancies"`
	CheckedAt     time.Time              `json:"checked_at"`
}

// ReconciliationFromReport converts a reconciliation report to response.
func ReconciliationFromReport(r *usecase.ReconciliationReport) *ReconciliationResponse {
	resp := &ReconciliationResponse{
		Consistent:    r.Consistent,
		Transactions:  r.Transactions,
		Balances:      r.Balances,
		Discrepancies: make([]*DiscrepancyResponse, len(r.Discrepancies)),
		CheckedAt:     r.CheckedAt,
	}
	for i, d := range r.Discrepancies {
		resp.Discrepancies[i] = &DiscrepancyResponse{
			OwnerKind:  d.Key.Owner(),
			CustomerID: d.Key.CustomerID,
			CurrencyID: d.Key.CurrencyID,
			Bucket:     d.Bucket,
			Recorded:   d.Recorded,
			Calculated: d.Calculated,
			Difference: d.Difference,
		}
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}
