package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/exchangeledger/internal/adapter/http/dto"
	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/usecase"
)

type balanceServiceStub struct {
	getCompanyFn   func(ctx context.Context, currencyID string) (*domain.Balance, error)
	listCompanyFn  func(ctx context.Context) ([]*domain.Balance, error)
	listCustomerFn func(ctx context.Context, customerID string) ([]*domain.Balance, error)
	toggleStarFn   func(ctx context.Context, customerID, currencyID string) (*domain.Balance, error)
}

func (s *balanceServiceStub) GetCompanyBalance(ctx context.Context, currencyID string) (*domain.Balance, error) {
	return s.getCompanyFn(ctx, currencyID)
}

func (s *balanceServiceStub) ListCompanyBalances(ctx context.Context) ([]*domain.Balance, error) {
	return s.listCompanyFn(ctx)
}

func (s *balanceServiceStub) ListCustomerBalances(ctx context.Context, customerID string) ([]*domain.Balance, error) {
	return s.listCustomerFn(ctx, customerID)
}

func (s *balanceServiceStub) ToggleStar(ctx context.Context, customerID, currencyID string) (*domain.Balance, error) {
	return s.toggleStarFn(ctx, customerID, currencyID)
}

type adjustmentServiceStub struct {
	adjustFn func(ctx context.Context, input usecase.AdjustBalanceInput) (*usecase.AdjustBalanceResult, error)
}

func (s *adjustmentServiceStub) AdjustBalance(ctx context.Context, input usecase.AdjustBalanceInput) (*usecase.AdjustBalanceResult, error) {
	return s.adjustFn(ctx, input)
}

func TestBalanceHandler_Adjust(t *testing.T) {
	var captured usecase.AdjustBalanceInput
	h := NewBalanceHandler(&balanceServiceStub{}, &adjustmentServiceStub{
		adjustFn: func(ctx context.Context, input usecase.AdjustBalanceInput) (*usecase.AdjustBalanceResult, error) {
			captured = input
			balance := domain.NewBalance("B1", domain.CompanyKey("USD"), time.Now())
			balance.CashBalance = decimal.RequireFromString("500")
			return &usecase.AdjustBalanceResult{
				Balance: balance,
				Adjustment: usecase.Adjustment{
					Type:            domain.AdjustmentAdd,
					BalanceType:     domain.BucketCash,
					Amount:          decimal.RequireFromString("500"),
					PreviousBalance: decimal.Zero,
					NewBalance:      decimal.RequireFromString("500"),
				},
				Transaction: &domain.Transaction{ID: "tx-1", Movement: domain.MovementAdjustCashAdd, CurrencyID: "USD"},
			}, nil
		},
	})

	body := `{"owner_kind":"company","currency_id":"USD","balance_type":"cash","adjustment_type":"add","amount":"500"}`
	rec := httptest.NewRecorder()
	h.Adjust(rec, httptest.NewRequest(http.MethodPost, "/balances/adjust", bytes.NewBufferString(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.OwnerKind != domain.OwnerCompany || !captured.Amount.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("unexpected input %+v", captured)
	}

	var resp dto.AdjustBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Adjustment.NewBalance.Equal(decimal.RequireFromString("500")) || resp.Transaction.ID != "tx-1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestBalanceHandler_Adjust_Insufficient(t *testing.T) {
	h := NewBalanceHandler(&balanceServiceStub{}, &adjustmentServiceStub{
		adjustFn: func(ctx context.Context, input usecase.AdjustBalanceInput) (*usecase.AdjustBalanceResult, error) {
			return nil, &domain.InsufficientBalanceError{
				Bucket:    domain.BucketCash,
				Current:   decimal.RequireFromString("100"),
				Requested: decimal.RequireFromString("150"),
			}
		},
	})

	body := `{"owner_kind":"company","currency_id":"USD","balance_type":"cash","adjustment_type":"remove","amount":"150"}`
	rec := httptest.NewRecorder()
	h.Adjust(rec, httptest.NewRequest(http.MethodPost, "/balances/adjust", bytes.NewBufferString(body)))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestBalanceHandler_CompanyReads(t *testing.T) {
	h := NewBalanceHandler(&balanceServiceStub{
		listCompanyFn: func(ctx context.Context) ([]*domain.Balance, error) {
			return []*domain.Balance{
				domain.NewBalance("B1", domain.CompanyKey("USD"), time.Now()),
				domain.NewBalance("B2", domain.CompanyKey("EUR"), time.Now()),
			}, nil
		},
		getCompanyFn: func(ctx context.Context, currencyID string) (*domain.Balance, error) {
			if currencyID != "USD" {
				return nil, domain.ErrBalanceNotFound
			}
			return domain.NewBalance("B1", domain.CompanyKey("USD"), time.Now()), nil
		},
	}, &adjustmentServiceStub{})

	rec := httptest.NewRecorder()
	h.ListCompany(rec, httptest.NewRequest(http.MethodGet, "/balances/company", nil))
	var list []dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(list))
	}

	rec = httptest.NewRecorder()
	h.GetCompany(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/balances/company/USD", nil), "currency_id", "USD"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.GetCompany(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/balances/company/JPY", nil), "currency_id", "JPY"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestBalanceHandler_Star(t *testing.T) {
	type call struct{ customer, currency string }
	var calls []call
	h := NewBalanceHandler(&balanceServiceStub{
		toggleStarFn: func(ctx context.Context, customerID, currencyID string) (*domain.Balance, error) {
			calls = append(calls, call{customerID, currencyID})
			key := domain.CompanyKey(currencyID)
			if customerID != "" {
				key = domain.CustomerKey(customerID, currencyID)
			}
			b := domain.NewBalance("B1", key, time.Now())
			b.Starred = true
			return b, nil
		},
	}, &adjustmentServiceStub{})

	rec := httptest.NewRecorder()
	h.StarCompany(rec, withURLParams(httptest.NewRequest(http.MethodPost, "/balances/company/USD/star", nil), "currency_id", "USD"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.StarCustomer(rec, withURLParams(httptest.NewRequest(http.MethodPost, "/customers/C1/balances/EUR/star", nil), "id", "C1", "currency_id", "EUR"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Starred || resp.OwnerKind != domain.OwnerClient {
		t.Fatalf("unexpected response %+v", resp)
	}

	want := []call{{"", "USD"}, {"C1", "EUR"}}
	if len(calls) != len(want) || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("unexpected calls %+v", calls)
	}
}

func TestBalanceHandler_ListCustomer(t *testing.T) {
	h := NewBalanceHandler(&balanceServiceStub{
		listCustomerFn: func(ctx context.Context, customerID string) ([]*domain.Balance, error) {
			if customerID == "" {
				return nil, domain.NewValidationError("customer_id", "is required")
			}
			return []*domain.Balance{domain.NewBalance("B1", domain.CustomerKey(customerID, "USD"), time.Now())}, nil
		},
	}, &adjustmentServiceStub{})

	rec := httptest.NewRecorder()
	h.ListCustomer(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/customers/C1/balances", nil), "id", "C1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ListCustomer(rec, httptest.NewRequest(http.MethodGet, "/customers//balances", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
