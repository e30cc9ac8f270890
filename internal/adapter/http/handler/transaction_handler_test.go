package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/exchangeledger/internal/adapter/http/dto"
	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/usecase"
)

type transactionServiceStub struct {
	createFn func(ctx context.Context, input usecase.TransactionInput) (*domain.Transaction, error)
	updateFn func(ctx context.Context, id string, input usecase.TransactionInput) (*domain.Transaction, error)
	deleteFn func(ctx context.Context, id string) error
	getFn    func(ctx context.Context, id string) (*domain.Transaction, error)
	listFn   func(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	statsFn  func(ctx context.Context, from, to *time.Time) ([]*domain.TransactionStat, error)
}

func (s *transactionServiceStub) CreateTransaction(ctx context.Context, input usecase.TransactionInput) (*domain.Transaction, error) {
	return s.createFn(ctx, input)
}

func (s *transactionServiceStub) UpdateTransaction(ctx context.Context, id string, input usecase.TransactionInput) (*domain.Transaction, error) {
	return s.updateFn(ctx, id, input)
}

func (s *transactionServiceStub) DeleteTransaction(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *transactionServiceStub) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, id)
}

func (s *transactionServiceStub) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	return s.listFn(ctx, filter)
}

func (s *transactionServiceStub) TransactionStats(ctx context.Context, from, to *time.Time) ([]*domain.TransactionStat, error) {
	return s.statsFn(ctx, from, to)
}

func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func sampleTransaction() *domain.Transaction {
	customerID := "C1"
	return &domain.Transaction{
		ID:             "tx-1",
		Amount:         decimal.RequireFromString("100"),
		CommissionRate: decimal.RequireFromString("0.02"),
		Movement:       domain.MovementBuyCheck,
		CustomerID:     &customerID,
		CurrencyID:     "USD",
	}
}

func TestTransactionHandler_Create_Success(t *testing.T) {
	var captured usecase.TransactionInput
	h := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.TransactionInput) (*domain.Transaction, error) {
			captured = input
			return sampleTransaction(), nil
		},
	})

	body := `{"amount":"100","commission_rate":"0.02","movement":"buy-check","customer_id":"C1","currency_id":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Movement != domain.MovementBuyCheck || captured.CurrencyID != "USD" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "tx-1" {
		t.Fatalf("expected ID tx-1, got %s", resp.ID)
	}
	if !resp.Commission.Equal(decimal.RequireFromString("2")) {
		t.Fatalf("expected commission 2, got %s", resp.Commission)
	}
}

func TestTransactionHandler_Create_InvalidJSON(t *testing.T) {
	h := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.TransactionInput) (*domain.Transaction, error) {
			t.Fatal("CreateTransaction should not be called for invalid payload")
			return nil, nil
		},
	})

	for _, body := range []string{"{invalid json", `{"amount":"1","unknown":true}`} {
		req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		h.Create(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, rec.Code)
		}
	}
}

func TestTransactionHandler_Create_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", domain.NewValidationError("movement", "is invalid"), http.StatusBadRequest},
		{"policy", domain.ErrNegativeBalanceNotAllowed, http.StatusUnprocessableEntity},
		{"store", errors.New("db error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTransactionHandler(&transactionServiceStub{
				createFn: func(ctx context.Context, input usecase.TransactionInput) (*domain.Transaction, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString(`{"amount":"1"}`))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestTransactionHandler_Update(t *testing.T) {
	var gotID string
	h := NewTransactionHandler(&transactionServiceStub{
		updateFn: func(ctx context.Context, id string, input usecase.TransactionInput) (*domain.Transaction, error) {
			gotID = id
			if id == "missing" {
				return nil, domain.ErrTransactionNotFound
			}
			tx := sampleTransaction()
			tx.Amount = input.Amount
			return tx, nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/transactions/tx-1", bytes.NewBufferString(`{"amount":"250","movement":"buy-check","currency_id":"USD"}`))
	rec := httptest.NewRecorder()
	h.Update(rec, withURLParams(req, "id", "tx-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != "tx-1" {
		t.Fatalf("expected id tx-1, got %q", gotID)
	}

	req = httptest.NewRequest(http.MethodPut, "/transactions/missing", bytes.NewBufferString(`{"amount":"1"}`))
	rec = httptest.NewRecorder()
	h.Update(rec, withURLParams(req, "id", "missing"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTransactionHandler_Delete(t *testing.T) {
	h := NewTransactionHandler(&transactionServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			if id == "tx-1" {
				return nil
			}
			return domain.ErrTransactionNotFound
		},
	})

	rec := httptest.NewRecorder()
	h.Delete(rec, withURLParams(httptest.NewRequest(http.MethodDelete, "/transactions/tx-1", nil), "id", "tx-1"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Delete(rec, withURLParams(httptest.NewRequest(http.MethodDelete, "/transactions/nope", nil), "id", "nope"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/transactions/", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing id, got %d", rec.Code)
	}
}

func TestTransactionHandler_List_Filters(t *testing.T) {
	var captured domain.TransactionFilter
	h := NewTransactionHandler(&transactionServiceStub{
		listFn: func(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
			captured = filter
			return []*domain.Transaction{sampleTransaction()}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/transactions?customer_id=C1&movement=sell-cash&from=2024-01-01&limit=5&offset=10", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.CustomerID != "C1" || captured.Movement != domain.MovementSellCash {
		t.Fatalf("unexpected filter %+v", captured)
	}
	if captured.Limit != 5 || captured.Offset != 10 {
		t.Fatalf("unexpected pagination %+v", captured)
	}
	if captured.From == nil || captured.To != nil {
		t.Fatalf("unexpected range %v - %v", captured.From, captured.To)
	}

	var resp []dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(resp))
	}
}

func TestTransactionHandler_List_BadDate(t *testing.T) {
	h := NewTransactionHandler(&transactionServiceStub{})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/transactions?to=soon", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Stats(t *testing.T) {
	h := NewTransactionHandler(&transactionServiceStub{
		statsFn: func(ctx context.Context, from, to *time.Time) ([]*domain.TransactionStat, error) {
			return []*domain.TransactionStat{{
				Movement:        domain.MovementSellCheck,
				CurrencyID:      "USD",
				Count:           2,
				TotalAmount:     decimal.RequireFromString("300"),
				TotalCommission: decimal.RequireFromString("6"),
			}}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/transactions/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp []dto.TransactionStatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].Count != 2 || !resp[0].TotalCommission.Equal(decimal.RequireFromString("6")) {
		t.Fatalf("unexpected stats %+v", resp)
	}
}
