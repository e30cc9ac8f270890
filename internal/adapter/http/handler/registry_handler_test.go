package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/exchangeledger/internal/adapter/http/dto"
	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/usecase"
)

type currencyServiceStub struct {
	currencies map[string]*domain.Currency
}

func (s *currencyServiceStub) CreateCurrency(ctx context.Context, input usecase.CreateCurrencyInput) (*domain.Currency, error) {
	code, err := domain.NormalizeCurrencyCode(input.Code)
	if err != nil {
		return nil, err
	}
	if _, ok := s.currencies[code]; ok {
		return nil, domain.NewValidationError("code", "already exists")
	}
	c := &domain.Currency{ID: code, Code: code, Name: input.Name}
	s.currencies[code] = c
	return c, nil
}

func (s *currencyServiceStub) GetCurrency(ctx context.Context, id string) (*domain.Currency, error) {
	if c, ok := s.currencies[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCurrencyNotFound
}

func (s *currencyServiceStub) ListCurrencies(ctx context.Context) ([]*domain.Currency, error) {
	var out []*domain.Currency
	for _, c := range s.currencies {
		out = append(out, c)
	}
	return out, nil
}

type customerServiceStub struct {
	listFn func(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
}

func (s *customerServiceStub) CreateCustomer(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
	if input.Name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	return &domain.Customer{ID: "C1", Name: input.Name, Phone: input.Phone}, nil
}

func (s *customerServiceStub) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return nil, domain.ErrCustomerNotFound
}

func (s *customerServiceStub) ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	return s.listFn(ctx, limit, offset)
}

func TestRegistryHandler_Currencies(t *testing.T) {
	h := NewRegistryHandler(&currencyServiceStub{currencies: map[string]*domain.Currency{}}, &customerServiceStub{})

	rec := httptest.NewRecorder()
	h.CreateCurrency(rec, httptest.NewRequest(http.MethodPost, "/currencies", bytes.NewBufferString(`{"code":"usd","name":"US Dollar"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.CreateCurrency(rec, httptest.NewRequest(http.MethodPost, "/currencies", bytes.NewBufferString(`{"code":"USD","name":"again"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.GetCurrency(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/currencies/USD", nil), "id", "USD"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ListCurrencies(rec, httptest.NewRequest(http.MethodGet, "/currencies", nil))
	var list []dto.CurrencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(list) != 1 || list[0].Code != "USD" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestRegistryHandler_Customers(t *testing.T) {
	var gotLimit, gotOffset int
	h := NewRegistryHandler(&currencyServiceStub{}, &customerServiceStub{
		listFn: func(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
			gotLimit, gotOffset = limit, offset
			return []*domain.Customer{{ID: "C1", Name: "Alice"}}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.CreateCustomer(rec, httptest.NewRequest(http.MethodPost, "/customers", bytes.NewBufferString(`{"name":"Alice","phone":"555"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.CreateCustomer(rec, httptest.NewRequest(http.MethodPost, "/customers", bytes.NewBufferString(`{"name":""}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var errResp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if errResp.Field != "name" {
		t.Fatalf("expected field name, got %q", errResp.Field)
	}

	rec = httptest.NewRecorder()
	h.GetCustomer(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/customers/C9", nil), "id", "C9"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ListCustomers(rec, httptest.NewRequest(http.MethodGet, "/customers?limit=20&offset=40", nil))
	if rec.Code != http.StatusOK || gotLimit != 20 || gotOffset != 40 {
		t.Fatalf("unexpected list call: %d limit=%d offset=%d", rec.Code, gotLimit, gotOffset)
	}
}
