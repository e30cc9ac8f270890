package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/exchangeledger/internal/adapter/http/dto"
	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/usecase"
)

// BalanceService reads and stars balance rows.
type BalanceService interface {
	GetCompanyBalance(ctx context.Context, currencyID string) (*domain.Balance, error)
	ListCompanyBalances(ctx context.Context) ([]*domain.Balance, error)
	ListCustomerBalances(ctx context.Context, customerID string) ([]*domain.Balance, error)
	ToggleStar(ctx context.Context, customerID, currencyID string) (*domain.Balance, error)
}

// AdjustmentService applies manual balance corrections.
type AdjustmentService interface {
	AdjustBalance(ctx context.Context, input usecase.AdjustBalanceInput) (*usecase.AdjustBalanceResult, error)
}

// BalanceHandler handles balance-related HTTP requests.
type BalanceHandler struct {
	balances    BalanceService
	adjustments AdjustmentService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balances BalanceService, adjustments AdjustmentService) *BalanceHandler {
	return &BalanceHandler{balances: balances, adjustments: adjustments}
}

// Adjust adds to or removes from one bucket.
func (h *BalanceHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustBalanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.adjustments.AdjustBalance(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to adjust balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AdjustBalanceFromResult(result))
}

// ListCompany lists the company balances, starred first.
func (h *BalanceHandler) ListCompany(w http.ResponseWriter, r *http.Request) {
	balances, err := h.balances.ListCompanyBalances(r.Context())
	if err != nil {
		writeDomainError(w, "failed to list balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}

// GetCompany returns the company balance for one currency.
func (h *BalanceHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	balance, err := h.balances.GetCompanyBalance(r.Context(), chi.URLParam(r, "currency_id"))
	if err != nil {
		writeDomainError(w, "balance not found", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// StarCompany toggles the starred flag on a company row.
func (h *BalanceHandler) StarCompany(w http.ResponseWriter, r *http.Request) {
	h.toggleStar(w, r, "")
}

// ListCustomer lists the balances of one customer.
func (h *BalanceHandler) ListCustomer(w http.ResponseWriter, r *http.Request) {
	balances, err := h.balances.ListCustomerBalances(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}

// StarCustomer toggles the starred flag on a customer row.
func (h *BalanceHandler) StarCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "missing customer ID", "")
		return
	}
	h.toggleStar(w, r, customerID)
}

func (h *BalanceHandler) toggleStar(w http.ResponseWriter, r *http.Request, customerID string) {
	balance, err := h.balances.ToggleStar(r.Context(), customerID, chi.URLParam(r, "currency_id"))
	if err != nil {
		writeDomainError(w, "failed to toggle star", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}
