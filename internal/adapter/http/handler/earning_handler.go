package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/exchangeledger/internal/adapter/http/dto"
	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/usecase"
)

// EarningService records and reports company income.
type EarningService interface {
	RecordEarning(ctx context.Context, input usecase.RecordEarningInput) (*domain.Earning, error)
	GetEarning(ctx context.Context, id string) (*domain.Earning, error)
	ListEarnings(ctx context.Context, filter domain.EarningFilter) ([]*domain.Earning, error)
	DeleteEarning(ctx context.Context, id string) error
	Totals(ctx context.Context, group domain.EarningGroup, from, to *time.Time) (*usecase.EarningTotals, error)
}

// EarningHandler handles earning-related HTTP requests.
type EarningHandler struct {
	earnings EarningService
}

// NewEarningHandler creates a new EarningHandler.
func NewEarningHandler(earnings EarningService) *EarningHandler {
	return &EarningHandler{earnings: earnings}
}

// Create records a manual earning.
func (h *EarningHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordEarningRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	earning, err := h.earnings.RecordEarning(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to record earning", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EarningFromDomain(earning))
}

// Get retrieves an earning by ID.
func (h *EarningHandler) Get(w http.ResponseWriter, r *http.Request) {
	earning, err := h.earnings.GetEarning(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "earning not found", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EarningFromDomain(earning))
}

// List lists earnings, newest first.
func (h *EarningHandler) List(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		writeDomainError(w, "invalid date range", err)
		return
	}

	q := r.URL.Query()
	earnings, err := h.earnings.ListEarnings(r.Context(), domain.EarningFilter{
		CurrencyID: q.Get("currency_id"),
		Type:       domain.EarningType(q.Get("type")),
		From:       from,
		To:         to,
		Limit:      parseIntQuery(r, "limit", 100),
		Offset:     parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list earnings", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EarningsFromDomain(earnings))
}

// Delete removes a manual earning. Earnings owned by a transaction are refused.
func (h *EarningHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.earnings.DeleteEarning(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete earning", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Totals sums earnings by currency or type.
func (h *EarningHandler) Totals(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		writeDomainError(w, "invalid date range", err)
		return
	}

	totals, err := h.earnings.Totals(r.Context(), domain.EarningGroup(r.URL.Query().Get("group_by")), from, to)
	if err != nil {
		writeDomainError(w, "failed to compute totals", err)
		return
	}

	writeJSON(w, http.StatusOK, totals)
}
