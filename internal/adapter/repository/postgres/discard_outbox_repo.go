package postgres

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/usecase"
)

// DiscardOutboxRepository drops every event it is handed and only counts
// them. Used when the ledger runs without the outbox table, as in load tests.
type DiscardOutboxRepository struct {
	discarded atomic.Int64
}

// NewDiscardOutboxRepository creates a new DiscardOutboxRepository.
func NewDiscardOutboxRepository() *DiscardOutboxRepository {
	return &DiscardOutboxRepository{}
}

// Discarded reports how many events were dropped.
func (r *DiscardOutboxRepository) Discarded() int64 {
	return r.discarded.Load()
}

func (r *DiscardOutboxRepository) Create(_ context.Context, _ usecase.Transaction, event *domain.OutboxEvent) error {
	if event != nil {
		r.discarded.Add(1)
	}
	return nil
}

func (r *DiscardOutboxRepository) GetUnpublished(context.Context, int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (r *DiscardOutboxRepository) MarkPublished(context.Context, string, time.Time) error {
	return nil
}

func (r *DiscardOutboxRepository) GetByAggregate(context.Context, string, string, int, int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (r *DiscardOutboxRepository) DeletePublished(context.Context, time.Time) error {
	return nil
}
