package usecase

import (
	"context"
	"time"

	"github.com/iho/exchangeledger/internal/domain"
)

// BalanceRepository defines data access for company and customer balances.
type BalanceRepository interface {
	// GetOrCreateForUpdate locks the row for key, creating a zero row first
	// when none exists.
	GetOrCreateForUpdate(ctx context.Context, tx Transaction, key domain.BalanceKey) (*domain.Balance, error)
	Update(ctx context.Context, tx Transaction, balance *domain.Balance) error
	SetStarred(ctx context.Context, tx Transaction, key domain.BalanceKey, starred bool, updatedAt time.Time) error
	Get(ctx context.Context, key domain.BalanceKey) (*domain.Balance, error)
	ListCompany(ctx context.Context) ([]*domain.Balance, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Balance, error)
	// ListAll reads every row inside tx, so it sees the same snapshot as
	// other reads in that unit of work.
	ListAll(ctx context.Context, tx Transaction) ([]*domain.Balance, error)
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, t *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	Update(ctx context.Context, tx Transaction, t *domain.Transaction) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	Stats(ctx context.Context, from, to *time.Time) ([]*domain.TransactionStat, error)
	// Each streams every stored transaction in creation order inside tx.
	Each(ctx context.Context, tx Transaction, fn func(*domain.Transaction) error) error
}

// EarningRepository defines data access for earnings.
type EarningRepository interface {
	Create(ctx context.Context, tx Transaction, e *domain.Earning) error
	GetByID(ctx context.Context, id string) (*domain.Earning, error)
	GetByTransaction(ctx context.Context, tx Transaction, transactionID string) (*domain.Earning, error)
	Update(ctx context.Context, tx Transaction, e *domain.Earning) error
	Delete(ctx context.Context, tx Transaction, id string) error
	DeleteByTransaction(ctx context.Context, tx Transaction, transactionID string) error
	List(ctx context.Context, filter domain.EarningFilter) ([]*domain.Earning, error)
	Totals(ctx context.Context, group domain.EarningGroup, from, to *time.Time) ([]*domain.EarningTotal, error)
}

// CurrencyRepository defines data access for currencies.
type CurrencyRepository interface {
	Create(ctx context.Context, c *domain.Currency) error
	GetByID(ctx context.Context, id string) (*domain.Currency, error)
	List(ctx context.Context) ([]*domain.Currency, error)
}

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs a whole unit of work on transient store failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}
