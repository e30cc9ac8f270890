package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/exchangeledger/internal/domain"
)

// BalanceUseCase serves balance reads and the starred flag.
type BalanceUseCase struct {
	txManager   TransactionManager
	balanceRepo BalanceRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(txManager TransactionManager, balanceRepo BalanceRepository) *BalanceUseCase {
	return &BalanceUseCase{
		txManager:   txManager,
		balanceRepo: balanceRepo,
		logger:      zerolog.Nop(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithLogger sets the logger.
func (uc *BalanceUseCase) WithLogger(l zerolog.Logger) *BalanceUseCase {
	uc.logger = l.With().Str("component", "balances").Logger()
	return uc
}

// GetCompanyBalance returns the company row for a currency.
func (uc *BalanceUseCase) GetCompanyBalance(ctx context.Context, currencyID string) (*domain.Balance, error) {
	currencyID = strings.TrimSpace(currencyID)
	if currencyID == "" {
		return nil, domain.NewValidationError("currency_id", "is required")
	}
	return uc.balanceRepo.Get(ctx, domain.CompanyKey(currencyID))
}

// GetCustomerBalance returns a customer's row for a currency.
func (uc *BalanceUseCase) GetCustomerBalance(ctx context.Context, customerID, currencyID string) (*domain.Balance, error) {
	key, err := balanceKey(customerID, currencyID)
	if err != nil {
		return nil, err
	}
	return uc.balanceRepo.Get(ctx, key)
}

// ListCompanyBalances lists company rows, starred first.
func (uc *BalanceUseCase) ListCompanyBalances(ctx context.Context) ([]*domain.Balance, error) {
	return uc.balanceRepo.ListCompany(ctx)
}

// ListCustomerBalances lists a customer's rows, starred first.
func (uc *BalanceUseCase) ListCustomerBalances(ctx context.Context, customerID string) ([]*domain.Balance, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, domain.NewValidationError("customer_id", "is required")
	}
	return uc.balanceRepo.ListByCustomer(ctx, customerID)
}

// ToggleStar flips the starred flag of a row, creating a zero row when none
// exists. Amounts are untouched.
func (uc *BalanceUseCase) ToggleStar(ctx context.Context, customerID, currencyID string) (*domain.Balance, error) {
	key, err := balanceKey(customerID, currencyID)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	current, err := uc.balanceRepo.GetOrCreateForUpdate(txCtx, tx, key)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	starred := !current.Starred
	if err := uc.balanceRepo.SetStarred(txCtx, tx, key, starred, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	current.Starred = starred
	current.UpdatedAt = now

	uc.logger.Debug().Str("key", key.String()).Bool("starred", starred).Msg("balance star toggled")
	return current, nil
}

// balanceKey builds a key from optional customerID and a required currencyID.
func balanceKey(customerID, currencyID string) (domain.BalanceKey, error) {
	currencyID = strings.TrimSpace(currencyID)
	if currencyID == "" {
		return domain.BalanceKey{}, domain.NewValidationError("currency_id", "is required")
	}
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return domain.CompanyKey(currencyID), nil
	}
	return domain.CustomerKey(customerID, currencyID), nil
}
