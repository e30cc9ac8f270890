package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/usecase"
	"github.com/iho/exchangeledger/internal/usecase/mocks"
)

func seedActivity(t *testing.T, l *mocks.Ledger) {
	t.Helper()
	ctx := context.Background()
	transactions := newTransactionUseCase(l)
	adjustments := newAdjustmentUseCase(l)

	inputs := []usecase.TransactionInput{
		{Amount: dec("100"), Movement: domain.MovementBuyCash, CustomerID: strPtr("C1"), CurrencyID: "USD"},
		{Amount: dec("1000"), CommissionRate: dec("0.05"), Movement: domain.MovementSellCheck, CustomerID: strPtr("C1"), CurrencyID: "USD"},
		{Amount: dec("200"), Movement: domain.MovementCheckCollection, CustomerID: strPtr("C2"), CurrencyID: "USD"},
		{Amount: dec("30"), CommissionRate: dec("0.1"), Movement: domain.MovementDepositCheck, CustomerID: strPtr("C2"), CurrencyID: "EUR"},
	}
	for _, in := range inputs {
		_, err := transactions.CreateTransaction(ctx, in)
		require.NoError(t, err)
	}

	_, err := adjustments.AdjustBalance(ctx, usecase.AdjustBalanceInput{
		OwnerKind: domain.OwnerCompany, CurrencyID: "USD", BalanceType: domain.BucketCash, AdjustmentType: domain.AdjustmentAdd, Amount: dec("500"),
	})
	require.NoError(t, err)
	_, err = adjustments.AdjustBalance(ctx, usecase.AdjustBalanceInput{
		OwnerKind: domain.OwnerClient, CustomerID: strPtr("C1"), CurrencyID: "USD", BalanceType: domain.BucketCheck, AdjustmentType: domain.AdjustmentRemove, Amount: dec("50"),
	})
	require.NoError(t, err)
}

func TestReconcile_Consistent(t *testing.T) {
	l := mocks.NewLedger()
	seedActivity(t, l)

	uc := usecase.NewReconciliationUseCase(l, l.Transactions, l.Balances)
	report, err := uc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Consistent)
	assert.Empty(t, report.Discrepancies)
	assert.Equal(t, 6, report.Transactions)
	assert.Equal(t, 4, report.Balances)
	assert.False(t, report.CheckedAt.IsZero())
}

func TestReconcile_DetectsDrift(t *testing.T) {
	l := mocks.NewLedger()
	seedActivity(t, l)

	// Overwrite a stored row behind the engine's back.
	l.SeedBalance(domain.CompanyKey("EUR"), dec("1"), dec("33"))

	uc := usecase.NewReconciliationUseCase(l, l.Transactions, l.Balances)
	report, err := uc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Consistent)
	require.Len(t, report.Discrepancies, 1)
	d := report.Discrepancies[0]
	assert.Equal(t, domain.CompanyKey("EUR"), d.Key)
	assert.Equal(t, domain.BucketCash, d.Bucket)
	assert.True(t, d.Recorded.Equal(dec("1")))
	assert.True(t, d.Calculated.IsZero())
	assert.True(t, d.Difference.Equal(dec("1")))
}

func TestReconcile_PropagatesError(t *testing.T) {
	l := mocks.NewLedger()
	l.Balances.ListAllFunc = func(context.Context, usecase.Transaction) ([]*domain.Balance, error) {
		return nil, errors.New("boom")
	}

	uc := usecase.NewReconciliationUseCase(l, l.Transactions, l.Balances)
	_, err := uc.Reconcile(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestReconcile_ReadsBothSidesInOneUnitOfWork(t *testing.T) {
	l := mocks.NewLedger()

	var eachTx, listTx usecase.Transaction
	l.Transactions.EachFunc = func(_ context.Context, tx usecase.Transaction, _ func(*domain.Transaction) error) error {
		eachTx = tx
		return nil
	}
	l.Balances.ListAllFunc = func(_ context.Context, tx usecase.Transaction) ([]*domain.Balance, error) {
		listTx = tx
		return nil, nil
	}

	uc := usecase.NewReconciliationUseCase(l, l.Transactions, l.Balances)
	report, err := uc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent)

	require.NotNil(t, eachTx)
	assert.Same(t, eachTx, listTx)
}

func TestReconcile_BeginFails(t *testing.T) {
	l := mocks.NewLedger()
	l.BeginFunc = func(context.Context) (usecase.Transaction, error) {
		return nil, domain.NewStoreError("begin", errors.New("pool closed"))
	}
	l.Balances.ListAllFunc = func(context.Context, usecase.Transaction) ([]*domain.Balance, error) {
		t.Fatal("balances must not be read without a unit of work")
		return nil, nil
	}

	uc := usecase.NewReconciliationUseCase(l, l.Transactions, l.Balances)
	_, err := uc.Reconcile(context.Background())
	assert.ErrorIs(t, err, domain.ErrStore)
}
