package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/exchangeledger/internal/domain"
	"github.com/iho/exchangeledger/internal/usecase"
	"github.com/iho/exchangeledger/internal/usecase/mocks"
)

func newEarningUseCase(l *mocks.Ledger) *usecase.EarningUseCase {
	return usecase.NewEarningUseCase(l, l.Earnings, l.Outbox, mocks.NewMockIDGenerator())
}

func TestRecordEarning(t *testing.T) {
	l := mocks.NewLedger()
	uc := newEarningUseCase(l)
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	earning, err := uc.RecordEarning(context.Background(), usecase.RecordEarningInput{
		CurrencyID:  "USD",
		Amount:      dec("12.34"),
		Type:        " Fee ",
		Description: "wire fee",
		Date:        &date,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.EarningFee, earning.Type)
	assert.False(t, earning.IsLinked())
	assert.Equal(t, date, earning.Date)

	stored, err := uc.GetEarning(context.Background(), earning.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(dec("12.34")))

	events := l.EventList()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeEarningRecorded, events[0].EventType)
}

func TestRecordEarning_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input usecase.RecordEarningInput
		field string
	}{
		{"commission is derived", usecase.RecordEarningInput{CurrencyID: "USD", Amount: dec("1"), Type: domain.EarningCommission}, "type"},
		{"unknown type", usecase.RecordEarningInput{CurrencyID: "USD", Amount: dec("1"), Type: "bonus"}, "type"},
		{"zero amount", usecase.RecordEarningInput{CurrencyID: "USD", Amount: dec("0"), Type: domain.EarningOther}, "amount"},
		{"no currency", usecase.RecordEarningInput{Amount: dec("1"), Type: domain.EarningOther}, "currency_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mocks.NewLedger()
			uc := newEarningUseCase(l)

			_, err := uc.RecordEarning(context.Background(), tt.input)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Empty(t, l.EarningList())
		})
	}
}

func TestDeleteEarning(t *testing.T) {
	l := mocks.NewLedger()
	earnings := newEarningUseCase(l)
	transactions := newTransactionUseCase(l)
	ctx := context.Background()

	manual, err := earnings.RecordEarning(ctx, usecase.RecordEarningInput{
		CurrencyID: "USD", Amount: dec("5"), Type: domain.EarningSpread,
	})
	require.NoError(t, err)

	tx, err := transactions.CreateTransaction(ctx, usecase.TransactionInput{
		Amount: dec("100"), CommissionRate: dec("0.01"), Movement: domain.MovementBuyCheck, CustomerID: strPtr("C1"), CurrencyID: "USD",
	})
	require.NoError(t, err)

	var linked *domain.Earning
	for _, e := range l.EarningList() {
		if e.IsLinked() {
			linked = e
		}
	}
	require.NotNil(t, linked)
	assert.Equal(t, tx.ID, *linked.TransactionID)

	err = earnings.DeleteEarning(ctx, linked.ID)
	assert.ErrorIs(t, err, domain.ErrEarningLinked)
	assert.Len(t, l.EarningList(), 2)

	require.NoError(t, earnings.DeleteEarning(ctx, manual.ID))
	assert.Len(t, l.EarningList(), 1)

	err = earnings.DeleteEarning(ctx, manual.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListEarnings(t *testing.T) {
	l := mocks.NewLedger()
	uc := newEarningUseCase(l)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, typ := range []domain.EarningType{domain.EarningFee, domain.EarningSpread, domain.EarningFee} {
		date := base.AddDate(0, 0, i)
		_, err := uc.RecordEarning(ctx, usecase.RecordEarningInput{
			CurrencyID: "USD", Amount: dec("1"), Type: typ, Date: &date,
		})
		require.NoError(t, err)
	}

	fees, err := uc.ListEarnings(ctx, domain.EarningFilter{Type: domain.EarningFee})
	require.NoError(t, err)
	require.Len(t, fees, 2)
	assert.True(t, fees[0].Date.After(fees[1].Date))

	from := base.AddDate(0, 0, 1)
	recent, err := uc.ListEarnings(ctx, domain.EarningFilter{From: &from})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	_, err = uc.ListEarnings(ctx, domain.EarningFilter{Type: "bonus"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEarningTotals_UsesCache(t *testing.T) {
	l := mocks.NewLedger()
	cache := mocks.NewMemoryCache()
	uc := newEarningUseCase(l).WithCache(cache, time.Minute)
	ctx := context.Background()

	for _, in := range []usecase.RecordEarningInput{
		{CurrencyID: "USD", Amount: dec("10"), Type: domain.EarningFee},
		{CurrencyID: "USD", Amount: dec("2.5"), Type: domain.EarningSpread},
		{CurrencyID: "EUR", Amount: dec("4"), Type: domain.EarningFee},
	} {
		_, err := uc.RecordEarning(ctx, in)
		require.NoError(t, err)
	}

	calls := 0
	l.Earnings.TotalsFunc = func(ctx context.Context, group domain.EarningGroup, from, to *time.Time) ([]*domain.EarningTotal, error) {
		calls++
		return []*domain.EarningTotal{
			{Key: "EUR", Count: 1, Total: dec("4")},
			{Key: "USD", Count: 2, Total: dec("12.5")},
		}, nil
	}

	first, err := uc.Totals(ctx, domain.EarningGroupCurrency, nil, nil)
	require.NoError(t, err)
	assert.True(t, first.Total.Equal(dec("16.5")))
	require.Len(t, first.Groups, 2)

	second, err := uc.Totals(ctx, "", nil, nil)
	require.NoError(t, err)
	assert.True(t, second.Total.Equal(dec("16.5")))
	assert.Equal(t, domain.EarningGroupCurrency, second.GroupBy)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Hits)
	assert.Equal(t, 1, cache.Sets)
}

func TestEarningTotals_GroupByType(t *testing.T) {
	l := mocks.NewLedger()
	uc := newEarningUseCase(l)
	ctx := context.Background()

	for _, in := range []usecase.RecordEarningInput{
		{CurrencyID: "USD", Amount: dec("10"), Type: domain.EarningFee},
		{CurrencyID: "EUR", Amount: dec("4"), Type: domain.EarningFee},
		{CurrencyID: "USD", Amount: dec("1"), Type: domain.EarningOther},
	} {
		_, err := uc.RecordEarning(ctx, in)
		require.NoError(t, err)
	}

	totals, err := uc.Totals(ctx, domain.EarningGroupType, nil, nil)
	require.NoError(t, err)
	require.Len(t, totals.Groups, 2)
	assert.Equal(t, "fee", totals.Groups[0].Key)
	assert.True(t, totals.Groups[0].Total.Equal(dec("14")))
	assert.True(t, totals.Total.Equal(dec("15")))

	_, err = uc.Totals(ctx, "week", nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEarningTotals_CacheFailureFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := mocks.NewLedger()

	cache := mocks.NewMockCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), "earnings:totals:currency:-:-").Return(nil, errors.New("connection refused"))
	cache.EXPECT().Set(gomock.Any(), "earnings:totals:currency:-:-", gomock.Any(), 5*time.Second).Return(errors.New("connection refused"))

	uc := newEarningUseCase(l).WithCache(cache, 5*time.Second)

	totals, err := uc.Totals(context.Background(), domain.EarningGroupCurrency, nil, nil)
	require.NoError(t, err)
	assert.True(t, totals.Total.IsZero())
}
