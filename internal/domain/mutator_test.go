package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rows(t *testing.T, companyCash, companyCheck, customerCash, customerCheck string) (*Balance, *Balance) {
	t.Helper()
	now := time.Now().UTC()
	company := NewBalance("cb-1", CompanyKey("USD"), now)
	company.CashBalance = dec(companyCash)
	company.CheckBalance = dec(companyCheck)
	customer := NewBalance("cu-1", CustomerKey("C1", "USD"), now)
	customer.CashBalance = dec(customerCash)
	customer.CheckBalance = dec(customerCheck)
	return company, customer
}

func assertBalance(t *testing.T, b *Balance, cash, check string) {
	t.Helper()
	assert.Truef(t, b.CashBalance.Equal(dec(cash)), "%s cash: expected %s, got %s", b.Key(), cash, b.CashBalance)
	assert.Truef(t, b.CheckBalance.Equal(dec(check)), "%s check: expected %s, got %s", b.Key(), check, b.CheckBalance)
}

func TestComputeCommission(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   string
		rate     string
		movement Movement
		expected string
	}{
		{"sell check with rate", "1000", "0.05", MovementSellCheck, "50"},
		{"buy check with rate", "200", "0.1", MovementBuyCheck, "20"},
		{"deposit check with rate", "333.33", "0.015", MovementDepositCheck, "4.99995"},
		{"withdrawal check with rate", "80", "1", MovementWithdrawalCheck, "80"},
		{"check trade zero rate", "1000", "0", MovementSellCheck, "0"},
		{"cash trade ignores rate", "1000", "0.05", MovementBuyCash, "0"},
		{"sell cash ignores rate", "1000", "0.05", MovementSellCash, "0"},
		{"check collection ignores rate", "1000", "0.05", MovementCheckCollection, "0"},
		{"check adjustment ignores rate", "1000", "0.05", MovementAdjustCheckAdd, "0"},
		{"negative rate yields zero", "1000", "-0.05", MovementSellCheck, "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ComputeCommission(dec(tt.amount), dec(tt.rate), tt.movement)
			assert.Truef(t, got.Equal(dec(tt.expected)), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestComputeCommission_ZeroForEveryNonCheckMovement(t *testing.T) {
	t.Parallel()

	for _, m := range Movements {
		got := ComputeCommission(dec("100"), dec("0.5"), m)
		if m.IsCheckTrade() {
			assert.True(t, got.Equal(dec("50")), "movement %s", m)
			continue
		}
		assert.True(t, got.IsZero(), "movement %s should carry no commission", m)
	}
}

func TestApplyMovement_EffectTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		movement      Movement
		amount        string
		commission    string
		companyCash   string
		companyCheck  string
		customerCash  string
		customerCheck string
	}{
		{"buy cash", MovementBuyCash, "100", "0", "100", "0", "-100", "0"},
		{"deposit cash", MovementDepositCash, "100", "0", "100", "0", "-100", "0"},
		{"buy check", MovementBuyCheck, "100", "5", "0", "105", "0", "-105"},
		{"deposit check", MovementDepositCheck, "100", "5", "0", "105", "0", "-105"},
		{"sell cash", MovementSellCash, "100", "0", "-100", "0", "100", "0"},
		{"withdrawal cash", MovementWithdrawalCash, "100", "0", "-100", "0", "100", "0"},
		{"sell check", MovementSellCheck, "1000", "50", "0", "-1050", "0", "1050"},
		{"withdrawal check", MovementWithdrawalCheck, "1000", "50", "0", "-1050", "0", "1050"},
		{"check collection", MovementCheckCollection, "200", "0", "200", "-200", "0", "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			company, customer := rows(t, "0", "0", "0", "0")

			err := ApplyMovement(Apply, tt.movement, dec(tt.amount), dec(tt.commission), company, customer)
			require.NoError(t, err)

			assertBalance(t, company, tt.companyCash, tt.companyCheck)
			assertBalance(t, customer, tt.customerCash, tt.customerCheck)
		})
	}
}

func TestApplyMovement_CashTradeIgnoresCommission(t *testing.T) {
	t.Parallel()
	company, customer := rows(t, "0", "0", "0", "0")

	require.NoError(t, ApplyMovement(Apply, MovementBuyCash, dec("100"), dec("7"), company, customer))

	assertBalance(t, company, "100", "0")
	assertBalance(t, customer, "-100", "0")
}

func TestApplyMovement_Adjustments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		movement Movement
		cash     string
		check    string
	}{
		{"cash add", MovementAdjustCashAdd, "150", "100"},
		{"cash remove", MovementAdjustCashRemove, "50", "100"},
		{"check add", MovementAdjustCheckAdd, "100", "150"},
		{"check remove", MovementAdjustCheckRemove, "100", "50"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name+" on company", func(t *testing.T) {
			t.Parallel()
			company, _ := rows(t, "100", "100", "0", "0")
			require.NoError(t, ApplyMovement(Apply, tt.movement, dec("50"), decimal.Zero, company, nil))
			assertBalance(t, company, tt.cash, tt.check)
		})
		t.Run(tt.name+" on customer", func(t *testing.T) {
			t.Parallel()
			company, customer := rows(t, "100", "100", "100", "100")
			require.NoError(t, ApplyMovement(Apply, tt.movement, dec("50"), decimal.Zero, company, customer))
			assertBalance(t, customer, tt.cash, tt.check)
			assertBalance(t, company, "100", "100")
		})
	}
}

func TestApplyMovement_CheckCollectionIgnoresCustomer(t *testing.T) {
	t.Parallel()
	company, customer := rows(t, "10", "500", "7", "9")

	require.NoError(t, ApplyMovement(Apply, MovementCheckCollection, dec("200"), decimal.Zero, company, customer))

	assertBalance(t, company, "210", "300")
	assertBalance(t, customer, "7", "9")

	require.NoError(t, ApplyMovement(Apply, MovementCheckCollection, dec("200"), decimal.Zero, company, nil))
	assertBalance(t, company, "410", "100")
}

func TestApplyMovement_ReversalIdentity(t *testing.T) {
	t.Parallel()

	amounts := []string{"0.01", "1", "100", "1234.5678", "99999999.99999999"}
	rates := []string{"0", "0.05", "0.0333", "1"}

	for _, m := range Movements {
		for _, a := range amounts {
			for _, r := range rates {
				company, customer := rows(t, "12.34", "-56.78", "-0.01", "1000")
				before := []*Balance{company.Clone(), customer.Clone()}

				amount := dec(a)
				commission := ComputeCommission(amount, dec(r), m)

				require.NoError(t, ApplyMovement(Apply, m, amount, commission, company, customer))
				require.NoError(t, ApplyMovement(Reverse, m, amount, commission, company, customer))

				for i, b := range []*Balance{company, customer} {
					assert.Truef(t, b.CashBalance.Equal(before[i].CashBalance),
						"%s amount=%s rate=%s: cash %s != %s", m, a, r, b.CashBalance, before[i].CashBalance)
					assert.Truef(t, b.CheckBalance.Equal(before[i].CheckBalance),
						"%s amount=%s rate=%s: check %s != %s", m, a, r, b.CheckBalance, before[i].CheckBalance)
				}
			}
		}
	}
}

func TestApplyMovement_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown movement", func(t *testing.T) {
		company, customer := rows(t, "0", "0", "0", "0")
		err := ApplyMovement(Apply, Movement("transfer"), dec("1"), decimal.Zero, company, customer)
		require.ErrorIs(t, err, ErrInvalidMovement)
		require.ErrorIs(t, err, ErrValidation)
		assertBalance(t, company, "0", "0")
	})

	t.Run("trade without customer row", func(t *testing.T) {
		company, _ := rows(t, "0", "0", "0", "0")
		err := ApplyMovement(Apply, MovementBuyCash, dec("1"), decimal.Zero, company, nil)
		require.ErrorIs(t, err, ErrMissingBalance)
		assertBalance(t, company, "0", "0")
	})

	t.Run("trade without company row", func(t *testing.T) {
		_, customer := rows(t, "0", "0", "0", "0")
		err := ApplyMovement(Apply, MovementSellCash, dec("1"), decimal.Zero, nil, customer)
		require.ErrorIs(t, err, ErrMissingBalance)
		assertBalance(t, customer, "0", "0")
	})

	t.Run("adjustment without any row", func(t *testing.T) {
		err := ApplyMovement(Apply, MovementAdjustCashAdd, dec("1"), decimal.Zero, nil, nil)
		require.ErrorIs(t, err, ErrMissingBalance)
	})

	t.Run("invalid direction", func(t *testing.T) {
		company, customer := rows(t, "0", "0", "0", "0")
		err := ApplyMovement(Direction(0), MovementBuyCash, dec("1"), decimal.Zero, company, customer)
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestEffectOf_ReverseNegates(t *testing.T) {
	t.Parallel()

	effect, err := EffectOf(MovementSellCheck, dec("1000"), dec("50"))
	require.NoError(t, err)
	reversed := effect.Scaled(Reverse)

	assert.True(t, effect.Company.Check.Equal(dec("-1050")))
	assert.True(t, reversed.Company.Check.Equal(dec("1050")))
	assert.True(t, reversed.Customer.Check.Equal(dec("-1050")))
	assert.True(t, reversed.HasCustomer)
	assert.True(t, effect.Scaled(Apply).Company.Check.Equal(effect.Company.Check))
}
