package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/exchangeledger/internal/domain"
)

func TestTransactionRequest_DecodesStringAndNumberAmounts(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"string", `{"amount":"100.50","commission_rate":"0.02","movement":"buy-check","currency_id":"USD","customer_id":"C1"}`},
		{"number", `{"amount":100.50,"commission_rate":0.02,"movement":"buy-check","currency_id":"USD","customer_id":"C1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TransactionRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			in := req.ToUseCaseInput()
			if !in.Amount.Equal(decimal.RequireFromString("100.5")) {
				t.Fatalf("amount = %s", in.Amount)
			}
			if !in.CommissionRate.Equal(decimal.RequireFromString("0.02")) {
				t.Fatalf("commission rate = %s", in.CommissionRate)
			}
			if in.Movement != domain.MovementBuyCheck {
				t.Fatalf("movement = %s", in.Movement)
			}
			if in.CustomerID == nil || *in.CustomerID != "C1" {
				t.Fatalf("customer id = %v", in.CustomerID)
			}
		})
	}
}

func TestAdjustBalanceRequest_ToUseCaseInput(t *testing.T) {
	req := &AdjustBalanceRequest{
		OwnerKind:      "company",
		CurrencyID:     "USD",
		BalanceType:    "cash",
		AdjustmentType: "remove",
		Amount:         decimal.RequireFromString("5"),
		Note:           "count",
	}

	in := req.ToUseCaseInput()
	if in.OwnerKind != domain.OwnerCompany || in.BalanceType != domain.BucketCash || in.AdjustmentType != domain.AdjustmentRemove {
		t.Fatalf("unexpected input %+v", in)
	}
	if in.CustomerID != nil {
		t.Fatalf("expected no customer, got %v", *in.CustomerID)
	}
	if in.Note != "count" {
		t.Fatalf("note = %q", in.Note)
	}
}

func TestRecordEarningRequest_ToUseCaseInput(t *testing.T) {
	var req RecordEarningRequest
	body := `{"currency_id":"EUR","amount":"3.25","type":"fee","date":"2024-03-01T00:00:00Z"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	in := req.ToUseCaseInput()
	if in.Type != domain.EarningFee {
		t.Fatalf("type = %s", in.Type)
	}
	if in.Date == nil || in.Date.Month() != 3 {
		t.Fatalf("date = %v", in.Date)
	}
}
