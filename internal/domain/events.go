package domain

import "time"

// Event types
const (
	EventTypeTransactionCreated = "transaction.created"
	EventTypeTransactionUpdated = "transaction.updated"
	EventTypeTransactionDeleted = "transaction.deleted"
	EventTypeBalanceAdjusted    = "balance.adjusted"
	EventTypeEarningRecorded    = "earning.recorded"
	EventTypeEarningDeleted     = "earning.deleted"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeBalance     = "balance"
	AggregateTypeEarning     = "earning"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransactionPayload builds the event payload describing a transaction.
func TransactionPayload(t *Transaction) map[string]any {
	payload := map[string]any{
		"transaction_id":  t.ID,
		"movement":        string(t.Movement),
		"amount":          t.Amount.String(),
		"commission_rate": t.CommissionRate.String(),
		"commission":      t.Commission().String(),
		"currency_id":     t.CurrencyID,
	}
	if t.CustomerID != nil {
		payload["customer_id"] = *t.CustomerID
	}
	return payload
}
