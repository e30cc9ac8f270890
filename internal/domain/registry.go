package domain

import "time"

// Currency is a traded currency.
type Currency struct {
	ID        string
	Code      string
	Name      string
	CreatedAt time.Time
}

// Customer is a counterparty with its own balances.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}
