package domain

import (
	"github.com/google/uuid"
)

// Book represents a trading book reference entity.
// Reference entities are resolved by name and never created or mutated by
// the booking core.
type Book struct {
	ID   uuid.UUID
	Name string
}

// Counterparty represents the other party to a trade.
type Counterparty struct {
	ID   uuid.UUID
	Name string
}

// TradeStatus is a lookup record for the lifecycle status of a trade version
type TradeStatus struct {
	ID   uuid.UUID
	Name string
}

// Well-known trade status names seeded at startup
const (
	StatusNew        = "NEW"
	StatusAmended    = "AMENDED"
	StatusTerminated = "TERMINATED"
	StatusCancelled  = "CANCELLED"
)

// Schedule maps a calculation-period schedule code (e.g. "1M") to the period
// length, in months, used for cashflow expansion. Immutable, externally managed.
type Schedule struct {
	ID           uuid.UUID
	Code         string
	PeriodMonths int
}
