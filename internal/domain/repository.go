package domain

import (
	"context"

	"github.com/google/uuid"
)

// The lookup repositories return (nil, nil) when no record matches; the
// reference resolver converts that into a ReferenceNotFoundError. A non-nil
// error always means the lookup itself failed.

// BookRepository defines the interface for trading book lookups
type BookRepository interface {
	// FindByName retrieves a book by its name
	FindByName(ctx context.Context, name string) (*Book, error)
}

// CounterpartyRepository defines the interface for counterparty lookups
type CounterpartyRepository interface {
	// FindByName retrieves a counterparty by its name
	FindByName(ctx context.Context, name string) (*Counterparty, error)
}

// TradeStatusRepository defines the interface for trade status lookups
type TradeStatusRepository interface {
	// FindByName retrieves a trade status by its name
	FindByName(ctx context.Context, name string) (*TradeStatus, error)

	// Create creates a new trade status (used by the reference-data seeder)
	Create(ctx context.Context, status *TradeStatus) error
}

// ScheduleRepository defines the interface for calculation-period schedule lookups
type ScheduleRepository interface {
	// FindByCode retrieves a schedule by its code (e.g. "1M")
	FindByCode(ctx context.Context, code string) (*Schedule, error)

	// Create creates a new schedule (used by the reference-data seeder)
	Create(ctx context.Context, schedule *Schedule) error
}

// TradeRepository defines the interface for trade version persistence
type TradeRepository interface {
	// Save persists one trade version row
	Save(ctx context.Context, trade *Trade) error

	// FindActiveByTradeID retrieves the current active version for a trade
	// identifier, legs and cashflows included. Returns (nil, nil) if no
	// active version exists.
	FindActiveByTradeID(ctx context.Context, tradeID int64) (*Trade, error)

	// Deactivate flips the given version to inactive. The implementation must
	// only touch the row if it is still the active one and return a
	// VersionConflictError otherwise; this is the optimistic check that keeps
	// two concurrent amendments from both ending up active.
	Deactivate(ctx context.Context, tradeID int64, version int) error
}

// TradeLegRepository defines the interface for trade leg persistence
type TradeLegRepository interface {
	// Save persists one trade leg
	Save(ctx context.Context, leg *TradeLeg) error
}

// CashflowRepository defines the interface for cashflow persistence
type CashflowRepository interface {
	// Save persists one cashflow
	Save(ctx context.Context, cashflow *Cashflow) error
}

// AdditionalInfoAttacher is the fire-and-forget enrichment hook invoked after
// a trade version is persisted. Failures must not roll back the trade.
type AdditionalInfoAttacher interface {
	Attach(ctx context.Context, entityType string, entityID uuid.UUID, metadata map[string]string) error
}
