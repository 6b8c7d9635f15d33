package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequiredLegCount is the number of legs every trade must carry (pay/receive pair)
const RequiredLegCount = 2

// Trade represents one immutable version of a booked trade in the domain layer.
// TradeID is stable across versions; ID identifies this particular version row.
// Exactly one version per TradeID is active at any time.
type Trade struct {
	ID           uuid.UUID
	TradeID      int64
	Version      int
	TradeDate    time.Time
	StartDate    time.Time
	MaturityDate time.Time
	Active       bool
	Book         *Book
	Counterparty *Counterparty
	Status       *TradeStatus
	Legs         []TradeLeg
}

// TradeLeg represents one side of a trade's cashflow obligations.
// Legs are owned by exactly one trade version and are never mutated once
// that version is persisted; an amendment builds fresh leg instances.
type TradeLeg struct {
	ID           uuid.UUID
	TradeID      uuid.UUID // owning trade version row
	Notional     decimal.Decimal
	Rate         decimal.Decimal // zero for floating legs pending reset
	ScheduleCode string          // calculation period schedule, e.g. "1M"
	Cashflows    []Cashflow
}

// Cashflow is one scheduled dated payment derived from a leg's notional,
// rate and accrual period.
type Cashflow struct {
	ID          uuid.UUID
	LegID       uuid.UUID
	PaymentDate time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	Amount      decimal.Decimal
}

// Validate ensures the trade adheres to the structural booking rules.
// Returns an error if validation fails.
// Pure and deterministic: runs before reference resolution and before any
// cashflow generation or persistence is attempted.
func (t *Trade) Validate() error {
	if len(t.Legs) != RequiredLegCount {
		return fmt.Errorf("%w: trade must have exactly %d legs, got %d",
			ErrInvalidLegCount, RequiredLegCount, len(t.Legs))
	}

	if t.StartDate.Before(t.TradeDate) {
		return fmt.Errorf("%w: start date cannot be before trade date", ErrInvalidDateOrder)
	}

	if !t.MaturityDate.After(t.StartDate) {
		return fmt.Errorf("%w: maturity date must be after start date", ErrInvalidDateOrder)
	}

	for i, leg := range t.Legs {
		// Rate may legitimately be zero (floating leg placeholder); only the
		// notional is constrained.
		if leg.Notional.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: leg %d notional must be positive", ErrInvalidNotional, i+1)
		}
	}

	return nil
}
