package cashflow

import (
	"fmt"
	"time"

	"github.com/fxdesk/swapbook-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LegTerms carries everything the generator needs to expand one leg's
// calculation-period schedule into dated cashflows.
type LegTerms struct {
	StartDate    time.Time
	MaturityDate time.Time
	Schedule     *domain.Schedule
	Notional     decimal.Decimal
	Rate         decimal.Decimal
}

// Generator expands a leg's schedule into an ordered cashflow sequence.
// The day-count convention is fixed at construction time; amounts are
// deterministic for identical inputs, so regeneration is idempotent.
type Generator struct {
	convention domain.DayCount
}

// NewGenerator creates a generator using the given day-count convention
func NewGenerator(convention domain.DayCount) *Generator {
	return &Generator{convention: convention}
}

// Convention returns the configured day-count convention
func (g *Generator) Convention() domain.DayCount {
	return g.convention
}

// Generate produces the cashflow sequence for one leg.
//
// Logic:
//   - Step forward from the leg start date by the schedule period, emitting one
//     cashflow per calculation period, until maturity is reached.
//   - Month arithmetic normalizes overflow: a month-end start rolls forward
//     (Aug 31 + 1M = Oct 1) and later periods anchor on the rolled day rather
//     than pinning to month-end.
//   - A final stub period that overshoots maturity is clamped to the maturity
//     date; it is emitted exactly once and never extends past maturity.
//   - Start == maturity yields an empty sequence (the trade validator rejects
//     such trades before generation is reached).
//   - A zero rate still yields the full sequence with zero amounts; cardinality
//     depends only on the dates and the schedule period.
//
// Each cashflow pays on its period end date.
func (g *Generator) Generate(legID uuid.UUID, terms LegTerms) ([]domain.Cashflow, error) {
	if terms.Schedule == nil {
		return nil, fmt.Errorf("leg has no calculation period schedule")
	}
	if terms.Schedule.PeriodMonths <= 0 {
		return nil, fmt.Errorf("schedule %q period must be positive, got %d months",
			terms.Schedule.Code, terms.Schedule.PeriodMonths)
	}

	cashflows := make([]domain.Cashflow, 0)

	periodStart := terms.StartDate
	for periodStart.Before(terms.MaturityDate) {
		periodEnd := periodStart.AddDate(0, terms.Schedule.PeriodMonths, 0)
		if periodEnd.After(terms.MaturityDate) {
			periodEnd = terms.MaturityDate
		}

		cashflows = append(cashflows, domain.Cashflow{
			ID:          uuid.New(),
			LegID:       legID,
			PaymentDate: periodEnd,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			Amount:      g.Amount(terms.Notional, terms.Rate, periodStart, periodEnd),
		})

		periodStart = periodEnd
	}

	return cashflows, nil
}

// Amount computes notional x rate x year fraction for one accrual period
// under the configured day-count convention. Kept separate from date
// generation so the two can be tested independently.
func (g *Generator) Amount(notional, rate decimal.Decimal, periodStart, periodEnd time.Time) decimal.Decimal {
	return notional.Mul(rate).Mul(g.convention.Fraction(periodStart, periodEnd))
}
