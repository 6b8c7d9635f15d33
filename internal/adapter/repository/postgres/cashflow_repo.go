package postgres

import (
	"context"
	"fmt"

	"github.com/fxdesk/swapbook-backend/internal/domain"
)

// cashflowRepository implements domain.CashflowRepository
type cashflowRepository struct {
	db *DB
}

// NewCashflowRepository creates a new cashflow repository
func NewCashflowRepository(db *DB) domain.CashflowRepository {
	return &cashflowRepository{db: db}
}

// Save persists one cashflow
func (r *cashflowRepository) Save(ctx context.Context, cf *domain.Cashflow) error {
	query := `
		INSERT INTO cashflows (id, leg_id, payment_date, period_start, period_end, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		cf.ID,
		cf.LegID,
		cf.PaymentDate,
		cf.PeriodStart,
		cf.PeriodEnd,
		cf.Amount.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cashflow: %w", err)
	}

	return nil
}
