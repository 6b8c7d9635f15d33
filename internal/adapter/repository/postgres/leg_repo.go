package postgres

import (
	"context"
	"fmt"

	"github.com/fxdesk/swapbook-backend/internal/domain"
)

// tradeLegRepository implements domain.TradeLegRepository
type tradeLegRepository struct {
	db *DB
}

// NewTradeLegRepository creates a new trade leg repository
func NewTradeLegRepository(db *DB) domain.TradeLegRepository {
	return &tradeLegRepository{db: db}
}

// Save persists one trade leg. Legs are written before their owning trade
// version row, so the trade_version_id reference is validated at read time,
// not by a foreign key.
func (r *tradeLegRepository) Save(ctx context.Context, leg *domain.TradeLeg) error {
	query := `
		INSERT INTO trade_legs (id, trade_version_id, notional, rate, schedule_code)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		leg.ID,
		leg.TradeID,
		leg.Notional.String(),
		leg.Rate.String(),
		leg.ScheduleCode,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade leg: %w", err)
	}

	return nil
}
