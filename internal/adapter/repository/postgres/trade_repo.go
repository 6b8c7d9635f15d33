package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fxdesk/swapbook-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// tradeRepository implements domain.TradeRepository
type tradeRepository struct {
	db *DB
}

// NewTradeRepository creates a new trade repository
func NewTradeRepository(db *DB) domain.TradeRepository {
	return &tradeRepository{db: db}
}

// Save persists one trade version row. Versions are append-only: every call
// inserts a new row, it never updates a previous version's content.
func (r *tradeRepository) Save(ctx context.Context, trade *domain.Trade) error {
	query := `
		INSERT INTO trades (id, trade_id, version, trade_date, start_date, maturity_date, active,
			book_id, counterparty_id, status_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		trade.ID,
		trade.TradeID,
		trade.Version,
		trade.TradeDate,
		trade.StartDate,
		trade.MaturityDate,
		trade.Active,
		trade.Book.ID,
		trade.Counterparty.ID,
		trade.Status.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade version: %w", err)
	}

	return nil
}

// FindActiveByTradeID retrieves the active version for a trade identifier,
// legs and cashflows included. Returns (nil, nil) if no active version exists.
func (r *tradeRepository) FindActiveByTradeID(ctx context.Context, tradeID int64) (*domain.Trade, error) {
	query := `
		SELECT t.id, t.trade_id, t.version, t.trade_date, t.start_date, t.maturity_date, t.active,
			b.id, b.name, c.id, c.name, s.id, s.name
		FROM trades t
		JOIN books b ON b.id = t.book_id
		JOIN counterparties c ON c.id = t.counterparty_id
		JOIN trade_statuses s ON s.id = t.status_id
		WHERE t.trade_id = $1 AND t.active = TRUE
	`

	var trade domain.Trade
	var book domain.Book
	var counterparty domain.Counterparty
	var status domain.TradeStatus

	err := r.db.QueryRowContext(ctx, query, tradeID).Scan(
		&trade.ID,
		&trade.TradeID,
		&trade.Version,
		&trade.TradeDate,
		&trade.StartDate,
		&trade.MaturityDate,
		&trade.Active,
		&book.ID,
		&book.Name,
		&counterparty.ID,
		&counterparty.Name,
		&status.ID,
		&status.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active trade: %w", err)
	}

	trade.Book = &book
	trade.Counterparty = &counterparty
	trade.Status = &status

	legs, err := r.loadLegs(ctx, trade.ID)
	if err != nil {
		return nil, err
	}
	trade.Legs = legs

	return &trade, nil
}

// Deactivate flips one version to inactive. The WHERE clause only matches the
// row while it is still active, which is the optimistic check: a concurrent
// amendment that already retired this version leaves zero rows to update.
func (r *tradeRepository) Deactivate(ctx context.Context, tradeID int64, version int) error {
	query := `UPDATE trades SET active = FALSE WHERE trade_id = $1 AND version = $2 AND active = TRUE`

	result, err := r.db.ExecContext(ctx, query, tradeID, version)
	if err != nil {
		return fmt.Errorf("failed to deactivate trade version: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.VersionConflictError{TradeID: tradeID, Version: version}
	}

	return nil
}

// loadLegs loads the legs of one trade version, cashflows included
func (r *tradeRepository) loadLegs(ctx context.Context, tradeVersionID uuid.UUID) ([]domain.TradeLeg, error) {
	query := `
		SELECT id, trade_version_id, notional, rate, schedule_code
		FROM trade_legs
		WHERE trade_version_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, tradeVersionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trade legs: %w", err)
	}
	defer rows.Close()

	legs := make([]domain.TradeLeg, 0)
	for rows.Next() {
		var leg domain.TradeLeg
		var notionalStr, rateStr string

		if err := rows.Scan(&leg.ID, &leg.TradeID, &notionalStr, &rateStr, &leg.ScheduleCode); err != nil {
			return nil, fmt.Errorf("failed to scan trade leg: %w", err)
		}

		notional, err := decimal.NewFromString(notionalStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse leg notional: %w", err)
		}
		leg.Notional = notional

		rate, err := decimal.NewFromString(rateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse leg rate: %w", err)
		}
		leg.Rate = rate

		legs = append(legs, leg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trade legs: %w", err)
	}

	for i := range legs {
		cashflows, err := r.loadCashflows(ctx, legs[i].ID)
		if err != nil {
			return nil, err
		}
		legs[i].Cashflows = cashflows
	}

	return legs, nil
}

// loadCashflows loads the cashflows of one leg, ordered by payment date
func (r *tradeRepository) loadCashflows(ctx context.Context, legID uuid.UUID) ([]domain.Cashflow, error) {
	query := `
		SELECT id, leg_id, payment_date, period_start, period_end, amount
		FROM cashflows
		WHERE leg_id = $1
		ORDER BY payment_date
	`

	rows, err := r.db.QueryContext(ctx, query, legID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cashflows: %w", err)
	}
	defer rows.Close()

	cashflows := make([]domain.Cashflow, 0)
	for rows.Next() {
		var cf domain.Cashflow
		var amountStr string

		if err := rows.Scan(&cf.ID, &cf.LegID, &cf.PaymentDate, &cf.PeriodStart, &cf.PeriodEnd, &amountStr); err != nil {
			return nil, fmt.Errorf("failed to scan cashflow: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cashflow amount: %w", err)
		}
		cf.Amount = amount

		cashflows = append(cashflows, cf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cashflows: %w", err)
	}

	return cashflows, nil
}
