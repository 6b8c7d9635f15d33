package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fxdesk/swapbook-backend/internal/domain"
)

// The reference lookup repositories implement the resolver's contract:
// (nil, nil) when no record matches, so a missing name is the resolver's
// call to make, not a storage error.

// bookRepository implements domain.BookRepository
type bookRepository struct {
	db *DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *DB) domain.BookRepository {
	return &bookRepository{db: db}
}

// FindByName retrieves a book by its name
func (r *bookRepository) FindByName(ctx context.Context, name string) (*domain.Book, error) {
	query := `SELECT id, name FROM books WHERE name = $1`

	var book domain.Book
	err := r.db.QueryRowContext(ctx, query, name).Scan(&book.ID, &book.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find book by name: %w", err)
	}

	return &book, nil
}

// counterpartyRepository implements domain.CounterpartyRepository
type counterpartyRepository struct {
	db *DB
}

// NewCounterpartyRepository creates a new counterparty repository
func NewCounterpartyRepository(db *DB) domain.CounterpartyRepository {
	return &counterpartyRepository{db: db}
}

// FindByName retrieves a counterparty by its name
func (r *counterpartyRepository) FindByName(ctx context.Context, name string) (*domain.Counterparty, error) {
	query := `SELECT id, name FROM counterparties WHERE name = $1`

	var counterparty domain.Counterparty
	err := r.db.QueryRowContext(ctx, query, name).Scan(&counterparty.ID, &counterparty.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find counterparty by name: %w", err)
	}

	return &counterparty, nil
}

// tradeStatusRepository implements domain.TradeStatusRepository
type tradeStatusRepository struct {
	db *DB
}

// NewTradeStatusRepository creates a new trade status repository
func NewTradeStatusRepository(db *DB) domain.TradeStatusRepository {
	return &tradeStatusRepository{db: db}
}

// FindByName retrieves a trade status by its name
func (r *tradeStatusRepository) FindByName(ctx context.Context, name string) (*domain.TradeStatus, error) {
	query := `SELECT id, name FROM trade_statuses WHERE name = $1`

	var status domain.TradeStatus
	err := r.db.QueryRowContext(ctx, query, name).Scan(&status.ID, &status.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find trade status by name: %w", err)
	}

	return &status, nil
}

// Create creates a new trade status
func (r *tradeStatusRepository) Create(ctx context.Context, status *domain.TradeStatus) error {
	query := `INSERT INTO trade_statuses (id, name) VALUES ($1, $2)`

	_, err := r.db.ExecContext(ctx, query, status.ID, status.Name)
	if err != nil {
		return fmt.Errorf("failed to create trade status: %w", err)
	}

	return nil
}

// scheduleRepository implements domain.ScheduleRepository
type scheduleRepository struct {
	db *DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *DB) domain.ScheduleRepository {
	return &scheduleRepository{db: db}
}

// FindByCode retrieves a schedule by its code
func (r *scheduleRepository) FindByCode(ctx context.Context, code string) (*domain.Schedule, error) {
	query := `SELECT id, code, period_months FROM schedules WHERE code = $1`

	var schedule domain.Schedule
	err := r.db.QueryRowContext(ctx, query, code).Scan(&schedule.ID, &schedule.Code, &schedule.PeriodMonths)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find schedule by code: %w", err)
	}

	return &schedule, nil
}

// Create creates a new schedule
func (r *scheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	query := `INSERT INTO schedules (id, code, period_months) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, schedule.ID, schedule.Code, schedule.PeriodMonths)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	return nil
}
