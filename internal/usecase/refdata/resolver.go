package refdata

import (
	"context"
	"fmt"

	"github.com/fxdesk/swapbook-backend/internal/domain"
)

// References holds the resolved reference entities for one trade proposal
type References struct {
	Book         *domain.Book
	Counterparty *domain.Counterparty
	Status       *domain.TradeStatus
	Schedules    map[string]*domain.Schedule // keyed by schedule code
}

// Resolver resolves human-readable reference names to canonical reference
// entities. It has no side effects; a missing reference fails the whole
// resolution so that nothing partially built ever reaches persistence.
type Resolver struct {
	BookRepo         domain.BookRepository
	CounterpartyRepo domain.CounterpartyRepository
	StatusRepo       domain.TradeStatusRepository
	ScheduleRepo     domain.ScheduleRepository
}

// NewResolver creates a new Resolver instance
func NewResolver(
	bookRepo domain.BookRepository,
	counterpartyRepo domain.CounterpartyRepository,
	statusRepo domain.TradeStatusRepository,
	scheduleRepo domain.ScheduleRepository,
) *Resolver {
	return &Resolver{
		BookRepo:         bookRepo,
		CounterpartyRepo: counterpartyRepo,
		StatusRepo:       statusRepo,
		ScheduleRepo:     scheduleRepo,
	}
}

// Resolve looks up the book, counterparty and status by name plus every leg
// schedule code. Fails with a ReferenceNotFoundError on the first unknown name.
func (r *Resolver) Resolve(
	ctx context.Context,
	bookName, counterpartyName, statusName string,
	scheduleCodes []string,
) (*References, error) {
	book, err := r.BookRepo.FindByName(ctx, bookName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up book: %w", err)
	}
	if book == nil {
		return nil, &domain.ReferenceNotFoundError{Kind: "book", Name: bookName}
	}

	counterparty, err := r.CounterpartyRepo.FindByName(ctx, counterpartyName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up counterparty: %w", err)
	}
	if counterparty == nil {
		return nil, &domain.ReferenceNotFoundError{Kind: "counterparty", Name: counterpartyName}
	}

	status, err := r.StatusRepo.FindByName(ctx, statusName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up trade status: %w", err)
	}
	if status == nil {
		return nil, &domain.ReferenceNotFoundError{Kind: "trade status", Name: statusName}
	}

	schedules := make(map[string]*domain.Schedule, len(scheduleCodes))
	for _, code := range scheduleCodes {
		if _, ok := schedules[code]; ok {
			continue
		}
		schedule, err := r.ScheduleRepo.FindByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to look up schedule: %w", err)
		}
		if schedule == nil {
			return nil, &domain.ReferenceNotFoundError{Kind: "schedule", Name: code}
		}
		schedules[code] = schedule
	}

	return &References{
		Book:         book,
		Counterparty: counterparty,
		Status:       status,
		Schedules:    schedules,
	}, nil
}
