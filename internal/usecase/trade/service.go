package trade

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fxdesk/swapbook-backend/internal/domain"
	"github.com/fxdesk/swapbook-backend/internal/usecase/cashflow"
	"github.com/fxdesk/swapbook-backend/internal/usecase/refdata"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LegInput represents one proposed trade leg
type LegInput struct {
	Notional     decimal.Decimal
	Rate         decimal.Decimal
	ScheduleCode string
}

// BookingInput represents a proposed trade, for both creation and amendment
type BookingInput struct {
	TradeID          int64
	TradeDate        time.Time
	StartDate        time.Time
	MaturityDate     time.Time
	BookName         string
	CounterpartyName string
	StatusName       string // defaults to NEW on create, AMENDED on amend
	Legs             []LegInput
}

// TradeService orchestrates the trade lifecycle: booking creates version 1,
// every amendment appends version N+1 and retires version N. Versions are
// append-only; nothing is ever physically deleted.
type TradeService struct {
	TradeRepo    domain.TradeRepository
	LegRepo      domain.TradeLegRepository
	CashflowRepo domain.CashflowRepository

	resolver       *refdata.Resolver
	generator      *cashflow.Generator
	additionalInfo domain.AdditionalInfoAttacher
	log            zerolog.Logger
}

// NewTradeService creates a new TradeService instance
func NewTradeService(
	tradeRepo domain.TradeRepository,
	legRepo domain.TradeLegRepository,
	cashflowRepo domain.CashflowRepository,
	resolver *refdata.Resolver,
	generator *cashflow.Generator,
	additionalInfo domain.AdditionalInfoAttacher,
	log zerolog.Logger,
) *TradeService {
	return &TradeService{
		TradeRepo:      tradeRepo,
		LegRepo:        legRepo,
		CashflowRepo:   cashflowRepo,
		resolver:       resolver,
		generator:      generator,
		additionalInfo: additionalInfo,
		log:            log.With().Str("service", "trade").Logger(),
	}
}

// CreateTrade books a new trade as version 1, active.
// Order of operations: validate -> resolve references -> generate cashflows ->
// persist legs, then cashflows, then the trade version. Validation and
// resolution failures surface before anything is written.
func (s *TradeService) CreateTrade(ctx context.Context, input BookingInput) (*domain.Trade, error) {
	trade, err := s.buildVersion(ctx, input, 1, domain.StatusNew)
	if err != nil {
		return nil, err
	}

	if err := s.persistVersion(ctx, trade); err != nil {
		return nil, err
	}

	s.log.Info().Int64("trade_id", trade.TradeID).Msg("trade booked")
	s.attachInfo(ctx, trade)

	return trade, nil
}

// AmendTrade books a new version of an existing trade from the amended
// proposal. Legs and cashflows are rebuilt from scratch, never diffed. The
// new version is persisted active first, then the superseded version is
// flipped inactive with an optimistic version check; a concurrent amendment
// that already retired that version surfaces as a VersionConflictError.
// Losing that race compensates by retiring the version persisted here, so
// exactly one version stays active no matter which amendment wins.
func (s *TradeService) AmendTrade(ctx context.Context, tradeID int64, input BookingInput) (*domain.Trade, error) {
	current, err := s.TradeRepo.FindActiveByTradeID(ctx, tradeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active trade: %w", err)
	}
	if current == nil {
		return nil, &domain.TradeNotFoundError{TradeID: tradeID}
	}

	input.TradeID = tradeID
	trade, err := s.buildVersion(ctx, input, current.Version+1, domain.StatusAmended)
	if err != nil {
		return nil, err
	}

	if err := s.persistVersion(ctx, trade); err != nil {
		return nil, err
	}

	if err := s.TradeRepo.Deactivate(ctx, tradeID, current.Version); err != nil {
		var conflict *domain.VersionConflictError
		if errors.As(err, &conflict) {
			// A concurrent amendment already retired current.Version, so its
			// successor is the active one. Retire the version persisted above
			// before surfacing the conflict; without this the trade would be
			// left with two active rows.
			if undoErr := s.TradeRepo.Deactivate(ctx, tradeID, trade.Version); undoErr != nil {
				s.log.Error().
					Err(undoErr).
					Int64("trade_id", tradeID).
					Int("version", trade.Version).
					Msg("failed to retire conflicting amendment")
			}
			return nil, conflict
		}
		return nil, fmt.Errorf("failed to retire version %d of trade %d: %w", current.Version, tradeID, err)
	}

	s.log.Info().
		Int64("trade_id", tradeID).
		Int("version", trade.Version).
		Msg("trade amended")
	s.attachInfo(ctx, trade)

	return trade, nil
}

// GetTradeByID returns the current active version for the trade identifier,
// or nil if no active version exists. Amendment history is not exposed here.
func (s *TradeService) GetTradeByID(ctx context.Context, tradeID int64) (*domain.Trade, error) {
	trade, err := s.TradeRepo.FindActiveByTradeID(ctx, tradeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active trade: %w", err)
	}
	return trade, nil
}

// buildVersion validates the proposal, resolves its references and assembles
// one fully generated trade version. Nothing is persisted here.
func (s *TradeService) buildVersion(ctx context.Context, input BookingInput, version int, defaultStatus string) (*domain.Trade, error) {
	trade := &domain.Trade{
		ID:           uuid.New(),
		TradeID:      input.TradeID,
		Version:      version,
		TradeDate:    input.TradeDate,
		StartDate:    input.StartDate,
		MaturityDate: input.MaturityDate,
		Active:       true,
		Legs:         make([]domain.TradeLeg, 0, len(input.Legs)),
	}

	for _, legInput := range input.Legs {
		trade.Legs = append(trade.Legs, domain.TradeLeg{
			ID:           uuid.New(),
			TradeID:      trade.ID,
			Notional:     legInput.Notional,
			Rate:         legInput.Rate,
			ScheduleCode: legInput.ScheduleCode,
		})
	}

	if err := trade.Validate(); err != nil {
		return nil, err
	}

	statusName := input.StatusName
	if statusName == "" {
		statusName = defaultStatus
	}

	scheduleCodes := make([]string, 0, len(trade.Legs))
	for _, leg := range trade.Legs {
		scheduleCodes = append(scheduleCodes, leg.ScheduleCode)
	}

	refs, err := s.resolver.Resolve(ctx, input.BookName, input.CounterpartyName, statusName, scheduleCodes)
	if err != nil {
		return nil, err
	}

	trade.Book = refs.Book
	trade.Counterparty = refs.Counterparty
	trade.Status = refs.Status

	for i := range trade.Legs {
		leg := &trade.Legs[i]
		flows, err := s.generator.Generate(leg.ID, cashflow.LegTerms{
			StartDate:    trade.StartDate,
			MaturityDate: trade.MaturityDate,
			Schedule:     refs.Schedules[leg.ScheduleCode],
			Notional:     leg.Notional,
			Rate:         leg.Rate,
		})
		if err != nil {
			return nil, err
		}
		leg.Cashflows = flows
	}

	return trade, nil
}

// persistVersion writes one assembled trade version in dependency order:
// legs first, then their cashflows, then the trade row itself. Storage errors
// propagate as-is; there is no retry at this layer.
func (s *TradeService) persistVersion(ctx context.Context, trade *domain.Trade) error {
	for i := range trade.Legs {
		leg := &trade.Legs[i]
		if err := s.LegRepo.Save(ctx, leg); err != nil {
			return fmt.Errorf("failed to persist trade leg: %w", err)
		}
		for j := range leg.Cashflows {
			if err := s.CashflowRepo.Save(ctx, &leg.Cashflows[j]); err != nil {
				return fmt.Errorf("failed to persist cashflow: %w", err)
			}
		}
	}

	if err := s.TradeRepo.Save(ctx, trade); err != nil {
		return fmt.Errorf("failed to persist trade: %w", err)
	}

	return nil
}

// attachInfo invokes the additional-info hook for a persisted trade version.
// Fire and forget: a failure is logged and never rolls back the trade.
func (s *TradeService) attachInfo(ctx context.Context, trade *domain.Trade) {
	if s.additionalInfo == nil {
		return
	}

	metadata := map[string]string{
		"tradeId": strconv.FormatInt(trade.TradeID, 10),
		"version": strconv.Itoa(trade.Version),
	}
	if err := s.additionalInfo.Attach(ctx, "trade", trade.ID, metadata); err != nil {
		s.log.Warn().
			Err(err).
			Int64("trade_id", trade.TradeID).
			Msg("failed to attach additional info")
	}
}
