package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fxdesk/swapbook-backend/internal/domain"
	"github.com/fxdesk/swapbook-backend/internal/usecase/trade"
)

const dateLayout = "2006-01-02"

// TradeBooker is the slice of the trade service the handlers depend on
type TradeBooker interface {
	CreateTrade(ctx context.Context, input trade.BookingInput) (*domain.Trade, error)
	AmendTrade(ctx context.Context, tradeID int64, input trade.BookingInput) (*domain.Trade, error)
	GetTradeByID(ctx context.Context, tradeID int64) (*domain.Trade, error)
}

// TradeHandlers contains the HTTP handlers for the trade booking API
type TradeHandlers struct {
	service TradeBooker
	log     zerolog.Logger
}

// NewTradeHandlers creates a new trade handlers instance
func NewTradeHandlers(service TradeBooker, log zerolog.Logger) *TradeHandlers {
	return &TradeHandlers{
		service: service,
		log:     log.With().Str("handler", "trades").Logger(),
	}
}

// tradeLegRequest carries one proposed leg; decimals travel as strings
type tradeLegRequest struct {
	Notional                  string `json:"notional"`
	Rate                      string `json:"rate"`
	CalculationPeriodSchedule string `json:"calculation_period_schedule"`
}

// tradeRequest is the booking/amendment payload
type tradeRequest struct {
	TradeID          int64             `json:"trade_id"`
	TradeDate        string            `json:"trade_date"`
	StartDate        string            `json:"start_date"`
	MaturityDate     string            `json:"maturity_date"`
	BookName         string            `json:"book_name"`
	CounterpartyName string            `json:"counterparty_name"`
	TradeStatus      string            `json:"trade_status,omitempty"`
	Legs             []tradeLegRequest `json:"legs"`
}

type cashflowResponse struct {
	ID          string `json:"id"`
	PaymentDate string `json:"payment_date"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Amount      string `json:"amount"`
}

type tradeLegResponse struct {
	ID                        string             `json:"id"`
	Notional                  string             `json:"notional"`
	Rate                      string             `json:"rate"`
	CalculationPeriodSchedule string             `json:"calculation_period_schedule"`
	Cashflows                 []cashflowResponse `json:"cashflows"`
}

type tradeResponse struct {
	ID               string             `json:"id"`
	TradeID          int64              `json:"trade_id"`
	Version          int                `json:"version"`
	TradeDate        string             `json:"trade_date"`
	StartDate        string             `json:"start_date"`
	MaturityDate     string             `json:"maturity_date"`
	Active           bool               `json:"active"`
	BookName         string             `json:"book_name"`
	CounterpartyName string             `json:"counterparty_name"`
	TradeStatus      string             `json:"trade_status"`
	Legs             []tradeLegResponse `json:"legs"`
}

// HandleCreateTrade books a new trade
// POST /api/trades
func (h *TradeHandlers) HandleCreateTrade(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeBooking(w, r)
	if !ok {
		return
	}

	booked, err := h.service.CreateTrade(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, tradeToResponse(booked))
}

// HandleAmendTrade books a new version of an existing trade
// PUT /api/trades/{tradeId}
func (h *TradeHandlers) HandleAmendTrade(w http.ResponseWriter, r *http.Request) {
	tradeID, err := strconv.ParseInt(chi.URLParam(r, "tradeId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid trade id", http.StatusBadRequest)
		return
	}

	input, ok := h.decodeBooking(w, r)
	if !ok {
		return
	}

	amended, err := h.service.AmendTrade(r.Context(), tradeID, input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, tradeToResponse(amended))
}

// HandleGetTrade returns the current active version of a trade
// GET /api/trades/{tradeId}
func (h *TradeHandlers) HandleGetTrade(w http.ResponseWriter, r *http.Request) {
	tradeID, err := strconv.ParseInt(chi.URLParam(r, "tradeId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid trade id", http.StatusBadRequest)
		return
	}

	found, err := h.service.GetTradeByID(r.Context(), tradeID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if found == nil {
		h.writeError(w, &domain.TradeNotFoundError{TradeID: tradeID})
		return
	}

	h.writeJSON(w, http.StatusOK, tradeToResponse(found))
}

// decodeBooking parses and converts the request payload. On failure it has
// already written a 400 response and returns ok=false.
func (h *TradeHandlers) decodeBooking(w http.ResponseWriter, r *http.Request) (trade.BookingInput, bool) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return trade.BookingInput{}, false
	}

	tradeDate, err := time.Parse(dateLayout, req.TradeDate)
	if err != nil {
		http.Error(w, "invalid trade_date format: "+err.Error(), http.StatusBadRequest)
		return trade.BookingInput{}, false
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		http.Error(w, "invalid start_date format: "+err.Error(), http.StatusBadRequest)
		return trade.BookingInput{}, false
	}
	maturityDate, err := time.Parse(dateLayout, req.MaturityDate)
	if err != nil {
		http.Error(w, "invalid maturity_date format: "+err.Error(), http.StatusBadRequest)
		return trade.BookingInput{}, false
	}

	legs := make([]trade.LegInput, 0, len(req.Legs))
	for _, leg := range req.Legs {
		notional, err := decimal.NewFromString(leg.Notional)
		if err != nil {
			http.Error(w, "invalid leg notional: "+err.Error(), http.StatusBadRequest)
			return trade.BookingInput{}, false
		}
		rate, err := decimal.NewFromString(leg.Rate)
		if err != nil {
			http.Error(w, "invalid leg rate: "+err.Error(), http.StatusBadRequest)
			return trade.BookingInput{}, false
		}
		legs = append(legs, trade.LegInput{
			Notional:     notional,
			Rate:         rate,
			ScheduleCode: leg.CalculationPeriodSchedule,
		})
	}

	return trade.BookingInput{
		TradeID:          req.TradeID,
		TradeDate:        tradeDate,
		StartDate:        startDate,
		MaturityDate:     maturityDate,
		BookName:         req.BookName,
		CounterpartyName: req.CounterpartyName,
		StatusName:       req.TradeStatus,
		Legs:             legs,
	}, true
}

// writeError maps domain errors to HTTP status codes
func (h *TradeHandlers) writeError(w http.ResponseWriter, err error) {
	var (
		notFound *domain.TradeNotFoundError
		refError *domain.ReferenceNotFoundError
		conflict *domain.VersionConflictError
	)

	switch {
	case errors.Is(err, domain.ErrInvalidLegCount),
		errors.Is(err, domain.ErrInvalidDateOrder),
		errors.Is(err, domain.ErrInvalidNotional),
		errors.As(err, &refError):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &notFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &conflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.log.Error().Err(err).Msg("trade operation failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *TradeHandlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) // response already committed
}

// tradeToResponse converts a domain trade to its API representation
func tradeToResponse(t *domain.Trade) tradeResponse {
	legs := make([]tradeLegResponse, 0, len(t.Legs))
	for _, leg := range t.Legs {
		cashflows := make([]cashflowResponse, 0, len(leg.Cashflows))
		for _, cf := range leg.Cashflows {
			cashflows = append(cashflows, cashflowResponse{
				ID:          cf.ID.String(),
				PaymentDate: cf.PaymentDate.Format(dateLayout),
				PeriodStart: cf.PeriodStart.Format(dateLayout),
				PeriodEnd:   cf.PeriodEnd.Format(dateLayout),
				Amount:      cf.Amount.String(),
			})
		}
		legs = append(legs, tradeLegResponse{
			ID:                        leg.ID.String(),
			Notional:                  leg.Notional.String(),
			Rate:                      leg.Rate.String(),
			CalculationPeriodSchedule: leg.ScheduleCode,
			Cashflows:                 cashflows,
		})
	}

	return tradeResponse{
		ID:               t.ID.String(),
		TradeID:          t.TradeID,
		Version:          t.Version,
		TradeDate:        t.TradeDate.Format(dateLayout),
		StartDate:        t.StartDate.Format(dateLayout),
		MaturityDate:     t.MaturityDate.Format(dateLayout),
		Active:           t.Active,
		BookName:         t.Book.Name,
		CounterpartyName: t.Counterparty.Name,
		TradeStatus:      t.Status.Name,
		Legs:             legs,
	}
}
