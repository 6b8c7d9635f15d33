package domain

import (
	"errors"
	"fmt"
)

// Structural validation errors raised by Trade.Validate before any write occurs
var (
	ErrInvalidLegCount  = errors.New("invalid leg count")
	ErrInvalidDateOrder = errors.New("invalid date order")
	ErrInvalidNotional  = errors.New("invalid notional")
)

// ReferenceNotFoundError is returned when a book, counterparty, status or
// schedule name cannot be resolved to a reference entity.
type ReferenceNotFoundError struct {
	Kind string // "book", "counterparty", "trade status", "schedule"
	Name string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.Name)
}

// TradeNotFoundError is returned when no active version exists for a trade identifier
type TradeNotFoundError struct {
	TradeID int64
}

func (e *TradeNotFoundError) Error() string {
	return fmt.Sprintf("trade not found: %d", e.TradeID)
}

// VersionConflictError is returned when the version an amendment is trying to
// supersede is no longer the active one (a concurrent amendment won the race).
type VersionConflictError struct {
	TradeID int64
	Version int
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("trade %d version %d is no longer active", e.TradeID, e.Version)
}
