package postgres

import (
	"context"
	"fmt"

	"github.com/fxdesk/swapbook-backend/internal/domain"
	"github.com/google/uuid"
)

// additionalInfoRepository implements domain.AdditionalInfoAttacher by writing
// side-metadata rows next to the booked entity. Callers treat Attach as fire
// and forget; errors are reported but must not undo the trade.
type additionalInfoRepository struct {
	db *DB
}

// NewAdditionalInfoRepository creates a new additional info repository
func NewAdditionalInfoRepository(db *DB) domain.AdditionalInfoAttacher {
	return &additionalInfoRepository{db: db}
}

// Attach stores one row per metadata field for the given entity
func (r *additionalInfoRepository) Attach(ctx context.Context, entityType string, entityID uuid.UUID, metadata map[string]string) error {
	query := `
		INSERT INTO additional_info (id, entity_type, entity_id, field_name, field_value)
		VALUES ($1, $2, $3, $4, $5)
	`

	for name, value := range metadata {
		_, err := r.db.ExecContext(ctx, query, uuid.New(), entityType, entityID, name, value)
		if err != nil {
			return fmt.Errorf("failed to attach additional info: %w", err)
		}
	}

	return nil
}
