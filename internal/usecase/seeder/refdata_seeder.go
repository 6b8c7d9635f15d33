package seeder

import (
	"context"

	"github.com/fxdesk/swapbook-backend/internal/domain"
	"github.com/google/uuid"
)

// Fixed UUIDs for seeded reference data so repeated startups are idempotent
// across environments
var (
	SCHEDULE_1M = uuid.MustParse("00000000-0000-0000-0001-000000000001")
	SCHEDULE_3M = uuid.MustParse("00000000-0000-0000-0001-000000000002")
	SCHEDULE_6M = uuid.MustParse("00000000-0000-0000-0001-000000000003")
	SCHEDULE_1Y = uuid.MustParse("00000000-0000-0000-0001-000000000004")

	STATUS_NEW        = uuid.MustParse("00000000-0000-0000-0002-000000000001")
	STATUS_AMENDED    = uuid.MustParse("00000000-0000-0000-0002-000000000002")
	STATUS_TERMINATED = uuid.MustParse("00000000-0000-0000-0002-000000000003")
	STATUS_CANCELLED  = uuid.MustParse("00000000-0000-0000-0002-000000000004")
)

// RefDataSeeder seeds the closed reference vocabularies the booking core
// depends on: calculation-period schedules and trade statuses. Books and
// counterparties are managed externally and never seeded here.
type RefDataSeeder struct {
	scheduleRepo domain.ScheduleRepository
	statusRepo   domain.TradeStatusRepository
}

// NewRefDataSeeder creates a new RefDataSeeder instance
func NewRefDataSeeder(scheduleRepo domain.ScheduleRepository, statusRepo domain.TradeStatusRepository) *RefDataSeeder {
	return &RefDataSeeder{
		scheduleRepo: scheduleRepo,
		statusRepo:   statusRepo,
	}
}

// Seed ensures all required schedules and statuses exist.
// Existing records are left untouched, so repeated runs are no-ops.
func (s *RefDataSeeder) Seed(ctx context.Context) error {
	schedules := []domain.Schedule{
		{ID: SCHEDULE_1M, Code: "1M", PeriodMonths: 1},
		{ID: SCHEDULE_3M, Code: "3M", PeriodMonths: 3},
		{ID: SCHEDULE_6M, Code: "6M", PeriodMonths: 6},
		{ID: SCHEDULE_1Y, Code: "1Y", PeriodMonths: 12},
	}

	for _, schedule := range schedules {
		existing, err := s.scheduleRepo.FindByCode(ctx, schedule.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		sch := schedule
		if err := s.scheduleRepo.Create(ctx, &sch); err != nil {
			return err
		}
	}

	statuses := []domain.TradeStatus{
		{ID: STATUS_NEW, Name: domain.StatusNew},
		{ID: STATUS_AMENDED, Name: domain.StatusAmended},
		{ID: STATUS_TERMINATED, Name: domain.StatusTerminated},
		{ID: STATUS_CANCELLED, Name: domain.StatusCancelled},
	}

	for _, status := range statuses {
		existing, err := s.statusRepo.FindByName(ctx, status.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		st := status
		if err := s.statusRepo.Create(ctx, &st); err != nil {
			return err
		}
	}

	return nil
}
