package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "itinera/internal/models/db_models"
)

// AttemptRepository is the append-only generation audit trail. Rows are
// independent inserts; the core never reads them back on the hot path.
type AttemptRepository interface {
	Append(ctx context.Context, attempt *dbm.GenerationAttempt) (uuid.UUID, error)
	ListByTripPlan(ctx context.Context, tripPlanID uuid.UUID) ([]dbm.GenerationAttempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Append(ctx context.Context, attempt *dbm.GenerationAttempt) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return uuid.Nil, err
	}
	return attempt.ID, nil
}

func (r *attemptRepository) ListByTripPlan(ctx context.Context, tripPlanID uuid.UUID) ([]dbm.GenerationAttempt, error) {
	var attempts []dbm.GenerationAttempt
	err := r.db.WithContext(ctx).
		Where("trip_plan_id = ?", tripPlanID).
		Order("created_at ASC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
