package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dbm "itinera/internal/models/db_models"
)

type TripPlanRepository interface {
	Create(ctx context.Context, plan *dbm.TripPlan) (uuid.UUID, error)
	GetById(ctx context.Context, id string) (*dbm.TripPlan, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status dbm.TripPlanStatus) error
	SaveItinerary(ctx context.Context, id uuid.UUID, doc datatypes.JSON) error
}

type tripPlanRepository struct {
	db *gorm.DB
}

func NewTripPlanRepository(db *gorm.DB) TripPlanRepository {
	return &tripPlanRepository{db: db}
}

func (r *tripPlanRepository) Create(ctx context.Context, plan *dbm.TripPlan) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return uuid.Nil, err
	}
	return plan.ID, nil
}

func (r *tripPlanRepository) GetById(ctx context.Context, id string) (*dbm.TripPlan, error) {
	planUUID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	var plan dbm.TripPlan
	err = r.db.WithContext(ctx).First(&plan, "id = ?", planUUID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *tripPlanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status dbm.TripPlanStatus) error {
	return r.db.WithContext(ctx).
		Model(&dbm.TripPlan{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *tripPlanRepository) SaveItinerary(ctx context.Context, id uuid.UUID, doc datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&dbm.TripPlan{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"itinerary": doc,
			"status":    dbm.TripPlanReady,
		}).Error
}
