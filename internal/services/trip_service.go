package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	dbm "itinera/internal/models/db_models"
	"itinera/internal/models/request_models"
	"itinera/internal/models/response_models"
	"itinera/internal/repositories"
	"itinera/pkg/utils"
)

type TripServiceInterface interface {
	CreateTripPlan(ctx context.Context, spec *request_models.TripSpecification) (*response_models.TripPlanResponse, error)
	GetTripPlanById(ctx context.Context, id string) (*response_models.TripPlanResponse, error)
	GenerateItineraryForTripPlan(ctx context.Context, id string) (*response_models.TripPlanResponse, error)
	ListAttemptsForTripPlan(ctx context.Context, id string) ([]response_models.GenerationAttemptResponse, error)
}

type TripService struct {
	tripRepo    repositories.TripPlanRepository
	attemptRepo repositories.AttemptRepository
	generator   GenerationServiceInterface
}

func NewTripService(
	tripRepo repositories.TripPlanRepository,
	attemptRepo repositories.AttemptRepository,
	generator GenerationServiceInterface,
) TripServiceInterface {
	return &TripService{
		tripRepo:    tripRepo,
		attemptRepo: attemptRepo,
		generator:   generator,
	}
}

func (t *TripService) CreateTripPlan(ctx context.Context, spec *request_models.TripSpecification) (*response_models.TripPlanResponse, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	prefs, err := json.Marshal(spec.Preferences)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}

	plan := &dbm.TripPlan{
		OriginCountry:      spec.OriginCountry,
		OriginCity:         spec.OriginCity,
		DestinationCountry: spec.DestinationCountry,
		DestinationCity:    spec.DestinationCity,
		DepartureDate:      spec.DepartureDate,
		ReturnDate:         spec.ReturnDate,
		DurationDays:       spec.DurationDays(),
		Adults:             spec.Adults,
		Children:           spec.Children,
		Infants:            spec.Infants,
		BudgetCurrency:     spec.BudgetCurrency,
		BudgetMin:          spec.BudgetMin,
		BudgetMax:          spec.BudgetMax,
		Preferences:        datatypes.JSON(prefs),
		Status:             dbm.TripPlanDraft,
	}

	if _, err := t.tripRepo.Create(ctx, plan); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return buildTripPlanResponse(plan), nil
}

func (t *TripService) GetTripPlanById(ctx context.Context, id string) (*response_models.TripPlanResponse, error) {
	plan, err := t.tripRepo.GetById(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil {
		return nil, utils.ErrTripPlanNotFound
	}
	return buildTripPlanResponse(plan), nil
}

func (t *TripService) GenerateItineraryForTripPlan(ctx context.Context, id string) (*response_models.TripPlanResponse, error) {
	plan, err := t.tripRepo.GetById(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil {
		return nil, utils.ErrTripPlanNotFound
	}

	if err := t.tripRepo.UpdateStatus(ctx, plan.ID, dbm.TripPlanGenerating); err != nil {
		return nil, utils.ErrDatabaseError
	}

	spec := specFromPlan(plan)
	doc, genErr := t.generator.GenerateItinerary(ctx, &plan.ID, spec)
	if genErr != nil {
		// best effort; the terminal attempt row already records the cause
		_ = t.tripRepo.UpdateStatus(ctx, plan.ID, dbm.TripPlanFailed)
		return nil, genErr
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if err := t.tripRepo.SaveItinerary(ctx, plan.ID, datatypes.JSON(raw)); err != nil {
		return nil, utils.ErrDatabaseError
	}

	plan.Itinerary = datatypes.JSON(raw)
	plan.Status = dbm.TripPlanReady
	return buildTripPlanResponse(plan), nil
}

func (t *TripService) ListAttemptsForTripPlan(ctx context.Context, id string) ([]response_models.GenerationAttemptResponse, error) {
	planUUID, err := uuid.Parse(id)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}

	attempts, err := t.attemptRepo.ListByTripPlan(ctx, planUUID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.GenerationAttemptResponse, 0, len(attempts))
	for _, attempt := range attempts {
		out = append(out, response_models.GenerationAttemptResponse{
			ID:           attempt.ID.String(),
			Strategy:     attempt.Strategy,
			AttemptIndex: attempt.AttemptIndex,
			ModelID:      attempt.ModelID,
			Status:       string(attempt.Status),
			WasRepaired:  attempt.WasRepaired,
			DurationMs:   attempt.DurationMs,
			TotalTokens:  attempt.TotalTokens,
			ErrorMessage: attempt.ErrorMessage,
			ParseError:   attempt.ParseError,
			CreatedAt:    utils.FormatRFC3339(utils.FromUnixSeconds(attempt.CreatedAt)),
		})
	}
	return out, nil
}

func specFromPlan(plan *dbm.TripPlan) *request_models.TripSpecification {
	spec := &request_models.TripSpecification{
		OriginCountry:      plan.OriginCountry,
		OriginCity:         plan.OriginCity,
		DestinationCountry: plan.DestinationCountry,
		DestinationCity:    plan.DestinationCity,
		DepartureDate:      plan.DepartureDate,
		ReturnDate:         plan.ReturnDate,
		Adults:             plan.Adults,
		Children:           plan.Children,
		Infants:            plan.Infants,
		BudgetCurrency:     plan.BudgetCurrency,
		BudgetMin:          plan.BudgetMin,
		BudgetMax:          plan.BudgetMax,
	}
	_ = json.Unmarshal(plan.Preferences, &spec.Preferences)
	return spec
}

func buildTripPlanResponse(plan *dbm.TripPlan) *response_models.TripPlanResponse {
	out := &response_models.TripPlanResponse{
		ID:                 plan.ID.String(),
		Status:             string(plan.Status),
		OriginCity:         plan.OriginCity,
		OriginCountry:      plan.OriginCountry,
		DestinationCity:    plan.DestinationCity,
		DestinationCountry: plan.DestinationCountry,
		DepartureDate:      plan.DepartureDate.Format("2006-01-02"),
		ReturnDate:         plan.ReturnDate.Format("2006-01-02"),
		DurationDays:       plan.DurationDays,
	}
	if len(plan.Itinerary) > 0 {
		var doc response_models.ItineraryDocument
		if err := json.Unmarshal(plan.Itinerary, &doc); err == nil {
			out.Itinerary = &doc
		}
	}
	return out
}
