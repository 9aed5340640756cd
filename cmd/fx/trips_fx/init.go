package trips_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"itinera/internal/api/controllers"
	"itinera/internal/repositories"
	"itinera/internal/services"
)

var Module = fx.Provide(
	ProvideTripPlanRepository,
	ProvideAttemptRepository,
	ProvideTripService,
	ProvideTripController)

func ProvideTripPlanRepository(db *gorm.DB) repositories.TripPlanRepository {
	return repositories.NewTripPlanRepository(db)
}

func ProvideAttemptRepository(db *gorm.DB) repositories.AttemptRepository {
	return repositories.NewAttemptRepository(db)
}

func ProvideTripService(
	tripRepo repositories.TripPlanRepository,
	attemptRepo repositories.AttemptRepository,
	generator services.GenerationServiceInterface,
) services.TripServiceInterface {
	return services.NewTripService(tripRepo, attemptRepo, generator)
}

func ProvideTripController(
	tripService services.TripServiceInterface,
) *controllers.TripController {
	return controllers.NewTripController(tripService)
}
