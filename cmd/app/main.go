package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"itinera/cmd/fx/db_fx"
	"itinera/cmd/fx/generation_fx"
	"itinera/cmd/fx/trips_fx"
	"itinera/internal/api/controllers"
	"itinera/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	app := fx.New(
		fx.Provide(ProvideLogger),
		db_fx.Module,
		generation_fx.Module,
		trips_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func ProvideLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				logger.Info("Starting HTTP server", zap.String("port", port))
				if err := engine.Run(":" + port); err != nil {
					logger.Fatal("Failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			return logger.Sync()
		},
	})
}

func ProvideRouter(tripController *controllers.TripController) *gin.Engine {
	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, tripController)

	return r
}

func RegisterRoutes(r *gin.Engine, tripController *controllers.TripController) {
	trips := r.Group("/trips")
	trips.POST("", tripController.CreateTripPlanHandler)
	trips.GET("/:id", tripController.GetTripPlanHandler)
	trips.POST("/:id/generate", tripController.GenerateItineraryHandler)
	trips.GET("/:id/attempts", tripController.ListAttemptsHandler)
}
