package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"itinera/internal/models/request_models"
	"itinera/internal/services"
	"itinera/pkg/utils"
)

type TripController struct {
	tripService services.TripServiceInterface
}

func NewTripController(tripService services.TripServiceInterface) *TripController {
	return &TripController{
		tripService: tripService,
	}
}

func (t *TripController) CreateTripPlanHandler(c *gin.Context) {
	var spec request_models.TripSpecification
	if err := c.ShouldBindJSON(&spec); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	plan, err := t.tripService.CreateTripPlan(c.Request.Context(), &spec)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Trip plan created")
}

func (t *TripController) GetTripPlanHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		utils.RespondError(c, http.StatusBadRequest, "id is required")
		return
	}

	plan, err := t.tripService.GetTripPlanById(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "")
}

func (t *TripController) GenerateItineraryHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		utils.RespondError(c, http.StatusBadRequest, "id is required")
		return
	}

	plan, err := t.tripService.GenerateItineraryForTripPlan(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Itinerary generated")
}

func (t *TripController) ListAttemptsHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		utils.RespondError(c, http.StatusBadRequest, "id is required")
		return
	}

	attempts, err := t.tripService.ListAttemptsForTripPlan(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, attempts, "")
}
