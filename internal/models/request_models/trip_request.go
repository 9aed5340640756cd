package request_models

import (
	"time"

	"itinera/pkg/utils"
)

// TripPreferences carries the traveler-facing knobs that bias generation.
type TripPreferences struct {
	Purpose             string   `json:"purpose"`
	AccommodationTypes  []string `json:"accommodation_types"`
	Interests           []string `json:"interests"`
	Pace                string   `json:"pace"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	MustVisit           string   `json:"must_visit,omitempty"`
	SpecialRequirements string   `json:"special_requirements,omitempty"`
}

// TripSpecification is the validated, immutable input that seeds itinerary
// generation. Dates are RFC3339; duration is always derived, never supplied.
type TripSpecification struct {
	OriginCountry      string          `json:"origin_country" binding:"required"`
	OriginCity         string          `json:"origin_city" binding:"required"`
	DestinationCountry string          `json:"destination_country" binding:"required"`
	DestinationCity    string          `json:"destination_city" binding:"required"`
	DepartureDate      time.Time       `json:"departure_date" binding:"required"`
	ReturnDate         time.Time       `json:"return_date" binding:"required"`
	Adults             int             `json:"adults"`
	Children           int             `json:"children"`
	Infants            int             `json:"infants"`
	BudgetCurrency     string          `json:"budget_currency" binding:"required"`
	BudgetMin          float64         `json:"budget_min"`
	BudgetMax          float64         `json:"budget_max"`
	Preferences        TripPreferences `json:"preferences"`
}

// DurationDays is ceil(return - departure) in days.
func (s *TripSpecification) DurationDays() int {
	return utils.TripDurationDays(s.DepartureDate, s.ReturnDate)
}

func (s *TripSpecification) TotalTravelers() int {
	return s.Adults + s.Children + s.Infants
}

// Validate enforces the specification invariants before any generation work.
func (s *TripSpecification) Validate() error {
	if !s.ReturnDate.After(s.DepartureDate) {
		return utils.ErrInvalidDateRange
	}
	if s.Adults < 1 || s.Children < 0 || s.Infants < 0 {
		return utils.ErrInvalidTravelers
	}
	if s.BudgetMax <= s.BudgetMin || s.BudgetMin < 0 {
		return utils.ErrInvalidBudget
	}
	return nil
}
