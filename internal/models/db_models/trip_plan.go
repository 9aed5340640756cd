package db_models

import (
	"time"

	"gorm.io/datatypes"
)

type TripPlanStatus string

const (
	TripPlanDraft      TripPlanStatus = "draft"
	TripPlanGenerating TripPlanStatus = "generating"
	TripPlanReady      TripPlanStatus = "ready"
	TripPlanFailed     TripPlanStatus = "failed"
)

// TripPlan stores one submitted trip specification and, once generation
// succeeds, the resulting itinerary document as jsonb.
type TripPlan struct {
	BaseModel
	OriginCountry      string
	OriginCity         string
	DestinationCountry string
	DestinationCity    string
	DepartureDate      time.Time
	ReturnDate         time.Time
	DurationDays       int
	Adults             int
	Children           int
	Infants            int
	BudgetCurrency     string `gorm:"size:3"`
	BudgetMin          float64
	BudgetMax          float64
	Preferences        datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Itinerary          datatypes.JSON `gorm:"type:jsonb"`
	Status             TripPlanStatus `gorm:"size:16;default:'draft'"`

	Attempts []GenerationAttempt `gorm:"foreignKey:TripPlanID"`
}
