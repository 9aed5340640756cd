package response_models

type TripPlanResponse struct {
	ID                 string             `json:"id"`
	Status             string             `json:"status"`
	OriginCity         string             `json:"origin_city"`
	OriginCountry      string             `json:"origin_country"`
	DestinationCity    string             `json:"destination_city"`
	DestinationCountry string             `json:"destination_country"`
	DepartureDate      string             `json:"departure_date"`
	ReturnDate         string             `json:"return_date"`
	DurationDays       int                `json:"duration_days"`
	Itinerary          *ItineraryDocument `json:"itinerary,omitempty"`
}

type GenerationAttemptResponse struct {
	ID           string `json:"id"`
	Strategy     string `json:"strategy"`
	AttemptIndex int    `json:"attempt_index"`
	ModelID      string `json:"model_id"`
	Status       string `json:"status"`
	WasRepaired  bool   `json:"was_repaired"`
	DurationMs   int64  `json:"duration_ms"`
	TotalTokens  int    `json:"total_tokens"`
	ErrorMessage string `json:"error_message,omitempty"`
	ParseError   string `json:"parse_error,omitempty"`
	CreatedAt    string `json:"created_at"`
}
