package response_models

// ItineraryDocument is the five-section structured output of generation.
// JSON keys match what the model is asked to emit, so the same types serve
// as parse targets and as the API payload.
type ItineraryDocument struct {
	Flights         FlightsSection       `json:"flights"`
	Accommodation   AccommodationSection `json:"accommodation"`
	DailyItinerary  []DayPlan            `json:"dailyItinerary"`
	BudgetBreakdown BudgetBreakdown      `json:"budgetBreakdown"`
	TravelInfo      TravelInfo           `json:"travelInfo"`
}

type FlightsSection struct {
	Outbound FlightLeg `json:"outbound"`
	Return   FlightLeg `json:"return"`
}

type FlightLeg struct {
	Airline          string  `json:"airline"`
	FlightNumber     string  `json:"flightNumber,omitempty"`
	DepartureAirport string  `json:"departureAirport"`
	DepartureTime    string  `json:"departureTime"`
	ArrivalAirport   string  `json:"arrivalAirport"`
	ArrivalTime      string  `json:"arrivalTime"`
	Duration         string  `json:"duration"`
	EstimatedCost    float64 `json:"estimatedCost"`
	Notes            string  `json:"notes,omitempty"`
}

type AccommodationSection struct {
	Primary      AccommodationOption   `json:"primary"`
	Alternatives []AccommodationOption `json:"alternatives"`
}

type AccommodationOption struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Location      string   `json:"location"`
	CheckIn       string   `json:"checkIn"`
	CheckOut      string   `json:"checkOut"`
	PricePerNight float64  `json:"pricePerNight"`
	TotalCost     float64  `json:"totalCost"`
	Rating        float64  `json:"rating,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

type DayPlan struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Title      string     `json:"title,omitempty"`
	Activities []Activity `json:"activities"`
	DailyTotal float64    `json:"dailyTotal"`
}

type Activity struct {
	Time            string  `json:"time"`
	Type            string  `json:"type"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Location        string  `json:"location"`
	Duration        string  `json:"duration"`
	Cost            float64 `json:"cost"`
	BookingRequired bool    `json:"bookingRequired,omitempty"`
	Tips            string  `json:"tips,omitempty"`
}

type BudgetBreakdown struct {
	Currency       string  `json:"currency"`
	Flights        float64 `json:"flights"`
	Accommodation  float64 `json:"accommodation"`
	Food           float64 `json:"food"`
	Activities     float64 `json:"activities"`
	LocalTransport float64 `json:"localTransport"`
	Miscellaneous  float64 `json:"miscellaneous"`
	Total          float64 `json:"total"`
	PerPerson      float64 `json:"perPerson"`
	DailyAverage   float64 `json:"dailyAverage"`
}

// CategorySum adds up the individual categories; callers can compare it
// against Total when auditing model output.
func (b *BudgetBreakdown) CategorySum() float64 {
	return b.Flights + b.Accommodation + b.Food + b.Activities +
		b.LocalTransport + b.Miscellaneous
}

type TravelInfo struct {
	Visa              string             `json:"visa"`
	Health            string             `json:"health"`
	Currency          string             `json:"currency"`
	Language          string             `json:"language"`
	Connectivity      string             `json:"connectivity"`
	Transportation    string             `json:"transportation"`
	Tipping           string             `json:"tipping"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts"`
	Weather           string             `json:"weather"`
	PackingList       []string           `json:"packingList"`
	CulturalTips      []string           `json:"culturalTips"`
}

type EmergencyContact struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}
