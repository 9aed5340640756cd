package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"itinera/internal/models/request_models"
	"itinera/internal/models/response_models"
	"itinera/pkg/llm"
)

// fakeModelClient returns scripted responses, selected per call or by a
// prompt-matching routing function. Safe for concurrent chunk calls.
type fakeModelClient struct {
	mu        sync.Mutex
	responses []fakeResponse
	calls     int
	prompts   []string
	route     func(req llm.Request) fakeResponse
}

type fakeResponse struct {
	content string
	err     error
}

func (f *fakeModelClient) ModelID() string { return "fake-model" }

func (f *fakeModelClient) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, req.Prompt)

	var resp fakeResponse
	if f.route != nil {
		resp = f.route(req)
	} else {
		idx := f.calls - 1
		if idx >= len(f.responses) {
			idx = len(f.responses) - 1
		}
		resp = f.responses[idx]
	}

	if resp.err != nil {
		return nil, resp.err
	}
	return &llm.Response{
		Content: resp.content,
		Usage:   llm.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
	}, nil
}

func (f *fakeModelClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testConfig() GenerationConfig {
	cfg := DefaultGenerationConfig()
	cfg.BackoffBase = time.Millisecond
	return cfg
}

func testCaller(t *testing.T, client llm.ClientInterface, cfg GenerationConfig) ModelCallerInterface {
	t.Helper()
	return NewModelCaller(client, NewResponseValidator(), cfg, zap.NewNop())
}

func testSpec(days int) *request_models.TripSpecification {
	departure := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return &request_models.TripSpecification{
		OriginCountry:      "Germany",
		OriginCity:         "Berlin",
		DestinationCountry: "Japan",
		DestinationCity:    "Tokyo",
		DepartureDate:      departure,
		ReturnDate:         departure.AddDate(0, 0, days),
		Adults:             2,
		Children:           1,
		BudgetCurrency:     "EUR",
		BudgetMin:          2000,
		BudgetMax:          6000,
		Preferences: request_models.TripPreferences{
			Purpose:   "vacation",
			Interests: []string{"food", "museums"},
			Pace:      "relaxed",
		},
	}
}

// testDocument builds a document with the requested day count and enough
// content to clear the validator's length gate when marshaled.
func testDocument(days int) *response_models.ItineraryDocument {
	doc := &response_models.ItineraryDocument{
		Flights: response_models.FlightsSection{
			Outbound: response_models.FlightLeg{
				Airline: "LH", DepartureAirport: "BER", ArrivalAirport: "HND",
				DepartureTime: "09:00", ArrivalTime: "06:30", Duration: "13h30m",
				EstimatedCost: 780,
			},
			Return: response_models.FlightLeg{
				Airline: "LH", DepartureAirport: "HND", ArrivalAirport: "BER",
				DepartureTime: "11:00", ArrivalTime: "17:45", Duration: "14h45m",
				EstimatedCost: 810,
			},
		},
		Accommodation: response_models.AccommodationSection{
			Primary: response_models.AccommodationOption{
				Name: "Shinjuku Garden Hotel", Type: "hotel", Location: "Shinjuku",
				CheckIn: "2026-09-10", CheckOut: "2026-09-17",
				PricePerNight: 140, TotalCost: 980,
			},
			Alternatives: []response_models.AccommodationOption{
				{Name: "Asakusa Ryokan", Type: "ryokan", Location: "Asakusa", PricePerNight: 110, TotalCost: 770},
			},
		},
		BudgetBreakdown: response_models.BudgetBreakdown{
			Currency: "EUR", Flights: 1590, Accommodation: 980, Food: 700,
			Activities: 450, LocalTransport: 180, Miscellaneous: 100,
			Total: 4000, PerPerson: 1333.33, DailyAverage: 571.43,
		},
		TravelInfo: response_models.TravelInfo{
			Visa:           "Visa-free entry up to 90 days for Schengen passport holders.",
			Health:         "No mandatory vaccinations; travel insurance recommended.",
			Currency:       "Japanese Yen (JPY); cards widely accepted in cities.",
			Language:       "Japanese; English signage in major transit hubs.",
			Connectivity:   "eSIM or pocket wifi available at the airport.",
			Transportation: "Suica card covers metro and JR lines in the city.",
			Tipping:        "Tipping is not customary.",
			Weather:        "Mild September temperatures with occasional rain.",
			PackingList:    []string{"rain jacket", "comfortable shoes"},
			CulturalTips:   []string{"carry cash for small shops", "queue on the left"},
			EmergencyContacts: []response_models.EmergencyContact{
				{Name: "Police", Number: "110"},
			},
		},
	}
	for i := 1; i <= days; i++ {
		doc.DailyItinerary = append(doc.DailyItinerary, response_models.DayPlan{
			Day:  i,
			Date: time.Date(2026, 9, 9+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Activities: []response_models.Activity{
				{Time: "09:30", Type: "sightseeing", Title: "Morning walk",
					Description: "Explore the neighborhood", Location: "City center",
					Duration: "2h", Cost: 0},
				{Time: "12:30", Type: "meal", Title: "Lunch",
					Description: "Local izakaya", Location: "Near the hotel",
					Duration: "1h", Cost: 25},
			},
			DailyTotal: 25,
		})
	}
	return doc
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(raw)
}

// padJSON guarantees a payload clears the validator's 500-char length gate
// without introducing refusal vocabulary.
func padJSON(s string) string {
	if len(s) >= minItineraryResponseLength {
		return s
	}
	pad := `,"pad":"` + strings.Repeat("x", minItineraryResponseLength) + `"`
	return strings.TrimSuffix(s, "}") + pad + "}"
}
