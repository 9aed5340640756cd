package services

import (
	"fmt"
	"strings"

	"itinera/internal/models/request_models"
	"itinera/pkg/utils"
)

const plannerSystemInstruction = "You are a travel planning assistant. " +
	"Respond with a single JSON object that exactly matches the requested schema. " +
	"No markdown, no commentary, no text outside the JSON."

// writeTripContext renders the shared human-readable part of every prompt:
// route, dates, travelers, budget and preferences.
func writeTripContext(b *strings.Builder, spec *request_models.TripSpecification) {
	fmt.Fprintf(b, "Trip: %s, %s to %s, %s\n",
		spec.OriginCity, spec.OriginCountry,
		spec.DestinationCity, spec.DestinationCountry)
	fmt.Fprintf(b, "Departure: %s\n", utils.FormatTripDate(spec.DepartureDate))
	fmt.Fprintf(b, "Return: %s\n", utils.FormatTripDate(spec.ReturnDate))
	fmt.Fprintf(b, "Duration: %d day(s)\n", spec.DurationDays())
	fmt.Fprintf(b, "Travelers: %d adult(s), %d child(ren), %d infant(s)\n",
		spec.Adults, spec.Children, spec.Infants)
	fmt.Fprintf(b, "Budget: %s %.0f-%.0f total for all travelers\n",
		spec.BudgetCurrency, spec.BudgetMin, spec.BudgetMax)

	prefs := spec.Preferences
	if prefs.Purpose != "" {
		fmt.Fprintf(b, "Purpose: %s\n", prefs.Purpose)
	}
	if len(prefs.AccommodationTypes) > 0 {
		fmt.Fprintf(b, "Accommodation types: %s\n", strings.Join(prefs.AccommodationTypes, ", "))
	}
	if len(prefs.Interests) > 0 {
		fmt.Fprintf(b, "Interests: %s\n", strings.Join(prefs.Interests, ", "))
	}
	if prefs.Pace != "" {
		fmt.Fprintf(b, "Pace: %s\n", prefs.Pace)
	}
	if len(prefs.DietaryRestrictions) > 0 {
		fmt.Fprintf(b, "Dietary restrictions: %s\n", strings.Join(prefs.DietaryRestrictions, ", "))
	}
	if prefs.MustVisit != "" {
		fmt.Fprintf(b, "Must visit: %s\n", prefs.MustVisit)
	}
	if prefs.SpecialRequirements != "" {
		fmt.Fprintf(b, "Special requirements: %s\n", prefs.SpecialRequirements)
	}
}

const flightsSchema = `"flights": {
  "outbound": {"airline":"string","flightNumber":"string","departureAirport":"string","departureTime":"string","arrivalAirport":"string","arrivalTime":"string","duration":"string","estimatedCost":0,"notes":"string"},
  "return": {"airline":"string","flightNumber":"string","departureAirport":"string","departureTime":"string","arrivalAirport":"string","arrivalTime":"string","duration":"string","estimatedCost":0,"notes":"string"}
}`

const accommodationSchema = `"accommodation": {
  "primary": {"name":"string","type":"string","location":"string","checkIn":"YYYY-MM-DD","checkOut":"YYYY-MM-DD","pricePerNight":0,"totalCost":0,"rating":0,"amenities":["string"],"notes":"string"},
  "alternatives": [{"name":"string","type":"string","location":"string","checkIn":"YYYY-MM-DD","checkOut":"YYYY-MM-DD","pricePerNight":0,"totalCost":0,"rating":0,"amenities":["string"],"notes":"string"}]
}`

const dailyItinerarySchema = `"dailyItinerary": [
  {"day":1,"date":"YYYY-MM-DD","title":"string","activities":[{"time":"HH:MM","type":"sightseeing|meal|transport|leisure","title":"string","description":"string","location":"string","duration":"string","cost":0,"bookingRequired":false,"tips":"string"}],"dailyTotal":0}
]`

const budgetSchema = `"budgetBreakdown": {"currency":"string","flights":0,"accommodation":0,"food":0,"activities":0,"localTransport":0,"miscellaneous":0,"total":0,"perPerson":0,"dailyAverage":0}`

const travelInfoSchema = `"travelInfo": {"visa":"string","health":"string","currency":"string","language":"string","connectivity":"string","transportation":"string","tipping":"string","emergencyContacts":[{"name":"string","number":"string"}],"weather":"string","packingList":["string"],"culturalTips":["string"]}`
