package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"itinera/internal/models/request_models"
	"itinera/internal/models/response_models"
	"itinera/pkg/utils"
)

// ChunkedGeneratorInterface is the fallback strategy: three independent,
// tightly scoped model calls merged into the single document shape. Trades
// latency for reliability on trips that overflow a single response.
type ChunkedGeneratorInterface interface {
	Generate(ctx context.Context, spec *request_models.TripSpecification) (*response_models.ItineraryDocument, []*CallResult, error)
}

type ChunkedGenerator struct {
	caller   ModelCallerInterface
	repairer *JSONRepairer
	cfg      GenerationConfig
	logger   *zap.Logger
}

func NewChunkedGenerator(
	caller ModelCallerInterface,
	cfg GenerationConfig,
	logger *zap.Logger,
) ChunkedGeneratorInterface {
	return &ChunkedGenerator{
		caller:   caller,
		repairer: NewChunkRepairer(),
		cfg:      cfg,
		logger:   logger,
	}
}

// parse targets for the three sub-documents
type logisticsChunk struct {
	Flights       response_models.FlightsSection       `json:"flights"`
	Accommodation response_models.AccommodationSection `json:"accommodation"`
}

type dailyChunk struct {
	DailyItinerary []response_models.DayPlan `json:"dailyItinerary"`
}

type referenceChunk struct {
	BudgetBreakdown response_models.BudgetBreakdown `json:"budgetBreakdown"`
	TravelInfo      response_models.TravelInfo      `json:"travelInfo"`
}

type chunkOutcome struct {
	name   string
	result *CallResult
	err    error
}

func (g *ChunkedGenerator) Generate(
	ctx context.Context,
	spec *request_models.TripSpecification,
) (*response_models.ItineraryDocument, []*CallResult, error) {

	var (
		logistics logisticsChunk
		daily     dailyChunk
		reference referenceChunk
	)

	// The three chunks have no ordering dependency; issue them concurrently
	// so the fallback path stays inside the caller's request deadline.
	outcomes := make(chan chunkOutcome, 3)

	go g.runChunk(ctx, outcomes, "chunk_logistics", g.buildLogisticsPrompt(spec), &logistics, nil)
	go g.runChunk(ctx, outcomes, "chunk_daily", g.buildDailyPrompt(spec), &daily, func() error {
		if got, want := len(daily.DailyItinerary), spec.DurationDays(); got != want {
			return fmt.Errorf("daily itinerary has %d day(s), expected %d", got, want)
		}
		return nil
	})
	go g.runChunk(ctx, outcomes, "chunk_reference", g.buildReferencePrompt(spec), &reference, nil)

	results := make([]*CallResult, 0, 3)
	var failures []string
	for i := 0; i < 3; i++ {
		outcome := <-outcomes
		if outcome.result != nil {
			results = append(results, outcome.result)
		}
		if outcome.err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", outcome.name, outcome.err))
		}
	}

	if len(failures) > 0 {
		return nil, results, fmt.Errorf("chunked generation: %s", strings.Join(failures, "; "))
	}

	g.logger.Info("chunked generation succeeded",
		zap.Int("days", len(daily.DailyItinerary)),
	)

	// Merge only; budget totals are taken as generated, not recomputed from
	// the daily costs the other chunk produced.
	return &response_models.ItineraryDocument{
		Flights:         logistics.Flights,
		Accommodation:   logistics.Accommodation,
		DailyItinerary:  daily.DailyItinerary,
		BudgetBreakdown: reference.BudgetBreakdown,
		TravelInfo:      reference.TravelInfo,
	}, results, nil
}

func (g *ChunkedGenerator) runChunk(
	ctx context.Context,
	outcomes chan<- chunkOutcome,
	name, prompt string,
	target any,
	postParse func() error,
) {
	result, err := g.caller.Call(ctx, CallInput{
		Strategy:          name,
		Prompt:            prompt,
		SystemInstruction: plannerSystemInstruction,
		MaxOutputTokens:   g.cfg.ChunkMaxTokens,
		Target:            target,
		Repairer:          g.repairer,
		PostParse:         postParse,
	})
	outcomes <- chunkOutcome{name: name, result: result, err: err}
}

func (g *ChunkedGenerator) buildLogisticsPrompt(spec *request_models.TripSpecification) string {
	var b strings.Builder
	b.WriteString("Plan the flights and accommodation for the following trip.\n\n")
	writeTripContext(&b, spec)
	fmt.Fprintf(&b, "\nReturn one JSON object with exactly these two sections:\n{\n%s,\n%s\n}\n",
		flightsSchema, accommodationSchema)
	b.WriteString("\nReturn JSON only. No comments, no markdown.\n")
	return b.String()
}

func (g *ChunkedGenerator) buildDailyPrompt(spec *request_models.TripSpecification) string {
	days := spec.DurationDays()
	dates := utils.EnumerateTripDates(spec.DepartureDate, days)

	var b strings.Builder
	fmt.Fprintf(&b, "Plan the day-by-day itinerary for the following %d-day trip.\n\n", days)
	writeTripContext(&b, spec)

	// Every date is spelled out because models silently drop days on long
	// trips when given only a count.
	fmt.Fprintf(&b, "\nEmit exactly one entry per calendar day, in this order:\n")
	for i, date := range dates {
		fmt.Fprintf(&b, "- day %d: %s\n", i+1, date)
	}

	fmt.Fprintf(&b, "\nReturn one JSON object with exactly this section:\n{\n%s\n}\n", dailyItinerarySchema)
	fmt.Fprintf(&b, "\nHard constraints:\n")
	fmt.Fprintf(&b, "- \"dailyItinerary\" has exactly %d entries matching the dates listed above.\n", days)
	b.WriteString("- Each day's \"dailyTotal\" equals the sum of that day's activity costs.\n")
	b.WriteString("- Return JSON only. No comments, no markdown.\n")
	return b.String()
}

func (g *ChunkedGenerator) buildReferencePrompt(spec *request_models.TripSpecification) string {
	var b strings.Builder
	b.WriteString("Produce the budget breakdown and destination travel information for the following trip.\n\n")
	writeTripContext(&b, spec)
	fmt.Fprintf(&b, "\nReturn one JSON object with exactly these two sections:\n{\n%s,\n%s\n}\n",
		budgetSchema, travelInfoSchema)
	fmt.Fprintf(&b, "\nAll amounts in %s; \"total\" equals the sum of the categories.\n", spec.BudgetCurrency)
	b.WriteString("Return JSON only. No comments, no markdown.\n")
	return b.String()
}
