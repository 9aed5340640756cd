package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"itinera/internal/models/request_models"
	"itinera/internal/models/response_models"
)

// SingleShotGeneratorInterface produces the entire itinerary document from
// one large model call. Faster and cheaper than chunking when it works; the
// known failure mode is the model truncating mid-document on longer trips.
type SingleShotGeneratorInterface interface {
	Generate(ctx context.Context, spec *request_models.TripSpecification) (*response_models.ItineraryDocument, *CallResult, error)
}

type SingleShotGenerator struct {
	caller   ModelCallerInterface
	repairer *JSONRepairer
	cfg      GenerationConfig
	logger   *zap.Logger
}

func NewSingleShotGenerator(
	caller ModelCallerInterface,
	cfg GenerationConfig,
	logger *zap.Logger,
) SingleShotGeneratorInterface {
	return &SingleShotGenerator{
		caller:   caller,
		repairer: NewSingleShotRepairer(),
		cfg:      cfg,
		logger:   logger,
	}
}

func (g *SingleShotGenerator) Generate(
	ctx context.Context,
	spec *request_models.TripSpecification,
) (*response_models.ItineraryDocument, *CallResult, error) {

	var doc response_models.ItineraryDocument
	result, err := g.caller.Call(ctx, CallInput{
		Strategy:          "single_shot",
		Prompt:            g.buildPrompt(spec),
		SystemInstruction: plannerSystemInstruction,
		MaxOutputTokens:   g.cfg.SingleShotMaxTokens,
		Target:            &doc,
		Repairer:          g.repairer,
	})
	if err != nil {
		return nil, result, fmt.Errorf("single-shot generation: %w", err)
	}

	g.logger.Info("single-shot generation succeeded",
		zap.Int("attempts", len(result.Attempts)),
		zap.Bool("was_repaired", result.WasRepaired),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)
	return &doc, result, nil
}

func (g *SingleShotGenerator) buildPrompt(spec *request_models.TripSpecification) string {
	var b strings.Builder

	b.WriteString("Create a complete travel itinerary for the following trip.\n\n")
	writeTripContext(&b, spec)

	fmt.Fprintf(&b, "\nReturn one JSON object with exactly these five sections:\n{\n%s,\n%s,\n%s,\n%s,\n%s\n}\n",
		flightsSchema, accommodationSchema, dailyItinerarySchema, budgetSchema, travelInfoSchema)

	fmt.Fprintf(&b, "\nHard constraints:\n")
	fmt.Fprintf(&b, "- \"dailyItinerary\" has exactly %d entries, day 1..%d, one per calendar day.\n",
		spec.DurationDays(), spec.DurationDays())
	b.WriteString("- Each day's \"dailyTotal\" equals the sum of that day's activity costs.\n")
	fmt.Fprintf(&b, "- All costs in %s and consistent with the stated budget.\n", spec.BudgetCurrency)
	b.WriteString("- Return JSON only. No comments, no markdown.\n")

	return b.String()
}
