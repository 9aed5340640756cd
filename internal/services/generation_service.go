package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dbm "itinera/internal/models/db_models"
	"itinera/internal/models/request_models"
	"itinera/internal/models/response_models"
	"itinera/internal/repositories"
	"itinera/pkg/utils"
)

// GenerationServiceInterface orchestrates the two-tier strategy:
// TrySingleShot -> {Success: Done; Failure: TryChunked} -> {Success: Done;
// Failure: Failed}. It is also the single place that writes the attempt log.
type GenerationServiceInterface interface {
	GenerateItinerary(ctx context.Context, tripPlanID *uuid.UUID, spec *request_models.TripSpecification) (*response_models.ItineraryDocument, error)
}

type GenerationService struct {
	singleShot SingleShotGeneratorInterface
	chunked    ChunkedGeneratorInterface
	attempts   repositories.AttemptRepository
	logger     *zap.Logger
}

func NewGenerationService(
	singleShot SingleShotGeneratorInterface,
	chunked ChunkedGeneratorInterface,
	attempts repositories.AttemptRepository,
	logger *zap.Logger,
) GenerationServiceInterface {
	return &GenerationService{
		singleShot: singleShot,
		chunked:    chunked,
		attempts:   attempts,
		logger:     logger,
	}
}

func (s *GenerationService) GenerateItinerary(
	ctx context.Context,
	tripPlanID *uuid.UUID,
	spec *request_models.TripSpecification,
) (*response_models.ItineraryDocument, error) {

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	doc, singleResult, singleErr := s.singleShot.Generate(ctx, spec)
	s.logResult(ctx, tripPlanID, singleResult)
	if singleErr == nil {
		return doc, nil
	}

	s.logger.Warn("single-shot generation failed, falling back to chunked",
		zap.Error(singleErr),
	)

	doc, chunkResults, chunkedErr := s.chunked.Generate(ctx, spec)
	for _, result := range chunkResults {
		s.logResult(ctx, tripPlanID, result)
	}
	if chunkedErr == nil {
		return doc, nil
	}

	failure := &utils.GenerationFailure{
		SingleShotErr: singleErr,
		ChunkedErr:    chunkedErr,
	}
	s.logTerminalFailure(ctx, tripPlanID, failure)
	return nil, failure
}

// logResult appends one row per attempt. Inserts are independent and
// best-effort: a failed write is logged and never fails the generation.
func (s *GenerationService) logResult(ctx context.Context, tripPlanID *uuid.UUID, result *CallResult) {
	if result == nil {
		return
	}
	for _, rec := range result.Attempts {
		row := &dbm.GenerationAttempt{
			TripPlanID:        tripPlanID,
			Strategy:          rec.Strategy,
			AttemptIndex:      rec.AttemptIndex,
			Prompt:            rec.Prompt,
			SystemInstruction: rec.SystemInstruction,
			ModelID:           rec.ModelID,
			Temperature:       rec.Temperature,
			MaxOutputTokens:   rec.MaxOutputTokens,
			RawResponse:       rec.RawResponse,
			RepairedResponse:  rec.RepairedResponse,
			PromptTokens:      rec.Usage.PromptTokens,
			CompletionTokens:  rec.Usage.CompletionTokens,
			TotalTokens:       rec.Usage.TotalTokens,
			Status:            rec.Status,
			ErrorMessage:      rec.ErrorMessage,
			ParseError:        rec.ParseError,
			WasRepaired:       rec.WasRepaired,
			DurationMs:        rec.Duration.Milliseconds(),
		}
		if _, err := s.attempts.Append(ctx, row); err != nil {
			s.logger.Warn("failed to append generation attempt",
				zap.String("strategy", rec.Strategy),
				zap.Error(err),
			)
		}
	}
}

// logTerminalFailure appends the one extra row summarizing both strategy
// failures after everything has been exhausted.
func (s *GenerationService) logTerminalFailure(ctx context.Context, tripPlanID *uuid.UUID, failure *utils.GenerationFailure) {
	row := &dbm.GenerationAttempt{
		TripPlanID: tripPlanID,
		Strategy:   "terminal",
		Status:     dbm.AttemptError,
		ErrorMessage: fmt.Sprintf("single-shot: %v; chunked: %v",
			failure.SingleShotErr, failure.ChunkedErr),
	}
	if _, err := s.attempts.Append(ctx, row); err != nil {
		s.logger.Warn("failed to append terminal generation attempt", zap.Error(err))
	}
}
