package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbm "itinera/internal/models/db_models"
	"itinera/pkg/llm"
	"itinera/pkg/utils"
)

// GenerationConfig groups the tunables of the generation pipeline. Retry
// count and backoff base live here rather than as literals so concurrent
// requests share nothing but read-only configuration.
type GenerationConfig struct {
	MaxRetries          int
	BackoffBase         time.Duration
	Temperature         float32
	SingleShotMaxTokens int
	ChunkMaxTokens      int
	RawResponseCap      int
}

func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		MaxRetries:          3,
		BackoffBase:         2 * time.Second,
		Temperature:         0.2,
		SingleShotMaxTokens: 8192,
		ChunkMaxTokens:      4096,
		RawResponseCap:      8000,
	}
}

// AttemptRecord is the telemetry of one model call. ModelCaller returns
// these instead of writing to persistence so the retry logic stays testable
// without a database; the orchestration layer does the logging.
type AttemptRecord struct {
	Strategy          string
	AttemptIndex      int
	Prompt            string
	SystemInstruction string
	ModelID           string
	Temperature       float32
	MaxOutputTokens   int
	RawResponse       string
	RepairedResponse  string
	Usage             llm.Usage
	Status            dbm.AttemptStatus
	ErrorMessage      string
	ParseError        string
	WasRepaired       bool
	Duration          time.Duration
}

// CallInput describes one request/response unit. Target receives the parsed
// JSON; PostParse, when set, runs against the populated Target and its error
// counts as an attempt failure (and is retried like any other).
type CallInput struct {
	Strategy          string
	Prompt            string
	SystemInstruction string
	MaxOutputTokens   int
	Target            any
	Repairer          *JSONRepairer
	PostParse         func() error
}

// CallResult always carries every attempt made, including failed ones, so
// nothing is dropped from the audit trail even when Call returns an error.
type CallResult struct {
	Attempts    []AttemptRecord
	WasRepaired bool
	Usage       llm.Usage
}

type ModelCallerInterface interface {
	Call(ctx context.Context, in CallInput) (*CallResult, error)
}

type ModelCaller struct {
	client    llm.ClientInterface
	validator ResponseValidatorInterface
	cfg       GenerationConfig
	logger    *zap.Logger
}

func NewModelCaller(
	client llm.ClientInterface,
	validator ResponseValidatorInterface,
	cfg GenerationConfig,
	logger *zap.Logger,
) ModelCallerInterface {
	return &ModelCaller{
		client:    client,
		validator: validator,
		cfg:       cfg,
		logger:    logger,
	}
}

func (m *ModelCaller) Call(ctx context.Context, in CallInput) (*CallResult, error) {
	result := &CallResult{}
	var lastErr string

	for attempt := 1; attempt <= m.cfg.MaxRetries; attempt++ {
		rec := AttemptRecord{
			Strategy:          in.Strategy,
			AttemptIndex:      attempt,
			Prompt:            in.Prompt,
			SystemInstruction: in.SystemInstruction,
			ModelID:           m.client.ModelID(),
			Temperature:       m.cfg.Temperature,
			MaxOutputTokens:   in.MaxOutputTokens,
		}

		start := time.Now()
		ok := m.runAttempt(ctx, in, &rec)
		rec.Duration = time.Since(start)
		result.Attempts = append(result.Attempts, rec)

		if ok {
			result.WasRepaired = rec.WasRepaired
			result.Usage = rec.Usage
			return result, nil
		}

		lastErr = rec.ErrorMessage
		m.logger.Warn("model call attempt failed",
			zap.String("strategy", in.Strategy),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", m.cfg.MaxRetries),
			zap.String("error", rec.ErrorMessage),
		)

		if attempt < m.cfg.MaxRetries {
			// doubles per attempt: 2s, 4s, 8s with the default base
			backoff := m.cfg.BackoffBase << (attempt - 1)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return result, fmt.Errorf("generation cancelled: %w", ctx.Err())
			}
		}
	}

	return result, fmt.Errorf("%w after %d attempts: %s",
		utils.ErrAttemptsExhausted, m.cfg.MaxRetries, lastErr)
}

// runAttempt performs one model invocation and fills rec. Returns true on a
// usable parse; on failure rec.Status and rec.ErrorMessage are set.
func (m *ModelCaller) runAttempt(ctx context.Context, in CallInput, rec *AttemptRecord) bool {
	resp, err := m.client.Generate(ctx, llm.Request{
		SystemInstruction: in.SystemInstruction,
		Prompt:            in.Prompt,
		Temperature:       m.cfg.Temperature,
		MaxOutputTokens:   in.MaxOutputTokens,
	})
	if err != nil {
		rec.Status = dbm.AttemptError
		rec.ErrorMessage = err.Error()
		return false
	}

	rec.Usage = resp.Usage
	rec.RawResponse = truncateForLog(resp.Content, m.cfg.RawResponseCap)

	if resp.Content == "" {
		rec.Status = dbm.AttemptError
		rec.ErrorMessage = utils.ErrModelNoContent.Error()
		return false
	}

	if err := m.validator.Validate(resp.Content); err != nil {
		rec.Status = dbm.AttemptError
		rec.ErrorMessage = err.Error()
		return false
	}

	parseErr := json.Unmarshal([]byte(resp.Content), in.Target)
	if parseErr != nil {
		rec.ParseError = parseErr.Error()
		repaired := in.Repairer.Repair(resp.Content)
		if repairParseErr := json.Unmarshal([]byte(repaired), in.Target); repairParseErr != nil {
			rec.Status = dbm.AttemptError
			rec.ErrorMessage = fmt.Sprintf("parse failed: %v; repair also failed: %v",
				parseErr, repairParseErr)
			return false
		}
		rec.WasRepaired = true
		rec.RepairedResponse = truncateForLog(repaired, m.cfg.RawResponseCap)
	}

	if in.PostParse != nil {
		if err := in.PostParse(); err != nil {
			rec.Status = dbm.AttemptError
			rec.ErrorMessage = err.Error()
			return false
		}
	}

	rec.Status = dbm.AttemptSuccess
	return true
}

func truncateForLog(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + "...[truncated]"
}
