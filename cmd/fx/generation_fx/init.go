package generation_fx

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"itinera/internal/repositories"
	"itinera/internal/services"
	"itinera/pkg/llm"
)

var Module = fx.Provide(
	ProvideGenerationConfig,
	ProvideModelClient,
	ProvideResponseValidator,
	ProvideModelCaller,
	ProvideSingleShotGenerator,
	ProvideChunkedGenerator,
	ProvideGenerationService)

// ModelConfig holds configuration for the generative model client
type ModelConfig struct {
	Provider string
	APIKey   string
	Model    string
}

// ProvideModelClient creates a model client based on environment variables
func ProvideModelClient() (llm.ClientInterface, error) {
	config := getModelConfig()

	log.Printf("Initializing %s model client with model: %s", config.Provider, config.Model)

	client, err := llm.NewClient(config.Provider, config.APIKey, config.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return client, nil
}

// ProvideGenerationConfig reads retry/backoff/token tunables from the
// environment, falling back to the documented defaults.
func ProvideGenerationConfig() services.GenerationConfig {
	cfg := services.DefaultGenerationConfig()
	cfg.MaxRetries = getEnvInt("GEN_MAX_RETRIES", cfg.MaxRetries)
	cfg.BackoffBase = time.Duration(getEnvInt("GEN_BACKOFF_BASE_SECONDS", 2)) * time.Second
	cfg.SingleShotMaxTokens = getEnvInt("GEN_SINGLE_SHOT_MAX_TOKENS", cfg.SingleShotMaxTokens)
	cfg.ChunkMaxTokens = getEnvInt("GEN_CHUNK_MAX_TOKENS", cfg.ChunkMaxTokens)
	return cfg
}

func ProvideResponseValidator() services.ResponseValidatorInterface {
	return services.NewResponseValidator()
}

func ProvideModelCaller(
	client llm.ClientInterface,
	validator services.ResponseValidatorInterface,
	cfg services.GenerationConfig,
	logger *zap.Logger,
) services.ModelCallerInterface {
	return services.NewModelCaller(client, validator, cfg, logger)
}

func ProvideSingleShotGenerator(
	caller services.ModelCallerInterface,
	cfg services.GenerationConfig,
	logger *zap.Logger,
) services.SingleShotGeneratorInterface {
	return services.NewSingleShotGenerator(caller, cfg, logger)
}

func ProvideChunkedGenerator(
	caller services.ModelCallerInterface,
	cfg services.GenerationConfig,
	logger *zap.Logger,
) services.ChunkedGeneratorInterface {
	return services.NewChunkedGenerator(caller, cfg, logger)
}

func ProvideGenerationService(
	singleShot services.SingleShotGeneratorInterface,
	chunked services.ChunkedGeneratorInterface,
	attemptRepo repositories.AttemptRepository,
	logger *zap.Logger,
) services.GenerationServiceInterface {
	return services.NewGenerationService(singleShot, chunked, attemptRepo, logger)
}

// getModelConfig reads configuration from environment variables
func getModelConfig() ModelConfig {
	provider := getEnvWithDefault("MODEL_PROVIDER", "gemini")

	var apiKey, model string
	switch provider {
	case "openai":
		apiKey = os.Getenv("OPENAI_API_KEY")
		model = getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini")
		if apiKey == "" {
			log.Fatal("OPENAI_API_KEY is required when using OpenAI provider")
		}
	default:
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
		if apiKey == "" {
			log.Fatal("GEMINI_API_KEY is required when using Gemini provider")
		}
	}

	return ModelConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	}
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
