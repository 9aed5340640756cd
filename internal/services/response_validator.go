package services

import (
	"fmt"
	"regexp"
	"strings"
)

// ResponseValidatorInterface is the cheap pre-parse filter that rejects
// conversational or obviously-truncated model output before a repair attempt
// is wasted on it. Nil means the text is worth parsing.
type ResponseValidatorInterface interface {
	Validate(raw string) error
}

const minItineraryResponseLength = 500

// refusal/conversational heuristics; any match rejects the whole response.
var refusalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bI will (give|provide|create|send)\b`),
	regexp.MustCompile(`(?i)\bI'll\b`),
	regexp.MustCompile(`(?i)\blet me\b`),
	regexp.MustCompile(`(?i)\bI (can|cannot|can't) provide\b`),
	regexp.MustCompile(`(?i)\bI don't have access\b`),
	regexp.MustCompile(`(?i)\bas an AI\b`),
	regexp.MustCompile(`(?i)\bsorry\b`),
	regexp.MustCompile(`(?i)\bunfortunately\b`),
}

type heuristicResponseValidator struct {
	patterns  []*regexp.Regexp
	minLength int
}

func NewResponseValidator() ResponseValidatorInterface {
	return &heuristicResponseValidator{
		patterns:  refusalPatterns,
		minLength: minItineraryResponseLength,
	}
}

func (v *heuristicResponseValidator) Validate(raw string) error {
	for _, pattern := range v.patterns {
		if pattern.MatchString(raw) {
			return fmt.Errorf("response looks conversational, not JSON: %q", snippet(raw, 80))
		}
	}

	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return fmt.Errorf("response does not start with JSON structure: %q", snippet(trimmed, 80))
	}

	if len(trimmed) < v.minLength {
		return fmt.Errorf("response too short (%d chars), likely not a complete itinerary", len(trimmed))
	}

	return nil
}

func snippet(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
