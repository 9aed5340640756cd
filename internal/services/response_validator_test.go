package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItineraryPayload() string {
	return `{"flights":{"outbound":{"airline":"LH"}},"pad":"` +
		strings.Repeat("x", minItineraryResponseLength) + `"}`
}

func TestValidate_AcceptsWellFormedResponse(t *testing.T) {
	v := NewResponseValidator()
	assert.NoError(t, v.Validate(validItineraryPayload()))
}

func TestValidate_RejectsRefusalPhrases(t *testing.T) {
	v := NewResponseValidator()
	padding := strings.Repeat("x", minItineraryResponseLength)

	cases := map[string]string{
		"i_will_provide": `{"note": "I will provide the itinerary shortly", "pad": "` + padding + `"}`,
		"ill":            `{"note": "I'll get that for you", "pad": "` + padding + `"}`,
		"let_me":         `{"note": "Let me put together a plan", "pad": "` + padding + `"}`,
		"cannot_provide": `{"note": "I cannot provide travel bookings", "pad": "` + padding + `"}`,
		"no_access":      `{"note": "I don't have access to live prices", "pad": "` + padding + `"}`,
		"as_an_ai":       `{"note": "as an AI language model", "pad": "` + padding + `"}`,
		"sorry":          `{"note": "Sorry, something went wrong", "pad": "` + padding + `"}`,
		"unfortunately":  `{"note": "Unfortunately flights are sold out", "pad": "` + padding + `"}`,
		"prose_preamble": "I will create a detailed itinerary for you. " + padding,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			err := v.Validate(raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "conversational")
		})
	}
}

func TestValidate_RefusalCheckIsCaseInsensitive(t *testing.T) {
	v := NewResponseValidator()
	raw := `{"note": "SORRY", "pad": "` + strings.Repeat("x", minItineraryResponseLength) + `"}`
	assert.Error(t, v.Validate(raw))
}

func TestValidate_DoesNotMatchRefusalWordsInsideLargerWords(t *testing.T) {
	v := NewResponseValidator()
	// "Illinois" must not trip the "I'll" pattern, "letters" must not trip
	// "let me".
	raw := `{"origin": "Illinois", "note": "letters and stamps museum", "pad": "` +
		strings.Repeat("x", minItineraryResponseLength) + `"}`
	assert.NoError(t, v.Validate(raw))
}

func TestValidate_RejectsNonJSONPrefix(t *testing.T) {
	v := NewResponseValidator()
	raw := "Here is your itinerary: " + validItineraryPayload()
	err := v.Validate(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not start with JSON")
}

func TestValidate_AcceptsArrayPrefix(t *testing.T) {
	v := NewResponseValidator()
	raw := `[{"pad":"` + strings.Repeat("x", minItineraryResponseLength) + `"}]`
	assert.NoError(t, v.Validate(raw))
}

func TestValidate_AllowsLeadingWhitespace(t *testing.T) {
	v := NewResponseValidator()
	raw := "\n\t  " + validItineraryPayload()
	assert.NoError(t, v.Validate(raw))
}

func TestValidate_RejectsShortResponse(t *testing.T) {
	v := NewResponseValidator()
	err := v.Validate(`{"flights": {}}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestValidate_RefusalCheckedBeforeLength(t *testing.T) {
	// A short refusal reports the refusal, not the length.
	v := NewResponseValidator()
	err := v.Validate("Sorry, I can't help with that.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conversational")
}
