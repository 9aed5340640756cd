package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbm "itinera/internal/models/db_models"
	"itinera/pkg/utils"
)

type callerTarget struct {
	Value int    `json:"value"`
	Pad   string `json:"pad"`
}

func callerInput(target *callerTarget) CallInput {
	return CallInput{
		Strategy:          "single_shot",
		Prompt:            "plan the trip",
		SystemInstruction: "you are a travel planner",
		MaxOutputTokens:   4096,
		Target:            target,
		Repairer:          NewSingleShotRepairer(),
	}
}

func TestCall_SucceedsFirstAttempt(t *testing.T) {
	client := &fakeModelClient{responses: []fakeResponse{
		{content: padJSON(`{"value": 7}`)},
	}}
	caller := testCaller(t, client, testConfig())

	var target callerTarget
	result, err := caller.Call(context.Background(), callerInput(&target))

	require.NoError(t, err)
	assert.Equal(t, 7, target.Value)
	assert.Equal(t, 1, client.callCount())
	require.Len(t, result.Attempts, 1)

	rec := result.Attempts[0]
	assert.Equal(t, dbm.AttemptSuccess, rec.Status)
	assert.Equal(t, "single_shot", rec.Strategy)
	assert.Equal(t, 1, rec.AttemptIndex)
	assert.Equal(t, "fake-model", rec.ModelID)
	assert.Equal(t, 30, rec.Usage.TotalTokens)
	assert.False(t, result.WasRepaired)
	assert.Empty(t, rec.ParseError)
}

func TestCall_RetriesTransportErrorThenSucceeds(t *testing.T) {
	client := &fakeModelClient{responses: []fakeResponse{
		{err: errors.New("connection reset")},
		{content: padJSON(`{"value": 3}`)},
	}}
	caller := testCaller(t, client, testConfig())

	var target callerTarget
	result, err := caller.Call(context.Background(), callerInput(&target))

	require.NoError(t, err)
	assert.Equal(t, 3, target.Value)
	assert.Equal(t, 2, client.callCount())
	require.Len(t, result.Attempts, 2)
	assert.Equal(t, dbm.AttemptError, result.Attempts[0].Status)
	assert.Contains(t, result.Attempts[0].ErrorMessage, "connection reset")
	assert.Equal(t, dbm.AttemptSuccess, result.Attempts[1].Status)
	assert.Equal(t, 2, result.Attempts[1].AttemptIndex)
}

func TestCall_RetriesRefusalResponse(t *testing.T) {
	client := &fakeModelClient{responses: []fakeResponse{
		{content: "Sorry, I can't plan that trip."},
		{content: padJSON(`{"value": 5}`)},
	}}
	caller := testCaller(t, client, testConfig())

	var target callerTarget
	result, err := caller.Call(context.Background(), callerInput(&target))

	require.NoError(t, err)
	assert.Equal(t, 5, target.Value)
	require.Len(t, result.Attempts, 2)
	assert.Contains(t, result.Attempts[0].ErrorMessage, "conversational")
	// the rejected raw text is still captured for the audit trail
	assert.Contains(t, result.Attempts[0].RawResponse, "Sorry")
}

func TestCall_RepairsTruncatedResponse(t *testing.T) {
	valid := padJSON(`{"value": 9}`)
	truncated := strings.TrimSuffix(valid, "}")

	client := &fakeModelClient{responses: []fakeResponse{
		{content: truncated},
	}}
	caller := testCaller(t, client, testConfig())

	var target callerTarget
	result, err := caller.Call(context.Background(), callerInput(&target))

	require.NoError(t, err)
	assert.Equal(t, 9, target.Value)
	assert.True(t, result.WasRepaired)
	require.Len(t, result.Attempts, 1)

	rec := result.Attempts[0]
	assert.Equal(t, dbm.AttemptSuccess, rec.Status)
	assert.True(t, rec.WasRepaired)
	assert.NotEmpty(t, rec.ParseError)
	assert.NotEmpty(t, rec.RepairedResponse)
}

func TestCall_EmptyContentIsAnAttemptFailure(t *testing.T) {
	client := &fakeModelClient{responses: []fakeResponse{
		{content: ""},
		{content: padJSON(`{"value": 2}`)},
	}}
	caller := testCaller(t, client, testConfig())

	var target callerTarget
	result, err := caller.Call(context.Background(), callerInput(&target))

	require.NoError(t, err)
	require.Len(t, result.Attempts, 2)
	assert.Equal(t, utils.ErrModelNoContent.Error(), result.Attempts[0].ErrorMessage)
}

func TestCall_PostParseFailureIsRetried(t *testing.T) {
	client := &fakeModelClient{responses: []fakeResponse{
		{content: padJSON(`{"value": 1}`)},
		{content: padJSON(`{"value": 10}`)},
	}}
	caller := testCaller(t, client, testConfig())

	var target callerTarget
	in := callerInput(&target)
	in.PostParse = func() error {
		if target.Value < 10 {
			return fmt.Errorf("value %d below threshold", target.Value)
		}
		return nil
	}

	result, err := caller.Call(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, 10, target.Value)
	require.Len(t, result.Attempts, 2)
	assert.Equal(t, dbm.AttemptError, result.Attempts[0].Status)
	assert.Contains(t, result.Attempts[0].ErrorMessage, "below threshold")
}

func TestCall_ExhaustsRetriesAndReportsLastError(t *testing.T) {
	client := &fakeModelClient{responses: []fakeResponse{
		{err: errors.New("model overloaded")},
	}}
	cfg := testConfig()
	caller := testCaller(t, client, cfg)

	var target callerTarget
	start := time.Now()
	result, err := caller.Call(context.Background(), callerInput(&target))
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrAttemptsExhausted)
	assert.Contains(t, err.Error(), "model overloaded")
	assert.Equal(t, cfg.MaxRetries, client.callCount())
	require.Len(t, result.Attempts, cfg.MaxRetries)
	for i, rec := range result.Attempts {
		assert.Equal(t, dbm.AttemptError, rec.Status)
		assert.Equal(t, i+1, rec.AttemptIndex)
	}
	// backoff doubles between attempts: base + 2*base with 3 retries
	assert.GreaterOrEqual(t, elapsed, 3*cfg.BackoffBase)
}

func TestCall_ContextCancellationStopsBackoff(t *testing.T) {
	client := &fakeModelClient{responses: []fakeResponse{
		{err: errors.New("timeout")},
	}}
	cfg := testConfig()
	cfg.BackoffBase = time.Second

	caller := testCaller(t, client, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var target callerTarget
	result, err := caller.Call(ctx, callerInput(&target))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "cancelled")
	// the attempt that already ran is still in the audit trail
	require.Len(t, result.Attempts, 1)
	assert.Equal(t, 1, client.callCount())
}

func TestCall_RawResponseCapTruncatesStoredPayload(t *testing.T) {
	cfg := testConfig()
	cfg.RawResponseCap = 100

	content := padJSON(`{"value": 4}`)
	require.Greater(t, len(content), cfg.RawResponseCap)

	client := &fakeModelClient{responses: []fakeResponse{{content: content}}}
	caller := testCaller(t, client, cfg)

	var target callerTarget
	result, err := caller.Call(context.Background(), callerInput(&target))

	require.NoError(t, err)
	rec := result.Attempts[0]
	assert.True(t, strings.HasSuffix(rec.RawResponse, "...[truncated]"))
	assert.Len(t, rec.RawResponse, cfg.RawResponseCap+len("...[truncated]"))
}
