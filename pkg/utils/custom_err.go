package utils

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidDateRange  = errors.New("return date must be after departure date")
	ErrInvalidTravelers  = errors.New("at least one adult traveler is required")
	ErrInvalidBudget     = errors.New("budget max must be greater than budget min")
	ErrInvalidPage       = errors.New("invalid page parameter")
	ErrInvalidPageSize   = errors.New("invalid page size parameter")
	ErrTripPlanNotFound  = errors.New("trip plan not found")
	ErrDatabaseError     = errors.New("database error")
	ErrModelNoContent    = errors.New("model returned no content")
	ErrAttemptsExhausted = errors.New("generation attempts exhausted")
)

// GenerationFailure is returned when both generation strategies have been
// exhausted. It carries the failure of each strategy so the audit trail and
// the API layer can report which strategies were attempted and why each failed.
type GenerationFailure struct {
	SingleShotErr error
	ChunkedErr    error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("itinerary generation failed: single-shot: %v; chunked: %v",
		e.SingleShotErr, e.ChunkedErr)
}

func (e *GenerationFailure) Unwrap() error { return e.ChunkedErr }
