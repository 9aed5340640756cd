package db_models

import (
	"github.com/google/uuid"
)

type AttemptStatus string

const (
	AttemptSuccess AttemptStatus = "success"
	AttemptError   AttemptStatus = "error"
)

// GenerationAttempt is one append-only row per model call (successful or not),
// plus one terminal row per fully failed orchestration. Never mutated after
// creation; this log is the sole observability mechanism for generation.
type GenerationAttempt struct {
	BaseModel
	TripPlanID        *uuid.UUID `gorm:"type:uuid;index"`
	Strategy          string     `gorm:"size:32"`
	AttemptIndex      int
	Prompt            string `gorm:"type:text"`
	SystemInstruction string `gorm:"type:text"`
	ModelID           string
	Temperature       float32
	MaxOutputTokens   int
	RawResponse       string `gorm:"type:text"`
	RepairedResponse  string `gorm:"type:text"`
	PromptTokens      int
	CompletionTokens  int
	TotalTokens       int
	Status            AttemptStatus `gorm:"size:16"`
	ErrorMessage      string        `gorm:"type:text"`
	ParseError        string        `gorm:"type:text"`
	WasRepaired       bool
	DurationMs        int64
}
