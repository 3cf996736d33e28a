// Package tiers wraps the three upstream content-generation services behind
// one interface. Each adapter owns its wire contract and HTTP client; a
// failure in one tier is a value for the coordinator to log and skip, never
// a reason to abort the pipeline.
package tiers

import (
	"context"
	"fmt"

	"github.com/edubridge/backend/internal/models"
	"github.com/google/uuid"
)

// Hints are optional adaptation suggestions a tier may return alongside a
// question. Today only the brain service produces them.
type Hints struct {
	NextSubject        *models.Subject
	AdjustedDifficulty *models.Difficulty
}

// Generator is one upstream content service.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req models.QuestionRequest) (*models.GeneratedQuestion, *Hints, error)
}

// ErrorKind classifies tier failures. Both kinds are recovered by moving to
// the next tier; the distinction only matters for logging.
type ErrorKind string

const (
	// KindUnavailable covers network errors, timeouts, and non-2xx responses.
	KindUnavailable ErrorKind = "unavailable"
	// KindMalformed covers unparsable bodies and responses missing the
	// fields the wire contract promises.
	KindMalformed ErrorKind = "malformed"
)

// Error is the uniform failure type every tier returns.
type Error struct {
	Tier string
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("tier %s (%s): %v", e.Tier, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func unavailable(tier string, err error) error {
	return &Error{Tier: tier, Kind: KindUnavailable, Err: err}
}

func malformed(tier string, err error) error {
	return &Error{Tier: tier, Kind: KindMalformed, Err: err}
}

// newQuestion maps an upstream candidate into the common question shape
// with a fresh id. Shape problems beyond the bare minimum are left to the
// quality gate so every tier is judged by the same rules.
func newQuestion(req models.QuestionRequest, question string, options []string, correct, explanation string) *models.GeneratedQuestion {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}
	return &models.GeneratedQuestion{
		ID:            uuid.NewString(),
		Subject:       req.Subject,
		Question:      question,
		Options:       options,
		CorrectAnswer: correct,
		Difficulty:    difficulty,
		GradeLevel:    req.GradeLevel,
		Explanation:   explanation,
	}
}

// previousQuestions extracts prior question texts for upstream dedup hints.
func previousQuestions(history []models.AnswerRecord) []string {
	out := make([]string, 0, len(history))
	for _, rec := range history {
		if rec.Question != "" {
			out = append(out, rec.Question)
		}
	}
	return out
}

// correctRate is the fraction of prior answers that were correct.
// No history reads as 0.5: unknown, neither strong nor weak.
func correctRate(history []models.AnswerRecord) float64 {
	if len(history) == 0 {
		return 0.5
	}
	correct := 0
	for _, rec := range history {
		if rec.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(history))
}
