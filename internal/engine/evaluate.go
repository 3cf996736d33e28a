package engine

import (
	"fmt"

	"github.com/edubridge/backend/internal/models"
)

// Evaluate compares a submitted answer with the stored correct answer.
// Comparison is exact, case-sensitive string equality; an empty submission
// is an ordinary incorrect answer. The difficulty hint is the per-answer
// rule (up on correct, down on incorrect), separate from the windowed
// NextDifficulty heuristic.
func Evaluate(submitted, correct string) models.EvaluationResult {
	if submitted == correct {
		return models.EvaluationResult{
			Correct:        true,
			Explanation:    "Great job! That's the right answer.",
			NextDifficulty: models.DifficultyHard,
		}
	}
	return models.EvaluationResult{
		Correct:        false,
		Explanation:    fmt.Sprintf("Not quite. The correct answer is %s. Keep practicing!", correct),
		NextDifficulty: models.DifficultyEasy,
	}
}
