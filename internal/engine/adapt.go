package engine

import (
	"sort"

	"github.com/edubridge/backend/internal/models"
)

// adaptWindow is how many recent answers drive difficulty adjustment.
const adaptWindow = 3

// NextDifficulty computes the difficulty for the next request from the
// last adaptWindow answers. A full window of correct answers escalates to
// hard, at most one correct de-escalates to easy, anything else (including
// too little history) stays at medium.
func NextDifficulty(history []models.AnswerRecord) models.Difficulty {
	if len(history) < adaptWindow {
		return models.DifficultyMedium
	}

	window := history[len(history)-adaptWindow:]
	correct := 0
	for _, rec := range window {
		if rec.Correct {
			correct++
		}
	}

	switch {
	case correct == adaptWindow:
		return models.DifficultyHard
	case correct <= 1:
		return models.DifficultyEasy
	default:
		return models.DifficultyMedium
	}
}

// OrderSubjects ranks subjects weakest-first by per-subject correctness
// rate over the history. Subjects with no attempts score 0.5 so unknown
// areas land in the middle. Ties keep canonical order (stable sort).
func OrderSubjects(history []models.AnswerRecord) []models.Subject {
	ordered := append([]models.Subject(nil), models.CanonicalSubjects...)
	if len(history) == 0 {
		return ordered
	}

	attempts := make(map[models.Subject]int)
	correct := make(map[models.Subject]int)
	for _, rec := range history {
		if !models.ValidSubjects[rec.Subject] {
			continue
		}
		attempts[rec.Subject]++
		if rec.Correct {
			correct[rec.Subject]++
		}
	}

	rate := func(s models.Subject) float64 {
		if attempts[s] == 0 {
			return 0.5
		}
		return float64(correct[s]) / float64(attempts[s])
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return rate(ordered[i]) < rate(ordered[j])
	})
	return ordered
}
