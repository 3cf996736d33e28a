package engine

import (
	"testing"

	"github.com/edubridge/backend/internal/models"
)

func answers(correct ...bool) []models.AnswerRecord {
	records := make([]models.AnswerRecord, len(correct))
	for i, c := range correct {
		records[i] = models.AnswerRecord{Question: "q", Answer: "a", Correct: c, Subject: models.SubjectMath}
	}
	return records
}

func TestNextDifficulty(t *testing.T) {
	tests := []struct {
		name    string
		history []models.AnswerRecord
		want    models.Difficulty
	}{
		{"no history", nil, models.DifficultyMedium},
		{"one answer", answers(true), models.DifficultyMedium},
		{"two answers", answers(true, true), models.DifficultyMedium},
		{"last three correct", answers(false, true, true, true), models.DifficultyHard},
		{"last three incorrect", answers(true, false, false, false), models.DifficultyEasy},
		{"one of three correct", answers(true, false, false), models.DifficultyEasy},
		{"two of three correct", answers(true, true, false), models.DifficultyMedium},
		{"window ignores older answers", answers(true, true, true, false, false, false), models.DifficultyEasy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDifficulty(tt.history); got != tt.want {
				t.Errorf("NextDifficulty() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOrderSubjects_EmptyHistory(t *testing.T) {
	got := OrderSubjects(nil)
	if len(got) != len(models.CanonicalSubjects) {
		t.Fatalf("expected %d subjects, got %d", len(models.CanonicalSubjects), len(got))
	}
	for i, subj := range models.CanonicalSubjects {
		if got[i] != subj {
			t.Errorf("position %d: got %q, want canonical %q", i, got[i], subj)
		}
	}
}

func TestOrderSubjects_WeakestFirst(t *testing.T) {
	history := []models.AnswerRecord{
		{Subject: models.SubjectMath, Correct: true},
		{Subject: models.SubjectMath, Correct: true},
		{Subject: models.SubjectScience, Correct: false},
		{Subject: models.SubjectScience, Correct: false},
	}

	got := OrderSubjects(history)
	if got[0] != models.SubjectScience {
		t.Errorf("expected Science (0%% correct) first, got %q", got[0])
	}
	if got[len(got)-1] != models.SubjectMath {
		t.Errorf("expected Math (100%% correct) last, got %q", got[len(got)-1])
	}
}

func TestOrderSubjects_UnattemptedScoresMiddle(t *testing.T) {
	history := []models.AnswerRecord{
		{Subject: models.SubjectMath, Correct: true},
		{Subject: models.SubjectEnglish, Correct: false},
	}

	got := OrderSubjects(history)
	// English 0.0, then unattempted (Science, Social Studies at 0.5) in
	// canonical order, then Math 1.0.
	want := []models.Subject{
		models.SubjectEnglish,
		models.SubjectScience,
		models.SubjectSocialStudies,
		models.SubjectMath,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOrderSubjects_TiesKeepCanonicalOrder(t *testing.T) {
	history := []models.AnswerRecord{
		{Subject: models.SubjectMath, Correct: true},
		{Subject: models.SubjectMath, Correct: false},
		{Subject: models.SubjectEnglish, Correct: true},
		{Subject: models.SubjectEnglish, Correct: false},
	}

	got := OrderSubjects(history)
	// Everything is tied at 0.5, so canonical order must hold.
	for i, subj := range models.CanonicalSubjects {
		if got[i] != subj {
			t.Errorf("position %d: got %q, want canonical %q", i, got[i], subj)
		}
	}
}
