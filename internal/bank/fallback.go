package bank

import (
	"fmt"
	"math/rand"

	"github.com/edubridge/backend/internal/models"
)

// Cascade stage names, reported as the Source of a fallback question.
const (
	StageExact         = "bank_exact"
	StageAdjacentGrade = "bank_adjacent_grade"
	StageCrossSubject  = "bank_cross_subject"
	StageSynthesized   = "synthesized"
)

// Selector runs the widening search over a Bank. It is owned by one session:
// the rand source is not safe for concurrent use.
type Selector struct {
	bank *Bank
	rng  *rand.Rand
}

// NewSelector wraps a bank with a session-owned random source. Tests pass a
// seeded source to make selection order deterministic.
func NewSelector(b *Bank, rng *rand.Rand) *Selector {
	return &Selector{bank: b, rng: rng}
}

// Pick returns a question for the request, guaranteed. used reports whether
// a fingerprint was already served this session; unused entries are
// preferred, but an exhausted pool fails open rather than blocking the
// session. The second return value names the cascade stage that produced
// the question.
func (s *Selector) Pick(req models.QuestionRequest, used func(string) bool) (models.GeneratedQuestion, string) {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	// Stage 1: exact bucket.
	if entries := s.bank.Entries(req.Subject, req.GradeLevel, difficulty); len(entries) > 0 {
		return s.choose(entries, req.Subject, req.GradeLevel, difficulty, used), StageExact
	}

	// Stage 2: same subject and difficulty, nearby then early grades.
	for _, grade := range adjacentGrades(req.GradeLevel) {
		if entries := s.bank.Entries(req.Subject, grade, difficulty); len(entries) > 0 {
			return s.choose(entries, req.Subject, grade, difficulty, used), StageAdjacentGrade
		}
	}

	// Stage 3: other subjects at the original grade, relaxing difficulty.
	for _, subject := range s.shuffledOtherSubjects(req.Subject) {
		for _, d := range difficultyLadder(difficulty) {
			if entries := s.bank.Entries(subject, req.GradeLevel, d); len(entries) > 0 {
				return s.choose(entries, subject, req.GradeLevel, d, used), StageCrossSubject
			}
		}
	}

	// Stage 4: synthesize. Cannot fail.
	return s.synthesize(), StageSynthesized
}

// choose shuffles a copy of the bucket and returns the first entry whose
// fingerprint is unused, or the first entry at all when every candidate has
// been served already.
func (s *Selector) choose(entries []Entry, subject models.Subject, grade int, difficulty models.Difficulty, used func(string) bool) models.GeneratedQuestion {
	shuffled := make([]Entry, len(entries))
	copy(shuffled, entries)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	pick := shuffled[0]
	if used != nil {
		for _, e := range shuffled {
			if !used(Fingerprint(subject, grade, difficulty, e.Prompt)) {
				pick = e
				break
			}
		}
	}

	return models.GeneratedQuestion{
		ID:            Fingerprint(subject, grade, difficulty, pick.Prompt),
		Subject:       subject,
		Question:      pick.Prompt,
		Options:       append([]string(nil), pick.Options...),
		CorrectAnswer: pick.CorrectOption,
		Difficulty:    difficulty,
		GradeLevel:    grade,
		Explanation:   fmt.Sprintf("The correct answer is %s.", pick.CorrectOption),
	}
}

// synthesize builds a simple addition question with near-miss distractors.
// The terminal stage of the cascade: no bank lookup, no external dependency.
func (s *Selector) synthesize() models.GeneratedQuestion {
	a := s.rng.Intn(9) + 1
	b := s.rng.Intn(9) + 1
	sum := a + b

	prompt := fmt.Sprintf("What is %d + %d?", a, b)
	options := []string{
		fmt.Sprintf("%d", sum),
		fmt.Sprintf("%d", sum+1),
		fmt.Sprintf("%d", sum-1),
		fmt.Sprintf("%d", sum+2),
	}
	s.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return models.GeneratedQuestion{
		ID:            Fingerprint(models.SubjectMath, 1, models.DifficultyEasy, prompt),
		Subject:       models.SubjectMath,
		Question:      prompt,
		Options:       options,
		CorrectAnswer: fmt.Sprintf("%d", sum),
		Difficulty:    models.DifficultyEasy,
		GradeLevel:    1,
		Explanation:   fmt.Sprintf("%d + %d = %d.", a, b, sum),
	}
}

// adjacentGrades is the stage-2 search order: one grade down, one grade up,
// then the early grades where bank coverage is densest.
func adjacentGrades(grade int) []int {
	candidates := []int{grade - 1, grade + 1, 1, 2, 3}
	seen := map[int]bool{grade: true}
	var out []int
	for _, g := range candidates {
		if g < 0 || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}

func (s *Selector) shuffledOtherSubjects(exclude models.Subject) []models.Subject {
	var others []models.Subject
	for _, subj := range models.CanonicalSubjects {
		if subj != exclude {
			others = append(others, subj)
		}
	}
	s.rng.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})
	return others
}

// difficultyLadder relaxes the requested difficulty toward easier content.
func difficultyLadder(d models.Difficulty) []models.Difficulty {
	ladder := []models.Difficulty{d, models.DifficultyMedium, models.DifficultyEasy}
	seen := make(map[models.Difficulty]bool, 3)
	var out []models.Difficulty
	for _, x := range ladder {
		if seen[x] {
			continue
		}
		seen[x] = true
		out = append(out, x)
	}
	return out
}
