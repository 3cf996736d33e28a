package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/edubridge/backend/internal/bank"
	"github.com/edubridge/backend/internal/models"
	"github.com/edubridge/backend/internal/tiers"
)

type stubGenerator struct {
	name  string
	q     *models.GeneratedQuestion
	hints *tiers.Hints
	err   error
	calls int
}

func (s *stubGenerator) Name() string { return s.name }

func (s *stubGenerator) Generate(ctx context.Context, req models.QuestionRequest) (*models.GeneratedQuestion, *tiers.Hints, error) {
	s.calls++
	if s.err != nil {
		return nil, nil, s.err
	}
	q := *s.q
	return &q, s.hints, nil
}

func failing(name string) *stubGenerator {
	return &stubGenerator{name: name, err: &tiers.Error{Tier: name, Kind: tiers.KindUnavailable, Err: fmt.Errorf("connection refused")}}
}

func loadBank(t *testing.T) *bank.Bank {
	t.Helper()
	b, err := bank.Load()
	if err != nil {
		t.Fatalf("bank.Load() failed: %v", err)
	}
	return b
}

func assertWellFormed(t *testing.T, q models.GeneratedQuestion) {
	t.Helper()
	if len(q.Options) < 4 {
		t.Fatalf("expected >=4 options, got %d", len(q.Options))
	}
	seen := make(map[string]bool)
	found := false
	for _, opt := range q.Options {
		if seen[opt] {
			t.Errorf("duplicate option %q", opt)
		}
		seen[opt] = true
		if opt == q.CorrectAnswer {
			found = true
		}
	}
	if !found {
		t.Errorf("correct answer %q not among options %v", q.CorrectAnswer, q.Options)
	}
}

func TestGenerateQuestion_FirstTierWins(t *testing.T) {
	first := &stubGenerator{name: "curriculum", q: wellFormed()}
	second := &stubGenerator{name: "local_model", q: wellFormed()}

	c := NewCoordinator([]tiers.Generator{first, second}, loadBank(t), 1)
	resp := c.GenerateQuestion(context.Background(), models.QuestionRequest{
		Subject: models.SubjectMath, GradeLevel: 3,
	})

	if resp.Source != "curriculum" {
		t.Errorf("expected first tier to win, source = %q", resp.Source)
	}
	if second.calls != 0 {
		t.Errorf("lower-priority tier should not be consulted, got %d calls", second.calls)
	}
	if !c.Session().Contains(bank.Fingerprint(resp.Question.Subject, resp.Question.GradeLevel, resp.Question.Difficulty, resp.Question.Question)) {
		t.Error("served question should be registered in the session")
	}
}

func TestGenerateQuestion_FailedTierFallsThrough(t *testing.T) {
	second := &stubGenerator{name: "local_model", q: wellFormed()}

	c := NewCoordinator([]tiers.Generator{failing("curriculum"), second}, loadBank(t), 1)
	resp := c.GenerateQuestion(context.Background(), models.QuestionRequest{
		Subject: models.SubjectMath, GradeLevel: 3,
	})

	if resp.Source != "local_model" {
		t.Errorf("expected second tier after first failed, source = %q", resp.Source)
	}
}

func TestGenerateQuestion_LowQualityFallsThrough(t *testing.T) {
	junk := wellFormed()
	junk.Options = []string{"36", "40", "42", "None of the above"}
	first := &stubGenerator{name: "curriculum", q: junk}
	second := &stubGenerator{name: "local_model", q: wellFormed()}

	c := NewCoordinator([]tiers.Generator{first, second}, loadBank(t), 1)
	resp := c.GenerateQuestion(context.Background(), models.QuestionRequest{
		Subject: models.SubjectMath, GradeLevel: 3,
	})

	if resp.Source != "local_model" {
		t.Errorf("expected rejected candidate to fall through, source = %q", resp.Source)
	}
}

func TestGenerateQuestion_DuplicateFallsThrough(t *testing.T) {
	// Both tiers keep returning the same question text; the second request
	// must skip them and reach the bank.
	first := &stubGenerator{name: "curriculum", q: wellFormed()}

	c := NewCoordinator([]tiers.Generator{first}, loadBank(t), 1)
	req := models.QuestionRequest{Subject: models.SubjectMath, GradeLevel: 3}

	resp1 := c.GenerateQuestion(context.Background(), req)
	if resp1.Source != "curriculum" {
		t.Fatalf("first request: source = %q", resp1.Source)
	}

	resp2 := c.GenerateQuestion(context.Background(), req)
	if resp2.Source == "curriculum" {
		t.Errorf("second request should not serve the duplicate tier question")
	}
	if resp2.Question.Question == resp1.Question.Question {
		t.Errorf("duplicate question text served twice: %q", resp2.Question.Question)
	}
}

func TestGenerateQuestion_HintsPassThrough(t *testing.T) {
	subj := models.SubjectScience
	diff := models.DifficultyHard
	gen := &stubGenerator{
		name:  "brain",
		q:     wellFormed(),
		hints: &tiers.Hints{NextSubject: &subj, AdjustedDifficulty: &diff},
	}

	c := NewCoordinator([]tiers.Generator{gen}, loadBank(t), 1)
	resp := c.GenerateQuestion(context.Background(), models.QuestionRequest{
		Subject: models.SubjectMath, GradeLevel: 3,
	})

	if resp.NextSubject == nil || *resp.NextSubject != models.SubjectScience {
		t.Error("next-subject hint should pass through")
	}
	if resp.AdjustedDifficulty == nil || *resp.AdjustedDifficulty != models.DifficultyHard {
		t.Error("adjusted-difficulty hint should pass through")
	}
}

func TestGenerateQuestion_ColdStartAllTiersDown(t *testing.T) {
	// All upstreams unreachable: grade 3 Math must still get an exact bank
	// hit tagged with the requested subject and grade.
	gens := []tiers.Generator{failing("curriculum"), failing("local_model"), failing("brain")}

	c := NewCoordinator(gens, loadBank(t), 7)
	resp := c.GenerateQuestion(context.Background(), models.QuestionRequest{
		Subject: models.SubjectMath, GradeLevel: 3,
	})

	if resp.Source != bank.StageExact {
		t.Errorf("expected exact bank hit, source = %q", resp.Source)
	}
	if resp.Question.Subject != models.SubjectMath {
		t.Errorf("subject = %q, want Math", resp.Question.Subject)
	}
	if resp.Question.GradeLevel != 3 {
		t.Errorf("grade = %d, want 3", resp.Question.GradeLevel)
	}
	if resp.Question.Difficulty != models.DifficultyMedium {
		t.Errorf("difficulty = %q, want default medium", resp.Question.Difficulty)
	}
	assertWellFormed(t, resp.Question)
}

func TestGenerateQuestion_DedupWithinPool(t *testing.T) {
	// Math grade 1 easy has a pool of 3 bank entries: three consecutive
	// requests must yield three distinct ids.
	gens := []tiers.Generator{failing("curriculum")}
	c := NewCoordinator(gens, loadBank(t), 42)
	req := models.QuestionRequest{Subject: models.SubjectMath, GradeLevel: 1, Difficulty: models.DifficultyEasy}

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		resp := c.GenerateQuestion(context.Background(), req)
		if seen[resp.Question.ID] {
			t.Errorf("request %d: repeated id %q within pool", i+1, resp.Question.ID)
		}
		seen[resp.Question.ID] = true
	}
}

func TestGenerateQuestion_ExhaustedPoolFailsOpen(t *testing.T) {
	gens := []tiers.Generator{failing("curriculum")}
	c := NewCoordinator(gens, loadBank(t), 42)
	req := models.QuestionRequest{Subject: models.SubjectMath, GradeLevel: 1, Difficulty: models.DifficultyEasy}

	// Far more requests than the pool holds: repeats are allowed, failure
	// is not.
	for i := 0; i < 10; i++ {
		resp := c.GenerateQuestion(context.Background(), req)
		assertWellFormed(t, resp.Question)
	}
}

func TestGenerateQuestion_Totality(t *testing.T) {
	// No tiers at all and an off-the-map request still yields a usable
	// question from some cascade stage.
	c := NewCoordinator(nil, loadBank(t), 3)
	resp := c.GenerateQuestion(context.Background(), models.QuestionRequest{
		Subject: models.SubjectScience, GradeLevel: 12, Difficulty: models.DifficultyHard,
	})

	if resp.Source != bank.StageSynthesized {
		t.Errorf("expected synthesized terminal stage, source = %q", resp.Source)
	}
	if resp.Question.Subject != models.SubjectMath || resp.Question.GradeLevel != 1 {
		t.Errorf("synthesized question should be Math grade 1, got %s grade %d",
			resp.Question.Subject, resp.Question.GradeLevel)
	}
	assertWellFormed(t, resp.Question)
}
