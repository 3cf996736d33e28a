package tiers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/edubridge/backend/internal/models"
)

// BrainClient is the last generation tier. Unlike the others it runs its
// own adaptation model upstream and may return next-subject and
// adjusted-difficulty hints with the question.
type BrainClient struct {
	endpoint string
	http     *http.Client
}

func NewBrainClient(endpoint string) *BrainClient {
	return &BrainClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 12 * time.Second},
	}
}

func (c *BrainClient) Name() string {
	return "brain"
}

type brainRequest struct {
	GradeLevel           int     `json:"grade_level"`
	Subject              string  `json:"subject"`
	PreviousPerformance  float64 `json:"previous_performance"`
	DifficultyPreference string  `json:"difficulty_preference"`
	Adaptive             bool    `json:"adaptive"`
}

type brainResponse struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	Choices            []string `json:"choices"`
	CorrectAnswer      string   `json:"correct_answer"`
	Explanation        string   `json:"explanation"`
	NextSubject        string   `json:"next_subject"`
	AdjustedDifficulty string   `json:"adjusted_difficulty"`
}

func (c *BrainClient) Generate(ctx context.Context, req models.QuestionRequest) (*models.GeneratedQuestion, *Hints, error) {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	payload, err := json.Marshal(brainRequest{
		GradeLevel:           req.GradeLevel,
		Subject:              string(req.Subject),
		PreviousPerformance:  correctRate(req.PreviousAnswers),
		DifficultyPreference: string(difficulty),
		Adaptive:             true,
	})
	if err != nil {
		return nil, nil, malformed(c.Name(), fmt.Errorf("encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/generate-assessment-question", bytes.NewReader(payload))
	if err != nil {
		return nil, nil, unavailable(c.Name(), err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, nil, unavailable(c.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, unavailable(c.Name(), fmt.Errorf("status %d", resp.StatusCode))
	}

	var parsed brainResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, nil, malformed(c.Name(), fmt.Errorf("decode response: %w", err))
	}

	options := parsed.Options
	if len(options) == 0 {
		options = parsed.Choices
	}

	question := newQuestion(req, parsed.Question, options, parsed.CorrectAnswer, parsed.Explanation)
	return question, brainHints(parsed), nil
}

// brainHints keeps only hint values that map onto known enums; anything
// else from upstream is dropped silently.
func brainHints(parsed brainResponse) *Hints {
	var hints Hints
	if subj := models.Subject(parsed.NextSubject); models.ValidSubjects[subj] {
		hints.NextSubject = &subj
	}
	if diff := models.Difficulty(parsed.AdjustedDifficulty); models.ValidDifficulties[diff] {
		hints.AdjustedDifficulty = &diff
	}
	if hints.NextSubject == nil && hints.AdjustedDifficulty == nil {
		return nil
	}
	return &hints
}
