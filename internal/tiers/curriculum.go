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

// CurriculumClient calls the remote curriculum generation service, the
// highest-priority tier.
type CurriculumClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewCurriculumClient(endpoint, apiKey string) *CurriculumClient {
	return &CurriculumClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 12 * time.Second},
	}
}

func (c *CurriculumClient) Name() string {
	return "curriculum"
}

type curriculumRequest struct {
	Subject           string   `json:"subject"`
	GradeLevel        int      `json:"grade_level"`
	Difficulty        float64  `json:"difficulty"`
	ContentType       string   `json:"content_type"`
	Prompt            string   `json:"prompt"`
	Count             int      `json:"count"`
	SessionID         string   `json:"session_id"`
	PreviousQuestions []string `json:"previous_questions"`
	Format            string   `json:"format"`
}

type curriculumResponse struct {
	Contents []struct {
		Content struct {
			Question    string   `json:"question"`
			Options     []string `json:"options"`
			Answer      string   `json:"answer"`
			Hint        string   `json:"hint"`
			Explanation string   `json:"explanation"`
		} `json:"content"`
	} `json:"contents"`
}

// difficultyWeight maps the difficulty enum onto the service's [0.3, 0.8]
// float scale.
func difficultyWeight(d models.Difficulty) float64 {
	switch d {
	case models.DifficultyEasy:
		return 0.3
	case models.DifficultyHard:
		return 0.8
	default:
		return 0.55
	}
}

func (c *CurriculumClient) Generate(ctx context.Context, req models.QuestionRequest) (*models.GeneratedQuestion, *Hints, error) {
	body := curriculumRequest{
		Subject:     string(req.Subject),
		GradeLevel:  req.GradeLevel,
		Difficulty:  difficultyWeight(req.Difficulty),
		ContentType: "assessment",
		Prompt: fmt.Sprintf("Write one grade %d %s multiple choice question with 4 answer options.",
			req.GradeLevel, req.Subject),
		Count:             1,
		SessionID:         req.SessionID,
		PreviousQuestions: previousQuestions(req.PreviousAnswers),
		Format:            "multiple_choice",
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, nil, malformed(c.Name(), fmt.Errorf("encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/content/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, nil, unavailable(c.Name(), err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, nil, unavailable(c.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, unavailable(c.Name(), fmt.Errorf("status %d", resp.StatusCode))
	}

	var parsed curriculumResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, nil, malformed(c.Name(), fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Contents) == 0 {
		return nil, nil, malformed(c.Name(), fmt.Errorf("empty contents"))
	}

	content := parsed.Contents[0].Content
	correct := content.Answer
	if correct == "" {
		// Some deployments put the answer in the hint field.
		correct = content.Hint
	}

	return newQuestion(req, content.Question, content.Options, correct, content.Explanation), nil, nil
}
