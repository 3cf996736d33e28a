package tiers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/edubridge/backend/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

const localModelSystemPrompt = `You are a question writer for a K-12 learning app. ` +
	`Respond with strict JSON only, no prose and no markdown fences: ` +
	`{"question": "...", "options": ["...", "...", "...", "..."], "correct_answer": "...", "explanation": "..."}. ` +
	`options must contain exactly 4 distinct answers and correct_answer must match one of them verbatim.`

// LocalModelClient is the second tier: a self-hosted model behind an
// OpenAI-compatible chat-completions endpoint.
type LocalModelClient struct {
	client *openai.Client
	model  string
}

func NewLocalModelClient(baseURL, apiKey, model string) *LocalModelClient {
	if model == "" {
		model = "local-assessment"
	}
	config := openai.DefaultConfig(apiKey)
	// Base URLs for OpenAI-compatible servers are quoted both with and
	// without the /v1 suffix; normalize before appending it.
	config.BaseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1") + "/v1"
	config.HTTPClient = &http.Client{Timeout: 20 * time.Second}
	return &LocalModelClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *LocalModelClient) Name() string {
	return "local_model"
}

type localModelPayload struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

func (c *LocalModelClient) Generate(ctx context.Context, req models.QuestionRequest) (*models.GeneratedQuestion, *Hints, error) {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	userPrompt := fmt.Sprintf("Write one %s-difficulty %s question for grade %d.",
		difficulty, req.Subject, req.GradeLevel)
	if prior := previousQuestions(req.PreviousAnswers); len(prior) > 0 {
		userPrompt += "\nDo not repeat any of these questions:\n- " + strings.Join(prior, "\n- ")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: localModelSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, nil, unavailable(c.Name(), err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil, malformed(c.Name(), fmt.Errorf("no choices in response"))
	}

	cleaned := stripCodeFences(resp.Choices[0].Message.Content)
	var payload localModelPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, nil, malformed(c.Name(), fmt.Errorf("parse model output: %w", err))
	}

	return newQuestion(req, payload.Question, payload.Options, payload.CorrectAnswer, payload.Explanation), nil, nil
}

// stripCodeFences removes a ```json ... ``` wrapper that models add despite
// instructions to the contrary.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
