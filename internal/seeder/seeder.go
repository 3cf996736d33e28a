// Package seeder drafts new content-bank entries with the Anthropic API.
// It runs offline (see cmd/seedbank); drafted entries pass the same quality
// gate the serving engine applies before they are written out for curation
// into the bank.
package seeder

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/edubridge/backend/internal/bank"
	"github.com/edubridge/backend/internal/engine"
	"github.com/edubridge/backend/internal/models"
)

type Client struct {
	client *anthropic.Client
	model  string
}

func NewClient(model string) *Client {
	if model == "" {
		model = os.Getenv("ANTHROPIC_MODEL")
	}
	if model == "" {
		model = "claude-sonnet-4-5-20250929"
	}
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &Client{client: &client, model: model}
}

// Draft generates count candidate entries for one bank bucket and returns
// the ones that survive the quality gate.
func (c *Client) Draft(ctx context.Context, subject models.Subject, grade int, difficulty models.Difficulty, count int) ([]bank.Entry, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   4096,
		Temperature: param.NewOpt(0.8),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildUserPrompt(subject, grade, difficulty, count))),
		},
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API: %w", err)
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	candidates, err := parseCandidates(responseText)
	if err != nil {
		return nil, err
	}

	return gate(candidates, subject, grade, difficulty), nil
}

// gate runs the serving-side quality predicate over drafted candidates and
// drops failures, logging each reason.
func gate(candidates []candidate, subject models.Subject, grade int, difficulty models.Difficulty) []bank.Entry {
	var entries []bank.Entry
	for i, cand := range candidates {
		q := models.GeneratedQuestion{
			Subject:       subject,
			Question:      cand.Prompt,
			Options:       cand.Options,
			CorrectAnswer: cand.CorrectOption,
			Difficulty:    difficulty,
			GradeLevel:    grade,
		}
		if reason := engine.RejectReason(&q); reason != "" {
			log.Printf("WARN: dropping drafted question %d (%s)", i+1, reason)
			continue
		}
		entries = append(entries, bank.Entry{
			Subject:       subject,
			GradeLevel:    grade,
			Difficulty:    difficulty,
			Prompt:        cand.Prompt,
			Options:       cand.Options,
			CorrectOption: cand.CorrectOption,
		})
	}
	return entries
}
